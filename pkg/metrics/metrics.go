package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "careerbridge", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "careerbridge", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	UploadsAccepted = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "careerbridge", Name: "uploads_accepted_total", Help: "Number of accepted document uploads by field."},
		[]string{"field"},
	)
	UploadsRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "careerbridge", Name: "uploads_rejected_total", Help: "Number of rejected document uploads by reason."},
		[]string{"reason"},
	)
	StatusTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "careerbridge", Name: "application_status_transitions_total", Help: "Number of successful application status transitions by target status."},
		[]string{"status"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(UploadsAccepted)
	reg.MustRegister(UploadsRejected)
	reg.MustRegister(StatusTransitions)
}
