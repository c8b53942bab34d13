package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/careerbridge/careerbridge/backend/go-services/internal/application/service"
	"github.com/careerbridge/careerbridge/backend/go-services/internal/posting"
	"github.com/careerbridge/careerbridge/backend/go-services/internal/review"
	"github.com/careerbridge/careerbridge/backend/go-services/internal/rostercache"
	"github.com/careerbridge/careerbridge/backend/go-services/pkg/logger"
)

// PostingStore is the posting-lifecycle collaborator surface this handler
// needs. Satisfied by both posting repositories.
type PostingStore interface {
	Get(id string) (*posting.Posting, error)
	Create(p *posting.Posting) (string, error)
}

// Handler serves the application review API: submitting to a posting,
// accepting/rejecting applicants and the reviewer roster.
type Handler struct {
	svc      *service.Service
	postings PostingStore
	identity review.IdentityResolver
	cache    *rostercache.Cache
}

// New creates a review handler. identity and cache may be nil (roster rows
// then carry placeholder identities and every read rebuilds from the store).
func New(svc *service.Service, postings PostingStore, identity review.IdentityResolver, cache *rostercache.Cache) *Handler {
	return &Handler{svc: svc, postings: postings, identity: identity, cache: cache}
}

// Register wires the review routes onto the given group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/applications/:id/status", h.UpdateStatus)
	rg.GET("/postings/:id/applicants", h.Applicants)
	rg.POST("/postings/:id/apply", h.Apply)
}

// UpdateStatus accepts {"status": "Accepted"|"Rejected"} (case-insensitive)
// and returns the canonical updated application, which is also patched into
// the cached roster by id.
func (h *Handler) UpdateStatus(c *gin.Context) {
	id := c.Param("id")
	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "status is required"})
		return
	}

	app, err := h.svc.Transition(c.Request.Context(), id, req.Status, actorSub(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Application not found"})
		case errors.Is(err, service.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Status update failed"})
		}
		return
	}

	if h.cache != nil {
		if _, err := h.cache.PatchStatus(c.Request.Context(), app.PostingID, app.ID, app.Status); err != nil {
			logger.Warnf("roster cache patch failed for posting %s: %v", app.PostingID, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     "Status updated successfully",
		"application": app,
	})
}

// Applicants returns the roster projection for a posting, keyed by the
// posting kind ("job" or "internship") the way clients expect it.
func (h *Handler) Applicants(c *gin.Context) {
	id := c.Param("id")
	p, err := h.postings.Get(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Posting not found"})
		return
	}

	ctx := c.Request.Context()
	var roster *review.Roster
	if h.cache != nil {
		if cached, err := h.cache.Get(ctx, p.ID); err == nil && cached != nil {
			roster = cached
		}
	}
	if roster == nil {
		apps, err := h.svc.ListByPosting(ctx, p.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to load applicants"})
			return
		}
		roster = review.Build(ctx, p, apps, h.identity)
		if h.cache != nil {
			if err := h.cache.Put(ctx, roster); err != nil {
				logger.Warnf("roster cache put failed for posting %s: %v", p.ID, err)
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		string(p.Kind): gin.H{
			"id":           p.ID,
			"kind":         p.Kind,
			"title":        p.Title,
			"location":     p.Location,
			"description":  p.Description,
			"salary":       p.Salary,
			"createdAt":    p.CreatedAt,
			"applications": roster.Entries,
			"counts":       roster.Counts,
		},
	})
}

// Apply submits the calling student to a posting with a pending status.
func (h *Handler) Apply(c *gin.Context) {
	id := c.Param("id")
	p, err := h.postings.Get(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Posting not found"})
		return
	}

	var req struct {
		ApplicantSub string `json:"applicantSub"`
		ResumeURL    string `json:"resumeUrl"`
	}
	_ = c.ShouldBindJSON(&req)
	sub := actorSub(c)
	if sub == "" {
		sub = req.ApplicantSub
	}
	if sub == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "applicant identity is required"})
		return
	}

	app, err := h.svc.Apply(c.Request.Context(), sub, req.ResumeURL, p)
	if err != nil {
		if errors.Is(err, service.ErrAlreadyApplied) {
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": "You have already applied to this posting"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to apply"})
		return
	}

	// the cached roster no longer matches the store
	if h.cache != nil {
		_ = h.cache.Invalidate(c.Request.Context(), p.ID)
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Applied successfully", "application": app})
}

// actorSub extracts the authenticated subject when auth middleware ran.
func actorSub(c *gin.Context) string {
	if v, ok := c.Get("claims"); ok {
		if cm, ok2 := v.(map[string]interface{}); ok2 {
			if sub, ok3 := cm["sub"].(string); ok3 {
				return sub
			}
		}
	}
	return ""
}
