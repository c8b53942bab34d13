package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/careerbridge/careerbridge/backend/go-services/internal/upload"
	"github.com/careerbridge/careerbridge/backend/go-services/internal/users"
	"github.com/careerbridge/careerbridge/backend/go-services/pkg/logger"
	"github.com/careerbridge/careerbridge/backend/go-services/pkg/metrics"
)

// RegisterUploadRoutes registers the document intake endpoint. Uploads are
// multi-part with a file part named either "profilePhoto" or "file"
// (resume); the per-field policy lives in internal/upload. userSvc may be
// nil — profile references are then not updated.
func RegisterUploadRoutes(r *gin.Engine, svc *upload.Service, userSvc *users.Service) {
	r.POST("/api/v1/upload", func(c *gin.Context) {
		// cap the whole body slightly above the per-file limit so oversized
		// streams abort early instead of buffering unbounded input
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, upload.MaxBytes+64*1024)

		mpr, err := c.Request.MultipartReader()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "expecting multipart form"})
			return
		}

		for {
			part, err := mpr.NextPart()
			if err == io.EOF {
				break
			}
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "malformed multipart form"})
				return
			}
			if part.FileName() == "" {
				continue // plain form value, not a file
			}

			field := part.FormName()
			contentType := part.Header.Get("Content-Type")
			url, err := svc.Store(c.Request.Context(), field, part.FileName(), contentType, part, -1)
			part.Close()
			if err != nil {
				status, reason := uploadErrorStatus(err)
				metrics.UploadsRejected.WithLabelValues(reason).Inc()
				msg := err.Error()
				if status == http.StatusInternalServerError {
					// internal detail stays in the log, not the response
					logger.Warnf("upload of field %s failed: %v", field, err)
					msg = "Upload failed"
				}
				c.JSON(status, gin.H{"success": false, "message": msg})
				return
			}

			metrics.UploadsAccepted.WithLabelValues(field).Inc()
			if userSvc != nil {
				if sub := subjectFromClaims(c); sub != "" {
					var perr error
					switch field {
					case upload.FieldProfilePhoto:
						perr = userSvc.SetProfilePhoto(c.Request.Context(), sub, url)
					case upload.FieldResume:
						perr = userSvc.SetResume(c.Request.Context(), sub, url)
					}
					if perr != nil {
						logger.Warnf("failed to attach %s to profile %s: %v", field, sub, perr)
					}
				}
			}

			c.JSON(http.StatusCreated, gin.H{
				"success": true,
				"message": "File uploaded successfully",
				"field":   field,
				"url":     url,
			})
			return
		}

		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "no file in request"})
	})
}

func uploadErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, upload.ErrUnexpectedField):
		return http.StatusUnprocessableEntity, "unexpected_field"
	case upload.IsUnsupportedMediaType(err):
		return http.StatusUnsupportedMediaType, "unsupported_media_type"
	case errors.Is(err, upload.ErrPayloadTooLarge):
		return http.StatusRequestEntityTooLarge, "payload_too_large"
	default:
		return http.StatusInternalServerError, "storage_error"
	}
}

func subjectFromClaims(c *gin.Context) string {
	if v, ok := c.Get("claims"); ok {
		if cm, ok2 := v.(map[string]interface{}); ok2 {
			if sub, ok3 := cm["sub"].(string); ok3 {
				return sub
			}
		}
	}
	return ""
}
