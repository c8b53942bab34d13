package upload

import (
	"errors"
	"fmt"
	"strings"
)

// Multipart field names recognized by the intake policy. Anything else is
// rejected before a single byte reaches storage.
const (
	FieldProfilePhoto = "profilePhoto"
	FieldResume       = "file"
)

// MaxBytes is the hard cap applied to every upload regardless of field.
const MaxBytes int64 = 5 * 1024 * 1024

var (
	ErrUnexpectedField = errors.New("Unexpected field")
	ErrPayloadTooLarge = fmt.Errorf("File too large (limit %d bytes)", MaxBytes)
	ErrPhotoNotImage   = errors.New("Only image files are allowed for profile photos")
	ErrResumeNotPDF    = errors.New("Only PDF files are allowed for resumes")
)

// IsUnsupportedMediaType reports whether err is one of the per-field media
// type rejections. Handlers map these to 415.
func IsUnsupportedMediaType(err error) bool {
	return errors.Is(err, ErrPhotoNotImage) || errors.Is(err, ErrResumeNotPDF)
}

// Classify applies the per-field intake policy to an incoming document.
// Check order is field, then media type, then size; the transport layer may
// still abort oversized bodies earlier via a limited reader, so callers must
// not rely on size being evaluated last.
func Classify(fieldName, mimeType string, byteSize int64) error {
	switch fieldName {
	case FieldProfilePhoto:
		if !strings.HasPrefix(mimeType, "image/") {
			return ErrPhotoNotImage
		}
	case FieldResume:
		if mimeType != "application/pdf" {
			return ErrResumeNotPDF
		}
	default:
		return ErrUnexpectedField
	}
	if byteSize > MaxBytes {
		return ErrPayloadTooLarge
	}
	return nil
}
