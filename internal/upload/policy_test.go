package upload

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassify_ProfilePhotoAcceptsImages(t *testing.T) {
	require.NoError(t, Classify(FieldProfilePhoto, "image/png", 1024))
	require.NoError(t, Classify(FieldProfilePhoto, "image/jpeg", 1024))
}

func TestClassify_ProfilePhotoRejectsNonImages(t *testing.T) {
	err := Classify(FieldProfilePhoto, "application/pdf", 1024)
	require.ErrorIs(t, err, ErrPhotoNotImage)
	require.True(t, IsUnsupportedMediaType(err))

	require.ErrorIs(t, Classify(FieldProfilePhoto, "text/plain", 1024), ErrPhotoNotImage)
}

func TestClassify_ResumeAcceptsOnlyPDF(t *testing.T) {
	// Scenario: 2 MB PDF on the resume field is accepted
	require.NoError(t, Classify(FieldResume, "application/pdf", 2*1024*1024))

	// Scenario: 1 MB PNG on the resume field is rejected with the resume message
	err := Classify(FieldResume, "image/png", 1024*1024)
	require.ErrorIs(t, err, ErrResumeNotPDF)
	require.EqualError(t, err, "Only PDF files are allowed for resumes")
	require.True(t, IsUnsupportedMediaType(err))
}

func TestClassify_UnknownFieldRejected(t *testing.T) {
	err := Classify("coverLetter", "application/pdf", 1024)
	require.ErrorIs(t, err, ErrUnexpectedField)
	require.False(t, IsUnsupportedMediaType(err))
}

func TestClassify_SizeCapAppliesToEveryField(t *testing.T) {
	over := MaxBytes + 1
	require.ErrorIs(t, Classify(FieldResume, "application/pdf", over), ErrPayloadTooLarge)
	require.ErrorIs(t, Classify(FieldProfilePhoto, "image/png", over), ErrPayloadTooLarge)

	// exactly at the limit is fine
	require.NoError(t, Classify(FieldResume, "application/pdf", MaxBytes))
}

func TestClassify_FieldCheckPrecedesTypeAndSize(t *testing.T) {
	// unknown field wins even when the payload would also be oversized
	err := Classify("avatar", "application/octet-stream", MaxBytes+1)
	require.ErrorIs(t, err, ErrUnexpectedField)
}
