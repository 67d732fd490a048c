package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateLike_InvalidTarget(t *testing.T) {
	l := &Like{ID: "like-1", TargetType: "video", TargetID: "p-1", IPHash: "abc"}
	assert.ErrorIs(t, ValidateLike(l), ErrInvalidTarget)
}

func TestValidateLike_Valid(t *testing.T) {
	l := &Like{ID: "like-1", TargetType: LikeTargetProject, TargetID: "p-1", IPHash: "abc"}
	assert.NoError(t, ValidateLike(l))
}

func TestValidateComment_MissingAuthor(t *testing.T) {
	c := &Comment{ID: "c-1", ProjectID: "p-1", Content: "great work"}
	assert.Error(t, ValidateComment(c))
}

func TestValidateMessage_BadEmail(t *testing.T) {
	m := &Message{ID: "m-1", Name: "Jo", Email: "not-an-email", Subject: "hi", Content: "hello"}
	assert.Error(t, ValidateMessage(m))
}

func TestValidateAnalyticsEvent_BadType(t *testing.T) {
	e := &AnalyticsEvent{ID: "a-1", EventType: "page view!"}
	assert.ErrorIs(t, ValidateAnalyticsEvent(e), ErrInvalidEventType)
}

func TestValidateAnalyticsEvent_Valid(t *testing.T) {
	e := &AnalyticsEvent{ID: "a-1", EventType: "cv_download"}
	assert.NoError(t, ValidateAnalyticsEvent(e))
}
