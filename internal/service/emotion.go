package service

import (
	"context"
	"encoding/base64"
	"strings"

	"github.com/berthonipasso/portfolio-api/internal/domain"
	"github.com/berthonipasso/portfolio-api/internal/vision"
)

// FaceDetector analyzes an image and returns detected emotions.
type FaceDetector interface {
	DetectEmotions(ctx context.Context, imageBytes []byte) (*vision.Detection, error)
}

type EmotionService struct {
	detector FaceDetector
}

func NewEmotionService(detector FaceDetector) *EmotionService {
	return &EmotionService{detector: detector}
}

// Analyze decodes a base64 image (with or without a data-URL prefix) and
// runs face detection. No image with a detectable face is a domain error,
// not a provider failure.
func (s *EmotionService) Analyze(ctx context.Context, imageBase64 string) (*vision.Detection, error) {
	imageBase64 = strings.TrimSpace(imageBase64)
	if imageBase64 == "" {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "image is required")
	}

	// Browsers send data URLs like "data:image/jpeg;base64,<payload>".
	if idx := strings.Index(imageBase64, ","); idx != -1 && strings.HasPrefix(imageBase64, "data:") {
		imageBase64 = imageBase64[idx+1:]
	}

	imageBytes, err := base64.StdEncoding.DecodeString(imageBase64)
	if err != nil {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "invalid base64 image")
	}

	detection, err := s.detector.DetectEmotions(ctx, imageBytes)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeVision, "emotion detection failed", err)
	}
	if detection.FacesDetected == 0 {
		return nil, domain.ErrNoFaceDetected
	}
	return detection, nil
}
