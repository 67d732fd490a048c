package vision

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
)

const defaultDetectTimeout = 10 * time.Second

// emotionEmoji maps Rekognition emotion labels to display emoji
var emotionEmoji = map[string]string{
	"HAPPY":     "😄",
	"SAD":       "😢",
	"ANGRY":     "😠",
	"SURPRISED": "😲",
	"CALM":      "😐",
	"DISGUSTED": "🤢",
	"CONFUSED":  "😕",
	"FEAR":      "😨",
}

// Emotion is one detected emotion with its confidence score
type Emotion struct {
	Type       string  `json:"type"`
	Emoji      string  `json:"emoji"`
	Confidence float64 `json:"confidence"`
}

// FaceInfo carries secondary attributes of the most confident face
type FaceInfo struct {
	AgeLow           int32   `json:"age_low"`
	AgeHigh          int32   `json:"age_high"`
	Gender           string  `json:"gender"`
	GenderConfidence float64 `json:"gender_confidence"`
	Smile            bool    `json:"smile"`
	Eyeglasses       bool    `json:"eyeglasses"`
}

// Detection is the full result for one image
type Detection struct {
	Dominant      *Emotion  `json:"dominant_emotion"`
	Emotions      []Emotion `json:"emotions"`
	Face          FaceInfo  `json:"face_info"`
	FacesDetected int       `json:"faces_detected"`
}

// FaceAPI defines the interface for face detection calls
type FaceAPI interface {
	DetectFaces(ctx context.Context, input *rekognition.DetectFacesInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectFacesOutput, error)
}

// Client wraps AWS Rekognition face detection
type Client struct {
	api     FaceAPI
	timeout time.Duration
}

type ClientConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Timeout         time.Duration
}

// NewClient creates a Rekognition client with the given configuration
func NewClient(ctx context.Context, cfg ClientConfig) (*Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultDetectTimeout
	}

	return &Client{
		api:     rekognition.NewFromConfig(awsCfg),
		timeout: timeout,
	}, nil
}

// NewClientWithAPI creates a client around an existing API implementation (for testing)
func NewClientWithAPI(api FaceAPI) *Client {
	return &Client{api: api, timeout: defaultDetectTimeout}
}

// DetectEmotions runs face detection on raw image bytes and returns the
// emotions of the most confident face, sorted by descending confidence.
// Returns nil (no error is wrapped here) when no face is present; the
// caller decides how to surface that.
func (c *Client) DetectEmotions(ctx context.Context, imageBytes []byte) (*Detection, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	out, err := c.api.DetectFaces(ctx, &rekognition.DetectFacesInput{
		Image:      &types.Image{Bytes: imageBytes},
		Attributes: []types.Attribute{types.AttributeAll},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to detect faces: %w", err)
	}

	if len(out.FaceDetails) == 0 {
		return &Detection{FacesDetected: 0}, nil
	}

	face := out.FaceDetails[0]
	emotions := make([]Emotion, 0, len(face.Emotions))
	for _, e := range face.Emotions {
		label := string(e.Type)
		emoji, ok := emotionEmoji[label]
		if !ok {
			emoji = "🙂"
		}
		emotions = append(emotions, Emotion{
			Type:       label,
			Emoji:      emoji,
			Confidence: round1(aws.ToFloat32(e.Confidence)),
		})
	}
	sort.Slice(emotions, func(i, j int) bool {
		return emotions[i].Confidence > emotions[j].Confidence
	})

	detection := &Detection{
		Emotions:      emotions,
		FacesDetected: len(out.FaceDetails),
	}
	if len(emotions) > 0 {
		detection.Dominant = &emotions[0]
	}

	if face.AgeRange != nil {
		detection.Face.AgeLow = aws.ToInt32(face.AgeRange.Low)
		detection.Face.AgeHigh = aws.ToInt32(face.AgeRange.High)
	}
	if face.Gender != nil {
		detection.Face.Gender = string(face.Gender.Value)
		detection.Face.GenderConfidence = round1(aws.ToFloat32(face.Gender.Confidence))
	}
	if face.Smile != nil {
		detection.Face.Smile = face.Smile.Value
	}
	if face.Eyeglasses != nil {
		detection.Face.Eyeglasses = face.Eyeglasses.Value
	}

	return detection, nil
}

func round1(v float32) float64 {
	return float64(int(v*10+0.5)) / 10
}
