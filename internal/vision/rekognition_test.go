package vision

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockFaceAPI struct {
	mock.Mock
}

func (m *MockFaceAPI) DetectFaces(ctx context.Context, input *rekognition.DetectFacesInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectFacesOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rekognition.DetectFacesOutput), args.Error(1)
}

func TestDetectEmotions_SortsByConfidence(t *testing.T) {
	mockAPI := new(MockFaceAPI)
	client := NewClientWithAPI(mockAPI)

	mockAPI.On("DetectFaces", mock.Anything, mock.Anything).Return(&rekognition.DetectFacesOutput{
		FaceDetails: []types.FaceDetail{
			{
				Emotions: []types.Emotion{
					{Type: types.EmotionNameCalm, Confidence: aws.Float32(12.3)},
					{Type: types.EmotionNameHappy, Confidence: aws.Float32(85.6)},
					{Type: types.EmotionNameSad, Confidence: aws.Float32(2.1)},
				},
				AgeRange: &types.AgeRange{Low: aws.Int32(25), High: aws.Int32(35)},
				Gender:   &types.Gender{Value: types.GenderTypeMale, Confidence: aws.Float32(99.0)},
				Smile:    &types.Smile{Value: true},
			},
		},
	}, nil)

	detection, err := client.DetectEmotions(context.Background(), []byte("jpeg-bytes"))
	require.NoError(t, err)

	require.NotNil(t, detection.Dominant)
	assert.Equal(t, "HAPPY", detection.Dominant.Type)
	assert.Equal(t, "😄", detection.Dominant.Emoji)
	assert.Equal(t, []string{"HAPPY", "CALM", "SAD"}, []string{
		detection.Emotions[0].Type, detection.Emotions[1].Type, detection.Emotions[2].Type,
	})
	assert.Equal(t, int32(25), detection.Face.AgeLow)
	assert.True(t, detection.Face.Smile)
	assert.Equal(t, 1, detection.FacesDetected)
}

func TestDetectEmotions_NoFace(t *testing.T) {
	mockAPI := new(MockFaceAPI)
	client := NewClientWithAPI(mockAPI)

	mockAPI.On("DetectFaces", mock.Anything, mock.Anything).Return(&rekognition.DetectFacesOutput{}, nil)

	detection, err := client.DetectEmotions(context.Background(), []byte("jpeg-bytes"))
	require.NoError(t, err)
	assert.Equal(t, 0, detection.FacesDetected)
	assert.Nil(t, detection.Dominant)
}

func TestDetectEmotions_APIError(t *testing.T) {
	mockAPI := new(MockFaceAPI)
	client := NewClientWithAPI(mockAPI)

	mockAPI.On("DetectFaces", mock.Anything, mock.Anything).Return(nil, errors.New("throttled"))

	detection, err := client.DetectEmotions(context.Background(), []byte("jpeg-bytes"))
	assert.Nil(t, detection)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")
}
