package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/temcen/closetmood/internal/engine"
	"github.com/temcen/closetmood/pkg/models"
)

type MockWardrobeService struct {
	mock.Mock
}

func (m *MockWardrobeService) ListGarments(ctx context.Context, userID string) ([]models.Garment, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Garment), args.Error(1)
}

func (m *MockWardrobeService) GetGarment(ctx context.Context, userID, garmentID string) (*models.Garment, error) {
	args := m.Called(ctx, userID, garmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Garment), args.Error(1)
}

func (m *MockWardrobeService) CreateGarment(ctx context.Context, userID string, req *models.GarmentRequest) (*models.Garment, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Garment), args.Error(1)
}

func (m *MockWardrobeService) UpdateGarment(ctx context.Context, userID, garmentID string, req *models.GarmentRequest) (*models.Garment, error) {
	args := m.Called(ctx, userID, garmentID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Garment), args.Error(1)
}

func (m *MockWardrobeService) DeleteGarment(ctx context.Context, userID, garmentID string) error {
	args := m.Called(ctx, userID, garmentID)
	return args.Error(0)
}

type MockShownRecorder struct {
	mock.Mock
}

func (m *MockShownRecorder) RecordShown(ctx context.Context, userID string, outfits []models.Outfit) error {
	args := m.Called(ctx, userID, outfits)
	return args.Error(0)
}

func closet() []models.Garment {
	cotton := "cotton"
	return []models.Garment{
		{ID: "top-1", Category: models.CategoryTop, PrimaryColor: "white", Material: &cotton, Season: models.SeasonAllSeason},
		{ID: "top-2", Category: models.CategoryTop, PrimaryColor: "navy", Season: models.SeasonAllSeason},
		{ID: "bottom-1", Category: models.CategoryBottom, PrimaryColor: "black", Season: models.SeasonAllSeason},
		{ID: "bottom-2", Category: models.CategoryBottom, PrimaryColor: "beige", Season: models.SeasonAllSeason},
		{ID: "bottom-3", Category: models.CategoryBottom, PrimaryColor: "gray", Season: models.SeasonAllSeason},
		{ID: "shoes-1", Category: models.CategoryShoes, PrimaryColor: "brown", Season: models.SeasonAllSeason},
	}
}

func newOutfitService(wardrobe WardrobeServiceInterface, shown ShownRecorder, persist bool) *OutfitService {
	cfg := testConfig()
	cfg.Recommendation.DefaultLimit = 3
	cfg.Recommendation.MaxLimit = 4
	cfg.Recommendation.PersistShown = persist
	eng := engine.NewWithClock(func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) })
	return NewOutfitService(wardrobe, eng, shown, NewMetricsCollector(prometheus.NewRegistry()), cfg, testLogger())
}

func TestOutfitService_Recommend(t *testing.T) {
	wardrobe := new(MockWardrobeService)
	shown := new(MockShownRecorder)
	svc := newOutfitService(wardrobe, shown, true)

	wardrobe.On("ListGarments", mock.Anything, "user-1").Return(closet(), nil)
	shown.On("RecordShown", mock.Anything, "user-1", mock.MatchedBy(func(o []models.Outfit) bool {
		return len(o) == 3
	})).Return(nil)

	out, err := svc.Recommend(context.Background(), models.RecommendationInput{
		UserID: "user-1", Mood: models.MoodCasual, Weather: models.WeatherSunny,
	})
	require.NoError(t, err)

	assert.Len(t, out.Outfits, 3)
	assert.Equal(t, 3, out.TotalGenerated)
	for i := 1; i < len(out.Outfits); i++ {
		assert.GreaterOrEqual(t, out.Outfits[i-1].Score, out.Outfits[i].Score)
	}
	assert.Contains(t, out.Explanation, "sunny")
	wardrobe.AssertExpectations(t)
	shown.AssertExpectations(t)
}

func TestOutfitService_LimitClamping(t *testing.T) {
	wardrobe := new(MockWardrobeService)
	svc := newOutfitService(wardrobe, nil, false)
	wardrobe.On("ListGarments", mock.Anything, "user-1").Return(closet(), nil)

	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"default", 0, 3},
		{"within bounds", 2, 2},
		{"above max", 30, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := svc.Recommend(context.Background(), models.RecommendationInput{UserID: "user-1", LimitCount: tt.limit})
			require.NoError(t, err)
			assert.Len(t, out.Outfits, tt.want)
		})
	}
}

func TestOutfitService_EmptyWardrobeSkipsShown(t *testing.T) {
	wardrobe := new(MockWardrobeService)
	shown := new(MockShownRecorder)
	svc := newOutfitService(wardrobe, shown, true)

	wardrobe.On("ListGarments", mock.Anything, "user-1").Return([]models.Garment{}, nil)

	out, err := svc.Recommend(context.Background(), models.RecommendationInput{UserID: "user-1"})
	require.NoError(t, err)

	assert.Empty(t, out.Outfits)
	assert.Equal(t, engine.NoGarmentsExplanation, out.Explanation)
	shown.AssertNotCalled(t, "RecordShown", mock.Anything, mock.Anything, mock.Anything)
}

func TestOutfitService_ShownFailureIsNotFatal(t *testing.T) {
	wardrobe := new(MockWardrobeService)
	shown := new(MockShownRecorder)
	svc := newOutfitService(wardrobe, shown, true)

	wardrobe.On("ListGarments", mock.Anything, "user-1").Return(closet(), nil)
	shown.On("RecordShown", mock.Anything, "user-1", mock.Anything).Return(errors.New("db down"))

	out, err := svc.Recommend(context.Background(), models.RecommendationInput{UserID: "user-1"})
	require.NoError(t, err)
	assert.NotEmpty(t, out.Outfits)
}

func TestOutfitService_Errors(t *testing.T) {
	wardrobe := new(MockWardrobeService)
	svc := newOutfitService(wardrobe, nil, false)

	_, err := svc.Recommend(context.Background(), models.RecommendationInput{})
	assert.ErrorIs(t, err, ErrMissingUser)

	wardrobe.On("ListGarments", mock.Anything, "user-2").Return(nil, errors.New("timeout"))
	_, err = svc.Recommend(context.Background(), models.RecommendationInput{UserID: "user-2"})
	assert.ErrorContains(t, err, "timeout")
}
