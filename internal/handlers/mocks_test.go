package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/temcen/closetmood/internal/middleware"
	"github.com/temcen/closetmood/internal/services"
	"github.com/temcen/closetmood/pkg/models"
)

type MockOutfitService struct {
	mock.Mock
}

func (m *MockOutfitService) Recommend(ctx context.Context, input models.RecommendationInput) (*models.RecommendationOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RecommendationOutput), args.Error(1)
}

type MockWardrobe struct {
	mock.Mock
}

func (m *MockWardrobe) ListGarments(ctx context.Context, userID string) ([]models.Garment, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Garment), args.Error(1)
}

func (m *MockWardrobe) GetGarment(ctx context.Context, userID, garmentID string) (*models.Garment, error) {
	args := m.Called(ctx, userID, garmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Garment), args.Error(1)
}

func (m *MockWardrobe) CreateGarment(ctx context.Context, userID string, req *models.GarmentRequest) (*models.Garment, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Garment), args.Error(1)
}

func (m *MockWardrobe) UpdateGarment(ctx context.Context, userID, garmentID string, req *models.GarmentRequest) (*models.Garment, error) {
	args := m.Called(ctx, userID, garmentID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Garment), args.Error(1)
}

func (m *MockWardrobe) DeleteGarment(ctx context.Context, userID, garmentID string) error {
	return m.Called(ctx, userID, garmentID).Error(0)
}

type MockPairings struct {
	mock.Mock
}

func (m *MockPairings) RecordOutfit(ctx context.Context, userID string, garmentIDs []string) error {
	return m.Called(ctx, userID, garmentIDs).Error(0)
}

func (m *MockPairings) TopPairings(ctx context.Context, userID, garmentID string, limit int) ([]models.Pairing, error) {
	args := m.Called(ctx, userID, garmentID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Pairing), args.Error(1)
}

type MockFeedbackRecorder struct {
	mock.Mock
}

func (m *MockFeedbackRecorder) Record(ctx context.Context, log models.RecommendationLog) (*models.RecommendationLog, error) {
	args := m.Called(ctx, log)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RecommendationLog), args.Error(1)
}

type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) IssueToken(ctx context.Context, req *models.TokenRequest) (*models.TokenResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TokenResponse), args.Error(1)
}

type MockHealthChecker struct {
	mock.Mock
}

func (m *MockHealthChecker) CheckHealth(ctx context.Context) *services.HealthStatus {
	return m.Called(ctx).Get(0).(*services.HealthStatus)
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return logger
}

// authenticated stands in for middleware.Auth.
func authenticated(userID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, userID)
		c.Set(middleware.ContextUserTier, "free")
		c.Next()
	}
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error.Code
}
