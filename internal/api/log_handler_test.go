package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"formaai/backend/internal/domain"
	"formaai/backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type logServiceStub struct {
	entry    *domain.ProgressLog
	logs     []domain.ProgressLog
	err      error
	gotInput service.CreateLogInput
}

func (s *logServiceStub) CreateLog(ctx context.Context, userID primitive.ObjectID, input service.CreateLogInput) (*domain.ProgressLog, error) {
	s.gotInput = input
	if s.err != nil {
		return nil, s.err
	}
	if s.entry != nil {
		return s.entry, nil
	}
	return &domain.ProgressLog{ID: primitive.NewObjectID(), UserID: userID}, nil
}

func (s *logServiceStub) GetLogs(ctx context.Context, userID primitive.ObjectID) ([]domain.ProgressLog, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.logs, nil
}

func TestLogHandlerRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	userID := primitive.NewObjectID()
	token := signToken(t, userID, domain.TierFree, time.Hour)

	t.Run("create log", func(t *testing.T) {
		svc := &logServiceStub{
			entry: &domain.ProgressLog{ID: primitive.NewObjectID(), UserID: userID},
		}
		router := logRouter(svc)

		body, _ := json.Marshal(map[string]any{
			"date":   time.Now().UTC().Format(time.RFC3339),
			"weight": 82.0,
		})
		w := doRequest(router, http.MethodPost, "/api/v1/logs", token, body)

		assert.Equal(t, http.StatusCreated, w.Code)
		require.NotNil(t, svc.gotInput.WeightKg)
		assert.Equal(t, 82.0, *svc.gotInput.WeightKg)
	})

	t.Run("missing date", func(t *testing.T) {
		router := logRouter(&logServiceStub{})
		body, _ := json.Marshal(map[string]any{"weight": 82.0})
		w := doRequest(router, http.MethodPost, "/api/v1/logs", token, body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("validation error from service", func(t *testing.T) {
		router := logRouter(&logServiceStub{err: service.ErrLogValidation})
		body, _ := json.Marshal(map[string]any{"date": time.Now().UTC().Format(time.RFC3339)})
		w := doRequest(router, http.MethodPost, "/api/v1/logs", token, body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("list logs", func(t *testing.T) {
		svc := &logServiceStub{logs: []domain.ProgressLog{{UserID: userID}, {UserID: userID}}}
		router := logRouter(svc)
		w := doRequest(router, http.MethodGet, "/api/v1/logs", token, nil)

		assert.Equal(t, http.StatusOK, w.Code)
		var got []domain.ProgressLog
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Len(t, got, 2)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		router := logRouter(&logServiceStub{})
		w := doRequest(router, http.MethodGet, "/api/v1/logs", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func logRouter(svc service.LogService) *gin.Engine {
	router := gin.New()
	handler := NewLogHandler(svc)
	group := router.Group("/api/v1", AuthMiddleware(testSecret))
	group.POST("/logs", handler.CreateLog)
	group.GET("/logs", handler.GetLogs)
	return router
}

func doRequest(router *gin.Engine, method, path, token string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}
