package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pivotpoint/backend-go/internal/api"
	"github.com/pivotpoint/backend-go/internal/config"
	"github.com/pivotpoint/backend-go/internal/database/models"
	"github.com/pivotpoint/backend-go/internal/database/repository"
	"github.com/pivotpoint/backend-go/internal/database/schema"
	"github.com/pivotpoint/backend-go/internal/database/service"
	"github.com/pivotpoint/backend-go/internal/handler"
	"github.com/pivotpoint/backend-go/internal/middleware"
)

// newTestServer wires the full router against an in-memory SQLite database
func newTestServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Decision{}, &models.Item{}))

	discard := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{
		JWTSecret:          "test_secret",
		TokenExpiration:    3600,
		CORSAllowedOrigins: []string{"http://localhost:3000"},
	}

	userRepo := repository.NewUserRepository(db)
	decisionRepo := repository.NewDecisionRepository(db)
	itemRepo := repository.NewItemRepository(db)

	authService := service.NewAuthService(userRepo, cfg, discard)
	decisionService := service.NewDecisionService(decisionRepo, itemRepo, discard)

	sqlDB, err := db.DB()
	require.NoError(t, err)

	authHandler := handler.NewAuthHandler(authService, discard)
	userHandler := handler.NewUserHandler(authService, discard)
	decisionHandler := handler.NewDecisionHandler(decisionService, discard)
	healthHandler := handler.NewHealthHandler(sqlDB, schema.NewReconciler(sqlDB, discard), discard)
	authMiddleware := middleware.NewAuthMiddleware(authService, discard)

	r := api.SetupRouter(authHandler, userHandler, decisionHandler, healthHandler, authMiddleware, cfg.CORSAllowedOrigins)
	return r, db
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func registerUser(t *testing.T, r *gin.Engine, username string) string {
	w := doJSON(t, r, http.MethodPost, "/api/register", "", gin.H{
		"username": username,
		"email":    username + "@example.com",
		"password": "longenough1",
	})
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	token, ok := body["token"].(string)
	require.True(t, ok)
	require.NotEmpty(t, token)
	return token
}
