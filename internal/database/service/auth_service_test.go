package service_test

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pivotpoint/backend-go/internal/config"
	"github.com/pivotpoint/backend-go/internal/database/models"
	"github.com/pivotpoint/backend-go/internal/database/repository"
	"github.com/pivotpoint/backend-go/internal/database/service"
)

const testSecret = "test_secret"

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.User{}, &models.Decision{}, &models.Item{})
	require.NoError(t, err)

	return db
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newAuthService(t *testing.T, db *gorm.DB, tokenExpiration int64) (service.AuthService, repository.UserRepository) {
	userRepo := repository.NewUserRepository(db)
	cfg := &config.Config{
		JWTSecret:       testSecret,
		TokenExpiration: tokenExpiration,
	}
	return service.NewAuthService(userRepo, cfg, discardLogger()), userRepo
}

func TestAuthService_RegisterThenLogin(t *testing.T) {
	db := setupTestDB(t)
	svc, _ := newAuthService(t, db, 3600)

	user, token, err := svc.Register("ann", "ann@example.com", "longenough1")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.NotEmpty(t, token)
	assert.NotEqual(t, "longenough1", user.PasswordHash)

	// Token verification resolves to the id registration returned
	userID, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)

	// Logging in with the same credentials yields a token for the same user
	loggedIn, loginToken, err := svc.Login("ann", "longenough1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)

	loginUserID, err := svc.ValidateToken(loginToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, loginUserID)
}

func TestAuthService_Register_Duplicates(t *testing.T) {
	db := setupTestDB(t)
	svc, _ := newAuthService(t, db, 3600)

	_, _, err := svc.Register("ann", "ann@example.com", "longenough1")
	require.NoError(t, err)

	_, _, err = svc.Register("ann", "other@example.com", "longenough1")
	assert.ErrorIs(t, err, service.ErrUserAlreadyExists)

	_, _, err = svc.Register("other", "ann@example.com", "longenough1")
	assert.ErrorIs(t, err, service.ErrUserAlreadyExists)
}

func TestAuthService_Register_HashesDiffer(t *testing.T) {
	db := setupTestDB(t)
	svc, _ := newAuthService(t, db, 3600)

	first, _, err := svc.Register("ann", "ann@example.com", "samepassword")
	require.NoError(t, err)
	second, _, err := svc.Register("bob", "bob@example.com", "samepassword")
	require.NoError(t, err)

	// Random per-call salt: equal plaintexts must not hash equally
	assert.NotEqual(t, first.PasswordHash, second.PasswordHash)
}

func TestAuthService_Login(t *testing.T) {
	db := setupTestDB(t)
	svc, _ := newAuthService(t, db, 3600)

	registered, _, err := svc.Register("ann", "ann@example.com", "longenough1")
	require.NoError(t, err)

	t.Run("by email", func(t *testing.T) {
		user, token, err := svc.Login("ann@example.com", "longenough1")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, user.ID)
		assert.NotEmpty(t, token)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Login("ann", "wrongpassword")
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	t.Run("unknown user gets the same error", func(t *testing.T) {
		_, _, err := svc.Login("nobody", "longenough1")
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	})
}

func TestAuthService_Login_MalformedStoredHashFailsClosed(t *testing.T) {
	db := setupTestDB(t)
	svc, userRepo := newAuthService(t, db, 3600)

	// Simulates a row created before hashing existed (or the reconciler's
	// empty-default credential)
	require.NoError(t, userRepo.Create(&models.User{
		Username:     "legacy",
		Email:        "legacy@example.com",
		PasswordHash: "",
	}))

	_, _, err := svc.Login("legacy", "anything")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestAuthService_ValidateToken(t *testing.T) {
	db := setupTestDB(t)
	svc, _ := newAuthService(t, db, 3600)

	user, token, err := svc.Register("ann", "ann@example.com", "longenough1")
	require.NoError(t, err)

	t.Run("valid token", func(t *testing.T) {
		userID, err := svc.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, userID)
	})

	t.Run("malformed token", func(t *testing.T) {
		_, err := svc.ValidateToken("not.a.token")
		assert.ErrorIs(t, err, service.ErrInvalidToken)
	})

	t.Run("wrong signature", func(t *testing.T) {
		forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"user_id": user.ID,
			"exp":     time.Now().Add(time.Hour).Unix(),
		})
		forgedString, err := forged.SignedString([]byte("some_other_secret"))
		require.NoError(t, err)

		_, err = svc.ValidateToken(forgedString)
		assert.ErrorIs(t, err, service.ErrInvalidToken)
	})

	t.Run("unsigned token rejected", func(t *testing.T) {
		unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
			"user_id": user.ID,
			"exp":     time.Now().Add(time.Hour).Unix(),
		})
		unsignedString, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = svc.ValidateToken(unsignedString)
		assert.ErrorIs(t, err, service.ErrInvalidToken)
	})

	t.Run("missing user_id claim", func(t *testing.T) {
		anonymous := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		anonymousString, err := anonymous.SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = svc.ValidateToken(anonymousString)
		assert.ErrorIs(t, err, service.ErrInvalidToken)
	})
}

func TestAuthService_ValidateToken_Expired(t *testing.T) {
	db := setupTestDB(t)
	// Negative lifetime issues already-expired tokens
	expiredSvc, _ := newAuthService(t, db, -60)

	_, token, err := expiredSvc.Register("ann", "ann@example.com", "longenough1")
	require.NoError(t, err)

	_, err = expiredSvc.ValidateToken(token)
	assert.ErrorIs(t, err, service.ErrTokenExpired)
}

func TestAuthService_ValidateToken_DeletedUserIsRevoked(t *testing.T) {
	db := setupTestDB(t)
	svc, _ := newAuthService(t, db, 3600)

	user, token, err := svc.Register("ann", "ann@example.com", "longenough1")
	require.NoError(t, err)

	// Token is good while the user exists
	_, err = svc.ValidateToken(token)
	require.NoError(t, err)

	// Removing the account invalidates every outstanding token immediately
	require.NoError(t, db.Delete(&models.User{}, user.ID).Error)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, service.ErrInvalidToken)
}

func TestAuthService_GetUser(t *testing.T) {
	db := setupTestDB(t)
	svc, _ := newAuthService(t, db, 3600)

	user, _, err := svc.Register("ann", "ann@example.com", "longenough1")
	require.NoError(t, err)

	found, err := svc.GetUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "ann", found.Username)

	_, err = svc.GetUser(9999)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}
