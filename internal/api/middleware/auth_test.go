package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davrill/taskhub-api/internal/service/auth"
)

type stubJWTService struct {
	userID      uuid.UUID
	validateErr error
}

func (s *stubJWTService) GenerateToken(context.Context, uuid.UUID) (string, error) {
	return "access-token", nil
}

func (s *stubJWTService) GenerateRefreshToken(context.Context, uuid.UUID) (string, error) {
	return "refresh-token", nil
}

func (s *stubJWTService) ValidateToken(context.Context, string) (*auth.Claims, error) {
	if s.validateErr != nil {
		return nil, s.validateErr
	}
	return &auth.Claims{UserID: s.userID, TokenType: "access"}, nil
}

func (s *stubJWTService) ValidateRefreshToken(context.Context, string) (*auth.Claims, error) {
	return nil, auth.ErrInvalidRefreshToken
}

func runAuthenticated(t *testing.T, jwtService auth.JWTService, authHeader string) (*httptest.ResponseRecorder, *http.Request) {
	t.Helper()

	middleware := NewAuthMiddleware(jwtService)

	var captured *http.Request
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rr := httptest.NewRecorder()
	middleware.Authenticate(next).ServeHTTP(rr, req)
	return rr, captured
}

func TestAuthenticate_ValidToken(t *testing.T) {
	userID := uuid.New()
	rr, captured := runAuthenticated(t, &stubJWTService{userID: userID}, "Bearer some-token")

	require.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, captured)

	gotID, ok := GetUserID(captured)
	require.True(t, ok)
	assert.Equal(t, userID, gotID)
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	rr, captured := runAuthenticated(t, &stubJWTService{}, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Nil(t, captured)
}

func TestAuthenticate_MalformedHeader(t *testing.T) {
	for _, header := range []string{"some-token", "Basic abc", "Bearer a b"} {
		rr, captured := runAuthenticated(t, &stubJWTService{}, header)
		assert.Equal(t, http.StatusUnauthorized, rr.Code, "header %q", header)
		assert.Nil(t, captured)
	}
}

func TestAuthenticate_InvalidOrExpiredToken(t *testing.T) {
	rr, _ := runAuthenticated(t, &stubJWTService{validateErr: auth.ErrExpiredToken}, "Bearer stale")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr, _ = runAuthenticated(t, &stubJWTService{validateErr: auth.ErrInvalidToken}, "Bearer junk")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAuthenticate_RefreshTokenIsRejected(t *testing.T) {
	rr, captured := runAuthenticated(t, &stubJWTService{validateErr: auth.ErrWrongTokenType}, "Bearer refresh")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Nil(t, captured)
}
