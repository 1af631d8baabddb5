package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/wadjakorntonsri/share-saver/pkg/config"
)

func TestAuthMiddleware(t *testing.T) {
	cfg := &config.Config{
		JWTSecret: "testsecret",
	}
	mw := NewMiddleware(cfg)

	tests := []struct {
		name           string
		path           string
		cookieValue    string
		expectedStatus int
		expectedUser   string
	}{
		{
			name:           "no cookie on api",
			path:           "/api/v1/shares",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "no cookie on stats page",
			path:           "/api/v1/stats",
			expectedStatus: http.StatusTemporaryRedirect,
		},
		{
			name:           "garbage cookie",
			path:           "/api/v1/shares",
			cookieValue:    "invalid",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "wrong secret",
			path:           "/api/v1/shares",
			cookieValue:    generateTestToken(t, "other", time.Now().Add(5*time.Minute), jwt.SigningMethodHS256),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "expired token",
			path:           "/api/v1/shares",
			cookieValue:    generateTestToken(t, cfg.JWTSecret, time.Now().Add(-time.Minute), jwt.SigningMethodHS256),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "other hmac method",
			path:           "/api/v1/shares",
			cookieValue:    generateTestToken(t, cfg.JWTSecret, time.Now().Add(5*time.Minute), jwt.SigningMethodHS512),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "valid token",
			path:           "/api/v1/shares",
			cookieValue:    generateTestToken(t, cfg.JWTSecret, time.Now().Add(5*time.Minute), jwt.SigningMethodHS256),
			expectedStatus: http.StatusOK,
			expectedUser:   "test@example.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.cookieValue != "" {
				req.AddCookie(&http.Cookie{Name: authCookie, Value: tt.cookieValue})
			}

			var user string
			rr := httptest.NewRecorder()
			handler := mw.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				user = UserEmail(r.Context())
				w.WriteHeader(http.StatusOK)
			}))

			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.Equal(t, tt.expectedUser, user)
		})
	}
}

func generateTestToken(t *testing.T, secret string, expires time.Time, method jwt.SigningMethod) string {
	t.Helper()
	claims := &jwt.RegisteredClaims{
		Subject:   "test@example.com",
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	tokenString, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}
	return tokenString
}
