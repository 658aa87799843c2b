package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/workday-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProtectedRouter(ja *jwtauth.JWTAuth) http.Handler {
	r := chi.NewRouter()
	r.Use(jwtauth.Verifier(ja))
	r.Use(AuthRequired(ja))
	r.Get("/me", func(w http.ResponseWriter, r *http.Request) {
		userID, _ := jwt.UserIDFromContext(r.Context())
		w.Write([]byte(userID))
	})
	return r
}

func TestAuthRequired(t *testing.T) {
	svc := jwt.NewJWTService("test-secret-key-for-jwt", "1h")
	ja := svc.JWTAuth()
	router := newProtectedRouter(ja)

	access, _, err := svc.GenerateAccessToken("user-1")
	require.NoError(t, err)
	_, refresh, err := ja.Encode(map[string]interface{}{jwt.ClaimUserID: "user-1", jwt.ClaimType: "refresh"})
	require.NoError(t, err)
	_, anonymous, err := ja.Encode(map[string]interface{}{jwt.ClaimType: jwt.TokenTypeAccess})
	require.NoError(t, err)
	_, foreign, err := jwtauth.New("HS256", []byte("another-secret"), nil).
		Encode(map[string]interface{}{jwt.ClaimUserID: "user-1", jwt.ClaimType: jwt.TokenTypeAccess})
	require.NoError(t, err)

	tests := []struct {
		name       string
		token      string
		wantStatus int
	}{
		{"valid access token", access, http.StatusOK},
		{"missing token", "", http.StatusUnauthorized},
		{"refresh token", refresh, http.StatusUnauthorized},
		{"no user_id claim", anonymous, http.StatusUnauthorized},
		{"signed with another secret", foreign, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, "user-1", rec.Body.String())
			}
		})
	}
}
