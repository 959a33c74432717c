package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/careerbuddy/careerbuddy/internal/models"
	"github.com/careerbuddy/careerbuddy/internal/repository"
	"github.com/careerbuddy/careerbuddy/internal/token"
	"github.com/gorilla/mux"
)

type ctxKey int

const userKey ctxKey = 0

// Auth verifies the bearer token and loads the acting user. Missing header,
// bad token and a token for a since-deleted account all produce the same 401.
func Auth(tokens *token.Service, repo *repository.Repository) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || raw == "" {
				unauthorized(w)
				return
			}

			subject, err := tokens.Verify(raw)
			if err != nil {
				unauthorized(w)
				return
			}

			user, err := repo.FindUserByEmail(subject)
			if err != nil {
				unauthorized(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, user)))
		})
	}
}

// UserFrom returns the authenticated user stored by Auth, or nil
func UserFrom(ctx context.Context) *models.User {
	user, _ := ctx.Value(userKey).(*models.User)
	return user
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Not authenticated"})
}
