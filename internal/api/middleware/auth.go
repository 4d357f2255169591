package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/smartintruesdell/CubeCobra/internal/domain"
	"github.com/smartintruesdell/CubeCobra/internal/service"
	"go.uber.org/zap"
)

type contextKey string

const (
	ViewerKey contextKey = "viewer"
)

// Auth rejects requests without a valid bearer token.
func Auth(authService *service.AuthService, logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				logger.Debugw("missing or malformed authorization header", "path", r.URL.Path)
				http.Error(w, "Authorization header required", http.StatusUnauthorized)
				return
			}

			viewer, err := authService.ViewerFromToken(token)
			if err != nil {
				logger.Infow("token validation failed", "path", r.URL.Path, "error", err)
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithViewer(r.Context(), viewer)))
		})
	}
}

// OptionalAuth attaches the viewer when a valid token is present and lets
// anonymous requests through. An invalid token is still rejected.
func OptionalAuth(authService *service.AuthService, logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") == "" {
				next.ServeHTTP(w, r)
				return
			}
			Auth(authService, logger)(next).ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	parts := strings.Split(r.Header.Get("Authorization"), " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func WithViewer(ctx context.Context, viewer *domain.Viewer) context.Context {
	return context.WithValue(ctx, ViewerKey, viewer)
}

// GetViewer returns nil for anonymous requests.
func GetViewer(ctx context.Context) *domain.Viewer {
	viewer, _ := ctx.Value(ViewerKey).(*domain.Viewer)
	return viewer
}

func GetUserID(ctx context.Context) (uuid.UUID, bool) {
	viewer := GetViewer(ctx)
	if viewer == nil {
		return uuid.Nil, false
	}
	return viewer.UserID, true
}
