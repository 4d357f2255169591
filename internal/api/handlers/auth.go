package handlers

import (
	"errors"
	"net/http"

	"github.com/smartintruesdell/CubeCobra/internal/api/middleware"
	"github.com/smartintruesdell/CubeCobra/internal/domain"
	"github.com/smartintruesdell/CubeCobra/internal/service"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService *service.AuthService
	logger      *zap.SugaredLogger
}

func NewAuthHandler(authService *service.AuthService, logger *zap.SugaredLogger) *AuthHandler {
	return &AuthHandler{authService: authService, logger: logger}
}

type RegisterRequest struct {
	Password    string `json:"password" validate:"required"`
	DisplayName string `json:"displayName" validate:"required"`
}

type LoginRequest struct {
	DisplayName string `json:"displayName" validate:"required"`
	Password    string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type AuthResponse struct {
	User         UserResponse `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

type UserResponse struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	IsAdmin     bool   `json:"isAdmin"`
}

func newAuthResponse(result *service.AuthResult) AuthResponse {
	return AuthResponse{
		User:         newUserResponse(result.User),
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
	}
}

func newUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:          user.ID.String(),
		DisplayName: user.DisplayName,
		IsAdmin:     user.IsAdmin,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	result, err := h.authService.Register(r.Context(), service.RegisterInput{
		Password:    req.Password,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		if errors.Is(err, service.ErrDisplayNameExists) {
			http.Error(w, "Display name already exists", http.StatusConflict)
			return
		}
		writeServiceError(w, h.logger, "auth.Register", err)
		return
	}

	writeJSON(w, http.StatusOK, newAuthResponse(result))
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	result, err := h.authService.Login(r.Context(), service.LoginInput{
		DisplayName: req.DisplayName,
		Password:    req.Password,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			http.Error(w, "Invalid credentials", http.StatusUnauthorized)
			return
		}
		writeServiceError(w, h.logger, "auth.Login", err)
		return
	}

	writeJSON(w, http.StatusOK, newAuthResponse(result))
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	result, err := h.authService.RefreshTokens(r.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, service.ErrInvalidToken) {
			http.Error(w, "Invalid refresh token", http.StatusUnauthorized)
			return
		}
		writeServiceError(w, h.logger, "auth.Refresh", err)
		return
	}

	writeJSON(w, http.StatusOK, newAuthResponse(result))
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := h.authService.GetUserByID(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.logger, "auth.Me", err)
		return
	}

	writeJSON(w, http.StatusOK, newUserResponse(user))
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.authService.Logout(r.Context(), userID); err != nil {
		writeServiceError(w, h.logger, "auth.Logout", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
