package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"moodjournal_api/dto"
	"moodjournal_api/internal/usecase"
	"moodjournal_api/middleware"
	"moodjournal_api/utils"
)

type AuthHandler struct {
	authUsecase  usecase.AuthUsecase
	oauthUsecase usecase.OAuthUsecase
	logger       *slog.Logger
	clientURL    string
	secureCookie bool
}

func NewAuthHandler(authUsecase usecase.AuthUsecase, oauthUsecase usecase.OAuthUsecase, logger *slog.Logger, clientURL string, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		authUsecase:  authUsecase,
		oauthUsecase: oauthUsecase,
		logger:       logger,
		clientURL:    clientURL,
		secureCookie: secureCookie,
	}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var input dto.Signup
	if !decodeJSON(w, r, &input) {
		return
	}

	response, err := h.authUsecase.Signup(r.Context(), &input)
	if err != nil {
		writeUsecaseError(w, r, h.logger, statusFor(err), err)
		return
	}

	h.logger.InfoContext(r.Context(), "user signed up", "user_id", response.User.ID)
	utils.WriteJSON(w, http.StatusCreated, response)
}

func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var input dto.Signin
	if !decodeJSON(w, r, &input) {
		return
	}

	response, err := h.authUsecase.Signin(r.Context(), &input)
	if err != nil {
		writeUsecaseError(w, r, h.logger, statusFor(err), err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, response)
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var input dto.ForgotPassword
	if !decodeJSON(w, r, &input) {
		return
	}

	response, err := h.authUsecase.ForgotPassword(r.Context(), &input)
	if err != nil {
		if errors.Is(err, usecase.ErrWrongLoginMethod) {
			utils.WriteError(w, http.StatusBadRequest, "Password reset not available for OAuth accounts")
			return
		}
		writeUsecaseError(w, r, h.logger, statusFor(err), err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, response)
}

// ResetPassword reports a bad or expired token as 400, unlike bearer checks.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var input dto.ResetPassword
	if !decodeJSON(w, r, &input) {
		return
	}

	if err := h.authUsecase.ResetPassword(r.Context(), &input); err != nil {
		status := statusFor(err)
		if errors.Is(err, usecase.ErrInvalidToken) {
			status = http.StatusBadRequest
		}
		writeUsecaseError(w, r, h.logger, status, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, dto.MessageResponse{Message: "Password updated successfully"})
}

func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "invalid access token")
		return
	}

	response, err := h.authUsecase.Profile(r.Context(), claims.UserID)
	if err != nil {
		writeUsecaseError(w, r, h.logger, statusFor(err), err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, response)
}

func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "invalid access token")
		return
	}

	var input dto.UserUpdate
	if !decodeJSON(w, r, &input) {
		return
	}

	input.ID = claims.UserID
	user, err := h.authUsecase.UpdateProfile(r.Context(), &input)
	if err != nil {
		writeUsecaseError(w, r, h.logger, statusFor(err), err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "profile updated",
		"user":    user,
	})
}

func (h *AuthHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "invalid access token")
		return
	}

	if err := h.authUsecase.DeleteUser(r.Context(), claims.UserID); err != nil {
		writeUsecaseError(w, r, h.logger, statusFor(err), err)
		return
	}

	h.logger.InfoContext(r.Context(), "account deleted", "user_id", claims.UserID)
	utils.WriteJSON(w, http.StatusOK, dto.MessageResponse{Message: "Account deleted successfully"})
}
