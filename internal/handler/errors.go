package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"moodjournal_api/dto"
	"moodjournal_api/internal/usecase"
	"moodjournal_api/utils"
)

const maxBodyBytes = 1 << 20

func statusFor(err error) int {
	var policy *usecase.PasswordPolicyError
	switch {
	case errors.As(err, &policy),
		errors.Is(err, usecase.ErrInvalidInput),
		errors.Is(err, usecase.ErrWrongLoginMethod):
		return http.StatusBadRequest
	case errors.Is(err, usecase.ErrUserNotFound),
		errors.Is(err, usecase.ErrEntryNotFound):
		return http.StatusNotFound
	case errors.Is(err, usecase.ErrEmailExists),
		errors.Is(err, usecase.ErrProviderConflict):
		return http.StatusConflict
	case errors.Is(err, usecase.ErrInvalidCredentials),
		errors.Is(err, usecase.ErrInvalidToken):
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

// writeUsecaseError answers with the status for err. Server errors are logged
// and replaced by a generic message.
func writeUsecaseError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, status int, err error) {
	var policy *usecase.PasswordPolicyError
	switch {
	case status >= http.StatusInternalServerError:
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		utils.WriteError(w, status, "Something went wrong")
	case errors.As(err, &policy):
		utils.WriteJSON(w, status, dto.ErrorResponse{
			Message: "Password does not meet security requirements",
			Errors:  policy.Violations,
		})
	case errors.Is(err, usecase.ErrInvalidToken):
		utils.WriteError(w, status, "Invalid or expired token")
	default:
		utils.WriteError(w, status, err.Error())
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid body")
		return false
	}
	return true
}
