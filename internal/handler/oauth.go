package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"moodjournal_api/dto"
	"moodjournal_api/internal/usecase"
	"moodjournal_api/model"
	"moodjournal_api/utils"
)

const (
	stateCookie    = "oauth_state"
	stateCookieTTL = 10 * time.Minute
)

func (h *AuthHandler) OAuthLogin(provider model.Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := utils.GenerateState()
		if err != nil {
			h.logger.ErrorContext(r.Context(), "generate oauth state", "error", err)
			http.Redirect(w, r, h.callbackURL(url.Values{"error": {string(usecase.FailureServerError)}}), http.StatusFound)
			return
		}

		loginURL, err := h.oauthUsecase.LoginURL(provider, state)
		if err != nil {
			utils.WriteError(w, http.StatusNotFound, "provider not configured")
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     stateCookie,
			Value:    state,
			Path:     "/auth",
			Expires:  time.Now().Add(stateCookieTTL),
			HttpOnly: true,
			Secure:   h.secureCookie,
			SameSite: http.SameSiteLaxMode,
		})
		http.Redirect(w, r, loginURL, http.StatusTemporaryRedirect)
	}
}

// OAuthCallback always ends in a redirect to the client, carrying either the
// token and user payload or an error code.
func (h *AuthHandler) OAuthCallback(provider model.Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		params := usecase.CallbackParams{
			Code:  query.Get("code"),
			State: query.Get("state"),
			Error: query.Get("error"),
		}
		if cookie, err := r.Cookie(stateCookie); err == nil {
			params.ExpectedState = cookie.Value
		}
		http.SetCookie(w, &http.Cookie{
			Name:     stateCookie,
			Value:    "",
			Path:     "/auth",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   h.secureCookie,
		})

		result := h.oauthUsecase.Callback(r.Context(), provider, params)
		http.Redirect(w, r, h.callbackURL(h.callbackQuery(r, result)), http.StatusFound)
	}
}

func (h *AuthHandler) callbackQuery(r *http.Request, result usecase.OAuthResult) url.Values {
	if !result.OK() {
		return url.Values{"error": {string(result.Failure)}}
	}

	payload, err := utils.EncodePayload(result.User)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "encode oauth user", "error", err)
		return url.Values{"error": {string(usecase.FailureServerError)}}
	}
	return url.Values{
		"token":    {result.Token},
		"user":     {payload},
		"provider": {string(result.User.Provider)},
	}
}

func (h *AuthHandler) callbackURL(q url.Values) string {
	return strings.TrimRight(h.clientURL, "/") + "/auth/callback?" + q.Encode()
}

func (h *AuthHandler) GoogleMobile(w http.ResponseWriter, r *http.Request) {
	var input dto.GoogleMobile
	if !decodeJSON(w, r, &input) {
		return
	}

	response, err := h.oauthUsecase.SignInWithIDToken(r.Context(), input.IDToken)
	if err != nil {
		if errors.Is(err, usecase.ErrUnknownProvider) {
			utils.WriteError(w, http.StatusNotFound, "provider not configured")
			return
		}
		writeUsecaseError(w, r, h.logger, statusFor(err), err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, response)
}
