package route

import (
	"log/slog"
	"net/http"

	"moodjournal_api/internal/handler"
	"moodjournal_api/middleware"
	"moodjournal_api/model"
	"moodjournal_api/utils"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

type Options struct {
	Providers    []model.Provider
	GoogleMobile bool
	ClientURL    string
}

func SetupRoute(auth *handler.AuthHandler, journal *handler.JournalHandler, tokens *utils.TokenService, logger *slog.Logger, opts Options) http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.LoggingMiddleware(logger), middleware.RecoveryMiddleware(logger))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	//local auth
	a := r.PathPrefix("/auth").Subrouter()
	a.HandleFunc("/signup", auth.Signup).Methods(http.MethodPost)
	a.HandleFunc("/signin", auth.Signin).Methods(http.MethodPost)
	a.HandleFunc("/forgot-password", auth.ForgotPassword).Methods(http.MethodPost)
	a.HandleFunc("/reset-password", auth.ResetPassword).Methods(http.MethodPost)

	//oauth
	for _, p := range opts.Providers {
		a.HandleFunc("/"+string(p), auth.OAuthLogin(p)).Methods(http.MethodGet)
		a.HandleFunc("/"+string(p)+"/callback", auth.OAuthCallback(p)).Methods(http.MethodGet)
	}
	if opts.GoogleMobile {
		a.HandleFunc("/google/mobile", auth.GoogleMobile).Methods(http.MethodPost)
	}

	jwt := middleware.JWTMiddleware(tokens)

	account := a.NewRoute().Subrouter()
	account.Use(jwt)
	account.HandleFunc("/profile", auth.Profile).Methods(http.MethodGet)
	account.HandleFunc("/profile", auth.UpdateProfile).Methods(http.MethodPut)
	account.HandleFunc("/account", auth.DeleteAccount).Methods(http.MethodDelete)

	j := r.PathPrefix("/api/journal").Subrouter()
	j.Use(jwt)
	j.HandleFunc("", journal.Create).Methods(http.MethodPost)
	j.HandleFunc("", journal.List).Methods(http.MethodGet)
	j.HandleFunc("/{id:[0-9]+}", journal.Get).Methods(http.MethodGet)
	j.HandleFunc("/{id:[0-9]+}", journal.Update).Methods(http.MethodPut)
	j.HandleFunc("/{id:[0-9]+}", journal.Delete).Methods(http.MethodDelete)

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{opts.ClientURL}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)
	return cors(r)
}
