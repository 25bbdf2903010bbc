package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"moodjournal_api/dto"
	"moodjournal_api/internal/usecase"
	"moodjournal_api/middleware"
	"moodjournal_api/utils"

	"github.com/gorilla/mux"
)

type JournalHandler struct {
	journalUsecase usecase.JournalUsecase
	logger         *slog.Logger
}

func NewJournalHandler(journalUsecase usecase.JournalUsecase, logger *slog.Logger) *JournalHandler {
	return &JournalHandler{journalUsecase, logger}
}

func (h *JournalHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "invalid access token")
		return
	}

	var input dto.JournalInput
	if !decodeJSON(w, r, &input) {
		return
	}

	input.UserID = claims.UserID
	entry, err := h.journalUsecase.Create(r.Context(), &input)
	if err != nil {
		writeUsecaseError(w, r, h.logger, statusFor(err), err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, entry)
}

func (h *JournalHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "invalid access token")
		return
	}

	entries, err := h.journalUsecase.List(r.Context(), claims.UserID)
	if err != nil {
		writeUsecaseError(w, r, h.logger, statusFor(err), err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, entries)
}

func (h *JournalHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, id, ok := h.entryRequest(w, r)
	if !ok {
		return
	}

	entry, err := h.journalUsecase.Get(r.Context(), claims.UserID, id)
	if err != nil {
		writeUsecaseError(w, r, h.logger, statusFor(err), err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, entry)
}

func (h *JournalHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims, id, ok := h.entryRequest(w, r)
	if !ok {
		return
	}

	var input dto.JournalInput
	if !decodeJSON(w, r, &input) {
		return
	}

	input.UserID = claims.UserID
	entry, err := h.journalUsecase.Update(r.Context(), id, &input)
	if err != nil {
		writeUsecaseError(w, r, h.logger, statusFor(err), err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, entry)
}

func (h *JournalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, id, ok := h.entryRequest(w, r)
	if !ok {
		return
	}

	if err := h.journalUsecase.Delete(r.Context(), claims.UserID, id); err != nil {
		writeUsecaseError(w, r, h.logger, statusFor(err), err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, dto.MessageResponse{Message: "entry deleted"})
}

func (h *JournalHandler) entryRequest(w http.ResponseWriter, r *http.Request) (*utils.AccessClaims, uint, bool) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "invalid access token")
		return nil, 0, false
	}

	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid entry id")
		return nil, 0, false
	}
	return claims, uint(id), true
}
