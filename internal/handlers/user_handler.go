package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/whoami1432/voosh-authentication/internal/models"
	"github.com/whoami1432/voosh-authentication/internal/services"
)

type UserHandler struct {
	profiles *services.ProfileService
	logger   *zap.Logger
}

func NewUserHandler(profiles *services.ProfileService, logger *zap.Logger) *UserHandler {
	return &UserHandler{profiles: profiles, logger: logger}
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	h.logRequest(r, "user register request received")

	var req models.ProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ValidationResponse{Message: "Invalid request body"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	err := h.profiles.Register(ctx, &req)
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, models.ValidationResponse{Message: verr.Message})
	case errors.Is(err, services.ErrEmailExists):
		writeJSON(w, http.StatusOK, models.MessageResponse{Message: "User already Exist"})
	case err != nil:
		h.logError(r, "register user failed", err)
		writeServerError(w)
	default:
		writeJSON(w, http.StatusCreated, models.MessageResponse{Message: "Successfully user registered."})
	}
}

func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	h.logRequest(r, "user profile details fetch request received")

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	view, err := h.profiles.FetchByID(ctx, chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, services.ErrInvalidID):
		writeJSON(w, http.StatusBadRequest, models.MessageResponse{Message: "Not a valid details"})
	case errors.Is(err, services.ErrProfileNotFound):
		writeJSON(w, http.StatusOK, models.MessageResponse{Message: "User details is not found"})
	case err != nil:
		h.logError(r, "get user failed", err)
		writeServerError(w)
	default:
		writeJSON(w, http.StatusOK, models.DataResponse{
			Message: "Successfully user details retrieved.",
			Data:    view,
		})
	}
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	h.logRequest(r, "user profile update request received")

	var req models.ProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ValidationResponse{Message: "Invalid request body"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	modified, err := h.profiles.Update(ctx, chi.URLParam(r, "id"), &req)
	var verr *services.ValidationError
	switch {
	case errors.Is(err, services.ErrInvalidID):
		writeJSON(w, http.StatusBadRequest, models.MessageResponse{Message: "Not a valid details"})
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, models.ValidationResponse{Message: verr.Message})
	case errors.Is(err, services.ErrEmailExists):
		writeJSON(w, http.StatusOK, models.MessageResponse{Message: "You can't use this email please use another email."})
	case err != nil:
		h.logError(r, "update user failed", err)
		writeServerError(w)
	case modified:
		writeJSON(w, http.StatusOK, models.MessageResponse{Message: "User details updated successfully."})
	default:
		writeJSON(w, http.StatusOK, models.MessageResponse{Message: "User details not updated."})
	}
}

// ListProfiles resolves the path id to the requester's role and returns the
// profiles that role may see.
func (h *UserHandler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	h.logRequest(r, "user profile list request received")

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	views, err := h.profiles.ListVisible(ctx, chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, services.ErrInvalidID):
		writeJSON(w, http.StatusBadRequest, models.MessageResponse{Message: "Not a valid details"})
	case errors.Is(err, services.ErrProfileNotFound):
		writeJSON(w, http.StatusOK, models.MessageResponse{Message: "User details is not found"})
	case err != nil:
		h.logError(r, "list users failed", err)
		writeServerError(w)
	default:
		writeJSON(w, http.StatusOK, models.DataResponse{
			Message: "Successfully user details retrieved.",
			Data:    views,
		})
	}
}

func (h *UserHandler) logRequest(r *http.Request, msg string) {
	h.logger.Info(msg,
		zap.String("request_id", chimw.GetReqID(r.Context())),
		zap.String("ip", r.RemoteAddr),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	)
}

func (h *UserHandler) logError(r *http.Request, msg string, err error) {
	h.logger.Error(msg,
		zap.String("request_id", chimw.GetReqID(r.Context())),
		zap.Error(err),
	)
}
