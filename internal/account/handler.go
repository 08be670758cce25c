package account

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/taskdeck/service-task-go/internal/apperror"
	"github.com/taskdeck/service-task-go/internal/auth"
	"github.com/taskdeck/service-task-go/internal/validate"
)

// Handler exposes HTTP endpoints for registration, login, token refresh
// and the authenticated profile.
type Handler struct {
	svc    *Service
	logger *zap.SugaredLogger
}

func NewHandler(svc *Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req validate.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, apperror.Validation("invalid request body"))
		return
	}
	if err := req.Validate(); err != nil {
		h.writeError(w, err)
		return
	}

	result, err := h.svc.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, result)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req validate.LoginInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, apperror.Validation("invalid request body"))
		return
	}
	if err := req.Validate(); err != nil {
		h.writeError(w, err)
		return
	}

	result, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req validate.RefreshInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, apperror.Validation("invalid request body"))
		return
	}
	if err := req.Validate(); err != nil {
		h.writeError(w, err)
		return
	}

	result, err := h.svc.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

// Profile returns the authenticated account. Mounted behind the auth gate.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	subjectID, ok := auth.SubjectID(r.Context())
	if !ok {
		h.writeError(w, apperror.Unauthenticated("access token required"))
		return
	}
	view, err := h.svc.GetByID(r.Context(), subjectID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"user": view})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	if apperror.StatusCode(err) == http.StatusInternalServerError {
		h.logger.Errorw("request failed", "err", err)
	}
	h.writeJSON(w, apperror.StatusCode(err), map[string]string{
		"error":   apperror.SafeKind(err),
		"message": apperror.SafeMessage(err),
	})
}
