package task

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/taskdeck/service-task-go/internal/apperror"
	"github.com/taskdeck/service-task-go/internal/auth"
	"github.com/taskdeck/service-task-go/internal/task/entity"
	"github.com/taskdeck/service-task-go/internal/validate"
)

// Handler exposes HTTP endpoints for task CRUD. All routes are mounted
// behind the auth gate; the owner id always comes from the request context.
type Handler struct {
	svc    *Service
	logger *zap.SugaredLogger
}

func NewHandler(svc *Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := auth.SubjectID(r.Context())
	if !ok {
		h.writeError(w, apperror.Unauthenticated("access token required"))
		return
	}

	var req validate.CreateTaskInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, apperror.Validation("invalid request body"))
		return
	}
	if err := req.Validate(); err != nil {
		h.writeError(w, err)
		return
	}

	params := CreateParams{
		Title:       req.Title,
		Description: req.Description,
	}
	if req.Priority != nil {
		params.Priority = entity.Priority(*req.Priority)
	}
	if req.DueDate != nil {
		// shape already validated
		due, _ := time.Parse(time.RFC3339, *req.DueDate)
		params.DueDate = &due
	}

	t, err := h.svc.Create(r.Context(), ownerID, params)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, map[string]any{"task": t})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := auth.SubjectID(r.Context())
	if !ok {
		h.writeError(w, apperror.Unauthenticated("access token required"))
		return
	}

	t, err := h.svc.Get(r.Context(), r.PathValue("id"), ownerID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"task": t})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := auth.SubjectID(r.Context())
	if !ok {
		h.writeError(w, apperror.Unauthenticated("access token required"))
		return
	}

	var req validate.UpdateTaskInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, apperror.Validation("invalid request body"))
		return
	}
	if err := req.Validate(); err != nil {
		h.writeError(w, err)
		return
	}

	params := UpdateParams{
		Title:       req.Title,
		Description: req.Description,
	}
	if req.Status != nil {
		st := entity.Status(*req.Status)
		params.Status = &st
	}
	if req.Priority != nil {
		pr := entity.Priority(*req.Priority)
		params.Priority = &pr
	}
	if req.DueDate != nil {
		if *req.DueDate == "" {
			params.ClearDue = true
		} else {
			due, _ := time.Parse(time.RFC3339, *req.DueDate)
			params.DueDate = &due
		}
	}

	t, err := h.svc.Update(r.Context(), r.PathValue("id"), ownerID, params)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"task": t})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := auth.SubjectID(r.Context())
	if !ok {
		h.writeError(w, apperror.Unauthenticated("access token required"))
		return
	}

	if err := h.svc.Delete(r.Context(), r.PathValue("id"), ownerID); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"message": "task deleted"})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := auth.SubjectID(r.Context())
	if !ok {
		h.writeError(w, apperror.Unauthenticated("access token required"))
		return
	}

	q := r.URL.Query()

	var status *entity.Status
	if v := q.Get("status"); v != "" {
		st := entity.Status(v)
		if !entity.ValidStatus(st) {
			h.writeError(w, apperror.Validation("status: must be one of TODO, IN_PROGRESS, DONE"))
			return
		}
		status = &st
	}

	var priority *entity.Priority
	if v := q.Get("priority"); v != "" {
		pr := entity.Priority(v)
		if !entity.ValidPriority(pr) {
			h.writeError(w, apperror.Validation("priority: must be one of LOW, MEDIUM, HIGH"))
			return
		}
		priority = &pr
	}

	page := intQuery(q.Get("page"), 1)
	limit := intQuery(q.Get("limit"), 10)

	result, err := h.svc.List(r.Context(), ownerID, status, priority, page, limit)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"tasks": result.Tasks,
		"pagination": map[string]any{
			"page":       result.PageNum,
			"limit":      result.Limit,
			"total":      result.Total,
			"totalPages": result.TotalPages,
		},
	})
}

func intQuery(raw string, def int) int {
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	return n
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
