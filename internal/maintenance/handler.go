package maintenance

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"homefax-backend/internal/shared/server/middleware"
	"homefax-backend/internal/shared/server/respond"
)

const dateLayout = "2006-01-02"

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches maintenance routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/properties/:propertyId/maintenance", h.create)
	rg.GET("/properties/:propertyId/maintenance", h.list)
	rg.GET("/properties/:propertyId/maintenance/upcoming", h.upcoming)
	rg.GET("/maintenance/upcoming", h.upcomingAcross)
	rg.PATCH("/properties/:propertyId/maintenance/:taskId", h.update)
	rg.POST("/properties/:propertyId/maintenance/:taskId/complete", h.complete)
	rg.POST("/properties/:propertyId/maintenance/:taskId/snooze", h.snooze)
	rg.POST("/properties/:propertyId/maintenance/:taskId/pause", h.pause)
	rg.POST("/properties/:propertyId/maintenance/:taskId/resume", h.resume)
	rg.POST("/properties/:propertyId/maintenance/:taskId/dismiss", h.dismiss)
	rg.DELETE("/properties/:propertyId/maintenance/:taskId", h.remove)
	rg.POST("/properties/:propertyId/documents/:documentId/suggest-maintenance", h.suggest)
}

type createRequest struct {
	ItemID         *string `json:"itemId"`
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	IntervalMonths int     `json:"intervalMonths"`
	NextDueAt      string  `json:"nextDueAt"`
}

type updateRequest struct {
	Name           *string `json:"name"`
	Description    *string `json:"description"`
	IntervalMonths *int    `json:"intervalMonths"`
	NextDueAt      *string `json:"nextDueAt"`
	ItemID         *string `json:"itemId"`
	ClearItem      bool    `json:"clearItem"`
}

type completeRequest struct {
	CompletionDate string `json:"completionDate"`
	CostCents      *int64 `json:"costCents"`
	PerformedBy    string `json:"performedBy"`
	Description    string `json:"description"`
}

func (h *Handler) create(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	nextDueAt, err := time.Parse(dateLayout, req.NextDueAt)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "nextDueAt must be YYYY-MM-DD", nil)
		return
	}

	task, err := h.Svc.Create(c.Request.Context(), userID, c.Param("propertyId"), CreateInput{
		ItemID:         req.ItemID,
		Name:           req.Name,
		Description:    req.Description,
		IntervalMonths: req.IntervalMonths,
		NextDueAt:      nextDueAt,
	})
	if err != nil {
		h.writeErr(c, err, "failed to create task")
		return
	}

	respond.JSON(c, http.StatusCreated, toResponse(task))
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	tasks, err := h.Svc.List(c.Request.Context(), userID, c.Param("propertyId"), c.Query("status"))
	if err != nil {
		h.writeErr(c, err, "failed to list tasks")
		return
	}

	respond.JSON(c, http.StatusOK, toResponseList(tasks))
}

func (h *Handler) upcoming(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	withinDays := 30
	if v := c.Query("withinDays"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			withinDays = parsed
		}
	}

	tasks, err := h.Svc.Upcoming(c.Request.Context(), userID, c.Param("propertyId"), withinDays)
	if err != nil {
		h.writeErr(c, err, "failed to list upcoming tasks")
		return
	}

	respond.JSON(c, http.StatusOK, toResponseList(tasks))
}

func (h *Handler) upcomingAcross(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var propertyIDs []string
	if v := c.Query("propertyIds"); v != "" {
		for _, id := range strings.Split(v, ",") {
			if id = strings.TrimSpace(id); id != "" {
				propertyIDs = append(propertyIDs, id)
			}
		}
	}
	limit := 20
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}

	tasks, err := h.Svc.UpcomingAcross(c.Request.Context(), userID, propertyIDs, limit)
	if err != nil {
		h.writeErr(c, err, "failed to list upcoming tasks")
		return
	}

	respond.JSON(c, http.StatusOK, toResponseList(tasks))
}

func (h *Handler) update(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	in := UpdateInput{
		Name:           req.Name,
		Description:    req.Description,
		IntervalMonths: req.IntervalMonths,
		ItemID:         req.ItemID,
		ClearItem:      req.ClearItem,
	}
	if req.NextDueAt != nil {
		parsed, err := time.Parse(dateLayout, *req.NextDueAt)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "nextDueAt must be YYYY-MM-DD", nil)
			return
		}
		in.NextDueAt = &parsed
	}

	task, err := h.Svc.Update(c.Request.Context(), userID, c.Param("propertyId"), c.Param("taskId"), in)
	if err != nil {
		h.writeErr(c, err, "failed to update task")
		return
	}

	respond.JSON(c, http.StatusOK, toResponse(task))
}

func (h *Handler) complete(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	in := CompleteInput{}
	if c.Request.ContentLength > 0 {
		var req completeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
			return
		}
		if req.CompletionDate != "" {
			parsed, err := time.Parse(dateLayout, req.CompletionDate)
			if err != nil {
				respond.Error(c, http.StatusBadRequest, "validation_error", "completionDate must be YYYY-MM-DD", nil)
				return
			}
			in.CompletionDate = parsed
		}
		in.CostCents = req.CostCents
		in.PerformedBy = req.PerformedBy
		in.Description = req.Description
	}

	task, err := h.Svc.Complete(c.Request.Context(), userID, c.Param("propertyId"), c.Param("taskId"), in)
	if err != nil {
		h.writeErr(c, err, "failed to complete task")
		return
	}

	respond.JSON(c, http.StatusOK, toResponse(task))
}

func (h *Handler) snooze(c *gin.Context) {
	h.simpleTransition(c, h.Svc.Snooze, "failed to snooze task")
}

func (h *Handler) pause(c *gin.Context) {
	h.simpleTransition(c, h.Svc.Pause, "failed to pause task")
}

func (h *Handler) resume(c *gin.Context) {
	h.simpleTransition(c, h.Svc.Resume, "failed to resume task")
}

func (h *Handler) dismiss(c *gin.Context) {
	h.simpleTransition(c, h.Svc.Dismiss, "failed to dismiss task")
}

func (h *Handler) simpleTransition(c *gin.Context, op func(ctx context.Context, userID, propertyID, taskID string) (Task, error), fallback string) {
	userID := middleware.UserIDFromContext(c)

	task, err := op(c.Request.Context(), userID, c.Param("propertyId"), c.Param("taskId"))
	if err != nil {
		h.writeErr(c, err, fallback)
		return
	}

	respond.JSON(c, http.StatusOK, toResponse(task))
}

func (h *Handler) remove(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	if err := h.Svc.Delete(c.Request.Context(), userID, c.Param("propertyId"), c.Param("taskId")); err != nil {
		h.writeErr(c, err, "failed to delete task")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) suggest(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	tasks, err := h.Svc.SuggestFromDocument(c.Request.Context(), userID, c.Param("propertyId"), c.Param("documentId"))
	if err != nil {
		h.writeErr(c, err, "failed to suggest maintenance")
		return
	}

	respond.JSON(c, http.StatusCreated, toResponseList(tasks))
}

func (h *Handler) writeErr(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "task not found", nil)
	case errors.Is(err, ErrDismissed):
		respond.Error(c, http.StatusConflict, "task_dismissed", "task is dismissed", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid task fields", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}

func toResponse(task Task) gin.H {
	var lastCompleted *string
	if task.LastCompletedAt != nil {
		s := task.LastCompletedAt.Format(dateLayout)
		lastCompleted = &s
	}
	return gin.H{
		"taskId":          task.ID,
		"propertyId":      task.PropertyID,
		"itemId":          task.ItemID,
		"name":            task.Name,
		"description":     task.Description,
		"intervalMonths":  task.IntervalMonths,
		"nextDueAt":       task.NextDueAt.Format(dateLayout),
		"lastCompletedAt": lastCompleted,
		"source":          task.Source,
		"status":          task.Status,
		"createdAt":       task.CreatedAt,
	}
}

func toResponseList(tasks []Task) []gin.H {
	resp := make([]gin.H, 0, len(tasks))
	for _, task := range tasks {
		resp = append(resp, toResponse(task))
	}
	return resp
}
