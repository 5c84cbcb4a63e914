package events

import (
	"errors"
	"net/http"
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

// RegisterRoutes attaches event routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/properties/:propertyId/items/:itemId/events", h.create)
	rg.GET("/properties/:propertyId/items/:itemId/events", h.list)
	rg.GET("/properties/:propertyId/timeline", h.timeline)
	rg.DELETE("/properties/:propertyId/items/:itemId/events/:eventId", h.remove)
}

type createRequest struct {
	Type        string `json:"type"`
	OccurredOn  string `json:"occurredOn"`
	Description string `json:"description"`
	CostCents   *int64 `json:"costCents"`
	PerformedBy string `json:"performedBy"`
}

func (h *Handler) create(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	occurredOn, err := time.Parse(dateLayout, req.OccurredOn)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "occurredOn must be YYYY-MM-DD", nil)
		return
	}

	ev, err := h.Svc.Create(c.Request.Context(), userID, c.Param("propertyId"), c.Param("itemId"), CreateInput{
		Type:        req.Type,
		OccurredOn:  occurredOn,
		Description: req.Description,
		CostCents:   req.CostCents,
		PerformedBy: req.PerformedBy,
	})
	if err != nil {
		h.writeErr(c, err, "failed to create event")
		return
	}

	respond.JSON(c, http.StatusCreated, toResponse(ev))
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	evs, err := h.Svc.ListByItem(c.Request.Context(), userID, c.Param("propertyId"), c.Param("itemId"))
	if err != nil {
		h.writeErr(c, err, "failed to list events")
		return
	}

	respond.JSON(c, http.StatusOK, toResponseList(evs))
}

func (h *Handler) timeline(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	evs, err := h.Svc.Timeline(c.Request.Context(), userID, c.Param("propertyId"))
	if err != nil {
		h.writeErr(c, err, "failed to fetch timeline")
		return
	}

	respond.JSON(c, http.StatusOK, toResponseList(evs))
}

func (h *Handler) remove(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	err := h.Svc.Delete(c.Request.Context(), userID, c.Param("propertyId"), c.Param("itemId"), c.Param("eventId"))
	if err != nil {
		h.writeErr(c, err, "failed to delete event")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) writeErr(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "event not found", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid event fields", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}

func toResponse(ev Event) gin.H {
	return gin.H{
		"eventId":     ev.ID,
		"itemId":      ev.ItemID,
		"type":        ev.Type,
		"occurredOn":  ev.OccurredOn.Format(dateLayout),
		"description": ev.Description,
		"costCents":   ev.CostCents,
		"performedBy": ev.PerformedBy,
		"createdAt":   ev.CreatedAt,
	}
}

func toResponseList(evs []Event) []gin.H {
	resp := make([]gin.H, 0, len(evs))
	for _, ev := range evs {
		resp = append(resp, toResponse(ev))
	}
	return resp
}
