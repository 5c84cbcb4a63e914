package spaces

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"homefax-backend/internal/shared/server/middleware"
	"homefax-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches space routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/properties/:propertyId/spaces", h.create)
	rg.GET("/properties/:propertyId/spaces", h.list)
	rg.PATCH("/properties/:propertyId/spaces/:spaceId", h.update)
	rg.DELETE("/properties/:propertyId/spaces/:spaceId", h.remove)
}

type createRequest struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

type updateRequest struct {
	Name *string `json:"name"`
	Kind *string `json:"kind"`
}

func (h *Handler) create(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	sp, err := h.Svc.Create(c.Request.Context(), userID, c.Param("propertyId"), req.Name, req.Kind)
	if err != nil {
		h.writeErr(c, err, "failed to create space")
		return
	}
	respond.JSON(c, http.StatusCreated, toResponse(sp))
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	sps, err := h.Svc.List(c.Request.Context(), userID, c.Param("propertyId"))
	if err != nil {
		h.writeErr(c, err, "failed to list spaces")
		return
	}

	resp := make([]gin.H, 0, len(sps))
	for _, sp := range sps {
		resp = append(resp, toResponse(sp))
	}
	respond.JSON(c, http.StatusOK, resp)
}

func (h *Handler) update(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	sp, err := h.Svc.Update(c.Request.Context(), userID, c.Param("propertyId"), c.Param("spaceId"), req.Name, req.Kind)
	if err != nil {
		h.writeErr(c, err, "failed to update space")
		return
	}
	respond.JSON(c, http.StatusOK, toResponse(sp))
}

func (h *Handler) remove(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	if err := h.Svc.Delete(c.Request.Context(), userID, c.Param("propertyId"), c.Param("spaceId")); err != nil {
		h.writeErr(c, err, "failed to delete space")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) writeErr(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "space not found", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid space fields", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}

func toResponse(sp Space) gin.H {
	return gin.H{
		"spaceId":    sp.ID,
		"propertyId": sp.PropertyID,
		"name":       sp.Name,
		"kind":       sp.Kind,
		"createdAt":  sp.CreatedAt,
	}
}
