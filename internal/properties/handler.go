package properties

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

// RegisterRoutes attaches property routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/properties", h.create)
	rg.GET("/properties", h.list)
	rg.GET("/properties/:propertyId", h.get)
	rg.PATCH("/properties/:propertyId", h.update)
	rg.DELETE("/properties/:propertyId", h.remove)
}

type createRequest struct {
	Name      string `json:"name"`
	Address   string `json:"address"`
	YearBuilt *int   `json:"yearBuilt"`
	Notes     string `json:"notes"`
}

type updateRequest struct {
	Name      *string `json:"name"`
	Address   *string `json:"address"`
	YearBuilt *int    `json:"yearBuilt"`
	Notes     *string `json:"notes"`
}

func (h *Handler) create(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	p, err := h.Svc.Create(c.Request.Context(), userID, CreateInput{
		Name:      req.Name,
		Address:   req.Address,
		YearBuilt: req.YearBuilt,
		Notes:     req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "name is required", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to create property", nil)
		}
		return
	}

	respond.JSON(c, http.StatusCreated, toResponse(p))
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	props, err := h.Svc.List(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list properties", nil)
		return
	}

	resp := make([]gin.H, 0, len(props))
	for _, p := range props {
		resp = append(resp, toResponse(p))
	}
	respond.JSON(c, http.StatusOK, resp)
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	p, err := h.Svc.Get(c.Request.Context(), userID, c.Param("propertyId"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "property not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch property", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, toResponse(p))
}

func (h *Handler) update(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	p, err := h.Svc.Update(c.Request.Context(), userID, c.Param("propertyId"), UpdateInput{
		Name:      req.Name,
		Address:   req.Address,
		YearBuilt: req.YearBuilt,
		Notes:     req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "property not found", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid property fields", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to update property", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, toResponse(p))
}

func (h *Handler) remove(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	if err := h.Svc.Delete(c.Request.Context(), userID, c.Param("propertyId")); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "property not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to delete property", nil)
		}
		return
	}

	c.Status(http.StatusNoContent)
}

func toResponse(p Property) gin.H {
	return gin.H{
		"propertyId": p.ID,
		"name":       p.Name,
		"address":    p.Address,
		"yearBuilt":  p.YearBuilt,
		"notes":      p.Notes,
		"createdAt":  p.CreatedAt,
		"updatedAt":  p.UpdatedAt,
	}
}
