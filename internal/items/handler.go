package items

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

// RegisterRoutes attaches item routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/properties/:propertyId/items", h.create)
	rg.GET("/properties/:propertyId/items", h.list)
	rg.GET("/properties/:propertyId/items/:itemId", h.get)
	rg.GET("/properties/:propertyId/items/:itemId/children", h.children)
	rg.PATCH("/properties/:propertyId/items/:itemId", h.update)
	rg.DELETE("/properties/:propertyId/items/:itemId", h.remove)
}

func (h *Handler) create(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	acquiredOn, err := parseDate(req.AcquiredOn)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "acquiredOn must be YYYY-MM-DD", nil)
		return
	}
	warrantyExpiresOn, err := parseDate(req.WarrantyExpiresOn)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "warrantyExpiresOn must be YYYY-MM-DD", nil)
		return
	}

	it, err := h.Svc.Create(c.Request.Context(), userID, c.Param("propertyId"), CreateInput{
		SpaceID:            req.SpaceID,
		ParentID:           req.ParentID,
		Name:               req.Name,
		Category:           req.Category,
		Manufacturer:       req.Manufacturer,
		ModelNumber:        req.ModelNumber,
		SerialNumber:       req.SerialNumber,
		AcquiredOn:         acquiredOn,
		WarrantyExpiresOn:  warrantyExpiresOn,
		PurchasePriceCents: req.PurchasePriceCents,
		Notes:              req.Notes,
	})
	if err != nil {
		h.writeErr(c, err, "failed to create item")
		return
	}

	respond.JSON(c, http.StatusCreated, toResponse(it))
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	its, err := h.Svc.List(c.Request.Context(), userID, c.Param("propertyId"))
	if err != nil {
		h.writeErr(c, err, "failed to list items")
		return
	}

	respond.JSON(c, http.StatusOK, toResponseList(its))
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	it, err := h.Svc.Get(c.Request.Context(), userID, c.Param("propertyId"), c.Param("itemId"))
	if err != nil {
		h.writeErr(c, err, "failed to fetch item")
		return
	}

	respond.JSON(c, http.StatusOK, toResponse(it))
}

func (h *Handler) children(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	its, err := h.Svc.Children(c.Request.Context(), userID, c.Param("propertyId"), c.Param("itemId"))
	if err != nil {
		h.writeErr(c, err, "failed to list components")
		return
	}

	respond.JSON(c, http.StatusOK, toResponseList(its))
}

func (h *Handler) update(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	in := UpdateInput{
		SpaceID:            req.SpaceID,
		ClearSpace:         req.ClearSpace,
		ParentID:           req.ParentID,
		ClearParent:        req.ClearParent,
		Name:               req.Name,
		Category:           req.Category,
		Manufacturer:       req.Manufacturer,
		ModelNumber:        req.ModelNumber,
		SerialNumber:       req.SerialNumber,
		PurchasePriceCents: req.PurchasePriceCents,
		Notes:              req.Notes,
	}
	if req.AcquiredOn != nil {
		parsed, err := parseDate(*req.AcquiredOn)
		if err != nil || parsed == nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "acquiredOn must be YYYY-MM-DD", nil)
			return
		}
		in.AcquiredOn = parsed
	}
	if req.WarrantyExpiresOn != nil {
		parsed, err := parseDate(*req.WarrantyExpiresOn)
		if err != nil || parsed == nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "warrantyExpiresOn must be YYYY-MM-DD", nil)
			return
		}
		in.WarrantyExpiresOn = parsed
	}

	it, err := h.Svc.Update(c.Request.Context(), userID, c.Param("propertyId"), c.Param("itemId"), in)
	if err != nil {
		h.writeErr(c, err, "failed to update item")
		return
	}

	respond.JSON(c, http.StatusOK, toResponse(it))
}

func (h *Handler) remove(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	if err := h.Svc.Delete(c.Request.Context(), userID, c.Param("propertyId"), c.Param("itemId")); err != nil {
		h.writeErr(c, err, "failed to delete item")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) writeErr(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "item not found", nil)
	case errors.Is(err, ErrParentCycle):
		respond.Error(c, http.StatusConflict, "parent_cycle", "item cannot be its own ancestor", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid item fields", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}

func toResponseList(its []Item) []gin.H {
	resp := make([]gin.H, 0, len(its))
	for _, it := range its {
		resp = append(resp, toResponse(it))
	}
	return resp
}
