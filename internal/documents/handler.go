package documents

import (
	"errors"
	"net/http"
	"strconv"

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

// RegisterRoutes attaches document routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/properties/:propertyId/documents", h.upload)
	rg.GET("/properties/:propertyId/documents", h.list)
	rg.GET("/properties/:propertyId/documents/:documentId", h.get)
	rg.GET("/properties/:propertyId/documents/:documentId/url", h.signedURL)
	rg.POST("/properties/:propertyId/documents/:documentId/confirm", h.confirm)
	rg.POST("/properties/:propertyId/documents/:documentId/reprocess", h.reprocess)
	rg.POST("/properties/:propertyId/documents/:documentId/discard", h.discard)
	rg.DELETE("/properties/:propertyId/documents/:documentId", h.remove)
}

func (h *Handler) upload(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.Svc.maxUploadBytes()+1)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	ctx := WithRequestID(c.Request.Context(), middleware.RequestIDFromContext(c))
	doc, err := h.Svc.Ingest(ctx, userID, c.Param("propertyId"), IngestInput{
		FileName:     fileHeader.Filename,
		ContentType:  fileHeader.Header.Get("Content-Type"),
		DeclaredSize: fileHeader.Size,
		Source:       SourceUpload,
	}, file)
	if err != nil {
		h.writeErr(c, err, "failed to upload document")
		return
	}

	respond.JSON(c, http.StatusCreated, toResponse(doc))
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	limit := 20
	offset := 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}

	docs, err := h.Svc.List(c.Request.Context(), userID, c.Param("propertyId"), c.Query("status"), limit, offset)
	if err != nil {
		h.writeErr(c, err, "failed to list documents")
		return
	}

	respond.JSON(c, http.StatusOK, toResponseList(docs))
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	doc, err := h.Svc.Get(c.Request.Context(), userID, c.Param("propertyId"), c.Param("documentId"))
	if err != nil {
		h.writeErr(c, err, "failed to fetch document")
		return
	}

	respond.JSON(c, http.StatusOK, toResponse(doc))
}

func (h *Handler) signedURL(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	url, err := h.Svc.SignedURL(c.Request.Context(), userID, c.Param("propertyId"), c.Param("documentId"))
	if err != nil {
		h.writeErr(c, err, "failed to sign document url")
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{"url": url})
}

func (h *Handler) confirm(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req confirmRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
			return
		}
	}

	doc, err := h.Svc.Confirm(c.Request.Context(), userID, c.Param("propertyId"), c.Param("documentId"), ConfirmInput{
		Action:        req.Action,
		MatchedItemID: req.MatchedItemID,
		ItemName:      req.ItemName,
		Category:      req.Category,
		SpaceID:       req.SpaceID,
		EventType:     req.EventType,
	})
	if err != nil {
		h.writeErr(c, err, "failed to confirm document")
		return
	}

	respond.JSON(c, http.StatusOK, toResponse(doc))
}

func (h *Handler) reprocess(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	ctx := WithRequestID(c.Request.Context(), middleware.RequestIDFromContext(c))
	doc, err := h.Svc.Reprocess(ctx, userID, c.Param("propertyId"), c.Param("documentId"))
	if err != nil {
		h.writeErr(c, err, "failed to reprocess document")
		return
	}

	respond.JSON(c, http.StatusOK, toResponse(doc))
}

func (h *Handler) discard(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	doc, err := h.Svc.Discard(c.Request.Context(), userID, c.Param("propertyId"), c.Param("documentId"))
	if err != nil {
		h.writeErr(c, err, "failed to discard document")
		return
	}

	respond.JSON(c, http.StatusOK, toResponse(doc))
}

func (h *Handler) remove(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	if err := h.Svc.Delete(c.Request.Context(), userID, c.Param("propertyId"), c.Param("documentId")); err != nil {
		h.writeErr(c, err, "failed to delete document")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) writeErr(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
	case errors.Is(err, ErrStatusConflict):
		respond.Error(c, http.StatusConflict, "status_conflict", "document is not in the required status", nil)
	case errors.Is(err, ErrUnsupportedType):
		respond.Error(c, http.StatusBadRequest, "unsupported_type", "unsupported content type", nil)
	case errors.Is(err, ErrTooLarge):
		respond.Error(c, http.StatusBadRequest, "too_large", "file exceeds the upload limit", nil)
	case errors.Is(err, ErrNoExtraction):
		respond.Error(c, http.StatusConflict, "no_extraction", "document has no extraction", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid document fields", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}
