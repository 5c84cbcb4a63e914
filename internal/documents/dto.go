package documents

import (
	"time"

	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

type confirmRequest struct {
	Action        string  `json:"action"`
	MatchedItemID string  `json:"matchedItemId"`
	ItemName      string  `json:"itemName"`
	Category      string  `json:"category"`
	SpaceID       *string `json:"spaceId"`
	EventType     string  `json:"eventType"`
}

func toResponse(doc Document) gin.H {
	return gin.H{
		"documentId":    doc.ID,
		"propertyId":    doc.PropertyID,
		"itemId":        doc.ItemID,
		"eventId":       doc.EventID,
		"docType":       doc.DocType,
		"fileName":      doc.FileName,
		"contentType":   doc.ContentType,
		"sizeBytes":     doc.SizeBytes,
		"status":        doc.Status,
		"extractedData": doc.ExtractedData,
		"resolveData":   doc.ResolveData,
		"documentDate":  formatDate(doc.DocumentDate),
		"source":        doc.Source,
		"createdAt":     doc.CreatedAt,
	}
}

func toResponseList(docs []Document) []gin.H {
	resp := make([]gin.H, 0, len(docs))
	for _, doc := range docs {
		resp = append(resp, toResponse(doc))
	}
	return resp
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}
