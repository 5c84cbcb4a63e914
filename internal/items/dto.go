package items

import (
	"time"

	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

type createRequest struct {
	SpaceID            *string `json:"spaceId"`
	ParentID           *string `json:"parentId"`
	Name               string  `json:"name"`
	Category           string  `json:"category"`
	Manufacturer       string  `json:"manufacturer"`
	ModelNumber        string  `json:"modelNumber"`
	SerialNumber       string  `json:"serialNumber"`
	AcquiredOn         string  `json:"acquiredOn"`
	WarrantyExpiresOn  string  `json:"warrantyExpiresOn"`
	PurchasePriceCents *int64  `json:"purchasePriceCents"`
	Notes              string  `json:"notes"`
}

type updateRequest struct {
	SpaceID            *string `json:"spaceId"`
	ClearSpace         bool    `json:"clearSpace"`
	ParentID           *string `json:"parentId"`
	ClearParent        bool    `json:"clearParent"`
	Name               *string `json:"name"`
	Category           *string `json:"category"`
	Manufacturer       *string `json:"manufacturer"`
	ModelNumber        *string `json:"modelNumber"`
	SerialNumber       *string `json:"serialNumber"`
	AcquiredOn         *string `json:"acquiredOn"`
	WarrantyExpiresOn  *string `json:"warrantyExpiresOn"`
	PurchasePriceCents *int64  `json:"purchasePriceCents"`
	Notes              *string `json:"notes"`
}

func parseDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, ErrInvalidInput
	}
	return &parsed, nil
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

func toResponse(it Item) gin.H {
	return gin.H{
		"itemId":             it.ID,
		"propertyId":         it.PropertyID,
		"spaceId":            it.SpaceID,
		"parentId":           it.ParentID,
		"name":               it.Name,
		"category":           it.Category,
		"manufacturer":       it.Manufacturer,
		"modelNumber":        it.ModelNumber,
		"serialNumber":       it.SerialNumber,
		"acquiredOn":         formatDate(it.AcquiredOn),
		"warrantyExpiresOn":  formatDate(it.WarrantyExpiresOn),
		"purchasePriceCents": it.PurchasePriceCents,
		"notes":              it.Notes,
		"createdAt":          it.CreatedAt,
	}
}
