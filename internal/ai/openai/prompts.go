package openai

import (
	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/shared"
)

const extractPrompt = `You are reading a household document (receipt, invoice, warranty card,
manual cover, appliance label, or similar photo/scan).

Return JSON by calling extract_home_document (strict).
Rules:
1. documentType is one of: receipt, invoice, warranty, manual, label, other.
2. confidence is your overall confidence in the extraction, 0 to 1.
3. suggestedItemName is the household item this document is about, e.g.
   "Carrier 58TN Gas Furnace". Leave empty if unclear.
4. suggestedCategory is a lowercase category like appliance, hvac, plumbing,
   electrical, roofing, furniture, electronics, other.
5. Dates use YYYY-MM-DD. Leave empty if not printed on the document.
6. financial.totalCents is the grand total in integer cents.
7. Set equipment, financial or warranty to null when the document carries no
   such fields. Never invent values.`

const resolvePrompt = `You are deciding how a newly scanned household document maps onto an
existing home inventory.

Extracted document data:
%s

Existing inventory items:
%s

Return JSON by calling resolve_home_document (strict).
Rules:
1. action = ATTACH_TO_ITEM when the document clearly concerns an existing
   item (matching manufacturer/model/serial, or an unambiguous name match).
   Set matchedItemId to that item's id.
2. action = CHILD_OF_ITEM when the document describes a component or part
   belonging to an existing item (e.g. a filter for a furnace). Set
   matchedItemId to the parent item's id.
3. action = NEW_ITEM otherwise, with matchedItemId = "".
4. suggestedEventType is one of: purchase, repair, maintenance, inspection,
   warranty, other.
5. confidence is 0 to 1. Explain the decision briefly in reasoning.`

const planPrompt = `You are proposing a recurring maintenance plan for a household item based
on a scanned document.

Extracted document data:
%s

Return JSON by calling suggest_maintenance_plan (strict).
Rules:
1. Suggest only routine obligations a homeowner actually schedules for this
   kind of item (filter changes, flushes, inspections, cleanings).
2. intervalMonths is a positive whole number of months between occurrences.
3. Return an empty tasks array when the document implies no recurring care.`

var extractFunction = shared.FunctionDefinitionParam{
	Name:        "extract_home_document",
	Description: openai.String("Record the structured fields read from a household document."),
	Strict:      openai.Bool(true),
	Parameters: shared.FunctionParameters{
		"type": "object",
		"properties": map[string]any{
			"documentType":      map[string]any{"type": "string"},
			"confidence":        map[string]any{"type": "number"},
			"rawText":           map[string]any{"type": "string"},
			"suggestedItemName": map[string]any{"type": "string"},
			"suggestedCategory": map[string]any{"type": "string"},
			"documentDate":      map[string]any{"type": "string"},
			"equipment": map[string]any{
				"type": []string{"object", "null"},
				"properties": map[string]any{
					"manufacturer": map[string]any{"type": "string"},
					"modelNumber":  map[string]any{"type": "string"},
					"serialNumber": map[string]any{"type": "string"},
				},
				"required":             []string{"manufacturer", "modelNumber", "serialNumber"},
				"additionalProperties": false,
			},
			"financial": map[string]any{
				"type": []string{"object", "null"},
				"properties": map[string]any{
					"vendor":     map[string]any{"type": "string"},
					"totalCents": map[string]any{"type": "integer"},
					"currency":   map[string]any{"type": "string"},
				},
				"required":             []string{"vendor", "totalCents", "currency"},
				"additionalProperties": false,
			},
			"warranty": map[string]any{
				"type": []string{"object", "null"},
				"properties": map[string]any{
					"provider":  map[string]any{"type": "string"},
					"expiresOn": map[string]any{"type": "string"},
					"terms":     map[string]any{"type": "string"},
				},
				"required":             []string{"provider", "expiresOn", "terms"},
				"additionalProperties": false,
			},
		},
		"required": []string{
			"documentType",
			"confidence",
			"rawText",
			"suggestedItemName",
			"suggestedCategory",
			"documentDate",
			"equipment",
			"financial",
			"warranty",
		},
		"additionalProperties": false,
	},
}

var resolveFunction = shared.FunctionDefinitionParam{
	Name:        "resolve_home_document",
	Description: openai.String("Decide whether the document creates a new inventory item, attaches to an existing one, or is a component of one."),
	Strict:      openai.Bool(true),
	Parameters: shared.FunctionParameters{
		"type": "object",
		"properties": map[string]any{
			"action": map[string]any{
				"type": "string",
				"enum": []string{"NEW_ITEM", "ATTACH_TO_ITEM", "CHILD_OF_ITEM"},
			},
			"matchedItemId":      map[string]any{"type": "string"},
			"confidence":         map[string]any{"type": "number"},
			"reasoning":          map[string]any{"type": "string"},
			"suggestedEventType": map[string]any{"type": "string"},
		},
		"required": []string{
			"action",
			"matchedItemId",
			"confidence",
			"reasoning",
			"suggestedEventType",
		},
		"additionalProperties": false,
	},
}

var planFunction = shared.FunctionDefinitionParam{
	Name:        "suggest_maintenance_plan",
	Description: openai.String("Propose recurring maintenance tasks for the item this document describes."),
	Strict:      openai.Bool(true),
	Parameters: shared.FunctionParameters{
		"type": "object",
		"properties": map[string]any{
			"tasks": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"name":           map[string]any{"type": "string"},
						"description":    map[string]any{"type": "string"},
						"intervalMonths": map[string]any{"type": "integer"},
					},
					"required":             []string{"name", "description", "intervalMonths"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []string{"tasks"},
		"additionalProperties": false,
	},
}
