package ai

import (
	"testing"
)

func TestNormalizeDropsMalformedDates(t *testing.T) {
	data := ExtractedData{
		DocumentType: " Receipt ",
		Confidence:   1.4,
		DocumentDate: "02/15/2024",
		Warranty:     &Warranty{Provider: "Bosch", ExpiresOn: "soon"},
	}
	data.Normalize()

	if data.DocumentType != "receipt" {
		t.Fatalf("expected lowercase trimmed doc type, got %q", data.DocumentType)
	}
	if data.Confidence != 1 {
		t.Fatalf("expected confidence clamped to 1, got %v", data.Confidence)
	}
	if data.DocumentDate != "" {
		t.Fatalf("expected malformed document date dropped, got %q", data.DocumentDate)
	}
	if data.Warranty.ExpiresOn != "" {
		t.Fatalf("expected malformed warranty date dropped, got %q", data.Warranty.ExpiresOn)
	}
}

func TestNormalizeNilsEmptyEquipment(t *testing.T) {
	data := ExtractedData{Equipment: &Equipment{}}
	data.Normalize()
	if data.Equipment != nil {
		t.Fatalf("expected empty equipment nilled out")
	}

	data = ExtractedData{Equipment: &Equipment{Manufacturer: "Bosch"}}
	data.Normalize()
	if data.Equipment == nil {
		t.Fatalf("expected populated equipment kept")
	}
}

func TestResolutionValidate(t *testing.T) {
	cases := []struct {
		name    string
		res     Resolution
		wantErr bool
	}{
		{"new item", Resolution{Action: ActionNewItem}, false},
		{"lowercase action normalized", Resolution{Action: "new_item"}, false},
		{"attach with match", Resolution{Action: ActionAttachToItem, MatchedItemID: "item-1"}, false},
		{"attach without match", Resolution{Action: ActionAttachToItem}, true},
		{"child without match", Resolution{Action: ActionChildOfItem}, true},
		{"unknown action", Resolution{Action: "MERGE"}, true},
	}

	for _, tc := range cases {
		err := tc.res.Validate()
		if tc.wantErr && err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
		if !tc.wantErr && err != nil {
			t.Errorf("%s: unexpected error %v", tc.name, err)
		}
	}
}

func TestValidateNormalizesAction(t *testing.T) {
	res := Resolution{Action: " attach_to_item ", MatchedItemID: " item-1 "}
	if err := res.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if res.Action != ActionAttachToItem {
		t.Fatalf("expected normalized action, got %q", res.Action)
	}
	if res.MatchedItemID != "item-1" {
		t.Fatalf("expected trimmed matched item id, got %q", res.MatchedItemID)
	}
}

func TestParseDate(t *testing.T) {
	if got := ParseDate("2024-02-15"); got == nil || got.Format("2006-01-02") != "2024-02-15" {
		t.Fatalf("expected parsed date, got %v", got)
	}
	if got := ParseDate(""); got != nil {
		t.Fatalf("expected nil for empty date, got %v", got)
	}
	if got := ParseDate("15/02/2024"); got != nil {
		t.Fatalf("expected nil for malformed date, got %v", got)
	}
}
