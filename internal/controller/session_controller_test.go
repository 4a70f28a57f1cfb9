package controller

import (
	"encoding/json"
	"testing"
)

func TestNormalizeColumnsPatchParsesStringValue(t *testing.T) {
	patch := normalizeColumnsPatch(json.RawMessage(`{"columns":" Name,, Email ","collectionId":"c1"}`))

	var fields struct {
		Columns      []string `json:"columns"`
		CollectionID string   `json:"collectionId"`
	}
	if err := json.Unmarshal(patch, &fields); err != nil {
		t.Fatalf("normalized patch does not decode: %v", err)
	}
	if len(fields.Columns) != 2 || fields.Columns[0] != "Name" || fields.Columns[1] != "Email" {
		t.Errorf("expected trimmed column list, got %v", fields.Columns)
	}
	if fields.CollectionID != "c1" {
		t.Errorf("other keys must survive, got %q", fields.CollectionID)
	}
}

func TestNormalizeColumnsPatchDropsEmptyEntries(t *testing.T) {
	patch := normalizeColumnsPatch(json.RawMessage(`{"columns":" , ,"}`))

	var fields struct {
		Columns []string `json:"columns"`
	}
	if err := json.Unmarshal(patch, &fields); err != nil {
		t.Fatalf("normalized patch does not decode: %v", err)
	}
	if len(fields.Columns) != 0 {
		t.Errorf("expected all entries dropped, got %v", fields.Columns)
	}
}

func TestNormalizeColumnsPatchPassThrough(t *testing.T) {
	tests := []struct {
		name  string
		patch string
	}{
		{"array columns stay as sent", `{"columns":["A","B"]}`},
		{"no columns key", `{"text":"Hello"}`},
		{"not an object", `"text"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeColumnsPatch(json.RawMessage(tt.patch))
			var before, after interface{}
			if err := json.Unmarshal([]byte(tt.patch), &before); err != nil {
				t.Fatalf("bad fixture: %v", err)
			}
			if err := json.Unmarshal(got, &after); err != nil {
				t.Fatalf("result does not decode: %v", err)
			}
			b, _ := json.Marshal(before)
			a, _ := json.Marshal(after)
			if string(a) != string(b) {
				t.Errorf("patch changed: %s -> %s", b, a)
			}
		})
	}
}
