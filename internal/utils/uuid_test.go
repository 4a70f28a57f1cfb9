package utils

import "testing"

func TestIsValidUUID(t *testing.T) {
	if !IsValidUUID("9e8b7c6d-5a4f-4e3d-2c1b-0a9f8e7d6c5b") {
		t.Error("expected canonical UUID to validate")
	}
	for _, invalid := range []string{"", "not-a-uuid", "9e8b7c6d-5a4f-4e3d-2c1b"} {
		if IsValidUUID(invalid) {
			t.Errorf("expected %q to be invalid", invalid)
		}
	}
}

func TestGenerateUUID(t *testing.T) {
	a := GenerateUUID()
	b := GenerateUUID()
	if !IsValidUUID(a) || !IsValidUUID(b) {
		t.Error("generated ids must be valid UUIDs")
	}
	if a == b {
		t.Errorf("expected unique ids, both were %s", a)
	}
}
