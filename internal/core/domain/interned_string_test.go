package domain_test

import (
	"encoding/json"
	"testing"

	"go.trai.ch/quick/internal/core/domain"
)

func TestInternedString(t *testing.T) {
	is1 := domain.NewInternedString("serde")
	is2 := domain.NewInternedString("serde")

	if is1 != is2 {
		t.Errorf("expected interned strings of equal values to be equal")
	}

	if is1.String() != "serde" {
		t.Errorf("expected String() to return %q, got %q", "serde", is1.String())
	}
}

func TestInternedString_ZeroValue(t *testing.T) {
	var zero domain.InternedString
	if !zero.IsZero() {
		t.Error("expected zero value to report IsZero")
	}
	if zero.String() != "" {
		t.Errorf("expected empty string, got %q", zero.String())
	}
	if domain.NewInternedString("").IsZero() {
		t.Error("an interned empty string is set, not zero")
	}
}

func TestInternedString_Compare(t *testing.T) {
	a := domain.NewInternedString("alpha")
	b := domain.NewInternedString("beta")

	if a.Compare(b) >= 0 {
		t.Error("expected alpha < beta")
	}
	if b.Compare(a) <= 0 {
		t.Error("expected beta > alpha")
	}
	if a.Compare(domain.NewInternedString("alpha")) != 0 {
		t.Error("expected equal values to compare as 0")
	}
}

func TestInternedStringJSON(t *testing.T) {
	original := domain.NewInternedString("1.0.188")

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}
	if string(data) != `"1.0.188"` {
		t.Errorf("expected JSON %q, got %q", `"1.0.188"`, string(data))
	}

	var decoded domain.InternedString
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if decoded != original {
		t.Errorf("expected %q after round trip, got %q", original.String(), decoded.String())
	}
}
