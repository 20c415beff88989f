package uuid

import "testing"

func TestNew(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := New()
		if !IsValid(id) {
			t.Fatalf("generated invalid uuid %q", id)
		}
		if id[14] != '7' {
			t.Errorf("expected version 7 uuid, got %q", id)
		}
		if seen[id] {
			t.Fatalf("duplicate uuid %q", id)
		}
		seen[id] = true
	}
}

func TestIsValid(t *testing.T) {
	if IsValid("prop-1") {
		t.Error("expected prop-1 to be invalid")
	}
	if !IsValid("0190a6c4-5c1e-7b3a-9f7e-2d7a4c3b1e00") {
		t.Error("expected canonical uuid to be valid")
	}
}
