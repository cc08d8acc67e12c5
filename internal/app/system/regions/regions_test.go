package regions

import "testing"

func TestCanonical(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"Kyiv Oblast", "Kyiv Oblast", true},
		{"  kyiv oblast ", "Kyiv Oblast", true},
		{"IVANO-FRANKIVSK OBLAST", "Ivano-Frankivsk Oblast", true},
		{"Kyiv", "", false},
		{"", "", false},
	}
	for _, tc := range tests {
		got, ok := Canonical(tc.in)
		if got != tc.want || ok != tc.wantOK {
			t.Errorf("Canonical(%q) = (%q, %v), want (%q, %v)", tc.in, got, ok, tc.want, tc.wantOK)
		}
	}
}

func TestAll_HasNoDuplicates(t *testing.T) {
	if len(All) != 24 {
		t.Errorf("len(All) = %d, want 24", len(All))
	}
	if len(byFold) != len(All) {
		t.Errorf("folded names collide: %d unique of %d", len(byFold), len(All))
	}
}
