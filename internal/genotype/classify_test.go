package genotype

import "testing"

func TestPredicates(t *testing.T) {
	tests := []struct {
		gt                               string
		ref, het, homAlt, variant, miss bool
	}{
		{"0/0", true, false, false, false, false},
		{"0|0", true, false, false, false, false},
		{"0/1", false, true, false, true, false},
		{"1/0", false, true, false, true, false},
		{"1|0", false, true, false, true, false},
		{"1/1", false, false, true, true, false},
		{"2/2", false, false, true, true, false},
		{"./.", false, false, false, false, true},
		{".|.", false, false, false, false, true},
		{".-.", false, false, false, false, true},
		{"./1", false, false, false, false, true},
		{"", false, false, false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.gt, func(t *testing.T) {
			if got := IsRef(tt.gt); got != tt.ref {
				t.Errorf("IsRef(%q) = %v, want %v", tt.gt, got, tt.ref)
			}
			if got := IsHet(tt.gt); got != tt.het {
				t.Errorf("IsHet(%q) = %v, want %v", tt.gt, got, tt.het)
			}
			if got := IsHomAlt(tt.gt); got != tt.homAlt {
				t.Errorf("IsHomAlt(%q) = %v, want %v", tt.gt, got, tt.homAlt)
			}
			if got := IsVariant(tt.gt); got != tt.variant {
				t.Errorf("IsVariant(%q) = %v, want %v", tt.gt, got, tt.variant)
			}
			if got := IsMissing(tt.gt); got != tt.miss {
				t.Errorf("IsMissing(%q) = %v, want %v", tt.gt, got, tt.miss)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"":      "./.",
		".":     "./.",
		"0/1":   "0/1",
		" 0/1 ": "0/1",
		"1|1":   "1|1",
		"x":     "./.",
	}
	for in, want := range tests {
		if got := Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}
