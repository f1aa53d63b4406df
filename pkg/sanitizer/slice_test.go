package sanitizer

import (
	"reflect"
	"testing"
)

func TestSplitList(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"comma separated", "terror, misterio,aventura", []string{"terror", "misterio", "aventura"}},
		{"duplicates removed", "terror, terror ,misterio", []string{"terror", "misterio"}},
		{"empty items skipped", ", ,terror,,", []string{"terror"}},
		{"newlines", "terror\nmisterio", []string{"terror", "misterio"}},
		{"empty input", "", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitList(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitList(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeSlots(t *testing.T) {
	got := NormalizeSlots([]string{" 18:00", "10:30", "18:00 ", "", "09:00"})
	want := []string{"09:00", "10:30", "18:00"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NormalizeSlots() = %v, want %v", got, want)
	}
}

func TestUniqueCities(t *testing.T) {
	got := UniqueCities([]string{"Valencia", " madrid", "Ávila", "Madrid", "", "avila"})
	want := []string{"Ávila", "madrid", "Valencia"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("UniqueCities() = %v, want %v", got, want)
	}
}
