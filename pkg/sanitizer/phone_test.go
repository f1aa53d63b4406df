package sanitizer

import "testing"

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"spanish mobile without prefix", "612 345 678", "+34612345678"},
		{"spanish landline with prefix", "+34 91 123 45 67", "+34911234567"},
		{"empty", "   ", ""},
		{"unparseable kept as typed", " call me ", "call me"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePhone(tt.input); got != tt.want {
				t.Errorf("NormalizePhone(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
