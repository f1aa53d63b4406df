package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "trim spaces",
			input: "  La Cripta  ",
			want:  "La Cripta",
		},
		{
			name:  "multiple spaces between words",
			input: "La    Cripta",
			want:  "La Cripta",
		},
		{
			name:  "tabs and newlines",
			input: "La\t\nCripta",
			want:  "La Cripta",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "only whitespace",
			input: "   \t\n  ",
			want:  "",
		},
		{
			name:  "preserve special characters",
			input: " Café & Enigma™ ",
			want:  "Café & Enigma™",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TrimAndNormalize(tt.input)
			if got != tt.want {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSameCity(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"Madrid", "madrid", true},
		{"Málaga", "malaga", true},
		{"  A   Coruña ", "a coruna", true},
		{"Madrid", "Valencia", false},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.a+"|"+tt.b, func(t *testing.T) {
			if got := SameCity(tt.a, tt.b); got != tt.want {
				t.Errorf("SameCity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestFoldCity_Idempotent(t *testing.T) {
	inputs := []string{"Ávila", " Cádiz ", "LLEIDA", "San Sebastián"}
	for _, in := range inputs {
		once := FoldCity(in)
		if twice := FoldCity(once); twice != once {
			t.Errorf("FoldCity not idempotent for %q: %q vs %q", in, once, twice)
		}
	}
}
