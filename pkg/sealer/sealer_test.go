package sealer

import (
	"errors"
	"testing"
)

const testKey = "lfQVRuulcL2iOhOJ2r8BYTweoSKwVAJnIF9U+AL+M60="

func TestSealOpen(t *testing.T) {
	s, err := New(testKey)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	sealed, err := s.Seal("eyJhbGciOi.token.value")
	if err != nil {
		t.Fatalf("Seal() error = %v", err)
	}
	if sealed == "eyJhbGciOi.token.value" {
		t.Fatal("sealed value must not equal plaintext")
	}

	got, err := s.Open(sealed)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if got != "eyJhbGciOi.token.value" {
		t.Errorf("Open() = %q", got)
	}
}

func TestOpen_Rejects(t *testing.T) {
	s, _ := New(testKey)
	sealed, _ := s.Seal("token")

	tampered := []byte(sealed)
	mid := len(tampered) / 2
	if tampered[mid] == 'A' {
		tampered[mid] = 'B'
	} else {
		tampered[mid] = 'A'
	}

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"not base64", "***", ErrMalformed},
		{"too short", "AAAA", ErrMalformed},
		{"tampered", string(tampered), ErrTamperedSeal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Open(tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Open() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNew_InvalidKey(t *testing.T) {
	if _, err := New("c2hvcnQ="); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("New() error = %v, want ErrInvalidKey", err)
	}
	if _, err := New("%%%"); err == nil {
		t.Error("New() expected error for non-base64 key")
	}
}
