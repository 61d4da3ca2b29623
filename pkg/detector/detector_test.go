package detector

import (
	"testing"

	"github.com/pemistahl/lingua-go"
)

func TestDetect(t *testing.T) {
	d := NewDetector(lingua.English, lingua.German, lingua.French)

	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "english",
			text: "The quick brown fox jumps over the lazy dog while the farmer watches from the house.",
			want: "en",
		},
		{
			name: "german",
			text: "Der schnelle braune Fuchs springt über den faulen Hund, während der Bauer vom Haus aus zusieht.",
			want: "de",
		},
		{
			name: "french",
			text: "Le renard brun rapide saute par-dessus le chien paresseux pendant que le fermier regarde depuis la maison.",
			want: "fr",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := d.Detect(tt.text)
			if !ok {
				t.Fatalf("Detect() ok = false")
			}
			if got.Code != tt.want {
				t.Errorf("Detect().Code = %q, want %q", got.Code, tt.want)
			}
			if got.Confidence <= 0 || got.Confidence > 1 {
				t.Errorf("Detect().Confidence = %v, want (0, 1]", got.Confidence)
			}
		})
	}
}

func TestDetect_Empty(t *testing.T) {
	if _, ok := NewDetector().Detect("   "); ok {
		t.Error("Detect(blank) ok = true, want false")
	}
}

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"hello", 3, "hel"},
		{"héllo", 2, "hé"},
		{"hi", 5, "hi"},
		{"abc", 0, "abc"},
	}
	for _, tt := range tests {
		if got := truncateRunes(tt.in, tt.n); got != tt.want {
			t.Errorf("truncateRunes(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}
