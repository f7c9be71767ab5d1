package onboarding

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAskName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		fallback string
		want     string
	}{
		{"typed name", "Kabuto\n", "Tugudori", "Kabuto"},
		{"trimmed", "   Kabuto  \n", "Tugudori", "Kabuto"},
		{"empty keeps fallback", "\n", "Tugudori", "Tugudori"},
		{"eof keeps fallback", "", "Tugudori", "Tugudori"},
		{"no trailing newline", "Kabuto", "Tugudori", "Kabuto"},
		{"too long then valid", strings.Repeat("x", 33) + "\nShort\n", "Tugudori", "Short"},
		{"too long at eof", strings.Repeat("x", 33), "Tugudori", "Tugudori"},
		{"empty fallback", "\n", "", "Tugudori"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			p := New(strings.NewReader(tt.input), &out, 0)
			assert.Equal(t, tt.want, p.AskName(tt.fallback))
			assert.Contains(t, out.String(), "what should we call the specimen?")
		})
	}
}

func TestAskName_RejectsLongName(t *testing.T) {
	var out bytes.Buffer
	p := New(strings.NewReader(strings.Repeat("x", 40)+"\nok\n"), &out, 0)
	p.AskName("")
	assert.Contains(t, out.String(), "pick a name (1-32 characters)")
}

func TestPrintStartup(t *testing.T) {
	var out bytes.Buffer
	p := New(strings.NewReader(""), &out, 0)
	p.PrintStartup("Kabuto", []Check{
		{Label: "simulation running", OK: true},
		{Label: "ai connected", OK: false},
	})

	s := out.String()
	assert.Contains(t, s, "✓ simulation running")
	assert.Contains(t, s, "✗ ai connected")
	assert.Contains(t, s, "Kabuto is in the tank")
}
