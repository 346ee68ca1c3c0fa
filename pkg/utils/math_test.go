package utils

import (
	"testing"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name      string
		v, lo, hi float64
		expected  float64
	}{
		{"within range", 50, 0, 100, 50},
		{"below range", -5, 0, 100, 0},
		{"above range", 120, 0, 100, 100},
		{"at lower bound", 0, 0, 100, 0},
		{"at upper bound", 100, 0, 100, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clamp(tt.v, tt.lo, tt.hi); got != tt.expected {
				t.Errorf("Clamp(%v, %v, %v) = %v, want %v", tt.v, tt.lo, tt.hi, got, tt.expected)
			}
		})
	}
}

func TestRoundScore(t *testing.T) {
	if got := RoundScore(66.5); got != 67 {
		t.Errorf("RoundScore(66.5) = %d, want 67", got)
	}
	if got := RoundScore(66.4); got != 66 {
		t.Errorf("RoundScore(66.4) = %d, want 66", got)
	}
	if got := RoundScore(0); got != 0 {
		t.Errorf("RoundScore(0) = %d, want 0", got)
	}
}

func TestPercent(t *testing.T) {
	if got := Percent(3, 4); got != 75.0 {
		t.Errorf("Percent(3, 4) = %v, want 75", got)
	}
	if got := Percent(1, 0); got != 0 {
		t.Errorf("Percent(1, 0) = %v, want 0", got)
	}
}
