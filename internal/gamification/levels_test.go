package gamification

import "testing"

func TestCalculateLevel(t *testing.T) {
	tests := []struct {
		xp   int64
		want int
	}{
		{-50, 1},
		{0, 1},
		{99, 1},
		{100, 2},
		{249, 2},
		{250, 3},
		{499, 3},
		{500, 4},
		{1000, 5},
		{1750, 6},
		{2750, 7},
		{4000, 8},
		{5500, 9},
		{7499, 9},
		{7500, 10},
		{1000000, 10},
	}

	for _, tt := range tests {
		got := CalculateLevel(tt.xp)
		if got != tt.want {
			t.Errorf("CalculateLevel(%d) = %d, want %d", tt.xp, got, tt.want)
		}
	}
}

func TestCalculateLevelMonotonic(t *testing.T) {
	prev := 0
	for xp := int64(0); xp <= 8000; xp += 50 {
		level := CalculateLevel(xp)
		if level < prev {
			t.Fatalf("level dropped from %d to %d at %d xp", prev, level, xp)
		}
		prev = level
	}
}

func TestXPForNextLevel(t *testing.T) {
	// Mid-band: 150 XP is level 2, 50 into a 150-point band.
	p := XPForNextLevel(150)
	if p.Level != 2 || p.Current != 50 || p.Needed != 150 {
		t.Errorf("XPForNextLevel(150) = %+v, want level 2, 50/150", p)
	}
	if p.Fraction < 0.33 || p.Fraction > 0.34 {
		t.Errorf("XPForNextLevel(150) fraction = %f, want ~0.333", p.Fraction)
	}

	// Exactly on a threshold: progress resets to 0 in the new band.
	p = XPForNextLevel(250)
	if p.Level != 3 || p.Current != 0 || p.Needed != 250 || p.Fraction != 0 {
		t.Errorf("XPForNextLevel(250) = %+v, want level 3, 0/250", p)
	}

	// At max level Fraction clamps to 1.
	p = XPForNextLevel(9000)
	if p.Level != MaxLevel {
		t.Errorf("XPForNextLevel(9000) level = %d, want %d", p.Level, MaxLevel)
	}
	if p.Fraction != 1.0 {
		t.Errorf("XPForNextLevel(9000) fraction = %f, want 1.0", p.Fraction)
	}
}
