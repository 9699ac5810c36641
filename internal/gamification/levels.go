package gamification

import "github.com/founder-prep/backend/internal/models"

// LevelThresholds is the XP cutoff for each level, ascending. Index i holds
// the XP needed to reach level i+1; level 1 starts at 0.
var LevelThresholds = []int64{0, 100, 250, 500, 1000, 1750, 2750, 4000, 5500, 7500}

// MaxLevel is the highest reachable level.
var MaxLevel = len(LevelThresholds)

// CalculateLevel returns the largest level whose threshold is <= xp.
// Defined for all xp; negative values map to level 1 and anything past the
// last threshold caps at MaxLevel.
func CalculateLevel(xp int64) int {
	level := 1
	for i, threshold := range LevelThresholds {
		if xp >= threshold {
			level = i + 1
		} else {
			break
		}
	}
	return level
}

// XPForNextLevel reports progress within the current level band. At MaxLevel
// there is no next threshold, so Needed equals Current and Fraction clamps
// to 1.0.
func XPForNextLevel(xp int64) models.LevelProgress {
	level := CalculateLevel(xp)
	if level >= MaxLevel {
		current := xp - LevelThresholds[MaxLevel-1]
		return models.LevelProgress{
			Level:    level,
			Current:  current,
			Needed:   current,
			Fraction: 1.0,
		}
	}

	floor := LevelThresholds[level-1]
	ceil := LevelThresholds[level]
	current := xp - floor
	needed := ceil - floor

	fraction := float64(current) / float64(needed)
	if fraction > 1.0 {
		fraction = 1.0
	}
	if fraction < 0 {
		fraction = 0
	}

	return models.LevelProgress{
		Level:    level,
		Current:  current,
		Needed:   needed,
		Fraction: fraction,
	}
}
