package domain

import (
	"fmt"
	"strings"
)

// Difficulty is the normalized difficulty stored on sessions and questions.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

var difficultyAliases = map[string]Difficulty{
	"easy":         DifficultyEasy,
	"beginner":     DifficultyEasy,
	"medium":       DifficultyMedium,
	"intermediate": DifficultyMedium,
	"hard":         DifficultyHard,
	"advanced":     DifficultyHard,
}

// Difficulties lists every difficulty from easiest to hardest.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

// ParseDifficulty accepts either the easy/medium/hard or the
// beginner/intermediate/advanced convention, case-insensitively.
func ParseDifficulty(s string) (Difficulty, error) {
	d, ok := difficultyAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", ErrInvalidRequest(fmt.Sprintf("unrecognized difficulty %q", s)).
			WithCode(ErrorCodeInvalidDifficulty)
	}
	return d, nil
}

// Rank returns the position of d in Difficulties, or -1 if d is not normalized.
func (d Difficulty) Rank() int {
	for i, v := range Difficulties {
		if v == d {
			return i
		}
	}
	return -1
}
