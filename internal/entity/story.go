package entity

import (
	"strings"
	"time"
)

// Level is the reading proficiency attached to every story.
type Level string

const (
	LevelA1 Level = "A1"
	LevelA2 Level = "A2"
	LevelB1 Level = "B1"
	LevelB2 Level = "B2"
	LevelC1 Level = "C1"
	LevelC2 Level = "C2"
)

// Levels lists every valid level in display order.
var Levels = []Level{LevelA1, LevelA2, LevelB1, LevelB2, LevelC1, LevelC2}

// ParseLevel normalizes raw form input (trims whitespace, uppercases) and
// reports whether the result is a valid level.
func ParseLevel(s string) (Level, bool) {
	normalized := Level(strings.ToUpper(strings.TrimSpace(s)))
	for _, l := range Levels {
		if normalized == l {
			return l, true
		}
	}
	return "", false
}

type Story struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Level     Level     `json:"level"`
	Summary   string    `json:"summary"`
	Body      string    `json:"body"`
	AuthorID  int       `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
}

// StoryRef is the slim shape used for prev/next navigation links.
type StoryRef struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}
