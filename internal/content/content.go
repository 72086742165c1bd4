// Package content is the story catalog: listing, lookup, prev/next
// navigation and validated authoring.
package content

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"storyshelf/internal/entity"
)

// ErrNotFound is returned when a story id has no matching row.
var ErrNotFound = errors.New("story not found")

// StoryStore is the persistence contract. All reads honor the catalog
// ordering documented on each method; the postgres implementation lives in
// internal/repository.
type StoryStore interface {
	// All returns every story ordered by created_at descending, id
	// descending on ties.
	All(ctx context.Context) ([]entity.Story, error)
	// ByID returns the story or ErrNotFound.
	ByID(ctx context.Context, id int) (entity.Story, error)
	// Neighbors returns the story with the largest id below id and the
	// smallest id above it; either may be nil at the catalog boundary.
	Neighbors(ctx context.Context, id int) (prev, next *entity.StoryRef, err error)
	// Insert stores the story and returns its assigned id.
	Insert(ctx context.Context, story entity.Story) (int, error)
}

// StoryInput is the authoring form, echoed back on validation failure.
type StoryInput struct {
	Title   string
	Level   string
	Summary string
	Body    string
}

// ValidationError carries the message and the (trimmed, level-normalized)
// input for form redisplay.
type ValidationError struct {
	Message string
	Values  StoryInput
}

func (e *ValidationError) Error() string {
	return e.Message
}

type Service struct {
	stories StoryStore
}

func NewService(stories StoryStore) *Service {
	return &Service{stories: stories}
}

// List returns the catalog in recency order. An empty catalog is an empty
// slice, not an error.
func (s *Service) List(ctx context.Context) ([]entity.Story, error) {
	stories, err := s.stories.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list stories: %w", err)
	}
	return stories, nil
}

// Get returns a single story, or ErrNotFound.
func (s *Service) Get(ctx context.Context, id int) (entity.Story, error) {
	story, err := s.stories.ByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return entity.Story{}, ErrNotFound
	}
	if err != nil {
		return entity.Story{}, fmt.Errorf("get story %d: %w", id, err)
	}
	return story, nil
}

// Adjacent resolves the navigation neighbors of id. Adjacency is id order,
// not creation-time order: a story inserted out of chronological id order
// will list by recency but navigate by id. The inequality also means the id
// itself need not exist.
func (s *Service) Adjacent(ctx context.Context, id int) (prev, next *entity.StoryRef, err error) {
	prev, next, err = s.stories.Neighbors(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("adjacent stories of %d: %w", id, err)
	}
	return prev, next, nil
}

// Create validates and inserts a story, returning the new id. On a
// validation failure nothing is inserted.
func (s *Service) Create(ctx context.Context, in StoryInput, authorID int) (int, error) {
	values := StoryInput{
		Title:   strings.TrimSpace(in.Title),
		Level:   strings.ToUpper(strings.TrimSpace(in.Level)),
		Summary: strings.TrimSpace(in.Summary),
		Body:    strings.TrimSpace(in.Body),
	}

	if values.Title == "" || values.Summary == "" || values.Body == "" {
		return 0, &ValidationError{Message: "Please fill in all required fields.", Values: values}
	}

	level, ok := entity.ParseLevel(values.Level)
	if !ok {
		return 0, &ValidationError{Message: "Please choose a valid level (A1–C2).", Values: values}
	}

	id, err := s.stories.Insert(ctx, entity.Story{
		Title:    values.Title,
		Level:    level,
		Summary:  values.Summary,
		Body:     values.Body,
		AuthorID: authorID,
	})
	if err != nil {
		return 0, fmt.Errorf("insert story: %w", err)
	}
	return id, nil
}
