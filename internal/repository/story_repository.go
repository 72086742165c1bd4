package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"storyshelf/internal/content"
	"storyshelf/internal/entity"
)

type StoryRepository struct {
	db *sql.DB
}

func NewStoryRepository(db *sql.DB) *StoryRepository {
	return &StoryRepository{db: db}
}

// All returns the catalog newest first; the id tiebreak keeps the order
// deterministic when several stories share a timestamp.
func (r *StoryRepository) All(ctx context.Context) ([]entity.Story, error) {
	query := `
		SELECT id, title, level, summary, body, author_id, created_at
		FROM stories
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stories := []entity.Story{}
	for rows.Next() {
		var s entity.Story
		if err := rows.Scan(
			&s.ID,
			&s.Title,
			&s.Level,
			&s.Summary,
			&s.Body,
			&s.AuthorID,
			&s.CreatedAt,
		); err != nil {
			return nil, err
		}
		stories = append(stories, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stories, nil
}

func (r *StoryRepository) ByID(ctx context.Context, id int) (entity.Story, error) {
	query := `
		SELECT id, title, level, summary, body, author_id, created_at
		FROM stories
		WHERE id = $1
		LIMIT 1
	`

	var s entity.Story
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&s.ID,
		&s.Title,
		&s.Level,
		&s.Summary,
		&s.Body,
		&s.AuthorID,
		&s.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Story{}, content.ErrNotFound
	}
	if err != nil {
		return entity.Story{}, err
	}

	return s, nil
}

// Neighbors resolves prev/next purely by id inequality, so it works for any
// id, existing row or not.
func (r *StoryRepository) Neighbors(ctx context.Context, id int) (prev, next *entity.StoryRef, err error) {
	prev, err = r.neighbor(ctx, `
		SELECT id, title FROM stories
		WHERE id < $1
		ORDER BY id DESC
		LIMIT 1
	`, id)
	if err != nil {
		return nil, nil, err
	}

	next, err = r.neighbor(ctx, `
		SELECT id, title FROM stories
		WHERE id > $1
		ORDER BY id ASC
		LIMIT 1
	`, id)
	if err != nil {
		return nil, nil, err
	}

	return prev, next, nil
}

func (r *StoryRepository) neighbor(ctx context.Context, query string, id int) (*entity.StoryRef, error) {
	var ref entity.StoryRef
	err := r.db.QueryRowContext(ctx, query, id).Scan(&ref.ID, &ref.Title)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ref, nil
}

func (r *StoryRepository) Insert(ctx context.Context, story entity.Story) (int, error) {
	query := `
		INSERT INTO stories (title, level, summary, body, author_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	var id int
	err := r.db.QueryRowContext(ctx, query,
		story.Title,
		story.Level,
		story.Summary,
		story.Body,
		story.AuthorID,
		time.Now(),
	).Scan(&id)
	if err != nil {
		return 0, err
	}

	return id, nil
}
