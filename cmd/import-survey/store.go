package main

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stemsi/survey-editor/internal/model"
)

// discardStore backs -dry-run: surveys are validated and normalised but
// never written.
type discardStore struct{}

func (discardStore) List(context.Context, int, int, string) ([]model.Survey, int, error) {
	return nil, 0, nil
}

func (discardStore) GetByID(context.Context, uuid.UUID) (*model.Survey, error) {
	return nil, pgx.ErrNoRows
}

func (discardStore) Create(_ context.Context, s *model.Survey) error {
	s.ID = uuid.New()
	return nil
}

func (discardStore) Delete(context.Context, uuid.UUID) error {
	return pgx.ErrNoRows
}
