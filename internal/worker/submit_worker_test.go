package worker

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/stemsi/survey-editor/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingStore struct {
	applied []model.Submission
	err     error
}

func (s *recordingStore) ApplySubmission(_ context.Context, sub *model.Submission) error {
	if s.err != nil {
		return s.err
	}
	s.applied = append(s.applied, *sub)
	return nil
}

func TestSubmitWorker_Handle(t *testing.T) {
	store := &recordingStore{}
	w := NewSubmitWorker(store, nil, zerolog.New(io.Discard))

	sub := model.Submission{
		SessionID: uuid.New(),
		SurveyID:  uuid.New(),
		Title:     "Feedback",
		MultiStep: true,
		Questions: []model.SurveyQuestion{{ID: uuid.New(), FieldType: "text", Label: "Name", SkipAction: "next"}},
	}
	raw, err := json.Marshal(sub)
	require.NoError(t, err)

	require.NoError(t, w.handle(context.Background(), string(raw)))
	require.Len(t, store.applied, 1)
	assert.Equal(t, sub.SurveyID, store.applied[0].SurveyID)
	assert.True(t, store.applied[0].MultiStep)
	assert.Equal(t, "Name", store.applied[0].Questions[0].Label)
}

func TestSubmitWorker_HandleMalformed(t *testing.T) {
	store := &recordingStore{}
	w := NewSubmitWorker(store, nil, zerolog.New(io.Discard))

	err := w.handle(context.Background(), "{not json")
	assert.ErrorIs(t, err, errMalformed)
	assert.Empty(t, store.applied)
}

func TestSubmitWorker_HandleStoreError(t *testing.T) {
	boom := errors.New("connection reset")
	w := NewSubmitWorker(&recordingStore{err: boom}, nil, zerolog.New(io.Discard))

	err := w.handle(context.Background(), `{"survey_id":"`+uuid.NewString()+`"}`)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, errMalformed)
	assert.NotErrorIs(t, err, errRejected)
}

func TestSubmitWorker_HandleMissingSurvey(t *testing.T) {
	w := NewSubmitWorker(&recordingStore{err: pgx.ErrNoRows}, nil, zerolog.New(io.Discard))

	err := w.handle(context.Background(), `{"survey_id":"`+uuid.NewString()+`"}`)
	assert.ErrorIs(t, err, errRejected)
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestSubmitWorker_HandleConstraintViolation(t *testing.T) {
	tests := []struct {
		code     string
		rejected bool
	}{
		{code: "23503", rejected: true},
		{code: "23514", rejected: true},
		{code: "40001", rejected: false},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			store := &recordingStore{err: &pgconn.PgError{Code: tt.code}}
			w := NewSubmitWorker(store, nil, zerolog.New(io.Discard))

			err := w.handle(context.Background(), `{"survey_id":"`+uuid.NewString()+`"}`)
			require.Error(t, err)
			assert.Equal(t, tt.rejected, errors.Is(err, errRejected))
		})
	}
}
