package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/survey-editor/internal/config"
	"github.com/stemsi/survey-editor/internal/model"
)

// SubmissionStore persists a submitted editing session.
// *repository.SurveyRepository implements it.
type SubmissionStore interface {
	ApplySubmission(ctx context.Context, sub *model.Submission) error
}

// errMalformed marks payloads that can never be applied and must not be
// requeued.
var errMalformed = errors.New("malformed submission")

// errRejected marks submissions the store refused for good: the survey
// was deleted meanwhile or a row breaks a foreign key or check constraint.
// They go to the dead-letter list instead of the queue.
var errRejected = errors.New("submission rejected by store")

const (
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// permanent reports whether retrying err can never succeed.
func permanent(err error) bool {
	if errors.Is(err, pgx.ErrNoRows) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgForeignKeyViolation || pgErr.Code == pgCheckViolation
	}
	return false
}

// SubmitWorker consumes survey_submit_queue and writes each submitted
// session's questions and display options to PostgreSQL.
type SubmitWorker struct {
	store      SubmissionStore
	rdb        *redis.Client
	log        zerolog.Logger
	retryDelay time.Duration
}

// NewSubmitWorker creates a new SubmitWorker.
func NewSubmitWorker(store SubmissionStore, rdb *redis.Client, log zerolog.Logger) *SubmitWorker {
	return &SubmitWorker{
		store:      store,
		rdb:        rdb,
		log:        log.With().Str("component", "submit_worker").Logger(),
		retryDelay: 5 * time.Second,
	}
}

// Start begins the worker loop. Call in a goroutine.
func (w *SubmitWorker) Start(ctx context.Context) {
	w.log.Info().Msg("Worker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopping...")
			w.drain(context.Background())
			w.log.Info().Msg("Worker stopped")
			return
		default:
			w.processNext(ctx)
		}
	}
}

func (w *SubmitWorker) processNext(ctx context.Context) {
	queue := config.WorkerKey.SurveySubmitQueue
	result, err := w.rdb.BLPop(ctx, time.Second, queue).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
			w.log.Error().Err(err).Msg("BLPop error")
		}
		return
	}
	if len(result) < 2 {
		return
	}

	err = w.handle(ctx, result[1])
	if err == nil || errors.Is(err, errMalformed) {
		return
	}
	if errors.Is(err, errRejected) {
		w.deadLetter(result[1], err)
		return
	}

	w.log.Error().Err(err).Dur("retry_in", w.retryDelay).Msg("Persist error, requeueing")
	if err := w.rdb.RPush(context.Background(), queue, result[1]).Err(); err != nil {
		w.log.Error().Err(err).Msg("Requeue failed, submission lost")
	}
	select {
	case <-ctx.Done():
	case <-time.After(w.retryDelay):
	}
}

// handle decodes and applies one queued submission.
func (w *SubmitWorker) handle(ctx context.Context, raw string) error {
	var sub model.Submission
	if err := json.Unmarshal([]byte(raw), &sub); err != nil {
		w.log.Error().Err(err).Msg("Unmarshal error, dropping payload")
		return fmt.Errorf("%w: %v", errMalformed, err)
	}

	if err := w.store.ApplySubmission(ctx, &sub); err != nil {
		if permanent(err) {
			return fmt.Errorf("apply submission %s: %w: %w", sub.SessionID, errRejected, err)
		}
		return fmt.Errorf("apply submission %s: %w", sub.SessionID, err)
	}

	w.log.Info().
		Str("session_id", sub.SessionID.String()).
		Str("survey_id", sub.SurveyID.String()).
		Int("questions", len(sub.Questions)).
		Msg("Submission saved")
	return nil
}

// drain processes all remaining items in the queue before shutdown.
func (w *SubmitWorker) drain(ctx context.Context) {
	queue := config.WorkerKey.SurveySubmitQueue
	drained := 0
	for {
		raw, err := w.rdb.LPop(ctx, queue).Result()
		if err != nil {
			break
		}

		if err := w.handle(ctx, raw); err != nil {
			if errors.Is(err, errMalformed) {
				continue
			}
			if errors.Is(err, errRejected) {
				w.deadLetter(raw, err)
				continue
			}
			w.log.Error().Err(err).Msg("Drain persist error")
			w.rdb.RPush(ctx, queue, raw)
			break
		}
		drained++
	}

	if drained > 0 {
		w.log.Info().Int("count", drained).Msg("Drained remaining submissions")
	}
}

// deadLetter parks a rejected submission so it stops cycling through the
// submit queue but can still be inspected.
func (w *SubmitWorker) deadLetter(raw string, cause error) {
	w.log.Error().Err(cause).Msg("Submission rejected, moving to dead-letter list")
	if err := w.rdb.RPush(context.Background(), config.WorkerKey.SurveySubmitDeadQueue, raw).Err(); err != nil {
		w.log.Error().Err(err).Msg("Dead-letter push failed, submission dropped")
	}
}
