package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/survey-editor/internal/model"
)

// SurveyRepository handles survey and question data access.
type SurveyRepository struct {
	pool *pgxpool.Pool
}

// NewSurveyRepository creates a new SurveyRepository.
func NewSurveyRepository(pool *pgxpool.Pool) *SurveyRepository {
	return &SurveyRepository{pool: pool}
}

// List retrieves surveys with pagination, optionally filtered by title.
func (r *SurveyRepository) List(ctx context.Context, limit, offset int, search string) ([]model.Survey, int, error) {
	where := ""
	var args []interface{}
	if search != "" {
		where = ` WHERE s.title ILIKE $1`
		args = append(args, "%"+search+"%")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM surveys s`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(
		`SELECT s.id, s.title, s.intro, s.multi_step, s.display_directly,
		        (SELECT COUNT(*) FROM survey_questions q WHERE q.survey_id = s.id),
		        s.created_at, s.updated_at
		 FROM surveys s%s
		 ORDER BY s.updated_at DESC
		 LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var surveys []model.Survey
	for rows.Next() {
		var s model.Survey
		if err := rows.Scan(&s.ID, &s.Title, &s.Intro, &s.MultiStep, &s.DisplayDirectly,
			&s.QuestionCount, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, 0, err
		}
		surveys = append(surveys, s)
	}
	return surveys, total, rows.Err()
}

// GetByID retrieves a survey with its questions ordered by sort_order.
// Returns pgx.ErrNoRows when the survey does not exist.
func (r *SurveyRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Survey, error) {
	s := &model.Survey{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, title, intro, multi_step, display_directly, created_at, updated_at
		 FROM surveys WHERE id = $1`, id,
	).Scan(&s.ID, &s.Title, &s.Intro, &s.MultiStep, &s.DisplayDirectly, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, survey_id, sort_order, field_type, label, choices,
		        skip_action, skip_survey_id, skip_question
		 FROM survey_questions WHERE survey_id = $1
		 ORDER BY sort_order`, id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var q model.SurveyQuestion
		if err := rows.Scan(&q.ID, &q.SurveyID, &q.SortOrder, &q.FieldType, &q.Label, &q.Choices,
			&q.SkipAction, &q.SkipSurveyID, &q.SkipQuestion); err != nil {
			return nil, err
		}
		s.Questions = append(s.Questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	s.QuestionCount = len(s.Questions)
	return s, nil
}

// Create inserts a new survey and, when given, its questions.
func (r *SurveyRepository) Create(ctx context.Context, s *model.Survey) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO surveys (title, intro, multi_step, display_directly)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		s.Title, s.Intro, s.MultiStep, s.DisplayDirectly,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert survey: %w", err)
	}

	for i := range s.Questions {
		s.Questions[i].SurveyID = s.ID
		if s.Questions[i].ID == uuid.Nil {
			s.Questions[i].ID = uuid.New()
		}
	}
	if err := insertQuestions(ctx, tx, s.Questions); err != nil {
		return err
	}
	s.QuestionCount = len(s.Questions)

	return tx.Commit(ctx)
}

// Delete removes a survey and its questions.
func (r *SurveyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	cmdTag, err := r.pool.Exec(ctx, `DELETE FROM surveys WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ApplySubmission replaces a survey's title, display options and full
// question list in one transaction.
func (r *SurveyRepository) ApplySubmission(ctx context.Context, sub *model.Submission) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	cmdTag, err := tx.Exec(ctx,
		`UPDATE surveys
		 SET title = $1, multi_step = $2, display_directly = $3, updated_at = NOW()
		 WHERE id = $4`,
		sub.Title, sub.MultiStep, sub.DisplayDirectly, sub.SurveyID,
	)
	if err != nil {
		return fmt.Errorf("update survey: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	if _, err := tx.Exec(ctx, `DELETE FROM survey_questions WHERE survey_id = $1`, sub.SurveyID); err != nil {
		return fmt.Errorf("delete questions: %w", err)
	}
	if err := insertQuestions(ctx, tx, sub.Questions); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func insertQuestions(ctx context.Context, tx pgx.Tx, questions []model.SurveyQuestion) error {
	if len(questions) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, q := range questions {
		choices := q.Choices
		if choices == nil {
			choices = []string{}
		}
		batch.Queue(
			`INSERT INTO survey_questions
			   (id, survey_id, sort_order, field_type, label, choices, skip_action, skip_survey_id, skip_question)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			q.ID, q.SurveyID, q.SortOrder, q.FieldType, q.Label, choices, q.SkipAction, q.SkipSurveyID, q.SkipQuestion,
		)
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert questions: %w", err)
	}
	return nil
}
