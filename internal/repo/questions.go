package repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"gameday/internal/model"
)

// RandomQuestions samples active questions for one quiz round.
func (r *repository) RandomQuestions(ctx context.Context, limit int) ([]model.Question, error) {
	query := `
		SELECT id, statement, is_true, is_active
		FROM truth_or_myth_questions
		WHERE is_active = TRUE
		ORDER BY RANDOM()
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get random questions: %w", err)
	}
	defer rows.Close()

	var questions []model.Question
	for rows.Next() {
		var q model.Question
		if err := rows.Scan(&q.ID, &q.Statement, &q.IsTrue, &q.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

func (r *repository) ListQuestions(ctx context.Context, includeInactive bool) ([]model.Question, error) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT id, statement, is_true, is_active
		FROM truth_or_myth_questions
	`)
	if !includeInactive {
		sb.WriteString(` WHERE is_active = TRUE`)
	}
	sb.WriteString(` ORDER BY id ASC`)

	rows, err := r.db.QueryContext(ctx, sb.String())
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	defer rows.Close()

	var questions []model.Question
	for rows.Next() {
		var q model.Question
		if err := rows.Scan(&q.ID, &q.Statement, &q.IsTrue, &q.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

func (r *repository) CreateQuestion(ctx context.Context, q *model.Question) (string, error) {
	q.ID = strings.ReplaceAll(uuid.NewString(), "-", "")

	query := `
		INSERT INTO truth_or_myth_questions (id, statement, is_true, is_active)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := r.db.ExecContext(ctx, query, q.ID, q.Statement, q.IsTrue, q.IsActive); err != nil {
		return "", fmt.Errorf("failed to insert question: %w", err)
	}
	return q.ID, nil
}

func (r *repository) UpdateQuestion(ctx context.Context, q *model.Question) (bool, error) {
	query := `
		UPDATE truth_or_myth_questions
		SET statement = $1, is_true = $2, is_active = $3
		WHERE id = $4
	`

	res, err := r.db.ExecContext(ctx, query, q.Statement, q.IsTrue, q.IsActive, q.ID)
	if err != nil {
		return false, fmt.Errorf("failed to update question: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to count updated questions: %w", err)
	}
	return affected > 0, nil
}

func (r *repository) DeleteQuestion(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM truth_or_myth_questions WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete question: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to count deleted questions: %w", err)
	}
	return affected > 0, nil
}
