package repository

import (
	"context"
	"fmt"

	"github.com/cloudexam/cloudexam-backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ExamRepository reads the exam catalog. It never writes.
type ExamRepository struct {
	pool *pgxpool.Pool
}

// NewExamRepository creates a new ExamRepository.
func NewExamRepository(pool *pgxpool.Pool) *ExamRepository {
	return &ExamRepository{pool: pool}
}

// Exists reports whether an exam with the given id exists.
func (r *ExamRepository) Exists(ctx context.Context, examID int) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM exams WHERE id = $1)`, examID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check exam exists: %w", err)
	}
	return exists, nil
}

// ListIDs returns every exam id, used for answer-key prewarming.
func (r *ExamRepository) ListIDs(ctx context.Context) ([]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT id FROM exams ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list exam ids: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListAnswerKeyRows returns one row per (question, correct answer) pair of the
// exam, ordered by question id then answer id. A question without a correct
// answer still yields one row, with a nil CorrectAnswerID.
func (r *ExamRepository) ListAnswerKeyRows(ctx context.Context, examID int) ([]model.AnswerKeyRow, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT q.id, q.explanation, a.id
		 FROM questions q
		 LEFT JOIN answers a ON a.question_id = q.id AND a.is_correct
		 WHERE q.exam_id = $1
		 ORDER BY q.id, a.id`, examID,
	)
	if err != nil {
		return nil, fmt.Errorf("list answer key rows: %w", err)
	}
	defer rows.Close()

	var out []model.AnswerKeyRow
	for rows.Next() {
		var row model.AnswerKeyRow
		if err := rows.Scan(&row.QuestionID, &row.Explanation, &row.CorrectAnswerID); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// ListIntegrityIssues returns every question whose number of correct answers
// is not exactly one.
func (r *ExamRepository) ListIntegrityIssues(ctx context.Context) ([]model.IntegrityIssue, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT q.exam_id, q.id, COUNT(a.id)
		 FROM questions q
		 LEFT JOIN answers a ON a.question_id = q.id AND a.is_correct
		 GROUP BY q.exam_id, q.id
		 HAVING COUNT(a.id) <> 1
		 ORDER BY q.exam_id, q.id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list integrity issues: %w", err)
	}
	defer rows.Close()

	var issues []model.IntegrityIssue
	for rows.Next() {
		var i model.IntegrityIssue
		if err := rows.Scan(&i.ExamID, &i.QuestionID, &i.CorrectAnswers); err != nil {
			return nil, err
		}
		issues = append(issues, i)
	}
	return issues, rows.Err()
}
