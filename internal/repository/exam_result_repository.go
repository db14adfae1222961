package repository

import (
	"context"
	"fmt"

	"github.com/cloudexam/cloudexam-backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ExamResultRepository is the append-only store of exam results and their
// user answers. It exposes no update or delete.
type ExamResultRepository struct {
	pool *pgxpool.Pool
}

// NewExamResultRepository creates a new ExamResultRepository.
func NewExamResultRepository(pool *pgxpool.Pool) *ExamResultRepository {
	return &ExamResultRepository{pool: pool}
}

// Create inserts the result and all of its answers in one transaction.
// On success result.ID and result.CompletedAt are set from the database, and
// each answer's ID and ExamResultID are filled in.
func (r *ExamResultRepository) Create(ctx context.Context, result *model.ExamResult, answers []model.UserAnswer) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO exam_results (user_id, exam_id, score, correct_count, total_questions, completed_at)
			 VALUES ($1, $2, $3, $4, $5, NOW())
			 RETURNING id, completed_at`,
			result.UserID, result.ExamID, result.Score, result.CorrectCount, result.TotalQuestions,
		).Scan(&result.ID, &result.CompletedAt)
		if err != nil {
			return fmt.Errorf("insert exam result: %w", err)
		}

		if len(answers) == 0 {
			return nil
		}

		n := len(answers)
		questionIDs := make([]int32, n)
		answerIDs := make([]int32, n)
		correct := make([]bool, n)
		ordinals := make([]int32, n)
		for i, a := range answers {
			if a.QuestionID > model.MaxID || a.AnswerID > model.MaxID {
				return fmt.Errorf("insert user answers: answer %d ids out of range", i)
			}
			questionIDs[i] = int32(a.QuestionID)
			answerIDs[i] = int32(a.AnswerID)
			correct[i] = a.IsCorrect
			ordinals[i] = int32(i)
		}

		// Rows are inserted in submission order so ids preserve it.
		rows, err := tx.Query(ctx,
			`INSERT INTO user_answers (exam_result_id, question_id, answer_id, is_correct)
			 SELECT $1, u.question_id, u.answer_id, u.is_correct
			 FROM UNNEST($2::int[], $3::int[], $4::bool[], $5::int[])
			      AS u (question_id, answer_id, is_correct, ord)
			 ORDER BY u.ord
			 RETURNING id`,
			result.ID, questionIDs, answerIDs, correct, ordinals,
		)
		if err != nil {
			return fmt.Errorf("insert user answers: %w", err)
		}
		ids, err := pgx.CollectRows(rows, pgx.RowTo[int])
		if err != nil {
			return fmt.Errorf("insert user answers: %w", err)
		}
		if len(ids) != n {
			return fmt.Errorf("insert user answers: wrote %d of %d rows", len(ids), n)
		}
		for i := range answers {
			answers[i].ID = ids[i]
			answers[i].ExamResultID = result.ID
		}
		return nil
	})
}

// GetByID loads a result with its full exam summary and its answers in
// submission order. Returns ErrNotFound when no such result exists.
func (r *ExamResultRepository) GetByID(ctx context.Context, resultID int) (*model.StoredResult, error) {
	res := &model.StoredResult{}
	var provider model.ProviderSummary
	err := r.pool.QueryRow(ctx,
		`SELECT er.id, er.user_id, er.exam_id, er.score, er.correct_count, er.total_questions, er.completed_at,
		        e.id, e.title, e.description, e.duration_minutes,
		        c.id, c.title, c.level,
		        p.id, p.name
		 FROM exam_results er
		 JOIN exams e ON e.id = er.exam_id
		 JOIN courses c ON c.id = e.course_id
		 JOIN providers p ON p.id = c.provider_id
		 WHERE er.id = $1`, resultID,
	).Scan(
		&res.ID, &res.UserID, &res.ExamID, &res.Score, &res.CorrectCount, &res.TotalQuestions, &res.CompletedAt,
		&res.Exam.ID, &res.Exam.Title, &res.Exam.Description, &res.Exam.DurationMinutes,
		&res.Exam.Course.ID, &res.Exam.Course.Title, &res.Exam.Course.Level,
		&provider.ID, &provider.Name,
	)
	if err != nil {
		return nil, notFound(err)
	}
	res.Exam.Course.Provider = &provider

	rows, err := r.pool.Query(ctx,
		`SELECT id, exam_result_id, question_id, answer_id, is_correct
		 FROM user_answers
		 WHERE exam_result_id = $1
		 ORDER BY id`, resultID,
	)
	if err != nil {
		return nil, fmt.Errorf("list user answers: %w", err)
	}
	defer rows.Close()

	res.UserAnswers = []model.UserAnswer{}
	for rows.Next() {
		var a model.UserAnswer
		if err := rows.Scan(&a.ID, &a.ExamResultID, &a.QuestionID, &a.AnswerID, &a.IsCorrect); err != nil {
			return nil, err
		}
		res.UserAnswers = append(res.UserAnswers, a)
	}
	return res, rows.Err()
}

// ListByUser returns a page of the user's results, newest first, together with
// the user's total result count.
func (r *ExamResultRepository) ListByUser(ctx context.Context, userID, limit, offset int) ([]model.StoredResult, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM exam_results WHERE user_id = $1`, userID,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count results: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT er.id, er.user_id, er.exam_id, er.score, er.correct_count, er.total_questions, er.completed_at,
		        e.id, e.title, c.id, c.title, c.level
		 FROM exam_results er
		 JOIN exams e ON e.id = er.exam_id
		 JOIN courses c ON c.id = e.course_id
		 WHERE er.user_id = $1
		 ORDER BY er.completed_at DESC, er.id DESC
		 LIMIT $2 OFFSET $3`, userID, limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	var results []model.StoredResult
	for rows.Next() {
		var s model.StoredResult
		if err := rows.Scan(
			&s.ID, &s.UserID, &s.ExamID, &s.Score, &s.CorrectCount, &s.TotalQuestions, &s.CompletedAt,
			&s.Exam.ID, &s.Exam.Title, &s.Exam.Course.ID, &s.Exam.Course.Title, &s.Exam.Course.Level,
		); err != nil {
			return nil, 0, err
		}
		results = append(results, s)
	}
	return results, total, rows.Err()
}

// ListScoresByUser returns the stored score columns of every result of the user.
func (r *ExamResultRepository) ListScoresByUser(ctx context.Context, userID int) ([]model.ResultScore, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT score, correct_count, total_questions
		 FROM exam_results
		 WHERE user_id = $1`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}
	defer rows.Close()

	var scores []model.ResultScore
	for rows.Next() {
		var s model.ResultScore
		if err := rows.Scan(&s.Score, &s.CorrectCount, &s.TotalQuestions); err != nil {
			return nil, err
		}
		scores = append(scores, s)
	}
	return scores, rows.Err()
}
