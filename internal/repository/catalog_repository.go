package repository

import (
	"context"
	"fmt"

	"github.com/cloudexam/cloudexam-backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CatalogRepository writes catalog fixtures with explicit ids. It is used by
// the seed tool and integration tests; the API never writes the catalog.
type CatalogRepository struct {
	pool *pgxpool.Pool
}

// NewCatalogRepository creates a new CatalogRepository.
func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

// UpsertProvider inserts the provider unless its id already exists.
func (r *CatalogRepository) UpsertProvider(ctx context.Context, p *model.Provider) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO providers (id, name) VALUES ($1, $2)
		 ON CONFLICT (id) DO NOTHING`, p.ID, p.Name,
	)
	return err
}

// UpsertCourse inserts the course unless its id already exists.
func (r *CatalogRepository) UpsertCourse(ctx context.Context, c *model.Course) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO courses (id, provider_id, title, description, level, thumbnail_url)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO NOTHING`,
		c.ID, c.ProviderID, c.Title, c.Description, string(c.Level), c.ThumbnailURL,
	)
	return err
}

// UpsertExam inserts the exam unless its id already exists.
func (r *CatalogRepository) UpsertExam(ctx context.Context, e *model.Exam) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO exams (id, course_id, title, description, duration_minutes, total_questions)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO NOTHING`,
		e.ID, e.CourseID, e.Title, e.Description, e.DurationMinutes, e.TotalQuestions,
	)
	return err
}

// UpsertQuestion inserts the question and its answers in one transaction,
// skipping any id that already exists.
func (r *CatalogRepository) UpsertQuestion(ctx context.Context, q *model.Question, answers []model.Answer) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`INSERT INTO questions (id, exam_id, content, explanation)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (id) DO NOTHING`,
			q.ID, q.ExamID, q.Content, q.Explanation,
		); err != nil {
			return fmt.Errorf("upsert question %d: %w", q.ID, err)
		}

		batch := &pgx.Batch{}
		for _, a := range answers {
			batch.Queue(
				`INSERT INTO answers (id, question_id, content, is_correct)
				 VALUES ($1, $2, $3, $4)
				 ON CONFLICT (id) DO NOTHING`,
				a.ID, q.ID, a.Content, a.IsCorrect,
			)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("upsert answers of question %d: %w", q.ID, err)
		}
		return nil
	})
}

// SyncSequences moves every catalog serial past the highest explicit id so
// later inserts without an id do not collide.
func (r *CatalogRepository) SyncSequences(ctx context.Context) error {
	for _, table := range []string{"providers", "courses", "exams", "questions", "answers"} {
		_, err := r.pool.Exec(ctx, fmt.Sprintf(
			`SELECT setval(pg_get_serial_sequence('%[1]s', 'id'), COALESCE((SELECT MAX(id) FROM %[1]s), 0) + 1, false)`,
			table,
		))
		if err != nil {
			return fmt.Errorf("sync %s sequence: %w", table, err)
		}
	}
	return nil
}
