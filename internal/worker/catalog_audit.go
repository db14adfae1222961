package worker

import (
	"context"
	"time"

	"github.com/cloudexam/cloudexam-backend/internal/model"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

const catalogAuditTimeout = 4 * time.Minute

// IntegritySource lists questions that do not have exactly one correct answer.
type IntegritySource interface {
	ListIntegrityIssues(ctx context.Context) ([]model.IntegrityIssue, error)
}

// CatalogAuditJob flags questions scored with an ambiguous or missing key.
type CatalogAuditJob struct {
	source IntegritySource
	log    zerolog.Logger
}

func NewCatalogAuditJob(source IntegritySource, log zerolog.Logger) *CatalogAuditJob {
	return &CatalogAuditJob{
		source: source,
		log:    log.With().Str("component", "catalog_audit").Logger(),
	}
}

// Run performs one audit pass and logs every offending question.
func (j *CatalogAuditJob) Run(ctx context.Context) ([]model.IntegrityIssue, error) {
	issues, err := j.source.ListIntegrityIssues(ctx)
	if err != nil {
		j.log.Error().Err(err).Msg("Catalog audit failed")
		return nil, err
	}

	for _, issue := range issues {
		ev := j.log.Warn()
		if issue.CorrectAnswers == 0 {
			ev = ev.Str("problem", "no_correct_answer")
		} else {
			ev = ev.Str("problem", "multiple_correct_answers")
		}
		ev.Int("exam_id", issue.ExamID).
			Int("question_id", issue.QuestionID).
			Int("correct_answers", issue.CorrectAnswers).
			Msg("Question answer key is not unique")
	}

	j.log.Info().Int("issues", len(issues)).Msg("Catalog audit completed")
	return issues, nil
}

// Schedule registers the job on c. An empty spec leaves it unscheduled.
func (j *CatalogAuditJob) Schedule(c *cron.Cron, spec string) (cron.EntryID, error) {
	if spec == "" {
		j.log.Info().Msg("Catalog audit disabled")
		return 0, nil
	}
	id, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), catalogAuditTimeout)
		defer cancel()
		_, _ = j.Run(ctx)
	})
	if err != nil {
		return 0, err
	}
	j.log.Info().Str("schedule", spec).Msg("Catalog audit scheduled")
	return id, nil
}

// NewScheduler returns a cron scheduler that skips overlapping runs and
// recovers panics, logging through log.
func NewScheduler(log zerolog.Logger) *cron.Cron {
	cl := cronLogger{log: log.With().Str("component", "cron").Logger()}
	return cron.New(cron.WithLogger(cl), cron.WithChain(
		cron.Recover(cl),
		cron.SkipIfStillRunning(cl),
	))
}

// cronLogger adapts zerolog to cron.Logger.
type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
