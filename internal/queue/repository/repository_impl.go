package repository

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/nyarko-dennis/donor-app-backend/internal/queue/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, tx *gorm.DB, job *domain.Job) error {
	return tx.WithContext(ctx).Create(job).Error
}

// Claim selects due jobs and marks them active in one statement pair so
// concurrent workers never double-deliver inside the visibility window.
func (r *repo) Claim(ctx context.Context, tx *gorm.DB, topics []string, limit int, now time.Time, visibility time.Duration) ([]domain.Job, error) {
	if limit <= 0 {
		limit = 20
	}

	var jobs []domain.Job
	if err := tx.WithContext(ctx).Raw(claimQuery(tx), topics, now, limit).Scan(&jobs).Error; err != nil {
		return nil, err
	}
	if len(jobs) == 0 {
		return nil, nil
	}

	ids := make([]snowflake.ID, 0, len(jobs))
	for _, job := range jobs {
		ids = append(ids, job.ID)
	}

	visibleAt := now.Add(visibility)
	err := tx.WithContext(ctx).Exec(
		`UPDATE jobs
		 SET status = 'active', attempts = attempts + 1, visible_at = ?, updated_at = ?
		 WHERE id IN ?`,
		visibleAt, now, ids,
	).Error
	if err != nil {
		return nil, err
	}

	for i := range jobs {
		jobs[i].Status = domain.JobStatusActive
		jobs[i].Attempts++
		jobs[i].VisibleAt = visibleAt
	}
	return jobs, nil
}

func (r *repo) Complete(ctx context.Context, tx *gorm.DB, jobID snowflake.ID, now time.Time) error {
	return tx.WithContext(ctx).Exec(
		`UPDATE jobs SET status = 'completed', updated_at = ? WHERE id = ?`,
		now, jobID,
	).Error
}

func (r *repo) Retry(ctx context.Context, tx *gorm.DB, jobID snowflake.ID, visibleAt time.Time, lastError string) error {
	return tx.WithContext(ctx).Exec(
		`UPDATE jobs SET status = 'queued', visible_at = ?, last_error = ?, updated_at = ? WHERE id = ?`,
		visibleAt, truncateError(lastError), visibleAt, jobID,
	).Error
}

func (r *repo) MarkFailed(ctx context.Context, tx *gorm.DB, jobID snowflake.ID, now time.Time, lastError string) error {
	return tx.WithContext(ctx).Exec(
		`UPDATE jobs SET status = 'failed', last_error = ?, updated_at = ? WHERE id = ?`,
		truncateError(lastError), now, jobID,
	).Error
}

func (r *repo) CountByTopicAndStatus(ctx context.Context, tx *gorm.DB, topic string, status domain.JobStatus) (int64, error) {
	var count int64
	err := tx.WithContext(ctx).Raw(
		`SELECT COUNT(1) FROM jobs WHERE topic = ? AND status = ?`,
		topic, status,
	).Scan(&count).Error
	return count, err
}

// sqlite has no row locks; single-writer semantics there make SKIP
// LOCKED unnecessary.
// claimQuery keeps the locking clause after LIMIT; MySQL rejects it
// between ORDER BY and LIMIT.
func claimQuery(tx *gorm.DB) string {
	return `SELECT id, topic, payload, status, attempts, max_attempts, visible_at, last_error, created_at, updated_at
		 FROM jobs
		 WHERE topic IN ?
		   AND status IN ('queued', 'active')
		   AND visible_at <= ?
		 ORDER BY visible_at ASC, id ASC
		 LIMIT ?` + lockClause(tx)
}

func lockClause(tx *gorm.DB) string {
	if tx == nil || tx.Dialector == nil {
		return ""
	}
	if strings.Contains(strings.ToLower(tx.Dialector.Name()), "sqlite") {
		return ""
	}
	return "\n\t\t FOR UPDATE SKIP LOCKED"
}

func truncateError(msg string) string {
	const max = 1024
	if len(msg) > max {
		return msg[:max]
	}
	return msg
}
