package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, tx *gorm.DB, job *Job) error
	Claim(ctx context.Context, tx *gorm.DB, topics []string, limit int, now time.Time, visibility time.Duration) ([]Job, error)
	Complete(ctx context.Context, tx *gorm.DB, jobID snowflake.ID, now time.Time) error
	Retry(ctx context.Context, tx *gorm.DB, jobID snowflake.ID, visibleAt time.Time, lastError string) error
	MarkFailed(ctx context.Context, tx *gorm.DB, jobID snowflake.ID, now time.Time, lastError string) error
	CountByTopicAndStatus(ctx context.Context, tx *gorm.DB, topic string, status JobStatus) (int64, error)
}
