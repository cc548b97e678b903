package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrTopicRequired    = errors.New("topic_required")
	ErrHandlerRequired  = errors.New("handler_required")
	ErrDuplicateHandler = errors.New("duplicate_handler")
)

type JobStatus string

const (
	JobStatusQueued    JobStatus = "queued"
	JobStatusActive    JobStatus = "active"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// Job is one durable unit of background work. Delivery is at-least-once:
// a handler crash after completion but before the status write results
// in a redelivery, so handlers must be idempotent.
type Job struct {
	ID          snowflake.ID   `gorm:"column:id;primaryKey" json:"id"`
	Topic       string         `gorm:"column:topic" json:"topic"`
	Payload     datatypes.JSON `gorm:"column:payload" json:"payload"`
	Status      JobStatus      `gorm:"column:status" json:"status"`
	Attempts    int            `gorm:"column:attempts" json:"attempts"`
	MaxAttempts int            `gorm:"column:max_attempts" json:"max_attempts"`
	VisibleAt   time.Time      `gorm:"column:visible_at" json:"visible_at"`
	LastError   *string        `gorm:"column:last_error" json:"last_error,omitempty"`
	CreatedAt   time.Time      `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"column:updated_at" json:"updated_at"`
}

func (Job) TableName() string {
	return "jobs"
}

// Handler processes one delivered job payload. Returning an error
// reschedules the job until max_attempts is exhausted.
type Handler func(ctx context.Context, payload []byte) error

// Queue is the producer/consumer contract. Exactly one handler may be
// registered per topic per process.
type Queue interface {
	Enqueue(ctx context.Context, topic string, payload any) error
	EnqueueTx(ctx context.Context, tx *gorm.DB, topic string, payload any) error
	Subscribe(topic string, handler Handler) error
}
