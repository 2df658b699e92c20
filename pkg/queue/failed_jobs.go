package queue

import (
	"context"
	"time"

	"github.com/chiquebutik/butik/pkg/logger"
)

// FailedJobRecord is a row in failed_jobs.
type FailedJobRecord struct {
	ID       uint      `gorm:"primaryKey"`
	Job      string    `gorm:"size:255;not null;index"`
	Payload  string    `gorm:"type:text;not null"`
	Error    string    `gorm:"type:text"`
	Attempts int       `gorm:"not null"`
	FailedAt time.Time `gorm:"not null"`
}

func (FailedJobRecord) TableName() string { return "failed_jobs" }

func (m *Manager) fail(ctx context.Context, env envelope, err error, attempts int) {
	f := FailedJob{
		Name:     env.Name,
		Payload:  env.Payload,
		Err:      err,
		Attempts: attempts,
		FailedAt: time.Now(),
	}

	m.mu.Lock()
	m.failed = append(m.failed, f)
	m.mu.Unlock()

	logger.Error("queue: job failed permanently", "job", env.Name, "attempts", attempts, "error", err)

	if m.db == nil {
		return
	}
	rec := FailedJobRecord{
		Job:      f.Name,
		Payload:  string(f.Payload),
		Attempts: attempts,
		FailedAt: f.FailedAt,
	}
	if err != nil {
		rec.Error = err.Error()
	}
	if dbErr := m.db.WithContext(ctx).Create(&rec).Error; dbErr != nil {
		logger.Warn("queue: persist failed job", "job", f.Name, "error", dbErr)
	}
}
