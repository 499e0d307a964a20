package worker

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/taskboard-dev/taskboard/internal/logger"
	"github.com/taskboard-dev/taskboard/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Retention hard-deletes tasks that have sat in the archived state past the
// retention window. Runs nightly; failures are logged, never fatal.
type Retention struct {
	db        *gorm.DB
	cron      *cron.Cron
	retention time.Duration
}

func NewRetention(db *gorm.DB, days int) *Retention {
	if days <= 0 {
		days = 30
	}

	return &Retention{
		db:        db,
		cron:      cron.New(),
		retention: time.Duration(days) * 24 * time.Hour,
	}
}

func (r *Retention) Start() error {
	if _, err := r.cron.AddFunc("0 3 * * *", r.Purge); err != nil {
		return err
	}

	r.cron.Start()
	return nil
}

func (r *Retention) Stop() {
	r.cron.Stop()
}

// Purge removes archived tasks whose last change is older than the window.
func (r *Retention) Purge() {
	cutoff := time.Now().Add(-r.retention)

	result := r.db.Where("status = ? AND updated_at < ?", models.TaskStatusArchived, cutoff).Delete(&models.Task{})

	if result.Error != nil {
		logger.Error("Failed to purge archived tasks", result.Error)
		return
	}

	if result.RowsAffected > 0 {
		logger.Info("Purged archived tasks",
			zap.Int64("count", result.RowsAffected),
			zap.Time("cutoff", cutoff))
	}
}
