package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	domain "user-deletion-service/internal/domain/user"
)

const defaultListLimit = 50

// DeletionRepoPG stores deletion audit records through GORM. Despite the
// package name it runs on any GORM dialect; tests use SQLite.
type DeletionRepoPG struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewDeletionRepoPG creates a new instance of DeletionRepoPG.
func NewDeletionRepoPG(db *gorm.DB, log *zap.Logger) *DeletionRepoPG {
	return &DeletionRepoPG{db: db, log: log}
}

// DeletionSchema represents the database schema for the user_deletions table.
type DeletionSchema struct {
	ID             int64     `gorm:"primaryKey;autoIncrement"`
	UserID         string    `gorm:"not null;index"`
	Outcome        string    `gorm:"not null;size:32"`
	ProviderStatus int       `gorm:"not null;default:0"`
	RequestID      string    `gorm:"size:64"`
	Error          string    `gorm:"size:512"`
	CreatedAt      time.Time `gorm:"not null;index"`
}

// TableName specifies the table name for the DeletionSchema model.
func (DeletionSchema) TableName() string {
	return "user_deletions"
}

// Migrate creates or updates the audit table.
func (r *DeletionRepoPG) Migrate(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&DeletionSchema{}); err != nil {
		return fmt.Errorf("failed to migrate user_deletions: %w", err)
	}
	return nil
}

// Create inserts an audit record and sets its ID.
func (r *DeletionRepoPG) Create(ctx context.Context, rec *domain.DeletionRecord) error {
	if rec == nil {
		return errors.New("deletion record cannot be nil")
	}

	model := DeletionSchema{
		UserID:         rec.UserID,
		Outcome:        string(rec.Outcome),
		ProviderStatus: rec.ProviderStatus,
		RequestID:      rec.RequestID,
		Error:          rec.Error,
		CreatedAt:      rec.CreatedAt,
	}
	if model.CreatedAt.IsZero() {
		model.CreatedAt = time.Now().UTC()
	}

	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		r.log.Error("failed to create deletion record in db", zap.Error(err), zap.String("user_id", rec.UserID))
		return fmt.Errorf("failed to create deletion record: %w", err)
	}

	rec.ID = model.ID
	r.log.Debug("deletion record created in db", zap.Int64("id", model.ID), zap.String("outcome", model.Outcome))
	return nil
}

// ListByUserID returns the newest records for userID first. A non-positive
// limit falls back to the default.
func (r *DeletionRepoPG) ListByUserID(ctx context.Context, userID string, limit int) ([]domain.DeletionRecord, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	var models []DeletionSchema
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&models).Error; err != nil {
		r.log.Error("failed to list deletion records from db", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("failed to list deletion records: %w", err)
	}

	records := make([]domain.DeletionRecord, len(models))
	for i, m := range models {
		records[i] = domain.DeletionRecord{
			ID:             m.ID,
			UserID:         m.UserID,
			Outcome:        domain.Outcome(m.Outcome),
			ProviderStatus: m.ProviderStatus,
			RequestID:      m.RequestID,
			Error:          m.Error,
			CreatedAt:      m.CreatedAt,
		}
	}

	return records, nil
}
