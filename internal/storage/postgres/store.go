// Package postgres is a ResultStore on PostgreSQL through gorm.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/tjfontaine/interview-coach/internal/core/domain"
	"github.com/tjfontaine/interview-coach/internal/storage"
)

// resultRow is the session_results table.
type resultRow struct {
	SessionID    string    `gorm:"primaryKey;column:session_id"`
	UserID       string    `gorm:"column:user_id;not null;index:idx_session_results_user,priority:1"`
	Topic        string    `gorm:"column:topic;not null"`
	Difficulty   string    `gorm:"column:difficulty;not null"`
	OverallScore float64   `gorm:"column:overall_score;not null"`
	CompletedAt  time.Time `gorm:"column:completed_at;not null;index:idx_session_results_user,priority:2"`
	Report       string    `gorm:"column:report;type:jsonb;not null"`
	Transcript   *string   `gorm:"column:transcript;type:jsonb"`
	CreatedAt    time.Time `gorm:"column:created_at;not null"`
}

func (resultRow) TableName() string { return "session_results" }

// Store is a PostgreSQL implementation of ResultStore
type Store struct {
	db *gorm.DB
}

var _ storage.ResultStore = (*Store)(nil)

// New connects to dsn and migrates the schema.
func New(dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return NewWithDB(db)
}

// NewWithDB wraps an existing gorm connection and migrates the schema.
func NewWithDB(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&resultRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Save inserts a completed session; an existing id yields storage.ErrAlreadyExists.
func (s *Store) Save(ctx context.Context, result *domain.SessionResult) error {
	if err := storage.Validate(result); err != nil {
		return err
	}

	report, err := json.Marshal(result.Report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	row := resultRow{
		SessionID:    result.SessionID,
		UserID:       result.UserID,
		Topic:        result.Report.Topic,
		Difficulty:   string(result.Report.Difficulty),
		OverallScore: result.Report.OverallScore,
		CompletedAt:  result.Report.CompletedAt.UTC(),
		Report:       string(report),
		CreatedAt:    result.CreatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if result.Transcript != nil {
		b, err := json.Marshal(result.Transcript)
		if err != nil {
			return fmt.Errorf("failed to marshal transcript: %w", err)
		}
		t := string(b)
		row.Transcript = &t
	}

	tx := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
	if tx.Error != nil {
		return fmt.Errorf("failed to insert session result: %w", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return fmt.Errorf("session %s: %w", result.SessionID, storage.ErrAlreadyExists)
	}
	return nil
}

// Get loads a stored session result.
func (s *Store) Get(ctx context.Context, sessionID string) (*domain.SessionResult, error) {
	var row resultRow
	err := s.db.WithContext(ctx).Where("session_id = ?", sessionID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("session %s: %w", sessionID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session result: %w", err)
	}
	return row.toResult()
}

// ListByUser returns the user's reports, most recent first.
func (s *Store) ListByUser(ctx context.Context, userID string) ([]domain.FinalReport, error) {
	var rows []resultRow
	err := s.db.WithContext(ctx).
		Select("report").
		Where("user_id = ?", userID).
		Order("completed_at DESC").
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}

	reports := make([]domain.FinalReport, 0, len(rows))
	for _, row := range rows {
		var r domain.FinalReport
		if err := json.Unmarshal([]byte(row.Report), &r); err != nil {
			return nil, fmt.Errorf("failed to unmarshal report: %w", err)
		}
		reports = append(reports, r)
	}
	return reports, nil
}

// Close closes the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (row resultRow) toResult() (*domain.SessionResult, error) {
	result := &domain.SessionResult{
		SessionID: row.SessionID,
		UserID:    row.UserID,
		Report:    &domain.FinalReport{},
		CreatedAt: row.CreatedAt,
	}
	if err := json.Unmarshal([]byte(row.Report), result.Report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}
	if row.Transcript != nil {
		result.Transcript = &domain.Session{}
		if err := json.Unmarshal([]byte(*row.Transcript), result.Transcript); err != nil {
			return nil, fmt.Errorf("failed to unmarshal transcript: %w", err)
		}
	}
	return result, nil
}
