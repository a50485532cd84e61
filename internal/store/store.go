package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/stanislavsmatishchuk-spec/Telegram-bot/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrInvalidInput marks a user-supplied reminder field that failed validation.
var ErrInvalidInput = errors.New("invalid reminder input")

// Store is the single source of truth for users and reminders.
type Store struct {
	db *gorm.DB
}

// New wraps an open GORM connection.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// UpsertUser inserts the user or refreshes its identity fields.
// Safe to call on every observed interaction.
func (s *Store) UpsertUser(ctx context.Context, id int64, username, firstName string) error {
	user := model.User{
		ID:        id,
		Username:  username,
		FirstName: firstName,
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"username", "first_name"}),
	}).Create(&user).Error
	if err != nil {
		return fmt.Errorf("upsert user %d: %w", id, err)
	}
	return nil
}

// CreateReminder persists a new unsent reminder and returns its id.
// The text must be non-empty and remindAt strictly in the future.
func (s *Store) CreateReminder(ctx context.Context, userID int64, text string, remindAt time.Time) (uint, error) {
	if strings.TrimSpace(text) == "" {
		return 0, fmt.Errorf("%w: reminder text is empty", ErrInvalidInput)
	}
	remindAt = remindAt.Truncate(time.Second)
	if !remindAt.After(time.Now()) {
		return 0, fmt.Errorf("%w: remind time %s is not in the future", ErrInvalidInput, remindAt.Format(time.DateTime))
	}

	reminder := model.Reminder{
		UserID:   userID,
		Text:     text,
		RemindAt: remindAt,
	}
	if err := s.db.WithContext(ctx).Create(&reminder).Error; err != nil {
		return 0, fmt.Errorf("create reminder: %w", err)
	}
	return reminder.ID, nil
}

// ListPending returns the user's unsent reminders, soonest first.
func (s *Store) ListPending(ctx context.Context, userID int64) ([]model.Reminder, error) {
	var reminders []model.Reminder
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND sent = ?", userID, false).
		Order("remind_at ASC").
		Find(&reminders).Error
	if err != nil {
		return nil, fmt.Errorf("list pending reminders for user %d: %w", userID, err)
	}
	return reminders, nil
}

// DeleteReminder removes the reminder if it is unsent and owned by userID.
// The WHERE clause is the ownership check: a false return means no row matched.
func (s *Store) DeleteReminder(ctx context.Context, id uint, userID int64) (bool, error) {
	result := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ? AND sent = ?", id, userID, false).
		Delete(&model.Reminder{})
	if result.Error != nil {
		return false, fmt.Errorf("delete reminder %d: %w", id, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// DueUnsent returns every unsent reminder due at or before now, soonest first.
// Reads committed state directly; no caching between sweeps.
func (s *Store) DueUnsent(ctx context.Context, now time.Time) ([]model.Reminder, error) {
	var reminders []model.Reminder
	err := s.db.WithContext(ctx).
		Where("sent = ? AND remind_at <= ?", false, now).
		Order("remind_at ASC").
		Find(&reminders).Error
	if err != nil {
		return nil, fmt.Errorf("fetch due reminders: %w", err)
	}
	return reminders, nil
}

// MarkSent flips the sent flag. Marking an already-sent or deleted id is a no-op.
func (s *Store) MarkSent(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).
		Model(&model.Reminder{}).
		Where("id = ?", id).
		Update("sent", true).Error
	if err != nil {
		return fmt.Errorf("mark reminder %d sent: %w", id, err)
	}
	return nil
}
