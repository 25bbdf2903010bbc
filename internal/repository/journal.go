package repository

import (
	"context"
	"errors"
	"fmt"

	"moodjournal_api/model"

	"gorm.io/gorm"
)

type JournalRepository interface {
	Create(ctx context.Context, entry *model.JournalEntry) error
	ListByUser(ctx context.Context, userID string) ([]model.JournalEntry, error)
	FindForUser(ctx context.Context, userID string, id uint) (*model.JournalEntry, error)
	Update(ctx context.Context, entry *model.JournalEntry) error
	Delete(ctx context.Context, userID string, id uint) error
}

type journalRepository struct {
	db *gorm.DB
}

func NewJournalRepository(db *gorm.DB) JournalRepository {
	return &journalRepository{db}
}

func (r *journalRepository) Create(ctx context.Context, entry *model.JournalEntry) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("create journal entry: %w", err)
	}
	return nil
}

func (r *journalRepository) ListByUser(ctx context.Context, userID string) ([]model.JournalEntry, error) {
	var entries []model.JournalEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("list journal entries: %w", err)
	}
	return entries, nil
}

func (r *journalRepository) FindForUser(ctx context.Context, userID string, id uint) (*model.JournalEntry, error) {
	var entry model.JournalEntry
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("find journal entry: %w", err)
	}
	return &entry, nil
}

func (r *journalRepository) Update(ctx context.Context, entry *model.JournalEntry) error {
	err := r.db.WithContext(ctx).Model(&model.JournalEntry{}).
		Where("id = ? AND user_id = ?", entry.ID, entry.UserID).
		Updates(map[string]any{
			"title":           entry.Title,
			"content":         entry.Content,
			"mood":            entry.Mood,
			"sentiment_score": entry.SentimentScore,
		}).Error
	if err != nil {
		return fmt.Errorf("update journal entry: %w", err)
	}
	return nil
}

func (r *journalRepository) Delete(ctx context.Context, userID string, id uint) error {
	result := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&model.JournalEntry{})
	if result.Error != nil {
		return fmt.Errorf("delete journal entry: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrEntryNotFound
	}
	return nil
}
