package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"moodjournal_api/dto"
	"moodjournal_api/internal/repository"
	"moodjournal_api/model"
)

const (
	maxTitleLength = 255
	maxMoodLength  = 50
)

type JournalUsecase interface {
	Create(ctx context.Context, input *dto.JournalInput) (*dto.JournalResponse, error)
	List(ctx context.Context, userID string) ([]dto.JournalResponse, error)
	Get(ctx context.Context, userID string, id uint) (*dto.JournalResponse, error)
	Update(ctx context.Context, id uint, input *dto.JournalInput) (*dto.JournalResponse, error)
	Delete(ctx context.Context, userID string, id uint) error
}

type journalUsecase struct {
	journalRepo repository.JournalRepository
}

func NewJournalUsecase(journalRepo repository.JournalRepository) JournalUsecase {
	return &journalUsecase{journalRepo}
}

func (u *journalUsecase) Create(ctx context.Context, input *dto.JournalInput) (*dto.JournalResponse, error) {
	if err := normalizeJournal(input); err != nil {
		return nil, err
	}

	entry := &model.JournalEntry{
		UserID:         input.UserID,
		Title:          input.Title,
		Content:        input.Content,
		Mood:           input.Mood,
		SentimentScore: input.SentimentScore,
	}
	if err := u.journalRepo.Create(ctx, entry); err != nil {
		return nil, err
	}
	resp := dto.NewJournalResponse(entry)
	return &resp, nil
}

func (u *journalUsecase) List(ctx context.Context, userID string) ([]dto.JournalResponse, error) {
	entries, err := u.journalRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.JournalResponse, 0, len(entries))
	for i := range entries {
		out = append(out, dto.NewJournalResponse(&entries[i]))
	}
	return out, nil
}

func (u *journalUsecase) Get(ctx context.Context, userID string, id uint) (*dto.JournalResponse, error) {
	entry, err := u.find(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewJournalResponse(entry)
	return &resp, nil
}

func (u *journalUsecase) Update(ctx context.Context, id uint, input *dto.JournalInput) (*dto.JournalResponse, error) {
	if err := normalizeJournal(input); err != nil {
		return nil, err
	}

	entry, err := u.find(ctx, input.UserID, id)
	if err != nil {
		return nil, err
	}
	entry.Title = input.Title
	entry.Content = input.Content
	entry.Mood = input.Mood
	entry.SentimentScore = input.SentimentScore

	if err := u.journalRepo.Update(ctx, entry); err != nil {
		return nil, err
	}
	return u.Get(ctx, input.UserID, id)
}

func (u *journalUsecase) Delete(ctx context.Context, userID string, id uint) error {
	if err := u.journalRepo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, repository.ErrEntryNotFound) {
			return ErrEntryNotFound
		}
		return err
	}
	return nil
}

func (u *journalUsecase) find(ctx context.Context, userID string, id uint) (*model.JournalEntry, error) {
	entry, err := u.journalRepo.FindForUser(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrEntryNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}
	return entry, nil
}

func normalizeJournal(input *dto.JournalInput) error {
	input.Title = strings.TrimSpace(input.Title)
	input.Content = strings.TrimSpace(input.Content)
	input.Mood = strings.TrimSpace(input.Mood)

	if input.Content == "" {
		return fmt.Errorf("%w: content is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(input.Title) > maxTitleLength {
		return fmt.Errorf("%w: title must be at most %d characters", ErrInvalidInput, maxTitleLength)
	}
	if utf8.RuneCountInString(input.Mood) > maxMoodLength {
		return fmt.Errorf("%w: mood must be at most %d characters", ErrInvalidInput, maxMoodLength)
	}
	if s := input.SentimentScore; s != nil && (*s < -1 || *s > 1) {
		return fmt.Errorf("%w: sentimentScore must be between -1 and 1", ErrInvalidInput)
	}
	return nil
}
