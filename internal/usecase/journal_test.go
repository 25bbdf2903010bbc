package usecase_test

import (
	"context"
	"strings"
	"testing"

	"moodjournal_api/dto"
	"moodjournal_api/internal/repository"
	"moodjournal_api/internal/repository/repositorytest"
	"moodjournal_api/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJournalUsecase_Validation(t *testing.T) {
	uc := usecase.NewJournalUsecase(repository.NewJournalRepository(repositorytest.Open(t)))
	outOfRange := 1.5

	tests := []struct {
		name  string
		input dto.JournalInput
	}{
		{name: "blank content", input: dto.JournalInput{UserID: "u1", Content: "   "}},
		{name: "title too long", input: dto.JournalInput{UserID: "u1", Title: strings.Repeat("t", 256), Content: "x"}},
		{name: "mood too long", input: dto.JournalInput{UserID: "u1", Content: "x", Mood: strings.Repeat("m", 51)}},
		{name: "sentiment out of range", input: dto.JournalInput{UserID: "u1", Content: "x", SentimentScore: &outOfRange}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Create(context.Background(), &tt.input)
			assert.ErrorIs(t, err, usecase.ErrInvalidInput)
		})
	}

	// multibyte titles are measured in characters
	_, err := uc.Create(context.Background(), &dto.JournalInput{UserID: "u1", Title: strings.Repeat("é", 255), Content: "x"})
	assert.NoError(t, err)
}

func TestJournalUsecase_Lifecycle(t *testing.T) {
	uc := usecase.NewJournalUsecase(repository.NewJournalRepository(repositorytest.Open(t)))
	ctx := context.Background()
	score := -0.25

	created, err := uc.Create(ctx, &dto.JournalInput{UserID: "u1", Title: " Day one ", Content: "rainy", Mood: "sad", SentimentScore: &score})
	require.NoError(t, err)
	assert.Equal(t, "Day one", created.Title)
	assert.NotZero(t, created.ID)

	_, err = uc.Get(ctx, "u2", created.ID)
	assert.ErrorIs(t, err, usecase.ErrEntryNotFound)

	_, err = uc.Update(ctx, created.ID, &dto.JournalInput{UserID: "u2", Content: "mine now"})
	assert.ErrorIs(t, err, usecase.ErrEntryNotFound)

	updated, err := uc.Update(ctx, created.ID, &dto.JournalInput{UserID: "u1", Title: "Day one", Content: "sun came out", Mood: "happy"})
	require.NoError(t, err)
	assert.Equal(t, "sun came out", updated.Content)
	assert.Equal(t, "happy", updated.Mood)
	assert.Nil(t, updated.SentimentScore)

	list, err := uc.List(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	empty, err := uc.List(ctx, "u2")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	assert.ErrorIs(t, uc.Delete(ctx, "u2", created.ID), usecase.ErrEntryNotFound)
	require.NoError(t, uc.Delete(ctx, "u1", created.ID))
	_, err = uc.Get(ctx, "u1", created.ID)
	assert.ErrorIs(t, err, usecase.ErrEntryNotFound)
}
