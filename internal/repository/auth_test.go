package repository_test

import (
	"context"
	"testing"
	"time"

	"moodjournal_api/dto"
	"moodjournal_api/internal/repository"
	"moodjournal_api/internal/repository/repositorytest"
	"moodjournal_api/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocalUser(t *testing.T, repo repository.AuthRepository, email string) *model.User {
	t.Helper()
	user := &model.User{
		Email:       email,
		Password:    "hash-" + email,
		AccountType: model.AccountLocal,
		Firstname:   "A",
	}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func googleInfo(id, email string) *dto.ProviderUserInfo {
	return &dto.ProviderUserInfo{
		Provider:   model.ProviderGoogle,
		ProviderID: id,
		Email:      email,
		Profile:    model.ProviderProfile{Name: "Ada Lovelace", VerifiedEmail: true},
	}
}

func TestAuthRepository_CreateNormalizesEmail(t *testing.T) {
	repo := repository.NewAuthRepository(repositorytest.Open(t))
	ctx := context.Background()

	user := newLocalUser(t, repo, "  Ada@X.com ")
	assert.Len(t, user.ID, 36)
	assert.Equal(t, "ada@x.com", user.Email)

	found, err := repo.FindByEmail(ctx, "ADA@x.COM")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	_, err = repo.FindByEmail(ctx, "nobody@x.com")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
	_, err = repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestAuthRepository_CreateDuplicates(t *testing.T) {
	repo := repository.NewAuthRepository(repositorytest.Open(t))
	ctx := context.Background()

	newLocalUser(t, repo, "a@x.com")
	err := repo.Create(ctx, &model.User{Email: "A@x.com", AccountType: model.AccountLocal})
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)

	newLocalUser(t, repo, "google_id@x.com")
	err = repo.Create(ctx, &model.User{Email: "google_id@x.com", AccountType: model.AccountLocal})
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)

	first := &model.User{Email: "g1@x.com", AccountType: model.AccountProvider}
	first.AttachProvider(model.ProviderGoogle, "g-1", model.ProviderProfile{})
	require.NoError(t, repo.Create(ctx, first))

	second := &model.User{Email: "g2@x.com", AccountType: model.AccountProvider}
	second.AttachProvider(model.ProviderGoogle, "g-1", model.ProviderProfile{})
	assert.ErrorIs(t, repo.Create(ctx, second), repository.ErrProviderIDTaken)
}

func TestAuthRepository_FindForProviderPrefersEmail(t *testing.T) {
	repo := repository.NewAuthRepository(repositorytest.Open(t))
	ctx := context.Background()

	linked := &model.User{Email: "old@x.com", AccountType: model.AccountProvider}
	linked.AttachProvider(model.ProviderGoogle, "g-1", model.ProviderProfile{})
	require.NoError(t, repo.Create(ctx, linked))
	byEmail := newLocalUser(t, repo, "new@x.com")

	tests := []struct {
		name    string
		id      string
		email   string
		want    string
		wantErr error
	}{
		{name: "email match wins over provider id", id: "g-1", email: "new@x.com", want: byEmail.ID},
		{name: "provider id when email unknown", id: "g-1", email: "changed@x.com", want: linked.ID},
		{name: "provider id without email", id: "g-1", want: linked.ID},
		{name: "neither", id: "g-2", email: "none@x.com", wantErr: repository.ErrUserNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := repo.FindForProvider(ctx, model.ProviderGoogle, tt.id, tt.email)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, user.ID)
		})
	}

	_, err := repo.FindForProvider(ctx, model.ProviderLocal, "x", "")
	assert.Error(t, err)
}

func TestAuthRepository_LinkProvider(t *testing.T) {
	repo := repository.NewAuthRepository(repositorytest.Open(t))
	ctx := context.Background()

	user := newLocalUser(t, repo, "a@x.com")

	linked, err := repo.LinkProvider(ctx, user.ID, googleInfo("g-1", "a@x.com"), model.AccountHybrid)
	require.NoError(t, err)
	assert.True(t, linked)

	stored, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "g-1", stored.ProviderID(model.ProviderGoogle))
	assert.Equal(t, model.AccountHybrid, stored.AccountType)
	require.NotNil(t, stored.GoogleProfile)
	assert.Equal(t, "Ada Lovelace", stored.GoogleProfile.Name)
	assert.Equal(t, "hash-a@x.com", stored.Password)

	// a second link never replaces the first
	linked, err = repo.LinkProvider(ctx, user.ID, googleInfo("g-2", "a@x.com"), model.AccountHybrid)
	require.NoError(t, err)
	assert.False(t, linked)

	stored, err = repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "g-1", stored.ProviderID(model.ProviderGoogle))

	other := newLocalUser(t, repo, "b@x.com")
	_, err = repo.LinkProvider(ctx, other.ID, googleInfo("g-1", "b@x.com"), model.AccountHybrid)
	assert.ErrorIs(t, err, repository.ErrProviderIDTaken)
}

func TestAuthRepository_RecordLogin(t *testing.T) {
	repo := repository.NewAuthRepository(repositorytest.Open(t))
	ctx := context.Background()

	user := newLocalUser(t, repo, "a@x.com")
	at := time.Date(2025, 5, 1, 8, 30, 0, 0, time.UTC)
	require.NoError(t, repo.RecordLogin(ctx, user.ID, model.ProviderGithub, at))

	stored, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.LastLoginAt)
	assert.True(t, at.Equal(*stored.LastLoginAt))
	assert.Equal(t, model.ProviderGithub, stored.LastLoginMethod)
}

func TestAuthRepository_UpdatePasswordComparesCurrentHash(t *testing.T) {
	repo := repository.NewAuthRepository(repositorytest.Open(t))
	ctx := context.Background()

	user := newLocalUser(t, repo, "a@x.com")

	require.NoError(t, repo.UpdatePassword(ctx, user.ID, user.Password, "new-hash"))
	err := repo.UpdatePassword(ctx, user.ID, user.Password, "newer-hash")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)

	stored, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", stored.Password)
}

func TestAuthRepository_UpdateProfile(t *testing.T) {
	repo := repository.NewAuthRepository(repositorytest.Open(t))
	ctx := context.Background()

	user := newLocalUser(t, repo, "a@x.com")
	input := &dto.UserUpdate{ID: user.ID, Firstname: "Grace", Lastname: "Hopper", ProfilePhoto: "https://x.com/p.png"}

	updated, err := repo.UpdateProfile(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, "Grace", updated.Firstname)
	assert.Equal(t, "Hopper", updated.Lastname)
	assert.Equal(t, "https://x.com/p.png", updated.ProfilePhoto)

	// unchanged values still succeed
	_, err = repo.UpdateProfile(ctx, input)
	assert.NoError(t, err)

	_, err = repo.UpdateProfile(ctx, &dto.UserUpdate{ID: "missing", Firstname: "X"})
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestAuthRepository_DeleteUserRemovesEntries(t *testing.T) {
	db := repositorytest.Open(t)
	repo := repository.NewAuthRepository(db)
	journal := repository.NewJournalRepository(db)
	ctx := context.Background()

	user := newLocalUser(t, repo, "a@x.com")
	keep := newLocalUser(t, repo, "b@x.com")
	require.NoError(t, journal.Create(ctx, &model.JournalEntry{UserID: user.ID, Content: "one"}))
	require.NoError(t, journal.Create(ctx, &model.JournalEntry{UserID: keep.ID, Content: "two"}))

	require.NoError(t, repo.DeleteUser(ctx, user.ID))

	_, err := repo.FindByID(ctx, user.ID)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)

	entries, err := journal.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)

	entries, err = journal.ListByUser(ctx, keep.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	assert.ErrorIs(t, repo.DeleteUser(ctx, user.ID), repository.ErrUserNotFound)
}
