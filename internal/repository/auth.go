package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"moodjournal_api/dto"
	"moodjournal_api/model"

	"gorm.io/gorm"
)

type AuthRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindForProvider(ctx context.Context, provider model.Provider, providerID, email string) (*model.User, error)
	LinkProvider(ctx context.Context, userID string, info *dto.ProviderUserInfo, accountType model.AccountType) (bool, error)
	RecordLogin(ctx context.Context, userID string, method model.Provider, at time.Time) error
	UpdatePassword(ctx context.Context, userID, currentHash, newHash string) error
	UpdateProfile(ctx context.Context, input *dto.UserUpdate) (*model.User, error)
	DeleteUser(ctx context.Context, userID string) error
}

type authRepository struct {
	db *gorm.DB
}

func NewAuthRepository(db *gorm.DB) AuthRepository {
	return &authRepository{db}
}

// Create relies on the unique index on email, so two racing signups for the
// same address leave exactly one row and the loser gets ErrDuplicateEmail.
func (r *authRepository) Create(ctx context.Context, user *model.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isDuplicateKey(err) {
			return duplicateError(err)
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *authRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *authRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.first(ctx, "email = ?", model.NormalizeEmail(email))
}

// FindForProvider looks the account up by email first and only then by the
// provider id, so an email match always wins over a provider id match.
func (r *authRepository) FindForProvider(ctx context.Context, provider model.Provider, providerID, email string) (*model.User, error) {
	idColumn, _, ok := model.ProviderColumns(provider)
	if !ok {
		return nil, fmt.Errorf("unknown provider %q", provider)
	}

	if email != "" {
		user, err := r.FindByEmail(ctx, email)
		if err == nil || !errors.Is(err, ErrUserNotFound) {
			return user, err
		}
	}
	return r.first(ctx, idColumn+" = ?", providerID)
}

// LinkProvider attaches the provider identity only if that slot is still
// empty. It reports false when another request linked it first.
func (r *authRepository) LinkProvider(ctx context.Context, userID string, info *dto.ProviderUserInfo, accountType model.AccountType) (bool, error) {
	idColumn, profileColumn, ok := model.ProviderColumns(info.Provider)
	if !ok {
		return false, fmt.Errorf("unknown provider %q", info.Provider)
	}

	profile := info.Profile
	result := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ? AND "+idColumn+" IS NULL", userID).
		Updates(map[string]any{
			idColumn:       info.ProviderID,
			profileColumn:  &profile,
			"account_type": accountType,
		})
	if result.Error != nil {
		if isDuplicateKey(result.Error) {
			return false, ErrProviderIDTaken
		}
		return false, fmt.Errorf("link provider: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *authRepository) RecordLogin(ctx context.Context, userID string, method model.Provider, at time.Time) error {
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"last_login_at":     at,
			"last_login_method": method,
		}).Error
	if err != nil {
		return fmt.Errorf("record login: %w", err)
	}
	return nil
}

// UpdatePassword swaps the hash only while it still equals currentHash.
func (r *authRepository) UpdatePassword(ctx context.Context, userID, currentHash, newHash string) error {
	result := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ? AND password = ?", userID, currentHash).
		Update("password", newHash)
	if result.Error != nil {
		return fmt.Errorf("update password: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *authRepository) UpdateProfile(ctx context.Context, input *dto.UserUpdate) (*model.User, error) {
	result := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", input.ID).
		Updates(map[string]any{
			"firstname":     input.Firstname,
			"lastname":      input.Lastname,
			"profile_photo": input.ProfilePhoto,
		})
	if result.Error != nil {
		return nil, fmt.Errorf("update profile: %w", result.Error)
	}
	// RowsAffected is 0 on MySQL when nothing changed, so existence is
	// decided by the reload.
	return r.FindByID(ctx, input.ID)
}

func (r *authRepository) DeleteUser(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ?", userID).Delete(&model.User{})
		if result.Error != nil {
			return fmt.Errorf("delete user: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrUserNotFound
		}
		if err := tx.Where("user_id = ?", userID).Delete(&model.JournalEntry{}).Error; err != nil {
			return fmt.Errorf("delete journal entries: %w", err)
		}
		return nil
	})
}

func (r *authRepository) first(ctx context.Context, query string, args ...any) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where(query, args...).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}
