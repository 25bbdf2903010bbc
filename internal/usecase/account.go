package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"moodjournal_api/dto"
	"moodjournal_api/internal/repository"
	"moodjournal_api/model"
	"moodjournal_api/utils"
)

// AccountResolver maps a login attempt, local or through a provider, onto the
// single account that owns the email address.
type AccountResolver struct {
	repo repository.AuthRepository
	now  func() time.Time
}

func NewAccountResolver(repo repository.AuthRepository) *AccountResolver {
	return &AccountResolver{repo: repo, now: time.Now}
}

func (r *AccountResolver) ResolveLocal(ctx context.Context, email, password string) (*model.User, error) {
	user, err := r.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if !user.CanLoginWithPassword() {
		return nil, ErrWrongLoginMethod
	}
	if !utils.ComparePassword(user.Password, password) {
		return nil, ErrInvalidCredentials
	}

	if err := r.recordLogin(ctx, user, model.ProviderLocal); err != nil {
		return nil, err
	}
	return user, nil
}

func (r *AccountResolver) ResolveProvider(ctx context.Context, info *dto.ProviderUserInfo) (*model.User, error) {
	if info.Email == "" || info.ProviderID == "" {
		return nil, fmt.Errorf("%w: provider identity needs an email and an id", ErrInvalidInput)
	}

	user, err := r.repo.FindForProvider(ctx, info.Provider, info.ProviderID, info.Email)
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		user, err = r.createFromProvider(ctx, info)
		if errors.Is(err, repository.ErrDuplicateEmail) {
			// a concurrent signup won the insert; merge onto its row
			user, err = r.repo.FindByEmail(ctx, info.Email)
			if err != nil {
				return nil, err
			}
			err = r.link(ctx, user, info)
		}
	case err == nil:
		err = r.link(ctx, user, info)
	}
	if err != nil {
		if errors.Is(err, repository.ErrProviderIDTaken) {
			return nil, ErrProviderConflict
		}
		return nil, err
	}

	if err := r.recordLogin(ctx, user, info.Provider); err != nil {
		return nil, err
	}
	return user, nil
}

// link attaches the provider identity unless one is already set. An attached
// provider id is never replaced.
func (r *AccountResolver) link(ctx context.Context, user *model.User, info *dto.ProviderUserInfo) error {
	if user.HasProvider(info.Provider) {
		return nil
	}

	accountType := user.LinkedAccountType()
	linked, err := r.repo.LinkProvider(ctx, user.ID, info, accountType)
	if err != nil {
		return err
	}
	if !linked {
		fresh, err := r.repo.FindByID(ctx, user.ID)
		if err != nil {
			return err
		}
		*user = *fresh
		return nil
	}

	user.AccountType = accountType
	user.AttachProvider(info.Provider, info.ProviderID, info.Profile)
	return nil
}

func (r *AccountResolver) createFromProvider(ctx context.Context, info *dto.ProviderUserInfo) (*model.User, error) {
	first, last := utils.SplitName(info.Name)
	if first == "" {
		first = "User"
	}

	user := &model.User{
		Email:              info.Email,
		AccountType:        model.AccountProvider,
		Firstname:          first,
		Lastname:           last,
		ProfilePhoto:       info.Picture,
		RegistrationSource: info.Provider,
		IsEmailVerified:    info.EmailVerified,
	}
	user.AttachProvider(info.Provider, info.ProviderID, info.Profile)

	if err := r.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (r *AccountResolver) recordLogin(ctx context.Context, user *model.User, method model.Provider) error {
	now := r.now()
	if err := r.repo.RecordLogin(ctx, user.ID, method, now); err != nil {
		return err
	}
	user.LastLoginAt = &now
	user.LastLoginMethod = method
	return nil
}
