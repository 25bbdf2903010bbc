package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"moodjournal_api/dto"
	"moodjournal_api/internal/repository"
	"moodjournal_api/model"
	"moodjournal_api/utils"
)

type AuthUsecase interface {
	Signup(ctx context.Context, input *dto.Signup) (*dto.AuthResponse, error)
	Signin(ctx context.Context, input *dto.Signin) (*dto.AuthResponse, error)
	ForgotPassword(ctx context.Context, input *dto.ForgotPassword) (*dto.ForgotPasswordResponse, error)
	ResetPassword(ctx context.Context, input *dto.ResetPassword) error

	Profile(ctx context.Context, userID string) (*dto.ProfileResponse, error)
	UpdateProfile(ctx context.Context, input *dto.UserUpdate) (*dto.UserResponse, error)
	DeleteUser(ctx context.Context, userID string) error
}

type AuthConfig struct {
	FrontendURL string
	MailTimeout time.Duration
}

type authUsecase struct {
	authRepo repository.AuthRepository
	resolver *AccountResolver
	tokens   *utils.TokenService
	mailer   utils.Mailer
	config   AuthConfig
}

func NewAuthUsecase(authRepo repository.AuthRepository, resolver *AccountResolver, tokens *utils.TokenService, mailer utils.Mailer, config AuthConfig) AuthUsecase {
	return &authUsecase{
		authRepo: authRepo,
		resolver: resolver,
		tokens:   tokens,
		mailer:   mailer,
		config:   config,
	}
}

func (u *authUsecase) Signup(ctx context.Context, input *dto.Signup) (*dto.AuthResponse, error) {
	if !utils.IsValidEmail(strings.TrimSpace(input.Email)) {
		return nil, fmt.Errorf("%w: invalid email", ErrInvalidInput)
	}
	if err := checkPassword(input.Password); err != nil {
		return nil, err
	}

	if _, err := u.authRepo.FindByEmail(ctx, input.Email); err == nil {
		return nil, ErrEmailExists
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &model.User{
		Email:              input.Email,
		Password:           hashed,
		AccountType:        model.AccountLocal,
		Firstname:          strings.TrimSpace(input.Firstname),
		Lastname:           strings.TrimSpace(input.Lastname),
		RegistrationSource: model.ProviderLocal,
		LastLoginAt:        &now,
		LastLoginMethod:    model.ProviderLocal,
	}
	if err := u.authRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailExists
		}
		return nil, err
	}

	return u.authResponse("You are signed up", user)
}

func (u *authUsecase) Signin(ctx context.Context, input *dto.Signin) (*dto.AuthResponse, error) {
	if strings.TrimSpace(input.Email) == "" || input.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}

	user, err := u.resolver.ResolveLocal(ctx, input.Email, input.Password)
	if err != nil {
		return nil, err
	}
	return u.authResponse("Login successful", user)
}

func (u *authUsecase) ForgotPassword(ctx context.Context, input *dto.ForgotPassword) (*dto.ForgotPasswordResponse, error) {
	user, err := u.authRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !user.CanLoginWithPassword() {
		return nil, ErrWrongLoginMethod
	}

	token, err := u.tokens.GenerateResetToken(user.ID, user.Password)
	if err != nil {
		return nil, fmt.Errorf("issue reset token: %w", err)
	}
	link := strings.TrimRight(u.config.FrontendURL, "/") + "/reset-password?token=" + url.QueryEscape(token)

	mailCtx, cancel := context.WithTimeout(ctx, u.config.MailTimeout)
	defer cancel()
	if err := u.mailer.SendPasswordReset(mailCtx, user.Email, link); err != nil {
		return nil, err
	}

	return &dto.ForgotPasswordResponse{
		Message:   "Reset link sent successfully",
		ResetLink: link,
	}, nil
}

// ResetPassword accepts a reset token only while the password it was issued
// against is still current, so a link works once.
func (u *authUsecase) ResetPassword(ctx context.Context, input *dto.ResetPassword) error {
	if err := checkPassword(input.NewPassword); err != nil {
		return err
	}

	claims, err := u.tokens.ParseResetToken(input.Token)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	user, err := u.authRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrInvalidToken
		}
		return err
	}
	if utils.PasswordFingerprint(user.Password) != claims.PasswordVersion {
		return ErrInvalidToken
	}

	hashed, err := utils.HashPassword(input.NewPassword)
	if err != nil {
		return err
	}
	if err := u.authRepo.UpdatePassword(ctx, user.ID, user.Password, hashed); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrInvalidToken
		}
		return err
	}
	return nil
}

func (u *authUsecase) Profile(ctx context.Context, userID string) (*dto.ProfileResponse, error) {
	user, err := u.authRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &dto.ProfileResponse{
		Firstname:    user.Firstname,
		Lastname:     user.Lastname,
		Email:        user.Email,
		ProfilePhoto: user.ProfilePhoto,
	}, nil
}

func (u *authUsecase) UpdateProfile(ctx context.Context, input *dto.UserUpdate) (*dto.UserResponse, error) {
	input.Firstname = strings.TrimSpace(input.Firstname)
	input.Lastname = strings.TrimSpace(input.Lastname)
	if input.Firstname == "" {
		return nil, fmt.Errorf("%w: firstname is required", ErrInvalidInput)
	}

	user, err := u.authRepo.UpdateProfile(ctx, input)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

func (u *authUsecase) DeleteUser(ctx context.Context, userID string) error {
	if err := u.authRepo.DeleteUser(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

func (u *authUsecase) authResponse(message string, user *model.User) (*dto.AuthResponse, error) {
	token, err := u.tokens.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	return &dto.AuthResponse{
		Message: message,
		Token:   token,
		User:    dto.NewUserResponse(user),
	}, nil
}

func checkPassword(password string) error {
	if v := utils.ValidatePassword(password); !v.Valid {
		return &PasswordPolicyError{Violations: v.Violations}
	}
	return nil
}
