package dto

import (
	"time"

	"moodjournal_api/model"
)

// ProviderUserInfo is the normalized identity handed from an OAuth provider
// to account resolution.
type ProviderUserInfo struct {
	Provider      model.Provider
	ProviderID    string
	Email         string
	EmailVerified bool
	Name          string
	Picture       string
	Profile       model.ProviderProfile
}

type UserResponse struct {
	ID           string `json:"id"`
	Firstname    string `json:"firstname"`
	Lastname     string `json:"lastname"`
	Email        string `json:"email"`
	ProfilePhoto string `json:"profilephoto,omitempty"`
}

func NewUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Firstname:    u.Firstname,
		Lastname:     u.Lastname,
		Email:        u.Email,
		ProfilePhoto: u.ProfilePhoto,
	}
}

type AuthResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    UserResponse `json:"user"`
}

// OAuthUser is the payload base64-encoded into the OAuth success redirect.
type OAuthUser struct {
	ID           string         `json:"id"`
	Firstname    string         `json:"firstname"`
	Lastname     string         `json:"lastname"`
	Email        string         `json:"email"`
	ProfilePhoto string         `json:"profilephoto,omitempty"`
	Provider     model.Provider `json:"provider"`
}

type Signup struct {
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type Signin struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ForgotPassword struct {
	Email string `json:"email"`
}

type ForgotPasswordResponse struct {
	Message   string `json:"message"`
	ResetLink string `json:"resetLink"`
}

type ResetPassword struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

type GoogleMobile struct {
	IDToken string `json:"id_token"`
}

type ProfileResponse struct {
	Firstname    string `json:"firstname"`
	Lastname     string `json:"lastname"`
	Email        string `json:"email"`
	ProfilePhoto string `json:"profilephoto"`
}

type UserUpdate struct {
	ID           string `json:"-"`
	Firstname    string `json:"firstname"`
	Lastname     string `json:"lastname"`
	ProfilePhoto string `json:"profilephoto"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

// journal

type JournalInput struct {
	UserID         string   `json:"-"`
	Title          string   `json:"title"`
	Content        string   `json:"content"`
	Mood           string   `json:"mood"`
	SentimentScore *float64 `json:"sentimentScore,omitempty"`
}

type JournalResponse struct {
	ID             uint      `json:"id"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	Mood           string    `json:"mood,omitempty"`
	SentimentScore *float64  `json:"sentimentScore,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func NewJournalResponse(e *model.JournalEntry) JournalResponse {
	return JournalResponse{
		ID:             e.ID,
		Title:          e.Title,
		Content:        e.Content,
		Mood:           e.Mood,
		SentimentScore: e.SentimentScore,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}
