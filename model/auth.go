package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AccountType string

const (
	AccountLocal    AccountType = "local"
	AccountProvider AccountType = "provider"
	AccountHybrid   AccountType = "hybrid"
)

// Provider names an external identity provider. It also doubles as the
// registration source and last-login method tag.
type Provider string

const (
	ProviderLocal  Provider = "local"
	ProviderGoogle Provider = "google"
	ProviderGithub Provider = "github"
)

// ProviderProfile is the snapshot of what a provider told us about the user
// at link time.
type ProviderProfile struct {
	Name          string `json:"name,omitempty"`
	Picture       string `json:"picture,omitempty"`
	Username      string `json:"username,omitempty"`
	Locale        string `json:"locale,omitempty"`
	ProfileURL    string `json:"profileUrl,omitempty"`
	VerifiedEmail bool   `json:"verifiedEmail"`
}

func (p ProviderProfile) Value() (driver.Value, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (p *ProviderProfile) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	default:
		return errors.New("provider profile: unsupported column type")
	}
}

type User struct {
	ID                 string           `gorm:"type:char(36);primaryKey"`
	Email              string           `gorm:"type:varchar(191);uniqueIndex;not null"`
	Password           string           `gorm:"type:varchar(255)"`
	AccountType        AccountType      `gorm:"type:varchar(20);not null;default:local"`
	GoogleID           *string          `gorm:"type:varchar(191);uniqueIndex"`
	GithubID           *string          `gorm:"type:varchar(191);uniqueIndex"`
	GoogleProfile      *ProviderProfile `gorm:"type:text"`
	GithubProfile      *ProviderProfile `gorm:"type:text"`
	Firstname          string           `gorm:"type:varchar(255)"`
	Lastname           string           `gorm:"type:varchar(255)"`
	ProfilePhoto       string           `gorm:"type:varchar(512)"`
	RegistrationSource Provider         `gorm:"type:varchar(20);not null;default:local"`
	IsEmailVerified    bool             `gorm:"default:false"`
	LastLoginAt        *time.Time
	LastLoginMethod    Provider `gorm:"type:varchar(20)"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.Email = NormalizeEmail(u.Email)
	return nil
}

// CanLoginWithPassword reports whether the account accepts a local password.
func (u *User) CanLoginWithPassword() bool {
	return (u.AccountType == AccountLocal || u.AccountType == AccountHybrid) && u.Password != ""
}

// ProviderID returns the attached id for p, or "" when p is not linked.
func (u *User) ProviderID(p Provider) string {
	var id *string
	switch p {
	case ProviderGoogle:
		id = u.GoogleID
	case ProviderGithub:
		id = u.GithubID
	}
	if id == nil {
		return ""
	}
	return *id
}

func (u *User) HasProvider(p Provider) bool {
	return u.ProviderID(p) != ""
}

// LinkedAccountType is the account type after attaching a provider identity.
func (u *User) LinkedAccountType() AccountType {
	if u.Password != "" {
		return AccountHybrid
	}
	return AccountProvider
}

// ProviderColumns returns the id and profile column names for p.
func ProviderColumns(p Provider) (idColumn, profileColumn string, ok bool) {
	switch p {
	case ProviderGoogle:
		return "google_id", "google_profile", true
	case ProviderGithub:
		return "github_id", "github_profile", true
	}
	return "", "", false
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// AttachProvider sets the provider identity on this snapshot only.
func (u *User) AttachProvider(p Provider, providerID string, profile ProviderProfile) {
	id := providerID
	switch p {
	case ProviderGoogle:
		u.GoogleID = &id
		u.GoogleProfile = &profile
	case ProviderGithub:
		u.GithubID = &id
		u.GithubProfile = &profile
	}
}
