package model

import "time"

type JournalEntry struct {
	ID             uint     `gorm:"primaryKey"`
	UserID         string   `gorm:"type:char(36);index;not null"`
	Title          string   `gorm:"type:varchar(255)"`
	Content        string   `gorm:"type:text;not null"`
	Mood           string   `gorm:"type:varchar(50)"`
	SentimentScore *float64
	CreatedAt      time.Time `gorm:"index"`
	UpdatedAt      time.Time
}
