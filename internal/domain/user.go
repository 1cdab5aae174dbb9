package domain

import (
	"time"
)

type User struct {
	ID             string    `json:"id" gorm:"primaryKey"`
	Name           string    `json:"name"`
	Email          string    `json:"email" gorm:"uniqueIndex"`
	Password       string    `json:"-"` // Hashed password
	AssistantName  string    `json:"assistantName" gorm:"default:Assistant"`
	AssistantImage string    `json:"assistantImage"`
	Status         string    `json:"status"` // Active, Inactive, Blocked
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// HistoryEntry is one accepted voice command. The history is append-only,
// most-recent-last.
type HistoryEntry struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"index"`
	Command   string    `json:"command"`
	CreatedAt time.Time `json:"created_at"`
}
