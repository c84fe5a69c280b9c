package models

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// User is an account holder (the elderly user or their caretaker)
type User struct {
	gorm.Model
	UserID       string `json:"user_id" gorm:"uniqueIndex"`
	Name         string `json:"name"`
	Email        string `json:"email" gorm:"uniqueIndex"`
	PasswordHash string `json:"-" gorm:"not null"`
	Role         string `json:"role" gorm:"default:user"` // "user" or "admin"
	IsVerified   bool   `json:"is_verified" gorm:"default:false"`
}

// BeforeCreate hook to auto-generate UserID and normalize email
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.UserID == "" {
		u.UserID = fmt.Sprintf("USR%d%03d", time.Now().Unix(), time.Now().Nanosecond()%1000)
	}

	u.Email = strings.ToLower(strings.TrimSpace(u.Email))

	if u.Role == "" {
		u.Role = "user"
	}

	return nil
}
