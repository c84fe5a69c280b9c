package models

import (
	"strings"

	"gorm.io/gorm"
)

// Feedback is a rating + comment submitted by a user
type Feedback struct {
	gorm.Model
	Name    string `json:"name" gorm:"not null"`
	Email   string `json:"email" gorm:"not null"`
	Rating  int    `json:"rating" gorm:"default:0"`
	Comment string `json:"comment"`
}

// Validate returns per-field messages for missing or malformed input
func (f *Feedback) Validate() map[string]string {
	problems := make(map[string]string)

	if strings.TrimSpace(f.Name) == "" {
		problems["name"] = "Name is required"
	}
	if !strings.Contains(f.Email, "@") || !strings.Contains(f.Email, ".") {
		problems["email"] = "Please use a valid email address"
	}
	if f.Rating < 1 || f.Rating > 5 {
		problems["rating"] = "Rating must be between 1 and 5"
	}

	if len(problems) == 0 {
		return nil
	}
	return problems
}
