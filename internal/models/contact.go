package models

import (
	"strings"

	"gorm.io/gorm"
)

// Contact is a message submitted through the contact form
type Contact struct {
	gorm.Model
	Name    string `json:"name" gorm:"not null"`
	Email   string `json:"email" gorm:"not null"`
	Message string `json:"message" gorm:"not null"`
}

// Validate returns per-field messages for missing or malformed input
func (c *Contact) Validate() map[string]string {
	problems := make(map[string]string)

	if strings.TrimSpace(c.Name) == "" {
		problems["name"] = "Name is required"
	}
	if !strings.Contains(c.Email, "@") || !strings.Contains(c.Email, ".") {
		problems["email"] = "Please use a valid email address"
	}
	if len(strings.TrimSpace(c.Message)) < 10 {
		problems["message"] = "Message should be at least 10 characters"
	}

	if len(problems) == 0 {
		return nil
	}
	return problems
}
