package model

import (
	"time"
)

// Account represents the authenticated identity that owns a company profile.
type Account struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Locale       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewAccount creates a new account
func NewAccount(email, name, passwordHash, locale string) *Account {
	now := time.Now().UTC()
	return &Account{
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		Locale:       locale,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// AccountDTO represents account data transfer object (without sensitive data)
type AccountDTO struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Locale    string    `json:"locale"`
	CreatedAt time.Time `json:"created_at"`
}

// ToDTO converts Account to AccountDTO
func (a *Account) ToDTO() *AccountDTO {
	return &AccountDTO{
		ID:        a.ID,
		Email:     a.Email,
		Name:      a.Name,
		Locale:    a.Locale,
		CreatedAt: a.CreatedAt,
	}
}
