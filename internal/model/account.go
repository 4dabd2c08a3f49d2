package model

import (
	"strings"
	"time"

	"github.com/Veraticus/meu-bolso/internal/common"
)

// Account is a registered local identity.
type Account struct {
	CreatedAt    time.Time `json:"createdAt,omitempty"`
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name,omitempty"`
	PasswordHash string    `json:"passwordHash,omitempty"`
	// LegacyPassword is the plaintext field older builds wrote. It is only read,
	// and cleared as soon as the account authenticates.
	LegacyPassword string `json:"password,omitempty"`
}

// Public returns a copy of the account without any credential material.
func (a Account) Public() Account {
	a.PasswordHash = ""
	a.LegacyPassword = ""
	return a
}

// Validate checks the fields every stored account must carry.
func (a Account) Validate() error {
	if strings.TrimSpace(a.ID) == "" {
		return common.NewValidationError("id", "conta sem identificador")
	}
	if strings.TrimSpace(a.Email) == "" {
		return common.NewValidationError("email", "conta sem e-mail")
	}
	return nil
}

// DisplayName returns the name if set, otherwise the email.
func (a Account) DisplayName() string {
	if strings.TrimSpace(a.Name) != "" {
		return a.Name
	}
	return a.Email
}
