package common

import "strings"

// ValidateEmail rejects empty or obviously mistyped addresses.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return NewValidationError("email", "informe seu e-mail")
	}
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 || strings.ContainsAny(email, " \t\n") {
		return NewValidationError("email", "e-mail inválido")
	}
	return nil
}
