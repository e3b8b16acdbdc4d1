// Package validate holds the pure field checks shared by every endpoint.
// Checks return nil on success or a *FieldError naming the offending field,
// so handlers can short-circuit on the first failure.
package validate

import "fmt"

// FieldError describes a single rejected request field.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string { return e.Reason }

// Fail builds a FieldError with a preformatted reason.
func Fail(field, reason string) *FieldError {
	return &FieldError{Field: field, Reason: reason}
}

// MinLen checks that value has at least min characters.
func MinLen(field, value string, min int) *FieldError {
	if len([]rune(value)) >= min {
		return nil
	}
	unit := "caracteres"
	if min == 1 {
		unit = "caractere"
	}
	return &FieldError{
		Field:  field,
		Reason: fmt.Sprintf("'%s' inválido. Deve ter no mínimo %d %s", field, min, unit),
	}
}

// IDPrefix checks that an identifier starts with the entity's prefix letter.
// The prefix is a request-level convention only, never a storage constraint.
func IDPrefix(value string, prefix byte) *FieldError {
	if len(value) > 0 && value[0] == prefix {
		return nil
	}
	return &FieldError{
		Field:  "id",
		Reason: fmt.Sprintf("'id' deve iniciar com a letra '%c'", prefix),
	}
}

// Password enforces the account password policy: 8 to 12 characters with at
// least one lowercase letter, one uppercase letter, one digit, and one
// character outside [a-zA-Z0-9].
func Password(field, value string) *FieldError {
	var lower, upper, digit, special bool
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		default:
			special = true
		}
	}
	n := len([]rune(value))
	if n >= 8 && n <= 12 && lower && upper && digit && special {
		return nil
	}
	return &FieldError{
		Field: field,
		Reason: fmt.Sprintf("'%s' deve possuir entre 8 e 12 caracteres, "+
			"com letras maiúsculas e minúsculas, no mínimo um número e um caractere especial", field),
	}
}
