package service

import (
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

// validatePassword reports every strength rule the password breaks.
func validatePassword(field, password string) error {
	v := &validator{}
	if len(password) < minPasswordLength {
		v.add(field, "must be at least 8 characters long")
	}

	var upper, lower, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			symbol = true
		}
	}
	if !upper {
		v.add(field, "must contain an uppercase letter")
	}
	if !lower {
		v.add(field, "must contain a lowercase letter")
	}
	if !digit {
		v.add(field, "must contain a digit")
	}
	if !symbol {
		v.add(field, "must contain a special character")
	}
	return v.Err()
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", ErrHashingFailed
	}
	return string(hashed), nil
}

func passwordMatches(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
