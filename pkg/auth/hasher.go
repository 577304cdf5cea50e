package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var errPasswordMismatch = errors.New("password mismatch")

// PlainText stores passwords as given and compares them exactly.
type PlainText struct{}

func (PlainText) Hash(password string) (string, error) { return password, nil }

func (PlainText) Compare(stored, candidate string) error {
	if stored != candidate {
		return errPasswordMismatch
	}
	return nil
}

// Bcrypt hashes passwords with bcrypt. A zero Cost uses bcrypt.DefaultCost.
type Bcrypt struct {
	Cost int
}

func (b Bcrypt) Hash(password string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

func (Bcrypt) Compare(stored, candidate string) error {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(candidate))
}
