package model

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthentication matches any *AuthenticationError via errors.Is.
	ErrAuthentication = errors.New("authentication failed")
	// ErrCardList matches any *CardListError via errors.Is.
	ErrCardList = errors.New("card listing failed")
)

// AuthenticationError is returned when the login endpoint answers at the
// transport level but rejects the credentials or omits the token.
type AuthenticationError struct {
	Email   string
	Message string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("failed to retrieve token for %s: %s", e.Email, e.Message)
}

func (e *AuthenticationError) Is(target error) bool { return target == ErrAuthentication }

// CardListError is returned when the cards endpoint answers with a non-zero code.
type CardListError struct {
	Code    int
	Message string
}

func (e *CardListError) Error() string {
	return fmt.Sprintf("failed to retrieve cards (code %d): %s", e.Code, e.Message)
}

func (e *CardListError) Is(target error) bool { return target == ErrCardList }
