// Package accountfile implements the AccountStore port on top of the flat
// credential file (accounts.txt).
package accountfile

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/natefinch/atomic"

	"github.com/ericfisherdev/cardclaim/internal/domain/model"
	"github.com/ericfisherdev/cardclaim/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.AccountStore = (*Store)(nil)

// Store reads and rewrites the credential file. It holds no cached state; every
// call goes back to disk.
type Store struct {
	path string
}

// NewStore creates a Store for the file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load parses the credential file.
func (s *Store) Load(_ context.Context) ([]model.AccountGroup, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("reading accounts file %s: %w", s.path, err)
	}
	return Parse(data), nil
}

// UpdateToken replaces the cached token for email and atomically rewrites the
// file. The file is left untouched when the content would not change.
func (s *Store) UpdateToken(_ context.Context, email, token string) error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("reading accounts file %s: %w", s.path, err)
	}

	updated, matched := ReplaceToken(data, email, token)
	if !matched {
		slog.Warn("no account record matched for token update", "email", email, "path", s.path)
	}
	if bytes.Equal(updated, data) {
		return nil
	}

	if err := atomic.WriteFile(s.path, bytes.NewReader(updated)); err != nil {
		return fmt.Errorf("writing accounts file %s: %w", s.path, err)
	}

	slog.Info("updated token in accounts file", "email", email, "path", s.path)
	return nil
}
