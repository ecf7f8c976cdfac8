package matching

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

// ErrInvalidMapping is returned when a payer mapping has no pattern or client.
var ErrInvalidMapping = errors.New("payer mapping needs a pattern and a client")

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=matching
type Repository interface {
	// FindClient returns the client of the longest pattern contained in
	// rawDescription, or nil when none matches.
	FindClient(ctx context.Context, rawDescription string) (*uuid.UUID, error)
	CreateMapping(ctx context.Context, rawPattern string, clientID uuid.UUID) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Suggest looks up the client that usually pays with the given statement
// description. ok is false when no mapping matches.
func (s *Service) Suggest(ctx context.Context, rawDescription string) (clientID uuid.UUID, ok bool, err error) {
	id, err := s.repo.FindClient(ctx, strings.TrimSpace(rawDescription))
	if err != nil || id == nil {
		return uuid.Nil, false, err
	}

	return *id, true, nil
}

// Learn remembers that statement lines containing rawPattern come from clientID.
func (s *Service) Learn(ctx context.Context, rawPattern string, clientID uuid.UUID) error {
	rawPattern = strings.TrimSpace(rawPattern)
	if rawPattern == "" || clientID == uuid.Nil {
		return ErrInvalidMapping
	}

	return s.repo.CreateMapping(ctx, rawPattern, clientID)
}
