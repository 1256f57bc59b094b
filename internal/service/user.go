package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/snippetbin/internal/apperror"
	"github.com/sakif/snippetbin/internal/model"
	"github.com/sakif/snippetbin/internal/repository"
)

// UserWithSnippets bundles a user with the IDs of the snippets they own —
// the read-only reverse relation exposed on the user resource. The handler
// turns the IDs into absolute URLs.
type UserWithSnippets struct {
	User       model.User
	SnippetIDs []string
}

// UserService exposes the read-only user resource. Account creation happens
// through AuthService; this service only lists and retrieves.
type UserService struct {
	users    repository.UserRepository
	snippets repository.SnippetRepository
	logger   *slog.Logger
}

// NewUserService creates a UserService.
func NewUserService(users repository.UserRepository, snippets repository.SnippetRepository, logger *slog.Logger) *UserService {
	return &UserService{
		users:    users,
		snippets: snippets,
		logger:   logger,
	}
}

// Get retrieves a single user with their snippet IDs.
func (s *UserService) Get(ctx context.Context, id string) (*UserWithSnippets, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "user ID is required")
	}

	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ids, err := s.snippets.ListIDsByOwner(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("listing snippets for user %s: %w", id, err)
	}

	return &UserWithSnippets{User: *user, SnippetIDs: ids}, nil
}

// List retrieves all users (ascending creation order) with their snippet
// IDs. An empty store yields an empty list, never an error.
func (s *UserService) List(ctx context.Context, opts repository.ListOptions) ([]UserWithSnippets, error) {
	users, err := s.users.ListUsers(ctx, opts)
	if err != nil {
		s.logger.Error("failed to list users", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing users: %w", err)
	}

	out := make([]UserWithSnippets, 0, len(users))
	for _, u := range users {
		ids, err := s.snippets.ListIDsByOwner(ctx, u.ID)
		if err != nil {
			return nil, fmt.Errorf("listing snippets for user %s: %w", u.ID, err)
		}
		out = append(out, UserWithSnippets{User: u, SnippetIDs: ids})
	}

	return out, nil
}
