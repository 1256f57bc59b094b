// Package repository declares the persistence interfaces the service layer
// depends on. Concrete implementations live in subpackages (sqlite); the
// service only ever sees these interfaces, so storage can be swapped or
// mocked without touching business logic.
package repository

import (
	"context"

	"github.com/sakif/snippetbin/internal/model"
)

// ListOptions controls pagination. A Limit <= 0 means "no limit" — snippet
// listing returns every row in ascending creation order unless the caller
// asks for a page.
type ListOptions struct {
	Limit  int
	Offset int
}

// SnippetRepository is the storage contract for snippets.
//
// Create and Update take pointers and fill in generated fields (ID, Created)
// on the caller's struct. GetByID, Update and Delete report a missing row as
// apperror.ErrNotFound so callers never have to know about sql.ErrNoRows.
type SnippetRepository interface {
	Create(ctx context.Context, snippet *model.Snippet) error
	GetByID(ctx context.Context, id string) (*model.Snippet, error)
	List(ctx context.Context, opts ListOptions) ([]model.Snippet, error)
	ListIDsByOwner(ctx context.Context, ownerID string) ([]string, error)
	Update(ctx context.Context, snippet *model.Snippet) error
	Delete(ctx context.Context, id string) error
}

// UserRepository is the storage contract for user accounts.
//
// CreateUser is used by local registration, UpsertByGitHubID by the OAuth
// callback. DeleteUser cascades to the user's snippets at the schema level
// (ON DELETE CASCADE), which is why the interface has no bulk snippet
// deletion method.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	UpsertByGitHubID(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	ListUsers(ctx context.Context, opts ListOptions) ([]model.User, error)
	DeleteUser(ctx context.Context, id string) error
}
