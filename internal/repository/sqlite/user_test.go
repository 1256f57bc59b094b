package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/snippetbin/internal/apperror"
	"github.com/sakif/snippetbin/internal/model"
	"github.com/sakif/snippetbin/internal/repository"
)

func TestCreateUser(t *testing.T) {
	db := newTestDB(t)

	user := &model.User{Username: "alice", PasswordHash: "hash"}
	if err := db.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	if user.ID == "" {
		t.Error("CreateUser() did not set user.ID")
	}
	if user.Created.IsZero() {
		t.Error("CreateUser() did not set user.Created")
	}
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "alice")

	err := db.CreateUser(context.Background(), &model.User{Username: "alice"})
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("CreateUser() error = %v, want ErrConflict", err)
	}
}

func TestGetUserByUsername(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "alice")

	found, err := db.GetUserByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("GetUserByUsername() error = %v", err)
	}
	if found.ID != created.ID {
		t.Errorf("ID = %q, want %q", found.ID, created.ID)
	}

	_, err = db.GetUserByUsername(context.Background(), "nobody")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetUserByUsername() error = %v, want ErrNotFound", err)
	}
}

func TestUpsertByGitHubID(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	first := &model.User{Username: "octo", GitHubID: 12345}
	if err := db.UpsertByGitHubID(ctx, first); err != nil {
		t.Fatalf("UpsertByGitHubID() error = %v", err)
	}
	if first.ID == "" {
		t.Fatal("upsert did not set user.ID")
	}

	// Second login with a renamed GitHub account: same internal ID,
	// refreshed username.
	second := &model.User{Username: "octo-renamed", GitHubID: 12345}
	if err := db.UpsertByGitHubID(ctx, second); err != nil {
		t.Fatalf("UpsertByGitHubID() second call error = %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("second upsert ID = %q, want stable %q", second.ID, first.ID)
	}

	found, err := db.GetUserByID(ctx, first.ID)
	if err != nil {
		t.Fatalf("GetUserByID() error = %v", err)
	}
	if found.Username != "octo-renamed" {
		t.Errorf("Username = %q, want %q", found.Username, "octo-renamed")
	}
}

func TestUpsertByGitHubID_TwoLocalUsersNoCollision(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	// Two local accounts both have no GitHub ID; the UNIQUE(github_id)
	// constraint must not treat them as duplicates.
	createTestUser(t, db, "alice")
	createTestUser(t, db, "bob")

	users, err := db.ListUsers(ctx, repository.ListOptions{})
	if err != nil {
		t.Fatalf("ListUsers() error = %v", err)
	}
	if len(users) != 2 {
		t.Errorf("len = %d, want 2", len(users))
	}
}

func TestListUsers_AscendingByCreation(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	users, err := db.ListUsers(context.Background(), repository.ListOptions{})
	if err != nil {
		t.Fatalf("ListUsers() error = %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("len = %d, want 2", len(users))
	}
	if users[0].ID != alice.ID || users[1].ID != bob.ID {
		t.Errorf("order = [%s %s], want [%s %s]", users[0].ID, users[1].ID, alice.ID, bob.ID)
	}
}

func TestDeleteUser_CascadesToSnippets(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	doomed1 := createTestSnippet(t, db, alice.ID, "one", "1")
	doomed2 := createTestSnippet(t, db, alice.ID, "two", "2")
	survivor := createTestSnippet(t, db, bob.ID, "keep", "3")

	if err := db.DeleteUser(ctx, alice.ID); err != nil {
		t.Fatalf("DeleteUser() error = %v", err)
	}

	// Alice's snippets cascade away.
	for _, id := range []string{doomed1.ID, doomed2.ID} {
		if _, err := db.GetByID(ctx, id); !errors.Is(err, apperror.ErrNotFound) {
			t.Errorf("snippet %s survived owner deletion (err = %v)", id, err)
		}
	}

	// Bob's snippet is untouched.
	if _, err := db.GetByID(ctx, survivor.ID); err != nil {
		t.Errorf("unrelated snippet was deleted: %v", err)
	}
}

func TestDeleteUser_NotFound(t *testing.T) {
	db := newTestDB(t)

	err := db.DeleteUser(context.Background(), "no-such-id")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("DeleteUser() error = %v, want ErrNotFound", err)
	}
}
