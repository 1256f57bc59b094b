package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/snippetbin/internal/apperror"
	"github.com/sakif/snippetbin/internal/model"
	"github.com/sakif/snippetbin/internal/repository"
)

// newTestDB opens an in-memory database that lives for one test.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestUser(t *testing.T, db *DB, username string) *model.User {
	t.Helper()
	user := &model.User{Username: username, PasswordHash: "x"}
	if err := db.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

func createTestSnippet(t *testing.T, db *DB, ownerID, title, code string) *model.Snippet {
	t.Helper()
	snippet := &model.Snippet{
		Title:       title,
		Code:        code,
		Language:    "python",
		Style:       "friendly",
		OwnerID:     ownerID,
		Highlighted: "<html>" + code + "</html>",
	}
	if err := db.Create(context.Background(), snippet); err != nil {
		t.Fatalf("failed to create test snippet: %v", err)
	}
	return snippet
}

func TestCreate(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice")

	snippet := &model.Snippet{
		Title:    "hello",
		Code:     "print('hello')",
		Language: "python",
		Style:    "friendly",
		OwnerID:  alice.ID,
	}

	if err := db.Create(context.Background(), snippet); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if snippet.ID == "" {
		t.Error("Create() did not set snippet.ID")
	}
	if snippet.Created.IsZero() {
		t.Error("Create() did not set snippet.Created")
	}
	if snippet.Owner != "alice" {
		t.Errorf("Owner = %q, want %q", snippet.Owner, "alice")
	}
}

func TestGetByID(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice")
	created := createTestSnippet(t, db, alice.ID, "fetch me", "x = 42")

	found, err := db.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}

	if found.ID != created.ID {
		t.Errorf("ID = %q, want %q", found.ID, created.ID)
	}
	if found.Title != "fetch me" {
		t.Errorf("Title = %q, want %q", found.Title, "fetch me")
	}
	if found.Code != "x = 42" {
		t.Errorf("Code = %q, want %q", found.Code, "x = 42")
	}
	if found.Owner != "alice" {
		t.Errorf("Owner = %q, want %q", found.Owner, "alice")
	}
	if found.Highlighted != created.Highlighted {
		t.Errorf("Highlighted = %q, want %q", found.Highlighted, created.Highlighted)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetByID(context.Background(), "no-such-id")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}

func TestList_AscendingByCreation(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice")

	first := createTestSnippet(t, db, alice.ID, "first", "1")
	second := createTestSnippet(t, db, alice.ID, "second", "2")
	third := createTestSnippet(t, db, alice.ID, "third", "3")

	snippets, err := db.List(context.Background(), repository.ListOptions{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	if len(snippets) != 3 {
		t.Fatalf("len = %d, want 3", len(snippets))
	}
	for i, want := range []string{first.ID, second.ID, third.ID} {
		if snippets[i].ID != want {
			t.Errorf("snippets[%d].ID = %q, want %q", i, snippets[i].ID, want)
		}
	}
}

func TestList_Empty(t *testing.T) {
	db := newTestDB(t)

	snippets, err := db.List(context.Background(), repository.ListOptions{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(snippets) != 0 {
		t.Errorf("len = %d, want 0", len(snippets))
	}
}

func TestList_LimitOffset(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice")
	for i := 0; i < 5; i++ {
		createTestSnippet(t, db, alice.ID, "s", "code")
	}

	page, err := db.List(context.Background(), repository.ListOptions{Limit: 2, Offset: 2})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(page) != 2 {
		t.Errorf("len = %d, want 2", len(page))
	}
}

func TestListIDsByOwner(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	mine := createTestSnippet(t, db, alice.ID, "mine", "1")
	createTestSnippet(t, db, bob.ID, "theirs", "2")

	ids, err := db.ListIDsByOwner(context.Background(), alice.ID)
	if err != nil {
		t.Fatalf("ListIDsByOwner() error = %v", err)
	}
	if len(ids) != 1 || ids[0] != mine.ID {
		t.Errorf("ids = %v, want [%s]", ids, mine.ID)
	}
}

func TestUpdate(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice")
	snippet := createTestSnippet(t, db, alice.ID, "before", "old")

	snippet.Title = "after"
	snippet.Code = "new"
	snippet.Linenos = true
	snippet.Highlighted = "<html>new</html>"

	if err := db.Update(context.Background(), snippet); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	found, err := db.GetByID(context.Background(), snippet.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if found.Title != "after" || found.Code != "new" || !found.Linenos {
		t.Errorf("update not persisted: %+v", found)
	}
	if !found.Created.Equal(snippet.Created) {
		t.Error("Update() changed the creation timestamp")
	}
}

func TestUpdate_NotFound(t *testing.T) {
	db := newTestDB(t)

	err := db.Update(context.Background(), &model.Snippet{ID: "no-such-id"})
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Update() error = %v, want ErrNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice")
	snippet := createTestSnippet(t, db, alice.ID, "doomed", "x")

	if err := db.Delete(context.Background(), snippet.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	_, err := db.GetByID(context.Background(), snippet.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() after delete error = %v, want ErrNotFound", err)
	}
}

func TestDelete_NotFound(t *testing.T) {
	db := newTestDB(t)

	err := db.Delete(context.Background(), "no-such-id")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Delete() error = %v, want ErrNotFound", err)
	}
}
