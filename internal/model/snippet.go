// Package model defines the data structures shared by every layer.
package model

import "time"

// Snippet represents a stored code sample with display metadata and a derived
// HTML rendering.
//
// Highlighted is the rendered HTML document for Code. The service layer
// recomputes it from (code, language, style, linenos, title) on every save;
// it is never accepted from a client. Owner is the owning user's username,
// joined in at read time for serialization — OwnerID is what the database
// actually stores and what the access-control predicate compares against.
type Snippet struct {
	ID          string    `json:"id"       db:"id"`
	Created     time.Time `json:"created"  db:"created"`
	Title       string    `json:"title"    db:"title"`
	Code        string    `json:"code"     db:"code"`
	Linenos     bool      `json:"linenos"  db:"linenos"`
	Language    string    `json:"language" db:"language"`
	Style       string    `json:"style"    db:"style"`
	OwnerID     string    `json:"-"        db:"owner_id"`
	Owner       string    `json:"owner"    db:"owner"`
	Highlighted string    `json:"-"        db:"highlighted"`
}
