package model

import "time"

// User represents an account that can own snippets.
//
// Accounts come from two identity sources: local registration (username +
// bcrypt password hash) and GitHub OAuth (github_id, UNIQUE in the DB so one
// GitHub account maps to exactly one row). Either way we generate our own
// internal string ID (xid) so primary keys are never tied to a third party's
// numbering scheme.
//
// PasswordHash is tagged `json:"-"` — it must never appear in a response
// body, no matter how the struct is serialized.
type User struct {
	ID           string    `json:"id"       db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-"        db:"password_hash"` // empty for OAuth-only accounts
	GitHubID     int64     `json:"-"        db:"github_id"`     // 0 for local accounts
	Created      time.Time `json:"created"  db:"created"`
}
