package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/snippetbin/internal/apperror"
	"github.com/sakif/snippetbin/internal/model"
	"github.com/sakif/snippetbin/internal/repository"
)

// Compile-time check that *DB implements repository.UserRepository.
var _ repository.UserRepository = (*DB)(nil)

// githubID maps the model's zero value to NULL. github_id has a UNIQUE
// constraint; NULLs don't collide with each other, zeros would.
func githubID(u *model.User) any {
	if u.GitHubID == 0 {
		return nil
	}
	return u.GitHubID
}

// CreateUser inserts a new local account. A duplicate username surfaces as
// apperror.ErrConflict so the registration handler can answer 409 instead of
// a bare 500.
func (db *DB) CreateUser(ctx context.Context, user *model.User) error {
	user.ID = xid.New().String()
	user.Created = time.Now().UTC()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, github_id, created)
		 VALUES (?, ?, ?, ?, ?)`,
		user.ID,
		user.Username,
		user.PasswordHash,
		githubID(user),
		user.Created,
	)
	if err != nil {
		// modernc/sqlite reports constraint violations in the error text;
		// there is no exported sentinel to match against.
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return apperror.Conflict("user", user.Username)
		}
		return fmt.Errorf("sqlite: inserting user %s: %w", user.Username, err)
	}

	return nil
}

// UpsertByGitHubID inserts a user on first OAuth login and refreshes the
// username on subsequent logins, keeping the internal ID stable either way.
func (db *DB) UpsertByGitHubID(ctx context.Context, user *model.User) error {
	var existingID string
	err := db.conn.QueryRowContext(ctx,
		`SELECT id FROM users WHERE github_id = ?`, user.GitHubID,
	).Scan(&existingID)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("sqlite: looking up user by github_id %d: %w", user.GitHubID, err)
	}

	if existingID != "" {
		user.ID = existingID
		_, err = db.conn.ExecContext(ctx,
			`UPDATE users SET username = ? WHERE id = ?`,
			user.Username, user.ID,
		)
		if err != nil {
			return fmt.Errorf("sqlite: updating user %s: %w", user.ID, err)
		}
		return nil
	}

	user.ID = xid.New().String()
	user.Created = time.Now().UTC()
	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, github_id, created)
		 VALUES (?, ?, '', ?, ?)`,
		user.ID,
		user.Username,
		user.GitHubID,
		user.Created,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting user (githubID=%d): %w", user.GitHubID, err)
	}

	return nil
}

func scanUser(row interface{ Scan(...any) error }, u *model.User) error {
	var ghID sql.NullInt64
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &ghID, &u.Created); err != nil {
		return err
	}
	u.GitHubID = ghID.Int64
	return nil
}

// GetUserByID retrieves a user by internal ID.
func (db *DB) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User

	row := db.conn.QueryRowContext(ctx,
		`SELECT id, username, password_hash, github_id, created FROM users WHERE id = ?`,
		id,
	)
	if err := scanUser(row, &u); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("sqlite: getting user %s: %w", id, err)
	}

	return &u, nil
}

// GetUserByUsername retrieves a user by username. Used by login.
func (db *DB) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User

	row := db.conn.QueryRowContext(ctx,
		`SELECT id, username, password_hash, github_id, created FROM users WHERE username = ?`,
		username,
	)
	if err := scanUser(row, &u); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", username)
		}
		return nil, fmt.Errorf("sqlite: getting user %s: %w", username, err)
	}

	return &u, nil
}

// ListUsers retrieves users ordered by ascending creation time.
func (db *DB) ListUsers(ctx context.Context, opts repository.ListOptions) ([]model.User, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = -1
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, username, password_hash, github_id, created
		 FROM users
		 ORDER BY created ASC
		 LIMIT ? OFFSET ?`,
		limit,
		offset,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing users: %w", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		var u model.User
		if err := scanUser(rows, &u); err != nil {
			return nil, fmt.Errorf("sqlite: scanning user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating users: %w", err)
	}

	return users, nil
}

// DeleteUser removes a user. The snippets foreign key is ON DELETE CASCADE,
// so the user's snippets disappear in the same statement.
func (db *DB) DeleteUser(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM users WHERE id = ?`,
		id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting user %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("user", id)
	}

	return nil
}
