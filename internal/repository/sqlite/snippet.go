package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/snippetbin/internal/apperror"
	"github.com/sakif/snippetbin/internal/model"
	"github.com/sakif/snippetbin/internal/repository"
)

// Compile-time check that *DB implements repository.SnippetRepository.
var _ repository.SnippetRepository = (*DB)(nil)

// Create inserts a new snippet. The generated ID and the Created timestamp
// are written back onto the caller's struct, which is why this takes a
// pointer. Owner username is resolved so the caller can serialize the result
// without a second query.
func (db *DB) Create(ctx context.Context, snippet *model.Snippet) error {
	snippet.ID = xid.New().String()
	snippet.Created = time.Now().UTC()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO snippets (id, created, title, code, linenos, language, style, owner_id, highlighted)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		snippet.ID,
		snippet.Created,
		snippet.Title,
		snippet.Code,
		snippet.Linenos,
		snippet.Language,
		snippet.Style,
		snippet.OwnerID,
		snippet.Highlighted,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating snippet: %w", err)
	}

	if snippet.Owner == "" {
		err := db.conn.QueryRowContext(ctx,
			`SELECT username FROM users WHERE id = ?`, snippet.OwnerID,
		).Scan(&snippet.Owner)
		if err != nil && err != sql.ErrNoRows {
			return fmt.Errorf("sqlite: resolving snippet owner: %w", err)
		}
	}

	return nil
}

// snippetColumns is the SELECT list shared by every snippet read. The join
// brings in the owner's username for serialization.
const snippetColumns = `
	s.id, s.created, s.title, s.code, s.linenos, s.language, s.style,
	s.owner_id, u.username, s.highlighted`

func scanSnippet(row interface{ Scan(...any) error }, s *model.Snippet) error {
	return row.Scan(
		&s.ID, &s.Created, &s.Title, &s.Code, &s.Linenos, &s.Language,
		&s.Style, &s.OwnerID, &s.Owner, &s.Highlighted,
	)
}

// GetByID retrieves a single snippet. A missing row is reported as
// apperror.ErrNotFound — handlers turn that into a 404.
func (db *DB) GetByID(ctx context.Context, id string) (*model.Snippet, error) {
	var s model.Snippet

	row := db.conn.QueryRowContext(ctx,
		`SELECT`+snippetColumns+`
		 FROM snippets s JOIN users u ON u.id = s.owner_id
		 WHERE s.id = ?`,
		id,
	)
	if err := scanSnippet(row, &s); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("snippet", id)
		}
		return nil, fmt.Errorf("sqlite: getting snippet %s: %w", id, err)
	}

	return &s, nil
}

// List retrieves snippets ordered by ascending creation time.
//
// With no Limit set this returns every snippet — the collection endpoint's
// contract is "all snippets, oldest first". SQLite treats LIMIT -1 as
// unbounded, which lets one query serve both the paged and unpaged cases.
func (db *DB) List(ctx context.Context, opts repository.ListOptions) ([]model.Snippet, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = -1
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT`+snippetColumns+`
		 FROM snippets s JOIN users u ON u.id = s.owner_id
		 ORDER BY s.created ASC
		 LIMIT ? OFFSET ?`,
		limit,
		offset,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing snippets: %w", err)
	}
	defer rows.Close()

	snippets := []model.Snippet{}
	for rows.Next() {
		var s model.Snippet
		if err := scanSnippet(rows, &s); err != nil {
			return nil, fmt.Errorf("sqlite: scanning snippet row: %w", err)
		}
		snippets = append(snippets, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating snippets: %w", err)
	}

	return snippets, nil
}

// ListIDsByOwner returns the IDs of all snippets owned by ownerID, oldest
// first. Used to build the user representation's reverse relation without
// loading full snippet bodies.
func (db *DB) ListIDsByOwner(ctx context.Context, ownerID string) ([]string, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id FROM snippets WHERE owner_id = ? ORDER BY created ASC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing snippet ids for user %s: %w", ownerID, err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("sqlite: scanning snippet id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating snippet ids: %w", err)
	}

	return ids, nil
}

// Update replaces every writable field of an existing snippet. ID, Created
// and owner_id are immutable — they are deliberately absent from the SET
// list. RowsAffected distinguishes "updated" from "no such snippet".
func (db *DB) Update(ctx context.Context, snippet *model.Snippet) error {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE snippets
		 SET title = ?, code = ?, linenos = ?, language = ?, style = ?, highlighted = ?
		 WHERE id = ?`,
		snippet.Title,
		snippet.Code,
		snippet.Linenos,
		snippet.Language,
		snippet.Style,
		snippet.Highlighted,
		snippet.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating snippet %s: %w", snippet.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("snippet", snippet.ID)
	}

	return nil
}

// Delete removes a snippet by ID. Same RowsAffected pattern as Update.
func (db *DB) Delete(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM snippets WHERE id = ?`,
		id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting snippet %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("snippet", id)
	}

	return nil
}
