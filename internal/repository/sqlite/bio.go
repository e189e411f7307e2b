package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/caption-studio/internal/model"
	"github.com/sakif/caption-studio/internal/repository"
)

// compile-time check that *DB implements repository.BioRepository
var _ repository.BioRepository = (*DB)(nil)

// Create inserts a new bio. The ? placeholders keep every value out of the
// SQL text itself; never build queries with string concatenation.
func (db *DB) Create(ctx context.Context, bio *model.Bio) error {
	now := time.Now()
	bio.ID = xid.New().String()
	bio.CreatedAt = now
	bio.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO bios (id, user_id, prompt, result, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		bio.ID,
		bio.UserID,
		bio.Prompt,
		bio.Result,
		bio.CreatedAt,
		bio.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting bio for user %s: %w", bio.UserID, err)
	}

	return nil
}

// ListByUser returns all of one user's bios, newest first.
// The WHERE user_id clause is the per-user isolation boundary: no query in
// this file ever reads bios without it.
func (db *DB) ListByUser(ctx context.Context, userID string) ([]model.Bio, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, user_id, prompt, result, created_at, updated_at
		 FROM bios
		 WHERE user_id = ?
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing bios for user %s: %w", userID, err)
	}
	defer rows.Close()

	bios := []model.Bio{}
	for rows.Next() {
		var b model.Bio
		if err := rows.Scan(
			&b.ID, &b.UserID, &b.Prompt, &b.Result,
			&b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning bio row: %w", err)
		}
		bios = append(bios, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating bios: %w", err)
	}

	return bios, nil
}

// Update rewrites prompt and result on the row matching both id and owner.
// No rows-affected check: updating someone else's bio (or a deleted one)
// matches zero rows and reports success, per the API's baseline contract.
func (db *DB) Update(ctx context.Context, userID, id, prompt, result string) error {
	_, err := db.conn.ExecContext(ctx,
		`UPDATE bios
		 SET prompt = ?, result = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		prompt,
		result,
		time.Now(),
		id,
		userID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating bio %s: %w", id, err)
	}

	return nil
}

// Delete removes the row matching both id and owner, with the same
// zero-rows-is-success semantics as Update.
func (db *DB) Delete(ctx context.Context, userID, id string) error {
	_, err := db.conn.ExecContext(ctx,
		`DELETE FROM bios WHERE id = ? AND user_id = ?`,
		id,
		userID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting bio %s: %w", id, err)
	}

	return nil
}
