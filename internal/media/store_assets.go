package media

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/jmoiron/sqlx"
)

const idLength = 8

// Insert writes a new asset row. Incoming fields are merged against the
// full column template so a partial map still produces a complete row;
// missing values get the "unknown" sentinel. Keys outside the template are
// dropped. A missing file_id is generated on the spot, and the assigned id
// is returned.
func (s *Store) Insert(ctx context.Context, table Table, fields map[string]string) (string, error) {
	merged := make(map[Field]string, len(allColumns))
	for _, col := range allColumns {
		merged[col] = Unknown
	}
	for key, value := range fields {
		col := Field(key)
		if _, known := merged[col]; !known {
			continue
		}
		if strings.TrimSpace(value) == "" {
			continue
		}
		merged[col] = value
	}

	if merged[FieldFileID] == Unknown {
		id, err := s.GenerateUniqueID(ctx, table)
		if err != nil {
			return "", err
		}
		merged[FieldFileID] = id
	}

	columns := make([]string, 0, len(allColumns))
	placeholders := make([]string, 0, len(allColumns))
	args := make([]any, 0, len(allColumns))
	for _, col := range allColumns {
		columns = append(columns, col.String())
		placeholders = append(placeholders, "?")
		args = append(args, merged[col])
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(columns, ", "), strings.Join(placeholders, ", "),
	)
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return "", fmt.Errorf("insert into %s: %w", table, err)
	}
	return merged[FieldFileID], nil
}

// UpdateField sets one allow-listed field on one row and returns the
// affected row count. A field outside the allow-list is dropped without
// error, matching the silent-ignore contract of the edit surface.
func (s *Store) UpdateField(ctx context.Context, table Table, fileID, fieldName, value string) (int64, error) {
	field, ok := ParseEditableField(fieldName)
	if !ok {
		return 0, nil
	}
	query := fmt.Sprintf("UPDATE %s SET %s = ? WHERE file_id = ?", table, field)
	result, err := s.db.ExecContext(ctx, query, value, fileID)
	if err != nil {
		return 0, fmt.Errorf("update %s.%s: %w", table, field, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return affected, nil
}

// SyncField propagates a field value to the opposite table when the same
// file_id exists there. Returns whether a sync occurred. The two updates
// are separate statements with no shared transaction.
func (s *Store) SyncField(ctx context.Context, table Table, fileID, fieldName, value string) (bool, error) {
	affected, err := s.UpdateField(ctx, table.Other(), fileID, fieldName, value)
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// Delete removes one row. Clearing the id from any cart is the service
// layer's job; the store only touches the table.
func (s *Store) Delete(ctx context.Context, table Table, fileID string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE file_id = ?", table)
	result, err := s.db.ExecContext(ctx, query, fileID)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s in %s", ErrNotFound, fileID, table)
	}
	return nil
}

// Get fetches one row by id.
func (s *Store) Get(ctx context.Context, table Table, fileID string) (*Asset, error) {
	var asset Asset
	query := fmt.Sprintf("SELECT * FROM %s WHERE file_id = ?", table)
	err := s.db.GetContext(ctx, &asset, query, fileID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s in %s", ErrNotFound, fileID, table)
	}
	if err != nil {
		return nil, fmt.Errorf("get from %s: %w", table, err)
	}
	return &asset, nil
}

// GetByIDs fetches the rows for a set of ids, in file_id order. Missing
// ids are skipped rather than erroring so cart display tolerates pruned
// assets.
func (s *Store) GetByIDs(ctx context.Context, table Table, ids []string) ([]Asset, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(
		fmt.Sprintf("SELECT * FROM %s WHERE file_id IN (?) ORDER BY file_id ASC", table), ids,
	)
	if err != nil {
		return nil, err
	}
	var assets []Asset
	if err := s.db.SelectContext(ctx, &assets, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("select by ids from %s: %w", table, err)
	}
	return assets, nil
}

// CountByField returns the top-N most frequent non-empty values of an
// allow-listed field, most frequent first.
func (s *Store) CountByField(ctx context.Context, table Table, fieldName string, topN int) ([]CategoryCount, error) {
	field, err := ParseCountableField(fieldName)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(
		`SELECT %[1]s AS value, COUNT(*) AS count FROM %[2]s
		 WHERE %[1]s != '' AND %[1]s != ?
		 GROUP BY %[1]s ORDER BY count DESC LIMIT ?`,
		field, table,
	)
	var counts []CategoryCount
	if err := s.db.SelectContext(ctx, &counts, query, Unknown, topN); err != nil {
		return nil, fmt.Errorf("count %s.%s: %w", table, field, err)
	}
	return counts, nil
}

// GenerateUniqueID returns a random 8-letter token not yet present in the
// table's file_id column, regenerating on collision. Safe under the
// single-writer model only.
func (s *Store) GenerateUniqueID(ctx context.Context, table Table) (string, error) {
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE file_id = ?", table)
	for {
		candidate := randomToken(idLength)
		var count int
		if err := s.db.GetContext(ctx, &count, query, candidate); err != nil {
			return "", fmt.Errorf("check id collision: %w", err)
		}
		if count == 0 {
			return candidate, nil
		}
	}
}

func randomToken(length int) string {
	const letters = "abcdefghijklmnopqrstuvwxyz"
	b := make([]byte, length)
	for i := range b {
		b[i] = letters[rand.Intn(len(letters))]
	}
	return string(b)
}

// Presence reports which tables contain the given file_id.
func (s *Store) Presence(ctx context.Context, fileID string) (Presence, error) {
	presence := Presence{FileID: fileID}
	for _, table := range allTables {
		var count int
		query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE file_id = ?", table)
		if err := s.db.GetContext(ctx, &count, query, fileID); err != nil {
			return presence, fmt.Errorf("presence check in %s: %w", table, err)
		}
		switch table {
		case TableProject:
			presence.InProject = count > 0
		case TableArchive:
			presence.InArchive = count > 0
		}
	}
	return presence, nil
}

// Random returns one random row, used by the index page.
func (s *Store) Random(ctx context.Context, table Table) (*Asset, error) {
	var asset Asset
	query := fmt.Sprintf("SELECT * FROM %s ORDER BY RANDOM() LIMIT 1", table)
	err := s.db.GetContext(ctx, &asset, query)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: table %s is empty", ErrNotFound, table)
	}
	if err != nil {
		return nil, fmt.Errorf("random from %s: %w", table, err)
	}
	return &asset, nil
}

// HasFileName reports whether any stored path in the table ends with the
// given filename. Used for advisory duplicate detection at ingest time.
func (s *Store) HasFileName(ctx context.Context, table Table, fileName string) (bool, error) {
	var count int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE file_path LIKE ?", table)
	if err := s.db.GetContext(ctx, &count, query, "%"+fileName); err != nil {
		return false, fmt.Errorf("filename lookup in %s: %w", table, err)
	}
	return count > 0, nil
}

// Select runs a query-builder composed SELECT over asset rows. The where
// clause must be composed only from Field enum values.
func (s *Store) Select(ctx context.Context, table Table, where string, args []any, limit, offset int) ([]Asset, error) {
	query := fmt.Sprintf("SELECT * FROM %s", table)
	if where != "" {
		query += " WHERE " + where
	}
	query += " ORDER BY file_id ASC"
	if limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(append([]any{}, args...), limit, offset)
	}
	var assets []Asset
	if err := s.db.SelectContext(ctx, &assets, query, args...); err != nil {
		return nil, fmt.Errorf("select from %s: %w", table, err)
	}
	return assets, nil
}

// Count runs the COUNT twin of Select with identical WHERE semantics.
func (s *Store) Count(ctx context.Context, table Table, where string, args []any) (int, error) {
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", table)
	if where != "" {
		query += " WHERE " + where
	}
	var count int
	if err := s.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count in %s: %w", table, err)
	}
	return count, nil
}
