package jobs

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"math/rand"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

const (
	schemaVersion = 1
	jobIDLength   = 6
)

// Store wraps the jobs database, separate from the media database.
type Store struct {
	db *sqlx.DB
}

// Open opens (creating if needed) the jobs database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	values := url.Values{}
	values.Add("_pragma", "journal_mode(WAL)")
	values.Add("_pragma", "busy_timeout(5000)")
	db, err := sqlx.Open("sqlite", "file:"+path+"?"+values.Encode())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	var version int
	if err := db.GetContext(ctx, &version, `SELECT COALESCE(MAX(version), 0) FROM schema_version`); err != nil {
		db.Close()
		return nil, fmt.Errorf("read schema version: %w", err)
	}
	if version < schemaVersion {
		if _, err := db.ExecContext(ctx, `INSERT INTO schema_version (version) VALUES (?)`, schemaVersion); err != nil {
			db.Close()
			return nil, fmt.Errorf("record schema version: %w", err)
		}
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// GenerateUniqueID returns a random 6-letter job id not yet present,
// regenerating on collision.
func (s *Store) GenerateUniqueID(ctx context.Context) (string, error) {
	const letters = "abcdefghijklmnopqrstuvwxyz"
	for {
		b := make([]byte, jobIDLength)
		for i := range b {
			b[i] = letters[rand.Intn(len(letters))]
		}
		candidate := string(b)
		var count int
		if err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM jobs WHERE job_id = ?`, candidate); err != nil {
			return "", fmt.Errorf("check id collision: %w", err)
		}
		if count == 0 {
			return candidate, nil
		}
	}
}

// NameExists reports whether a job_name is taken.
func (s *Store) NameExists(ctx context.Context, name string) (bool, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM jobs WHERE job_name = ?`, name); err != nil {
		return false, fmt.Errorf("check name: %w", err)
	}
	return count > 0, nil
}

// RevisionsForPrefix returns the revision tokens of every job whose name
// starts with "{prefix}_", e.g. prefix "25_logo" matches "25_logo_a".
// Underscores are LIKE wildcards, so the query over-matches and the exact
// prefix check below does the real filtering.
func (s *Store) RevisionsForPrefix(ctx context.Context, prefix string) ([]string, error) {
	var names []string
	err := s.db.SelectContext(ctx, &names,
		`SELECT job_name FROM jobs WHERE job_name LIKE ?`, prefix+"_%")
	if err != nil {
		return nil, fmt.Errorf("scan revisions: %w", err)
	}
	prefixed := prefix + "_"
	revisions := make([]string, 0, len(names))
	for _, name := range names {
		if !strings.HasPrefix(name, prefixed) || len(name) == len(prefixed) {
			continue
		}
		revisions = append(revisions, name[len(prefixed):])
	}
	return revisions, nil
}

// Insert writes a complete job row.
func (s *Store) Insert(ctx context.Context, job *Job) error {
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO jobs (
			job_id, job_name, job_alias, job_state, job_year,
			job_creator, job_editor, job_date_created, job_date_edited,
			job_date_due, job_charge_main, job_charge_extra, job_charge_rnd,
			job_tags, job_notes, job_path_job, job_path_rnd, job_apps
		) VALUES (
			:job_id, :job_name, :job_alias, :job_state, :job_year,
			:job_creator, :job_editor, :job_date_created, :job_date_edited,
			:job_date_due, :job_charge_main, :job_charge_extra, :job_charge_rnd,
			:job_tags, :job_notes, :job_path_job, :job_path_rnd, :job_apps
		)`, job)
	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

// Get fetches one job by id.
func (s *Store) Get(ctx context.Context, jobID string) (*Job, error) {
	var job Job
	err := s.db.GetContext(ctx, &job, `SELECT * FROM jobs WHERE job_id = ?`, jobID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, jobID)
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return &job, nil
}

// GetByName fetches one job by its unique name.
func (s *Store) GetByName(ctx context.Context, name string) (*Job, error) {
	var job Job
	err := s.db.GetContext(ctx, &job, `SELECT * FROM jobs WHERE job_name = ?`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("get job by name: %w", err)
	}
	return &job, nil
}

// List returns all jobs, newest names first.
func (s *Store) List(ctx context.Context) ([]Job, error) {
	var jobList []Job
	if err := s.db.SelectContext(ctx, &jobList, `SELECT * FROM jobs ORDER BY job_name DESC`); err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return jobList, nil
}

// Years returns the distinct job years, newest first.
func (s *Store) Years(ctx context.Context) ([]string, error) {
	var years []string
	err := s.db.SelectContext(ctx, &years,
		`SELECT DISTINCT job_year FROM jobs WHERE job_year != '' ORDER BY job_year DESC`)
	if err != nil {
		return nil, fmt.Errorf("list years: %w", err)
	}
	return years, nil
}

// ProjectsForYear returns name/path pairs for one year, excluding deleted
// jobs.
func (s *Store) ProjectsForYear(ctx context.Context, year string) ([]ProjectRef, error) {
	var refs []ProjectRef
	err := s.db.SelectContext(ctx, &refs,
		`SELECT job_name, job_path_job FROM jobs
		 WHERE job_year = ? AND job_state != ? ORDER BY job_name ASC`,
		year, string(StateDeleted))
	if err != nil {
		return nil, fmt.Errorf("projects for year: %w", err)
	}
	return refs, nil
}

// editableColumns is the dashboard's update allow-list; anything else in
// an update request is dropped. Column names reach SQL only from here.
var editableColumns = map[string]bool{
	"job_state":        true,
	"job_date_due":     true,
	"job_charge_main":  true,
	"job_charge_extra": true,
	"job_charge_rnd":   true,
	"job_tags":         true,
	"job_notes":        true,
}

// Update applies allow-listed column edits to one job and stamps the
// editor and edit time. Tag values are deduplicated on the way in.
func (s *Store) Update(ctx context.Context, jobID, editor string, fields map[string]string) error {
	setClause := ""
	var args []any
	for column, value := range fields {
		if !editableColumns[column] {
			continue
		}
		if column == "job_state" && !State(value).Valid() {
			continue
		}
		if column == "job_tags" {
			value = DedupTags(value)
		}
		if setClause != "" {
			setClause += ", "
		}
		setClause += column + " = ?"
		args = append(args, value)
	}
	if setClause != "" {
		setClause += ", "
	}
	setClause += "job_editor = ?, job_date_edited = ?"
	args = append(args, editor, time.Now().Format(time.RFC3339))
	args = append(args, jobID)

	result, err := s.db.ExecContext(ctx, "UPDATE jobs SET "+setClause+" WHERE job_id = ?", args...)
	if err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, jobID)
	}
	return nil
}
