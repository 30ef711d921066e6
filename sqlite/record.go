package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/pagebrief"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ pagebrief.RecordService = (*RecordService)(nil)

// RecordService implements pagebrief.RecordService using SQLite.
type RecordService struct {
	db *DB
}

// NewRecordService creates a new RecordService.
func NewRecordService(db *DB) *RecordService {
	return &RecordService{db: db}
}

// HashContent returns the xxHash of content as 16 hex digits.
func HashContent(content string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(content))
}

const recordColumns = "id, task_id, source_url, title, keywords, summary, hashtags, article, saved_path, content_hash, completed_at"

// CreateRecord stores a new record. A zero CompletedAt is set to now.
func (s *RecordService) CreateRecord(ctx context.Context, rec *pagebrief.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	rec.ID = uuid.New().String()
	rec.ContentHash = HashContent(rec.Article)
	if rec.CompletedAt.IsZero() {
		rec.CompletedAt = time.Now()
	}
	rec.CompletedAt = rec.CompletedAt.UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO records (`+recordColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.TaskID, rec.SourceURL, rec.Title, joinList(rec.Keywords), rec.Summary,
		joinList(rec.Hashtags), rec.Article, rec.SavedPath, rec.ContentHash, formatTime(rec.CompletedAt))

	return err
}

// FindRecordByID retrieves a record by ID.
func (s *RecordService) FindRecordByID(ctx context.Context, id string) (*pagebrief.Record, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+recordColumns+" FROM records WHERE id = ?", id)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, pagebrief.Errorf(pagebrief.ENOTFOUND, "record %q not found", id)
	}
	return rec, err
}

// FindRecords retrieves records matching the filter, newest first.
func (s *RecordService) FindRecords(ctx context.Context, filter pagebrief.RecordFilter) ([]*pagebrief.Record, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + recordColumns + " FROM records WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.SourceURL != nil {
		query.WriteString(" AND source_url = ?")
		args = append(args, *filter.SourceURL)
	}

	query.WriteString(" ORDER BY completed_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []*pagebrief.Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// DeleteRecord permanently removes a record.
func (s *RecordService) DeleteRecord(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM records WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return pagebrief.Errorf(pagebrief.ENOTFOUND, "record %q not found", id)
	}

	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*pagebrief.Record, error) {
	var rec pagebrief.Record
	var keywords, hashtags, completedAt string

	if err := row.Scan(&rec.ID, &rec.TaskID, &rec.SourceURL, &rec.Title, &keywords, &rec.Summary,
		&hashtags, &rec.Article, &rec.SavedPath, &rec.ContentHash, &completedAt); err != nil {
		return nil, err
	}

	var err error
	rec.CompletedAt, err = parseTime(completedAt, "completed_at")
	if err != nil {
		return nil, err
	}
	rec.Keywords = splitList(keywords)
	rec.Hashtags = splitList(hashtags)

	return &rec, nil
}
