package host

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "embed"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schema string

// SQLiteStore is the sqlite-backed content store.
type SQLiteStore struct {
	db *sql.DB
}

// Open opens (and on first use initializes) the content database at path.
// Use ":memory:" for an ephemeral store.
func Open(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf(
		"file:%s?"+
			"_journal_mode=WAL&"+
			"_synchronous=NORMAL&"+
			"_busy_timeout=10000",
		path,
	))
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		// if already setup
		if !strings.Contains(err.Error(), "already exists") {
			db.Close()
			return nil, err
		}
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) LookupItem(ctx context.Context, id int64) (*Item, error) {
	row := s.db.QueryRowContext(ctx,
		"select id, type, mime_type, file from items where id = ?", id)
	var it Item
	err := row.Scan(&it.ID, &it.Type, &it.MimeType, &it.File)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (s *SQLiteStore) ThumbnailID(ctx context.Context, id int64) (int64, error) {
	row := s.db.QueryRowContext(ctx,
		"select thumbnail_id from thumbnails where item_id = ?", id)
	var thumbID int64
	err := row.Scan(&thumbID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return thumbID, nil
}

// AddItem inserts or replaces an item. Used by seeding and tests.
func (s *SQLiteStore) AddItem(ctx context.Context, it Item) error {
	_, err := s.db.ExecContext(ctx,
		"insert or replace into items (id, type, mime_type, file) values (?, ?, ?, ?)",
		it.ID, it.Type, it.MimeType, it.File)
	return err
}

// SetThumbnail associates thumbID as the thumbnail of itemID.
func (s *SQLiteStore) SetThumbnail(ctx context.Context, itemID, thumbID int64) error {
	_, err := s.db.ExecContext(ctx,
		"insert or replace into thumbnails (item_id, thumbnail_id) values (?, ?)",
		itemID, thumbID)
	return err
}
