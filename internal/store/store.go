package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const (
	// DefaultPageLimit applies when a caller requests a non-positive limit.
	DefaultPageLimit = 20
	// MaxPageLimit caps any requested page size.
	MaxPageLimit = 100
)

const schema = `
	CREATE TABLE IF NOT EXISTS sermons (
		id TEXT PRIMARY KEY,
		userId TEXT NOT NULL,
		title TEXT NOT NULL,
		recordedAt INTEGER NOT NULL,
		deletedAt INTEGER,
		needsSync INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_sermons_user_recorded
		ON sermons(userId, recordedAt DESC, id DESC);

	CREATE TABLE IF NOT EXISTS audio_chunks (
		id TEXT PRIMARY KEY,
		sermonId TEXT NOT NULL REFERENCES sermons(id) ON DELETE CASCADE,
		chunkIndex INTEGER NOT NULL,
		startOffsetSeconds REAL NOT NULL,
		durationSeconds REAL NOT NULL,
		localPath TEXT,
		needsSync INTEGER NOT NULL DEFAULT 0,
		UNIQUE(sermonId, chunkIndex)
	);

	CREATE TABLE IF NOT EXISTS transcripts (
		id TEXT PRIMARY KEY,
		sermonId TEXT NOT NULL UNIQUE REFERENCES sermons(id) ON DELETE CASCADE,
		content TEXT NOT NULL,
		wordTimestamps TEXT NOT NULL,
		updatedAt INTEGER NOT NULL
	);
`

// Store provides access to the sermon SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the database at path with WAL enabled
// and applies the schema.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open database: %v", ErrStorageNotReady, err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: ping database: %v", ErrStorageNotReady, err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: apply schema: %v", ErrStorageNotReady, err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// FetchSermons returns one page of userID's sermons ordered by recordedAt
// descending (id descending breaks ties). Soft-deleted sermons are excluded
// unless includeDeleted is set. The limit is capped at MaxPageLimit; a
// non-positive limit falls back to DefaultPageLimit. cursorToken resumes a
// previous listing; pass "" for the first page.
func (s *Store) FetchSermons(ctx context.Context, userID string, includeDeleted bool, cursorToken string, limit int) (Page, error) {
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}

	query := `
		SELECT id, userId, title, recordedAt, deletedAt, needsSync
		FROM sermons
		WHERE userId = ?`
	args := []any{userID}

	if !includeDeleted {
		query += ` AND deletedAt IS NULL`
	}
	if cursorToken != "" {
		c, err := decodeCursor(cursorToken)
		if err != nil {
			return Page{}, err
		}
		query += ` AND (recordedAt < ? OR (recordedAt = ? AND id < ?))`
		args = append(args, c.RecordedAt, c.RecordedAt, c.ID)
	}
	query += ` ORDER BY recordedAt DESC, id DESC LIMIT ?`
	args = append(args, limit+1)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return Page{}, fmt.Errorf("query sermons: %w", err)
	}
	defer rows.Close()

	var sermons []Sermon
	for rows.Next() {
		sermon, err := scanSermon(rows)
		if err != nil {
			return Page{}, err
		}
		sermons = append(sermons, sermon)
	}
	if err := rows.Err(); err != nil {
		return Page{}, fmt.Errorf("iterate sermons: %w", err)
	}

	page := Page{Sermons: sermons}
	if len(sermons) > limit {
		page.Sermons = sermons[:limit]
		page.HasMore = true
		page.NextCursor = encodeCursor(page.Sermons[limit-1])
	}
	return page, nil
}

// FetchSermon returns a single sermon by id, soft-deleted or not, or
// ErrNotFound.
func (s *Store) FetchSermon(ctx context.Context, id string) (Sermon, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, userId, title, recordedAt, deletedAt, needsSync
		FROM sermons
		WHERE id = ?`, id)
	if err != nil {
		return Sermon{}, fmt.Errorf("query sermon: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return Sermon{}, fmt.Errorf("query sermon: %w", err)
		}
		return Sermon{}, fmt.Errorf("%w: sermon %s", ErrNotFound, id)
	}
	return scanSermon(rows)
}

// SaveSermon inserts a sermon, assigning an id when none is set.
func (s *Store) SaveSermon(ctx context.Context, sermon Sermon) (Sermon, error) {
	if sermon.ID == "" {
		sermon.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sermons (id, userId, title, recordedAt, deletedAt, needsSync)
		VALUES (?, ?, ?, ?, ?, ?)`,
		sermon.ID, sermon.UserID, sermon.Title, sermon.RecordedAt.UnixMilli(),
		nullableMillis(sermon.DeletedAt), boolToInt(sermon.NeedsSync))
	if err != nil {
		return Sermon{}, fmt.Errorf("insert sermon: %w", err)
	}
	return sermon, nil
}

// UpdateSermon rewrites an existing sermon row. It fails with ErrNotFound
// when no row matches the sermon's id.
func (s *Store) UpdateSermon(ctx context.Context, sermon Sermon) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE sermons
		SET userId = ?, title = ?, recordedAt = ?, deletedAt = ?, needsSync = ?
		WHERE id = ?`,
		sermon.UserID, sermon.Title, sermon.RecordedAt.UnixMilli(),
		nullableMillis(sermon.DeletedAt), boolToInt(sermon.NeedsSync), sermon.ID)
	if err != nil {
		return fmt.Errorf("update sermon: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update sermon: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: sermon %s", ErrNotFound, sermon.ID)
	}
	return nil
}

// DeleteSermon soft-deletes a sermon by setting deletedAt. The row stays in
// place and is skipped by normal listings.
func (s *Store) DeleteSermon(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE sermons SET deletedAt = ?, needsSync = 1
		WHERE id = ? AND deletedAt IS NULL`,
		time.Now().UnixMilli(), id)
	if err != nil {
		return fmt.Errorf("delete sermon: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete sermon: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: sermon %s", ErrNotFound, id)
	}
	return nil
}

// FetchSermonsNeedingSync returns exactly the sermons flagged needsSync,
// soft-deleted rows included (deletions sync too).
func (s *Store) FetchSermonsNeedingSync(ctx context.Context) ([]Sermon, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, userId, title, recordedAt, deletedAt, needsSync
		FROM sermons
		WHERE needsSync = 1
		ORDER BY recordedAt DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query sermons needing sync: %w", err)
	}
	defer rows.Close()

	var sermons []Sermon
	for rows.Next() {
		sermon, err := scanSermon(rows)
		if err != nil {
			return nil, err
		}
		sermons = append(sermons, sermon)
	}
	return sermons, rows.Err()
}

// MarkSermonSynced clears a sermon's needsSync flag.
func (s *Store) MarkSermonSynced(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE sermons SET needsSync = 0 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark sermon synced: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark sermon synced: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: sermon %s", ErrNotFound, id)
	}
	return nil
}

// SaveChunk upserts a chunk by its natural key (sermonId, chunkIndex). When a
// chunk already exists for that key, the row is rewritten in place and keeps
// the originally assigned id; otherwise a new row is inserted.
func (s *Store) SaveChunk(ctx context.Context, chunk AudioChunk) (AudioChunk, error) {
	var existingID string
	err := s.db.QueryRowContext(ctx, `
		SELECT id FROM audio_chunks WHERE sermonId = ? AND chunkIndex = ?`,
		chunk.SermonID, chunk.ChunkIndex).Scan(&existingID)
	switch {
	case err == sql.ErrNoRows:
		if chunk.ID == "" {
			chunk.ID = uuid.NewString()
		}
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO audio_chunks (id, sermonId, chunkIndex, startOffsetSeconds, durationSeconds, localPath, needsSync)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			chunk.ID, chunk.SermonID, chunk.ChunkIndex, chunk.StartOffsetSeconds,
			chunk.DurationSeconds, nullableString(chunk.LocalPath), boolToInt(chunk.NeedsSync))
		if err != nil {
			return AudioChunk{}, fmt.Errorf("insert chunk: %w", err)
		}
		return chunk, nil
	case err != nil:
		return AudioChunk{}, fmt.Errorf("lookup chunk: %w", err)
	}

	chunk.ID = existingID
	_, err = s.db.ExecContext(ctx, `
		UPDATE audio_chunks
		SET startOffsetSeconds = ?, durationSeconds = ?, localPath = ?, needsSync = ?
		WHERE id = ?`,
		chunk.StartOffsetSeconds, chunk.DurationSeconds,
		nullableString(chunk.LocalPath), boolToInt(chunk.NeedsSync), chunk.ID)
	if err != nil {
		return AudioChunk{}, fmt.Errorf("update chunk: %w", err)
	}
	return chunk, nil
}

// FetchChunks returns a sermon's chunks ordered by chunkIndex ascending.
func (s *Store) FetchChunks(ctx context.Context, sermonID string) ([]AudioChunk, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, sermonId, chunkIndex, startOffsetSeconds, durationSeconds, localPath, needsSync
		FROM audio_chunks
		WHERE sermonId = ?
		ORDER BY chunkIndex ASC`, sermonID)
	if err != nil {
		return nil, fmt.Errorf("query chunks: %w", err)
	}
	defer rows.Close()

	var chunks []AudioChunk
	for rows.Next() {
		var c AudioChunk
		var localPath sql.NullString
		var needsSync int
		if err := rows.Scan(&c.ID, &c.SermonID, &c.ChunkIndex, &c.StartOffsetSeconds,
			&c.DurationSeconds, &localPath, &needsSync); err != nil {
			return nil, fmt.Errorf("scan chunk: %w", err)
		}
		if localPath.Valid {
			c.LocalPath = localPath.String
		}
		c.NeedsSync = needsSync != 0
		chunks = append(chunks, c)
	}
	return chunks, rows.Err()
}

// SaveTranscript upserts a sermon's transcript, refreshing updatedAt. A
// rewritten transcript keeps the id of the first saved one.
func (s *Store) SaveTranscript(ctx context.Context, t Transcript) (Transcript, error) {
	words, err := json.Marshal(t.Words)
	if err != nil {
		return Transcript{}, fmt.Errorf("encode word timestamps: %w", err)
	}
	t.UpdatedAt = time.Now()

	var existingID string
	err = s.db.QueryRowContext(ctx, `SELECT id FROM transcripts WHERE sermonId = ?`, t.SermonID).Scan(&existingID)
	switch {
	case err == sql.ErrNoRows:
		if t.ID == "" {
			t.ID = uuid.NewString()
		}
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO transcripts (id, sermonId, content, wordTimestamps, updatedAt)
			VALUES (?, ?, ?, ?, ?)`,
			t.ID, t.SermonID, t.Content, string(words), t.UpdatedAt.UnixMilli())
		if err != nil {
			return Transcript{}, fmt.Errorf("insert transcript: %w", err)
		}
		return t, nil
	case err != nil:
		return Transcript{}, fmt.Errorf("lookup transcript: %w", err)
	}

	t.ID = existingID
	_, err = s.db.ExecContext(ctx, `
		UPDATE transcripts SET content = ?, wordTimestamps = ?, updatedAt = ?
		WHERE id = ?`,
		t.Content, string(words), t.UpdatedAt.UnixMilli(), t.ID)
	if err != nil {
		return Transcript{}, fmt.Errorf("update transcript: %w", err)
	}
	return t, nil
}

// FetchTranscript returns the transcript for a sermon, or ErrNotFound.
func (s *Store) FetchTranscript(ctx context.Context, sermonID string) (Transcript, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, sermonId, content, wordTimestamps, updatedAt
		FROM transcripts
		WHERE sermonId = ?`, sermonID)

	var t Transcript
	var words string
	var updatedAt int64
	if err := row.Scan(&t.ID, &t.SermonID, &t.Content, &words, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return Transcript{}, fmt.Errorf("%w: transcript for sermon %s", ErrNotFound, sermonID)
		}
		return Transcript{}, fmt.Errorf("scan transcript: %w", err)
	}
	if err := json.Unmarshal([]byte(words), &t.Words); err != nil {
		return Transcript{}, fmt.Errorf("decode word timestamps: %w", err)
	}
	t.UpdatedAt = time.UnixMilli(updatedAt)
	return t, nil
}

func scanSermon(rows *sql.Rows) (Sermon, error) {
	var s Sermon
	var recordedAt int64
	var deletedAt sql.NullInt64
	var needsSync int
	if err := rows.Scan(&s.ID, &s.UserID, &s.Title, &recordedAt, &deletedAt, &needsSync); err != nil {
		return Sermon{}, fmt.Errorf("scan sermon: %w", err)
	}
	s.RecordedAt = time.UnixMilli(recordedAt)
	if deletedAt.Valid {
		t := time.UnixMilli(deletedAt.Int64)
		s.DeletedAt = &t
	}
	s.NeedsSync = needsSync != 0
	return s, nil
}

func nullableMillis(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UnixMilli()
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
