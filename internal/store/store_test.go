package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(filepath.Join(t.TempDir(), "test.sqlite"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func seedSermons(t *testing.T, s *Store, userID string, n int) []Sermon {
	t.Helper()

	base := time.Date(2025, time.March, 2, 10, 0, 0, 0, time.UTC)
	sermons := make([]Sermon, 0, n)
	for i := 0; i < n; i++ {
		sermon, err := s.SaveSermon(context.Background(), Sermon{
			UserID:     userID,
			Title:      "Sermon",
			RecordedAt: base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("save sermon %d: %v", i, err)
		}
		sermons = append(sermons, sermon)
	}
	return sermons
}

func TestFetchSermonsPaginatesWithoutGapsOrOverlaps(t *testing.T) {
	s := openTestStore(t)
	seedSermons(t, s, "user-1", 23)

	ctx := context.Background()
	seen := make(map[string]bool)
	var ordered []Sermon

	cursor := ""
	pages := 0
	for {
		page, err := s.FetchSermons(ctx, "user-1", false, cursor, 5)
		if err != nil {
			t.Fatalf("page %d: %v", pages, err)
		}
		for _, sermon := range page.Sermons {
			if seen[sermon.ID] {
				t.Fatalf("sermon %s returned twice", sermon.ID)
			}
			seen[sermon.ID] = true
			ordered = append(ordered, sermon)
		}
		pages++
		if !page.HasMore {
			if page.NextCursor != "" {
				t.Fatalf("final page carries cursor %q", page.NextCursor)
			}
			break
		}
		if page.NextCursor == "" {
			t.Fatal("non-final page missing cursor")
		}
		cursor = page.NextCursor
	}

	if len(ordered) != 23 {
		t.Fatalf("got %d sermons across %d pages, want 23", len(ordered), pages)
	}
	for i := 1; i < len(ordered); i++ {
		if ordered[i].RecordedAt.After(ordered[i-1].RecordedAt) {
			t.Fatalf("sermons out of order at %d", i)
		}
	}
}

func TestFetchSermonsCursorStableUnderInserts(t *testing.T) {
	s := openTestStore(t)
	sermons := seedSermons(t, s, "user-1", 10)

	ctx := context.Background()
	page, err := s.FetchSermons(ctx, "user-1", false, "", 4)
	if err != nil {
		t.Fatalf("first page: %v", err)
	}

	// A sermon newer than everything fetched so far must not disturb the
	// continuation.
	if _, err := s.SaveSermon(ctx, Sermon{
		UserID:     "user-1",
		Title:      "Late arrival",
		RecordedAt: sermons[len(sermons)-1].RecordedAt.Add(time.Hour),
	}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	seen := make(map[string]bool)
	for _, sermon := range page.Sermons {
		seen[sermon.ID] = true
	}
	next, err := s.FetchSermons(ctx, "user-1", false, page.NextCursor, 100)
	if err != nil {
		t.Fatalf("second page: %v", err)
	}
	for _, sermon := range next.Sermons {
		if seen[sermon.ID] {
			t.Fatalf("sermon %s re-returned after insert", sermon.ID)
		}
	}
	if got := len(page.Sermons) + len(next.Sermons); got != 10 {
		t.Fatalf("got %d sermons, want the original 10", got)
	}
}

func TestFetchSermonsCapsLimit(t *testing.T) {
	s := openTestStore(t)
	seedSermons(t, s, "user-1", 120)

	page, err := s.FetchSermons(context.Background(), "user-1", false, "", 500)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(page.Sermons) != MaxPageLimit {
		t.Fatalf("got %d sermons, want cap %d", len(page.Sermons), MaxPageLimit)
	}
	if !page.HasMore {
		t.Fatal("expected more pages past the cap")
	}
}

func TestFetchSermonsExcludesSoftDeleted(t *testing.T) {
	s := openTestStore(t)
	sermons := seedSermons(t, s, "user-1", 3)

	ctx := context.Background()
	if err := s.DeleteSermon(ctx, sermons[1].ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	page, err := s.FetchSermons(ctx, "user-1", false, "", 10)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(page.Sermons) != 2 {
		t.Fatalf("got %d sermons, want 2", len(page.Sermons))
	}
	for _, sermon := range page.Sermons {
		if sermon.ID == sermons[1].ID {
			t.Fatal("soft-deleted sermon still listed")
		}
	}

	all, err := s.FetchSermons(ctx, "user-1", true, "", 10)
	if err != nil {
		t.Fatalf("fetch with deleted: %v", err)
	}
	if len(all.Sermons) != 3 {
		t.Fatalf("got %d sermons including deleted, want 3", len(all.Sermons))
	}
}

func TestFetchSermonsRejectsBadCursor(t *testing.T) {
	s := openTestStore(t)

	_, err := s.FetchSermons(context.Background(), "user-1", false, "not-a-cursor", 10)
	if !errors.Is(err, ErrInvalidCursor) {
		t.Fatalf("got %v, want ErrInvalidCursor", err)
	}
}

func TestSaveChunkUpsertsByNaturalKey(t *testing.T) {
	s := openTestStore(t)
	sermons := seedSermons(t, s, "user-1", 1)

	ctx := context.Background()
	first, err := s.SaveChunk(ctx, AudioChunk{
		ID:              "chunk-a",
		SermonID:        sermons[0].ID,
		ChunkIndex:      0,
		DurationSeconds: 30,
	})
	if err != nil {
		t.Fatalf("first save: %v", err)
	}

	second, err := s.SaveChunk(ctx, AudioChunk{
		ID:              "chunk-b",
		SermonID:        sermons[0].ID,
		ChunkIndex:      0,
		DurationSeconds: 45,
		LocalPath:       "/tmp/chunk0.wav",
	})
	if err != nil {
		t.Fatalf("second save: %v", err)
	}

	if second.ID != first.ID {
		t.Fatalf("upsert reassigned id: got %q, want original %q", second.ID, first.ID)
	}

	chunks, err := s.FetchChunks(ctx, sermons[0].ID)
	if err != nil {
		t.Fatalf("fetch chunks: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1", len(chunks))
	}
	if chunks[0].ID != "chunk-a" {
		t.Fatalf("stored id = %q, want first id %q", chunks[0].ID, "chunk-a")
	}
	if chunks[0].DurationSeconds != 45 {
		t.Fatalf("duration = %v, want overwritten 45", chunks[0].DurationSeconds)
	}
	if chunks[0].LocalPath != "/tmp/chunk0.wav" {
		t.Fatalf("local path = %q, want overwritten path", chunks[0].LocalPath)
	}
}

func TestFetchChunksOrdersByIndex(t *testing.T) {
	s := openTestStore(t)
	sermons := seedSermons(t, s, "user-1", 1)

	ctx := context.Background()
	for _, idx := range []int{2, 0, 1} {
		if _, err := s.SaveChunk(ctx, AudioChunk{
			SermonID:           sermons[0].ID,
			ChunkIndex:         idx,
			StartOffsetSeconds: float64(idx * 30),
			DurationSeconds:    30,
		}); err != nil {
			t.Fatalf("save chunk %d: %v", idx, err)
		}
	}

	chunks, err := s.FetchChunks(ctx, sermons[0].ID)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	for i, chunk := range chunks {
		if chunk.ChunkIndex != i {
			t.Fatalf("chunk %d has index %d", i, chunk.ChunkIndex)
		}
	}
}

func TestUpdateSermonNotFound(t *testing.T) {
	s := openTestStore(t)

	err := s.UpdateSermon(context.Background(), Sermon{
		ID:         "missing",
		UserID:     "user-1",
		RecordedAt: time.Now(),
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestFetchSermonsNeedingSync(t *testing.T) {
	s := openTestStore(t)
	sermons := seedSermons(t, s, "user-1", 3)

	ctx := context.Background()
	flagged := sermons[1]
	flagged.NeedsSync = true
	if err := s.UpdateSermon(ctx, flagged); err != nil {
		t.Fatalf("update: %v", err)
	}

	pending, err := s.FetchSermonsNeedingSync(ctx)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != flagged.ID {
		t.Fatalf("got %d pending (%v), want exactly the flagged sermon", len(pending), pending)
	}

	if err := s.MarkSermonSynced(ctx, flagged.ID); err != nil {
		t.Fatalf("mark synced: %v", err)
	}
	pending, err = s.FetchSermonsNeedingSync(ctx)
	if err != nil {
		t.Fatalf("refetch: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("got %d pending after sync, want 0", len(pending))
	}
}

func TestSaveTranscriptUpsertsBySermon(t *testing.T) {
	s := openTestStore(t)
	sermons := seedSermons(t, s, "user-1", 1)

	ctx := context.Background()
	first, err := s.SaveTranscript(ctx, Transcript{
		SermonID: sermons[0].ID,
		Content:  "first draft",
		Words:    []WordTimestamp{{Word: "first", Start: 0, End: 0.4}},
	})
	if err != nil {
		t.Fatalf("first save: %v", err)
	}

	second, err := s.SaveTranscript(ctx, Transcript{
		SermonID: sermons[0].ID,
		Content:  "second draft",
	})
	if err != nil {
		t.Fatalf("second save: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("rewrite reassigned id: got %q, want %q", second.ID, first.ID)
	}

	fetched, err := s.FetchTranscript(ctx, sermons[0].ID)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if fetched.Content != "second draft" {
		t.Fatalf("content = %q, want rewrite", fetched.Content)
	}

	_, err = s.FetchTranscript(ctx, "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}
