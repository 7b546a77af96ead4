package engine

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/pulpitworks/sermon-pipeline/internal/config"
	"github.com/pulpitworks/sermon-pipeline/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSpreadWords(t *testing.T) {
	words := SpreadWords("in the beginning God", 8)
	if len(words) != 4 {
		t.Fatalf("expected 4 words, got %d", len(words))
	}
	if words[0].Word != "in" || words[3].Word != "God" {
		t.Fatalf("word order broken: %+v", words)
	}
	if words[0].Start != 0 {
		t.Fatalf("first word should start at 0, got %f", words[0].Start)
	}
	if math.Abs(words[3].End-8) > 1e-9 {
		t.Fatalf("last word should end at chunk duration, got %f", words[3].End)
	}
	for i := 1; i < len(words); i++ {
		if math.Abs(words[i].Start-words[i-1].End) > 1e-9 {
			t.Fatalf("words %d and %d are not contiguous", i-1, i)
		}
	}
}

func TestSpreadWordsEmptyText(t *testing.T) {
	if got := SpreadWords("", 10); got != nil {
		t.Fatalf("expected nil for empty text, got %v", got)
	}
	if got := SpreadWords("   ", 10); got != nil {
		t.Fatalf("expected nil for blank text, got %v", got)
	}
}

func TestStubEngineTranscribeChunk(t *testing.T) {
	eng := NewStubEngine(testLogger(), "whisper-1")
	defer eng.Close()

	chunk := store.AudioChunk{
		SermonID:        "sermon-1",
		ChunkIndex:      2,
		DurationSeconds: 30,
	}
	result, err := eng.TranscribeChunk(context.Background(), chunk, "prompt")
	if err != nil {
		t.Fatalf("TranscribeChunk returned error: %v", err)
	}
	if result.Text != "stub transcript for chunk 2 of sermon sermon-1" {
		t.Fatalf("unexpected transcript %q", result.Text)
	}
	if len(result.Words) == 0 {
		t.Fatal("expected synthesized word timestamps")
	}
	last := result.Words[len(result.Words)-1]
	if math.Abs(last.End-30) > 1e-9 {
		t.Fatalf("timestamps should span the chunk duration, got %f", last.End)
	}
}

func TestStubEngineLogsChunkTotal(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	eng := NewStubEngine(logger, "whisper-1")
	defer eng.Close()

	chunk := store.AudioChunk{SermonID: "sermon-1", DurationSeconds: 30}
	for i := 0; i < 2; i++ {
		chunk.ChunkIndex = i
		if _, err := eng.TranscribeChunk(context.Background(), chunk, ""); err != nil {
			t.Fatalf("TranscribeChunk returned error: %v", err)
		}
	}

	if !strings.Contains(buf.String(), "total_chunks=2") {
		t.Fatalf("expected running chunk total in debug log, got:\n%s", buf.String())
	}
}

func TestFactoryForcedStub(t *testing.T) {
	cfg := config.Config{UseStubEngine: true, ModelVariant: "whisper-1", OpenAIAPIKey: "sk-test"}

	eng := New(cfg, testLogger())
	defer eng.Close()

	if _, ok := eng.(*StubEngine); !ok {
		t.Fatalf("expected stub engine, got %T", eng)
	}
}

func TestFactoryFallsBackWithoutKey(t *testing.T) {
	cfg := config.Config{ModelVariant: "whisper-1"}

	eng := New(cfg, testLogger())
	defer eng.Close()

	if _, ok := eng.(*StubEngine); !ok {
		t.Fatalf("expected stub engine without credentials, got %T", eng)
	}
}

func TestFactorySelectsOpenAI(t *testing.T) {
	cfg := config.Config{ModelVariant: "whisper-1", OpenAIAPIKey: "sk-test"}

	eng := New(cfg, testLogger())
	defer eng.Close()

	if _, ok := eng.(*OpenAIEngine); !ok {
		t.Fatalf("expected OpenAI engine, got %T", eng)
	}
}
