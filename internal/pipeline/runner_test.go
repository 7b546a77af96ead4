package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulpitworks/sermon-pipeline/internal/config"
	"github.com/pulpitworks/sermon-pipeline/internal/engine"
	"github.com/pulpitworks/sermon-pipeline/internal/progress"
	"github.com/pulpitworks/sermon-pipeline/internal/store"
	"github.com/pulpitworks/sermon-pipeline/internal/telemetry"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() config.Config {
	cfg := config.Config{UseStubEngine: true}
	if err := cfg.Validate(); err != nil {
		panic(err)
	}
	return cfg
}

func newTestRunner(t *testing.T, eng engine.Engine) (*Runner, *store.Store, *progress.Publisher) {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "pipeline.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	logger := testLogger()
	pub := progress.NewPublisher(logger)
	runner := NewRunner(testConfig(), st, eng, pub, nil, telemetry.NewRecorder(logger), logger)
	return runner, st, pub
}

func seedSermon(t *testing.T, st *store.Store, chunkCount int) store.Sermon {
	t.Helper()

	ctx := context.Background()
	sermon, err := st.SaveSermon(ctx, store.Sermon{
		UserID:     "user-1",
		Title:      "A Study in Habakkuk",
		RecordedAt: time.Now(),
	})
	require.NoError(t, err)

	for i := 0; i < chunkCount; i++ {
		_, err := st.SaveChunk(ctx, store.AudioChunk{
			SermonID:           sermon.ID,
			ChunkIndex:         i,
			StartOffsetSeconds: float64(i) * 30,
			DurationSeconds:    30,
		})
		require.NoError(t, err)
	}
	return sermon
}

func drain(ch <-chan progress.Update) []progress.Update {
	var updates []progress.Update
	for u := range ch {
		updates = append(updates, u)
	}
	return updates
}

func TestProcessSermon(t *testing.T) {
	runner, st, pub := newTestRunner(t, engine.NewStubEngine(testLogger(), "whisper-1"))
	sermon := seedSermon(t, st, 3)

	ctx := context.Background()
	ch := pub.Subscribe(ctx, sermon.ID)

	transcript, err := runner.ProcessSermon(ctx, sermon.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, transcript.ID)
	assert.Contains(t, transcript.Content, "stub transcript for chunk 0")
	assert.Contains(t, transcript.Content, "stub transcript for chunk 2")
	assert.NotEmpty(t, transcript.Words)

	// Chunk word timings are shifted by each chunk's start offset.
	last := transcript.Words[len(transcript.Words)-1]
	assert.Greater(t, last.Start, 60.0)

	updates := drain(ch)
	require.NotEmpty(t, updates)
	assert.Equal(t, 0, updates[0].ProgressPercent())
	final := updates[len(updates)-1]
	assert.Equal(t, 100, final.ProgressPercent())
	assert.Equal(t, progress.StatusCompleted, final.Job.TranscriptionStatus)

	for i := 1; i < len(updates); i++ {
		assert.GreaterOrEqual(t, updates[i].Progress, updates[i-1].Progress, "progress never regresses")
	}

	saved, err := st.FetchTranscript(ctx, sermon.ID)
	require.NoError(t, err)
	assert.Equal(t, transcript.Content, saved.Content)
}

func TestProcessSermonUpdatesKeepPublishedChunkStatuses(t *testing.T) {
	runner, st, pub := newTestRunner(t, engine.NewStubEngine(testLogger(), "whisper-1"))
	sermon := seedSermon(t, st, 3)

	ctx := context.Background()
	ch := pub.Subscribe(ctx, sermon.ID)

	_, err := runner.ProcessSermon(ctx, sermon.ID)
	require.NoError(t, err)

	// Drained only after the job finished: each update must still carry the
	// chunk statuses as they were when it was published, not the final state.
	updates := drain(ch)
	require.Len(t, updates, 5)

	assert.Equal(t, []progress.Status{progress.StatusPending, progress.StatusPending, progress.StatusPending},
		updates[0].Job.ChunkStatuses)
	assert.Equal(t, []progress.Status{progress.StatusCompleted, progress.StatusPending, progress.StatusPending},
		updates[1].Job.ChunkStatuses)
	assert.Equal(t, []progress.Status{progress.StatusCompleted, progress.StatusCompleted, progress.StatusPending},
		updates[2].Job.ChunkStatuses)
	assert.Equal(t, []progress.Status{progress.StatusCompleted, progress.StatusCompleted, progress.StatusCompleted},
		updates[3].Job.ChunkStatuses)
}

func TestProcessSermonNoChunks(t *testing.T) {
	runner, st, pub := newTestRunner(t, engine.NewStubEngine(testLogger(), "whisper-1"))
	sermon := seedSermon(t, st, 0)

	ctx := context.Background()
	ch := pub.Subscribe(ctx, sermon.ID)

	_, err := runner.ProcessSermon(ctx, sermon.ID)
	require.Error(t, err)

	updates := drain(ch)
	require.Len(t, updates, 1)
	assert.Equal(t, progress.StatusFailed, updates[0].Job.TranscriptionStatus)
	assert.Equal(t, 100, updates[0].ProgressPercent())
}

func TestProcessSermonUnknownID(t *testing.T) {
	runner, _, _ := newTestRunner(t, engine.NewStubEngine(testLogger(), "whisper-1"))

	_, err := runner.ProcessSermon(context.Background(), "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

type failingEngine struct {
	failAt int
	calls  int
}

func (f *failingEngine) TranscribeChunk(ctx context.Context, chunk store.AudioChunk, prompt string) (engine.Result, error) {
	f.calls++
	if chunk.ChunkIndex == f.failAt {
		return engine.Result{}, errors.New("recognition backend unavailable")
	}
	text := "ordinary speech"
	return engine.Result{Text: text, Words: engine.SpreadWords(text, chunk.DurationSeconds)}, nil
}

func (f *failingEngine) Close() error { return nil }

func TestProcessSermonEngineFailure(t *testing.T) {
	eng := &failingEngine{failAt: 1}
	runner, st, pub := newTestRunner(t, eng)
	sermon := seedSermon(t, st, 3)

	ctx := context.Background()
	ch := pub.Subscribe(ctx, sermon.ID)

	_, err := runner.ProcessSermon(ctx, sermon.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "transcribe chunk 1")
	assert.Equal(t, 2, eng.calls, "processing stops at the failing chunk")

	updates := drain(ch)
	require.NotEmpty(t, updates)
	final := updates[len(updates)-1]
	assert.Equal(t, progress.StatusFailed, final.Job.TranscriptionStatus)

	_, err = st.FetchTranscript(ctx, sermon.ID)
	assert.ErrorIs(t, err, store.ErrNotFound, "no partial transcript is persisted")
}

type correctableEngine struct{}

func (correctableEngine) TranscribeChunk(ctx context.Context, chunk store.AudioChunk, prompt string) (engine.Result, error) {
	text := "turn to have a cook 2:4 this morning"
	return engine.Result{Text: text, Words: engine.SpreadWords(text, chunk.DurationSeconds)}, nil
}

func (correctableEngine) Close() error { return nil }

func TestProcessSermonAppliesCorrections(t *testing.T) {
	runner, st, _ := newTestRunner(t, correctableEngine{})
	sermon := seedSermon(t, st, 1)

	transcript, err := runner.ProcessSermon(context.Background(), sermon.ID)
	require.NoError(t, err)
	assert.Contains(t, transcript.Content, "Habakkuk 2:4")
	assert.NotContains(t, transcript.Content, "have a cook")
}

func TestProcessSermonPromptCarriesGlossary(t *testing.T) {
	var prompts []string
	eng := promptRecordingEngine{prompts: &prompts}
	runner, st, _ := newTestRunner(t, eng)
	sermon := seedSermon(t, st, 2)

	_, err := runner.ProcessSermon(context.Background(), sermon.ID)
	require.NoError(t, err)

	require.Len(t, prompts, 2)
	assert.Contains(t, prompts[0], "Habakkuk", "glossary reflects the sermon title")
	assert.Contains(t, prompts[1], "spoken words", "later prompts carry recent context")
	for _, p := range prompts {
		assert.LessOrEqual(t, len(p), config.DefaultMaxPromptChars)
	}
}

type promptRecordingEngine struct {
	prompts *[]string
}

func (e promptRecordingEngine) TranscribeChunk(ctx context.Context, chunk store.AudioChunk, prompt string) (engine.Result, error) {
	*e.prompts = append(*e.prompts, prompt)
	text := "spoken words"
	return engine.Result{Text: text, Words: engine.SpreadWords(text, chunk.DurationSeconds)}, nil
}

func (e promptRecordingEngine) Close() error { return nil }
