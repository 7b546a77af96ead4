package telemetry

import (
	"errors"
	"io"
	"log/slog"
	"testing"
)

func newTestRecorder() *Recorder {
	return NewRecorder(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRecorderJobLifecycle(t *testing.T) {
	recorder := newTestRecorder()

	job := recorder.StartJob("sermon-1")
	if job == nil {
		t.Fatal("expected job metrics")
	}

	snap := recorder.Snapshot()
	if snap.TotalJobs != 1 || snap.ActiveJobs != 1 {
		t.Fatalf("unexpected snapshot after start: %+v", snap)
	}

	job.RecordChunk(0, 30)
	job.RecordChunk(1, 25.5)
	job.RecordCorrections(3)
	job.RecordTranscript()
	job.Finish(nil)

	snap = recorder.Snapshot()
	if snap.ActiveJobs != 0 {
		t.Fatalf("expected no active jobs, got %d", snap.ActiveJobs)
	}
	if snap.FailedJobs != 0 {
		t.Fatalf("expected no failed jobs, got %d", snap.FailedJobs)
	}
	if snap.TotalChunks != 2 {
		t.Fatalf("expected 2 chunks, got %d", snap.TotalChunks)
	}
	if snap.TotalSeconds != 55 {
		t.Fatalf("expected 55 whole seconds, got %d", snap.TotalSeconds)
	}
	if snap.TotalCorrections != 3 {
		t.Fatalf("expected 3 corrections, got %d", snap.TotalCorrections)
	}
	if snap.TotalTranscripts != 1 {
		t.Fatalf("expected 1 transcript, got %d", snap.TotalTranscripts)
	}
}

func TestRecorderFailedJob(t *testing.T) {
	recorder := newTestRecorder()

	job := recorder.StartJob("sermon-1")
	job.Finish(errors.New("transcription failed"))

	snap := recorder.Snapshot()
	if snap.FailedJobs != 1 {
		t.Fatalf("expected 1 failed job, got %d", snap.FailedJobs)
	}
	if snap.ActiveJobs != 0 {
		t.Fatalf("expected no active jobs, got %d", snap.ActiveJobs)
	}
}

func TestRecorderFinishIdempotent(t *testing.T) {
	recorder := newTestRecorder()

	job := recorder.StartJob("sermon-1")
	job.Finish(nil)
	job.Finish(errors.New("late error"))

	snap := recorder.Snapshot()
	if snap.ActiveJobs != 0 {
		t.Fatalf("double finish should not drive active jobs negative, got %d", snap.ActiveJobs)
	}
	if snap.FailedJobs != 0 {
		t.Fatalf("second finish must be ignored, got %d failed", snap.FailedJobs)
	}
}

func TestRecorderIgnoresNonPositiveCorrections(t *testing.T) {
	recorder := newTestRecorder()

	job := recorder.StartJob("sermon-1")
	job.RecordCorrections(0)
	job.RecordCorrections(-5)
	job.Finish(nil)

	if got := recorder.Snapshot().TotalCorrections; got != 0 {
		t.Fatalf("expected 0 corrections, got %d", got)
	}
}

func TestNilRecorderIsSafe(t *testing.T) {
	var recorder *Recorder

	job := recorder.StartJob("sermon-1")
	job.RecordChunk(0, 10)
	job.RecordCorrections(1)
	job.RecordTranscript()
	job.Finish(nil)

	if snap := recorder.Snapshot(); snap != (Snapshot{}) {
		t.Fatalf("nil recorder snapshot should be zero, got %+v", snap)
	}
}
