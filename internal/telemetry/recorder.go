package telemetry

import (
	"log/slog"
	"sync/atomic"
	"time"
)

// Recorder tracks pipeline-level telemetry across processing jobs.
type Recorder struct {
	log *slog.Logger

	totalJobs        atomic.Uint64
	activeJobs       atomic.Int64
	failedJobs       atomic.Uint64
	totalChunks      atomic.Uint64
	totalSeconds     atomic.Uint64
	totalCorrections atomic.Uint64
	totalTranscripts atomic.Uint64
}

// Snapshot captures cumulative metrics recorded so far.
type Snapshot struct {
	TotalJobs        uint64
	ActiveJobs       int64
	FailedJobs       uint64
	TotalChunks      uint64
	TotalSeconds     uint64
	TotalCorrections uint64
	TotalTranscripts uint64
}

// NewRecorder constructs a Recorder using the provided logger.
func NewRecorder(logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{
		log: logger.With("component", "telemetry.Recorder"),
	}
}

// Snapshot returns an immutable view of the recorder totals.
func (r *Recorder) Snapshot() Snapshot {
	if r == nil {
		return Snapshot{}
	}
	return Snapshot{
		TotalJobs:        r.totalJobs.Load(),
		ActiveJobs:       r.activeJobs.Load(),
		FailedJobs:       r.failedJobs.Load(),
		TotalChunks:      r.totalChunks.Load(),
		TotalSeconds:     r.totalSeconds.Load(),
		TotalCorrections: r.totalCorrections.Load(),
		TotalTranscripts: r.totalTranscripts.Load(),
	}
}

// JobMetrics accumulates statistics for a single sermon processing job.
type JobMetrics struct {
	recorder *Recorder
	log      *slog.Logger

	sermonID string

	started     time.Time
	chunks      int
	seconds     float64
	corrections int
	closed      atomic.Bool
}

// StartJob initialises a JobMetrics instance bound to the recorder.
func (r *Recorder) StartJob(sermonID string) *JobMetrics {
	if r == nil {
		return nil
	}

	r.totalJobs.Add(1)
	r.activeJobs.Add(1)

	return &JobMetrics{
		recorder: r,
		log:      r.log.With("sermon_id", sermonID),
		sermonID: sermonID,
		started:  time.Now(),
	}
}

// RecordChunk updates counters for one transcribed chunk.
func (j *JobMetrics) RecordChunk(chunkIndex int, durationSeconds float64) {
	if j == nil {
		return
	}
	j.chunks++
	j.seconds += durationSeconds
	j.recorder.totalChunks.Add(1)
	j.recorder.totalSeconds.Add(uint64(durationSeconds))

	j.log.Debug("chunk transcribed",
		"chunk_index", chunkIndex,
		"duration_seconds", durationSeconds,
	)
}

// RecordCorrections counts term corrections applied to a chunk transcript.
func (j *JobMetrics) RecordCorrections(count int) {
	if j == nil || count <= 0 {
		return
	}
	j.corrections += count
	j.recorder.totalCorrections.Add(uint64(count))
}

// RecordTranscript counts a persisted transcript.
func (j *JobMetrics) RecordTranscript() {
	if j == nil {
		return
	}
	j.recorder.totalTranscripts.Add(1)
}

// Finish logs a summary and updates active job counters.
func (j *JobMetrics) Finish(err error) {
	if j == nil {
		return
	}
	if !j.closed.CompareAndSwap(false, true) {
		return
	}

	defer j.recorder.activeJobs.Add(-1)

	duration := time.Since(j.started)
	args := []any{
		"duration_ms", duration.Milliseconds(),
		"chunks", j.chunks,
		"audio_seconds", j.seconds,
		"corrections", j.corrections,
	}

	if err != nil {
		j.recorder.failedJobs.Add(1)
		j.log.Error("job completed with error", append(args, "error", err)...)
		return
	}

	j.log.Info("job completed", args...)
}
