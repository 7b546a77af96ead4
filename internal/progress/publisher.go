package progress

import (
	"context"
	"log/slog"
	"slices"
	"sync"
)

// subscriberBuffer bounds each subscriber's unread backlog. A subscriber that
// falls further behind misses intermediate updates rather than blocking the
// publisher or its peers.
const subscriberBuffer = 16

type subscriber struct {
	ch     chan Update
	cancel context.CancelFunc
}

// Publisher broadcasts progress updates per sermon id. Every subscriber owns
// an independent channel, so one slow consumer never delays another. All
// methods are safe for concurrent use.
type Publisher struct {
	log *slog.Logger

	mu   sync.Mutex
	subs map[string]map[*subscriber]struct{}
}

// NewPublisher returns an empty Publisher.
func NewPublisher(logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		log:  logger.With("component", "progress.Publisher"),
		subs: make(map[string]map[*subscriber]struct{}),
	}
}

// Subscribe registers a new subscriber for sermonID and returns its update
// channel. The channel closes when the sermon's processing completes or ctx
// is cancelled; a cancelled subscriber is removed from the registry and
// receives no further updates.
func (p *Publisher) Subscribe(ctx context.Context, sermonID string) <-chan Update {
	subCtx, cancel := context.WithCancel(ctx)
	sub := &subscriber{
		ch:     make(chan Update, subscriberBuffer),
		cancel: cancel,
	}

	p.mu.Lock()
	set, ok := p.subs[sermonID]
	if !ok {
		set = make(map[*subscriber]struct{})
		p.subs[sermonID] = set
	}
	set[sub] = struct{}{}
	p.mu.Unlock()

	go func() {
		<-subCtx.Done()
		p.remove(sermonID, sub)
	}()

	return sub.ch
}

// Publish delivers one update to every active subscriber for sermonID. The
// job's chunk statuses are snapshotted here, so the caller may keep mutating
// its own slice without altering updates already in flight. Publishing with
// no subscribers is a no-op.
func (p *Publisher) Publish(sermonID string, job Job, progress float64) {
	update := Update{Job: snapshotJob(job), Progress: progress}

	p.mu.Lock()
	defer p.mu.Unlock()

	for sub := range p.subs[sermonID] {
		select {
		case sub.ch <- update:
		default:
			p.log.Warn("subscriber backlog full, dropping update",
				"sermon_id", sermonID,
				"progress", progress,
			)
		}
	}
}

// Complete closes every subscriber channel for sermonID without emitting
// further values. Completing an id with no subscribers is a no-op.
func (p *Publisher) Complete(sermonID string) {
	p.mu.Lock()
	set := p.subs[sermonID]
	delete(p.subs, sermonID)
	p.mu.Unlock()

	for sub := range set {
		sub.cancel()
		close(sub.ch)
	}
}

// CompleteWithError emits exactly one final update carrying the failed job at
// progress 1.0, then closes every subscriber channel for sermonID.
func (p *Publisher) CompleteWithError(sermonID string, job Job) {
	p.mu.Lock()
	set := p.subs[sermonID]
	delete(p.subs, sermonID)
	p.mu.Unlock()

	final := Update{Job: snapshotJob(job), Progress: 1.0}
	for sub := range set {
		select {
		case sub.ch <- final:
		default:
		}
		sub.cancel()
		close(sub.ch)
	}
}

// SubscriptionCount reports the live subscriber count for sermonID.
func (p *Publisher) SubscriptionCount(sermonID string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.subs[sermonID])
}

// TotalSubscriptionCount reports the live subscriber count across all sermon
// ids.
func (p *Publisher) TotalSubscriptionCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	total := 0
	for _, set := range p.subs {
		total += len(set)
	}
	return total
}

// snapshotJob copies job so a delivered update stays fixed at its published
// state even while the caller mutates the chunk statuses in place.
func snapshotJob(job Job) Job {
	job.ChunkStatuses = slices.Clone(job.ChunkStatuses)
	return job
}

// remove deregisters a subscriber. Safe to call after Complete closed the
// channel already; in that case the id is gone from the registry and there is
// nothing to do.
func (p *Publisher) remove(sermonID string, sub *subscriber) {
	p.mu.Lock()
	defer p.mu.Unlock()

	set, ok := p.subs[sermonID]
	if !ok {
		return
	}
	if _, ok := set[sub]; !ok {
		return
	}
	delete(set, sub)
	if len(set) == 0 {
		delete(p.subs, sermonID)
	}
	close(sub.ch)
}
