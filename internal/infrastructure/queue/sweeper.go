package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/bisafix/marketplace-api/internal/core/ports"
	"github.com/bisafix/marketplace-api/internal/pkg/metrics"
)

const (
	defaultWorkers = 2
	channelBuffer  = 128
)

// Sweeper deletes media objects that were uploaded but never attached to a
// profile. Each public id is routed to one worker by hash, so a repeated
// enqueue of the same object never races with itself.
type Sweeper struct {
	workers []chan string
	media   ports.MediaService
	log     zerolog.Logger
}

// NewSweeper creates a Sweeper with numWorkers workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewSweeper(numWorkers int, media ports.MediaService, log zerolog.Logger) *Sweeper {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	s := &Sweeper{
		workers: make([]chan string, numWorkers),
		media:   media,
		log:     log,
	}
	for i := range s.workers {
		s.workers[i] = make(chan string, channelBuffer)
	}
	return s
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (s *Sweeper) Start(ctx context.Context) {
	for i, ch := range s.workers {
		go s.runWorker(ctx, i, ch)
	}
}

// Enqueue schedules publicIDs for deletion. It never blocks: ids that do not
// fit in their worker's buffer are dropped and logged.
func (s *Sweeper) Enqueue(publicIDs ...string) {
	for _, id := range publicIDs {
		if id == "" {
			continue
		}
		idx := s.shardIndex(id)
		select {
		case s.workers[idx] <- id:
			metrics.OrphanQueueDepth.WithLabelValues(strconv.Itoa(idx)).Inc()
		default:
			metrics.OrphansDroppedTotal.Inc()
			s.log.Warn().Str("public_id", id).Int("worker_id", idx).Msg("sweeper queue full, orphan dropped")
		}
	}
}

// shardIndex maps a public id deterministically to a worker index.
func (s *Sweeper) shardIndex(publicID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(publicID))
	return int(h.Sum32() % uint32(len(s.workers)))
}

func (s *Sweeper) runWorker(ctx context.Context, id int, ch <-chan string) {
	depth := metrics.OrphanQueueDepth.WithLabelValues(strconv.Itoa(id))
	for {
		select {
		case <-ctx.Done():
			return
		case publicID, ok := <-ch:
			if !ok {
				return
			}
			depth.Dec()
			if err := s.media.Delete(ctx, publicID); err != nil {
				s.log.Error().Err(err).
					Str("public_id", publicID).
					Int("worker_id", id).
					Msg("orphan deletion failed")
			}
		}
	}
}
