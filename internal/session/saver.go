package session

import (
	"context"
	"log"
	"sync"
	"time"

	"bricks-studio/internal/middleware"
	"bricks-studio/internal/model"
	"bricks-studio/internal/repository"
)

// SaveState describes where the autosave queue currently stands
type SaveState string

const (
	SaveStateIdle     SaveState = "idle"
	SaveStatePending  SaveState = "pending"
	SaveStateSaved    SaveState = "saved"
	SaveStateRetrying SaveState = "retrying"
)

const (
	saveAttemptTimeout = 10 * time.Second
	saveBackoffBase    = 500 * time.Millisecond
	saveBackoffMax     = 30 * time.Second
)

// saver serializes autosaves for one session: a single-slot pending snapshot
// and at most one in-flight store write. A new snapshot supersedes whatever
// is waiting, so the store always converges on the latest edit and two
// writes never interleave. Failed writes retry with capped backoff; editing
// is never blocked on persistence.
type saver struct {
	repo repository.ProjectRepository

	mu       sync.Mutex
	pending  *model.Project
	inFlight bool
	closed   bool
	state    SaveState
	lastErr  error

	wake chan struct{}
	quit chan struct{}
	done chan struct{}
	idle *sync.Cond
}

func newSaver(repo repository.ProjectRepository) *saver {
	s := &saver{
		repo:  repo,
		state: SaveStateIdle,
		wake:  make(chan struct{}, 1),
		quit:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	s.idle = sync.NewCond(&s.mu)
	go s.loop()
	return s
}

// Enqueue schedules a snapshot for persistence, replacing any snapshot that
// has not been written yet.
func (s *saver) Enqueue(snapshot *model.Project) {
	s.mu.Lock()
	s.pending = snapshot
	s.state = SaveStatePending
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// State returns the current save state and the last persistence error
func (s *saver) State() (SaveState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, s.lastErr
}

// Flush blocks until the queue has drained or the context is cancelled
func (s *saver) Flush(ctx context.Context) error {
	drained := make(chan struct{})
	go func() {
		s.mu.Lock()
		for !s.closed && (s.pending != nil || s.inFlight) {
			s.idle.Wait()
		}
		s.mu.Unlock()
		close(drained)
	}()

	select {
	case <-drained:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the save loop. Pending work is attempted once more before
// exit, and any waiter still parked in Flush is released.
func (s *saver) Close() {
	close(s.quit)
	<-s.done

	s.mu.Lock()
	s.closed = true
	s.idle.Broadcast()
	s.mu.Unlock()
}

func (s *saver) loop() {
	defer close(s.done)

	for {
		select {
		case <-s.wake:
			s.drain()
		case <-s.quit:
			s.drain()
			return
		}
	}
}

// drain writes pending snapshots until none remain. Each failed attempt
// backs off and re-reads the slot, so a newer snapshot supersedes the one
// that failed.
func (s *saver) drain() {
	backoff := saveBackoffBase

	for {
		s.mu.Lock()
		snapshot := s.pending
		s.pending = nil
		if snapshot == nil {
			if s.state == SaveStatePending || s.state == SaveStateRetrying {
				s.state = SaveStateSaved
			}
			s.idle.Broadcast()
			s.mu.Unlock()
			return
		}
		s.inFlight = true
		s.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), saveAttemptTimeout)
		started := time.Now()
		err := s.repo.Save(ctx, snapshot)
		cancel()
		if err != nil {
			middleware.RecordProjectSave("error", time.Since(started))
			middleware.RecordSaveRetry()
		} else {
			middleware.RecordProjectSave("success", time.Since(started))
		}

		s.mu.Lock()
		s.inFlight = false
		if err != nil {
			s.lastErr = err
			s.state = SaveStateRetrying
			// Keep the failed snapshot only if no newer one arrived meanwhile
			if s.pending == nil {
				s.pending = snapshot
			}
			s.mu.Unlock()

			log.Printf("project save failed, retrying in %s: %v", backoff, err)
			select {
			case <-time.After(backoff):
			case <-s.quit:
				return
			}
			if backoff *= 2; backoff > saveBackoffMax {
				backoff = saveBackoffMax
			}
			continue
		}

		s.lastErr = nil
		s.state = SaveStateSaved
		backoff = saveBackoffBase
		s.idle.Broadcast()
		s.mu.Unlock()
	}
}
