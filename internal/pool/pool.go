package pool

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/joshu-sajeev/recolour/internal/job"
	"github.com/joshu-sajeev/recolour/internal/models"
	"github.com/joshu-sajeev/recolour/internal/partner"
)

// Runner executes one claimed job. *worker.Executor satisfies it.
type Runner interface {
	Execute(ctx context.Context, j *models.Job) error
}

type Options struct {
	PollInterval    time.Duration
	StaleAfter      time.Duration
	JanitorInterval time.Duration
}

// Scheduler polls the job store and runs claimed jobs, never holding more
// than a partner's concurrency in flight for that partner.
type Scheduler struct {
	partners partner.PartnerRepoInterface
	jobs     job.JobRepoInterface
	runner   Runner
	opts     Options

	mu       sync.Mutex
	capacity map[string]int
	active   map[string]int
	order    []string
	cancel   context.CancelFunc
	loops    sync.WaitGroup
	inflight sync.WaitGroup
}

func NewScheduler(partners partner.PartnerRepoInterface, jobs job.JobRepoInterface, runner Runner, opts Options) *Scheduler {
	if opts.PollInterval <= 0 {
		opts.PollInterval = 500 * time.Millisecond
	}
	return &Scheduler{
		partners: partners,
		jobs:     jobs,
		runner:   runner,
		opts:     opts,
		active:   map[string]int{},
	}
}

// Start loads the partner capacities and launches the poll loop. Calling
// Start on a running scheduler is a no-op.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		return nil
	}

	partners, err := s.partners.List(ctx)
	if err != nil {
		return fmt.Errorf("load partners: %w", err)
	}

	s.capacity = make(map[string]int, len(partners))
	s.order = s.order[:0]
	for _, p := range partners {
		s.capacity[p.ID] = p.Concurrency
		s.order = append(s.order, p.ID)
	}

	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	// in-flight jobs outlive Stop
	runCtx := context.WithoutCancel(ctx)

	s.loops.Add(1)
	go s.pollLoop(loopCtx, runCtx)

	if s.opts.StaleAfter > 0 && s.opts.JanitorInterval > 0 {
		s.loops.Add(1)
		go s.janitor(loopCtx)
	}

	log.Printf("[Scheduler] started with %d partners, polling every %v", len(partners), s.opts.PollInterval)
	return nil
}

func (s *Scheduler) pollLoop(ctx, runCtx context.Context) {
	defer s.loops.Done()

	ticker := time.NewTicker(s.opts.PollInterval)
	defer ticker.Stop()

	for {
		s.poll(ctx, runCtx)

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return
		}
	}
}

// poll claims as many jobs as each partner has free slots for.
func (s *Scheduler) poll(ctx, runCtx context.Context) {
	for _, partnerID := range s.partnerIDs() {
		for s.reserve(partnerID) {
			j, err := s.jobs.ClaimNextForPartner(ctx, partnerID)
			if err != nil {
				s.release(partnerID)
				if !errors.Is(err, context.Canceled) {
					log.Printf("[Scheduler] claim for partner %s failed: %v", partnerID, err)
				}
				break
			}
			if j == nil {
				s.release(partnerID)
				break
			}

			s.inflight.Add(1)
			go s.run(runCtx, partnerID, j)
		}
	}
}

func (s *Scheduler) run(ctx context.Context, partnerID string, j *models.Job) {
	defer s.inflight.Done()
	defer s.release(partnerID)

	if err := s.runner.Execute(ctx, j); err != nil {
		log.Printf("[Scheduler] job %s: %v", j.ID, err)
	}
}

// janitor requeues jobs left running by a process that died mid-attempt.
func (s *Scheduler) janitor(ctx context.Context) {
	defer s.loops.Done()

	ticker := time.NewTicker(s.opts.JanitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			n, err := s.jobs.RequeueStale(ctx, s.opts.StaleAfter)
			if err != nil {
				if !errors.Is(err, context.Canceled) {
					log.Printf("[Scheduler] requeue stale jobs failed: %v", err)
				}
				continue
			}
			if n > 0 {
				log.Printf("[Scheduler] recovered %d stale jobs", n)
			}
		case <-ctx.Done():
			return
		}
	}
}

func (s *Scheduler) partnerIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.order...)
}

// reserve takes a slot for partnerID if one is free. The slot is held
// across the claim so that capacity can never be over-committed.
func (s *Scheduler) reserve(partnerID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active[partnerID] >= s.capacity[partnerID] {
		return false
	}
	s.active[partnerID]++
	return true
}

func (s *Scheduler) release(partnerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active[partnerID] > 0 {
		s.active[partnerID]--
	}
}

// Active returns the number of jobs currently executing for partnerID.
func (s *Scheduler) Active(partnerID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active[partnerID]
}

// Stop halts polling and waits for in-flight jobs to finish or for ctx
// to expire, whichever comes first. Jobs are never interrupted.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if cancel == nil {
		return nil
	}

	cancel()
	s.loops.Wait()

	done := make(chan struct{})
	go func() {
		s.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Println("[Scheduler] stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("wait for in-flight jobs: %w", ctx.Err())
	}
}
