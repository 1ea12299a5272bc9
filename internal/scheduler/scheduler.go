package scheduler

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// JobType represents the maintenance jobs the scheduler runs
type JobType int

const (
	JobTypePurge JobType = iota
	JobTypePrewarm
)

// String returns the string representation of a JobType
func (j JobType) String() string {
	switch j {
	case JobTypePurge:
		return "purge"
	case JobTypePrewarm:
		return "prewarm"
	default:
		return "unknown"
	}
}

// CachePurger drops cached census responses older than maxAge.
type CachePurger interface {
	PurgeExpiredResponses(ctx context.Context, maxAge time.Duration) (int64, error)
}

// Prewarmer loads demographics for every community.
type Prewarmer interface {
	Prewarm(ctx context.Context) (int, error)
}

// Scheduler periodically purges the census cache and prewarms demographics
type Scheduler struct {
	purger   CachePurger
	warmer   Prewarmer
	interval time.Duration
	maxAge   time.Duration
	logger   *logrus.Logger
	stopChan chan struct{}
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	jobMutex sync.Mutex // Ensures sequential job execution
}

// NewScheduler creates a new scheduler
func NewScheduler(purger CachePurger, warmer Prewarmer, interval, maxAge time.Duration, logger *logrus.Logger) *Scheduler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
		logger.SetLevel(logrus.InfoLevel)
	}
	if interval <= 0 {
		interval = time.Hour
	}

	return &Scheduler{
		purger:   purger,
		warmer:   warmer,
		interval: interval,
		maxAge:   maxAge,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Start runs the jobs once immediately and then on every interval
func (s *Scheduler) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.wg.Add(1)
	go s.runScheduler(ctx)
}

func (s *Scheduler) runScheduler(ctx context.Context) {
	defer s.wg.Done()

	s.logger.Info("Running startup maintenance jobs")
	s.RunOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce purges the cache and then prewarms demographics. Failures are logged.
func (s *Scheduler) RunOnce(ctx context.Context) {
	s.jobMutex.Lock()
	defer s.jobMutex.Unlock()

	if s.purger != nil && s.maxAge > 0 {
		start := time.Now()
		removed, err := s.purger.PurgeExpiredResponses(ctx, s.maxAge)
		if err != nil {
			s.logger.WithError(err).WithField("job_type", JobTypePurge.String()).Error("Maintenance job failed")
		} else {
			s.logger.WithFields(logrus.Fields{
				"job_type": JobTypePurge.String(),
				"removed":  removed,
				"duration": time.Since(start).String(),
			}).Info("Maintenance job completed successfully")
		}
	}

	if s.warmer != nil && ctx.Err() == nil {
		start := time.Now()
		warmed, err := s.warmer.Prewarm(ctx)
		if err != nil {
			s.logger.WithError(err).WithField("job_type", JobTypePrewarm.String()).Error("Maintenance job failed")
			return
		}
		s.logger.WithFields(logrus.Fields{
			"job_type":    JobTypePrewarm.String(),
			"communities": warmed,
			"duration":    time.Since(start).String(),
		}).Info("Maintenance job completed successfully")
	}
}

// Stop gracefully stops the scheduler, cancelling a run in progress
func (s *Scheduler) Stop() {
	close(s.stopChan)
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}
