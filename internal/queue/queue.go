// Package queue buffers community slugs whose census data should be warmed in the
// background.
package queue

import (
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	ErrQueueFull   = errors.New("queue is full")
	ErrQueueClosed = errors.New("queue is closed")
)

// WarmQueue is an in-memory queue of community slugs. A slug already waiting is not
// queued twice.
type WarmQueue struct {
	items    chan string
	done     chan struct{}
	maxSize  int
	closed   bool
	pending  map[string]struct{}
	mu       sync.RWMutex
	wg       sync.WaitGroup
	logger   *logrus.Logger
	handlers []func(slug string) error
}

// NewWarmQueue creates a new queue with the specified buffer size
func NewWarmQueue(bufferSize int, logger *logrus.Logger) *WarmQueue {
	if logger == nil {
		logger = logrus.New()
	}
	return &WarmQueue{
		items:    make(chan string, bufferSize),
		done:     make(chan struct{}),
		maxSize:  bufferSize,
		pending:  make(map[string]struct{}),
		logger:   logger,
		handlers: make([]func(string) error, 0),
	}
}

// Push adds a slug to the queue without blocking
func (q *WarmQueue) Push(slug string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrQueueClosed
	}
	if _, ok := q.pending[slug]; ok {
		return nil
	}

	select {
	case q.items <- slug:
		q.pending[slug] = struct{}{}
		q.logger.WithField("slug", slug).Debug("Queued community for warming")
		return nil
	default:
		return ErrQueueFull
	}
}

// Subscribe adds a handler function that will be called for each slug
func (q *WarmQueue) Subscribe(handler func(slug string) error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handlers = append(q.handlers, handler)
}

// Start begins processing items in the queue
func (q *WarmQueue) Start() {
	q.wg.Add(1)
	go q.process()
}

func (q *WarmQueue) process() {
	defer q.wg.Done()
	for {
		select {
		case <-q.done:
			return
		case slug := <-q.items:
			q.handle(slug)
		}
	}
}

// handle sends the slug to all subscribed handlers
func (q *WarmQueue) handle(slug string) {
	q.mu.Lock()
	delete(q.pending, slug)
	handlers := q.handlers
	q.mu.Unlock()

	for _, handler := range handlers {
		if err := handler(slug); err != nil {
			q.logger.WithError(err).WithField("slug", slug).Error("Handler failed to process slug")
		}
	}
}

// Close stops the queue and prevents new items from being added. Slugs still waiting
// are dropped.
func (q *WarmQueue) Close() error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	close(q.done)
	q.mu.Unlock()

	q.wg.Wait()
	return nil
}

// Len returns the number of slugs waiting
func (q *WarmQueue) Len() int {
	return len(q.items)
}

// IsClosed returns whether the queue has been closed
func (q *WarmQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
