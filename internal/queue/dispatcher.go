package queue

import (
	"context"
	"log"
	"sync"
	"time"
)

// publishTimeout bounds a single broker publish so a slow broker cannot
// wedge the worker goroutine.
const publishTimeout = 10 * time.Second

type job struct {
	queue   string
	payload any
}

// Dispatcher hands jobs to the broker off the request path.  Enqueue
// operations never block and never fail the caller: jobs go into a
// bounded channel drained by a single worker goroutine, and when the
// buffer is full the job is dropped with a log line.
type Dispatcher struct {
	publish Publisher
	jobs    chan job
	done    chan struct{}

	mu     sync.Mutex
	closed bool
}

// NewDispatcher starts the worker goroutine.  buffer is the number of
// jobs that may be pending before further enqueues are dropped.
func NewDispatcher(publish Publisher, buffer int) *Dispatcher {
	if buffer < 1 {
		buffer = 1
	}
	d := &Dispatcher{
		publish: publish,
		jobs:    make(chan job, buffer),
		done:    make(chan struct{}),
	}
	go d.run()
	return d
}

// EnqueueThumbnail schedules thumbnail generation for an uploaded image.
func (d *Dispatcher) EnqueueThumbnail(userID, fileID string) {
	d.enqueue(ThumbnailQueue, ThumbnailJob{UserID: userID, FileID: fileID})
}

// EnqueueWelcomeEmail schedules the signup email for a new user.
func (d *Dispatcher) EnqueueWelcomeEmail(userID string) {
	d.enqueue(WelcomeEmailQueue, WelcomeEmailJob{UserID: userID})
}

func (d *Dispatcher) enqueue(queueName string, payload any) {
	// The lock orders enqueues against Close so a late job is dropped
	// instead of hitting a closed channel.
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		log.Printf("dispatcher: closed, dropping job for %s", queueName)
		return
	}
	select {
	case d.jobs <- job{queue: queueName, payload: payload}:
	default:
		log.Printf("dispatcher: buffer full, dropping job for %s", queueName)
	}
}

// Close stops accepting jobs, drains the buffer and waits for the worker
// to finish.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.jobs)
	}
	d.mu.Unlock()
	<-d.done
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for j := range d.jobs {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		if err := d.publish(ctx, j.queue, j.payload); err != nil {
			// Fire-and-forget: the upload or signup already succeeded.
			log.Printf("dispatcher: publish to %s failed: %v", j.queue, err)
		}
		cancel()
	}
}
