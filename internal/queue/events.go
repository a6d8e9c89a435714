// Package queue delivers background jobs to RabbitMQ.  The server only
// produces jobs; dedicated workers consume them out of process.
package queue

// Queue names.  Both queues are declared durable by the publisher so an
// enqueue from a fresh process works before any worker has started.
const (
	ThumbnailQueue    = "thumbnail.generate"
	WelcomeEmailQueue = "email.welcome"
)

// ThumbnailJob asks a worker to render thumbnails for an uploaded image.
type ThumbnailJob struct {
	UserID string `json:"userId"`
	FileID string `json:"fileId"`
}

// WelcomeEmailJob asks a worker to send the signup email for a new user.
type WelcomeEmailJob struct {
	UserID string `json:"userId"`
}
