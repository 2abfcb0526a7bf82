package models

import "time"

// Message is an opaque envelope waiting in a recipient's inbox.
//
// Body is empty when the envelope was offloaded to object storage; BlobKey
// then names the object.
type Message struct {
	ID          string
	RecipientID string
	Sender      string
	Channel     string
	Body        string
	BlobKey     string
	CreatedAt   time.Time
}
