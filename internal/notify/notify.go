package notify

import (
	"context"
	"sync"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
)

// Kind labels a notification record.
type Kind string

const (
	KindNewFollower Kind = "new_follower"
	KindReviewLiked Kind = "review_liked"
)

// Notification is the persisted record shown in a user's notification feed.
type Notification struct {
	ID        string    `json:"id" firestore:"id"`
	UserID    string    `json:"user_id" firestore:"user_id"`
	Kind      Kind      `json:"kind" firestore:"kind"`
	ActorID   string    `json:"actor_id" firestore:"actor_id"`
	CreatedAt time.Time `json:"created_at" firestore:"created_at"`
	Read      bool      `json:"read" firestore:"read"`
}

// Recorder persists notification records.
type Recorder interface {
	Record(ctx context.Context, n Notification) error
}

const notificationsCollection = "notifications"

func stamp(n *Notification) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
}

type firestoreRecorder struct {
	client *firestore.Client
}

// NewFirestoreRecorder creates a Firestore-backed notification recorder.
func NewFirestoreRecorder(client *firestore.Client) Recorder {
	return &firestoreRecorder{client: client}
}

func (r *firestoreRecorder) Record(ctx context.Context, n Notification) error {
	stamp(&n)
	_, err := r.client.Collection(notificationsCollection).Doc(n.ID).Create(ctx, n)
	return err
}

// MemoryRecorder collects notifications in memory for local development and tests.
type MemoryRecorder struct {
	mu      sync.Mutex
	records []Notification
}

// NewMemoryRecorder returns an empty in-memory recorder.
func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{}
}

func (r *MemoryRecorder) Record(_ context.Context, n Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stamp(&n)
	r.records = append(r.records, n)
	return nil
}

// All returns a copy of every recorded notification.
func (r *MemoryRecorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.records...)
}
