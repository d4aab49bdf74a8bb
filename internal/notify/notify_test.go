package notify

import (
	"context"
	"testing"
)

func TestRecordAssignsIDAndTimestamp(t *testing.T) {
	recorder := NewMemoryRecorder()

	notices := []Notification{
		{UserID: "user-1", Kind: KindNewFollower, ActorID: "user-2"},
		{UserID: "user-1", Kind: KindReviewLiked, ActorID: "user-3"},
	}
	for _, n := range notices {
		if err := recorder.Record(context.Background(), n); err != nil {
			t.Fatalf("Record returned error: %v", err)
		}
	}

	got := recorder.All()
	if len(got) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(got))
	}
	for i, n := range got {
		if n.ID == "" {
			t.Fatalf("notification %d has no id", i)
		}
		if n.CreatedAt.IsZero() {
			t.Fatalf("notification %d has no timestamp", i)
		}
		if n.UserID != "user-1" || n.Kind != notices[i].Kind || n.ActorID != notices[i].ActorID {
			t.Fatalf("notification %d fields not preserved: %+v", i, n)
		}
	}
	if got[0].ID == got[1].ID {
		t.Fatalf("notification ids must be unique, both are %s", got[0].ID)
	}
}

func TestRecordKeepsCallerSuppliedID(t *testing.T) {
	recorder := NewMemoryRecorder()

	if err := recorder.Record(context.Background(), Notification{ID: "fixed-id", UserID: "user-1", Kind: KindNewFollower}); err != nil {
		t.Fatalf("Record returned error: %v", err)
	}

	got := recorder.All()
	if len(got) != 1 || got[0].ID != "fixed-id" {
		t.Fatalf("caller-supplied id not preserved: %+v", got)
	}
}
