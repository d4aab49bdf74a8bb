package gamify

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestMemoryRepositoryPartialUpdate(t *testing.T) {
	repo := NewMemoryRepository()
	repo.SeedProgress(Progress{
		UserID:     "user-1",
		Experience: 50,
		Level:      1,
		Badges:     []string{"first_review"},
		Stats:      map[string]int{StatReviews: 1, StatComments: 3},
	})

	err := repo.MutateProgress(context.Background(), "user-1", func(p *Progress) (*ProgressUpdate, error) {
		return &ProgressUpdate{
			Experience: p.Experience + 10,
			Level:      1,
			Stat:       StatComments,
			StatValue:  p.Stats[StatComments] + 1,
		}, nil
	})
	if err != nil {
		t.Fatalf("MutateProgress returned error: %v", err)
	}

	p, err := repo.GetProgress(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("GetProgress returned error: %v", err)
	}
	if p.Experience != 60 || p.Stats[StatComments] != 4 {
		t.Fatalf("listed fields not applied: %+v", p)
	}
	// A nil Badges slice and untouched stats must survive the write.
	if !reflect.DeepEqual(p.Badges, []string{"first_review"}) {
		t.Fatalf("badges were overwritten: %v", p.Badges)
	}
	if p.Stats[StatReviews] != 1 {
		t.Fatalf("unrelated counter changed: %v", p.Stats)
	}
}

func TestMemoryRepositoryAbortedMutationLeavesNoTrace(t *testing.T) {
	repo := NewMemoryRepository()
	repo.SeedProgress(Progress{
		UserID:     "user-1",
		Experience: 50,
		Stats:      map[string]int{StatReviews: 1},
	})

	wantErr := errors.New("abort")
	err := repo.MutateProgress(context.Background(), "user-1", func(p *Progress) (*ProgressUpdate, error) {
		p.Experience = 9000
		p.Stats[StatReviews] = 9000
		return nil, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected %v, got %v", wantErr, err)
	}

	p, err := repo.GetProgress(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("GetProgress returned error: %v", err)
	}
	if p.Experience != 50 || p.Stats[StatReviews] != 1 {
		t.Fatalf("aborted mutation leaked: %+v", p)
	}
}

func TestMemoryRepositoryMissingUser(t *testing.T) {
	repo := NewMemoryRepository()

	if _, err := repo.GetProgress(context.Background(), "ghost"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	err := repo.MutateProgress(context.Background(), "ghost", func(p *Progress) (*ProgressUpdate, error) {
		t.Fatal("mutate must not run for a missing user")
		return nil, nil
	})
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if err := repo.OverwriteProgress(context.Background(), "ghost", RecomputedProgress{}); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
