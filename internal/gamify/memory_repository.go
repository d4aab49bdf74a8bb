package gamify

import (
	"context"
	"sync"
)

// MemoryRepository is an in-memory Repository intended for local development
// and tests. Seed methods stand in for the platform writes that normally
// create progress documents and contribution records.
type MemoryRepository struct {
	mu            sync.RWMutex
	progress      map[string]Progress
	contributions map[string]ContributionCounts
}

// NewMemoryRepository returns an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		progress:      make(map[string]Progress),
		contributions: make(map[string]ContributionCounts),
	}
}

// SeedProgress stores a progress document, replacing any existing one.
func (r *MemoryRepository) SeedProgress(p Progress) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.progress[p.UserID] = cloneProgress(p)
}

// SeedContributions stores the contribution counts reported for a user.
func (r *MemoryRepository) SeedContributions(userID string, counts ContributionCounts) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.contributions[userID] = counts
}

func (r *MemoryRepository) GetProgress(_ context.Context, userID string) (*Progress, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.progress[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	clone := cloneProgress(p)
	return &clone, nil
}

func (r *MemoryRepository) MutateProgress(_ context.Context, userID string, mutate func(p *Progress) (*ProgressUpdate, error)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.progress[userID]
	if !ok {
		return ErrUserNotFound
	}

	// mutate sees a copy so an aborted transaction leaves no trace.
	working := cloneProgress(stored)
	update, err := mutate(&working)
	if err != nil || update == nil {
		return err
	}

	stored = cloneProgress(stored)
	applyUpdate(&stored, update)
	r.progress[userID] = stored
	return nil
}

func (r *MemoryRepository) CountContributions(_ context.Context, userID string) (ContributionCounts, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.contributions[userID], nil
}

func (r *MemoryRepository) OverwriteProgress(_ context.Context, userID string, rec RecomputedProgress) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.progress[userID]
	if !ok {
		return ErrUserNotFound
	}

	stored = cloneProgress(stored)
	stored.Experience = rec.Experience
	stored.Level = rec.Level
	stored.Badges = append([]string(nil), rec.Badges...)
	stored.Stats[StatReviews] = rec.Counts.Reviews
	stored.Stats[StatLists] = rec.Counts.Lists
	stored.Stats[StatClubPosts] = rec.Counts.ClubPosts
	stored.Stats[StatLikes] = rec.Counts.Likes
	r.progress[userID] = stored
	return nil
}

func applyUpdate(p *Progress, u *ProgressUpdate) {
	p.Experience = u.Experience
	p.Level = u.Level
	if u.Badges != nil {
		p.Badges = append([]string(nil), u.Badges...)
	}
	if u.Stat != "" {
		p.Stats[u.Stat] = u.StatValue
	}
}

func cloneProgress(p Progress) Progress {
	clone := p
	clone.Badges = append([]string(nil), p.Badges...)
	clone.Stats = make(map[string]int, len(p.Stats))
	for k, v := range p.Stats {
		clone.Stats[k] = v
	}
	return clone
}
