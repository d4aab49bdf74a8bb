package gamify

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	progressCollection = "progress"
	reviewsCollection  = "reviews"
	listsCollection    = "lists"
	// Club posts live in per-club subcollections (clubs/{clubId}/posts) and
	// are counted with a collection group query.
	postsCollectionGroup = "posts"
)

type firestoreRepository struct {
	client *firestore.Client
}

// NewFirestoreRepository creates a new Firestore repository
func NewFirestoreRepository(client *firestore.Client) Repository {
	return &firestoreRepository{client: client}
}

func (r *firestoreRepository) progressRef(userID string) *firestore.DocumentRef {
	return r.client.Collection(progressCollection).Doc(userID)
}

func (r *firestoreRepository) GetProgress(ctx context.Context, userID string) (*Progress, error) {
	doc, err := r.progressRef(userID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	var p Progress
	if err := doc.DataTo(&p); err != nil {
		return nil, fmt.Errorf("unmarshal progress: %w", err)
	}
	p.UserID = userID
	if p.Stats == nil {
		p.Stats = make(map[string]int)
	}
	return &p, nil
}

// MutateProgress runs mutate inside a Firestore transaction and writes back
// only the fields the returned update lists. Firestore retries the whole
// callback on conflicting concurrent writes, so mutate must be free of side
// effects outside the given document.
func (r *firestoreRepository) MutateProgress(ctx context.Context, userID string, mutate func(p *Progress) (*ProgressUpdate, error)) error {
	ref := r.progressRef(userID)
	return r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if status.Code(err) == codes.NotFound {
			return ErrUserNotFound
		}
		if err != nil {
			return err
		}

		var p Progress
		if err := doc.DataTo(&p); err != nil {
			return fmt.Errorf("unmarshal progress: %w", err)
		}
		p.UserID = userID
		if p.Stats == nil {
			p.Stats = make(map[string]int)
		}

		update, err := mutate(&p)
		if err != nil || update == nil {
			return err
		}
		return tx.Update(ref, updatePaths(update))
	})
}

func updatePaths(u *ProgressUpdate) []firestore.Update {
	updates := []firestore.Update{
		{Path: "experience", Value: u.Experience},
		{Path: "level", Value: u.Level},
	}
	if u.Badges != nil {
		updates = append(updates, firestore.Update{Path: "badges", Value: u.Badges})
	}
	if u.Stat != "" {
		updates = append(updates, firestore.Update{Path: "stats." + u.Stat, Value: u.StatValue})
	}
	return updates
}

func (r *firestoreRepository) CountContributions(ctx context.Context, userID string) (ContributionCounts, error) {
	var counts ContributionCounts

	g, gctx := errgroup.WithContext(ctx)

	// Reviews and the likes they received come from a single scan.
	g.Go(func() error {
		iter := r.client.Collection(reviewsCollection).
			Where("user_id", "==", userID).
			Select("likes").
			Documents(gctx)
		defer iter.Stop()

		for {
			doc, err := iter.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				return fmt.Errorf("scan reviews: %w", err)
			}

			var review struct {
				Likes []string `firestore:"likes"`
			}
			if err := doc.DataTo(&review); err != nil {
				continue
			}
			counts.Reviews++
			counts.Likes += len(review.Likes)
		}
		return nil
	})

	g.Go(func() error {
		n, err := r.countMatches(gctx, r.client.Collection(listsCollection).Query, userID)
		if err != nil {
			return fmt.Errorf("count lists: %w", err)
		}
		counts.Lists = n
		return nil
	})

	g.Go(func() error {
		n, err := r.countMatches(gctx, r.client.CollectionGroup(postsCollectionGroup).Query, userID)
		if err != nil {
			return fmt.Errorf("count club posts: %w", err)
		}
		counts.ClubPosts = n
		return nil
	})

	if err := g.Wait(); err != nil {
		return ContributionCounts{}, err
	}
	return counts, nil
}

func (r *firestoreRepository) countMatches(ctx context.Context, q firestore.Query, userID string) (int, error) {
	iter := q.Where("user_id", "==", userID).Select().Documents(ctx)
	defer iter.Stop()

	n := 0
	for {
		_, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return 0, err
		}
		n++
	}
	return n, nil
}

// OverwriteProgress writes the recomputed state in one transaction. The
// followers, random_picks, and comments counters are left untouched.
func (r *firestoreRepository) OverwriteProgress(ctx context.Context, userID string, rec RecomputedProgress) error {
	ref := r.progressRef(userID)
	return r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(ref); status.Code(err) == codes.NotFound {
			return ErrUserNotFound
		} else if err != nil {
			return err
		}

		return tx.Update(ref, []firestore.Update{
			{Path: "experience", Value: rec.Experience},
			{Path: "level", Value: rec.Level},
			{Path: "badges", Value: rec.Badges},
			{Path: "stats." + StatReviews, Value: rec.Counts.Reviews},
			{Path: "stats." + StatLists, Value: rec.Counts.Lists},
			{Path: "stats." + StatClubPosts, Value: rec.Counts.ClubPosts},
			{Path: "stats." + StatLikes, Value: rec.Counts.Likes},
		})
	})
}
