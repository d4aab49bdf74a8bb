package gamify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

type service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new scoring service.
func NewService(repo Repository, logger *slog.Logger) Service {
	return &service{repo: repo, logger: logger}
}

// Award applies one user action to the user's progress document inside a
// single atomic transaction: experience, level, the action's stat counter,
// and badge tiers all move together or not at all. Action kinds without a
// configured rule are ignored, as is a missing progress document (the user
// may have been deleted between the event firing and processing). Counter
// increments are not deduplicated; redelivered events double-count.
func (s *service) Award(ctx context.Context, action Action) error {
	if action.UserID == "" {
		return ErrMissingUserID
	}
	rule, ok := actionRules[action.Kind]
	if !ok {
		// Unknown kinds are not an error so new platform actions can ship
		// before a point value exists for them.
		return nil
	}

	err := s.repo.MutateProgress(ctx, action.UserID, func(p *Progress) (*ProgressUpdate, error) {
		update := &ProgressUpdate{Experience: p.Experience + rule.Points}

		badges := p.Badges
		badgesChanged := false

		if rule.Stat != "" {
			update.Stat = rule.Stat
			update.StatValue = p.Stats[rule.Stat] + 1
		}
		if rule.Family != "" {
			// The family is evaluated against the freshly incremented counter.
			next, changed := Evolve(badges, update.StatValue, familyTiers[rule.Family])
			if changed {
				badges = next
				badgesChanged = true
			}
		}
		if action.Grant != "" && !containsBadge(badges, action.Grant) {
			badges = append(append([]string(nil), badges...), action.Grant)
			badgesChanged = true
		}
		if badgesChanged {
			update.Badges = badges
		}

		update.Level = LevelForXP(update.Experience)
		return update, nil
	})
	if errors.Is(err, ErrUserNotFound) {
		return nil
	}
	if err != nil {
		s.logger.Error("award failed",
			"user_id", action.UserID,
			"action", string(action.Kind),
			"error", err)
		return fmt.Errorf("award %s for user %s: %w", action.Kind, action.UserID, err)
	}
	return nil
}

// Recompute rebuilds the user's progress from source aggregates. Reviews,
// lists, club posts, and likes received are recounted from their collections;
// followers and random picks are trusted as stored (they have no recountable
// source); comments cannot be recounted and contribute nothing. Badges are
// re-derived from an empty set, so tiers reflect the fresh counts and any
// badge not derivable from a count (contextual grants) is dropped. The
// incremental award path preserves such badges; this asymmetry is deliberate:
// a recompute is ground truth from counts.
func (s *service) Recompute(ctx context.Context, userID string) (RecomputeResult, error) {
	if userID == "" {
		return RecomputeResult{}, ErrMissingUserID
	}

	var (
		current *Progress
		counts  ContributionCounts
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		p, err := s.repo.GetProgress(gctx, userID)
		if err != nil {
			return err
		}
		current = p
		return nil
	})

	g.Go(func() error {
		c, err := s.repo.CountContributions(gctx, userID)
		if err != nil {
			return err
		}
		counts = c
		return nil
	})

	if err := g.Wait(); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return RecomputeResult{}, err
		}
		return RecomputeResult{}, fmt.Errorf("recompute aggregation for user %s: %w", userID, err)
	}

	followers := current.Stats[StatFollowers]
	randomPicks := current.Stats[StatRandomPicks]

	xp := counts.Reviews*actionRules[ActionReview].Points +
		counts.Lists*actionRules[ActionList].Points +
		counts.ClubPosts*actionRules[ActionClubPost].Points +
		counts.Likes*actionRules[ActionLike].Points +
		followers*actionRules[ActionFollower].Points +
		randomPicks*actionRules[ActionRandomPick].Points

	badges := []string{}
	badges, _ = Evolve(badges, counts.Reviews, criticTiers)
	badges, _ = Evolve(badges, counts.Likes, popularTiers)
	badges, _ = Evolve(badges, counts.Lists, marathonTiers)
	badges, _ = Evolve(badges, followers, socialTiers)
	badges, _ = Evolve(badges, counts.ClubPosts, communityTiers)

	rec := RecomputedProgress{
		Experience: xp,
		Level:      LevelForXP(xp),
		Badges:     badges,
		Counts:     counts,
	}
	if err := s.repo.OverwriteProgress(ctx, userID, rec); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return RecomputeResult{}, err
		}
		return RecomputeResult{}, fmt.Errorf("recompute write for user %s: %w", userID, err)
	}

	return RecomputeResult{Experience: rec.Experience, Level: rec.Level}, nil
}

func containsBadge(badges []string, badge string) bool {
	for _, b := range badges {
		if b == badge {
			return true
		}
	}
	return false
}
