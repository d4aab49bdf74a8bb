package gamify

import (
	"context"
)

// Progress is the persisted per-user scoring document.
type Progress struct {
	UserID     string         `json:"user_id" firestore:"user_id"`
	Experience int            `json:"experience" firestore:"experience"`
	Level      int            `json:"level" firestore:"level"`
	Badges     []string       `json:"badges" firestore:"badges"`
	Stats      map[string]int `json:"stats" firestore:"stats"`
}

// ActionKind identifies a scoring-relevant platform action.
type ActionKind string

const (
	ActionReview     ActionKind = "review"
	ActionComment    ActionKind = "comment"
	ActionList       ActionKind = "list"
	ActionFollower   ActionKind = "follower"
	ActionLike       ActionKind = "like"
	ActionClubPost   ActionKind = "club_post"
	ActionRandomPick ActionKind = "random_pick"
)

// Stat field names inside the progress document's stats map.
const (
	StatReviews     = "reviews"
	StatComments    = "comments"
	StatLists       = "lists"
	StatFollowers   = "followers"
	StatLikes       = "likes"
	StatClubPosts   = "club_posts"
	StatRandomPicks = "random_picks"
)

// actionRule holds the scoring configuration for one action kind: the XP it
// grants, the stat counter it increments (if any), and the badge family the
// updated counter is checked against (if any).
type actionRule struct {
	Points int
	Stat   string
	Family string
}

var actionRules = map[ActionKind]actionRule{
	ActionReview:     {Points: 30, Stat: StatReviews, Family: familyCritic},
	ActionComment:    {Points: 10, Stat: StatComments},
	ActionList:       {Points: 15, Stat: StatLists, Family: familyMarathon},
	ActionFollower:   {Points: 5, Stat: StatFollowers, Family: familySocial},
	ActionLike:       {Points: 2, Stat: StatLikes, Family: familyPopular},
	ActionClubPost:   {Points: 10, Stat: StatClubPosts, Family: familyCommunity},
	ActionRandomPick: {Points: 5, Stat: StatRandomPicks},
}

// Action describes one user action to be awarded. Grant is an optional
// out-of-band badge (for example an admin-assigned honor) added
// unconditionally alongside the tier computation.
type Action struct {
	UserID string
	Kind   ActionKind
	Grant  string
}

// ProgressUpdate lists the fields an award transaction writes back. A nil
// Badges slice and an empty Stat leave the stored fields untouched.
type ProgressUpdate struct {
	Experience int
	Level      int
	Badges     []string
	Stat       string
	StatValue  int
}

// ContributionCounts aggregates a user's recountable contributions from the
// platform's source collections.
type ContributionCounts struct {
	Reviews   int
	Lists     int
	ClubPosts int
	Likes     int
}

// RecomputedProgress is the state written back by a full recomputation.
// Followers, random picks, and comments counters are not part of it: the
// first two are trusted inputs read from the current document and comments
// cannot be recounted from any source collection.
type RecomputedProgress struct {
	Experience int
	Level      int
	Badges     []string
	Counts     ContributionCounts
}

// RecomputeResult is returned to the caller of a full recomputation. The
// HTTP layer owns the wire shape.
type RecomputeResult struct {
	Experience int
	Level      int
}

// Repository defines the interface for progress data access. MutateProgress
// and OverwriteProgress must execute their read-modify-write cycle as a
// single atomic transaction against the user's document.
type Repository interface {
	GetProgress(ctx context.Context, userID string) (*Progress, error)
	MutateProgress(ctx context.Context, userID string, mutate func(p *Progress) (*ProgressUpdate, error)) error
	CountContributions(ctx context.Context, userID string) (ContributionCounts, error)
	OverwriteProgress(ctx context.Context, userID string, rec RecomputedProgress) error
}

// Service defines the scoring engine interface.
type Service interface {
	Award(ctx context.Context, action Action) error
	Recompute(ctx context.Context, userID string) (RecomputeResult, error)
}
