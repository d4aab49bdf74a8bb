package gamify

// Tier is one threshold step within a badge family.
type Tier struct {
	Threshold int
	Badge     string
}

// TierTable lists a family's tiers ordered from highest threshold to lowest.
type TierTable []Tier

// Badge family names, keyed by the metric that drives them.
const (
	familyCritic    = "critic"    // reviews written
	familyPopular   = "popular"   // likes received
	familyMarathon  = "marathon"  // lists created
	familySocial    = "social"    // followers
	familyCommunity = "community" // club posts
)

var (
	criticTiers = TierTable{
		{Threshold: 50, Badge: "critic_gold"},
		{Threshold: 10, Badge: "critic_silver"},
		{Threshold: 1, Badge: "critic_bronze"},
	}
	popularTiers = TierTable{
		{Threshold: 100, Badge: "popular_gold"},
		{Threshold: 25, Badge: "popular_silver"},
		{Threshold: 5, Badge: "popular_bronze"},
	}
	marathonTiers = TierTable{
		{Threshold: 25, Badge: "marathon_gold"},
		{Threshold: 10, Badge: "marathon_silver"},
		{Threshold: 3, Badge: "marathon_bronze"},
	}
	socialTiers = TierTable{
		{Threshold: 50, Badge: "social_gold"},
		{Threshold: 20, Badge: "social_silver"},
		{Threshold: 5, Badge: "social_bronze"},
	}
	communityTiers = TierTable{
		{Threshold: 30, Badge: "community_gold"},
		{Threshold: 10, Badge: "community_silver"},
		{Threshold: 1, Badge: "community_bronze"},
	}
)

var familyTiers = map[string]TierTable{
	familyCritic:    criticTiers,
	familyPopular:   popularTiers,
	familyMarathon:  marathonTiers,
	familySocial:    socialTiers,
	familyCommunity: communityTiers,
}

// Evolve applies a tier table to a metric value. The result holds at most one
// badge from the table: the highest tier whose threshold the metric meets
// (thresholds are inclusive). Lower or stale tiers from the same table are
// removed; badges outside the table are untouched. The second return value
// reports whether the result differs from the input. The input slice is never
// modified, and the input is returned as-is when nothing changed.
func Evolve(current []string, metric int, tiers TierTable) ([]string, bool) {
	var target string
	for _, tier := range tiers {
		if metric >= tier.Threshold {
			target = tier.Badge
			break
		}
	}
	if target == "" {
		return current, false
	}

	siblings := make(map[string]bool, len(tiers))
	for _, tier := range tiers {
		if tier.Badge != target {
			siblings[tier.Badge] = true
		}
	}

	next := make([]string, 0, len(current)+1)
	held := false
	changed := false
	for _, badge := range current {
		if siblings[badge] {
			changed = true
			continue
		}
		if badge == target {
			held = true
		}
		next = append(next, badge)
	}
	if !held {
		next = append(next, target)
		changed = true
	}
	if !changed {
		return current, false
	}
	return next, true
}
