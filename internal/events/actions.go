package events

// ActionPerformed is the payload delivered by platform triggers when a
// scoring-relevant document is created or updated. ActorID identifies the
// other user involved (the new follower, the liker) and Badge carries an
// optional out-of-band badge to grant alongside the award.
type ActionPerformed struct {
	UserID  string `json:"user_id"`
	ActorID string `json:"actor_id,omitempty"`
	Badge   string `json:"badge,omitempty"`
}
