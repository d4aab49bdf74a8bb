package gamify

// LevelForXP maps cumulative experience to a level. Fixed breakpoints cover
// the first four levels; past 1000 XP each additional 500 XP adds one level.
func LevelForXP(xp int) int {
	switch {
	case xp < 100:
		return 1
	case xp < 300:
		return 2
	case xp < 600:
		return 3
	case xp < 1000:
		return 4
	default:
		return (xp-1000)/500 + 5
	}
}
