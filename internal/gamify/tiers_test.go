package gamify

import (
	"reflect"
	"testing"
)

func TestEvolveSelectsHighestQualifyingTier(t *testing.T) {
	tests := []struct {
		name   string
		metric int
		want   string
	}{
		{"below lowest threshold", 0, ""},
		{"exactly bronze", 1, "critic_bronze"},
		{"between bronze and silver", 9, "critic_bronze"},
		{"exactly silver", 10, "critic_silver"},
		{"exactly gold", 50, "critic_gold"},
		{"beyond gold", 500, "critic_gold"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed := Evolve(nil, tt.metric, criticTiers)
			if tt.want == "" {
				if changed || len(got) != 0 {
					t.Fatalf("expected no badge for metric %d, got %v", tt.metric, got)
				}
				return
			}
			if !changed {
				t.Fatalf("expected change for metric %d", tt.metric)
			}
			if len(got) != 1 || got[0] != tt.want {
				t.Fatalf("expected [%s], got %v", tt.want, got)
			}
		})
	}
}

func TestEvolveRemovesSiblingTiers(t *testing.T) {
	got, changed := Evolve([]string{"critic_bronze"}, 10, criticTiers)
	if !changed {
		t.Fatal("expected change when upgrading tiers")
	}
	if len(got) != 1 || got[0] != "critic_silver" {
		t.Fatalf("expected bronze replaced by silver, got %v", got)
	}

	// A stale higher tier also gets collapsed to the single qualifying one.
	got, changed = Evolve([]string{"critic_bronze", "critic_gold"}, 12, criticTiers)
	if !changed {
		t.Fatal("expected change when collapsing tiers")
	}
	if len(got) != 1 || got[0] != "critic_silver" {
		t.Fatalf("expected only silver to remain, got %v", got)
	}
}

func TestEvolveLeavesUnrelatedBadges(t *testing.T) {
	got, _ := Evolve([]string{"first_review", "social_bronze", "critic_bronze"}, 10, criticTiers)
	want := []string{"first_review", "social_bronze", "critic_silver"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestEvolveIsIdempotent(t *testing.T) {
	first, changed := Evolve([]string{"first_review"}, 25, criticTiers)
	if !changed {
		t.Fatal("expected first application to change the set")
	}

	second, changed := Evolve(first, 25, criticTiers)
	if changed {
		t.Fatalf("expected second application to be a no-op, got %v", second)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical sets, got %v and %v", first, second)
	}
}

func TestEvolveDoesNotMutateInput(t *testing.T) {
	current := []string{"critic_bronze", "first_review"}
	Evolve(current, 10, criticTiers)
	if !reflect.DeepEqual(current, []string{"critic_bronze", "first_review"}) {
		t.Fatalf("input slice was mutated: %v", current)
	}
}

func TestEvolveIsMonotonic(t *testing.T) {
	thresholdOf := func(badges []string) int {
		for _, tier := range criticTiers {
			for _, b := range badges {
				if b == tier.Badge {
					return tier.Threshold
				}
			}
		}
		return 0
	}

	badges := []string{}
	prev := 0
	for metric := 0; metric <= 120; metric++ {
		badges, _ = Evolve(badges, metric, criticTiers)
		held := thresholdOf(badges)
		if held < prev {
			t.Fatalf("held tier regressed at metric %d: %d -> %d", metric, prev, held)
		}
		prev = held
	}
}
