package academy

import (
	"fmt"
	"math/rand"
)

// Gem is a collectible reward granted for winning a level.
type Gem string

const (
	Ruby     Gem = "ruby"
	Emerald  Gem = "emerald"
	Sapphire Gem = "sapphire"
	Amethyst Gem = "amethyst"
	Diamond  Gem = "diamond"
)

var allGems = []Gem{Ruby, Emerald, Sapphire, Amethyst, Diamond}

// Gems returns every gem kind.
func Gems() []Gem {
	return append([]Gem(nil), allGems...)
}

// ParseGem converts a string to a Gem.
func ParseGem(s string) (Gem, error) {
	for _, g := range allGems {
		if string(g) == s {
			return g, nil
		}
	}
	return "", fmt.Errorf("academy: unknown gem %q", s)
}

// Rewards hands out one random gem per level session, on the moment the
// level turns from not won to won.
type Rewards struct {
	rng       *rand.Rand
	collected []Gem
	armed     bool
	lastWon   bool
}

// NewRewards creates an armed reward tracker.
func NewRewards(rng *rand.Rand) *Rewards {
	return &Rewards{rng: rng, armed: true}
}

// Arm starts a new level session.
func (r *Rewards) Arm() {
	r.armed = true
	r.lastWon = false
}

// Observe feeds the current won flag. It returns the granted gem on the
// false to true edge of an armed session.
func (r *Rewards) Observe(won bool) (Gem, bool) {
	edge := won && !r.lastWon
	r.lastWon = won
	if !edge || !r.armed {
		return "", false
	}
	r.armed = false
	g := allGems[r.rng.Intn(len(allGems))]
	r.collected = append(r.collected, g)
	return g, true
}

// Collected returns the gems earned so far, oldest first.
func (r *Rewards) Collected() []Gem {
	return append([]Gem(nil), r.collected...)
}

// Restore replaces the collection with previously saved gems.
func (r *Rewards) Restore(gems []Gem) {
	r.collected = append([]Gem(nil), gems...)
}

// Counts returns how many gems of each kind were collected.
func (r *Rewards) Counts() map[Gem]int {
	out := make(map[Gem]int, len(allGems))
	for _, g := range r.collected {
		out[g]++
	}
	return out
}
