package academy

import (
	"math/rand"
	"testing"
)

func TestRewardsEdge(t *testing.T) {
	r := NewRewards(rand.New(rand.NewSource(1)))

	sequence := []struct {
		won     bool
		granted bool
	}{
		{false, false},
		{true, true},   // edge
		{true, false},  // still won
		{false, false}, // back to play without re-arming
		{true, false},  // second edge in the same session
	}
	for i, s := range sequence {
		_, got := r.Observe(s.won)
		if got != s.granted {
			t.Fatalf("step %d: granted = %v, want %v", i, got, s.granted)
		}
	}
	if len(r.Collected()) != 1 {
		t.Fatalf("collected = %v, want 1 gem", r.Collected())
	}

	r.Arm()
	if _, ok := r.Observe(true); !ok {
		t.Error("re-armed session should grant on the next win")
	}
}

func TestRewardsArmWhileWon(t *testing.T) {
	r := NewRewards(rand.New(rand.NewSource(2)))
	r.Observe(true)
	r.Arm()
	if _, ok := r.Observe(true); !ok {
		t.Error("Arm resets the edge detector")
	}
}

func TestRewardsRestoreAndCounts(t *testing.T) {
	r := NewRewards(rand.New(rand.NewSource(3)))
	r.Restore([]Gem{Ruby, Emerald, Ruby})

	counts := r.Counts()
	if counts[Ruby] != 2 || counts[Emerald] != 1 || counts[Diamond] != 0 {
		t.Errorf("Counts() = %v", counts)
	}

	g, ok := r.Observe(true)
	if !ok {
		t.Fatal("expected a gem")
	}
	if _, err := ParseGem(string(g)); err != nil {
		t.Errorf("granted unknown gem %q", g)
	}
	if len(r.Collected()) != 4 {
		t.Errorf("collected = %d, want 4", len(r.Collected()))
	}
}

func TestParseGem(t *testing.T) {
	for _, g := range Gems() {
		if got, err := ParseGem(string(g)); err != nil || got != g {
			t.Errorf("ParseGem(%q) = %q, %v", g, got, err)
		}
	}
	if _, err := ParseGem("opal"); err == nil {
		t.Error("ParseGem(opal) should fail")
	}
}
