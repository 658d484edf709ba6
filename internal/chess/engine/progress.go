package engine

// Progress is the persistent part of an engine: wins and unlock flags per
// level, indexed like the catalog.
type Progress struct {
	Wins     []int  `json:"wins"`
	Unlocked []bool `json:"unlocked"`
}

// Progress exports the current win counts and unlock flags.
func (e *Engine) Progress() Progress {
	return Progress{
		Wins:     e.WinsByLevel(),
		Unlocked: e.Unlocked(),
	}
}

// RestoreProgress loads saved progress. Entries beyond the catalog are
// ignored, missing ones keep their current value, and level 0 stays
// unlocked. The current level is not changed.
func (e *Engine) RestoreProgress(p Progress) {
	for i := 0; i < len(e.wins) && i < len(p.Wins); i++ {
		if p.Wins[i] >= 0 {
			e.wins[i] = p.Wins[i]
		}
	}
	for i := 0; i < len(e.unlocked) && i < len(p.Unlocked); i++ {
		e.unlocked[i] = p.Unlocked[i]
	}
	e.unlocked[0] = true
}
