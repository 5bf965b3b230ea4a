package progress

// Anchors are the stops of the progress bar.
var Anchors = []string{"Start", "Scrap", "Analysis", "Quality", "Finish"}

// LastAnchor is the index of the final anchor.
const LastAnchor = 4

// Anchor folds a step pointer onto a progress-bar anchor. A refinement in
// progress (pointer 3) stays at the analysis anchor instead of advancing.
func Anchor(pointer int) int {
	switch {
	case pointer <= -1:
		return 0
	case pointer == 0:
		return 1
	case pointer == 1:
		return 2
	case pointer == 2:
		return 3
	case pointer == 3:
		return 2
	case pointer >= 4:
		return LastAnchor
	default:
		return 2
	}
}

// ActiveAnchor returns the anchor to highlight for a snapshot.
func ActiveAnchor(s Snapshot) int {
	switch {
	case s.Finished:
		return LastAnchor
	case len(s.Entries) == 0:
		return 0
	default:
		return Anchor(s.Pointer)
	}
}

// Percent returns the progress-bar fill for a snapshot, 0 to 100.
func Percent(s Snapshot) float64 {
	return float64(ActiveAnchor(s)) / LastAnchor * 100
}

// StageText names an anchor.
func StageText(anchor int) string {
	if anchor < 0 {
		anchor = 0
	}
	if anchor >= len(Anchors) {
		anchor = len(Anchors) - 1
	}
	return Anchors[anchor]
}
