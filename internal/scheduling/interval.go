package scheduling

import "time"

// Window is a closed time interval owned by one scheduled record.
type Window struct {
	ID    string
	Start time.Time
	End   time.Time
}

// Overlaps reports whether the closed intervals [s1,e1] and [s2,e2] share at
// least one instant.  Touching intervals overlap.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return !s1.After(e2) && !s2.After(e1)
}

// FirstOverlap returns the first window in existing that overlaps candidate.
// A window with the candidate's own ID is ignored.
func FirstOverlap(candidate Window, existing []Window) (Window, bool) {
	for _, w := range existing {
		if candidate.ID != "" && w.ID == candidate.ID {
			continue
		}
		if Overlaps(candidate.Start, candidate.End, w.Start, w.End) {
			return w, true
		}
	}
	return Window{}, false
}
