package justification

import "github.com/frahmantamala/school-admin/internal/calendar"

// Candidate is a justification about to be saved. ExcludeID names the
// record being edited, which must not clash with itself.
type Candidate struct {
	StudentID int64
	Start     calendar.Date
	End       calendar.Date
	ExcludeID int64
}

// Overlaps reports whether the inclusive ranges [s1,e1] and [s2,e2] share
// at least one day.
func Overlaps(s1, e1, s2, e2 calendar.Date) bool {
	return s1.Compare(e2) <= 0 && e1.Compare(s2) >= 0
}

// HasOverlap reports whether c clashes with a justification of the same
// student in existing. On the client existing is the cached list, which may
// be stale; the server repeats the check against its own records.
func HasOverlap(c Candidate, existing []Justification) bool {
	for _, j := range existing {
		if j.AlumnoID != c.StudentID {
			continue
		}
		if c.ExcludeID != 0 && j.ID == c.ExcludeID {
			continue
		}
		if Overlaps(c.Start, c.End, j.FechaInicio, j.FechaRegreso) {
			return true
		}
	}
	return false
}
