package roi

// MinROI returns the breakeven row: the first row, in trace order, whose ROI
// is positive. ok is false when no row pays for itself.
func MinROI(t *Table) (row Row, ok bool) {
	if t == nil {
		return Row{}, false
	}
	for _, r := range t.rows {
		if r.ROI.IsPositive() {
			return r, true
		}
	}
	return Row{}, false
}

// MaxROI returns the full-rollout row: the row with the largest trace count,
// not the row with the largest ROI value. ok is false when the table is empty
// or that row's ROI is not positive, which callers present as "Negative ROI".
func MaxROI(t *Table) (row Row, ok bool) {
	if t == nil || len(t.rows) == 0 {
		return Row{}, false
	}
	last := t.rows[len(t.rows)-1]
	if !last.ROI.IsPositive() {
		return Row{}, false
	}
	return last, true
}
