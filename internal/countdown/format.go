package countdown

// FormatTarget renders a countdown date (and time, if set) for display, e.g.
// "Sunday, March 1, 2026 at 14:30". Unparseable dates are returned unchanged.
func FormatTarget(date, clock string) string {
	d, err := ParseDate(date, nil)
	if err != nil {
		return date
	}
	s := d.Format("Monday, January 2, 2006")
	if clock != "" {
		s += " at " + clock
	}
	return s
}
