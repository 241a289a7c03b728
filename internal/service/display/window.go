package display

import "time"

// Window evaluates display windows against the current instant.
type Window struct {
	now func() time.Time
}

func NewWindow(now func() time.Time) *Window {
	if now == nil {
		now = time.Now
	}
	return &Window{now: now}
}

// Now is the current instant as seen from loc, cut to whole seconds and
// expressed in UTC.
func (w *Window) Now(loc *time.Location) time.Time {
	return w.now().In(loc).Truncate(time.Second).UTC()
}

// Contains reports whether the current instant lies in [start, end]. Both
// bounds are inclusive at second precision. An inverted window is evaluated
// as given and contains no instant.
func (w *Window) Contains(start, end time.Time, loc *time.Location) bool {
	now := w.Now(loc)
	return !(start.After(now) || end.Before(now))
}
