package domain

import (
	"fmt"
	"time"
)

// TimeRange is an inclusive [Min, Max] report window.
type TimeRange struct {
	Min time.Time
	Max time.Time
}

// NewTimeRange validates that min does not follow max.
func NewTimeRange(min, max time.Time) (TimeRange, error) {
	if min.After(max) {
		return TimeRange{}, fmt.Errorf("time range min %s after max %s", min, max)
	}
	return TimeRange{Min: min, Max: max}, nil
}

// Contains reports whether t falls within the window, bounds included.
func (r TimeRange) Contains(t time.Time) bool {
	return !t.Before(r.Min) && !t.After(r.Max)
}

// FileSuffix renders the window for use in artifact file names.
func (r TimeRange) FileSuffix() string {
	const layout = "2006-01-02_15-04-05"
	return r.Min.UTC().Format(layout) + "_" + r.Max.UTC().Format(layout)
}
