package model

import (
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Distance phrases the gap between two instants without direction,
// e.g. "30 minutes" or "1 hour".
func Distance(from, to time.Time) string {
	return strings.TrimSpace(humanize.RelTime(from, to, "", ""))
}

// Relative phrases when due falls relative to now,
// e.g. "2 days from now" or "3 hours ago".
func Relative(due, now time.Time) string {
	return humanize.RelTime(due, now, "ago", "from now")
}
