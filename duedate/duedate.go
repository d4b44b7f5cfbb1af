// Package duedate computes days-remaining and overdue status for borrow
// requests. Pure functions of (request, now); no hidden state, so display and
// statistics always agree.
package duedate

import (
	"math"
	"time"

	"robolab/models"
)

const (
	LabelOverdue  = "overdue"
	LabelDueToday = "due today"
	LabelDueSoon  = "due soon"
	LabelUpcoming = "upcoming"
)

// DaysRemaining is ceil((due - now) / 24h). Negative means overdue by that
// many days.
func DaysRemaining(due, now time.Time) int {
	return int(math.Ceil(due.Sub(now).Hours() / 24))
}

// IsOverdue reports whether an approved request is past its due date. Only
// approved requests can be overdue; a returned or rejected request is never
// overdue no matter the date.
func IsOverdue(status models.RequestStatus, due, now time.Time) bool {
	return status == models.StatusApproved && due.Before(now)
}

// Label buckets a days-remaining value for display: overdue, due today, due
// soon (within 3 days), upcoming.
func Label(days int) string {
	switch {
	case days < 0:
		return LabelOverdue
	case days == 0:
		return LabelDueToday
	case days <= 3:
		return LabelDueSoon
	default:
		return LabelUpcoming
	}
}
