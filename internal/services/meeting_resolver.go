package services

import (
	"time"

	"github.com/yukikurage/business-management-api/internal/access"
	apierrors "github.com/yukikurage/business-management-api/internal/errors"
	"github.com/yukikurage/business-management-api/internal/models"
)

// Window is a half-open time range [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

// Validate rejects empty and inverted windows.
func (w Window) Validate() error {
	if w.Start.IsZero() || w.End.IsZero() {
		return apierrors.NewInvalidData("start_at and end_at are required")
	}
	if !w.Start.Before(w.End) {
		return apierrors.NewInvalidData("start_at must be before end_at")
	}
	return nil
}

// ResolveAttendees partitions candidates for a meeting booked by manager.
// Candidates outside the manager's organization, or outside the manager's
// department unless the manager holds the admin role, are dropped from both
// results. The remaining candidates are conflicted when any of their
// meetings overlaps window and available otherwise. Candidates must carry
// their Meetings.
func ResolveAttendees(manager *models.Employee, candidates []models.Employee, window Window) (available, conflicted []models.Employee) {
	available = []models.Employee{}
	conflicted = []models.Employee{}
	admin := access.IsAdmin(manager)

	for _, candidate := range candidates {
		if candidate.OrganizationID != manager.OrganizationID {
			continue
		}
		if !admin && !manager.SameDepartment(&candidate) {
			continue
		}

		busy := false
		for i := range candidate.Meetings {
			if candidate.Meetings[i].Overlaps(window.Start, window.End) {
				busy = true
				break
			}
		}
		if busy {
			conflicted = append(conflicted, candidate)
		} else {
			available = append(available, candidate)
		}
	}
	return available, conflicted
}

// withoutMeeting hides meetingID from each candidate's schedule so that a
// meeting being rescheduled never conflicts with itself.
func withoutMeeting(candidates []models.Employee, meetingID uint64) []models.Employee {
	out := make([]models.Employee, len(candidates))
	for i, candidate := range candidates {
		kept := make([]models.Meeting, 0, len(candidate.Meetings))
		for _, m := range candidate.Meetings {
			if m.ID != meetingID {
				kept = append(kept, m)
			}
		}
		candidate.Meetings = kept
		out[i] = candidate
	}
	return out
}
