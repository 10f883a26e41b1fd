package policy

import (
	"proclog/internal/actor"
	"proclog/internal/domain"
)

// Action names every operation the policy knows about.
type Action string

const (
	ActionSubmitEntry      Action = "submit_entry"
	ActionViewOwnEntries   Action = "view_own_entries"
	ActionViewPendingQueue Action = "view_pending_queue"
	ActionDecide           Action = "decide"
	ActionViewEntryDetail  Action = "view_entry_detail"
)

// Can decides whether a may perform action, optionally against entry. It is
// a pure predicate: no I/O, default deny. A nil actor is granted nothing.
// Entry-scoped actions (decide, view detail, view own) deny when entry is nil.
func Can(a *actor.Actor, action Action, entry *domain.LogEntry) bool {
	if a == nil {
		return false
	}
	switch action {
	case ActionSubmitEntry:
		return a.Role == domain.RolePractitioner || a.Role == domain.RoleAdmin
	case ActionViewOwnEntries:
		return entry != nil && entry.UserID == a.ID
	case ActionViewPendingQueue:
		return a.Role == domain.RoleReviewer || a.Role == domain.RoleAdmin
	case ActionDecide:
		// Reviewers may decide any pending entry, their own included.
		if entry == nil || entry.Status != domain.StatusPending {
			return false
		}
		return a.Role == domain.RoleReviewer || a.Role == domain.RoleAdmin
	case ActionViewEntryDetail:
		return Can(a, ActionViewOwnEntries, entry) || Can(a, ActionViewPendingQueue, nil)
	default:
		return false
	}
}
