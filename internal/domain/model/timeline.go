package model

import "time"

// EventKind identifies the kind of an issue or pull request timeline event.
type EventKind string

const (
	EventCommented            EventKind = "commented"
	EventLabeled              EventKind = "labeled"
	EventUnlabeled            EventKind = "unlabeled"
	EventMilestoned           EventKind = "milestoned"
	EventDemilestoned         EventKind = "demilestoned"
	EventRenamed              EventKind = "renamed"
	EventAssigned             EventKind = "assigned"
	EventUnassigned           EventKind = "unassigned"
	EventClosed               EventKind = "closed"
	EventReopened             EventKind = "reopened"
	EventLocked               EventKind = "locked"
	EventMerged               EventKind = "merged"
	EventReferenced           EventKind = "referenced"
	EventCrossReferenced      EventKind = "cross-referenced"
	EventReviewRequested      EventKind = "review_requested"
	EventReviewRequestRemoved EventKind = "review_request_removed"
	EventCommitted            EventKind = "committed"
)

// Rename carries the before/after titles of a "renamed" event.
type Rename struct {
	From string
	To   string
}

// TimelineEvent is one provider-supplied timeline record. Only the fields
// relevant to Kind are populated; the rest stay zero.
type TimelineEvent struct {
	ID                int64
	Kind              EventKind // Raw provider value; may be a kind this package does not name.
	Actor             *User
	User              *User // Comment author for "commented" events.
	CreatedAt         time.Time
	Body              string
	AuthorAssociation AuthorAssociation
	Label             *Label
	MilestoneTitle    string
	Rename            *Rename
	Assignee          *User
	RequestedReviewer *User
	LockReason        string
	CommitID          string
	SHA               string // Commit sha for "committed" events.
	Message           string // Commit message for "committed" events.
	SourceIssue       int    // Cross-referenced issue number; 0 when absent.
}

// Participant returns the account credited for the event: the comment
// author when present, otherwise the actor.
func (e TimelineEvent) Participant() *User {
	if e.User != nil {
		return e.User
	}
	return e.Actor
}
