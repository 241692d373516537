package application

import (
	"regexp"
	"strconv"
	"time"

	"github.com/ericfisherdev/ghmirror/internal/domain/model"
)

// EntryKind distinguishes the rendered shapes of a timeline entry.
type EntryKind int

const (
	EntryOpeningPost EntryKind = iota
	EntryComment
	EntryEvent
)

// Icon names the glyph drawn next to a compact timeline item.
type Icon string

const (
	IconTag         Icon = "tag"
	IconMilestone   Icon = "milestone"
	IconPencil      Icon = "pencil"
	IconUser        Icon = "user"
	IconCircleCheck Icon = "circle-check"
	IconCircleDot   Icon = "circle-dot"
	IconLock        Icon = "lock"
	IconMerge       Icon = "git-merge"
	IconCommit      Icon = "git-commit"
	IconEye         Icon = "eye"
)

// PartStyle tells the renderer how to present a phrase fragment.
type PartStyle int

const (
	PartMuted PartStyle = iota
	PartStrong
	PartStrike
	PartCode
	PartLabel
	PartLink
)

// Part is one fragment of a timeline phrase.
type Part struct {
	Text  string
	Style PartStyle
	Color string // Label color for PartLabel.
	Href  string // Target for PartLink.
}

// CommentCard is the display form of an opening post or reply comment.
type CommentCard struct {
	Author      *model.User
	Body        string
	Association model.AuthorAssociation
	CreatedAt   time.Time
}

// EventItem is the display form of a structural timeline event.
type EventItem struct {
	Kind      model.EventKind
	Icon      Icon
	Actor     *model.User
	Parts     []Part
	CreatedAt time.Time
}

// TimelineEntry is one rendered row. Comment is set for EntryOpeningPost and
// EntryComment, Event for EntryEvent.
type TimelineEntry struct {
	Kind    EntryKind
	Comment *CommentCard
	Event   *EventItem
}

// Timeline is the merged conversation of an issue or pull request.
type Timeline struct {
	Entries      []TimelineEntry
	Participants []model.User
	Empty        bool // Nothing to show at all: render the "no comments" state.
}

// OpeningPost is the description an issue or pull request was opened with.
type OpeningPost struct {
	Author    *model.User
	Body      string
	CreatedAt time.Time
}

// MergeTimeline combines the opening post and provider-ordered events into a
// single render sequence. refBase is the path "#N" references link under.
func MergeTimeline(post OpeningPost, events []model.TimelineEvent, refBase string) Timeline {
	tl := Timeline{
		Entries:      make([]TimelineEntry, 0, len(events)+1),
		Participants: Participants(post.Author, events),
		Empty:        post.Body == "" && len(events) == 0,
	}

	if post.Body != "" {
		tl.Entries = append(tl.Entries, TimelineEntry{
			Kind: EntryOpeningPost,
			Comment: &CommentCard{
				Author:      post.Author,
				Body:        post.Body,
				Association: model.AssociationOwner,
				CreatedAt:   post.CreatedAt,
			},
		})
	}

	for _, e := range events {
		if e.Kind == model.EventCommented && e.Body != "" {
			association := e.AuthorAssociation
			if association == "" {
				association = model.AssociationNone
			}
			tl.Entries = append(tl.Entries, TimelineEntry{
				Kind: EntryComment,
				Comment: &CommentCard{
					Author:      e.Participant(),
					Body:        e.Body,
					Association: association,
					CreatedAt:   e.CreatedAt,
				},
			})
			continue
		}

		if item, ok := RenderEvent(e, refBase); ok {
			tl.Entries = append(tl.Entries, TimelineEntry{Kind: EntryEvent, Event: &item})
		}
	}

	return tl
}

// Participants returns the distinct users of a conversation by login, the
// author first and then each event's user or actor in order.
func Participants(author *model.User, events []model.TimelineEvent) []model.User {
	var out []model.User
	seen := make(map[string]bool)

	add := func(u *model.User) {
		if u == nil || seen[u.Login] {
			return
		}
		seen[u.Login] = true
		out = append(out, *u)
	}

	add(author)
	for _, e := range events {
		add(e.Participant())
	}
	return out
}

type eventRenderer struct {
	icon Icon
	// anonymous renderers do not lead with the actor's login.
	anonymous bool
	phrase    func(e model.TimelineEvent, refBase string) []Part
}

var eventRenderers = map[model.EventKind]eventRenderer{
	model.EventLabeled:   {icon: IconTag, phrase: labelPhrase("added")},
	model.EventUnlabeled: {icon: IconTag, phrase: labelPhrase("removed")},
	model.EventMilestoned: {icon: IconMilestone, phrase: func(e model.TimelineEvent, _ string) []Part {
		return []Part{muted("added this to the"), strong(e.MilestoneTitle), muted("milestone")}
	}},
	model.EventDemilestoned: {icon: IconMilestone, phrase: func(e model.TimelineEvent, _ string) []Part {
		return []Part{muted("removed this from the"), strong(e.MilestoneTitle), muted("milestone")}
	}},
	model.EventRenamed: {icon: IconPencil, phrase: func(e model.TimelineEvent, _ string) []Part {
		parts := []Part{muted("changed the title")}
		if e.Rename != nil {
			parts = append(parts, Part{Text: e.Rename.From, Style: PartStrike}, strong(e.Rename.To))
		}
		return parts
	}},
	model.EventAssigned:   {icon: IconUser, phrase: userPhrase("assigned", func(e model.TimelineEvent) *model.User { return e.Assignee })},
	model.EventUnassigned: {icon: IconUser, phrase: userPhrase("unassigned", func(e model.TimelineEvent) *model.User { return e.Assignee })},
	model.EventClosed:     {icon: IconCircleCheck, phrase: fixedPhrase("closed this")},
	model.EventReopened:   {icon: IconCircleDot, phrase: fixedPhrase("reopened this")},
	model.EventLocked: {icon: IconLock, phrase: func(e model.TimelineEvent, _ string) []Part {
		text := "locked this conversation"
		if e.LockReason != "" {
			text += " as " + e.LockReason
		}
		return []Part{muted(text)}
	}},
	model.EventMerged: {icon: IconMerge, phrase: func(e model.TimelineEvent, _ string) []Part {
		parts := []Part{muted("merged commit")}
		if e.CommitID != "" {
			parts = append(parts, code(model.ShortSHA(e.CommitID)))
		}
		return parts
	}},
	model.EventReferenced: {icon: IconCommit, phrase: func(e model.TimelineEvent, _ string) []Part {
		if e.CommitID == "" {
			return []Part{muted("referenced this")}
		}
		return []Part{muted("referenced this in commit"), code(model.ShortSHA(e.CommitID))}
	}},
	model.EventCrossReferenced: {icon: IconCommit, phrase: func(e model.TimelineEvent, _ string) []Part {
		if e.SourceIssue == 0 {
			return []Part{muted("mentioned this")}
		}
		return []Part{muted("mentioned this in"), strong("#" + strconv.Itoa(e.SourceIssue))}
	}},
	model.EventReviewRequested:      {icon: IconEye, phrase: userPhrase("requested a review from", func(e model.TimelineEvent) *model.User { return e.RequestedReviewer })},
	model.EventReviewRequestRemoved: {icon: IconEye, phrase: userPhrase("removed review request for", func(e model.TimelineEvent) *model.User { return e.RequestedReviewer })},
	model.EventCommitted: {icon: IconCommit, anonymous: true, phrase: func(e model.TimelineEvent, refBase string) []Part {
		var parts []Part
		if headline := (model.CommitSummary{Message: e.Message}).Headline(); headline != "" {
			for _, seg := range LinkifyRefs(headline, refBase) {
				if seg.Href != "" {
					parts = append(parts, Part{Text: seg.Text, Style: PartLink, Href: seg.Href})
				} else {
					parts = append(parts, muted(seg.Text))
				}
			}
		} else {
			parts = append(parts, muted("committed"))
		}
		if e.SHA != "" {
			parts = append(parts, code(model.ShortSHA(e.SHA)))
		}
		return parts
	}},
}

// RenderEvent builds the compact display form of a structural event. It
// reports false for kinds that have no rendering, including bodiless comments.
func RenderEvent(e model.TimelineEvent, refBase string) (EventItem, bool) {
	r, ok := eventRenderers[e.Kind]
	if !ok {
		return EventItem{}, false
	}

	var parts []Part
	if !r.anonymous {
		parts = append(parts, strong(loginOr(e.Actor, "Someone")))
	}
	parts = append(parts, r.phrase(e, refBase)...)

	return EventItem{
		Kind:      e.Kind,
		Icon:      r.icon,
		Actor:     e.Actor,
		Parts:     parts,
		CreatedAt: e.CreatedAt,
	}, true
}

func labelPhrase(verb string) func(model.TimelineEvent, string) []Part {
	return func(e model.TimelineEvent, _ string) []Part {
		parts := []Part{muted(verb)}
		if e.Label != nil {
			parts = append(parts, Part{Text: e.Label.Name, Style: PartLabel, Color: e.Label.Color})
		}
		return parts
	}
}

func userPhrase(verb string, target func(model.TimelineEvent) *model.User) func(model.TimelineEvent, string) []Part {
	return func(e model.TimelineEvent, _ string) []Part {
		return []Part{muted(verb), strong(loginOr(target(e), "someone"))}
	}
}

func fixedPhrase(text string) func(model.TimelineEvent, string) []Part {
	return func(model.TimelineEvent, string) []Part {
		return []Part{muted(text)}
	}
}

func muted(s string) Part  { return Part{Text: s, Style: PartMuted} }
func strong(s string) Part { return Part{Text: s, Style: PartStrong} }
func code(s string) Part   { return Part{Text: s, Style: PartCode} }

func loginOr(u *model.User, fallback string) string {
	if u == nil || u.Login == "" {
		return fallback
	}
	return u.Login
}

// Segment is a run of text that is either inert or a link.
type Segment struct {
	Text string
	Href string // Empty for plain text.
}

var refPattern = regexp.MustCompile(`#\d+`)

// LinkifyRefs splits text around "#N" references, linking each to
// basePath/N. Concatenating the segment texts reproduces text exactly.
func LinkifyRefs(text, basePath string) []Segment {
	var segments []Segment
	last := 0

	for _, loc := range refPattern.FindAllStringIndex(text, -1) {
		if loc[0] > last {
			segments = append(segments, Segment{Text: text[last:loc[0]]})
		}
		ref := text[loc[0]:loc[1]]
		segments = append(segments, Segment{Text: ref, Href: basePath + "/" + ref[1:]})
		last = loc[1]
	}
	if last < len(text) {
		segments = append(segments, Segment{Text: text[last:]})
	}

	return segments
}

// CommentsAsEvents converts plain conversation comments into "commented"
// timeline events.
func CommentsAsEvents(comments []model.Comment) []model.TimelineEvent {
	events := make([]model.TimelineEvent, 0, len(comments))
	for _, c := range comments {
		events = append(events, model.TimelineEvent{
			ID:                c.ID,
			Kind:              model.EventCommented,
			User:              c.Author,
			Body:              c.Body,
			AuthorAssociation: c.AuthorAssociation,
			CreatedAt:         c.CreatedAt,
		})
	}
	return events
}
