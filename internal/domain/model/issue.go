package model

import "time"

// AuthorAssociation is the commenter's relationship to the repository.
type AuthorAssociation string

const (
	AssociationOwner        AuthorAssociation = "OWNER"
	AssociationMember       AuthorAssociation = "MEMBER"
	AssociationCollaborator AuthorAssociation = "COLLABORATOR"
	AssociationContributor  AuthorAssociation = "CONTRIBUTOR"
	AssociationNone         AuthorAssociation = "NONE"
)

// Label is an issue or pull request label.
type Label struct {
	ID          int64
	Name        string
	Color       string // Hex color without the leading '#'.
	Description string
}

// Issue is a GitHub issue. The issue listing endpoint also returns pull
// requests; IsPullRequest marks those.
type Issue struct {
	Number            int
	Title             string
	State             string // "open" or "closed".
	Body              string
	HTMLURL           string
	User              *User
	Labels            []Label
	Comments          int
	AuthorAssociation AuthorAssociation
	IsPullRequest     bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Comment is the uniform shape of an opening post or a reply comment.
type Comment struct {
	ID                int64
	Author            *User
	Body              string
	AuthorAssociation AuthorAssociation
	CreatedAt         time.Time
}
