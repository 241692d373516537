package application

import "strings"

// RepoRef names one repository.
type RepoRef struct {
	Owner string
	Name  string
}

// FullName returns "owner/name".
func (r RepoRef) FullName() string {
	return r.Owner + "/" + r.Name
}

// AllowList restricts which repositories may be browsed. The zero value
// allows every repository.
type AllowList struct {
	repos   []RepoRef
	allowed map[string]bool
}

// ParseAllowList parses a comma-separated list of "owner/repo" entries.
// Blank entries and entries missing either half are ignored; extra path
// segments after the repository name are dropped.
func ParseAllowList(raw string) AllowList {
	var list AllowList

	for _, entry := range strings.Split(raw, ",") {
		parts := strings.Split(strings.TrimSpace(entry), "/")
		if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
			continue
		}
		ref := RepoRef{Owner: parts[0], Name: parts[1]}
		key := strings.ToLower(ref.FullName())
		if list.allowed[key] {
			continue
		}
		if list.allowed == nil {
			list.allowed = make(map[string]bool)
		}
		list.allowed[key] = true
		list.repos = append(list.repos, ref)
	}

	return list
}

// Enabled reports whether the list restricts anything (demo mode).
func (a AllowList) Enabled() bool {
	return len(a.repos) > 0
}

// Allows reports whether owner/name may be browsed. Matching ignores case.
func (a AllowList) Allows(owner, name string) bool {
	if !a.Enabled() {
		return true
	}
	return a.allowed[strings.ToLower(owner+"/"+name)]
}

// Repos returns the allowed repositories in configuration order.
func (a AllowList) Repos() []RepoRef {
	out := make([]RepoRef, len(a.repos))
	copy(out, a.repos)
	return out
}
