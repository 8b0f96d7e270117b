package task

import "strings"

// Filter narrows a task listing. Zero-valued fields impose no constraint.
type Filter struct {
	Status Status `json:"status,omitempty"`
	Search string `json:"search,omitempty"`
}

// ParseFilter builds a Filter from raw query input. An empty status or
// search means the constraint is absent. A non-empty status must match a
// known value exactly.
func ParseFilter(rawStatus, rawSearch string) (Filter, error) {
	var f Filter
	if rawStatus != "" {
		status, err := ParseStatus(rawStatus)
		if err != nil {
			return Filter{}, err
		}
		f.Status = status
	}
	f.Search = rawSearch
	return f, nil
}

// IsEmpty reports whether the filter imposes no constraints.
func (f Filter) IsEmpty() bool {
	return f.Status == "" && f.Search == ""
}

// Matches reports whether t satisfies the filter. Ownership is not checked here.
func (f Filter) Matches(t *Task) bool {
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.Search == "" {
		return true
	}
	needle := strings.ToLower(f.Search)
	return strings.Contains(strings.ToLower(t.Title), needle) ||
		strings.Contains(strings.ToLower(t.Description), needle)
}
