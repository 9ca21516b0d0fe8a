package model

import "strings"

// MaxPublishers is the number of priority slots in a Selection.
const MaxPublishers = 2

// Selection holds the priority 1 and priority 2 publisher choices.
// Slot 0 is never empty while slot 1 is filled, and no id occupies both slots.
type Selection [MaxPublishers]string

// NewSelection builds a Selection by toggling ids in order.
func NewSelection(ids ...string) Selection {
	var s Selection
	for _, id := range ids {
		s = s.Toggle(id)
	}
	return s
}

// First returns the priority 1 publisher id.
func (s Selection) First() string { return s[0] }

// Second returns the priority 2 publisher id.
func (s Selection) Second() string { return s[1] }

// Len counts the filled slots.
func (s Selection) Len() int {
	n := 0
	for _, id := range s {
		if id != "" {
			n++
		}
	}
	return n
}

// IDs returns the filled slots in priority order.
func (s Selection) IDs() []string {
	out := make([]string, 0, MaxPublishers)
	for _, id := range s {
		if id != "" {
			out = append(out, id)
		}
	}
	return out
}

// Contains reports whether id occupies either slot.
func (s Selection) Contains(id string) bool {
	id = strings.TrimSpace(id)
	return id != "" && (s[0] == id || s[1] == id)
}

// Priority returns 1 or 2 for a selected id and 0 otherwise.
func (s Selection) Priority(id string) int {
	id = strings.TrimSpace(id)
	switch {
	case id == "":
		return 0
	case s[0] == id:
		return 1
	case s[1] == id:
		return 2
	default:
		return 0
	}
}

// Full reports whether both slots are taken.
func (s Selection) Full() bool {
	return s[0] != "" && s[1] != ""
}

// Toggle removes id when it is selected and adds it to the first free slot
// otherwise. Removing the priority 1 id promotes priority 2 into its place.
// Adding to a full selection is a no-op.
func (s Selection) Toggle(id string) Selection {
	id = strings.TrimSpace(id)
	if id == "" {
		return s
	}
	switch id {
	case s[0]:
		return Selection{s[1], ""}
	case s[1]:
		return Selection{s[0], ""}
	}
	switch {
	case s[0] == "":
		return Selection{id, s[1]}
	case s[1] == "":
		return Selection{s[0], id}
	default:
		return s
	}
}
