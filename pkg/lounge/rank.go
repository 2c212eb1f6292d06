package lounge

import (
	"strconv"
	"strings"
)

// Rank is a parsed rank label such as "Gold 2" or "Grandmaster".
type Rank struct {
	Division string `json:"division"`
	Level    *int   `json:"level,omitempty"`
	Name     string `json:"name"`
}

// ParseRank splits a rank label into its division and optional level.
// Labels without a level ("Grandmaster") yield a nil Level.
func ParseRank(label string) Rank {
	r := Rank{Name: label}
	division, levelPart, found := strings.Cut(label, " ")
	if !found {
		r.Division = label
		return r
	}
	r.Division = division
	if level, err := strconv.Atoi(levelPart); err == nil {
		r.Level = &level
	}
	return r
}

// Raw exports the rank back into its raw mapping form.
func (r Rank) Raw() map[string]any {
	m := map[string]any{
		"division": r.Division,
		"name":     r.Name,
	}
	putOpt(m, "level", r.Level)
	return m
}

func (r Rank) String() string { return r.Name }
