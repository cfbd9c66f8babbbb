package urgency

import (
	"strings"
)

// Class is the coarse priority tier derived from a perishability description.
type Class string

const (
	Urgent   Class = "URGENT"
	Moderate Class = "MODERATE"
	Stable   Class = "STABLE"
)

// Rank returns the sortable priority of the class; lower sorts first.
func (c Class) Rank() int {
	switch c {
	case Urgent:
		return 0
	case Moderate:
		return 1
	case Stable:
		return 2
	default:
		return 3
	}
}

// rule maps a lowercase substring to a class. Rules are checked in order and
// the first match wins, so more urgent patterns come first.
type rule struct {
	pattern string
	class   Class
}

var defaultRules = []rule{
	{"2hr", Urgent},
	{"perishable", Urgent},
	{"24hr", Moderate},
	{"stable", Moderate},
}

// Classifier classifies perishability tags against a rule table.
// The zero value is not usable; use NewClassifier.
type Classifier struct {
	rules []rule
}

// NewClassifier returns a classifier with the default rule table, optionally
// extended with extra substrings that should map to Urgent (e.g. "asap").
func NewClassifier(urgentSynonyms ...string) *Classifier {
	rules := make([]rule, 0, len(defaultRules)+len(urgentSynonyms))
	for _, syn := range urgentSynonyms {
		if s := strings.ToLower(strings.TrimSpace(syn)); s != "" {
			rules = append(rules, rule{s, Urgent})
		}
	}
	rules = append(rules, defaultRules...)
	return &Classifier{rules: rules}
}

// Classify maps a free-text perishability tag to a class. It is total: an
// empty or unmatched tag yields Stable.
func (c *Classifier) Classify(tag string) Class {
	t := strings.ToLower(tag)
	if t == "" {
		return Stable
	}
	for _, r := range c.rules {
		if strings.Contains(t, r.pattern) {
			return r.class
		}
	}
	return Stable
}

// Classify classifies with the default rule table.
func Classify(tag string) Class {
	return NewClassifier().Classify(tag)
}
