package event

import "strings"

// Topic is a hierarchical event type in dot notation.
type Topic string

// Topics published in this module.
const (
	TopicBufferChanged      Topic = "buffer.content.changed"
	TopicConfigChanged      Topic = "config.copyedit.changed"
	TopicDecorationsUpdated Topic = "annotation.decorations.updated"
)

// Wildcards usable in subscription patterns.
const (
	WildcardSingle = "*"
	WildcardMulti  = "**"
	separator      = "."
)

// String returns the topic as a string.
func (t Topic) String() string {
	return string(t)
}

// Segments returns the topic split on dots.
func (t Topic) Segments() []string {
	if t == "" {
		return nil
	}
	return strings.Split(string(t), separator)
}

// IsValid reports whether the topic is non-empty with no empty segments.
func (t Topic) IsValid() bool {
	if t == "" {
		return false
	}
	for _, seg := range t.Segments() {
		if seg == "" {
			return false
		}
	}
	return true
}

// Matches reports whether the topic matches pattern.
func (t Topic) Matches(pattern Topic) bool {
	return matchSegments(t.Segments(), pattern.Segments())
}

func matchSegments(topic, pattern []string) bool {
	for i, p := range pattern {
		if p == WildcardMulti {
			// ** swallows whatever is left, including nothing.
			for j := i; j <= len(topic); j++ {
				if matchSegments(topic[j:], pattern[i+1:]) {
					return true
				}
			}
			return false
		}
		if i >= len(topic) {
			return false
		}
		if p != WildcardSingle && p != topic[i] {
			return false
		}
	}
	return len(topic) == len(pattern)
}
