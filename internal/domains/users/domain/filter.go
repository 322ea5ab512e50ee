package domain

import (
	"strings"
	"unicode"
)

// Filter is the parsed form of the free-text user search.
//
// Text containing '@' only ever matches emails; names are assumed not to carry one.
// Otherwise the text matches first or last name, and when it contains whitespace
// it may also match the "first last" concatenation.
type Filter struct {
	text       string
	emailOnly  bool
	whitespace bool
}

// ParseFilter lower-cases the raw text. Blank text yields an empty filter that matches everything.
func ParseFilter(raw string) Filter {
	if strings.TrimSpace(raw) == "" {
		return Filter{}
	}
	text := strings.ToLower(raw)
	return Filter{
		text:       text,
		emailOnly:  strings.Contains(text, "@"),
		whitespace: strings.IndexFunc(text, unicode.IsSpace) >= 0,
	}
}

// Empty reports whether the filter applies no restriction.
func (f Filter) Empty() bool { return f.text == "" }

// Text returns the lower-cased filter text.
func (f Filter) Text() string { return f.text }

// EmailOnly reports whether only the email column is searched.
func (f Filter) EmailOnly() bool { return f.emailOnly }

// MatchesFullName reports whether the "first last" concatenation is searched too.
func (f Filter) MatchesFullName() bool { return !f.emailOnly && f.whitespace }

// Matches evaluates the filter against a user.
func (f Filter) Matches(u *User) bool {
	if f.Empty() {
		return true
	}
	if u == nil {
		return false
	}
	if f.emailOnly {
		return strings.Contains(strings.ToLower(u.Email), f.text)
	}
	if strings.Contains(strings.ToLower(u.FirstName), f.text) ||
		strings.Contains(strings.ToLower(u.LastName), f.text) {
		return true
	}
	return f.whitespace && strings.Contains(strings.ToLower(u.FullName()), f.text)
}
