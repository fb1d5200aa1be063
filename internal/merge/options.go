package merge

import (
	"fmt"
	"strings"
)

// NamePolicy decides which member account names the merged person.
type NamePolicy int

const (
	// NameLast keeps the name of the last account merged in, in input order.
	NameLast NamePolicy = iota
	// NameFirst keeps the name of the group's earliest account.
	NameFirst
)

func (p NamePolicy) String() string {
	switch p {
	case NameFirst:
		return "first"
	default:
		return "last"
	}
}

// ParseNamePolicy accepts "first" or "last" (case-insensitive). Empty means last.
func ParseNamePolicy(s string) (NamePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "last":
		return NameLast, nil
	case "first":
		return NameFirst, nil
	}
	return NameLast, fmt.Errorf("unknown name policy %q (want first or last)", s)
}

// prefers reports whether a name from position candidate replaces one from current.
func (p NamePolicy) prefers(candidate, current int) bool {
	if current < 0 {
		return true
	}
	if p == NameFirst {
		return candidate < current
	}
	return candidate > current
}

type config struct {
	namePolicy NamePolicy
	emailKey   func(string) string
}

// Option configures a single Merge call.
type Option func(*config)

// WithNamePolicy sets which member account names the person. The default is NameLast.
func WithNamePolicy(p NamePolicy) Option {
	return func(c *config) { c.namePolicy = p }
}

// WithEmailKey sets the function mapping an email to the key accounts are
// grouped by. The default is the email itself (exact, case-sensitive).
func WithEmailKey(fn func(string) string) Option {
	return func(c *config) {
		if fn != nil {
			c.emailKey = fn
		}
	}
}

// FoldEmail is an email key that ignores surrounding whitespace and case.
func FoldEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ExactEmail is the default email key: the email itself, case-sensitive.
func ExactEmail(email string) string { return email }

func newConfig(opts []Option) config {
	c := config{namePolicy: NameLast, emailKey: ExactEmail}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// EmailKey returns the email key function that opts configure.
func EmailKey(opts ...Option) func(string) string {
	return newConfig(opts).emailKey
}
