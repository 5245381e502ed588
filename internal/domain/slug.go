package domain

import "github.com/gosimple/slug"

// Slug canonicalizes a categorical label, e.g. "New England" -> "new-england".
func Slug(label string) string {
	return slug.Make(label)
}

// OptionSlugs returns the canonical form of every option of a categorical question.
func (q Question) OptionSlugs() []string {
	out := make([]string, 0, len(q.Options))
	for _, opt := range q.Options {
		out = append(out, Slug(opt))
	}
	return out
}
