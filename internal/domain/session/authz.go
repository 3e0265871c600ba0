package session

import "context"

// HasAnyRole reports whether held and required intersect. An empty required
// list admits everyone, including an absent session.
func HasAnyRole(held, required []string) bool {
	if len(required) == 0 {
		return true
	}
	for _, r := range required {
		for _, h := range held {
			if h == r {
				return true
			}
		}
	}
	return false
}

// HasAnyRole evaluates the role predicate against the current session.
func (s *Store) HasAnyRole(ctx context.Context, required ...string) bool {
	if len(required) == 0 {
		return true
	}
	return HasAnyRole(s.Roles(ctx), required)
}
