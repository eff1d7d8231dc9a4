package naming

import "strconv"

// Scope hands out unique names. The first claim of a name returns it
// unchanged; later claims get a numeric suffix starting at 2. A zero Scope
// is ready to use.
type Scope struct {
	used map[string]int
}

// NewScope returns a scope with the given names already taken.
func NewScope(taken ...string) *Scope {
	s := &Scope{}
	for _, name := range taken {
		s.Claim(name)
	}
	return s
}

// Claim reserves name and returns the identifier to use.
func (s *Scope) Claim(name string) string {
	if s.used == nil {
		s.used = make(map[string]int)
	}
	count, taken := s.used[name]
	if !taken {
		s.used[name] = 1
		return name
	}
	for {
		count++
		candidate := name + strconv.Itoa(count)
		if _, exists := s.used[candidate]; exists {
			continue
		}
		s.used[name] = count
		s.used[candidate] = 1
		return candidate
	}
}

// Taken reports whether name has been claimed.
func (s *Scope) Taken(name string) bool {
	if s == nil || s.used == nil {
		return false
	}
	_, ok := s.used[name]
	return ok
}
