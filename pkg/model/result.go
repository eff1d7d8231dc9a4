package model

import (
	"errors"
	"fmt"
	"strings"
)

// Result is the ordered output of one generation run. Records[0] is the
// root record. Reason explains empty or failed runs.
type Result struct {
	Records []Record `json:"records"`
	Reason  string   `json:"reason,omitempty"`
}

// Empty reports whether the run produced no records.
func (r Result) Empty() bool {
	return len(r.Records) == 0
}

// Root returns the root record.
func (r Result) Root() (Record, bool) {
	if len(r.Records) == 0 {
		return Record{}, false
	}
	return r.Records[0], true
}

// Names returns record names in output order.
func (r Result) Names() []string {
	names := make([]string, 0, len(r.Records))
	for _, record := range r.Records {
		names = append(names, record.Name)
	}
	return names
}

// Lookup finds a record by name.
func (r Result) Lookup(name string) (Record, bool) {
	for _, record := range r.Records {
		if record.Name == name {
			return record, true
		}
	}
	return Record{}, false
}

// DeclarationOrder returns the records ordered so every record follows the
// records it references. Ties keep output order, and reference cycles fall
// back to output order for the records involved.
func (r Result) DeclarationOrder() []Record {
	index := make(map[string]int, len(r.Records))
	for idx, record := range r.Records {
		index[record.Name] = idx
	}

	out := make([]Record, 0, len(r.Records))
	state := make([]uint8, len(r.Records))
	var visit func(idx int)
	visit = func(idx int) {
		if state[idx] != 0 {
			return
		}
		state[idx] = 1
		for _, ref := range r.Records[idx].References() {
			if dep, ok := index[ref]; ok && state[dep] == 0 {
				visit(dep)
			}
		}
		state[idx] = 2
		out = append(out, r.Records[idx])
	}
	for idx := range r.Records {
		visit(idx)
	}
	return out
}

// ErrInvalidResult marks invariant violations detected by Validate.
var ErrInvalidResult = errors.New("model: invalid result")

// Validate checks that names are unique and every referenced record is
// present exactly once.
func (r Result) Validate() error {
	seen := make(map[string]struct{}, len(r.Records))
	var problems []string
	for _, record := range r.Records {
		if strings.TrimSpace(record.Name) == "" {
			problems = append(problems, "record without name")
			continue
		}
		if _, dup := seen[record.Name]; dup {
			problems = append(problems, fmt.Sprintf("duplicate record %q", record.Name))
		}
		seen[record.Name] = struct{}{}
	}
	for _, record := range r.Records {
		for _, ref := range record.References() {
			if _, ok := seen[ref]; !ok {
				problems = append(problems, fmt.Sprintf("%s references missing record %q", record.Name, ref))
			}
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidResult, strings.Join(problems, "; "))
	}
	return nil
}
