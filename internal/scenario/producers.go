package scenario

import (
	"sort"
	"strings"

	"github.com/vango-dev/depstate/internal/errors"
)

// Producer computes a state from the previous one. ok is false when there is
// no previous state (the hook is mounting).
type Producer func(prev any, ok bool) any

var producers = map[string]Producer{
	// increment counts from 1. A missing or non-numeric state counts as absent.
	"increment": func(prev any, ok bool) any {
		if n, isNumber := prev.(float64); ok && isNumber {
			return n + 1
		}
		return float64(1)
	},
	"double": func(prev any, ok bool) any {
		if n, isNumber := prev.(float64); ok && isNumber {
			return n * 2
		}
		return float64(1)
	},
	"keep": func(prev any, ok bool) any {
		if !ok {
			return nil
		}
		return prev
	},
	"reset": func(any, bool) any {
		return nil
	},
}

// LookupProducer returns the named producer, or E121.
func LookupProducer(name string) (Producer, error) {
	p, ok := producers[name]
	if !ok {
		return nil, errors.New("E121").
			WithDetailf("unknown producer %q; known producers are %s", name, strings.Join(ProducerNames(), ", "))
	}
	return p, nil
}

// ProducerNames returns the known producer names, sorted.
func ProducerNames() []string {
	names := make([]string, 0, len(producers))
	for name := range producers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
