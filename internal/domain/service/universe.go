package service

import (
	"sort"
	"strings"
)

// Universe resolution policies. Intersection keeps only assets listed on
// every reporting exchange; quorum keeps assets listed on at least MinCount
// of them.
const (
	PolicyIntersection = "intersection"
	PolicyQuorum       = "quorum"
)

// Listing is one exchange's market list, already normalized to canonical
// codes at the adapter boundary.
type Listing struct {
	Exchange string
	Codes    []string
}

// ResolveUniverse computes the set of canonical codes to subscribe to.
// Listings from exchanges whose fetch failed are simply not passed in; the
// policy applies over the exchanges that did report. The result is sorted
// ascending so identical inputs always yield the identical output. An empty
// result is valid and means zero subscriptions.
func ResolveUniverse(listings []Listing, policy string, minCount int) []string {
	if len(listings) == 0 {
		return nil
	}

	need := minCount
	if policy == PolicyIntersection {
		need = len(listings)
	}
	if need < 1 {
		need = 1
	}

	counts := make(map[string]int)
	for _, l := range listings {
		seen := make(map[string]struct{}, len(l.Codes))
		for _, c := range l.Codes {
			u := strings.ToUpper(strings.TrimSpace(c))
			if u == "" {
				continue
			}
			// a duplicate within one listing counts once
			if _, dup := seen[u]; dup {
				continue
			}
			seen[u] = struct{}{}
			counts[u]++
		}
	}

	out := make([]string, 0, len(counts))
	for code, n := range counts {
		if n >= need {
			out = append(out, code)
		}
	}
	sort.Strings(out)
	return out
}
