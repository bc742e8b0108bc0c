// Package rank merges candidate batches from multiple query sweeps into a
// single duplicate-free, relevance-ordered list. No I/O.
package rank

import (
	"sort"

	"github.com/connectsphere/connect-cli/internal/model"
)

// Merge deduplicates candidates across batches by identity key and orders
// the survivors by descending total score. When two candidates share a
// key, the higher-scored one is kept (first seen wins ties). The sort is
// stable, so equally scored candidates keep their input order.
//
// Merge is idempotent: feeding its output back in yields the same list.
func Merge(batches ...[]model.ProfileCandidate) []model.ProfileCandidate {
	byKey := make(map[string]int)
	var out []model.ProfileCandidate

	for _, batch := range batches {
		for _, c := range batch {
			key := c.IdentityKey()
			if i, ok := byKey[key]; ok {
				if c.TotalScore() > out[i].TotalScore() {
					out[i] = c
				}
				continue
			}
			byKey[key] = len(out)
			out = append(out, c)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalScore() > out[j].TotalScore()
	})
	return out
}
