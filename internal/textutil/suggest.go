package textutil

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

const wordOverlapThreshold = 0.5

type suggestion struct {
	name  string
	tier  int
	score float64
	index int
}

// Suggest returns up to limit candidates that resemble name, best first.
// Subsequence matches rank ahead of word-overlap matches, which rank ahead of
// names within a small edit distance. A limit of zero or less returns every
// match.
func Suggest(name string, candidates []string, limit int) []string {
	if name == "" || len(candidates) == 0 {
		return nil
	}

	best := make(map[string]suggestion, len(candidates))
	consider := func(s suggestion) {
		if current, ok := best[s.name]; ok {
			if current.tier < s.tier || (current.tier == s.tier && current.score <= s.score) {
				return
			}
		}
		best[s.name] = s
	}

	ranks := fuzzy.RankFindFold(name, candidates)
	sort.Sort(ranks)
	for _, rank := range ranks {
		if rank.Target == name {
			continue
		}
		consider(suggestion{name: rank.Target, tier: 0, score: float64(rank.Distance), index: rank.OriginalIndex})
	}

	fingerprint := NewFingerprint(name)
	folded := strings.ToLower(name)
	maxEdits := max(2, len(folded)/4)
	for i, candidate := range candidates {
		if candidate == name {
			continue
		}
		if similarity := CosineSimilarity(fingerprint, NewFingerprint(candidate)); similarity >= wordOverlapThreshold {
			consider(suggestion{name: candidate, tier: 1, score: 1 - similarity, index: i})
			continue
		}
		if distance := fuzzy.LevenshteinDistance(folded, strings.ToLower(candidate)); distance <= maxEdits {
			consider(suggestion{name: candidate, tier: 2, score: float64(distance), index: i})
		}
	}

	ordered := make([]suggestion, 0, len(best))
	for _, s := range best {
		ordered = append(ordered, s)
	}
	sort.Slice(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.tier != b.tier {
			return a.tier < b.tier
		}
		if a.score != b.score {
			return a.score < b.score
		}
		return a.index < b.index
	})
	if limit > 0 && len(ordered) > limit {
		ordered = ordered[:limit]
	}
	out := make([]string, len(ordered))
	for i, s := range ordered {
		out[i] = s.name
	}
	return out
}
