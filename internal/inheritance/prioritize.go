package inheritance

import "strings"

// priorityRank orders patterns from strongest to weakest evidence, per
// spec.md §4.10. Lower rank wins. `_possible` forms are ranked together,
// below all confirmed patterns and above `reference`/`non_mendelian`/
// `unknown_*`.
var priorityRank = map[Pattern]int{
	PatternDeNovo:               0,
	PatternCompoundHeterozygous: 1,
	PatternAutosomalRecessive:   2,
	PatternXLinkedRecessive:     3,
	PatternXLinkedDominant:      4,
	PatternAutosomalDominant:    5,
}

const (
	rankPossible     = 6
	rankOther        = 7 // dominant/homozygous and any pattern without an explicit rank
	rankReference    = 8
	rankNonMendelian = 9
	rankUnknown      = 10
)

func rankOf(p Pattern) int {
	if r, ok := priorityRank[p]; ok {
		return r
	}
	switch {
	case strings.HasSuffix(string(p), "_possible"):
		return rankPossible
	case p == PatternReference:
		return rankReference
	case p == PatternNonMendelian:
		return rankNonMendelian
	case strings.HasPrefix(string(p), "unknown"):
		return rankUnknown
	default:
		return rankOther
	}
}

// Prioritize selects one pattern from candidates by the spec.md §4.10 rank
// order, demoting a candidate whose segregation status is
// DoesNotSegregate below any `_possible` form it would otherwise outrank.
func Prioritize(candidates []Pattern, segregation map[Pattern]SegregationStatus) Pattern {
	if len(candidates) == 0 {
		return PatternNonMendelian
	}

	best := candidates[0]
	bestRank := effectiveRank(best, segregation)

	for _, c := range candidates[1:] {
		r := effectiveRank(c, segregation)
		if r < bestRank {
			best = c
			bestRank = r
		}
	}
	return best
}

func effectiveRank(p Pattern, segregation map[Pattern]SegregationStatus) int {
	rank := rankOf(p)
	if segregation != nil && segregation[p] == DoesNotSegregate && rank < rankPossible {
		return rankPossible + 1 // demoted below any `_possible` candidate
	}
	return rank
}
