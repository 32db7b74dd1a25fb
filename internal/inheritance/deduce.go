package inheritance

import (
	"sort"

	"github.com/vlinker/variant-linker/internal/genotype"
)

// Deduce emits candidate inheritance patterns for one variant from its
// genotype matrix row plus whatever pedigree/trio context is available,
// selecting a mode by the priority order in spec.md §4.8.
func Deduce(in DeduceInput) []Pattern {
	switch {
	case len(in.Pedigree) > 0:
		return deducePED(in)
	case in.SampleMap != nil && hasTrio(in.Genotypes, *in.SampleMap):
		return deduceTrio(in.Genotypes, in.SampleMap.Index, in.SampleMap.Mother, in.SampleMap.Father, in.Chrom)
	case countGenotyped(in.Genotypes) >= 3:
		index, mother, father := defaultTrio(in.SampleOrder)
		return deduceTrio(in.Genotypes, index, mother, father, in.Chrom)
	default:
		return deduceSingleSample(in.Genotypes, in.SampleOrder, in.Chrom)
	}
}

func hasTrio(genotypes map[string]string, tm TrioMap) bool {
	if tm.Index == "" || tm.Mother == "" || tm.Father == "" {
		return false
	}
	_, iok := genotypes[tm.Index]
	_, mok := genotypes[tm.Mother]
	_, fok := genotypes[tm.Father]
	return iok && mok && fok
}

func countGenotyped(genotypes map[string]string) int {
	return len(genotypes)
}

func defaultTrio(sampleOrder []string) (index, mother, father string) {
	if len(sampleOrder) > 0 {
		index = sampleOrder[0]
	}
	if len(sampleOrder) > 1 {
		mother = sampleOrder[1]
	}
	if len(sampleOrder) > 2 {
		father = sampleOrder[2]
	}
	return
}

// deducePED implements spec.md §4.8 mode 1: partition genotyped individuals
// into affected/unaffected using the pedigree, then test each candidate
// pattern against those sets.
func deducePED(in DeduceInput) []Pattern {
	var affected, unaffected []string
	for sample, entry := range in.Pedigree {
		if _, genotyped := in.Genotypes[sample]; !genotyped {
			continue
		}
		if entry.IsAffected() {
			affected = append(affected, sample)
		} else {
			unaffected = append(unaffected, sample)
		}
	}
	sort.Strings(affected)
	sort.Strings(unaffected)

	anyVariant := false
	for _, s := range append(append([]string{}, affected...), unaffected...) {
		if genotype.IsVariant(in.Genotypes[s]) {
			anyVariant = true
			break
		}
	}
	if !anyVariant {
		return []Pattern{PatternReference}
	}

	affectedHasGenotype := false
	for _, s := range affected {
		if !genotype.IsMissing(in.Genotypes[s]) {
			affectedHasGenotype = true
			break
		}
	}
	if !affectedHasGenotype {
		return []Pattern{PatternUnknownNoAffectedWithGenotype}
	}

	var candidates []Pattern

	allAffectedVariant := true
	anyAffectedMissing := false
	for _, s := range affected {
		gt := in.Genotypes[s]
		if genotype.IsMissing(gt) {
			anyAffectedMissing = true
			continue
		}
		if !genotype.IsVariant(gt) {
			allAffectedVariant = false
		}
	}

	// Unaffected carriers don't disqualify a dominant pattern (incomplete
	// penetrance), they're just not required for it to hold.
	if allAffectedVariant && len(affected) > 0 {
		if IsX(in.Chrom) {
			candidates = append(candidates, PatternXLinkedDominant)
		}
		candidates = append(candidates, PatternAutosomalDominant)
	}

	allAffectedHomAlt := len(affected) > 0
	for _, s := range affected {
		if !genotype.IsHomAlt(in.Genotypes[s]) {
			allAffectedHomAlt = false
			break
		}
	}
	allUnaffectedNotHomAlt := true
	for _, s := range unaffected {
		if genotype.IsHomAlt(in.Genotypes[s]) {
			allUnaffectedNotHomAlt = false
			break
		}
	}
	if allAffectedHomAlt && allUnaffectedNotHomAlt {
		if IsX(in.Chrom) {
			candidates = append(candidates, PatternXLinkedRecessive)
		}
		candidates = append(candidates, PatternAutosomalRecessive)
	}

	if len(candidates) == 0 {
		if anyAffectedMissing {
			candidates = append(candidates, PatternUnknownWithMissingData)
		} else {
			candidates = append(candidates, PatternNonMendelian)
		}
	}

	return dedupePatterns(candidates)
}

// deduceTrio implements spec.md §4.8 modes 2-3, applying the trio rules
// table against index/mother/father genotypes.
func deduceTrio(genotypes map[string]string, index, mother, father, chrom string) []Pattern {
	gi, gm, gf := genotypes[index], genotypes[mother], genotypes[father]

	if genotype.IsMissing(gi) {
		return []Pattern{PatternUnknownMissingGenotype}
	}

	var patterns []Pattern
	onX := IsX(chrom)

	switch {
	case genotype.IsVariant(gi) && genotype.IsRef(gm) && genotype.IsRef(gf):
		patterns = append(patterns, PatternDeNovo)

	case genotype.IsVariant(gi) && exactlyOneRefOtherMissing(gm, gf):
		patterns = append(patterns, PatternDeNovoCandidate)
	}

	if genotype.IsHomAlt(gi) {
		switch {
		case genotype.IsHet(gm) && genotype.IsHet(gf):
			patterns = append(patterns, PatternAutosomalRecessive)
		case exactlyOneHetOtherMissing(gm, gf):
			patterns = append(patterns, PatternAutosomalRecessivePossible)
		}
	}

	if genotype.IsHet(gi) || genotype.IsHomAlt(gi) {
		parentVariant := (genotype.IsVariant(gm) && !genotype.IsRef(gm)) || (genotype.IsVariant(gf) && !genotype.IsRef(gf))
		if parentVariant {
			patterns = append(patterns, PatternAutosomalDominant)
		} else if oneParentMissingOtherVariant(gm, gf) {
			patterns = append(patterns, PatternAutosomalDominantPossible)
		}
	}

	if onX {
		patterns = append(patterns, deduceXLinked(gi, gm, gf)...)
	}

	if len(patterns) == 0 {
		if genotype.IsVariant(gi) {
			patterns = append(patterns, PatternNonMendelian)
		} else {
			patterns = append(patterns, PatternReference)
		}
	}

	return dedupePatterns(patterns)
}

func exactlyOneRefOtherMissing(a, b string) bool {
	return (genotype.IsRef(a) && genotype.IsMissing(b)) || (genotype.IsMissing(a) && genotype.IsRef(b))
}

func exactlyOneHetOtherMissing(a, b string) bool {
	return (genotype.IsHet(a) && genotype.IsMissing(b)) || (genotype.IsMissing(a) && genotype.IsHet(b))
}

func oneParentMissingOtherVariant(a, b string) bool {
	return (genotype.IsMissing(a) && genotype.IsVariant(b)) || (genotype.IsVariant(a) && genotype.IsMissing(b))
}

// deduceXLinked applies the X-chromosome trio rules (spec.md §4.8): male
// index genotypes are hemizygous and read as homAlt/ref by the same
// genotype predicates.
func deduceXLinked(gi, gm, gf string) []Pattern {
	var out []Pattern

	if genotype.IsVariant(gi) && genotype.IsVariant(gm) && genotype.IsRef(gf) {
		out = append(out, PatternXLinkedRecessive)
	}
	if genotype.IsHomAlt(gi) && genotype.IsVariant(gm) && genotype.IsVariant(gf) {
		out = append(out, PatternXLinkedRecessive)
	}
	if genotype.IsVariant(gi) && genotype.IsVariant(gm) {
		out = append(out, PatternXLinkedDominant)
	}

	return out
}

// deduceSingleSample implements spec.md §4.8 mode 4.
func deduceSingleSample(genotypes map[string]string, sampleOrder []string, chrom string) []Pattern {
	var sample string
	if len(sampleOrder) > 0 {
		sample = sampleOrder[0]
	} else {
		for s := range genotypes {
			sample = s
			break
		}
	}

	gt, ok := genotypes[sample]
	if !ok || genotype.IsMissing(gt) {
		return []Pattern{PatternUnknownMissingGenotype}
	}

	switch {
	case genotype.IsRef(gt):
		return []Pattern{PatternReference}
	case genotype.IsHomAlt(gt):
		patterns := []Pattern{PatternHomozygous}
		if IsX(chrom) {
			patterns = append(patterns, PatternPotentialXLinked)
		}
		return patterns
	default:
		patterns := []Pattern{PatternDominant}
		if IsX(chrom) {
			patterns = append(patterns, PatternPotentialXLinked)
		}
		return patterns
	}
}

func dedupePatterns(patterns []Pattern) []Pattern {
	seen := make(map[Pattern]bool, len(patterns))
	out := make([]Pattern, 0, len(patterns))
	for _, p := range patterns {
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}
