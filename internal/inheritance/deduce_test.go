package inheritance

import (
	"reflect"
	"testing"

	"github.com/vlinker/variant-linker/internal/vcfio"
)

func TestDeduce_TrioDeNovo(t *testing.T) {
	in := DeduceInput{
		Genotypes: map[string]string{"child": "0/1", "mother": "0/0", "father": "0/0"},
		SampleMap: &TrioMap{Index: "child", Mother: "mother", Father: "father"},
		Chrom:     "1",
	}
	got := Deduce(in)
	if !reflect.DeepEqual(got, []Pattern{PatternDeNovo}) {
		t.Fatalf("got %v, want [de_novo]", got)
	}
}

func TestDeduce_TrioAutosomalRecessive(t *testing.T) {
	in := DeduceInput{
		Genotypes: map[string]string{"child": "1/1", "mother": "0/1", "father": "0/1"},
		SampleMap: &TrioMap{Index: "child", Mother: "mother", Father: "father"},
		Chrom:     "2",
	}
	got := Deduce(in)
	found := false
	for _, p := range got {
		if p == PatternAutosomalRecessive {
			found = true
		}
	}
	if !found {
		t.Fatalf("got %v, want autosomal_recessive among candidates", got)
	}
}

func TestDeduce_TrioAutosomalDominant(t *testing.T) {
	in := DeduceInput{
		Genotypes: map[string]string{"child": "0/1", "mother": "0/1", "father": "0/0"},
		SampleMap: &TrioMap{Index: "child", Mother: "mother", Father: "father"},
		Chrom:     "2",
	}
	got := Deduce(in)
	found := false
	for _, p := range got {
		if p == PatternAutosomalDominant {
			found = true
		}
	}
	if !found {
		t.Fatalf("got %v, want autosomal_dominant among candidates", got)
	}
}

func TestDeduce_DefaultTrioFallsBackWithoutExplicitSampleMap(t *testing.T) {
	in := DeduceInput{
		Genotypes:   map[string]string{"s1": "0/1", "s2": "0/0", "s3": "0/0"},
		SampleOrder: []string{"s1", "s2", "s3"},
		Chrom:       "1",
	}
	got := Deduce(in)
	if !reflect.DeepEqual(got, []Pattern{PatternDeNovo}) {
		t.Fatalf("got %v, want [de_novo]", got)
	}
}

func TestDeduce_SingleSampleHomozygous(t *testing.T) {
	in := DeduceInput{
		Genotypes:   map[string]string{"s1": "1/1"},
		SampleOrder: []string{"s1"},
		Chrom:       "1",
	}
	got := Deduce(in)
	if !reflect.DeepEqual(got, []Pattern{PatternHomozygous}) {
		t.Fatalf("got %v, want [homozygous]", got)
	}
}

func TestDeduce_SingleSampleMissingGenotype(t *testing.T) {
	in := DeduceInput{
		Genotypes:   map[string]string{"s1": "./."},
		SampleOrder: []string{"s1"},
	}
	got := Deduce(in)
	if !reflect.DeepEqual(got, []Pattern{PatternUnknownMissingGenotype}) {
		t.Fatalf("got %v, want [unknown_missing_genotype]", got)
	}
}

func TestDeduce_XLinkedRecessive(t *testing.T) {
	in := DeduceInput{
		Genotypes: map[string]string{"child": "1/1", "mother": "0/1", "father": "0/0"},
		SampleMap: &TrioMap{Index: "child", Mother: "mother", Father: "father"},
		Chrom:     "X",
	}
	got := Deduce(in)
	found := false
	for _, p := range got {
		if p == PatternXLinkedRecessive {
			found = true
		}
	}
	if !found {
		t.Fatalf("got %v, want x_linked_recessive among candidates", got)
	}
}

func TestDeduce_PEDModeAutosomalDominant(t *testing.T) {
	in := DeduceInput{
		Genotypes: map[string]string{"p1": "0/1", "p2": "0/1", "p3": "0/0"},
		Pedigree: map[string]vcfio.PedigreeEntry{
			"p1": {SampleID: "p1", Affected: vcfio.StatusAffected},
			"p2": {SampleID: "p2", Affected: vcfio.StatusAffected},
			"p3": {SampleID: "p3", Affected: vcfio.StatusUnaffected},
		},
		Chrom: "2",
	}
	got := Deduce(in)
	found := false
	for _, p := range got {
		if p == PatternAutosomalDominant {
			found = true
		}
	}
	if !found {
		t.Fatalf("got %v, want autosomal_dominant among candidates", got)
	}
}

func TestDeduce_PEDModeNoVariantIsReference(t *testing.T) {
	in := DeduceInput{
		Genotypes: map[string]string{"p1": "0/0"},
		Pedigree: map[string]vcfio.PedigreeEntry{
			"p1": {SampleID: "p1", Affected: vcfio.StatusAffected},
		},
	}
	got := Deduce(in)
	if !reflect.DeepEqual(got, []Pattern{PatternReference}) {
		t.Fatalf("got %v, want [reference]", got)
	}
}
