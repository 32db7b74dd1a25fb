package vcfio

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Sex is a PED-file sex code.
type Sex int

const (
	SexUnknown Sex = 0
	SexMale    Sex = 1
	SexFemale  Sex = 2
)

// AffectedStatus is a PED-file phenotype code.
type AffectedStatus int

const (
	StatusUnknown    AffectedStatus = 0
	StatusUnaffected AffectedStatus = 1
	StatusAffected   AffectedStatus = 2
)

// PedigreeEntry is one line of a PED file: a sample's family relationships
// and phenotype, used to deduce and segregate inheritance patterns
// (spec.md §4.3, §4.8, §4.9).
type PedigreeEntry struct {
	FamilyID string
	SampleID string
	FatherID string // "0" if unknown/founder
	MotherID string // "0" if unknown/founder
	Sex      Sex
	Affected AffectedStatus
}

// HasFather reports whether FatherID refers to a real sample.
func (p PedigreeEntry) HasFather() bool { return p.FatherID != "" && p.FatherID != "0" }

// HasMother reports whether MotherID refers to a real sample.
func (p PedigreeEntry) HasMother() bool { return p.MotherID != "" && p.MotherID != "0" }

// IsAffected reports whether the sample is marked as affected.
func (p PedigreeEntry) IsAffected() bool { return p.Affected == StatusAffected }

// ReadPedigree parses a PED-format pedigree file into a map keyed by
// SampleID. Lines are whitespace-delimited (tabs or spaces, per common PED
// practice); blank lines and lines starting with "#" are skipped.
func ReadPedigree(path string) (map[string]PedigreeEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pedigree file: %w", err)
	}
	defer f.Close()

	entries := make(map[string]PedigreeEntry)
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 6 {
			return nil, fmt.Errorf("pedigree line %d: expected at least 6 columns, found %d", lineNo, len(fields))
		}

		sex, err := parseIntField(fields[4])
		if err != nil {
			return nil, fmt.Errorf("pedigree line %d: invalid sex code %q: %w", lineNo, fields[4], err)
		}
		status, err := parseIntField(fields[5])
		if err != nil {
			return nil, fmt.Errorf("pedigree line %d: invalid phenotype code %q: %w", lineNo, fields[5], err)
		}
		if status < 0 {
			status = 0 // PLINK's -9 "missing" convention collapses to unknown
		}

		entry := PedigreeEntry{
			FamilyID: fields[0],
			SampleID: fields[1],
			FatherID: fields[2],
			MotherID: fields[3],
			Sex:      Sex(sex),
			Affected: AffectedStatus(status),
		}
		entries[entry.SampleID] = entry
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read pedigree file: %w", err)
	}

	return entries, nil
}

func parseIntField(s string) (int, error) {
	return strconv.Atoi(s)
}
