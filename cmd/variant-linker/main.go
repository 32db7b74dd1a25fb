// Command variant-linker annotates genetic variants with Ensembl VEP
// consequence predictions and, given pedigree information, deduces their
// inheritance pattern (spec.md §6).
package main

import "os"

func main() {
	os.Exit(run())
}

func run() int {
	if err := newRootCmd().Execute(); err != nil {
		return ExitError
	}
	return ExitSuccess
}

// Exit codes (spec.md §7's propagation policy).
const (
	ExitSuccess = 0
	ExitError   = 1
	ExitUsage   = 2
)
