package main

import (
	"bitbucket.org/mrrlab/sfbias/mixture"
	"bitbucket.org/mrrlab/sfbias/stats"
)

// RunSummary stores the summary of an sfbias run.
type RunSummary struct {
	// Version stores the sfbias version.
	Version string `json:"version"`
	// CommandLine is an array storing binary name and all command-line parameters.
	CommandLine []string `json:"commandLine"`
	// Seed is the seed used for random number generation initialization.
	Seed int64 `json:"seed"`
	// NThreads is the number of processes used.
	NThreads int `json:"nThreads"`
	// NTaxa is the number of taxa in the input table.
	NTaxa int `json:"nTaxa"`
	// Method is the scalar minimization backend.
	Method string `json:"method"`
	// EM is the mixture estimation result.
	EM *mixture.Result `json:"em"`
	// WLS is the weighted least-squares bias estimate.
	WLS *stats.WLSResult `json:"wls"`
	// Time is the computation time in seconds.
	Time float64 `json:"time"`
}
