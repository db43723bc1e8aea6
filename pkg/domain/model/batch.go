package model

// BatchManifest is the TOML document consumed by the batch command
type BatchManifest struct {
	Documents []SaveRequest `toml:"document"`
}

// BatchResult holds the outcome of one manifest entry
type BatchResult struct {
	Request SaveRequest
	Outcome Outcome
}

// BatchSummary counts outcomes of a batch run
type BatchSummary struct {
	Saved     int
	Cancelled int
	Failed    int
}

// Summarize counts outcomes per state
func Summarize(results []BatchResult) BatchSummary {
	var s BatchSummary
	for _, r := range results {
		switch r.Outcome {
		case OutcomeSaved:
			s.Saved++
		case OutcomeCancelled:
			s.Cancelled++
		default:
			s.Failed++
		}
	}
	return s
}
