package common

// FailurePolicy decides what a fetcher does when its upstream call fails.
type FailurePolicy string

const (
	// FailurePolicyDegrade substitutes the fetcher's sentinel value and logs a warning.
	FailurePolicyDegrade FailurePolicy = "degrade"
	// FailurePolicyFailFast returns the error, aborting the run before any email is sent.
	FailurePolicyFailFast FailurePolicy = "fail_fast"
)

// Degrades reports whether fetch failures should be substituted rather than returned.
// Unknown values degrade.
func (p FailurePolicy) Degrades() bool {
	return p != FailurePolicyFailFast
}
