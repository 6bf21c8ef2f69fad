package auth

import "strings"

// ============================================================================
// DOMAIN-SPECIFIC SCOPES - Applicant intake
// ============================================================================

const (
	ScopeAll = "*"

	// Processor runs
	ScopeRunsAll   = "runs:*"
	ScopeRunsWrite = "runs:write"

	// Applicant maintenance
	ScopeApplicantsAll        = "applicants:*"
	ScopeApplicantsDecompress = "applicants:decompress"
	ScopeApplicantsExport     = "applicants:export"

	// Shortlist rules
	ScopeShortlistAll     = "shortlist:*"
	ScopeShortlistPreview = "shortlist:preview"
)

// DomainScopeCategories organizes domain-specific scopes
var DomainScopeCategories = map[string][]string{
	"Runs": {
		ScopeRunsAll,
		ScopeRunsWrite,
	},
	"Applicants": {
		ScopeApplicantsAll,
		ScopeApplicantsDecompress,
		ScopeApplicantsExport,
	},
	"Shortlist": {
		ScopeShortlistAll,
		ScopeShortlistPreview,
	},
}

// ScopeGranted reports whether granted covers required.
// "*" covers everything and "x:*" covers every "x:..." scope.
func ScopeGranted(granted []string, required string) bool {
	for _, g := range granted {
		if g == ScopeAll || g == required {
			return true
		}
		if prefix, ok := strings.CutSuffix(g, ":*"); ok && strings.HasPrefix(required, prefix+":") {
			return true
		}
	}
	return false
}

// IsKnownScope reports whether scope is declared in DomainScopeCategories
func IsKnownScope(scope string) bool {
	if scope == ScopeAll {
		return true
	}
	for _, scopes := range DomainScopeCategories {
		for _, s := range scopes {
			if s == scope {
				return true
			}
		}
	}
	return false
}
