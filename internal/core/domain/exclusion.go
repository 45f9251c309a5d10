package domain

// DefaultExcludedGlobs are the excluded-path predicates applied during
// document discovery. Documents under these directories never reach the
// export, regardless of status. Expressed as glob patterns rather than
// hard-coded path checks so the rule is testable in isolation and
// configurable per repository.
var DefaultExcludedGlobs = []string{
	"**/_drafts/**",
	"**/_templates/**",
	"**/_deprecated/**",
}

// DefaultIncludeGlob selects candidate document files during discovery.
const DefaultIncludeGlob = "**/*.md"
