package domain

import "fmt"

// Tag policy modes. In curated mode every tag must appear in the
// allowed list; in open mode tags are unrestricted.
const (
	TagPolicyCurated = "curated"
	TagPolicyOpen    = "open"
)

// Enumerated front-matter field names, as used in taxonomy lookups
// and validation rule reporting.
const (
	FieldDomain   = "domain"
	FieldStatus   = "status"
	FieldAudience = "audience"
	FieldTags     = "tags"
)

// TagPolicy controls how the tags field is validated.
type TagPolicy struct {
	Mode        string   `json:"mode"`
	AllowedTags []string `json:"allowed_tags"`
}

// Taxonomy is the controlled vocabulary for front-matter fields.
// It is loaded once per build and must not be mutated afterwards;
// all validation calls share it read-only.
type Taxonomy struct {
	Domains   []string  `json:"domains"`
	Status    []string  `json:"status"`
	Audience  []string  `json:"audience"`
	TagPolicy TagPolicy `json:"tag_policy"`
}

// Validate checks the taxonomy for internal consistency.
func (t *Taxonomy) Validate() error {
	if len(t.Domains) == 0 {
		return fmt.Errorf("%w: taxonomy has no domains", ErrSchema)
	}
	if len(t.Status) == 0 {
		return fmt.Errorf("%w: taxonomy has no status values", ErrSchema)
	}
	if len(t.Audience) == 0 {
		return fmt.Errorf("%w: taxonomy has no audience values", ErrSchema)
	}
	for field, values := range map[string][]string{
		FieldDomain:   t.Domains,
		FieldStatus:   t.Status,
		FieldAudience: t.Audience,
		FieldTags:     t.TagPolicy.AllowedTags,
	} {
		seen := make(map[string]struct{}, len(values))
		for _, v := range values {
			if v == "" {
				return fmt.Errorf("%w: taxonomy field %q contains an empty value", ErrSchema, field)
			}
			if _, dup := seen[v]; dup {
				return fmt.Errorf("%w: taxonomy field %q contains duplicate value %q", ErrSchema, field, v)
			}
			seen[v] = struct{}{}
		}
	}
	switch t.TagPolicy.Mode {
	case TagPolicyCurated, TagPolicyOpen:
	case "":
		return fmt.Errorf("%w: taxonomy tag_policy.mode is missing", ErrSchema)
	default:
		return fmt.Errorf("%w: unknown tag_policy.mode %q", ErrSchema, t.TagPolicy.Mode)
	}
	return nil
}

// Allows reports whether value is an allowed member of the named
// enumerated field.
func (t *Taxonomy) Allows(field, value string) bool {
	var values []string
	switch field {
	case FieldDomain:
		values = t.Domains
	case FieldStatus:
		values = t.Status
	case FieldAudience:
		values = t.Audience
	default:
		return false
	}
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}

// AllowsTag reports whether tag is permitted under the tag policy.
func (t *Taxonomy) AllowsTag(tag string) bool {
	if t.TagPolicy.Mode != TagPolicyCurated {
		return true
	}
	for _, v := range t.TagPolicy.AllowedTags {
		if v == tag {
			return true
		}
	}
	return false
}
