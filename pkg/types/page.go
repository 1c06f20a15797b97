// Package types defines the page variants and create payloads shared between
// the query builders, the result shaper and the HTTP handlers.
package types

import "fmt"

// PageType is the closed set of page variants in the social graph. Every page
// is exactly one of these; the shaper rejects results that claim zero or more
// than one.
type PageType string

const (
	PagePerson       PageType = "person"
	PageOrganization PageType = "organization"
	PageGroup        PageType = "group"
)

// ParsePageType maps a store-reported variant label onto the closed PageType
// set. Unknown labels are an error, never coerced.
func ParsePageType(label string) (PageType, error) {
	switch PageType(label) {
	case PagePerson:
		return PagePerson, nil
	case PageOrganization:
		return PageOrganization, nil
	case PageGroup:
		return PageGroup, nil
	}
	return "", fmt.Errorf("unknown page type %q", label)
}

// String returns the wire label for the variant.
func (t PageType) String() string { return string(t) }
