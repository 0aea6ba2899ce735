package bundle

import "errors"

// Package errors.
var (
	// ErrSiteNotFound is returned when a site reference does not resolve.
	ErrSiteNotFound = errors.New("nabu: site not found")
	// ErrNotOwner is returned when a site belongs to another customer.
	ErrNotOwner = errors.New("nabu: customer is not the owner of the site")
	// ErrMissingPackage is returned when an archive has no data/package.xml.
	ErrMissingPackage = errors.New("nabu: archive has no package entry")
	// ErrEmptyPackage is returned when the package entry is empty.
	ErrEmptyPackage = errors.New("nabu: package entry is empty")
	// ErrInvalidPackage is returned when the package document is malformed.
	ErrInvalidPackage = errors.New("nabu: invalid package document")
	// ErrFrozen is returned when a package is modified after its export.
	ErrFrozen = errors.New("nabu: package already exported")
)
