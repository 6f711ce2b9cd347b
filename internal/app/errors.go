package app

import "errors"

var (
	ErrNoContent        = errors.New("could not read file content")
	ErrNotTravelRelated = errors.New("document does not appear to be travel/tourism related")
	ErrPackageNotFound  = errors.New("travel package not found")
	ErrStoreUnavailable = errors.New("database is not available")
)
