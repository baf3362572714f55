package domain

import "errors"

// ErrNotFound signals a storage miss for a date key or marker.
var ErrNotFound = errors.New("not found")

// ErrDistrictNotFound is returned by district lookups for unknown names.
var ErrDistrictNotFound = errors.New("district not found")
