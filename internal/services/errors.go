package services

import (
	"errors"

	"startupconnect-backend/internal/docstore"
)

// Failures surfaced to callers. Handlers map these to HTTP statuses; the
// data layer performs no retries and no partial rollback.
var (
	// ErrNotFound mirrors the store sentinel so callers only need one check.
	ErrNotFound = docstore.ErrNotFound

	ErrNotVerified      = errors.New("email not verified")
	ErrDuplicateEmail   = errors.New("email already in use")
	ErrDuplicateRequest = errors.New("connection request already exists")
	ErrInvalidFormat    = errors.New("invalid RCCM format")
	ErrAlreadyApplied   = errors.New("candidacy already submitted")
	ErrAlreadyResolved  = errors.New("request already resolved")
	ErrForbidden        = errors.New("forbidden")
)

// decodeAll converts a list of store records into typed values.
func decodeAll[T any](recs []docstore.Record) ([]T, error) {
	out := make([]T, 0, len(recs))
	for _, rec := range recs {
		var v T
		if err := docstore.Decode(rec, &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
