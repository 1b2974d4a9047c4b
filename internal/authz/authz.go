// Package authz holds the single ownership predicate every service consults
// before revealing or mutating resource data. A failed check short-circuits
// ahead of any validation that could leak resource existence.
package authz

import "github.com/ProgrammerArk/Bank-API/internal/apperrors"

// IsOwner reports whether the requesting identity owns the resource.
func IsOwner(ownerID, requesterID int64) bool {
	return ownerID == requesterID
}

// RequireOwner returns a forbidden error with the given message unless the
// requester owns the resource.
func RequireOwner(ownerID, requesterID int64, message string) error {
	if !IsOwner(ownerID, requesterID) {
		return apperrors.NewForbidden(message)
	}
	return nil
}
