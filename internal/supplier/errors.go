// internal/supplier/errors.go
package supplier

import "errors"

// Credential failures are fatal for a sync run and must stay
// distinguishable so the operator can tell "wrong keys" (401) from
// "account lacks API entitlement" (403).
var (
	ErrUnauthorized  = errors.New("supplier: invalid API credentials (401)")
	ErrForbidden     = errors.New("supplier: API access denied (403)")
	ErrStyleNotFound = errors.New("supplier: style not found in catalog")
)
