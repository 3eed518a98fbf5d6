package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) so services can translate them into coded domain errors.
//
// ErrNotFound states that a row does not exist. Status transitions such as
// window expiry are decided by services reading the row, not by stores, so
// existence is the only fact stores report.
//
// For validation errors (bad input, missing fields), use pkg/domain-errors directly.
var ErrNotFound = errors.New("not found")
