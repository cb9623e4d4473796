package gauss

import "github.com/Gatanot/GaussProject/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrStoreUnavailable = domain.ErrStoreUnavailable
	ErrInvalidArgument  = domain.ErrInvalidArgument
	ErrLogWriteFailed   = domain.ErrLogWriteFailed
)
