package engine

import "errors"

// Every mutating operation fails with exactly one of these kinds, before any
// state change is applied.
var (
	ErrNotFound                  = errors.New("not found")
	ErrAlreadyExists             = errors.New("already exists")
	ErrNotAuthorized             = errors.New("not authorized")
	ErrInsufficientFunds         = errors.New("insufficient funds")
	ErrAssetLocked               = errors.New("card is locked by an active listing")
	ErrInvalidRarity             = errors.New("rarity must be between 1 and 6")
	ErrInvalidArgument           = errors.New("invalid argument")
	ErrUpgradeRequirementsNotMet = errors.New("upgrade requirements not met")
	ErrMarketplaceDisabled       = errors.New("marketplace is disabled")
)
