package q2b

import "errors"

var (
	// ErrDuplicateName is returned when creating a security or an account
	// whose name or symbol is already taken.
	ErrDuplicateName = errors.New("duplicate name")
	// ErrNotFound is returned when looking up an unknown security or account.
	ErrNotFound = errors.New("not found")
	// ErrUnknownAction is returned for an investment action with no posting rule.
	ErrUnknownAction = errors.New("unknown investment action")
	// ErrUnknownAccountType is returned when an account name cannot be mapped
	// onto the Assets/Liabilities/Income/Expenses/Equity hierarchy.
	ErrUnknownAccountType = errors.New("unknown account type")
	// ErrCurrencyMismatch is returned when a lot's cost is not denominated in
	// the holding account's home currency.
	ErrCurrencyMismatch = errors.New("currency mismatch")
)
