package sales

import "errors"

// ErrNotFound is returned when a sale with the given ID is not found.
var ErrNotFound = errors.New("sale not found")

// ErrEmptyID is returned when trying to store a sale with an empty ID.
var ErrEmptyID = errors.New("empty sale ID")

// ErrInvalidQuantity is returned when the requested quantity is not a
// positive integer.
var ErrInvalidQuantity = errors.New("quantity must be a positive integer")

// Lookup failures: the collaborator answered, but the entity does not exist.
var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCustomerNotFound = errors.New("customer not found")
)

// Availability failures: the collaborator could not be reached, timed out,
// or answered with an unexpected status.
var (
	ErrCatalogUnavailable  = errors.New("inventory service unavailable")
	ErrIdentityUnavailable = errors.New("customers service unavailable")
)

// Business-rule rejections raised before any side effect is committed.
var (
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// ErrUnauthenticated is returned when credential validation fails.
var ErrUnauthenticated = errors.New("customer not authenticated")

// ErrWalletDebitFailed is returned when the debit command itself fails.
// No side effect has been committed at that point.
var ErrWalletDebitFailed = errors.New("failed to update customer wallet")

// ErrStockUpdateFailed is returned when the stock decrement fails after a
// successful debit. A compensating credit is attempted; the caller still
// sees this error whether or not the credit went through.
var ErrStockUpdateFailed = errors.New("failed to update product stock")

// ErrCompensationFailed is joined onto ErrStockUpdateFailed when the
// compensating credit also failed, leaving the customer debited with no
// sale recorded. Callers can tell the two outcomes apart with errors.Is.
var ErrCompensationFailed = errors.New("compensation credit failed")
