package ledger

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure scenarios.
var (
	// General errors
	ErrNotFound      = errors.New("ledger: not found")
	ErrAlreadyExists = errors.New("ledger: already exists")
	ErrInvalidInput  = errors.New("ledger: invalid input")

	// Entity lookup errors
	ErrOrganizationNotFound = errors.New("ledger: organization not found")
	ErrClientNotFound       = errors.New("ledger: client not found")
	ErrInvoiceNotFound      = errors.New("ledger: invoice not found")

	// State machine errors
	ErrInvalidTransition = errors.New("ledger: invalid status transition")
	ErrInvoiceNotDraft   = errors.New("ledger: invoice is no longer a draft")
	ErrInvoicePaid       = errors.New("ledger: invoice already paid")

	// Conflict errors
	ErrDuplicateClientEmail   = errors.New("ledger: client email already in use")
	ErrDuplicateInvoiceNumber = errors.New("ledger: invoice number already in use")
	ErrVersionConflict        = errors.New("ledger: concurrent modification detected")

	// Validation errors
	ErrNoLineItems      = errors.New("ledger: invoice requires at least one line item")
	ErrInvalidTaxRate   = errors.New("ledger: tax rate must be between 0 and 100")
	ErrCurrencyMismatch = errors.New("ledger: line item currency does not match invoice")

	// Store errors
	ErrStoreUnavailable = errors.New("ledger: store unavailable")
	ErrStoreClosed      = errors.New("ledger: store is closed")
)

// ValidationError represents a validation failure with details.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("ledger: validation failed for %s: %s", e.Field, e.Message)
}

// Is allows errors.Is(err, ErrInvalidInput) to match any ValidationError.
func (e ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// IsNotFound returns true if the error indicates an entity that is absent
// or not visible to the calling tenant.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrOrganizationNotFound) ||
		errors.Is(err, ErrClientNotFound) ||
		errors.Is(err, ErrInvoiceNotFound)
}

// IsInvalidOperation returns true if the error indicates that the invoice
// state machine forbids the requested transition or mutation.
func IsInvalidOperation(err error) bool {
	return errors.Is(err, ErrInvalidTransition) ||
		errors.Is(err, ErrInvoiceNotDraft) ||
		errors.Is(err, ErrInvoicePaid)
}

// IsConflict returns true for duplicate-unique-field violations and
// optimistic-concurrency collisions. Conflicts may be retried by the caller.
func IsConflict(err error) bool {
	return errors.Is(err, ErrAlreadyExists) ||
		errors.Is(err, ErrDuplicateClientEmail) ||
		errors.Is(err, ErrDuplicateInvoiceNumber) ||
		errors.Is(err, ErrVersionConflict)
}

// IsValidation returns true if the error indicates malformed input.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrNoLineItems) ||
		errors.Is(err, ErrInvalidTaxRate) ||
		errors.Is(err, ErrCurrencyMismatch)
}

// IsUnavailable returns true if the persistence store is unreachable.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable) ||
		errors.Is(err, ErrStoreClosed)
}
