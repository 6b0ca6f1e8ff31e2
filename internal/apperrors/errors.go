package apperrors

import "errors"

// ErrNotFound indicates that a referenced record (typically an account code)
// could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrImbalance indicates that debit and credit totals for a period disagree.
// Unreachable through the posting path, which validates every entry; it guards
// against corrupted external data.
var ErrImbalance = errors.New("debit and credit totals do not balance")

// ErrSequence indicates that a tax apuration was requested out of
// chronological order, or that the prior period is not yet finalized.
var ErrSequence = errors.New("apuration period out of sequence")

// ErrConflict indicates a concurrent write targeting the same accounting period.
var ErrConflict = errors.New("conflicting concurrent write for period")
