package entities

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingField          = errors.New("missing required fields")
	ErrInvalidQuantity       = errors.New("quantity must be a positive whole number")
	ErrEventNotFound         = errors.New("event not found")
	ErrInsufficientInventory = errors.New("not enough tickets available")
	ErrPurchaseNotFound      = errors.New("purchase not found")
	ErrSalesNotFound         = errors.New("no sales recorded for event")
)

var (
	ErrDuplicateEvent = errors.New("event already exists")
	ErrInvalidEvent   = errors.New("invalid event")
)

type ErrorCode string

const (
	CodeMissingField          ErrorCode = "MissingField"
	CodeInvalidQuantity       ErrorCode = "InvalidQuantity"
	CodeEventNotFound         ErrorCode = "EventNotFound"
	CodeInsufficientInventory ErrorCode = "InsufficientInventory"
	CodePurchaseNotFound      ErrorCode = "PurchaseNotFound"
	CodeEventNotFoundOnLookup ErrorCode = "EventNotFoundOnLookup"
	CodeSalesNotFound         ErrorCode = "SalesNotFound"
	CodeInvalidRequest        ErrorCode = "InvalidRequest"
	CodeInternal              ErrorCode = "Internal"
)

// MissingFieldError names the required purchase fields that were absent.
type MissingFieldError struct {
	Fields []string
}

func (e MissingFieldError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingField, strings.Join(e.Fields, ", "))
}

func (e MissingFieldError) Unwrap() error {
	return ErrMissingField
}

// Code classifies err into one of the outcomes a caller can act on.
func Code(err error) ErrorCode {
	switch {
	case errors.Is(err, ErrMissingField):
		return CodeMissingField
	case errors.Is(err, ErrInvalidQuantity):
		return CodeInvalidQuantity
	case errors.Is(err, ErrEventNotFound):
		return CodeEventNotFound
	case errors.Is(err, ErrInsufficientInventory):
		return CodeInsufficientInventory
	case errors.Is(err, ErrPurchaseNotFound):
		return CodePurchaseNotFound
	case errors.Is(err, ErrSalesNotFound):
		return CodeSalesNotFound
	default:
		return CodeInternal
	}
}

// MalformedMessageError is returned by message handlers for payloads that
// will never be handled, no matter how often they are redelivered.
type MalformedMessageError struct {
	Reason string
}

func (e MalformedMessageError) Error() string {
	return "malformed message: " + e.Reason
}

func (e MalformedMessageError) IsPermanent() bool {
	return true
}
