package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// Taxonomy of data pipeline failures. Every DataError matches exactly one of these
// with errors.Is.
var (
	// ErrSource indicates the data source is missing or unreadable.
	ErrSource = errors.New("source error")
	// ErrParse indicates a cell could not be parsed into its column type.
	ErrParse = errors.New("parse error")
	// ErrSchema indicates required columns are missing.
	ErrSchema = errors.New("schema error")
	// ErrIntegrity indicates null, non-positive, out-of-range or out-of-enum values.
	ErrIntegrity = errors.New("integrity error")
)

// Kind names a specific data failure.
type Kind string

const (
	KindSourceNotFound    Kind = "SourceNotFound"
	KindDateParseError    Kind = "DateParseError"
	KindMalformedNumber   Kind = "MalformedNumber"
	KindMissingColumns    Kind = "MissingColumns"
	KindNullCriticalField Kind = "NullCriticalField"
	KindNonPositiveAmount Kind = "NonPositiveAmount"
	KindInvalidQuantity   Kind = "InvalidQuantity"
	KindInvalidCategory   Kind = "InvalidCategory"
	KindInvalidRegion     Kind = "InvalidRegion"
	KindNonPositivePrice  Kind = "NonPositivePrice"
	KindAmountMismatch    Kind = "AmountMismatch"
)

// class maps a kind to its taxonomy sentinel.
func (k Kind) class() error {
	switch k {
	case KindSourceNotFound:
		return ErrSource
	case KindDateParseError, KindMalformedNumber:
		return ErrParse
	case KindMissingColumns:
		return ErrSchema
	default:
		return ErrIntegrity
	}
}

// DataError is the typed failure surfaced by the loader and validator.
// Message is written for an end user and can be shown without further formatting.
type DataError struct {
	Kind    Kind
	Message string
	// Values lists the offending column names or cell values, when the kind carries any.
	Values []string
	// Row is the 1-based data row (header excluded) the failure was found on, 0 if not row specific.
	Row int
	Err error
}

func (e *DataError) Error() string {
	return e.Message
}

func (e *DataError) Unwrap() error {
	return e.Err
}

// Is reports the taxonomy class of the error. Schema and integrity failures also
// count as ErrValidation, and a missing source as ErrNotFound.
func (e *DataError) Is(target error) bool {
	class := e.Kind.class()
	switch target {
	case class:
		return true
	case ErrValidation:
		return class == ErrSchema || class == ErrIntegrity
	case ErrNotFound:
		return e.Kind == KindSourceNotFound
	}
	return false
}

// NewDataError builds a DataError with a formatted message.
func NewDataError(kind Kind, format string, args ...any) *DataError {
	return &DataError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// BlankValue stands in for an empty or whitespace-only value in messages.
const BlankValue = "(blank)"

// NewListError builds a DataError whose message ends with the joined values.
// Blank values are shown as BlankValue in the message and kept raw in Values.
func NewListError(kind Kind, prefix string, values []string) *DataError {
	shown := make([]string, len(values))
	for i, v := range values {
		if strings.TrimSpace(v) == "" {
			v = BlankValue
		}
		shown[i] = v
	}
	return &DataError{
		Kind:    kind,
		Message: prefix + ": " + strings.Join(shown, ", "),
		Values:  values,
	}
}

// KindOf returns the kind of a DataError anywhere in err's chain.
func KindOf(err error) (Kind, bool) {
	var de *DataError
	if errors.As(err, &de) {
		return de.Kind, true
	}
	return "", false
}
