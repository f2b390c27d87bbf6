package ddms

import (
	"errors"
	"fmt"
)

// Sentinel errors classifying every failure the package reports.
// A *ValidationError unwraps to exactly one of them, so callers can use
// errors.Is:
//
//	c, err := ddms.FromElement(v, ddms.Identifier, el)
//	if errors.Is(err, ddms.ErrMissingRequired) {
//	    // a mandatory attribute or child is absent
//	}
var (
	// ErrUnsupportedVersion indicates an unknown version or alias, or an
	// element type that does not exist in the requested version.
	ErrUnsupportedVersion = errors.New("unsupported DDMS version")

	// ErrNoVersionSelected indicates an operation needed a version but none
	// was given or selected.
	ErrNoVersionSelected = errors.New("no DDMS version selected")

	// ErrWrongName indicates an element or attribute whose qualified name does
	// not belong to the active version.
	ErrWrongName = errors.New("unexpected name or namespace")

	// ErrMissingRequired indicates a required attribute, value or child is
	// absent or blank.
	ErrMissingRequired = errors.New("missing required field")

	// ErrCardinality indicates more occurrences of a child than allowed.
	ErrCardinality = errors.New("too many occurrences")

	// ErrInvalidFormat indicates a lexical failure (date, URI, number, token).
	ErrInvalidFormat = errors.New("invalid format")

	// ErrCrossField indicates values that are individually valid but
	// inconsistent with each other.
	ErrCrossField = errors.New("inconsistent fields")

	// ErrMalformedXML indicates the document could not be parsed.
	ErrMalformedXML = errors.New("malformed XML")

	// ErrSchemaInvalid indicates the document failed XML Schema validation.
	ErrSchemaInvalid = errors.New("schema validation failed")

	// ErrInvalidConfig indicates an invalid registry or reader configuration.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidDocument indicates one or more documents in a batch failed.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrUsage indicates invalid command line arguments.
	ErrUsage = errors.New("usage error")
)

// ValidationError is a fatal validation message. Locator is an XPath-like
// path to the offending element, e.g. "/ddms:resource/ddms:identifier".
type ValidationError struct {
	Kind    error
	Message string
	Locator string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Locator == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Locator, e.Message)
}

// Unwrap exposes the sentinel kind to errors.Is.
func (e *ValidationError) Unwrap() error { return e.Kind }

// WithParent returns a copy whose locator is prefixed by parent.
func (e *ValidationError) WithParent(parent string) *ValidationError {
	out := *e
	out.Locator = parent + e.Locator
	return &out
}

// AsMessage converts the error into an error-kind Message.
func (e *ValidationError) AsMessage() Message {
	return Message{Kind: ErrorMessage, Text: e.Message, Locator: e.Locator}
}

// Failf builds a ValidationError without a locator. Rules return it and the
// engine fills in the locator of the component being validated.
func Failf(kind error, format string, args ...any) *ValidationError {
	return &ValidationError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// AsValidationError extracts a *ValidationError from err's chain.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// ExitCodeForError returns the process exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known kinds,
// and ExitGeneralError (1) for everything else.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrUsage):
		return ExitUsageError
	case errors.Is(err, ErrInvalidConfig):
		return ExitConfigError
	case errors.Is(err, ErrUnsupportedVersion), errors.Is(err, ErrNoVersionSelected):
		return ExitVersionError
	case errors.Is(err, ErrMalformedXML):
		return ExitMalformedXML
	case errors.Is(err, ErrSchemaInvalid):
		return ExitSchemaInvalid
	case errors.Is(err, ErrWrongName),
		errors.Is(err, ErrMissingRequired),
		errors.Is(err, ErrCardinality),
		errors.Is(err, ErrInvalidFormat),
		errors.Is(err, ErrCrossField),
		errors.Is(err, ErrInvalidDocument):
		return ExitInvalidDocument
	}

	return ExitGeneralError
}
