package generator

import (
	"errors"
	"fmt"
)

// ValidationMessage is shown when a required form field is blank.
const ValidationMessage = "Por favor, completa los campos de rubro y objetivo."

// ValidationError is returned before any call is made when required fields are missing.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return ValidationMessage
}

// Kind classifies a GenerationError.
type Kind int

const (
	// KindTransport covers network and upstream service failures.
	KindTransport Kind = iota + 1
	// KindSchema covers responses that are not JSON or miss required fields.
	KindSchema
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindSchema:
		return "schema"
	default:
		return "unknown"
	}
}

// GenerationError wraps every failure of a generation attempt after validation.
type GenerationError struct {
	Kind Kind
	// Path points at the offending field for schema violations, e.g. idea_2.guion.cta.
	Path string
	Err  error
}

func (e *GenerationError) Error() string {
	switch e.Kind {
	case KindSchema:
		if e.Path != "" {
			return fmt.Sprintf("respuesta inválida del modelo: falta %s", e.Path)
		}
		return fmt.Sprintf("respuesta inválida del modelo: %v", e.Err)
	default:
		return fmt.Sprintf("Error al generar ideas: %v", e.Err)
	}
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

var errMissingField = errors.New("missing required field")

func transportError(err error) error {
	return &GenerationError{Kind: KindTransport, Err: err}
}

func schemaError(path string, err error) error {
	return &GenerationError{Kind: KindSchema, Path: path, Err: err}
}

// IsKind reports whether err is a GenerationError of the given kind.
func IsKind(err error, kind Kind) bool {
	var genErr *GenerationError
	return errors.As(err, &genErr) && genErr.Kind == kind
}
