package normalize

import (
	"errors"
	"fmt"
)

// Sentinels matched by [Error] through errors.Is.
var (
	ErrFormat             = errors.New("extraction response is not a valid record")
	ErrUnrecognizedPeriod = errors.New("unrecognized period")
	ErrEmpty              = errors.New("extraction carried no productivity data")
)

// Kind classifies a normalization failure.
type Kind int

const (
	// KindFormat: the response does not parse or does not have the record shape.
	KindFormat Kind = iota + 1
	// KindPeriod: month or year cannot be mapped to a period.
	KindPeriod
	// KindEmpty: the record parsed but no entry survived.
	KindEmpty
)

func (k Kind) String() string {
	switch k {
	case KindFormat:
		return "format"
	case KindPeriod:
		return "period"
	case KindEmpty:
		return "empty"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Field names the response field a [KindPeriod] error is about.
const (
	FieldMonth = "month"
	FieldYear  = "year"
)

// Error is a typed normalization failure.
type Error struct {
	Kind Kind
	// Raw is the response text as received, for diagnostics.
	Raw string
	// Field and Value name the offending field and its raw value for KindPeriod.
	// Value is empty when the field was missing.
	Field string
	Value string
	// Err is the underlying parse or validation error, if any.
	Err error
}

func (e *Error) Error() string {
	msg := e.sentinel().Error()

	if e.Kind == KindPeriod {
		value := e.Value
		if value == "" {
			value = "<missing>"
		}

		msg = fmt.Sprintf("%s: %s %s", msg, e.Field, value)
	}

	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	return msg
}

// Is matches the sentinel for e.Kind.
func (e *Error) Is(target error) bool {
	return target == e.sentinel()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) sentinel() error {
	switch e.Kind {
	case KindPeriod:
		return ErrUnrecognizedPeriod
	case KindEmpty:
		return ErrEmpty
	default:
		return ErrFormat
	}
}

// GenericMessage is shown for failures that are not normalization errors.
const GenericMessage = "Falha ao processar o documento. Verifique o formato e tente novamente."

// UserMessage returns the message shown to the user for an import failure.
func UserMessage(err error) string {
	var nerr *Error
	if !errors.As(err, &nerr) {
		return GenericMessage
	}

	switch nerr.Kind {
	case KindFormat:
		return "O sistema não conseguiu processar a resposta do documento. " +
			"Por favor, tente novamente ou use um arquivo mais legível."
	case KindPeriod:
		value := nerr.Value
		if value == "" {
			value = "Não encontrado"
		}

		label := "Mês"
		if nerr.Field == FieldYear {
			label = "Ano"
		}

		return fmt.Sprintf("%s não identificado no documento: %s. Verifique se o período está visível no arquivo.", label, value)
	case KindEmpty:
		return "Não conseguimos extrair dados de produtividade deste documento. " +
			"Certifique-se de que o arquivo contém a lista de atividades e suas respectivas quantidades."
	default:
		return GenericMessage
	}
}
