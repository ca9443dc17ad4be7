// Package extract defines the boundary to the document-extraction service:
// the request shape, the structured response it is asked to produce, the
// instruction prompts, and a Gemini-backed [Service].
package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/invopop/jsonschema"
)

// ErrEmptyResponse is returned when the service answered with no content.
var ErrEmptyResponse = errors.New("extraction service returned no content")

// Request is one extraction exchange. Exactly one of Text or Data is set:
// Text for textual files, Data plus MIMEType for binary documents.
type Request struct {
	Text     string
	Data     []byte
	MIMEType string
	Prompt   string
	// Schema is the JSON Schema the response is requested to follow.
	Schema []byte
}

// Binary reports whether the request carries inline binary content.
func (r Request) Binary() bool {
	return len(r.Data) > 0
}

// Service converts file content into a structured productivity record.
// The returned text is untrusted and may not follow the requested schema.
type Service interface {
	Extract(ctx context.Context, req Request) (string, error)
}

// ServiceFunc adapts a function to [Service].
type ServiceFunc func(ctx context.Context, req Request) (string, error)

// Extract calls f.
func (f ServiceFunc) Extract(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// Response is the record the service is asked to return.
type Response struct {
	ServerName string  `json:"serverName" jsonschema:"description=Nome do servidor no cabeçalho do relatório"`
	Month      string  `json:"month" jsonschema:"description=Sigla do mês (jan fev mar abr mai jun jul ago set out nov dez)"`
	Year       int     `json:"year" jsonschema:"description=Ano do período"`
	Data       []Entry `json:"data"`
}

// Entry is one task quantity in a [Response].
type Entry struct {
	TaskID   int     `json:"taskId" jsonschema:"minimum=1"`
	Quantity float64 `json:"quantity"`
}

var (
	schemaOnce  sync.Once
	schemaBytes []byte
	schemaErr   error
)

// OutputSchema returns the JSON Schema reflected from [Response].
func OutputSchema() ([]byte, error) {
	schemaOnce.Do(func() {
		reflector := &jsonschema.Reflector{
			AllowAdditionalProperties: true,
			DoNotReference:            true,
			ExpandedStruct:            true,
		}

		schema := reflector.Reflect(&Response{})
		schema.Version = ""

		data, err := json.Marshal(schema)
		if err != nil {
			schemaErr = fmt.Errorf("marshal output schema: %w", err)

			return
		}

		schemaBytes = data
	})

	return schemaBytes, schemaErr
}
