package gen

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// GenerateStructured issues a buffered generate call constrained to a JSON
// Schema derived from out's type, then unmarshals the response text into
// out. The schema is sent as the request's format field, which servers
// supporting structured outputs use to constrain generation.
func (c *Client) GenerateStructured(ctx context.Context, req GenerateRequest, out any) error {
	format, err := schemaFor(out)
	if err != nil {
		return NewError("generate", err, false)
	}

	text, err := c.generate(ctx, req, format)
	if err != nil {
		return err
	}

	if err := json.Unmarshal([]byte(text), out); err != nil {
		return NewError("generate", fmt.Errorf("%w: structured output is not valid JSON: %v", ErrUnexpectedFormat, err), false)
	}
	return nil
}

// schemaFor reflects a JSON Schema from out's type. Definitions are
// inlined: the format field carries one self-contained schema object.
func schemaFor(out any) (json.RawMessage, error) {
	reflector := jsonschema.Reflector{
		DoNotReference: true,
	}
	schema := reflector.Reflect(out)

	data, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	return data, nil
}
