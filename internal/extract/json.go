package extract

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"

	"github.com/JaimeStill/courier/internal/routing"
)

// JSON decodes data into a StructuredTree, preserving numbers as json.Number
// so integer and decimal values stay distinguishable. Undecodable input
// or data trailing the first value yields a tree with a nil Value.
func (e *Extractor) JSON(source string, data []byte) routing.StructuredTree {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		e.logger.Warn("json decode failed", "source", source, "error", err)
		return routing.StructuredTree{}
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		e.logger.Warn("json has trailing data", "source", source)
		return routing.StructuredTree{}
	}

	return routing.StructuredTree{Value: v}
}
