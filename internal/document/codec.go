package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

var ErrUnknownFormat = errors.New("unknown document format")

// Format is a serialization of documents.
type Format int

const (
	YAML Format = iota
	JSON
)

func (f Format) String() string {
	if f == JSON {
		return "json"
	}
	return "yaml"
}

// Returns the format that belongs to the file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML, nil
	case ".json":
		return JSON, nil
	}
	return YAML, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}

// Returns the format of a request body. An empty content type is YAML.
func FormatFromContentType(contentType string) (Format, error) {
	if contentType == "" {
		return YAML, nil
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return YAML, fmt.Errorf("%w: %w", ErrUnknownFormat, err)
	}

	switch mediaType {
	case "application/json":
		return JSON, nil
	case "application/yaml", "application/x-yaml", "text/yaml", "text/x-yaml":
		return YAML, nil
	}
	return YAML, fmt.Errorf("%w: %s", ErrUnknownFormat, mediaType)
}

// Decode reads one document. Unknown fields are rejected.
func Decode(r io.Reader, format Format) (*Document, error) {
	doc := &Document{}

	switch format {
	case JSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(doc); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
		}
	default:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(doc); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("%w: empty document", ErrInvalidDocument)
			}
			return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
		}
	}

	return doc, nil
}

// DecodeAll reads every document of the input. YAML input is a stream
// of documents separated by "---", JSON input is a single document or
// an array of documents.
func DecodeAll(r io.Reader, format Format) ([]*Document, error) {
	if format == JSON {
		return decodeAllJSON(r)
	}

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	docs := make([]*Document, 0, 1)
	for {
		doc := &Document{}
		err := dec.Decode(doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: document %d: %w", ErrInvalidDocument, len(docs)+1, err)
		}
		docs = append(docs, doc)
	}

	if len(docs) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrInvalidDocument)
	}
	return docs, nil
}

func decodeAllJSON(r io.Reader) ([]*Document, error) {
	var raw json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	strict := func(data []byte, v any) error {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		return dec.Decode(v)
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var docs []*Document
		if err := strict(trimmed, &docs); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
		}
		if len(docs) == 0 {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidDocument)
		}
		return docs, nil
	}

	doc := &Document{}
	if err := strict(trimmed, doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	return []*Document{doc}, nil
}

// Encode writes the document.
func Encode(w io.Writer, doc *Document, format Format) error {
	if format == JSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

// EncodeAll writes the documents in the form that DecodeAll reads.
// A single document is written on its own.
func EncodeAll(w io.Writer, docs []*Document, format Format) error {
	if format == JSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if len(docs) == 1 {
			return enc.Encode(docs[0])
		}
		return enc.Encode(docs)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	for _, doc := range docs {
		if err := enc.Encode(doc); err != nil {
			return err
		}
	}
	return enc.Close()
}
