package ddms

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/vvka-141/ddms/pkg/dom"
)

// SchemaValidator checks a document against the XML Schema at location.
// Failures should wrap ErrSchemaInvalid; a location that cannot be loaded
// should wrap ErrInvalidConfig.
type SchemaValidator interface {
	Validate(location string, r io.Reader) error
}

// ReaderOption configures a Reader.
type ReaderOption func(*Reader)

// WithSchemaValidator enables XML Schema validation before component
// construction.
func WithSchemaValidator(sv SchemaValidator) ReaderOption {
	return func(r *Reader) { r.schema = sv }
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(l Logger) ReaderOption {
	return func(r *Reader) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithRegistry sets the registry used to detect the version of a document.
func WithRegistry(reg *Registry) ReaderOption {
	return func(r *Reader) {
		if reg != nil {
			r.registry = reg
		}
	}
}

// Reader turns XML documents into components. A Reader with a nil version
// detects the version of each document from its root namespace. Readers hold
// no per-document state and are safe for concurrent use.
type Reader struct {
	version  *Version
	registry *Registry
	schema   SchemaValidator
	logger   Logger
}

// NewReader creates a reader for v, or a version-detecting reader when v is
// nil.
func NewReader(v *Version, opts ...ReaderOption) *Reader {
	r := &Reader{version: v, registry: DefaultRegistry(), logger: discardLogger{}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ReadFile reads a document from disk.
func (r *Reader) ReadFile(path string) (*Component, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	c, err := r.Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Read parses a document whose root element is any known type.
func (r *Reader) Read(src io.Reader) (*Component, error) {
	return r.ReadAs(nil, src)
}

// ReadAs parses a document whose root element must be of type t. A nil t
// accepts any known type.
func (r *Reader) ReadAs(t *Type, src io.Reader) (*Component, error) {
	data, err := io.ReadAll(io.LimitReader(src, MaxDocumentSize+1))
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	if len(data) > MaxDocumentSize {
		return nil, &ValidationError{
			Kind:    ErrMalformedXML,
			Message: fmt.Sprintf("document exceeds %d bytes", MaxDocumentSize),
		}
	}

	root, err := dom.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, &ValidationError{Kind: ErrMalformedXML, Message: err.Error()}
	}

	candidates, err := r.candidates(root)
	if err != nil {
		return nil, err
	}

	var first error
	for _, v := range candidates {
		if err := r.validateSchema(v, data); err != nil {
			if first == nil {
				first = err
			}
			continue
		}
		c, err := r.build(v, t, root)
		if err == nil {
			return c, nil
		}
		if first == nil {
			first = err
		}
		r.logger.Verbose("Document does not read as DDMS %s: %v", v, err)
	}
	return nil, first
}

// ReadElement builds a component from an already parsed element. Schema
// validation does not apply.
func (r *Reader) ReadElement(el *dom.Element) (*Component, error) {
	candidates, err := r.candidates(el)
	if err != nil {
		return nil, err
	}
	var first error
	for _, v := range candidates {
		c, err := r.build(v, nil, el)
		if err == nil {
			return c, nil
		}
		if first == nil {
			first = err
		}
	}
	return nil, first
}

// candidates lists the versions to try for root. Versions sharing a
// namespace are tried newest first.
func (r *Reader) candidates(root *dom.Element) ([]*Version, error) {
	if r.version != nil {
		return []*Version{r.version}, nil
	}
	found := r.registry.VersionsByNamespace(root.Name.Space, VocabDDMS)
	if len(found) == 0 {
		return nil, &ValidationError{
			Kind:    ErrUnsupportedVersion,
			Message: fmt.Sprintf("no supported DDMS version uses the namespace %q", root.Name.Space),
			Locator: "/" + root.Name.Local,
		}
	}
	return found, nil
}

func (r *Reader) build(v *Version, t *Type, root *dom.Element) (*Component, error) {
	if t == nil {
		var ok bool
		if t, ok = LookupType(v, root); !ok {
			return nil, &ValidationError{
				Kind:    ErrWrongName,
				Message: fmt.Sprintf("%s is not a DDMS %s element", root.Name.Local, v),
				Locator: "/" + root.Name.Local,
			}
		}
	}
	c, err := FromElement(v, t, root)
	if err != nil {
		return nil, err
	}
	r.logger.Verbose("Read %s as DDMS %s with %d warning(s)", c.QName(), v, len(c.Warnings()))
	return c, nil
}

func (r *Reader) validateSchema(v *Version, data []byte) error {
	if r.schema == nil {
		return nil
	}
	location := v.Schema(VocabDDMS)
	if location == "" {
		return fmt.Errorf("%w: no schema location configured for DDMS %s", ErrInvalidConfig, v)
	}
	err := r.schema.Validate(location, bytes.NewReader(data))
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrSchemaInvalid) || errors.Is(err, ErrInvalidConfig) {
		return err
	}
	return &ValidationError{Kind: ErrSchemaInvalid, Message: err.Error()}
}
