// Package schema validates documents against the DDMS XML Schemas.
//
// Compiled schemas are kept in a bounded LRU cache keyed by location, so a
// batch of documents in the same version compiles its schema once.
package schema

import (
	"fmt"
	"io"
	"io/fs"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru"
	"github.com/jacoelho/xsd"
	xsderrors "github.com/jacoelho/xsd/errors"

	"github.com/vvka-141/ddms/pkg/ddms"
)

// DefaultCacheSize holds one compiled schema per built-in version.
const DefaultCacheSize = 8

// Validator implements ddms.SchemaValidator on top of jacoelho/xsd.
// Safe for concurrent use by multiple goroutines.
type Validator struct {
	fsys   fs.FS
	cache  *lru.Cache
	logger ddms.Logger

	// mu serializes compilation so concurrent misses compile once.
	mu sync.Mutex
}

// New creates a validator. Locations are resolved in fsys, or on the local
// filesystem when fsys is nil.
func New(fsys fs.FS, cacheSize int, logger ddms.Logger) (*Validator, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, fmt.Errorf("%w: schema cache: %v", ddms.ErrInvalidConfig, err)
	}
	return &Validator{fsys: fsys, cache: cache, logger: logger}, nil
}

// Validate checks the document in r against the schema at location.
func (v *Validator) Validate(location string, r io.Reader) error {
	s, err := v.load(location)
	if err != nil {
		return fmt.Errorf("%w: %v", ddms.ErrInvalidConfig, err)
	}

	err = s.Validate(r)
	if err == nil {
		return nil
	}
	if violations, ok := xsderrors.AsValidations(err); ok && len(violations) > 0 {
		msgs := make([]string, 0, len(violations))
		for i := range violations {
			msgs = append(msgs, violations[i].Error())
		}
		return &ddms.ValidationError{
			Kind:    ddms.ErrSchemaInvalid,
			Message: strings.Join(msgs, "; "),
			Locator: violations[0].Path,
		}
	}
	return &ddms.ValidationError{Kind: ddms.ErrSchemaInvalid, Message: err.Error()}
}

// Cached reports how many compiled schemas are held.
func (v *Validator) Cached() int {
	return v.cache.Len()
}

func (v *Validator) load(location string) (*xsd.Schema, error) {
	if s, ok := v.cache.Get(location); ok {
		return s.(*xsd.Schema), nil
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if s, ok := v.cache.Get(location); ok {
		return s.(*xsd.Schema), nil
	}

	if v.logger != nil {
		v.logger.Verbose("Compiling schema %s", location)
	}
	var (
		s   *xsd.Schema
		err error
	)
	if v.fsys != nil {
		s, err = xsd.Load(v.fsys, location)
	} else {
		s, err = xsd.LoadFile(location)
	}
	if err != nil {
		return nil, err
	}
	v.cache.Add(location, s)
	return s, nil
}
