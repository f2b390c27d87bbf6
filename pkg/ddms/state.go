package ddms

import (
	"sync"

	"github.com/vvka-141/ddms/pkg/dom"
)

// VersionState is a "current version" cell for callers that prefer to select
// a version once instead of passing it to every call. It is an ordinary value
// owned by the caller; independent states may select different versions at
// the same time. Safe for concurrent use.
type VersionState struct {
	mu       sync.RWMutex
	registry *Registry
	current  *Version
	fallback *Version
}

// NewVersionState creates an unset state. When fallback is non-empty it must
// name a supported version and is returned by Current while nothing is set.
func NewVersionState(registry *Registry, fallback string) (*VersionState, error) {
	s := &VersionState{registry: registry}
	if fallback != "" {
		v, err := registry.Resolve(fallback)
		if err != nil {
			return nil, err
		}
		s.fallback = v
	}
	return s, nil
}

// SetCurrent selects a version by canonical name or alias.
func (s *VersionState) SetCurrent(versionOrAlias string) (*Version, error) {
	v, err := s.registry.Resolve(versionOrAlias)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.current = v
	s.mu.Unlock()
	return v, nil
}

// Current returns the selected version, the fallback when nothing is
// selected, or ErrNoVersionSelected.
func (s *VersionState) Current() (*Version, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current != nil {
		return s.current, nil
	}
	if s.fallback != nil {
		return s.fallback, nil
	}
	return nil, &ValidationError{Kind: ErrNoVersionSelected, Message: "no DDMS version has been selected"}
}

// ClearCurrent returns the state to unset.
func (s *VersionState) ClearCurrent() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
}

// IsCompatible is Registry.IsCompatible against the current version. It is
// false when no version is available.
func (s *VersionState) IsCompatible(versionOrAlias string, el *dom.Element) bool {
	active, err := s.Current()
	if err != nil {
		return false
	}
	return s.registry.IsCompatible(active, versionOrAlias, el)
}

// Registry returns the registry the state resolves against.
func (s *VersionState) Registry() *Registry { return s.registry }
