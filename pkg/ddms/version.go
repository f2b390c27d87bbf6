package ddms

import (
	"fmt"
	"sort"
	"sync"

	"github.com/Masterminds/semver/v3"

	"github.com/vvka-141/ddms/pkg/dom"
)

// Vocabulary names. VocabDDMS is the primary vocabulary of every version; the
// others are auxiliary vocabularies combined within it.
const (
	VocabDDMS  = "ddms"
	VocabGML   = "gml"
	VocabISM   = "ism"
	VocabNTK   = "ntk"
	VocabTSPI  = "tspi"
	VocabVirt  = "virt"
	VocabXLink = "xlink"
)

// DefaultPrefixes are the namespace prefixes used when the configuration does
// not override them.
var DefaultPrefixes = map[string]string{
	VocabDDMS:  "ddms",
	VocabGML:   "gml",
	VocabISM:   "ism",
	VocabNTK:   "ntk",
	VocabTSPI:  "tspi",
	VocabVirt:  "virt",
	VocabXLink: "xlink",
}

// Descriptor is the configuration form of a supported version.
type Descriptor struct {
	Version    string            `yaml:"version"`
	Aliases    []string          `yaml:"aliases,omitempty"`
	Namespaces map[string]string `yaml:"namespaces"`
	Schemas    map[string]string `yaml:"schemas,omitempty"`
}

// Version is the canonical, immutable record of one supported schema version.
type Version struct {
	name       string
	aliases    []string
	sem        *semver.Version
	namespaces map[string]string
	schemas    map[string]string
	prefixes   map[string]string
}

// String returns the canonical version string, e.g. "4.0.1".
func (v *Version) String() string { return v.name }

// Aliases returns the alternate names that resolve to this version.
func (v *Version) Aliases() []string { return append([]string(nil), v.aliases...) }

// Namespace returns the namespace URI for a vocabulary, or "" when the
// version does not include it.
func (v *Version) Namespace(vocab string) string { return v.namespaces[vocab] }

// Namespaces returns a copy of the vocabulary to namespace table.
func (v *Version) Namespaces() map[string]string {
	out := make(map[string]string, len(v.namespaces))
	for k, ns := range v.namespaces {
		out[k] = ns
	}
	return out
}

// Schema returns the configured schema location for a vocabulary.
func (v *Version) Schema(vocab string) string { return v.schemas[vocab] }

// Prefix returns the output prefix of a vocabulary.
func (v *Version) Prefix(vocab string) string { return v.prefixes[vocab] }

// QName returns "prefix:local" for a name in the given vocabulary.
func (v *Version) QName(vocab, local string) string {
	if p := v.prefixes[vocab]; p != "" {
		return p + ":" + local
	}
	return local
}

// PrefixTable maps each namespace URI of the version to its prefix.
func (v *Version) PrefixTable() map[string]string {
	out := make(map[string]string, len(v.namespaces))
	for vocab, ns := range v.namespaces {
		out[ns] = v.prefixes[vocab]
	}
	return out
}

// AtLeast reports whether v is the same as or newer than the canonical
// version other. Version literals are compared semantically, so "3.1" is
// newer than "3.0.1".
func (v *Version) AtLeast(other string) bool {
	return !v.sem.LessThan(semverOf(other))
}

// Before reports whether v is older than other.
func (v *Version) Before(other string) bool {
	return v.sem.LessThan(semverOf(other))
}

// Equal reports whether both descriptors denote the same canonical version.
func (v *Version) Equal(o *Version) bool {
	if v == nil || o == nil {
		return v == o
	}
	return v.name == o.name
}

var semverCache sync.Map

func semverOf(s string) *semver.Version {
	if cached, ok := semverCache.Load(s); ok {
		return cached.(*semver.Version)
	}
	sv := semver.MustParse(s)
	semverCache.Store(s, sv)
	return sv
}

// Registry holds the supported versions. It is immutable once built and safe
// for concurrent use.
type Registry struct {
	versions []*Version
	byName   map[string]*Version
	prefixes map[string]string
}

// NewRegistry validates the descriptors and builds a registry. Prefixes
// override DefaultPrefixes per vocabulary.
func NewRegistry(descs []Descriptor, prefixes map[string]string) (*Registry, error) {
	if len(descs) == 0 {
		return nil, fmt.Errorf("%w: no versions configured", ErrInvalidConfig)
	}

	merged := make(map[string]string, len(DefaultPrefixes))
	for k, p := range DefaultPrefixes {
		merged[k] = p
	}
	for k, p := range prefixes {
		if p != "" {
			merged[k] = p
		}
	}

	r := &Registry{byName: map[string]*Version{}, prefixes: merged}
	for _, d := range descs {
		sv, err := semver.NewVersion(d.Version)
		if err != nil {
			return nil, fmt.Errorf("%w: version %q: %v", ErrInvalidConfig, d.Version, err)
		}
		if d.Namespaces[VocabDDMS] == "" {
			return nil, fmt.Errorf("%w: version %s has no %s namespace", ErrInvalidConfig, d.Version, VocabDDMS)
		}
		v := &Version{
			name:       d.Version,
			aliases:    append([]string(nil), d.Aliases...),
			sem:        sv,
			namespaces: copyTable(d.Namespaces),
			schemas:    copyTable(d.Schemas),
			prefixes:   merged,
		}
		for _, name := range append([]string{d.Version}, d.Aliases...) {
			if prev, dup := r.byName[name]; dup {
				return nil, fmt.Errorf("%w: %q names both %s and %s", ErrInvalidConfig, name, prev.name, d.Version)
			}
			r.byName[name] = v
		}
		r.versions = append(r.versions, v)
	}

	sort.Slice(r.versions, func(i, j int) bool {
		return r.versions[i].sem.LessThan(r.versions[j].sem)
	})
	return r, nil
}

func copyTable(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// Resolve returns the descriptor for a canonical version string or alias.
func (r *Registry) Resolve(versionOrAlias string) (*Version, error) {
	if v, ok := r.byName[versionOrAlias]; ok {
		return v, nil
	}
	return nil, &ValidationError{
		Kind:    ErrUnsupportedVersion,
		Message: fmt.Sprintf("DDMS version %q is not supported", versionOrAlias),
	}
}

// ResolveByNamespace finds the version whose namespace for vocab equals ns.
// When several versions share a namespace the newest one is returned.
func (r *Registry) ResolveByNamespace(ns, vocab string) (*Version, bool) {
	for i := len(r.versions) - 1; i >= 0; i-- {
		if r.versions[i].namespaces[vocab] == ns && ns != "" {
			return r.versions[i], true
		}
	}
	return nil, false
}

// VersionsByNamespace returns every version whose namespace for vocab is ns,
// newest first.
func (r *Registry) VersionsByNamespace(ns, vocab string) []*Version {
	var out []*Version
	for i := len(r.versions) - 1; i >= 0; i-- {
		if ns != "" && r.versions[i].namespaces[vocab] == ns {
			out = append(out, r.versions[i])
		}
	}
	return out
}

// IsCompatible reports whether el is in the primary namespace of
// versionOrAlias and that version is the active one. An alias is compatible
// with its canonical version, but two different versions sharing a namespace
// are not compatible with each other.
func (r *Registry) IsCompatible(active *Version, versionOrAlias string, el *dom.Element) bool {
	if active == nil || el == nil {
		return false
	}
	v, err := r.Resolve(versionOrAlias)
	if err != nil {
		return false
	}
	return el.Name.Space == v.Namespace(VocabDDMS) && v.name == active.name
}

// Versions returns every supported version, oldest first.
func (r *Registry) Versions() []*Version {
	return append([]*Version(nil), r.versions...)
}

// Latest returns the newest supported version.
func (r *Registry) Latest() *Version {
	return r.versions[len(r.versions)-1]
}

// Prefix returns the configured prefix for a vocabulary.
func (r *Registry) Prefix(vocab string) string { return r.prefixes[vocab] }

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns the registry built from DefaultDescriptors and
// DefaultPrefixes.
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		r, err := NewRegistry(DefaultDescriptors(), nil)
		if err != nil {
			panic(fmt.Sprintf("ddms: built-in version table is invalid: %v", err))
		}
		defaultRegistry = r
	})
	return defaultRegistry
}

const (
	gml2NS   = "http://www.opengis.net/gml"
	gml32NS  = "http://www.opengis.net/gml/3.2"
	ism2NS   = "urn:us:gov:ic:ism:v2"
	ismNS    = "urn:us:gov:ic:ism"
	ntkNS    = "urn:us:gov:ic:ntk"
	virtNS   = "urn:us:gov:ic:virt"
	xlinkNS  = "http://www.w3.org/1999/xlink"
	tspiNS   = "http://metadata.ces.mil/mdr/ns/GSIP/tspi/2.0"
	ddms2NS  = "http://metadata.dod.mil/mdr/ns/DDMS/2.0/"
	ddms3NS  = "http://metadata.dod.mil/mdr/ns/DDMS/3.0/"
	ddms31NS = "http://metadata.dod.mil/mdr/ns/DDMS/3.1/"
	ddms4NS  = "urn:us:mil:ces:metadata:ddms:4"
	ddms5NS  = "urn:us:mil:ces:metadata:ddms:5"
)

// DefaultDescriptors returns the built-in DDMS version table. The returned
// slice is a fresh copy the caller may modify, e.g. to point schema locations
// at a local directory.
func DefaultDescriptors() []Descriptor {
	return []Descriptor{
		{
			Version:    "2.0",
			Namespaces: map[string]string{VocabDDMS: ddms2NS, VocabGML: gml2NS, VocabISM: ism2NS, VocabXLink: xlinkNS},
			Schemas:    schemaPaths("2.0", VocabDDMS, VocabISM),
		},
		{
			Version:    "3.0",
			Aliases:    []string{"3.0.1"},
			Namespaces: map[string]string{VocabDDMS: ddms3NS, VocabGML: gml32NS, VocabISM: ismNS, VocabXLink: xlinkNS},
			Schemas:    schemaPaths("3.0", VocabDDMS, VocabISM),
		},
		{
			Version:    "3.1",
			Namespaces: map[string]string{VocabDDMS: ddms31NS, VocabGML: gml32NS, VocabISM: ismNS, VocabXLink: xlinkNS},
			Schemas:    schemaPaths("3.1", VocabDDMS, VocabISM),
		},
		{
			Version: "4.0.1",
			Aliases: []string{"4.0"},
			Namespaces: map[string]string{VocabDDMS: ddms4NS, VocabGML: gml32NS, VocabISM: ismNS,
				VocabNTK: ntkNS, VocabVirt: virtNS, VocabXLink: xlinkNS},
			Schemas: schemaPaths("4.0.1", VocabDDMS, VocabISM, VocabNTK),
		},
		{
			Version: "4.1",
			Namespaces: map[string]string{VocabDDMS: ddms4NS, VocabGML: gml32NS, VocabISM: ismNS,
				VocabNTK: ntkNS, VocabVirt: virtNS, VocabXLink: xlinkNS},
			Schemas: schemaPaths("4.1", VocabDDMS, VocabISM, VocabNTK),
		},
		{
			Version: "5.0",
			Namespaces: map[string]string{VocabDDMS: ddms5NS, VocabGML: gml32NS, VocabISM: ismNS,
				VocabNTK: ntkNS, VocabTSPI: tspiNS, VocabVirt: virtNS, VocabXLink: xlinkNS},
			Schemas: schemaPaths("5.0", VocabDDMS, VocabISM, VocabNTK, VocabTSPI),
		},
	}
}

var schemaFiles = map[string]string{
	VocabDDMS: "DDMS/ddms.xsd",
	VocabISM:  "ISM/IC-ISM.xsd",
	VocabNTK:  "NTK/IC-NTK.xsd",
	VocabTSPI: "TSPI/tspi.xsd",
}

func schemaPaths(version string, vocabs ...string) map[string]string {
	out := make(map[string]string, len(vocabs))
	for _, vocab := range vocabs {
		out[vocab] = "schemas/" + version + "/" + schemaFiles[vocab]
	}
	return out
}
