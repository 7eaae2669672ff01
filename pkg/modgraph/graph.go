// SPDX-License-Identifier: MPL-2.0

package modgraph

import (
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// NoModule is the zero ModuleID. It never identifies a defined module; AddExport
// takes it as the target to mean "every module".
const NoModule ModuleID = 0

type (
	// ModuleID is the stable handle of a defined module. IDs are assigned
	// sequentially from 1 in definition order.
	ModuleID uint32

	// Runtime is the surface a module-aware runtime drives while it builds and
	// extends its module graph.
	Runtime interface {
		DefineModule(desc Descriptor) (ModuleID, error)
		AddExport(from ModuleID, pkg string, to ModuleID) error
		AddRead(from, to ModuleID) error
		AddPackage(module ModuleID, pkg string) error
	}

	// Descriptor carries everything DefineModule needs to register a module.
	Descriptor struct {
		// Name is the unique module name, e.g. "com.example.util".
		Name string
		// Version is an optional version string, checked against the graph's VersionPolicy.
		Version string
		// Location is an optional origin descriptor such as a file path or URI.
		Location string
		// Packages are the packages the module owns. Duplicates are collapsed.
		Packages []string
		// Automatic modules read every module and export every package they own.
		Automatic bool
	}

	// ModuleInfo is a point-in-time copy of a module's metadata.
	ModuleInfo struct {
		ID        ModuleID
		Name      string
		Version   string
		Location  string
		Packages  []string
		Automatic bool
		Loose     bool
	}

	// Option configures a Graph.
	Option func(*Graph)

	// Graph is the module graph: registry, export tables and readability graph.
	// The zero value is not usable; create graphs with New.
	Graph struct {
		instanceID string
		logger     *log.Logger
		versions   VersionPolicy

		// mu guards modules, byName and owners. It is always acquired before
		// any moduleRecord lock.
		mu      sync.RWMutex
		modules []*moduleRecord
		byName  map[string]ModuleID
		owners  map[string]ModuleID
	}

	// moduleRecord is the arena entry for one module. Identity fields are
	// immutable after definition; everything else is guarded by mu.
	moduleRecord struct {
		id        ModuleID
		name      string
		version   string
		location  string
		automatic bool
		loose     atomic.Bool

		mu       sync.RWMutex
		packages map[string]struct{}
		exports  map[string]*exportEntry
		reads    map[ModuleID]struct{}
	}
)

var _ Runtime = (*Graph)(nil)

// WithLogger sets the logger mutations are reported to at debug level.
func WithLogger(l *log.Logger) Option {
	return func(g *Graph) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithVersionPolicy sets the policy DefineModule applies to module versions.
func WithVersionPolicy(p VersionPolicy) Option {
	return func(g *Graph) {
		g.versions = p
	}
}

// New creates an empty Graph.
func New(opts ...Option) *Graph {
	g := &Graph{
		logger: log.Default(),
		byName: make(map[string]ModuleID),
		owners: make(map[string]ModuleID),
	}
	if id, err := uuid.NewV7(); err == nil {
		g.instanceID = id.String()
	} else {
		g.instanceID = uuid.NewString()
	}
	for _, opt := range opts {
		opt(g)
	}
	g.logger = g.logger.With("graph", g.instanceID)
	return g
}

// InstanceID returns the UUID identifying this graph in log output.
func (g *Graph) InstanceID() string {
	return g.instanceID
}

// VersionPolicy returns the policy DefineModule applies to versions.
func (g *Graph) VersionPolicy() VersionPolicy {
	return g.versions
}

// Len returns the number of defined modules.
func (g *Graph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.modules)
}

// record resolves id to its arena entry. Records are never removed, so the
// returned pointer stays valid after the registry lock is released.
func (g *Graph) record(id ModuleID) (*moduleRecord, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.recordLocked(id)
}

func (g *Graph) recordLocked(id ModuleID) (*moduleRecord, bool) {
	if id == NoModule || int(id) > len(g.modules) {
		return nil, false
	}
	return g.modules[id-1], true
}

// mustRecord is record with an *UnknownModuleError for missing ids.
func (g *Graph) mustRecord(id ModuleID) (*moduleRecord, error) {
	rec, ok := g.record(id)
	if !ok {
		return nil, &UnknownModuleError{ID: id}
	}
	return rec, nil
}
