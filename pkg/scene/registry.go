package scene

import (
	"slices"

	"github.com/matzehuels/nodecanvas/pkg/errors"
)

// defaultNodeType is the registry key for plain nodes created with
// NewNode. Its factory builds a bare node whose sockets are reconstructed
// entirely from the document, so programmatically built scenes round-trip
// without registering anything.
const defaultNodeType = "node"

// Factory constructs a node of a concrete type, registered with the scene
// and carrying that type's default sockets and content payload.
type Factory func(s *Scene) (*Node, error)

// Registry maps stable node-type identifiers to factories. The core only
// ever calls Create; whatever module owns concrete node types populates
// the registry at startup.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry creates a registry pre-populated with the plain node type.
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]Factory)}
	r.Register(defaultNodeType, func(s *Scene) (*Node, error) {
		return NewNode(s, "", nil, nil), nil
	})
	return r
}

// Register binds a type identifier to a factory, replacing any previous
// binding.
func (r *Registry) Register(typeName string, f Factory) {
	r.factories[typeName] = f
}

// Create constructs a node of the named type in the given scene. Unknown
// types yield an UNKNOWN_NODE_TYPE error; during document loads the scene
// treats that as a per-node skip rather than a fatal abort.
func (r *Registry) Create(typeName string, s *Scene) (*Node, error) {
	f, ok := r.factories[typeName]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownNodeType, "node type %q is not registered", typeName)
	}
	n, err := f(s)
	if err != nil {
		return nil, err
	}
	n.typeName = typeName
	return n, nil
}

// Types returns the registered type identifiers in sorted order.
func (r *Registry) Types() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
