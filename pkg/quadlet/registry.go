package quadlet

// Registry indexes resources of one kind by name so dependents can pick them
// up without holding direct references. Lookups preserve request order.
type Registry[R Resource] struct {
	kind   Kind
	byName map[string]R
	order  []string
}

// NewRegistry indexes resources by name, rejecting duplicates
func NewRegistry[R Resource](kind Kind, resources []R) (*Registry[R], error) {
	reg := &Registry[R]{
		kind:   kind,
		byName: make(map[string]R, len(resources)),
	}
	for _, res := range resources {
		name := res.Name()
		if _, exists := reg.byName[name]; exists {
			return nil, newError(ErrDuplicateResourceID, "%s %q is registered twice", kind, name)
		}
		reg.byName[name] = res
		reg.order = append(reg.order, name)
	}
	return reg, nil
}

// Use resolves the named resources in request order. Every name must be
// registered, and a name may appear at most once per call.
func (r *Registry[R]) Use(names ...string) ([]R, error) {
	seen := make(map[string]struct{}, len(names))
	picked := make([]R, 0, len(names))
	for _, name := range names {
		if _, dup := seen[name]; dup {
			return nil, newError(ErrDuplicateResourceRequest, "%s %q requested twice in one call", r.kind, name)
		}
		seen[name] = struct{}{}
		res, ok := r.byName[name]
		if !ok {
			return nil, newError(ErrInvalidResourceName, "unknown %s %q", r.kind, name)
		}
		picked = append(picked, res)
	}
	return picked, nil
}

// Get looks up a single resource by name
func (r *Registry[R]) Get(name string) (R, bool) {
	res, ok := r.byName[name]
	return res, ok
}

// Names lists registered names in registration order
func (r *Registry[R]) Names() []string {
	return append([]string(nil), r.order...)
}

// Len reports how many resources are registered
func (r *Registry[R]) Len() int { return len(r.order) }
