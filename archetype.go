package warehouse

// Archetype is the immutable, canonical descriptor of "the set of component
// kinds an entity has". Canonical identity is determined solely by the
// bitmask: any two distinct archetypes have distinct bitmasks, and the
// bitmask is a pure function of the sorted, deduplicated component list.
//
// Archetype values are not interned here — EntityTableLookup is the
// interner; an Archetype is just a value describing a point in component
// space, cheap to construct and compare.
type Archetype struct {
	types []ComponentType
	mask  Mask
}

// Empty is the archetype with no components.
var Empty = Archetype{}

// NewArchetype canonicalizes types into an Archetype: nulls are dropped, the
// remainder sorted by ComponentType order and deduplicated, and the bitmask
// computed and trimmed.
func NewArchetype(types ...ComponentType) Archetype {
	deduped, mask := canonicalize(types)
	return Archetype{types: deduped, mask: mask}
}

// ComponentTypes returns the archetype's sorted, deduplicated component list.
// Callers must not mutate the returned slice.
func (a Archetype) ComponentTypes() []ComponentType { return a.types }

// ComponentBitmask returns the archetype's canonical bitmask. Callers must
// not mutate the returned slice.
func (a Archetype) ComponentBitmask() Mask { return a.mask }

// Contains reports whether the archetype includes the given component kind.
func (a Archetype) Contains(c ComponentType) bool {
	return Test(a.mask, c.ID())
}

// Add returns the archetype obtained by adding c. If c is already present,
// Add returns a equal to a.
func (a Archetype) Add(c ComponentType) Archetype {
	if a.Contains(c) {
		return a
	}
	types := make([]ComponentType, len(a.types)+1)
	copy(types, a.types)
	types[len(a.types)] = c
	return NewArchetype(types...)
}

// Remove returns the archetype obtained by removing c. If c is absent,
// Remove returns a equal to a.
func (a Archetype) Remove(c ComponentType) Archetype {
	if !a.Contains(c) {
		return a
	}
	types := make([]ComponentType, 0, len(a.types))
	for _, t := range a.types {
		if !t.Equal(c) {
			types = append(types, t)
		}
	}
	return NewArchetype(types...)
}

// Equal reports whether two archetypes describe the same component set.
// Archetype identity is determined solely by the bitmask.
func (a Archetype) Equal(other Archetype) bool {
	return Equals(a.mask, other.mask)
}
