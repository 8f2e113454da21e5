package warehouse

import "sort"

// EntityFilter is an immutable predicate over archetypes, decomposed into
// required/included/excluded component sets. Filter equality (Equal)
// compares only the three bitmasks, not the original type sequences, so
// filters built from differently-ordered inputs compare equal. No hash
// method is defined, and the slice fields make EntityFilter unusable as a
// Go map key directly.
type EntityFilter struct {
	requiredTypes []ComponentType
	includedTypes []ComponentType
	excludedTypes []ComponentType

	required Mask
	included Mask
	excluded Mask
}

// Universal is the filter matching every archetype: all three sets empty.
var Universal = EntityFilter{}

// canonicalize sorts, dedupes, and drops zero-value entries from types,
// returning the cleaned slice and its trimmed bitmask.
func canonicalize(types []ComponentType) ([]ComponentType, Mask) {
	filtered := make([]ComponentType, 0, len(types))
	for _, t := range types {
		if t == (ComponentType{}) {
			continue
		}
		filtered = append(filtered, t)
	}
	sort.Slice(filtered, func(i, j int) bool { return filtered[i].Less(filtered[j]) })
	deduped := filtered[:0:0]
	for i, t := range filtered {
		if i == 0 || !t.Equal(filtered[i-1]) {
			deduped = append(deduped, t)
		}
	}
	ids := make([]uint32, len(deduped))
	for i, t := range deduped {
		ids[i] = t.ID()
	}
	return deduped, buildMask(ids)
}

// Create builds a filter from required/included/excluded type lists, each
// independently canonicalized. If all three are empty, Create returns the
// shared Universal singleton.
func Create(required, included, excluded []ComponentType) EntityFilter {
	reqTypes, reqMask := canonicalize(required)
	incTypes, incMask := canonicalize(included)
	excTypes, excMask := canonicalize(excluded)

	if len(reqTypes) == 0 && len(incTypes) == 0 && len(excTypes) == 0 {
		return Universal
	}
	return EntityFilter{
		requiredTypes: reqTypes,
		includedTypes: incTypes,
		excludedTypes: excTypes,
		required:      reqMask,
		included:      incMask,
		excluded:      excMask,
	}
}

// Require returns a filter equivalent to f but with types added to the
// required set.
func (f EntityFilter) Require(types ...ComponentType) EntityFilter {
	return Create(append(append([]ComponentType{}, f.requiredTypes...), types...), f.includedTypes, f.excludedTypes)
}

// Include returns a filter equivalent to f but with types added to the
// included set.
func (f EntityFilter) Include(types ...ComponentType) EntityFilter {
	return Create(f.requiredTypes, append(append([]ComponentType{}, f.includedTypes...), types...), f.excludedTypes)
}

// Exclude returns a filter equivalent to f but with types added to the
// excluded set.
func (f EntityFilter) Exclude(types ...ComponentType) EntityFilter {
	return Create(f.requiredTypes, f.includedTypes, append(append([]ComponentType{}, f.excludedTypes...), types...))
}

// Matches reports whether archetype satisfies the filter:
//
//	required ⊆ archetype ∧ (included = ∅ ∨ included ∩ archetype ≠ ∅) ∧ excluded ∩ archetype = ∅
func (f EntityFilter) Matches(a Archetype) bool {
	m := a.ComponentBitmask()
	return Requires(f.required, m) && Includes(f.included, m) && Excludes(f.excluded, m)
}

// Equal reports whether two filters describe the same predicate, comparing
// only the three bitmasks.
func (f EntityFilter) Equal(other EntityFilter) bool {
	return Equals(f.required, other.required) &&
		Equals(f.included, other.included) &&
		Equals(f.excluded, other.excluded)
}

// Builder accumulates required/included/excluded component types and emits
// an EntityFilter on demand.
type Builder struct {
	required []ComponentType
	included []ComponentType
	excluded []ComponentType
}

// NewBuilder returns an empty filter builder.
func NewBuilder() *Builder { return &Builder{} }

// Require adds types to the builder's required set.
func (b *Builder) Require(types ...ComponentType) *Builder {
	b.required = append(b.required, types...)
	return b
}

// Include adds types to the builder's included set.
func (b *Builder) Include(types ...ComponentType) *Builder {
	b.included = append(b.included, types...)
	return b
}

// Exclude adds types to the builder's excluded set.
func (b *Builder) Exclude(types ...ComponentType) *Builder {
	b.excluded = append(b.excluded, types...)
	return b
}

// Build emits the accumulated filter, returning Universal if all three sets
// are still empty.
func (b *Builder) Build() EntityFilter {
	return Create(b.required, b.included, b.excluded)
}

// ToBuilder returns a Builder pre-populated with f's three sets, so a
// filter can be extended without mutating the original.
func (f EntityFilter) ToBuilder() *Builder {
	return &Builder{
		required: append([]ComponentType{}, f.requiredTypes...),
		included: append([]ComponentType{}, f.includedTypes...),
		excluded: append([]ComponentType{}, f.excludedTypes...),
	}
}
