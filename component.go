package warehouse

import (
	"github.com/TheBitDrifter/table"
)

// Component represents a data attribute/state that can be attached to
// entities. Components can be used to build archetype/filter queries.
// Any concrete Component carries both its external row-storage identity
// (table.ElementType, used by the table package for row layout) and its
// core registry descriptor (Kind, used by the archetype/filter/lookup
// machinery to build bitmasks).
type Component interface {
	table.ElementType
	Kind() ComponentType
}

// componentElement is the concrete Component FactoryNewComponent builds: a
// table-package element type paired with its registered ComponentType.
type componentElement struct {
	table.ElementType
	kind ComponentType
}

// Kind returns the component's core registry descriptor.
func (c componentElement) Kind() ComponentType { return c.kind }
