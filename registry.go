package warehouse

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/TheBitDrifter/table"
)

// Ensure storage implements Storage interface
var _ Storage = &storage{}

var (
	globalEntryIndex = table.Factory.NewEntryIndex()
	globalEntities   = make([]entity, 0)
)

// Storage is the core's external collaborator: entity-id allocation and
// structural-change commands, built on top of an EntityTableLookup rather
// than owning its own archetype map.
type Storage interface {
	Entity(id int) (Entity, error)
	NewEntities(int, ...Component) ([]Entity, error)
	EnqueueNewEntities(int, ...Component) error
	DestroyEntities(...Entity) error
	EnqueueDestroyEntities(...Entity) error
	TransferEntities(target Storage, entities ...Entity) error

	Register(...Component)
	Locked() bool
	Lock()
	Unlock()
	Enqueue(EntityOperation)
	Archetypes() []Archetype
	Lookup() *EntityTableLookup

	tableFor(...Component) (table.Table, error)
}

// storage implements Storage, driving archetype transitions through a
// *EntityTableLookup instead of a private map[mask]id table.
type storage struct {
	lockCount      atomic.Int32
	schema         table.Schema
	lookup         *EntityTableLookup
	operationQueue EntityOperationsQueue
	componentsByID sync.Map // uint32 -> Component, populated by Register
}

// newStorage creates a new Storage implementation with the given schema.
func newStorage(schema table.Schema) Storage {
	lookup := NewEntityTableLookup()
	s := &storage{
		schema:         schema,
		lookup:         lookup,
		operationQueue: &entityOperationsQueue{},
	}
	lookup.SetGroupingFactory(func(a Archetype) EntityTableGrouping {
		return newRegistryGrouping(a, globalEntryIndex, s.elementTypeFor)
	})
	return s
}

// elementTypeFor resolves the concrete table.ElementType (the original
// Component instance supplied to Register) for a registered component kind.
// Every component that reaches a grouping's table construction was already
// passed through Register, so this only fails for a programming error.
func (s *storage) elementTypeFor(ct ComponentType) (table.ElementType, bool) {
	v, ok := s.componentsByID.Load(ct.ID())
	if !ok {
		return nil, false
	}
	return v.(Component), true
}

// Lookup exposes the underlying EntityTableLookup for callers that want to
// build their own EntityQuery/EntityFilter directly against this registry.
func (s *storage) Lookup() *EntityTableLookup { return s.lookup }

// Entity retrieves an entity by ID.
func (s *storage) Entity(id int) (Entity, error) {
	if id < 1 || id > len(globalEntities) {
		return nil, OutOfRangeError{Index: id, Size: len(globalEntities)}
	}
	return &globalEntities[id-1], nil
}

// archetypeFor canonicalizes components into their core Archetype. It does
// not register the components; callers do that through Register.
func (s *storage) archetypeFor(components ...Component) Archetype {
	types := make([]ComponentType, len(components))
	for i, c := range components {
		types[i] = c.Kind()
	}
	return NewArchetype(types...)
}

// groupingFor interns (creating if absent) the grouping for components.
func (s *storage) groupingFor(components ...Component) *registryGrouping {
	a := s.archetypeFor(components...)
	g := s.lookup.GetGrouping(a)
	return g.(*registryGrouping)
}

// NewEntities creates n new entities with the specified components.
func (s *storage) NewEntities(n int, components ...Component) ([]Entity, error) {
	if s.Locked() {
		return nil, LockedStorageError{}
	}
	s.Register(components...)
	rg := s.groupingFor(components...)
	tbl, err := rg.table(s.schema)
	if err != nil {
		return nil, AddTrace(err)
	}
	entries, err := tbl.NewEntries(n)
	if err != nil {
		return nil, AddTrace(err)
	}

	currentLen := len(globalEntities)
	neededCap := currentLen + n
	if cap(globalEntities) < neededCap {
		newCap := max(neededCap, 2*cap(globalEntities))
		newEntities := make([]entity, currentLen, newCap)
		copy(newEntities, globalEntities)
		globalEntities = newEntities
	}
	globalEntities = globalEntities[:neededCap]

	entities := make([]Entity, n)
	for i, entry := range entries {
		en := &entity{
			Entry:      entry,
			sto:        s,
			id:         entry.ID(),
			components: components,
		}
		entities[i] = en
		globalEntities[currentLen+i] = *en
	}
	return entities, nil
}

// Register adds components' element types to the storage schema, and
// records each by id so a later grouping can rebuild its element-type list
// from an Archetype's bare ComponentTypes.
func (s *storage) Register(comps ...Component) {
	ets := make([]table.ElementType, len(comps))
	for i, c := range comps {
		ets[i] = c
		s.componentsByID.LoadOrStore(c.Kind().ID(), c)
	}
	s.schema.Register(ets...)
}

// Locked reports whether any outstanding iteration lock prevents structural
// changes.
func (s *storage) Locked() bool {
	return s.lockCount.Load() > 0
}

// Lock acquires one reentrant iteration lock.
func (s *storage) Lock() {
	s.lockCount.Add(1)
}

// Unlock releases one reentrant iteration lock, draining queued structural
// operations once the count reaches zero.
func (s *storage) Unlock() {
	if s.lockCount.Add(-1) == 0 {
		if err := s.operationQueue.ProcessAll(s); err != nil {
			panic(AddTrace(fmt.Errorf("error processing queued operations: %w", err)))
		}
	}
}

// EnqueueNewEntities either creates entities immediately or queues creation
// if storage is locked.
func (s *storage) EnqueueNewEntities(count int, components ...Component) error {
	if !s.Locked() {
		_, err := s.NewEntities(count, components...)
		if err != nil {
			return fmt.Errorf("failed to create entities directly: %w", err)
		}
		return nil
	}
	s.operationQueue.Enqueue(NewEntityOperation{count: count, components: components})
	return nil
}

// DestroyEntities removes entities from storage.
func (s *storage) DestroyEntities(entities ...Entity) error {
	if s.Locked() {
		return LockedStorageError{}
	}
	tableGroups := make(map[table.Table][]int)
	for _, en := range entities {
		if en == nil {
			continue
		}
		tableGroups[en.Table()] = append(tableGroups[en.Table()], int(en.ID()))
	}
	for tbl, ids := range tableGroups {
		if _, err := tbl.DeleteEntries(ids...); err != nil {
			return fmt.Errorf("failed to delete entries: %w", err)
		}
	}
	for _, en := range entities {
		if en == nil {
			continue
		}
		index := en.ID() - 1
		if int(index) < len(globalEntities) {
			globalEntities[index] = entity{}
		}
	}
	return nil
}

// EnqueueDestroyEntities either destroys entities immediately or queues
// destruction if storage is locked.
func (s *storage) EnqueueDestroyEntities(entities ...Entity) error {
	if !s.Locked() {
		return s.DestroyEntities(entities...)
	}
	for _, en := range entities {
		s.operationQueue.Enqueue(DestroyEntityOperation{entity: en, recycled: en.Recycled()})
	}
	return nil
}

// TransferEntities moves entities from this storage to the target storage.
func (s *storage) TransferEntities(target Storage, entities ...Entity) error {
	if s.Locked() {
		return LockedStorageError{}
	}
	for _, en := range entities {
		comps := en.Components()
		target.Register(comps...)
		targetTbl, err := target.tableFor(comps...)
		if err != nil {
			return err
		}
		if err := en.Table().TransferEntries(targetTbl, en.Index()); err != nil {
			return err
		}
		en.SetStorage(target)
	}
	return nil
}

// Enqueue adds an operation to the queue.
func (s *storage) Enqueue(op EntityOperation) {
	s.operationQueue.Enqueue(op)
}

// Archetypes returns every archetype currently interned in this storage's
// lookup, in insertion order.
func (s *storage) Archetypes() []Archetype {
	e := s.lookup.NewEnumerator()
	out := make([]Archetype, 0, e.Len())
	for e.Next() {
		out = append(out, e.Current().Key())
	}
	return out
}

// tableFor gets or lazily creates the backing table for the given component
// set.
func (s *storage) tableFor(comps ...Component) (table.Table, error) {
	rg := s.groupingFor(comps...)
	return rg.table(s.schema)
}

// registryGrouping is the Storage layer's EntityTableGrouping: it owns
// exactly one growable table.Table, built lazily on first use — zero tables
// until the first entity lands, one afterward; this registry never splits
// an archetype across tables.
type registryGrouping struct {
	key            Archetype
	entryIndex     table.EntryIndex
	elementTypeFor func(ComponentType) (table.ElementType, bool)

	mu  sync.Mutex
	tbl table.Table
}

func newRegistryGrouping(key Archetype, entryIndex table.EntryIndex, elementTypeFor func(ComponentType) (table.ElementType, bool)) *registryGrouping {
	return &registryGrouping{key: key, entryIndex: entryIndex, elementTypeFor: elementTypeFor}
}

func (g *registryGrouping) Key() Archetype { return g.key }

func (g *registryGrouping) Tables() []EntityTable {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.tbl == nil {
		return nil
	}
	return []EntityTable{g.tbl}
}

func (g *registryGrouping) Append(t EntityTable) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.tbl, _ = t.(table.Table)
}

// table returns this grouping's backing table, building it on first call.
// Every component type must already have been registered (storage.Register)
// so its concrete table.ElementType can be recovered here.
func (g *registryGrouping) table(schema table.Schema) (table.Table, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.tbl != nil {
		return g.tbl, nil
	}
	types := g.key.ComponentTypes()
	elementTypes := make([]table.ElementType, len(types))
	for i, ct := range types {
		et, ok := g.elementTypeFor(ct)
		if !ok {
			return nil, AddTrace(fmt.Errorf("component id %d used before registration", ct.ID()))
		}
		elementTypes[i] = et
	}
	tbl, err := table.NewTableBuilder().
		WithSchema(schema).
		WithEntryIndex(g.entryIndex).
		WithElementTypes(elementTypes...).
		WithEvents(Config.tableEvents).
		Build()
	if err != nil {
		return nil, err
	}
	g.tbl = tbl
	return tbl, nil
}
