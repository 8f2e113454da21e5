package warehouse

import (
	"iter"

	"github.com/TheBitDrifter/table"
)

// Ensure Cursor implements iCursor interface
var _ iCursor = &Cursor{}

// iCursor defines the interface for iterating over entities in storage
type iCursor interface {
	Entities() iter.Seq2[int, table.Table]
	Next() bool
}

// Cursor provides iteration over filtered entities in storage. It walks the
// backing tables of every grouping whose archetype matches query, one table
// at a time, in the lookup's insertion order.
type Cursor struct {
	query   QueryNode
	storage Storage

	tables      []table.Table
	tableIndex  int
	entityIndex int
	remaining   int

	initialized bool
}

// newCursor creates a new cursor for the given query and storage
func newCursor(query QueryNode, storage Storage) *Cursor {
	return &Cursor{
		query:   query,
		storage: storage,
	}
}

// Next advances to the next entity and returns whether one exists
func (c *Cursor) Next() bool {
	if c.entityIndex < c.remaining {
		c.entityIndex++
		return true
	}
	return c.advance()
}

// advance moves to the next available table with entities
func (c *Cursor) advance() bool {
	if !c.initialized {
		c.Initialize()
	}

	for c.tableIndex < len(c.tables) {
		c.remaining = c.tables[c.tableIndex].Length()
		if c.entityIndex < c.remaining {
			c.entityIndex++
			return true
		}
		c.tableIndex++
		c.entityIndex = 0
	}

	c.Reset()
	return false
}

// Entities returns an iterator sequence over entities matching the query
func (c *Cursor) Entities() iter.Seq2[int, table.Table] {
	return func(yield func(int, table.Table) bool) {
		c.Initialize()

		for c.tableIndex < len(c.tables) {
			tbl := c.tables[c.tableIndex]
			c.remaining = tbl.Length()

			for c.entityIndex < c.remaining {
				if !yield(c.entityIndex, tbl) {
					c.Reset()
					return
				}
				c.entityIndex++
			}

			c.entityIndex = 0
			c.tableIndex++
		}

		c.Reset()
	}
}

// Initialize sets up the cursor by finding matching tables
func (c *Cursor) Initialize() {
	if c.initialized {
		return
	}

	c.storage.Lock()
	c.tables = make([]table.Table, 0)

	lookup := c.storage.Lookup()
	for _, arch := range c.storage.Archetypes() {
		if !c.query.Evaluate(arch) {
			continue
		}
		grouping, ok := lookup.TryGetGrouping(arch)
		if !ok {
			continue
		}
		for _, t := range grouping.Tables() {
			if tbl, ok := t.(table.Table); ok {
				c.tables = append(c.tables, tbl)
			}
		}
	}

	if len(c.tables) > 0 {
		c.tableIndex = 0
		c.remaining = c.tables[0].Length()
	}

	c.initialized = true
}

// Reset clears cursor state and releases the storage lock
func (c *Cursor) Reset() {
	c.tableIndex = 0
	c.entityIndex = 0
	c.remaining = 0
	c.tables = nil
	c.initialized = false
	c.storage.Unlock()
}

// CurrentEntity returns the entity at the current cursor position
func (c *Cursor) CurrentEntity() (Entity, error) {
	entry, err := c.tables[c.tableIndex].Entry(c.entityIndex - 1)
	if err != nil {
		return nil, err
	}
	entityID := entry.ID()
	return c.storage.Entity(int(entityID))
}

// EntityAtOffset returns an entity at the specified offset from current position
func (c *Cursor) EntityAtOffset(offset int) (Entity, error) {
	entry, err := c.tables[c.tableIndex].Entry(c.entityIndex - 1 + offset)
	if err != nil {
		return nil, err
	}
	entityID := entry.ID()
	return c.storage.Entity(int(entityID))
}

// EntityIndex returns the current entity index within the current table
func (c *Cursor) EntityIndex() int {
	return c.entityIndex
}

// RemainingInArchetype returns the number of entities left in the current table
func (c *Cursor) RemainingInArchetype() int {
	return c.remaining - c.entityIndex
}

// TotalMatched returns the total number of entities matching the query
func (c *Cursor) TotalMatched() int {
	if !c.initialized {
		c.Initialize()
	}

	total := 0
	for _, tbl := range c.tables {
		total += tbl.Length()
	}

	c.Reset()
	return total
}
