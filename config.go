package warehouse

import "github.com/TheBitDrifter/table"

// Config holds global configuration for the table system
var Config config = config{}

type config struct {
	tableEvents     table.TableEvents
	scratchPoolSize int
}

// SetTableEvents configures the table event callbacks
func (c *config) SetTableEvents(te table.TableEvents) {
	c.tableEvents = te
}

// SetScratchPoolClass tunes the minimum capacity, in 32-bit words, that
// bitmask.go's scratch pool pre-allocates for pooled buffers. Call once at
// startup if the application's archetypes routinely need more than the
// default 64-word class (2048 distinct component ids).
func (c *config) SetScratchPoolClass(words int) {
	c.scratchPoolSize = words
}
