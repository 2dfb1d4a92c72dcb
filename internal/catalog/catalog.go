package catalog

import (
	"fmt"
	"time"
)

// Catalog binds every category to its tool set over one transport. The
// lookup table is built exhaustively at construction; a category without
// tools is a construction-time error, not a runtime branch miss.
type Catalog struct {
	toolsets map[Category][]Tool
}

// New builds the catalog over the given transport. timeout bounds every
// individual wire call made by a tool.
func New(tr Transport, timeout time.Duration) (*Catalog, error) {
	c := &Catalog{
		toolsets: map[Category][]Tool{
			Application:  applicationTools(tr, timeout),
			Song:         songTools(tr, timeout),
			View:         viewTools(tr, timeout),
			Track:        trackTools(tr, timeout),
			ClipSlot:     clipSlotTools(tr, timeout),
			Clip:         clipTools(tr, timeout),
			Scene:        sceneTools(tr, timeout),
			Device:       deviceTools(tr, timeout),
			DeviceLoader: deviceLoaderTools(tr, timeout),
			Composition:  compositionTools(tr, timeout),
		},
	}
	for _, cat := range Categories() {
		if len(c.toolsets[cat]) == 0 {
			return nil, fmt.Errorf("category %s has no tool set", cat)
		}
	}
	return c, nil
}

// ToolsFor returns the fixed tool set of a category.
func (c *Catalog) ToolsFor(cat Category) ([]Tool, error) {
	tools, ok := c.toolsets[cat]
	if !ok {
		return nil, fmt.Errorf("no tool set for category %s", cat)
	}
	return tools, nil
}

// ToolNames returns the names of a category's tools, in tool-set order.
func (c *Catalog) ToolNames(cat Category) []string {
	tools := c.toolsets[cat]
	names := make([]string, 0, len(tools))
	for _, t := range tools {
		names = append(names, t.Name())
	}
	return names
}
