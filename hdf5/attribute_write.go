package hdf5

import (
	"fmt"

	"github.com/Andrew-Robertson/make-SHMR-datasets/internal/message"
	"github.com/Andrew-Robertson/make-SHMR-datasets/internal/object"
)

// SetAttr writes an attribute on this group (including the root group).
// The value can be a scalar or slice of: int, int8-64, uint, uint8-64,
// float32, float64, string. Setting an attribute that already exists
// replaces it.
func (g *Group) SetAttr(name string, value interface{}) error {
	if !g.file.writable {
		return fmt.Errorf("file is not writable")
	}

	if name == "" {
		return fmt.Errorf("attribute name cannot be empty")
	}

	attrMsg, err := createAttributeMessage(name, value)
	if err != nil {
		return fmt.Errorf("creating attribute %q: %w", name, err)
	}

	// Load existing state so the rewrite preserves links and attributes
	if g.pendingLinks == nil {
		if err := g.loadExistingLinks(); err != nil {
			return fmt.Errorf("loading existing links: %w", err)
		}
	}
	if g.pendingAttrs == nil {
		if err := g.loadExistingAttrs(); err != nil {
			return fmt.Errorf("loading existing attributes: %w", err)
		}
	}

	// Replace an existing attribute of the same name
	replaced := false
	for i, attr := range g.pendingAttrs {
		if attr.Name == name {
			g.pendingAttrs[i] = attrMsg
			replaced = true
			break
		}
	}
	if !replaced {
		g.pendingAttrs = append(g.pendingAttrs, attrMsg)
	}

	// Rewrite the group's object header with the new attribute
	return g.rewriteHeader()
}

// loadExistingAttrs loads existing attribute messages from the group's
// object header.
func (g *Group) loadExistingAttrs() error {
	g.pendingAttrs = make([]*message.Attribute, 0)

	// If we don't have a header loaded, try to load it
	if g.header == nil && g.file.reader != nil {
		header, err := object.Read(g.file.reader, g.addr)
		if err != nil {
			// If we can't read the header, start fresh (this is OK for new groups)
			return nil
		}
		g.header = header
	}

	// If we have a header, extract existing attribute messages
	if g.header != nil {
		attrMsgs := g.header.GetMessages(message.TypeAttribute)
		for _, msg := range attrMsgs {
			if attrMsg, ok := msg.(*message.Attribute); ok {
				g.pendingAttrs = append(g.pendingAttrs, attrMsg)
			}
		}
	}

	return nil
}
