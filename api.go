package bnk

// Header returns a copy of the bank header chunk, if available.
func (b *Bank) Header() *BankHeaderChunk {
	if b == nil {
		return nil
	}

	for _, c := range b.Chunks {
		if h, ok := c.Body.(*BankHeaderChunk); ok {
			out := *h
			return &out
		}
	}

	return nil
}

// Hierarchy returns the decoded hierarchy chunk, if available. The result is
// shared with the bank; use Clone or the query helpers for independent copies.
func (b *Bank) Hierarchy() *HierarchyChunk {
	if b == nil {
		return nil
	}

	for _, c := range b.Chunks {
		if h, ok := c.Body.(*HierarchyChunk); ok {
			return h
		}
	}

	return nil
}

// Chunk returns a copy of the first chunk with the given name.
func (b *Bank) Chunk(name ChunkName) (Chunk, bool) {
	if b == nil {
		return Chunk{}, false
	}

	for _, c := range b.Chunks {
		if c.Header.Name == name {
			return c.Clone(), true
		}
	}

	return Chunk{}, false
}

// RawChunks returns a copy of the chunks kept undecoded.
func (b *Bank) RawChunks() []OpaqueChunk {
	if b == nil {
		return nil
	}

	var out []OpaqueChunk

	for _, c := range b.Chunks {
		if o, ok := c.Body.(*OpaqueChunk); ok {
			out = append(out, *o.Clone())
		}
	}

	return out
}

// Clone returns a deep copy of the bank.
func (b *Bank) Clone() *Bank {
	if b == nil {
		return nil
	}

	return &Bank{Chunks: cloneChunks(b.Chunks)}
}

// Clone returns a deep copy of the hierarchy.
func (h *HierarchyChunk) Clone() *HierarchyChunk {
	if h == nil {
		return nil
	}

	out := &HierarchyChunk{ObjectCount: h.ObjectCount}
	if h.Objects != nil {
		out.Objects = make([]HierarchyObject, len(h.Objects))
		for i := range h.Objects {
			out.Objects[i] = h.Objects[i].Clone()
		}
	}

	return out
}
