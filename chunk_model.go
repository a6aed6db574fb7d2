package bnk

import (
	"encoding/binary"
	"fmt"
)

// ChunkName is a chunk tag read as a big-endian u32, so ChunkBKHD prints
// as "BKHD".
type ChunkName uint32

const (
	ChunkBKHD ChunkName = 0x424B4844 // bank header
	ChunkHIRC ChunkName = 0x48495243 // object hierarchy
	ChunkINIT ChunkName = 0x494E4954
	ChunkSTMG ChunkName = 0x53544D47 // global settings
	ChunkSTID ChunkName = 0x53544944 // string mappings
	ChunkPLAT ChunkName = 0x504C4154
	ChunkDIDX ChunkName = 0x44494458 // media index
	ChunkDATA ChunkName = 0x44415441 // media data
	ChunkENVS ChunkName = 0x454E5653
)

// knownOpaqueChunks are the recognized tags whose payload is kept undecoded.
var knownOpaqueChunks = []ChunkName{
	ChunkINIT, ChunkSTMG, ChunkSTID, ChunkPLAT, ChunkDIDX, ChunkDATA, ChunkENVS,
}

// ChunkNameFromID converts a four byte tag to its ChunkName.
func ChunkNameFromID(id [4]byte) ChunkName {
	return ChunkName(binary.BigEndian.Uint32(id[:]))
}

// ID returns the four byte tag.
func (n ChunkName) ID() [4]byte {
	var id [4]byte
	binary.BigEndian.PutUint32(id[:], uint32(n))

	return id
}

func (n ChunkName) String() string {
	id := n.ID()
	for _, c := range id {
		if c < 0x20 || c > 0x7E {
			return fmt.Sprintf("0x%08x", uint32(n))
		}
	}

	return string(id[:])
}

// ChunkHeader is the tag and payload length preceding every chunk.
type ChunkHeader struct {
	Name   ChunkName
	Length uint32
}

// ChunkBody is the decoded payload of a chunk. The default registry yields
// *BankHeaderChunk, *HierarchyChunk or *OpaqueChunk.
type ChunkBody interface {
	Name() ChunkName
}

// Chunk is one top-level chunk of a bank.
type Chunk struct {
	Header ChunkHeader
	// Offset is the position of the chunk header in the bank.
	Offset int
	Body   ChunkBody
}

// Clone returns a deep copy of the chunk. Bodies from custom handlers are
// shared unless they implement Clone() ChunkBody.
func (c Chunk) Clone() Chunk {
	switch body := c.Body.(type) {
	case *BankHeaderChunk:
		cp := *body
		c.Body = &cp
	case *HierarchyChunk:
		c.Body = body.Clone()
	case *OpaqueChunk:
		c.Body = body.Clone()
	case interface{ Clone() ChunkBody }:
		c.Body = body.Clone()
	}

	return c
}

// OpaqueChunk keeps the payload of a chunk that is not decoded further.
type OpaqueChunk struct {
	ID ChunkName
	// Known is false for tags outside the recognized set.
	Known bool
	Data  []byte
}

// Name implements ChunkBody.
func (c *OpaqueChunk) Name() ChunkName { return c.ID }

// Clone returns a deep copy of the chunk.
func (c *OpaqueChunk) Clone() *OpaqueChunk {
	if c == nil {
		return nil
	}

	out := *c
	out.Data = cloneSlice(c.Data)

	return &out
}

func cloneChunks(chunks []Chunk) []Chunk {
	if len(chunks) == 0 {
		return nil
	}

	out := make([]Chunk, len(chunks))
	for i := range chunks {
		out[i] = chunks[i].Clone()
	}

	return out
}
