package bnk

import (
	"errors"
	"fmt"
)

const mediaEntrySize = 12

// ErrNotMediaIndex is returned when MediaIndex is called on a chunk other
// than DIDX.
var ErrNotMediaIndex = errors.New("chunk is not a media index")

// MediaEntry locates one embedded media file inside the DATA chunk.
type MediaEntry struct {
	ID     uint32
	Offset uint32
	Length uint32
}

// MediaIndex decodes a DIDX payload.
func (c *OpaqueChunk) MediaIndex() ([]MediaEntry, error) {
	if c == nil || c.ID != ChunkDIDX {
		return nil, ErrNotMediaIndex
	}

	if len(c.Data)%mediaEntrySize != 0 {
		return nil, fmt.Errorf("media index of %d bytes is not a multiple of %d", len(c.Data), mediaEntrySize)
	}

	r := newReader(c.Data)

	entries := readN(r, len(c.Data)/mediaEntrySize, func(r *reader) MediaEntry {
		return MediaEntry{ID: r.U32(), Offset: r.U32(), Length: r.U32()}
	})
	if err := r.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

// Media returns a copy of the embedded media file with the given id.
func (b *Bank) Media(id uint32) ([]byte, error) {
	index, ok := b.Chunk(ChunkDIDX)
	if !ok {
		return nil, fmt.Errorf("media index: %w", ErrNotFound)
	}

	data, ok := b.Chunk(ChunkDATA)
	if !ok {
		return nil, fmt.Errorf("media data: %w", ErrNotFound)
	}

	idx, ok := index.Body.(*OpaqueChunk)
	if !ok {
		return nil, ErrNotMediaIndex
	}

	entries, err := idx.MediaIndex()
	if err != nil {
		return nil, err
	}

	payload, ok := data.Body.(*OpaqueChunk)
	if !ok {
		return nil, fmt.Errorf("media data: %w", ErrNotFound)
	}

	for _, e := range entries {
		if e.ID != id {
			continue
		}

		end := uint64(e.Offset) + uint64(e.Length)
		if end > uint64(len(payload.Data)) {
			return nil, fmt.Errorf("%w: media %d ends at %d, data has %d bytes",
				ErrChunkOverrun, id, end, len(payload.Data))
		}

		return payload.Data[e.Offset:end], nil
	}

	return nil, fmt.Errorf("media %d: %w", id, ErrNotFound)
}
