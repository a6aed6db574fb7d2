package bnk

import (
	"fmt"
	"io"
	"slices"

	"github.com/go-audio/riff"
)

// ChunkHandler is a typed handler for bank chunks.
type ChunkHandler interface {
	CanHandle(name ChunkName) bool
	Decode(d *Decoder, ch *riff.Chunk) (ChunkBody, error)
}

// ChunkRegistry resolves chunks to handlers.
type ChunkRegistry struct {
	handlers []ChunkHandler
}

// NewChunkRegistry returns a registry holding the default handlers: BKHD and
// HIRC are decoded, the other recognized tags are kept opaque.
func NewChunkRegistry() *ChunkRegistry {
	return &ChunkRegistry{
		handlers: []ChunkHandler{
			&bankHeaderHandler{},
			&hierarchyHandler{},
			&opaqueChunkHandler{names: knownOpaqueChunks},
		},
	}
}

// Register appends a handler to the registry. Handlers are tried in order,
// so a registered handler only sees tags the defaults leave alone.
func (r *ChunkRegistry) Register(handler ChunkHandler) {
	if r == nil || handler == nil {
		return
	}

	r.handlers = append(r.handlers, handler)
}

// Decode dispatches a chunk to the first matching handler. It reports false
// when no handler claims the chunk.
func (r *ChunkRegistry) Decode(dec *Decoder, chnk *riff.Chunk) (ChunkBody, bool, error) {
	if r == nil || chnk == nil {
		return nil, false, nil
	}

	name := ChunkNameFromID(chnk.ID)

	for _, handler := range r.handlers {
		if !handler.CanHandle(name) {
			continue
		}

		body, err := handler.Decode(dec, chnk)
		if err != nil {
			return nil, true, fmt.Errorf("%s chunk handler decode failed: %w", name, err)
		}

		return body, true, nil
	}

	return nil, false, nil
}

type bankHeaderHandler struct{}

func (h *bankHeaderHandler) CanHandle(name ChunkName) bool {
	return name == ChunkBKHD
}

func (h *bankHeaderHandler) Decode(_ *Decoder, ch *riff.Chunk) (ChunkBody, error) {
	return DecodeBankHeader(ch)
}

type hierarchyHandler struct{}

func (h *hierarchyHandler) CanHandle(name ChunkName) bool {
	return name == ChunkHIRC
}

func (h *hierarchyHandler) Decode(d *Decoder, ch *riff.Chunk) (ChunkBody, error) {
	payload, err := readChunkPayload(ch)
	if err != nil {
		return nil, err
	}

	var cfg config
	if d != nil {
		cfg = d.cfg
	} else {
		cfg = newConfig(nil)
	}

	return decodeHierarchy(payload, cfg)
}

type opaqueChunkHandler struct {
	names []ChunkName
}

func (h *opaqueChunkHandler) CanHandle(name ChunkName) bool {
	return slices.Contains(h.names, name)
}

func (h *opaqueChunkHandler) Decode(_ *Decoder, ch *riff.Chunk) (ChunkBody, error) {
	payload, err := readChunkPayload(ch)
	if err != nil {
		return nil, err
	}

	return &OpaqueChunk{ID: ChunkNameFromID(ch.ID), Known: true, Data: payload}, nil
}

// readChunkPayload reads the whole chunk payload and fails when it is
// shorter than the declared size.
func readChunkPayload(ch *riff.Chunk) ([]byte, error) {
	if ch == nil {
		return nil, errNilChunk
	}

	payload := make([]byte, ch.Size)

	_, err := io.ReadFull(ch, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s payload: %w", ChunkNameFromID(ch.ID), err)
	}

	return payload, nil
}
