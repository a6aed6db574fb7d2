package bnk

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/riff"
	"github.com/sirupsen/logrus"
)

// chunkHeaderSize is the four byte tag plus the u32 payload length.
const chunkHeaderSize = 8

var (
	// ErrMissingBankHeader is returned when a bank does not start with a BKHD chunk.
	ErrMissingBankHeader = errors.New("bank header chunk not found")
	// ErrMissingHierarchy is returned when a bank ends before its HIRC chunk.
	ErrMissingHierarchy = errors.New("hierarchy chunk not found")
	// ErrChunkOverrun is returned when a chunk's declared length runs past the
	// end of the bank.
	ErrChunkOverrun = errors.New("chunk exceeds bank")
	errNilChunk     = errors.New("nil chunk pointer")
)

// config holds the decode settings shared by Decoder and DecodeHierarchy.
type config struct {
	log         logrus.FieldLogger
	strictPaths bool
	registry    *ChunkRegistry
}

// Option configures decoding.
type Option func(*config)

// WithLogger sets the logger used for skipped tags and isolated failures.
// The default is logrus.StandardLogger().
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *config) {
		if log != nil {
			c.log = log
		}
	}
}

// WithStrictPaths makes a routing tree that cannot be rebuilt fail the whole
// decode. By default the failure is logged and stored in
// MusicSwitchContainer.PathsErr.
func WithStrictPaths(strict bool) Option {
	return func(c *config) {
		c.strictPaths = strict
	}
}

// WithChunkRegistry replaces the default chunk handlers.
func WithChunkRegistry(r *ChunkRegistry) Option {
	return func(c *config) {
		if r != nil {
			c.registry = r
		}
	}
}

func newConfig(opts []Option) config {
	cfg := config{log: logrus.StandardLogger()}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if cfg.registry == nil {
		cfg.registry = NewChunkRegistry()
	}

	return cfg
}

// Decoder walks the chunks of an in-memory bank.
type Decoder struct {
	r      *bytes.Reader
	parser *riff.Parser
	cfg    config

	// offset is the position of the current chunk header.
	offset int
	err    error
}

// NewDecoder creates a decoder for the passed bank bytes. The slice is only
// read; decoded values never alias it.
func NewDecoder(data []byte, opts ...Option) *Decoder {
	r := bytes.NewReader(data)

	return &Decoder{
		r:      r,
		parser: riff.New(r),
		cfg:    newConfig(opts),
	}
}

// Parse decodes a whole bank.
func Parse(data []byte, opts ...Option) (*Bank, error) {
	return NewDecoder(data, opts...).Decode()
}

// Err returns the last error encountered.
func (d *Decoder) Err() error {
	if d == nil {
		return nil
	}

	return d.err
}

// Logger returns the logger the decoder reports to.
func (d *Decoder) Logger() logrus.FieldLogger {
	return d.cfg.log
}

// Offset returns the position of the chunk most recently returned by
// NextChunk.
func (d *Decoder) Offset() int {
	return d.offset
}

// NextChunk returns the next available chunk. It returns io.EOF when the
// bank ends on a chunk boundary.
func (d *Decoder) NextChunk() (*riff.Chunk, error) {
	d.offset = int(d.r.Size()) - d.r.Len()

	remaining := d.r.Len()
	if remaining == 0 {
		return nil, io.EOF
	}

	if remaining < chunkHeaderSize {
		d.err = fmt.Errorf("error reading chunk header at offset %d - %w", d.offset, io.ErrUnexpectedEOF)
		return nil, d.err
	}

	var (
		id   [4]byte
		size uint32
	)

	id, size, d.err = d.parser.IDnSize()
	if d.err != nil {
		d.err = fmt.Errorf("error reading chunk header at offset %d - %w", d.offset, d.err)
		return nil, d.err
	}

	if int64(size) > int64(d.r.Len()) {
		d.err = fmt.Errorf("%w: %s at offset %d declares %d bytes, %d left",
			ErrChunkOverrun, ChunkNameFromID(id), d.offset, size, d.r.Len())
		return nil, d.err
	}

	chnk := &riff.Chunk{
		ID:   id,
		Size: int(size),
		R:    io.LimitReader(d.r, int64(size)),
	}

	return chnk, nil
}

// Decode reads chunks until the bank ends. The first chunk must be the bank
// header and a hierarchy chunk must follow somewhere; any failure before the
// hierarchy is decoded is returned. A failure after it is logged and ends the
// walk, keeping the chunks decoded so far.
func (d *Decoder) Decode() (*Bank, error) {
	bank := &Bank{}

	var haveHeader, haveHierarchy bool

	for {
		chnk, err := d.NextChunk()
		if errors.Is(err, io.EOF) {
			break
		}

		if err == nil && !haveHeader && ChunkNameFromID(chnk.ID) != ChunkBKHD {
			err = fmt.Errorf("%w: first chunk is %s", ErrMissingBankHeader, ChunkNameFromID(chnk.ID))
		}

		var chunk Chunk
		if err == nil {
			chunk, err = d.decodeChunk(chnk)
		}

		if err != nil {
			d.err = err
			if !haveHierarchy {
				return nil, err
			}

			d.cfg.log.WithField("offset", d.offset).WithError(err).Warn("stopped reading trailing chunks")

			break
		}

		bank.Chunks = append(bank.Chunks, chunk)

		switch chunk.Body.(type) {
		case *BankHeaderChunk:
			haveHeader = true
		case *HierarchyChunk:
			haveHierarchy = true
		}
	}

	if !haveHeader {
		d.err = ErrMissingBankHeader
		return nil, d.err
	}

	if !haveHierarchy {
		d.err = ErrMissingHierarchy
		return nil, d.err
	}

	return bank, nil
}

func (d *Decoder) decodeChunk(chnk *riff.Chunk) (Chunk, error) {
	defer chnk.Drain()

	name := ChunkNameFromID(chnk.ID)
	chunk := Chunk{
		Header: ChunkHeader{Name: name, Length: uint32(chnk.Size)},
		Offset: d.offset,
	}

	body, handled, err := d.cfg.registry.Decode(d, chnk)
	if err != nil {
		return Chunk{}, fmt.Errorf("chunk at offset %d: %w", d.offset, err)
	}

	if !handled {
		d.cfg.log.WithFields(logrus.Fields{
			"chunk":  name.String(),
			"offset": d.offset,
			"length": chnk.Size,
		}).Debug("keeping unknown chunk undecoded")

		body, err = d.captureUnknownChunk(chnk)
		if err != nil {
			return Chunk{}, err
		}
	}

	chunk.Body = body

	return chunk, nil
}

func (d *Decoder) captureUnknownChunk(chnk *riff.Chunk) (*OpaqueChunk, error) {
	data, err := readChunkPayload(chnk)
	if err != nil {
		return nil, fmt.Errorf("failed to read unknown chunk at offset %d: %w", d.offset, err)
	}

	return &OpaqueChunk{ID: ChunkNameFromID(chnk.ID), Data: data}, nil
}
