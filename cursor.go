package bnk

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// reader is a little-endian cursor over an in-memory payload.
// The first failed read is kept in err; later reads return zero values
// so decoders can run straight through a record and check Err once.
type reader struct {
	buf []byte
	pos int
	err error
}

func newReader(buf []byte) *reader {
	return &reader{buf: buf}
}

// Err returns the first read error encountered.
func (r *reader) Err() error {
	return r.err
}

// Pos returns the absolute cursor offset.
func (r *reader) Pos() int {
	return r.pos
}

// Len returns the number of unread bytes.
func (r *reader) Len() int {
	if r.pos >= len(r.buf) {
		return 0
	}

	return len(r.buf) - r.pos
}

func (r *reader) fail(n int) {
	if r.err != nil {
		return
	}

	r.err = fmt.Errorf("read %d bytes at offset %d (payload %d bytes): %w", n, r.pos, len(r.buf), io.ErrUnexpectedEOF)
}

func (r *reader) next(n int) []byte {
	if r.err != nil {
		return nil
	}

	if n < 0 || r.Len() < n {
		r.fail(n)
		return nil
	}

	b := r.buf[r.pos : r.pos+n]
	r.pos += n

	return b
}

// Seek moves the cursor to an absolute offset. Seeking to the end of the
// payload is allowed.
func (r *reader) Seek(offset int) {
	if r.err != nil {
		return
	}

	if offset < 0 || offset > len(r.buf) {
		r.err = fmt.Errorf("seek to offset %d (payload %d bytes): %w", offset, len(r.buf), io.ErrUnexpectedEOF)
		return
	}

	r.pos = offset
}

// Skip advances the cursor by n bytes.
func (r *reader) Skip(n int) {
	r.next(n)
}

// PeekU8 returns the next byte without consuming it.
func (r *reader) PeekU8() uint8 {
	if r.err != nil {
		return 0
	}

	if r.Len() < 1 {
		r.fail(1)
		return 0
	}

	return r.buf[r.pos]
}

func (r *reader) U8() uint8 {
	b := r.next(1)
	if b == nil {
		return 0
	}

	return b[0]
}

func (r *reader) U16() uint16 {
	b := r.next(2)
	if b == nil {
		return 0
	}

	return binary.LittleEndian.Uint16(b)
}

func (r *reader) U32() uint32 {
	b := r.next(4)
	if b == nil {
		return 0
	}

	return binary.LittleEndian.Uint32(b)
}

func (r *reader) F32() float32 {
	return math.Float32frombits(r.U32())
}

func (r *reader) F64() float64 {
	b := r.next(8)
	if b == nil {
		return 0
	}

	return math.Float64frombits(binary.LittleEndian.Uint64(b))
}

// Bytes returns a copy of the next n bytes.
func (r *reader) Bytes(n int) []byte {
	b := r.next(n)
	if b == nil {
		return nil
	}

	return append([]byte(nil), b...)
}

// readN decodes n elements with fn. It stops early once the cursor has
// failed so a corrupt count cannot spin through billions of empty reads.
func readN[T any](r *reader, n int, fn func(*reader) T) []T {
	if n <= 0 || r.err != nil {
		return nil
	}

	// cap the allocation by what the payload could possibly hold
	out := make([]T, 0, min(n, r.Len()))
	for range n {
		v := fn(r)
		if r.err != nil {
			return out
		}

		out = append(out, v)
	}

	return out
}

// readList8 decodes a u8 count followed by that many elements.
func readList8[T any](r *reader, fn func(*reader) T) []T {
	return readN(r, int(r.U8()), fn)
}

// readList16 decodes a u16 count followed by that many elements.
func readList16[T any](r *reader, fn func(*reader) T) []T {
	return readN(r, int(r.U16()), fn)
}

// readList32 decodes a u32 count followed by that many elements.
func readList32[T any](r *reader, fn func(*reader) T) []T {
	return readN(r, int(r.U32()), fn)
}

func readU8(r *reader) uint8 { return r.U8() }

func readU32(r *reader) uint32 { return r.U32() }

// FloatPair is a pair of 32-bit floats as stored in parameter tables.
type FloatPair struct {
	A, B float32
}

func readFloatPair(r *reader) FloatPair {
	return FloatPair{A: r.F32(), B: r.F32()}
}
