package bnk

import (
	"errors"
	"fmt"
)

// pathRecordSize is the size of one routing table record.
const pathRecordSize = 12

var (
	// ErrPathLength is returned when a routing table is not made of whole records.
	ErrPathLength = errors.New("path selection length is not a multiple of 12")
	// ErrPathIndex is returned when a routing table index falls outside the table.
	ErrPathIndex = errors.New("path index exceeds path table")
	// ErrPathTooLarge is returned when overlapping child ranges expand a
	// routing table past maxPathElements.
	ErrPathTooLarge = errors.New("path tree too large")
)

// AudioPathElement is a routing tree element: either an *AudioPathNode or
// a *MusicEndpoint.
type AudioPathElement interface {
	// FromID is the switch value that selects this element.
	FromID() uint32
	cloneElement() AudioPathElement
}

// AudioPathNode is an internal routing tree node.
type AudioPathNode struct {
	From        uint32
	Weight      uint16
	Probability uint16

	ChildrenStartAtIndex uint16
	Children             []AudioPathElement
}

// MusicEndpoint is a routing tree leaf naming a playback target.
type MusicEndpoint struct {
	From        uint32
	AudioID     uint32
	Weight      uint16
	Probability uint16
}

func (n *AudioPathNode) FromID() uint32 { return n.From }

func (e *MusicEndpoint) FromID() uint32 { return e.From }

func (n *AudioPathNode) cloneElement() AudioPathElement { return n.cloneNode() }

func (e *MusicEndpoint) cloneElement() AudioPathElement {
	out := *e
	return &out
}

func (n *AudioPathNode) cloneNode() *AudioPathNode {
	out := *n
	if n.Children != nil {
		out.Children = make([]AudioPathElement, len(n.Children))
		for i, child := range n.Children {
			out.Children[i] = child.cloneElement()
		}
	}

	return &out
}

// Endpoints returns the endpoints directly below the node.
func (n *AudioPathNode) Endpoints() []*MusicEndpoint {
	var out []*MusicEndpoint

	for _, child := range n.Children {
		if e, ok := child.(*MusicEndpoint); ok {
			out = append(out, e)
		}
	}

	return out
}

// Walk calls fn for every element below the node in depth-first order,
// passing the nesting depth starting at 1. Returning false skips the
// element's children.
func (n *AudioPathNode) Walk(fn func(el AudioPathElement, depth int) bool) {
	n.walk(fn, 1)
}

func (n *AudioPathNode) walk(fn func(AudioPathElement, int) bool, depth int) {
	for _, child := range n.Children {
		if !fn(child, depth) {
			continue
		}

		if node, ok := child.(*AudioPathNode); ok {
			node.walk(fn, depth+1)
		}
	}
}

// BuildAudioPath decodes the routing table record at index and, for internal
// nodes, all of its descendants.
//
// Records carry no leaf marker. The second word is read as a packed
// (start, count) child range when that range lies strictly after index and
// inside the table; otherwise the record is an endpoint and the same word is
// its audio id. Child indices always grow, so the recursion terminates.
func BuildAudioPath(blob []byte, index uint32) (AudioPathElement, error) {
	if len(blob)%pathRecordSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrPathLength, len(blob))
	}

	b := &pathBuilder{
		r:       newReader(blob),
		records: uint64(len(blob) / pathRecordSize),
		budget:  maxPathElements,
	}

	return b.build(index)
}

// maxPathElements bounds the size of a rebuilt tree. Overlapping child
// ranges can share records, which would otherwise expand exponentially.
const maxPathElements = 1 << 20

type pathBuilder struct {
	r       *reader
	records uint64
	budget  int
}

func (b *pathBuilder) build(index uint32) (AudioPathElement, error) {
	if uint64(index) >= b.records {
		return nil, fmt.Errorf("%w: index %d, %d records", ErrPathIndex, index, b.records)
	}

	b.budget--
	if b.budget < 0 {
		return nil, fmt.Errorf("%w: more than %d elements", ErrPathTooLarge, maxPathElements)
	}

	r := b.r
	r.Seek(int(index) * pathRecordSize)

	from := r.U32()
	packed := r.U32()
	weight := r.U16()
	probability := r.U16()

	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("failed to read path record %d: %w", index, err)
	}

	start := uint16(packed)
	count := uint16(packed >> 16)

	isNode := uint32(start) > index &&
		uint64(start) < b.records &&
		uint64(start)+uint64(count) <= b.records

	if !isNode {
		return &MusicEndpoint{
			From:        from,
			AudioID:     packed,
			Weight:      weight,
			Probability: probability,
		}, nil
	}

	node := &AudioPathNode{
		From:                 from,
		Weight:               weight,
		Probability:          probability,
		ChildrenStartAtIndex: start,
		Children:             make([]AudioPathElement, 0, count),
	}

	for i := range uint32(count) {
		child, err := b.build(uint32(start) + i)
		if err != nil {
			return nil, err
		}

		node.Children = append(node.Children, child)
	}

	return node, nil
}
