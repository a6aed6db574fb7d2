package bnk

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// ErrObjectOverrun is returned when an object's declared length runs past the
// end of the hierarchy chunk.
var ErrObjectOverrun = errors.New("hierarchy object exceeds chunk")

// ObjectType is the one-byte tag of a hierarchy object.
type ObjectType uint8

const (
	ObjectUnknown ObjectType = iota
	ObjectSettings
	ObjectSound
	ObjectEventAction
	ObjectEvent
	ObjectContainer
	ObjectSwitchContainer
	ObjectActorMixer
	ObjectAudioBus
	ObjectBlendContainer
	ObjectMusicSegment
	ObjectMusicTrack
	ObjectMusicSwitchContainer
	ObjectMusicPlaylistContainer
	ObjectAttenuation
	ObjectDialogueEvent
	ObjectMotionBus
	ObjectMotionEffect
	ObjectEffect
	ObjectEffectCustom
	ObjectAuxiliaryBus
	_
	ObjectUnk22
)

// maxObjectType is the largest tag of the current layout. A larger tag byte
// means the record belongs to the older addressing, whose end offset is
// computed five bytes earlier.
const maxObjectType = 32

// objectHeaderSize is the tag byte plus the u32 length.
const objectHeaderSize = 5

var objectTypeNames = [...]string{
	ObjectUnknown:                "Unknown",
	ObjectSettings:               "Settings",
	ObjectSound:                  "Sound",
	ObjectEventAction:            "EventAction",
	ObjectEvent:                  "Event",
	ObjectContainer:              "Container",
	ObjectSwitchContainer:        "SwitchContainer",
	ObjectActorMixer:             "ActorMixer",
	ObjectAudioBus:               "AudioBus",
	ObjectBlendContainer:         "BlendContainer",
	ObjectMusicSegment:           "MusicSegment",
	ObjectMusicTrack:             "MusicTrack",
	ObjectMusicSwitchContainer:   "MusicSwitchContainer",
	ObjectMusicPlaylistContainer: "MusicPlaylistContainer",
	ObjectAttenuation:            "Attenuation",
	ObjectDialogueEvent:          "DialogueEvent",
	ObjectMotionBus:              "MotionBus",
	ObjectMotionEffect:           "MotionEffect",
	ObjectEffect:                 "Effect",
	ObjectEffectCustom:           "EffectCustom",
	ObjectAuxiliaryBus:           "AuxiliaryBus",
	ObjectUnk22:                  "Unk22",
}

// Known reports whether the tag names a defined object kind.
func (t ObjectType) Known() bool {
	return int(t) < len(objectTypeNames) && objectTypeNames[t] != ""
}

func (t ObjectType) String() string {
	if t.Known() {
		return objectTypeNames[t]
	}

	return fmt.Sprintf("ObjectType(%d)", uint8(t))
}

// Object is the decoded payload of a hierarchy object. It is one of
// *EventAction, *Event, *MusicTrack, *MusicSwitchContainer or *Placeholder.
type Object interface {
	Type() ObjectType
	cloneObject() Object
}

// Placeholder stands in for object kinds whose payload is not decoded.
type Placeholder struct {
	Kind ObjectType
}

func (p *Placeholder) Type() ObjectType { return p.Kind }
func (a *EventAction) Type() ObjectType { return ObjectEventAction }
func (e *Event) Type() ObjectType { return ObjectEvent }
func (t *MusicTrack) Type() ObjectType { return ObjectMusicTrack }
func (c *MusicSwitchContainer) Type() ObjectType { return ObjectMusicSwitchContainer }
func (p *Placeholder) cloneObject() Object { return &Placeholder{Kind: p.Kind} }
func (a *EventAction) cloneObject() Object { return a.Clone() }
func (e *Event) cloneObject() Object { return e.Clone() }
func (t *MusicTrack) cloneObject() Object { return t.Clone() }
func (c *MusicSwitchContainer) cloneObject() Object { return c.Clone() }

// ObjectHeader is the fixed prefix of every hierarchy object.
type ObjectHeader struct {
	Type ObjectType
	// Length counts the bytes after the header up to the end of the record.
	Length uint32
}

// HierarchyObject is one record of the hierarchy chunk.
type HierarchyObject struct {
	Header ObjectHeader
	// Offset is the record start within the hierarchy chunk payload.
	Offset int
	// End is the offset the next record starts at.
	End    int
	Object Object
}

// Clone returns a deep copy of the record.
func (o HierarchyObject) Clone() HierarchyObject {
	if o.Object != nil {
		o.Object = o.Object.cloneObject()
	}

	return o
}

// HierarchyChunk is the decoded HIRC chunk.
type HierarchyChunk struct {
	ObjectCount uint32
	Objects     []HierarchyObject
}

// Name implements ChunkBody.
func (*HierarchyChunk) Name() ChunkName { return ChunkHIRC }

// objectDecoder decodes the payload of one object kind.
type objectDecoder func(r *reader, h ObjectHeader) (Object, error)

var objectDecoders = map[ObjectType]objectDecoder{
	ObjectEventAction: func(r *reader, _ ObjectHeader) (Object, error) {
		return decodeEventAction(r)
	},
	ObjectEvent: func(r *reader, _ ObjectHeader) (Object, error) {
		return decodeEvent(r)
	},
	ObjectMusicTrack: func(r *reader, _ ObjectHeader) (Object, error) {
		return decodeMusicTrack(r)
	},
	ObjectMusicSwitchContainer: func(r *reader, _ ObjectHeader) (Object, error) {
		return decodeMusicSwitchContainer(r)
	},
}

// DecodeHierarchy decodes a HIRC chunk payload: a u32 object count followed
// by that many objects. Every music switch container gets its routing tree
// rebuilt; see WithStrictPaths for how tree failures are reported.
func DecodeHierarchy(payload []byte, opts ...Option) (*HierarchyChunk, error) {
	return decodeHierarchy(payload, newConfig(opts))
}

func decodeHierarchy(payload []byte, cfg config) (*HierarchyChunk, error) {
	r := newReader(payload)

	count := r.U32()
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("failed to read hierarchy object count: %w", err)
	}

	h := &HierarchyChunk{
		ObjectCount: count,
		Objects:     make([]HierarchyObject, 0, min(int(count), r.Len()/objectHeaderSize)),
	}

	for i := range count {
		obj, err := decodeObject(r, cfg.log)
		if err != nil {
			return nil, fmt.Errorf("hierarchy object %d: %w", i, err)
		}

		h.Objects = append(h.Objects, obj)
	}

	if err := h.buildPaths(cfg); err != nil {
		return nil, err
	}

	return h, nil
}

// buildPaths rebuilds the routing tree of every music switch container.
// A failure is kept on the container and logged unless cfg.strictPaths is set.
func (h *HierarchyChunk) buildPaths(cfg config) error {
	for i := range h.Objects {
		c, ok := h.Objects[i].Object.(*MusicSwitchContainer)
		if !ok {
			continue
		}

		err := c.BuildPaths()
		if err == nil {
			continue
		}

		if cfg.strictPaths {
			return fmt.Errorf("music switch container %d: %w", c.ID, err)
		}

		cfg.log.WithFields(logrus.Fields{
			"container": c.ID,
			"offset":    h.Objects[i].Offset,
		}).WithError(err).Warn("failed to rebuild switch routing tree")
	}

	return nil
}

// decodeObject reads one record and leaves the cursor at its declared end,
// whatever the payload decoder consumed.
func decodeObject(r *reader, log logrus.FieldLogger) (HierarchyObject, error) {
	start := r.Pos()

	tag := r.PeekU8()
	if err := r.Err(); err != nil {
		return HierarchyObject{}, fmt.Errorf("failed to read object tag: %w", err)
	}

	base := start + objectHeaderSize
	if tag > maxObjectType {
		base -= objectHeaderSize
	}

	hdr := ObjectHeader{Type: ObjectType(r.U8()), Length: r.U32()}
	if err := r.Err(); err != nil {
		return HierarchyObject{}, fmt.Errorf("failed to read object header at offset %d: %w", start, err)
	}

	end := base + int(hdr.Length)
	if end > len(r.buf) || end < base {
		return HierarchyObject{}, fmt.Errorf("%w: %s at offset %d ends at %d, chunk has %d bytes",
			ErrObjectOverrun, hdr.Type, start, end, len(r.buf))
	}

	obj := HierarchyObject{Header: hdr, Offset: start, End: end}

	decode, ok := objectDecoders[hdr.Type]
	if ok {
		// bound the payload decoder by the declared record end
		sub := &reader{buf: r.buf[:end], pos: r.Pos()}
		if sub.pos > end {
			sub.pos = end
		}

		payload, err := decode(sub, hdr)
		if err != nil {
			return HierarchyObject{}, fmt.Errorf("%s at offset %d: %w", hdr.Type, start, err)
		}

		obj.Object = payload
	} else {
		if !hdr.Type.Known() {
			log.WithFields(logrus.Fields{
				"type":   uint8(hdr.Type),
				"offset": start,
				"length": hdr.Length,
			}).Debug("skipping unknown hierarchy object type")
		}

		obj.Object = &Placeholder{Kind: hdr.Type}
	}

	r.Seek(end)
	if err := r.Err(); err != nil {
		return HierarchyObject{}, err
	}

	return obj, nil
}
