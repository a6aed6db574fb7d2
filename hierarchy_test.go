package bnk

import (
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func TestDecodeHierarchyEventAndPlayAction(t *testing.T) {
	payload := hierarchyPayload(
		hierarchyObject(uint8(ObjectEvent), eventPayload(300, 200)),
		hierarchyObject(uint8(ObjectEventAction), playAction(200, 500)),
	)

	h, err := DecodeHierarchy(payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if h.ObjectCount != 2 || len(h.Objects) != 2 {
		t.Fatalf("expected 2 objects, got count %d len %d", h.ObjectCount, len(h.Objects))
	}

	e, ok := h.Objects[0].Object.(*Event)
	if !ok || e.ID != 300 || len(e.ActionIDs) != 1 || e.ActionIDs[0] != 200 {
		t.Fatalf("first object mismatch: %#v", h.Objects[0].Object)
	}

	a, ok := h.Objects[1].Object.(*EventAction)
	if !ok || a.ActionType != ActionPlay || a.ObjectID != 500 {
		t.Fatalf("second object mismatch: %#v", h.Objects[1].Object)
	}

	if s, ok := a.Settings.(PlaySettings); !ok || s.BankID != 0xBEEF {
		t.Fatalf("play settings mismatch: %#v", a.Settings)
	}

	if h.Objects[1].Offset != h.Objects[0].End {
		t.Fatalf("second object at %d, first ends at %d", h.Objects[1].Offset, h.Objects[0].End)
	}
}

func TestDecodeHierarchySkipsTrailingPadding(t *testing.T) {
	padded := append(eventPayload(300, 200), 0xDE, 0xAD, 0xBE, 0xEF)
	payload := hierarchyPayload(
		hierarchyObject(uint8(ObjectEvent), padded),
		hierarchyObject(uint8(ObjectEvent), eventPayload(301)),
	)

	h, err := DecodeHierarchy(payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	second, ok := h.Objects[1].Object.(*Event)
	if !ok || second.ID != 301 {
		t.Fatalf("second object must start at the declared end, got %#v", h.Objects[1].Object)
	}
}

func TestDecodeHierarchyUnknownTagBecomesPlaceholder(t *testing.T) {
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)

	payload := hierarchyPayload(
		hierarchyObject(21, []byte{1, 2, 3, 4}),
		hierarchyObject(uint8(ObjectEvent), eventPayload(300)),
	)

	h, err := DecodeHierarchy(payload, WithLogger(log))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	p, ok := h.Objects[0].Object.(*Placeholder)
	if !ok || p.Type() != ObjectType(21) {
		t.Fatalf("expected placeholder for tag 21, got %#v", h.Objects[0].Object)
	}

	if _, ok := h.Objects[1].Object.(*Event); !ok {
		t.Fatalf("decoding must continue after an unknown tag, got %#v", h.Objects[1].Object)
	}

	if len(hook.Entries) != 1 || hook.LastEntry().Level != logrus.DebugLevel {
		t.Fatalf("expected one debug entry, got %+v", hook.Entries)
	}
}

func TestDecodeHierarchyKnownUndecodedTags(t *testing.T) {
	payload := hierarchyPayload(
		hierarchyObject(uint8(ObjectSound), []byte{1, 2, 3}),
		hierarchyObject(uint8(ObjectMusicSegment), nil),
	)

	h, err := DecodeHierarchy(payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	for i, want := range []ObjectType{ObjectSound, ObjectMusicSegment} {
		if h.Objects[i].Object.Type() != want {
			t.Fatalf("object %d type %s, want %s", i, h.Objects[i].Object.Type(), want)
		}
	}
}

func TestDecodeHierarchyLegacyTagEndsEarlier(t *testing.T) {
	// a tag above 32 measures its length from the record start, so the
	// following object begins 9 bytes in rather than 14
	b := &byteBuilder{}
	b.u32(2)
	b.u8(0x40).u32(9).u8(0xA, 0xB, 0xC, 0xD)
	b.raw(hierarchyObject(uint8(ObjectEvent), eventPayload(300)))

	h, err := DecodeHierarchy(b.bytes())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if h.Objects[0].End != 4+9 {
		t.Fatalf("legacy object ends at %d, want %d", h.Objects[0].End, 4+9)
	}

	if e, ok := h.Objects[1].Object.(*Event); !ok || e.ID != 300 {
		t.Fatalf("second object mismatch: %#v", h.Objects[1].Object)
	}
}

func TestDecodeHierarchyErrors(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
		want    error
	}{
		{
			name:    "empty",
			payload: nil,
			want:    io.ErrUnexpectedEOF,
		},
		{
			name:    "overrun",
			payload: (&byteBuilder{}).u32(1).u8(uint8(ObjectEvent)).u32(100).u32(1).bytes(),
			want:    ErrObjectOverrun,
		},
		{
			name:    "count exceeds objects",
			payload: (&byteBuilder{}).u32(2).raw(hierarchyObject(uint8(ObjectEvent), eventPayload(1))).bytes(),
			want:    io.ErrUnexpectedEOF,
		},
		{
			name:    "truncated event",
			payload: hierarchyPayload(hierarchyObject(uint8(ObjectEvent), []byte{1, 0, 0, 0, 3, 9})),
			want:    io.ErrUnexpectedEOF,
		},
		{
			name:    "bad action type",
			payload: hierarchyPayload(hierarchyObject(uint8(ObjectEventAction), actionPayload(1, 0x17, 2, nil))),
			want:    ErrUnknownActionType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeHierarchy(tt.payload)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestDecodeHierarchyUnnamedActionTypes(t *testing.T) {
	payload := hierarchyPayload(
		hierarchyObject(uint8(ObjectEventAction), actionPayload(1, 0x15, 2, nil)),
		hierarchyObject(uint8(ObjectEventAction), actionPayload(3, 0x16, 4, nil)),
	)

	h, err := DecodeHierarchy(payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if len(h.Objects) != 2 {
		t.Fatalf("expected 2 objects, got %d", len(h.Objects))
	}

	for i, want := range []ActionType{ActionUnk15, ActionUnk16} {
		a, ok := h.Objects[i].Object.(*EventAction)
		if !ok || a.ActionType != want {
			t.Fatalf("object %d: expected %s action, got %#v", i, want, h.Objects[i].Object)
		}
	}
}

func TestDecodeHierarchyPayloadBoundedByRecordLength(t *testing.T) {
	// the event needs 9 bytes but the record declares 5; the rest of the
	// payload follows in the chunk and must not be read
	b := &byteBuilder{}
	b.u32(1).u8(uint8(ObjectEvent)).u32(5).raw(eventPayload(300, 200))

	_, err := DecodeHierarchy(b.bytes())
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("expected io.ErrUnexpectedEOF, got %v", err)
	}
}

func TestDecodeHierarchyIsolatesBrokenPaths(t *testing.T) {
	broken := switchContainerPayload(500, []uint32{77}, make([]byte, 13))
	payload := hierarchyPayload(
		hierarchyObject(uint8(ObjectMusicSwitchContainer), broken),
		hierarchyObject(uint8(ObjectEvent), eventPayload(300)),
	)

	log, hook := test.NewNullLogger()

	h, err := DecodeHierarchy(payload, WithLogger(log))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	c := h.Objects[0].Object.(*MusicSwitchContainer)
	if !errors.Is(c.PathsErr, ErrPathLength) || c.Paths != nil {
		t.Fatalf("expected the path error on the container, got %+v", c.PathsErr)
	}

	if len(h.Objects) != 2 {
		t.Fatalf("decoding must continue, got %d objects", len(h.Objects))
	}

	if entry := hook.LastEntry(); entry == nil || entry.Level != logrus.WarnLevel {
		t.Fatalf("expected a warning, got %+v", hook.Entries)
	}

	_, err = DecodeHierarchy(payload, WithLogger(log), WithStrictPaths(true))
	if !errors.Is(err, ErrPathLength) {
		t.Fatalf("strict decode: expected ErrPathLength, got %v", err)
	}
}

func TestObjectTypeString(t *testing.T) {
	if ObjectMusicSwitchContainer.String() != "MusicSwitchContainer" || ObjectType(12) != ObjectMusicSwitchContainer {
		t.Fatalf("ObjectMusicSwitchContainer=%d %q", ObjectMusicSwitchContainer, ObjectMusicSwitchContainer)
	}

	if ObjectUnk22 != 22 {
		t.Fatalf("ObjectUnk22=%d, want 22", ObjectUnk22)
	}

	if ObjectType(21).String() != "ObjectType(21)" {
		t.Fatalf("ObjectType(21).String()=%q", ObjectType(21).String())
	}
}
