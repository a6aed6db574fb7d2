package bnk

import (
	"encoding/binary"
	"math"
)

// byteBuilder assembles little-endian test payloads.
type byteBuilder struct {
	buf []byte
}

func (b *byteBuilder) u8(vs ...uint8) *byteBuilder {
	b.buf = append(b.buf, vs...)
	return b
}

func (b *byteBuilder) u16(vs ...uint16) *byteBuilder {
	for _, v := range vs {
		b.buf = binary.LittleEndian.AppendUint16(b.buf, v)
	}

	return b
}

func (b *byteBuilder) u32(vs ...uint32) *byteBuilder {
	for _, v := range vs {
		b.buf = binary.LittleEndian.AppendUint32(b.buf, v)
	}

	return b
}

func (b *byteBuilder) f32(vs ...float32) *byteBuilder {
	for _, v := range vs {
		b.buf = binary.LittleEndian.AppendUint32(b.buf, math.Float32bits(v))
	}

	return b
}

func (b *byteBuilder) f64(vs ...float64) *byteBuilder {
	for _, v := range vs {
		b.buf = binary.LittleEndian.AppendUint64(b.buf, math.Float64bits(v))
	}

	return b
}

func (b *byteBuilder) raw(p ...[]byte) *byteBuilder {
	for _, v := range p {
		b.buf = append(b.buf, v...)
	}

	return b
}

func (b *byteBuilder) zeros(n int) *byteBuilder {
	b.buf = append(b.buf, make([]byte, n)...)
	return b
}

func (b *byteBuilder) bytes() []byte {
	return b.buf
}

// emptyPropertiesSize is the length of the smallest audio properties block.
const emptyPropertiesSize = 32

func emptyProperties() []byte {
	return make([]byte, emptyPropertiesSize)
}

func hierarchyObject(tag uint8, payload []byte) []byte {
	b := &byteBuilder{}
	return b.u8(tag).u32(uint32(len(payload))).raw(payload).bytes()
}

func hierarchyPayload(objects ...[]byte) []byte {
	b := &byteBuilder{}
	return b.u32(uint32(len(objects))).raw(objects...).bytes()
}

func testChunk(name string, payload []byte) []byte {
	b := &byteBuilder{}
	return b.raw([]byte(name)).u32(uint32(len(payload))).raw(payload).bytes()
}

func bankHeaderPayload(version, bankID uint32) []byte {
	b := &byteBuilder{}
	return b.u32(version, bankID, 0).zeros(8).u32(0x1234).bytes()
}

func testBank(chunks ...[]byte) []byte {
	b := &byteBuilder{}
	return b.raw(chunks...).bytes()
}

func eventPayload(id uint32, actions ...uint32) []byte {
	b := &byteBuilder{}
	return b.u32(id).u8(uint8(len(actions))).u32(actions...).bytes()
}

func actionPayload(id uint32, kind ActionType, objectID uint32, settings []byte) []byte {
	b := &byteBuilder{}
	return b.u32(id).u8(3, uint8(kind)).u32(objectID).u8(0, 0, 0).raw(settings).bytes()
}

func playAction(id, objectID uint32) []byte {
	b := &byteBuilder{}
	return actionPayload(id, ActionPlay, objectID, b.u8(4).u32(0xBEEF).bytes())
}

func stopAction(id, objectID uint32) []byte {
	b := &byteBuilder{}
	return actionPayload(id, ActionStop, objectID, b.u8(1, 2, 0).bytes())
}

func pathRecord(from uint32, start, count uint16, weight, probability uint16) []byte {
	b := &byteBuilder{}
	return b.u32(from, uint32(start)|uint32(count)<<16).u16(weight, probability).bytes()
}

func endpointRecord(from, audioID uint32) []byte {
	b := &byteBuilder{}
	return b.u32(from, audioID).u16(50, 100).bytes()
}

func switchContainerPayload(id uint32, groupIDs []uint32, paths []byte) []byte {
	b := &byteBuilder{}
	b.u32(id).u8(0).raw(emptyProperties())
	// no children; grid period, grid offset, tempo; time signature and a
	// reserved byte; no stingers or transitions
	b.u32(0)
	b.f64(1000, 0).f32(120)
	b.u8(4, 4).u8(0)
	b.u32(0, 0)
	b.u8(0).u32(uint32(len(groupIDs))).u32(groupIDs...)
	b.zeros(len(groupIDs))
	b.u32(uint32(len(paths))).u8(0).raw(paths)

	return b.bytes()
}

// musicBank is a bank with a play and a stop event driving switch
// container 500, whose routing root has two endpoints.
func musicBank() []byte {
	paths := (&byteBuilder{}).raw(
		pathRecord(0, 1, 2, 0, 0),
		endpointRecord(11, 700),
		endpointRecord(12, 600),
	).bytes()

	hirc := hierarchyPayload(
		hierarchyObject(uint8(ObjectEventAction), playAction(200, 500)),
		hierarchyObject(uint8(ObjectEventAction), stopAction(201, 500)),
		hierarchyObject(uint8(ObjectEvent), eventPayload(300, 200)),
		hierarchyObject(uint8(ObjectEvent), eventPayload(301, 201)),
		hierarchyObject(uint8(ObjectMusicSwitchContainer), switchContainerPayload(500, []uint32{77}, paths)),
		hierarchyObject(uint8(ObjectSound), []byte{1, 2, 3}),
	)

	return testBank(
		testChunk("BKHD", bankHeaderPayload(BankVersion, 42)),
		testChunk("HIRC", hirc),
		testChunk("STID", []byte{9, 9}),
	)
}
