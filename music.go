package bnk

import (
	"errors"
	"fmt"
)

// ErrUnknownTrackType is returned when a music track type byte is not one of
// the four known track types.
var ErrUnknownTrackType = errors.New("unknown music track type")

// MusicTrackType is the playback mode of a MusicTrack.
type MusicTrackType uint8

const (
	TrackNormal MusicTrackType = iota
	TrackRandomStep
	TrackSequenceStep
	TrackSwitch
)

func (t MusicTrackType) String() string {
	switch t {
	case TrackNormal:
		return "Normal"
	case TrackRandomStep:
		return "RandomStep"
	case TrackSequenceStep:
		return "SequenceStep"
	case TrackSwitch:
		return "Switch"
	default:
		return fmt.Sprintf("MusicTrackType(%d)", uint8(t))
	}
}

// MusicTrack is a music track object.
type MusicTrack struct {
	ID            uint32
	MIDIBehaviour uint8

	Sounds         []Sound
	TimeParameters []MusicTrackTimeParameter
	// SubTrackCount is only stored when TimeParameters is not empty.
	SubTrackCount uint32
	Curves        []MusicTrackCurve

	Properties AudioProperties
	TrackType  MusicTrackType
	// SwitchParams is set for TrackSwitch tracks only.
	SwitchParams *MusicSwitchParams

	LookAheadTime uint32
}

// Sound describes one media source used by a track.
type Sound struct {
	Unk4       uint8
	Unk5       uint8
	Conversion uint8
	Unk7       uint8
	Source     uint8
	AudioID    uint32
	AudioLen   uint32
	AudioType  uint8
}

// MusicTrackTimeParameter places a source on the track timeline.
type MusicTrackTimeParameter struct {
	SubTrackIndex   uint32
	AudioID         uint32
	EventID         uint32
	BeginOffset     float64
	BeginTrimOffset float64
	EndTrimOffset   float64
	EndOffset       float64
}

// MusicTrackCurve is a fade or automation curve.
type MusicTrackCurve struct {
	TimeParameterIndex uint32
	CurveType          uint32
	Points             []MusicCurvePoint
}

// MusicCurvePoint is one point of a MusicTrackCurve.
type MusicCurvePoint struct {
	X, Y           float32
	FollowingShape uint32
}

// MusicSwitchParams configures a switch track.
type MusicSwitchParams struct {
	GroupID                  uint32
	DefaultSwitchStateID     uint32
	AssociatedSwitchStateIDs []uint32

	FadeOutDuration   uint32
	FadeOutShape      uint32
	FadeOutOffset     uint32
	ExitSourceAt      uint32
	ExitSourceAtCueID uint32

	FadeInDuration uint32
	FadeInShape    uint32
	FadeInOffset   uint32
}

func decodeMusicTrack(r *reader) (*MusicTrack, error) {
	t := &MusicTrack{
		ID:            r.U32(),
		MIDIBehaviour: r.U8(),
	}

	t.Sounds = readList32(r, decodeSound)

	t.TimeParameters = readList32(r, decodeTimeParameter)
	if len(t.TimeParameters) > 0 {
		t.SubTrackCount = r.U32()
	}

	t.Curves = readList32(r, decodeTrackCurve)
	t.Properties = decodeAudioProperties(r)

	t.TrackType = MusicTrackType(r.U8())
	if r.Err() == nil && t.TrackType > TrackSwitch {
		return nil, fmt.Errorf("%w: %d in track %d", ErrUnknownTrackType, uint8(t.TrackType), t.ID)
	}

	if t.TrackType == TrackSwitch {
		params := decodeSwitchParams(r)
		t.SwitchParams = &params
	}

	t.LookAheadTime = r.U32()

	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("failed to decode music track: %w", err)
	}

	return t, nil
}

func decodeSound(r *reader) Sound {
	return Sound{
		Unk4:       r.U8(),
		Unk5:       r.U8(),
		Conversion: r.U8(),
		Unk7:       r.U8(),
		Source:     r.U8(),
		AudioID:    r.U32(),
		AudioLen:   r.U32(),
		AudioType:  r.U8(),
	}
}

func decodeTimeParameter(r *reader) MusicTrackTimeParameter {
	return MusicTrackTimeParameter{
		SubTrackIndex:   r.U32(),
		AudioID:         r.U32(),
		EventID:         r.U32(),
		BeginOffset:     r.F64(),
		BeginTrimOffset: r.F64(),
		EndTrimOffset:   r.F64(),
		EndOffset:       r.F64(),
	}
}

func decodeTrackCurve(r *reader) MusicTrackCurve {
	c := MusicTrackCurve{
		TimeParameterIndex: r.U32(),
		CurveType:          r.U32(),
	}

	c.Points = readList32(r, func(r *reader) MusicCurvePoint {
		return MusicCurvePoint{X: r.F32(), Y: r.F32(), FollowingShape: r.U32()}
	})

	return c
}

func decodeSwitchParams(r *reader) MusicSwitchParams {
	r.Skip(1)

	p := MusicSwitchParams{
		GroupID:              r.U32(),
		DefaultSwitchStateID: r.U32(),
	}

	p.AssociatedSwitchStateIDs = readList32(r, readU32)

	p.FadeOutDuration = r.U32()
	p.FadeOutShape = r.U32()
	p.FadeOutOffset = r.U32()
	p.ExitSourceAt = r.U32()
	p.ExitSourceAtCueID = r.U32()

	p.FadeInDuration = r.U32()
	p.FadeInShape = r.U32()
	p.FadeInOffset = r.U32()

	return p
}

// Clone returns a deep copy of the track.
func (t *MusicTrack) Clone() *MusicTrack {
	if t == nil {
		return nil
	}

	out := *t
	out.Sounds = cloneSlice(t.Sounds)
	out.TimeParameters = cloneSlice(t.TimeParameters)

	if t.Curves != nil {
		out.Curves = make([]MusicTrackCurve, len(t.Curves))
		for i, c := range t.Curves {
			c.Points = cloneSlice(c.Points)
			out.Curves[i] = c
		}
	}

	out.Properties = t.Properties.Clone()

	if t.SwitchParams != nil {
		p := *t.SwitchParams
		p.AssociatedSwitchStateIDs = cloneSlice(p.AssociatedSwitchStateIDs)
		out.SwitchParams = &p
	}

	return &out
}
