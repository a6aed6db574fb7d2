package bnk

// AudioProperties is the shared properties block embedded in playable and
// container objects.
type AudioProperties struct {
	OverrideEffects uint8
	// BypassedEffects is only present when at least one effect is set.
	BypassedEffects uint8
	Effects         []AudioEffect

	OutputBusID       uint32
	ParentID          uint32
	PlaybackBehaviour uint8

	ParamTypes  []uint8
	ParamValues []ParamValue

	ParamPairTypes []uint8
	ParamPairs     []FloatPair

	Positioning         PositioningBehaviour
	PositioningSettings *PositioningSettings

	AuxSends AuxSendsBehaviour

	LimitBehaviour        uint8
	VirtualVoiceReturn    uint8
	LimitSoundInstancesTo uint16
	VirtualVoice          uint8
	HDRSettings           uint8

	// StateProperties are kept as raw 3-byte records.
	StateProperties [][3]byte
	StateGroups     []AudioStateGroup
	RTPCs           []RTPC
}

// AudioEffect is one entry of the effect list.
type AudioEffect struct {
	Index        uint8
	ID           uint32
	UseShareSets uint8
	Rendered     uint8
}

// ParamValue is a raw 4-byte parameter value. Its interpretation depends on
// the matching parameter type.
type ParamValue [4]byte

// PositioningSettings follows the positioning flags when the object updates
// each frame or loops a user-defined path.
type PositioningSettings struct {
	IsGameDefined uint8
	AttenuationID uint32
	// GameDefined is set when IsGameDefined is zero.
	GameDefined *GameDefinedPositioning
}

// GameDefinedPositioning holds the user-defined path description.
type GameDefinedPositioning struct {
	UserDefinedPlaySettings uint8
	TransitionTime          uint32
	ControlPointKeys        []ControlPointKey
	RandomRangeUnknowns     [][2]uint32
	RandomRanges            [][3]float32
}

// ControlPointKey is one point of a user-defined positioning path.
type ControlPointKey struct {
	X, Y, Z  float32
	Duration uint32
}

// AudioStateGroup binds a state group to per-state settings objects.
type AudioStateGroup struct {
	ID                 uint32
	MusicChangeAt      uint8
	StatesWithSettings []AudioStateWithSettings
}

// AudioStateWithSettings is a (state, settings) id pair.
type AudioStateWithSettings struct {
	StateID    uint32
	SettingsID uint32
}

// RTPC is a real-time parameter control curve.
type RTPC struct {
	X                 uint32
	IsMIDI            uint8
	IsGeneralSettings uint8
	Param             uint8
	ID                uint32
	CurveScalingType  uint8
	Points            []RTPCPoint
}

// RTPCPoint is one point of an RTPC curve.
type RTPCPoint struct {
	X, Y           float32
	FollowingShape uint8
}

func decodeAudioProperties(r *reader) AudioProperties {
	var p AudioProperties

	p.OverrideEffects = r.U8()

	effectCount := int(r.U8())
	if effectCount > 0 {
		p.BypassedEffects = r.U8()
	}

	p.Effects = readN(r, effectCount, decodeAudioEffect)

	r.Skip(3)
	p.OutputBusID = r.U32()
	p.ParentID = r.U32()
	p.PlaybackBehaviour = r.U8()

	paramCount := int(r.U8())
	p.ParamTypes = readN(r, paramCount, readU8)
	p.ParamValues = readN(r, paramCount, decodeParamValue)

	pairCount := int(r.U8())
	p.ParamPairTypes = readN(r, pairCount, readU8)
	p.ParamPairs = readN(r, pairCount, readFloatPair)

	p.Positioning = DecodePositioningBehaviour(r.U8())
	if p.Positioning.TwoDimensional {
		r.Skip(1)
	}

	if p.Positioning.HasSettings() {
		settings := decodePositioningSettings(r)
		p.PositioningSettings = &settings
	}

	p.AuxSends = DecodeAuxSendsBehaviour(r.U8())

	r.Skip(4)
	p.LimitBehaviour = r.U8()
	p.VirtualVoiceReturn = r.U8()
	p.LimitSoundInstancesTo = r.U16()
	p.VirtualVoice = r.U8()
	p.HDRSettings = r.U8()

	p.StateProperties = readList8(r, func(r *reader) [3]byte {
		var b [3]byte
		copy(b[:], r.next(3))

		return b
	})
	p.StateGroups = readList8(r, decodeAudioStateGroup)
	p.RTPCs = readList16(r, decodeRTPC)

	return p
}

func decodeAudioEffect(r *reader) AudioEffect {
	return AudioEffect{
		Index:        r.U8(),
		ID:           r.U32(),
		UseShareSets: r.U8(),
		Rendered:     r.U8(),
	}
}

func decodeParamValue(r *reader) ParamValue {
	var v ParamValue
	copy(v[:], r.next(4))

	return v
}

func decodePositioningSettings(r *reader) PositioningSettings {
	s := PositioningSettings{
		IsGameDefined: r.U8(),
		AttenuationID: r.U32(),
	}

	if s.IsGameDefined == 0 {
		g := decodeGameDefinedPositioning(r)
		s.GameDefined = &g
	}

	return s
}

func decodeGameDefinedPositioning(r *reader) GameDefinedPositioning {
	g := GameDefinedPositioning{
		UserDefinedPlaySettings: r.U8(),
		TransitionTime:          r.U32(),
	}

	g.ControlPointKeys = readList32(r, func(r *reader) ControlPointKey {
		return ControlPointKey{X: r.F32(), Y: r.F32(), Z: r.F32(), Duration: r.U32()}
	})

	rangeCount := int(r.U32())
	g.RandomRangeUnknowns = readN(r, rangeCount, func(r *reader) [2]uint32 {
		return [2]uint32{r.U32(), r.U32()}
	})
	g.RandomRanges = readN(r, rangeCount, func(r *reader) [3]float32 {
		return [3]float32{r.F32(), r.F32(), r.F32()}
	})

	return g
}

func decodeAudioStateGroup(r *reader) AudioStateGroup {
	g := AudioStateGroup{
		ID:            r.U32(),
		MusicChangeAt: r.U8(),
	}

	g.StatesWithSettings = readList8(r, func(r *reader) AudioStateWithSettings {
		return AudioStateWithSettings{StateID: r.U32(), SettingsID: r.U32()}
	})

	return g
}

func decodeRTPC(r *reader) RTPC {
	c := RTPC{
		X:                 r.U32(),
		IsMIDI:            r.U8(),
		IsGeneralSettings: r.U8(),
		Param:             r.U8(),
		ID:                r.U32(),
		CurveScalingType:  r.U8(),
	}

	c.Points = readList16(r, func(r *reader) RTPCPoint {
		pt := RTPCPoint{X: r.F32(), Y: r.F32(), FollowingShape: r.U8()}
		r.Skip(3)

		return pt
	})

	return c
}

// Clone returns a deep copy of the properties block.
func (p AudioProperties) Clone() AudioProperties {
	out := p
	out.Effects = cloneSlice(p.Effects)
	out.ParamTypes = cloneSlice(p.ParamTypes)
	out.ParamValues = cloneSlice(p.ParamValues)
	out.ParamPairTypes = cloneSlice(p.ParamPairTypes)
	out.ParamPairs = cloneSlice(p.ParamPairs)

	if p.PositioningSettings != nil {
		s := *p.PositioningSettings
		if s.GameDefined != nil {
			g := *s.GameDefined
			g.ControlPointKeys = cloneSlice(g.ControlPointKeys)
			g.RandomRangeUnknowns = cloneSlice(g.RandomRangeUnknowns)
			g.RandomRanges = cloneSlice(g.RandomRanges)
			s.GameDefined = &g
		}

		out.PositioningSettings = &s
	}

	out.StateProperties = cloneSlice(p.StateProperties)

	if p.StateGroups != nil {
		out.StateGroups = make([]AudioStateGroup, len(p.StateGroups))
		for i, g := range p.StateGroups {
			g.StatesWithSettings = cloneSlice(g.StatesWithSettings)
			out.StateGroups[i] = g
		}
	}

	if p.RTPCs != nil {
		out.RTPCs = make([]RTPC, len(p.RTPCs))
		for i, c := range p.RTPCs {
			c.Points = cloneSlice(c.Points)
			out.RTPCs[i] = c
		}
	}

	return out
}
