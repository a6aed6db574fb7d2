package bnk

// PositioningBehaviour is the packed positioning flag byte of an
// AudioProperties block. Bit 0 is OverrideParent.
type PositioningBehaviour struct {
	OverrideParent            bool
	TwoDimensional            bool
	Enable2DPanner            bool
	ThreeDimensional          bool
	EnableSpatialization      bool
	UserDefinedShouldLoop     bool
	UpdateAtEachFrame         bool
	IgnoreListenerOrientation bool
}

// DecodePositioningBehaviour unpacks a positioning flag byte.
func DecodePositioningBehaviour(b uint8) PositioningBehaviour {
	return PositioningBehaviour{
		OverrideParent:            bit(b, 0),
		TwoDimensional:            bit(b, 1),
		Enable2DPanner:            bit(b, 2),
		ThreeDimensional:          bit(b, 3),
		EnableSpatialization:      bit(b, 4),
		UserDefinedShouldLoop:     bit(b, 5),
		UpdateAtEachFrame:         bit(b, 6),
		IgnoreListenerOrientation: bit(b, 7),
	}
}

// HasSettings reports whether a PositioningSettings block follows.
func (p PositioningBehaviour) HasSettings() bool {
	return p.UpdateAtEachFrame || p.UserDefinedShouldLoop
}

// AuxSendsBehaviour is the packed aux-send flag byte. The upper nibble is unused.
type AuxSendsBehaviour struct {
	OverrideGameDefined    bool
	UseGameDefinedAuxSends bool
	OverrideUserDefined    bool
	OverrideAuxSends       bool
}

// DecodeAuxSendsBehaviour unpacks an aux-send flag byte.
func DecodeAuxSendsBehaviour(b uint8) AuxSendsBehaviour {
	return AuxSendsBehaviour{
		OverrideGameDefined:    bit(b, 0),
		UseGameDefinedAuxSends: bit(b, 1),
		OverrideUserDefined:    bit(b, 2),
		OverrideAuxSends:       bit(b, 3),
	}
}

// CodeType is the two-bit code type of a MethodImplAttributes word.
type CodeType uint8

const (
	CodeTypeIL CodeType = iota
	CodeTypeNative
	CodeTypeOPTIL
	CodeTypeRuntime
)

func (c CodeType) String() string {
	switch c {
	case CodeTypeIL:
		return "IL"
	case CodeTypeNative:
		return "Native"
	case CodeTypeOPTIL:
		return "OPTIL"
	case CodeTypeRuntime:
		return "Runtime"
	default:
		return "CodeType(?)"
	}
}

// MethodImplAttributes is a 12-bit attribute word stored in two
// little-endian bytes.
type MethodImplAttributes struct {
	CodeType         CodeType
	Unmanaged        bool
	ForwardDef       bool
	PreserveSig      bool
	InternalCall     bool
	Synchronized     bool
	NoInlining       bool
	MaxMethodImplVal uint8
	NoOptimization   bool
}

// DecodeMethodImplAttributes unpacks the two attribute bytes.
func DecodeMethodImplAttributes(lo, hi uint8) MethodImplAttributes {
	w := uint16(lo) | uint16(hi)<<8

	return MethodImplAttributes{
		CodeType:         CodeType(w & 0x3),
		Unmanaged:        w&(1<<2) != 0,
		ForwardDef:       w&(1<<3) != 0,
		PreserveSig:      w&(1<<4) != 0,
		InternalCall:     w&(1<<5) != 0,
		Synchronized:     w&(1<<6) != 0,
		NoInlining:       w&(1<<7) != 0,
		MaxMethodImplVal: uint8(w>>8) & 0x3,
		NoOptimization:   w&(1<<10) != 0,
	}
}

func bit(b uint8, n uint) bool {
	return b&(1<<n) != 0
}
