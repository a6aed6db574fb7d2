package bnk

import (
	"errors"
	"fmt"
)

// ErrUnknownActionType is returned when an action type byte falls outside
// the defined ranges.
var ErrUnknownActionType = errors.New("unknown event action type")

// ActionType selects what an EventAction does. Values 0x17 and 0x18 are not
// assigned.
type ActionType uint8

const (
	ActionNone ActionType = iota
	ActionStop
	ActionPause
	ActionResume
	ActionPlay
	ActionTrigger
	ActionMute
	ActionUnMute
	ActionSetVoicePitch
	ActionResetVoicePitch
	ActionSetVoiceVolume
	ActionResetVoiceVolume
	ActionSetBusVolume
	ActionResetBusVolume
	ActionSetVoiceLowPassFilter
	ActionResetVoiceLowPassFilter
	ActionEnableState
	ActionDisableState
	ActionSetState
	ActionSetGameParameter
	ActionResetGameParameter // 0x14
	ActionUnk15
	ActionUnk16
)

const (
	ActionSetSwitch ActionType = iota + 0x19
	ActionToggleBypass
	ActionResetBypassEffect
	ActionBreak
	ActionUnk1D
	ActionSeek // 0x1E
	ActionUnk1F
	ActionUnk20
	ActionUnk21
	ActionUnk22
)

var actionTypeNames = map[ActionType]string{
	ActionNone:                    "None",
	ActionStop:                    "Stop",
	ActionPause:                   "Pause",
	ActionResume:                  "Resume",
	ActionPlay:                    "Play",
	ActionTrigger:                 "Trigger",
	ActionMute:                    "Mute",
	ActionUnMute:                  "UnMute",
	ActionSetVoicePitch:           "SetVoicePitch",
	ActionResetVoicePitch:         "ResetVoicePitch",
	ActionSetVoiceVolume:          "SetVoiceVolume",
	ActionResetVoiceVolume:        "ResetVoiceVolume",
	ActionSetBusVolume:            "SetBusVolume",
	ActionResetBusVolume:          "ResetBusVolume",
	ActionSetVoiceLowPassFilter:   "SetVoiceLowPassFilter",
	ActionResetVoiceLowPassFilter: "ResetVoiceLowPassFilter",
	ActionEnableState:             "EnableState",
	ActionDisableState:            "DisableState",
	ActionSetState:                "SetState",
	ActionSetGameParameter:        "SetGameParameter",
	ActionResetGameParameter:      "ResetGameParameter",
	ActionUnk15:                   "Unk15",
	ActionUnk16:                   "Unk16",
	ActionSetSwitch:               "SetSwitch",
	ActionToggleBypass:            "ToggleBypass",
	ActionResetBypassEffect:       "ResetBypassEffect",
	ActionBreak:                   "Break",
	ActionUnk1D:                   "Unk1D",
	ActionSeek:                    "Seek",
	ActionUnk1F:                   "Unk1F",
	ActionUnk20:                   "Unk20",
	ActionUnk21:                   "Unk21",
	ActionUnk22:                   "Unk22",
}

// Valid reports whether t is an assigned action type.
func (t ActionType) Valid() bool {
	_, ok := actionTypeNames[t]
	return ok
}

func (t ActionType) String() string {
	if name, ok := actionTypeNames[t]; ok {
		return name
	}

	return fmt.Sprintf("ActionType(%#x)", uint8(t))
}

// HasSettings reports whether actions of this type carry a settings payload.
func (t ActionType) HasSettings() bool {
	switch t {
	case ActionStop, ActionPause, ActionResume, ActionPlay, ActionSeek:
		return true
	default:
		return false
	}
}

// Event is a named trigger that runs a list of actions.
type Event struct {
	ID        uint32
	ActionIDs []uint32
}

func decodeEvent(r *reader) (*Event, error) {
	e := &Event{
		ID:        r.U32(),
		ActionIDs: readList8(r, readU32),
	}

	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("failed to decode event: %w", err)
	}

	return e, nil
}

// HasAction reports whether the event runs the action with the given id.
func (e *Event) HasAction(actionID uint32) bool {
	for _, id := range e.ActionIDs {
		if id == actionID {
			return true
		}
	}

	return false
}

// Clone returns a deep copy of the event.
func (e *Event) Clone() *Event {
	if e == nil {
		return nil
	}

	out := *e
	out.ActionIDs = cloneSlice(e.ActionIDs)

	return &out
}

// EventAction is a typed action referenced by events.
type EventAction struct {
	ID         uint32
	Scope      uint8
	ActionType ActionType
	ObjectID   uint32
	ObjectID2  uint8

	ParamTypes  []uint8
	ParamValues []uint32

	ParamPairTypes  []uint8
	ParamPairValues []FloatPair

	// Settings is selected by ActionType. It is NoSettings for every type
	// without a payload.
	Settings ActionSettings
}

func decodeEventAction(r *reader) (*EventAction, error) {
	a := &EventAction{
		ID:    r.U32(),
		Scope: r.U8(),
	}

	a.ActionType = ActionType(r.U8())
	if r.Err() == nil && !a.ActionType.Valid() {
		return nil, fmt.Errorf("%w: %#x in action %d", ErrUnknownActionType, uint8(a.ActionType), a.ID)
	}

	a.ObjectID = r.U32()
	a.ObjectID2 = r.U8()

	paramCount := int(r.U8())
	a.ParamTypes = readN(r, paramCount, readU8)
	a.ParamValues = readN(r, paramCount, readU32)

	pairCount := int(r.U8())
	a.ParamPairTypes = readN(r, pairCount, readU8)
	a.ParamPairValues = readN(r, pairCount, readFloatPair)

	a.Settings = decodeActionSettings(r, a.ActionType)

	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("failed to decode event action: %w", err)
	}

	return a, nil
}

// Clone returns a deep copy of the action.
func (a *EventAction) Clone() *EventAction {
	if a == nil {
		return nil
	}

	out := *a
	out.ParamTypes = cloneSlice(a.ParamTypes)
	out.ParamValues = cloneSlice(a.ParamValues)
	out.ParamPairTypes = cloneSlice(a.ParamPairTypes)
	out.ParamPairValues = cloneSlice(a.ParamPairValues)

	if a.Settings != nil {
		out.Settings = a.Settings.cloneSettings()
	}

	return &out
}

// ActionSettings is the type-specific payload of an EventAction. Its shape
// is chosen by the enclosing action's type, not by a tag of its own.
type ActionSettings interface {
	cloneSettings() ActionSettings
}

// NoSettings is the payload of action types that carry none.
type NoSettings struct{}

// ActiveActionParams is the payload shape shared by Stop, Pause and Resume.
type ActiveActionParams struct {
	Flags      uint8
	ExtraFlags uint8
	Exceptions []ActionException
}

// ActionException excludes an object from an active action.
type ActionException struct {
	ID    uint32
	IsBus uint8
}

type (
	StopSettings   struct{ ActiveActionParams }
	PauseSettings  struct{ ActiveActionParams }
	ResumeSettings struct{ ActiveActionParams }
)

// PlaySettings is the payload of a Play action.
type PlaySettings struct {
	FadeCurve uint8
	BankID    uint32
}

// SeekSettings is the payload of a Seek action.
type SeekSettings struct {
	IsRelativeToDuration uint8
	Value                float32
	RandomMin            uint32
	RandomMax            uint32
	SnapToNearestMarker  uint8
}

func (NoSettings) cloneSettings() ActionSettings { return NoSettings{} }

func (s StopSettings) cloneSettings() ActionSettings {
	return StopSettings{s.ActiveActionParams.clone()}
}

func (s PauseSettings) cloneSettings() ActionSettings {
	return PauseSettings{s.ActiveActionParams.clone()}
}

func (s ResumeSettings) cloneSettings() ActionSettings {
	return ResumeSettings{s.ActiveActionParams.clone()}
}

func (s PlaySettings) cloneSettings() ActionSettings { return s }

func (s SeekSettings) cloneSettings() ActionSettings { return s }

func (p ActiveActionParams) clone() ActiveActionParams {
	p.Exceptions = cloneSlice(p.Exceptions)
	return p
}

// decodeActionSettings reads the payload selected by kind. Types without a
// payload consume no bytes.
func decodeActionSettings(r *reader, kind ActionType) ActionSettings {
	switch kind {
	case ActionStop:
		return StopSettings{decodeActiveActionParams(r)}
	case ActionPause:
		return PauseSettings{decodeActiveActionParams(r)}
	case ActionResume:
		return ResumeSettings{decodeActiveActionParams(r)}
	case ActionPlay:
		return PlaySettings{FadeCurve: r.U8(), BankID: r.U32()}
	case ActionSeek:
		return SeekSettings{
			IsRelativeToDuration: r.U8(),
			Value:                r.F32(),
			RandomMin:            r.U32(),
			RandomMax:            r.U32(),
			SnapToNearestMarker:  r.U8(),
		}
	default:
		return NoSettings{}
	}
}

func decodeActiveActionParams(r *reader) ActiveActionParams {
	return ActiveActionParams{
		Flags:      r.U8(),
		ExtraFlags: r.U8(),
		Exceptions: readList8(r, func(r *reader) ActionException {
			return ActionException{ID: r.U32(), IsBus: r.U8()}
		}),
	}
}
