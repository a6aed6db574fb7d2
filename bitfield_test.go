package bnk

import "testing"

func TestDecodePositioningBehaviour(t *testing.T) {
	tests := []struct {
		name         string
		in           uint8
		want         PositioningBehaviour
		wantSettings bool
	}{
		{"none", 0x00, PositioningBehaviour{}, false},
		{"override parent", 0x01, PositioningBehaviour{OverrideParent: true}, false},
		{"2d", 0x02, PositioningBehaviour{TwoDimensional: true}, false},
		{"user loop", 0x20, PositioningBehaviour{UserDefinedShouldLoop: true}, true},
		{"each frame", 0x40, PositioningBehaviour{UpdateAtEachFrame: true}, true},
		{"all", 0xFF, PositioningBehaviour{
			OverrideParent:            true,
			TwoDimensional:            true,
			Enable2DPanner:            true,
			ThreeDimensional:          true,
			EnableSpatialization:      true,
			UserDefinedShouldLoop:     true,
			UpdateAtEachFrame:         true,
			IgnoreListenerOrientation: true,
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodePositioningBehaviour(tt.in)
			if got != tt.want {
				t.Fatalf("DecodePositioningBehaviour(%#x)=%+v, want %+v", tt.in, got, tt.want)
			}

			if got.HasSettings() != tt.wantSettings {
				t.Fatalf("HasSettings()=%v, want %v", got.HasSettings(), tt.wantSettings)
			}
		})
	}
}

func TestDecodeAuxSendsBehaviourIgnoresUpperNibble(t *testing.T) {
	got := DecodeAuxSendsBehaviour(0xF5)
	want := AuxSendsBehaviour{OverrideGameDefined: true, OverrideUserDefined: true}

	if got != want {
		t.Fatalf("DecodeAuxSendsBehaviour(0xf5)=%+v, want %+v", got, want)
	}
}

func TestDecodeMethodImplAttributes(t *testing.T) {
	got := DecodeMethodImplAttributes(0b1010_0101, 0b0000_0110)
	want := MethodImplAttributes{
		CodeType:         CodeTypeNative,
		Unmanaged:        true,
		InternalCall:     true,
		NoInlining:       true,
		MaxMethodImplVal: 2,
		NoOptimization:   true,
	}

	if got != want {
		t.Fatalf("DecodeMethodImplAttributes=%+v, want %+v", got, want)
	}

	if got.CodeType.String() != "Native" {
		t.Fatalf("CodeType.String()=%q", got.CodeType.String())
	}
}
