package bnk

import "fmt"

// MusicSwitchContainer selects music through a switch routing table.
type MusicSwitchContainer struct {
	ID            uint32
	MIDIBehaviour uint8
	Properties    AudioProperties
	ChildIDs      []uint32

	GridPeriodTime float64
	GridOffsetTime float64
	Tempo          float32
	TimeSignature  [2]uint8

	Stingers    []MusicStinger
	Transitions []MusicTransition

	ContinueOnGroupChange uint8
	GroupIDs              []uint32
	GroupTypes            []uint8

	PathSelectionLength uint32
	UseWeighted         uint8
	// PathSections is the raw routing table, a sequence of 12-byte records.
	PathSections []byte
	// Paths is the routing tree rooted at record 0. It is nil until
	// BuildPaths succeeds, or when record 0 is itself an endpoint.
	Paths *AudioPathNode
	// PathsErr records a routing table that could not be rebuilt.
	PathsErr error
}

// MusicStinger plays a segment when a trigger fires.
type MusicStinger struct {
	TriggerID                 uint32
	SegmentID                 uint32
	PlayAt                    uint32
	CueID                     uint32
	DoNotRepeatIn             uint32
	AllowPlayingInNextSegment uint32
}

// MusicTransition describes how playback moves between sources and destinations.
type MusicTransition struct {
	SourceIDs      []uint32
	DestinationIDs []uint32

	FadeOutDuration uint32
	FadeOutCurve    uint32
	FadeOutOffset   uint32
	ExitSourceAt    uint32
	ExitSourceAtID  uint32
	PlayPostExit    uint8

	FadeInDuration uint32
	FadeInCurve    uint32
	FadeInOffset   uint32

	CustomCueFilterID    uint32
	JumpToPlaylistItemID uint32
	DestinationSyncTo    uint32
	PlayPreEntry         uint8
	MatchSourceCueName   uint8
	UseTransitionSegment uint8
	// TransitionSegment is set when UseTransitionSegment is 1.
	TransitionSegment *TransitionSegment
}

// TransitionSegment is an intermediate segment played during a transition.
type TransitionSegment struct {
	ID              uint32
	FadeInDuration  uint32
	FadeInCurve     uint32
	FadeInOffset    uint32
	FadeOutDuration uint32
	FadeOutCurve    uint32
	FadeOutOffset   uint32
	PlayPreEntry    uint8
	PlayPostExit    uint8
}

func decodeMusicSwitchContainer(r *reader) (*MusicSwitchContainer, error) {
	c := &MusicSwitchContainer{
		ID:            r.U32(),
		MIDIBehaviour: r.U8(),
	}

	c.Properties = decodeAudioProperties(r)
	c.ChildIDs = readList32(r, readU32)

	c.GridPeriodTime = r.F64()
	c.GridOffsetTime = r.F64()
	c.Tempo = r.F32()
	c.TimeSignature = [2]uint8{r.U8(), r.U8()}

	r.Skip(1)
	c.Stingers = readList32(r, decodeStinger)
	c.Transitions = readList32(r, decodeTransition)

	c.ContinueOnGroupChange = r.U8()

	groupCount := int(r.U32())
	c.GroupIDs = readN(r, groupCount, readU32)
	c.GroupTypes = readN(r, groupCount, readU8)

	c.PathSelectionLength = r.U32()
	c.UseWeighted = r.U8()
	c.PathSections = r.Bytes(int(c.PathSelectionLength))

	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("failed to decode music switch container: %w", err)
	}

	return c, nil
}

func decodeStinger(r *reader) MusicStinger {
	return MusicStinger{
		TriggerID:                 r.U32(),
		SegmentID:                 r.U32(),
		PlayAt:                    r.U32(),
		CueID:                     r.U32(),
		DoNotRepeatIn:             r.U32(),
		AllowPlayingInNextSegment: r.U32(),
	}
}

func decodeTransition(r *reader) MusicTransition {
	t := MusicTransition{
		SourceIDs:      readList32(r, readU32),
		DestinationIDs: readList32(r, readU32),
	}

	t.FadeOutDuration = r.U32()
	t.FadeOutCurve = r.U32()
	t.FadeOutOffset = r.U32()
	t.ExitSourceAt = r.U32()
	t.ExitSourceAtID = r.U32()
	t.PlayPostExit = r.U8()

	t.FadeInDuration = r.U32()
	t.FadeInCurve = r.U32()
	t.FadeInOffset = r.U32()

	t.CustomCueFilterID = r.U32()
	t.JumpToPlaylistItemID = r.U32()
	t.DestinationSyncTo = r.U32()
	t.PlayPreEntry = r.U8()
	t.MatchSourceCueName = r.U8()

	t.UseTransitionSegment = r.U8()
	if t.UseTransitionSegment == 1 {
		t.TransitionSegment = &TransitionSegment{
			ID:              r.U32(),
			FadeInDuration:  r.U32(),
			FadeInCurve:     r.U32(),
			FadeInOffset:    r.U32(),
			FadeOutDuration: r.U32(),
			FadeOutCurve:    r.U32(),
			FadeOutOffset:   r.U32(),
			PlayPreEntry:    r.U8(),
			PlayPostExit:    r.U8(),
		}
	}

	return t
}

// BuildPaths rebuilds the routing tree from record 0 and stores it in Paths.
// An empty routing table leaves Paths nil, while BuildAudioPath on an empty
// table fails with ErrPathIndex.
func (c *MusicSwitchContainer) BuildPaths() error {
	c.Paths = nil
	c.PathsErr = nil

	if len(c.PathSections) == 0 && c.PathSelectionLength == 0 {
		return nil
	}

	root, err := c.PathElement(0)
	if err != nil {
		c.PathsErr = err
		return err
	}

	if node, ok := root.(*AudioPathNode); ok {
		c.Paths = node
	}

	return nil
}

// PathElement rebuilds the routing subtree rooted at the given record index.
func (c *MusicSwitchContainer) PathElement(index uint32) (AudioPathElement, error) {
	if c.PathSelectionLength%pathRecordSize != 0 {
		return nil, fmt.Errorf("%w: declared %d bytes", ErrPathLength, c.PathSelectionLength)
	}

	return BuildAudioPath(c.PathSections, index)
}

// Clone returns a deep copy of the container, including its routing tree.
func (c *MusicSwitchContainer) Clone() *MusicSwitchContainer {
	if c == nil {
		return nil
	}

	out := *c
	out.Properties = c.Properties.Clone()
	out.ChildIDs = cloneSlice(c.ChildIDs)
	out.Stingers = cloneSlice(c.Stingers)

	if c.Transitions != nil {
		out.Transitions = make([]MusicTransition, len(c.Transitions))
		for i, t := range c.Transitions {
			t.SourceIDs = cloneSlice(t.SourceIDs)
			t.DestinationIDs = cloneSlice(t.DestinationIDs)

			if t.TransitionSegment != nil {
				seg := *t.TransitionSegment
				t.TransitionSegment = &seg
			}

			out.Transitions[i] = t
		}
	}

	out.GroupIDs = cloneSlice(c.GroupIDs)
	out.GroupTypes = cloneSlice(c.GroupTypes)
	out.PathSections = cloneSlice(c.PathSections)

	if c.Paths != nil {
		out.Paths = c.Paths.cloneNode()
	}

	return &out
}
