package bnk

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/sirupsen/logrus"
)

// ErrNoSwitchContainer is returned when no play action targets a music
// switch container.
var ErrNoSwitchContainer = fmt.Errorf("no music switch container targeted by a play action: %w", ErrNotFound)

// DefaultGameObject is the game object events are posted on when a Session
// is not given one.
const DefaultGameObject uint64 = 100

// Playback summarizes what a player needs to start a music bank.
type Playback struct {
	PlayActions []*EventAction
	// MainSwitch is the first switch container a play action targets.
	MainSwitch   *MusicSwitchContainer
	PlayEventIDs []uint32
	StopEventIDs []uint32
}

// Playback derives the playback summary of the hierarchy. It returns
// ErrNoSwitchContainer when no play action targets a switch container.
func (h *HierarchyChunk) Playback() (*Playback, error) {
	ctx := context.Background()

	playActions, err := Filter(ctx, h, func(a *EventAction) bool {
		return a.ActionType == ActionPlay
	})
	if err != nil {
		return nil, err
	}

	stopActions, err := Filter(ctx, h, func(a *EventAction) bool {
		return a.ActionType == ActionStop
	})
	if err != nil {
		return nil, err
	}

	mainSwitch, ok := Find(h, func(c *MusicSwitchContainer) bool {
		return slices.ContainsFunc(playActions, func(a *EventAction) bool { return a.ObjectID == c.ID })
	})
	if !ok {
		return nil, ErrNoSwitchContainer
	}

	p := &Playback{PlayActions: playActions, MainSwitch: mainSwitch}

	p.PlayEventIDs, err = h.eventsRunning(ctx, actionIDs(playActions))
	if err != nil {
		return nil, err
	}

	p.StopEventIDs, err = h.eventsRunning(ctx, actionIDs(stopActions))
	if err != nil {
		return nil, err
	}

	return p, nil
}

func actionIDs(actions []*EventAction) []uint32 {
	ids := make([]uint32, len(actions))
	for i, a := range actions {
		ids[i] = a.ID
	}

	return ids
}

// eventsRunning returns the ids of events referencing any of the actions.
func (h *HierarchyChunk) eventsRunning(ctx context.Context, actions []uint32) ([]uint32, error) {
	events, err := Filter(ctx, h, func(e *Event) bool {
		return slices.ContainsFunc(e.ActionIDs, func(id uint32) bool { return slices.Contains(actions, id) })
	})
	if err != nil {
		return nil, err
	}

	ids := make([]uint32, len(events))
	for i, e := range events {
		ids[i] = e.ID
	}

	return ids, nil
}

// EventFor returns a copy of the first event that runs the action.
func (h *HierarchyChunk) EventFor(actionID uint32) (*Event, error) {
	e, ok := Find(h, func(e *Event) bool { return e.HasAction(actionID) })
	if !ok {
		return nil, fmt.Errorf("event running action %d: %w", actionID, ErrNotFound)
	}

	return e, nil
}

// SwitchSelection is one switch value a player can select.
type SwitchSelection struct {
	ContainerID uint32
	Group       uint32
	Value       uint32
	// Target is the object the endpoint routes to.
	Target uint32
}

// SwitchSelections lists the selectable switch values of a container: one
// per endpoint directly below its routing root, followed by the selections
// of any child switch container an endpoint routes to.
func (h *HierarchyChunk) SwitchSelections(c *MusicSwitchContainer) ([]SwitchSelection, error) {
	return h.switchSelections(c, make(map[uint32]bool))
}

func (h *HierarchyChunk) switchSelections(c *MusicSwitchContainer, seen map[uint32]bool) ([]SwitchSelection, error) {
	if c == nil {
		return nil, fmt.Errorf("switch container: %w", ErrNotFound)
	}

	if len(c.GroupIDs) == 0 {
		return nil, fmt.Errorf("switch group of container %d: %w", c.ID, ErrNotFound)
	}

	seen[c.ID] = true

	if c.Paths == nil {
		return nil, nil
	}

	group := c.GroupIDs[0]
	endpoints := c.Paths.Endpoints()
	out := make([]SwitchSelection, 0, len(endpoints))

	for _, e := range endpoints {
		out = append(out, SwitchSelection{
			ContainerID: c.ID,
			Group:       group,
			Value:       e.From,
			Target:      e.AudioID,
		})
	}

	for _, e := range endpoints {
		if seen[e.AudioID] {
			continue
		}

		child, ok := Find(h, func(s *MusicSwitchContainer) bool { return s.ID == e.AudioID })
		if !ok {
			continue
		}

		nested, err := h.switchSelections(child, seen)
		if errors.Is(err, ErrNotFound) {
			continue
		}

		if err != nil {
			return nil, err
		}

		out = append(out, nested...)
	}

	return out, nil
}

// Engine is the audio engine a Session drives.
type Engine interface {
	LoadBank(data []byte) (uint32, error)
	SetSwitch(group, value uint32, gameObject uint64) error
	PostEvent(eventID uint32, gameObject uint64) (uint32, error)
}

// Session is a bank loaded into an Engine together with its decoded
// playback summary.
type Session struct {
	BankID     uint32
	Bank       *Bank
	Playback   *Playback
	GameObject uint64

	engine Engine
	log    logrus.FieldLogger
}

// OpenSession fetches a bank, loads it into the engine and decodes it.
func OpenSession(ctx context.Context, p ContentProvider, id ContentID, engine Engine, opts ...Option) (*Session, error) {
	data, err := p.Read(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to read bank %s: %w", id, err)
	}

	bankID, err := engine.LoadBank(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load bank %s: %w", id, err)
	}

	dec := NewDecoder(data, opts...)

	bank, err := dec.Decode()
	if err != nil {
		return nil, fmt.Errorf("failed to decode bank %s: %w", id, err)
	}

	playback, err := bank.Hierarchy().Playback()
	if err != nil {
		return nil, fmt.Errorf("bank %s: %w", id, err)
	}

	s := &Session{
		BankID:     bankID,
		Bank:       bank,
		Playback:   playback,
		GameObject: DefaultGameObject,
		engine:     engine,
		log:        dec.Logger(),
	}

	s.log.WithFields(logrus.Fields{
		"content": id.String(),
		"bank":    bankID,
		"switch":  playback.MainSwitch.ID,
	}).Info("bank loaded")

	return s, nil
}

// Selections lists the switch values of the main switch container.
func (s *Session) Selections() ([]SwitchSelection, error) {
	return s.Bank.Hierarchy().SwitchSelections(s.Playback.MainSwitch)
}

// Select sets the switch and posts the first play event. It returns the
// engine's playing id.
func (s *Session) Select(sel SwitchSelection) (uint32, error) {
	s.log.WithFields(logrus.Fields{
		"group": sel.Group,
		"value": sel.Value,
	}).Info("setting switch")

	err := s.engine.SetSwitch(sel.Group, sel.Value, s.GameObject)
	if err != nil {
		return 0, fmt.Errorf("failed to set switch %d to %d: %w", sel.Group, sel.Value, err)
	}

	return s.Play()
}

// Play posts the first play event.
func (s *Session) Play() (uint32, error) {
	return s.post(s.Playback.PlayEventIDs, "play")
}

// Stop posts the first stop event.
func (s *Session) Stop() (uint32, error) {
	return s.post(s.Playback.StopEventIDs, "stop")
}

func (s *Session) post(events []uint32, kind string) (uint32, error) {
	if len(events) == 0 {
		return 0, fmt.Errorf("%s event: %w", kind, ErrNotFound)
	}

	playing, err := s.engine.PostEvent(events[0], s.GameObject)
	if err != nil {
		return 0, fmt.Errorf("failed to post %s event %d: %w", kind, events[0], err)
	}

	return playing, nil
}
