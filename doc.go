// Package bnk decodes game-audio sound banks.
//
// A bank is a flat sequence of chunks, each a four byte tag followed by a
// little-endian u32 payload length. The bank header (BKHD) must come first
// and the object hierarchy (HIRC) must follow; other chunks are kept as
// opaque bytes. The hierarchy is a list of type-tagged objects of which
// events, event actions, music tracks and music switch containers are
// decoded in full. Every music switch container carries a routing table
// that is rebuilt into a tree of AudioPathNode and MusicEndpoint values.
//
// Decoding never mutates or aliases its input:
//
//	bank, err := bnk.Parse(data)
//	if err != nil {
//		return err
//	}
//
//	tracks, err := bnk.Collect[*bnk.MusicTrack](ctx, bank.Hierarchy())
//
// Playback derives the play and stop events and the main switch container
// a player needs, and Session drives an Engine with them.
package bnk
