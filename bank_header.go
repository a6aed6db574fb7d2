package bnk

import (
	"errors"
	"fmt"

	"github.com/go-audio/riff"
)

// BankVersion is the only bank format version this package decodes.
const BankVersion = 0x8C

// ErrUnsupportedVersion is returned when a bank header declares a version
// other than BankVersion.
var ErrUnsupportedVersion = errors.New("unsupported bank version")

// BankHeaderChunk is the decoded BKHD chunk.
type BankHeaderChunk struct {
	Version    uint32
	BankID     uint32
	LanguageID uint32
	Reserved   [8]byte
	ProjectID  uint32
}

// Name implements ChunkBody.
func (*BankHeaderChunk) Name() ChunkName { return ChunkBKHD }

// bankHeaderFields is the fixed part read after the version.
type bankHeaderFields struct {
	BankID     uint32
	LanguageID uint32
	Reserved   [8]byte
	ProjectID  uint32
}

// DecodeBankHeader reads a BKHD chunk. Bytes after the project id are
// discarded.
func DecodeBankHeader(ch *riff.Chunk) (*BankHeaderChunk, error) {
	if ch == nil {
		return nil, errNilChunk
	}

	defer ch.Drain()

	var version uint32

	err := ch.ReadLE(&version)
	if err != nil {
		return nil, fmt.Errorf("failed to read bank version: %w", err)
	}

	if version != BankVersion {
		return nil, fmt.Errorf("%w: %#x, want %#x", ErrUnsupportedVersion, version, BankVersion)
	}

	var fields bankHeaderFields

	err = ch.ReadLE(&fields)
	if err != nil {
		return nil, fmt.Errorf("failed to read bank header: %w", err)
	}

	return &BankHeaderChunk{
		Version:    version,
		BankID:     fields.BankID,
		LanguageID: fields.LanguageID,
		Reserved:   fields.Reserved,
		ProjectID:  fields.ProjectID,
	}, nil
}
