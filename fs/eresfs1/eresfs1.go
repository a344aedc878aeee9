// Package eresfs1 encodes and decodes the on-disk ERESFS1 layout: a
// 512-byte superblock at block 0 followed by a directory region of
// packed 64-byte entries. Codec functions are pure byte transforms;
// mount-time semantic validation lives in fs/simplefs.
package eresfs1

import (
	"encoding/binary"
	"errors"
)

// BlockSize is the fixed on-disk block size this format is defined over.
const BlockSize = 512

// SuperblockSize is the encoded size of a Superblock, one full block.
const SuperblockSize = 512

// DirEntrySize is the encoded size of one DirEntry record.
const DirEntrySize = 64

// MaxNameLen is the longest file name this format can store.
const MaxNameLen = 32

var magicBytes = [8]byte{'E', 'R', 'E', 'S', 'F', 'S', '1', 0}

const supportedVersion uint32 = 1

// Superblock is the decoded block-0 metadata.
type Superblock struct {
	Version        uint32
	BlockSize      uint32
	TotalBlocks    uint32
	DirEntryCount  uint32
	DirStartBlock  uint32
	DirBlockCount  uint32
	DataStartBlock uint32
}

// Errors returned by the codec layer. Semantic (post-decode) validation
// errors belong to fs/simplefs.
var (
	ErrBadMagic     = errors.New("eresfs1: bad magic")
	ErrBadVersion   = errors.New("eresfs1: bad version")
	ErrBadBlockSize = errors.New("eresfs1: bad block size")
	ErrShortBuffer  = errors.New("eresfs1: buffer too short")
	ErrNameTooLong  = errors.New("eresfs1: name too long")
)

// DecodeSuperblock parses a 512-byte block-0 buffer.
func DecodeSuperblock(buf []byte) (Superblock, error) {
	if len(buf) < SuperblockSize {
		return Superblock{}, ErrShortBuffer
	}
	if [8]byte(buf[0:8]) != magicBytes {
		return Superblock{}, ErrBadMagic
	}
	sb := Superblock{
		Version:        binary.LittleEndian.Uint32(buf[8:12]),
		BlockSize:      binary.LittleEndian.Uint32(buf[12:16]),
		TotalBlocks:    binary.LittleEndian.Uint32(buf[16:20]),
		DirEntryCount:  binary.LittleEndian.Uint32(buf[20:24]),
		DirStartBlock:  binary.LittleEndian.Uint32(buf[24:28]),
		DirBlockCount:  binary.LittleEndian.Uint32(buf[28:32]),
		DataStartBlock: binary.LittleEndian.Uint32(buf[32:36]),
	}
	if sb.Version != supportedVersion {
		return Superblock{}, ErrBadVersion
	}
	if sb.BlockSize != BlockSize {
		return Superblock{}, ErrBadBlockSize
	}
	return sb, nil
}

// EncodeSuperblock renders sb as a 512-byte block-0 buffer, used by
// cmd/mkimage.
func EncodeSuperblock(sb Superblock) []byte {
	buf := make([]byte, SuperblockSize)
	copy(buf[0:8], magicBytes[:])
	binary.LittleEndian.PutUint32(buf[8:12], sb.Version)
	binary.LittleEndian.PutUint32(buf[12:16], sb.BlockSize)
	binary.LittleEndian.PutUint32(buf[16:20], sb.TotalBlocks)
	binary.LittleEndian.PutUint32(buf[20:24], sb.DirEntryCount)
	binary.LittleEndian.PutUint32(buf[24:28], sb.DirStartBlock)
	binary.LittleEndian.PutUint32(buf[28:32], sb.DirBlockCount)
	binary.LittleEndian.PutUint32(buf[32:36], sb.DataStartBlock)
	return buf
}

// DirEntry is the decoded form of one 64-byte directory record.
// NameLen == 0 means the slot is unused.
type DirEntry struct {
	Name           string
	NameLen        uint8
	FileStartBlock uint32
	FileBlockCount uint32
	FileSize       uint32
	Flags          uint32
}

// DecodeDirEntry parses one 64-byte directory record. It is infallible
// at the byte level: any 64 bytes decode to some DirEntry. The name
// bytes beyond NameLen are never consulted, so no UTF-8 validation
// happens here.
func DecodeDirEntry(buf []byte) DirEntry {
	nameLen := buf[32]
	n := nameLen
	if n > MaxNameLen {
		n = MaxNameLen
	}
	return DirEntry{
		Name:           string(buf[0:n]),
		NameLen:        nameLen,
		FileStartBlock: binary.LittleEndian.Uint32(buf[36:40]),
		FileBlockCount: binary.LittleEndian.Uint32(buf[40:44]),
		FileSize:       binary.LittleEndian.Uint32(buf[44:48]),
		Flags:          binary.LittleEndian.Uint32(buf[48:52]),
	}
}

// EncodeDirEntry renders e as a 64-byte directory record, used by
// cmd/mkimage. Returns ErrNameTooLong if e.Name doesn't fit in 32 bytes.
func EncodeDirEntry(e DirEntry) ([]byte, error) {
	if len(e.Name) > MaxNameLen {
		return nil, ErrNameTooLong
	}
	buf := make([]byte, DirEntrySize)
	copy(buf[0:32], e.Name)
	buf[32] = uint8(len(e.Name))
	binary.LittleEndian.PutUint32(buf[36:40], e.FileStartBlock)
	binary.LittleEndian.PutUint32(buf[40:44], e.FileBlockCount)
	binary.LittleEndian.PutUint32(buf[44:48], e.FileSize)
	binary.LittleEndian.PutUint32(buf[48:52], e.Flags)
	return buf, nil
}
