// Package simplefs mounts an ERESFS1 image over a block.Device and
// implements vfs.Filesystem against it: a single flat directory of
// files, read-only, validated once at mount time.
package simplefs

import (
	"errors"
	"unicode/utf8"

	"github.com/justeres/eres-os/block"
	"github.com/justeres/eres-os/fs/eresfs1"
	"github.com/justeres/eres-os/vfs"
)

// ErrInvalidImage is returned when the mounted image violates one of
// the on-disk invariants (overlapping or out-of-range file regions, a
// non-UTF-8 name, a corrupt directory record count).
var ErrInvalidImage = errors.New("simplefs: invalid image")

type entry struct {
	name           string
	fileStartBlock uint32
	fileBlockCount uint32
	fileSize       uint32
}

// SimpleFs is a mounted, read-only ERESFS1 filesystem.
type SimpleFs struct {
	device  block.Device
	entries []entry
}

// Mount reads block 0 and the directory region off device, decodes and
// validates every live directory entry, and returns a ready SimpleFs.
// A device read error is returned as is; a codec error or a semantically
// malformed image is reported as ErrInvalidImage. Blocks past the last
// file are not checked.
func Mount(device block.Device) (*SimpleFs, error) {
	sectorSize := device.SectorSize()
	if sectorSize != eresfs1.BlockSize {
		return nil, ErrInvalidImage
	}

	block0 := make([]byte, eresfs1.BlockSize)
	if err := device.ReadSector(0, block0); err != nil {
		return nil, err
	}
	sb, err := eresfs1.DecodeSuperblock(block0)
	if err != nil {
		return nil, ErrInvalidImage
	}

	dirBuf := make([]byte, 0, int(sb.DirBlockCount)*eresfs1.BlockSize)
	sector := make([]byte, eresfs1.BlockSize)
	for i := uint32(0); i < sb.DirBlockCount; i++ {
		if err := device.ReadSector(uint64(sb.DirStartBlock+i), sector); err != nil {
			return nil, err
		}
		dirBuf = append(dirBuf, sector...)
	}

	entries := make([]entry, 0, sb.DirEntryCount)
	seen := make([]struct{ start, end uint32 }, 0, sb.DirEntryCount)
	for i := uint32(0); i < sb.DirEntryCount; i++ {
		off := i * eresfs1.DirEntrySize
		if int(off+eresfs1.DirEntrySize) > len(dirBuf) {
			return nil, ErrInvalidImage
		}
		raw := eresfs1.DecodeDirEntry(dirBuf[off : off+eresfs1.DirEntrySize])
		if raw.NameLen == 0 {
			continue
		}
		if raw.NameLen < 1 || raw.NameLen > eresfs1.MaxNameLen {
			return nil, ErrInvalidImage
		}
		if !utf8.ValidString(raw.Name) {
			return nil, ErrInvalidImage
		}
		if raw.FileStartBlock < sb.DataStartBlock {
			return nil, ErrInvalidImage
		}
		end := raw.FileStartBlock + raw.FileBlockCount
		if end < raw.FileStartBlock || end > sb.TotalBlocks {
			return nil, ErrInvalidImage
		}
		for _, other := range seen {
			if raw.FileStartBlock < other.end && other.start < end {
				return nil, ErrInvalidImage
			}
		}
		seen = append(seen, struct{ start, end uint32 }{raw.FileStartBlock, end})
		entries = append(entries, entry{
			name:           raw.Name,
			fileStartBlock: raw.FileStartBlock,
			fileBlockCount: raw.FileBlockCount,
			fileSize:       raw.FileSize,
		})
	}

	return &SimpleFs{device: device, entries: entries}, nil
}

// Root always returns NodeId(0), the filesystem's single directory.
func (fs *SimpleFs) Root() vfs.NodeId {
	return vfs.Root
}

// Lookup resolves name against the root directory's entries. Non-root
// parents always fail with ErrNotDirectory, since SimpleFs is flat.
func (fs *SimpleFs) Lookup(parent vfs.NodeId, name string) (vfs.NodeId, error) {
	if parent != vfs.Root {
		return 0, vfs.ErrNotDirectory
	}
	for i, e := range fs.entries {
		if e.name == name {
			return vfs.NodeId(i + 1), nil
		}
	}
	return 0, vfs.ErrNotFound
}

// Metadata reports the root as a directory sized by entry count, and
// any live entry as a file sized by its exact byte count.
func (fs *SimpleFs) Metadata(node vfs.NodeId) (vfs.Metadata, error) {
	if node == vfs.Root {
		return vfs.Metadata{Kind: vfs.Directory, Size: uint64(len(fs.entries))}, nil
	}
	e, err := fs.entryFor(node)
	if err != nil {
		return vfs.Metadata{}, err
	}
	return vfs.Metadata{Kind: vfs.File, Size: uint64(e.fileSize)}, nil
}

// Read copies up to len(out) bytes of node's content starting at
// offset. Reading the root fails with ErrNotFile; reading at or past
// end of file returns 0 bytes with no error.
func (fs *SimpleFs) Read(node vfs.NodeId, offset uint64, out []byte) (int, error) {
	if node == vfs.Root {
		return 0, vfs.ErrNotFile
	}
	e, err := fs.entryFor(node)
	if err != nil {
		return 0, err
	}
	if offset >= uint64(e.fileSize) {
		return 0, nil
	}

	want := uint64(e.fileSize) - offset
	if uint64(len(out)) < want {
		want = uint64(len(out))
	}

	sectorSize := uint64(fs.device.SectorSize())
	sector := make([]byte, sectorSize)
	var n uint64
	for n < want {
		blockIndex := (offset + n) / sectorSize
		inBlockOffset := (offset + n) % sectorSize
		lba := uint64(e.fileStartBlock) + blockIndex
		if err := fs.device.ReadSector(lba, sector); err != nil {
			return int(n), err
		}
		chunk := sectorSize - inBlockOffset
		remaining := want - n
		if chunk > remaining {
			chunk = remaining
		}
		copy(out[n:n+chunk], sector[inBlockOffset:inBlockOffset+chunk])
		n += chunk
	}
	return int(n), nil
}

// List returns one vfs.DirEntry per live on-disk entry, tagged File, in
// on-disk order. Only the root directory can be listed.
func (fs *SimpleFs) List(dir vfs.NodeId) ([]vfs.DirEntry, error) {
	if dir != vfs.Root {
		return nil, vfs.ErrNotDirectory
	}
	out := make([]vfs.DirEntry, len(fs.entries))
	for i, e := range fs.entries {
		out[i] = vfs.DirEntry{Name: e.name, Kind: vfs.File}
	}
	return out, nil
}

func (fs *SimpleFs) entryFor(node vfs.NodeId) (entry, error) {
	if node == vfs.Root {
		return entry{}, vfs.ErrNotFound
	}
	idx := int(node) - 1
	if idx < 0 || idx >= len(fs.entries) {
		return entry{}, vfs.ErrNotFound
	}
	return fs.entries[idx], nil
}
