package simplefs

import (
	"testing"

	"github.com/justeres/eres-os/block"
	"github.com/justeres/eres-os/fs/eresfs1"
	"github.com/justeres/eres-os/vfs"
)

// memDevice is a block.Device backed by an in-memory slice of sectors,
// the same shape cmd/mkimage writes to disk.
type memDevice struct {
	sectors [][eresfs1.BlockSize]byte
}

func newMemDevice(totalBlocks int) *memDevice {
	return &memDevice{sectors: make([][eresfs1.BlockSize]byte, totalBlocks)}
}

func (d *memDevice) SectorSize() int { return eresfs1.BlockSize }

func (d *memDevice) ReadSector(lba uint64, out []byte) error {
	if len(out) != eresfs1.BlockSize {
		return block.ErrInvalidBufferSize
	}
	if lba >= uint64(len(d.sectors)) {
		return block.ErrDeviceFault
	}
	copy(out, d.sectors[lba][:])
	return nil
}

// buildImage assembles a minimal valid one-file ERESFS1 image: block 0
// superblock, one directory block holding a single live entry, and one
// data block holding the file's content.
func buildImage(t *testing.T, name, content string) *memDevice {
	t.Helper()
	dirBlockCount := uint32(1)
	dataStart := 1 + dirBlockCount
	totalBlocks := dataStart + 1

	dev := newMemDevice(int(totalBlocks))

	sb := eresfs1.Superblock{
		Version:        1,
		BlockSize:      eresfs1.BlockSize,
		TotalBlocks:    totalBlocks,
		DirEntryCount:  eresfs1.BlockSize / eresfs1.DirEntrySize,
		DirStartBlock:  1,
		DirBlockCount:  dirBlockCount,
		DataStartBlock: dataStart,
	}
	copy(dev.sectors[0][:], eresfs1.EncodeSuperblock(sb))

	entryBuf, err := eresfs1.EncodeDirEntry(eresfs1.DirEntry{
		Name:           name,
		FileStartBlock: dataStart,
		FileBlockCount: 1,
		FileSize:       uint32(len(content)),
	})
	if err != nil {
		t.Fatalf("EncodeDirEntry: %v", err)
	}
	copy(dev.sectors[1][:], entryBuf)

	copy(dev.sectors[dataStart][:], content)
	return dev
}

func TestMountAndReadFile(t *testing.T) {
	dev := buildImage(t, "hello.txt", "hello world\n")
	fs, err := Mount(dev)
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}

	node, err := vfs.ResolvePath(fs, "/hello.txt")
	if err != nil {
		t.Fatalf("ResolvePath: %v", err)
	}
	meta, err := fs.Metadata(node)
	if err != nil {
		t.Fatalf("Metadata: %v", err)
	}
	if meta.Kind != vfs.File || meta.Size != uint64(len("hello world\n")) {
		t.Fatalf("meta = %+v", meta)
	}

	out := make([]byte, 64)
	n, err := fs.Read(node, 0, out)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(out[:n]) != "hello world\n" {
		t.Fatalf("content = %q", out[:n])
	}
}

func TestListRoot(t *testing.T) {
	dev := buildImage(t, "a.txt", "x")
	fs, err := Mount(dev)
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	entries, err := fs.List(fs.Root())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 || entries[0].Name != "a.txt" || entries[0].Kind != vfs.File {
		t.Fatalf("entries = %+v", entries)
	}
}

func TestRootMetadataIsDirectory(t *testing.T) {
	dev := buildImage(t, "a.txt", "x")
	fs, err := Mount(dev)
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	meta, err := fs.Metadata(fs.Root())
	if err != nil {
		t.Fatalf("Metadata: %v", err)
	}
	if meta.Kind != vfs.Directory || meta.Size != 1 {
		t.Fatalf("root meta = %+v", meta)
	}
}

func TestReadPastEndOfFileReturnsZero(t *testing.T) {
	dev := buildImage(t, "a.txt", "hi")
	fs, err := Mount(dev)
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	node, _ := vfs.ResolvePath(fs, "/a.txt")
	n, err := fs.Read(node, 100, make([]byte, 8))
	if err != nil || n != 0 {
		t.Fatalf("Read past EOF = %d, %v, want 0, nil", n, err)
	}
}

func TestReadRootFails(t *testing.T) {
	dev := buildImage(t, "a.txt", "x")
	fs, err := Mount(dev)
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	if _, err := fs.Read(fs.Root(), 0, make([]byte, 4)); err != vfs.ErrNotFile {
		t.Fatalf("err = %v, want ErrNotFile", err)
	}
}

func TestMountRejectsBadMagic(t *testing.T) {
	dev := newMemDevice(3)
	dev.sectors[0][0] = 'X'
	if _, err := Mount(dev); err != ErrInvalidImage {
		t.Fatalf("err = %v, want ErrInvalidImage", err)
	}
}

func TestMountRejectsOverlappingFileRegions(t *testing.T) {
	dirBlockCount := uint32(1)
	dataStart := 1 + dirBlockCount
	totalBlocks := dataStart + 2
	dev := newMemDevice(int(totalBlocks))

	sb := eresfs1.Superblock{
		Version:        1,
		BlockSize:      eresfs1.BlockSize,
		TotalBlocks:    totalBlocks,
		DirEntryCount:  2,
		DirStartBlock:  1,
		DirBlockCount:  dirBlockCount,
		DataStartBlock: dataStart,
	}
	copy(dev.sectors[0][:], eresfs1.EncodeSuperblock(sb))

	e1, _ := eresfs1.EncodeDirEntry(eresfs1.DirEntry{Name: "a", FileStartBlock: dataStart, FileBlockCount: 2, FileSize: 10})
	e2, _ := eresfs1.EncodeDirEntry(eresfs1.DirEntry{Name: "b", FileStartBlock: dataStart, FileBlockCount: 1, FileSize: 5})
	copy(dev.sectors[1][0:64], e1)
	copy(dev.sectors[1][64:128], e2)

	if _, err := Mount(dev); err != ErrInvalidImage {
		t.Fatalf("err = %v, want ErrInvalidImage", err)
	}
}

func TestLookupNonRootParentFails(t *testing.T) {
	dev := buildImage(t, "a.txt", "x")
	fs, err := Mount(dev)
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	node, _ := vfs.ResolvePath(fs, "/a.txt")
	if _, err := fs.Lookup(node, "anything"); err != vfs.ErrNotDirectory {
		t.Fatalf("err = %v, want ErrNotDirectory", err)
	}
}
