package main

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/justeres/eres-os/fs/eresfs1"
	"github.com/justeres/eres-os/fs/simplefs"
)

// memDevice is an in-memory block.Device backing the round-trip test
// below, the same role cmd/replsim's fileDevice plays against a real
// file.
type memDevice struct {
	sectors [][eresfs1.BlockSize]byte
}

func newMemDevice(image []byte) *memDevice {
	count := len(image) / eresfs1.BlockSize
	d := &memDevice{sectors: make([][eresfs1.BlockSize]byte, count)}
	for i := 0; i < count; i++ {
		copy(d.sectors[i][:], image[i*eresfs1.BlockSize:(i+1)*eresfs1.BlockSize])
	}
	return d
}

func (d *memDevice) SectorSize() int { return eresfs1.BlockSize }

func (d *memDevice) ReadSector(lba uint64, out []byte) error {
	copy(out, d.sectors[lba][:])
	return nil
}

func TestCollectInputsExplicitFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	files, err := collectInputs([]string{path}, "")
	if err != nil {
		t.Fatalf("collectInputs: %v", err)
	}
	if len(files) != 1 || files[0].name != "a.txt" || string(files[0].data) != "hello" {
		t.Fatalf("unexpected files: %+v", files)
	}
}

func TestCollectInputsInputDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "b.txt"), []byte("b"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}

	files, err := collectInputs(nil, dir)
	if err != nil {
		t.Fatalf("collectInputs: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %d", len(files))
	}
	if !sort.SliceIsSorted(files, func(i, j int) bool { return files[i].name < files[j].name }) {
		t.Fatalf("files not sorted by name: %+v", files)
	}
}

func TestCollectInputsDuplicateName(t *testing.T) {
	dir := t.TempDir()
	path1 := filepath.Join(dir, "a.txt")
	if err := os.WriteFile(path1, []byte("one"), 0o644); err != nil {
		t.Fatal(err)
	}
	sub := filepath.Join(dir, "sub")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	path2 := filepath.Join(sub, "a.txt")
	if err := os.WriteFile(path2, []byte("two"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := collectInputs([]string{path1, path2}, "")
	if err == nil {
		t.Fatal("expected duplicate name error")
	}
}

func TestCollectInputsNoFiles(t *testing.T) {
	_, err := collectInputs(nil, "")
	if err != errNoFiles {
		t.Fatalf("expected errNoFiles, got %v", err)
	}
}

func TestBuildImageNameTooLong(t *testing.T) {
	longName := make([]byte, eresfs1.MaxNameLen+1)
	for i := range longName {
		longName[i] = 'x'
	}
	_, err := buildImage([]inputFile{{name: string(longName), data: []byte("x")}})
	if err == nil {
		t.Fatal("expected name-too-long error")
	}
}

func TestBuildImageDirBlockSizing(t *testing.T) {
	dirEntriesPerBlock := eresfs1.BlockSize / eresfs1.DirEntrySize
	files := make([]inputFile, dirEntriesPerBlock+1)
	for i := range files {
		files[i] = inputFile{name: string(rune('a' + i)), data: []byte{byte(i)}}
	}

	image, err := buildImage(files)
	if err != nil {
		t.Fatalf("buildImage: %v", err)
	}

	sb, err := eresfs1.DecodeSuperblock(image[0:eresfs1.SuperblockSize])
	if err != nil {
		t.Fatalf("DecodeSuperblock: %v", err)
	}
	if sb.DirBlockCount != 2 {
		t.Fatalf("expected 2 directory blocks for %d entries, got %d", len(files), sb.DirBlockCount)
	}
	if sb.DataStartBlock != 3 {
		t.Fatalf("expected data to start at block 3, got %d", sb.DataStartBlock)
	}
}

// TestBuildImageRoundTrip builds an image from a handful of files and
// mounts it through the real fs/simplefs stack over an in-memory
// block.Device, checking the file set and byte contents come back
// exactly as given to the builder.
func TestBuildImageRoundTrip(t *testing.T) {
	want := map[string]string{
		"boot.cfg": "heap_bytes 1048576\n",
		"motd.txt": "welcome to eres os\n",
		"empty":    "",
	}

	files := make([]inputFile, 0, len(want))
	for name, content := range want {
		files = append(files, inputFile{name: name, data: []byte(content)})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].name < files[j].name })

	image, err := buildImage(files)
	if err != nil {
		t.Fatalf("buildImage: %v", err)
	}

	fsys, err := simplefs.Mount(newMemDevice(image))
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}

	entries, err := fsys.List(fsys.Root())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(entries))
	}

	for name, content := range want {
		node, err := fsys.Lookup(fsys.Root(), name)
		if err != nil {
			t.Fatalf("Lookup(%q): %v", name, err)
		}
		meta, err := fsys.Metadata(node)
		if err != nil {
			t.Fatalf("Metadata(%q): %v", name, err)
		}
		if meta.Size != uint64(len(content)) {
			t.Fatalf("%q: expected size %d, got %d", name, len(content), meta.Size)
		}
		buf := make([]byte, len(content))
		n, err := fsys.Read(node, 0, buf)
		if err != nil {
			t.Fatalf("Read(%q): %v", name, err)
		}
		if n != len(content) || string(buf) != content {
			t.Fatalf("%q: expected content %q, got %q", name, content, string(buf[:n]))
		}
	}
}
