// Package vfs provides the path-resolution layer shared by every
// filesystem this kernel can mount: splitting and walking absolute
// paths against a Filesystem's lookup/metadata capability.
package vfs

import (
	"errors"
	"strings"
)

// NodeId is an opaque handle into a mounted filesystem. NodeId(0) is
// always that filesystem's root directory.
type NodeId uint64

// Root is the well-known root node id every Filesystem implementation
// must answer to.
const Root NodeId = 0

// ErrInvalidPath is returned for paths that don't start with "/" or
// that contain "." or ".." segments.
var ErrInvalidPath = errors.New("vfs: invalid path")

// NodeKind distinguishes files from directories in Metadata.
type NodeKind int

const (
	File NodeKind = iota
	Directory
)

// Metadata describes one resolved node.
type Metadata struct {
	Kind NodeKind
	Size uint64
}

// DirEntry is one entry returned by Filesystem.List.
type DirEntry struct {
	Name string
	Kind NodeKind
}

// Errors a Filesystem implementation reports through lookup/metadata/
// read/list.
var (
	ErrNotFound     = errors.New("vfs: not found")
	ErrNotDirectory = errors.New("vfs: not a directory")
	ErrNotFile      = errors.New("vfs: not a file")
)

// Filesystem is the capability ResolvePath and the shell's
// ls/cat/stat commands are built against.
type Filesystem interface {
	Root() NodeId
	Lookup(parent NodeId, name string) (NodeId, error)
	Metadata(node NodeId) (Metadata, error)
	Read(node NodeId, offset uint64, out []byte) (int, error)
	List(dir NodeId) ([]DirEntry, error)
}

// SplitPath validates p and splits it into non-empty segments. p must
// begin with "/"; "." and ".." segments are rejected.
func SplitPath(p string) ([]string, error) {
	if !strings.HasPrefix(p, "/") {
		return nil, ErrInvalidPath
	}
	var segments []string
	for _, seg := range strings.Split(p, "/") {
		if seg == "" {
			continue
		}
		if seg == "." || seg == ".." {
			return nil, ErrInvalidPath
		}
		segments = append(segments, seg)
	}
	return segments, nil
}

// ResolvePath walks fs from its root through each segment of p, calling
// Lookup at each step and requiring every intermediate node to be a
// directory. "/" alone resolves to fs.Root().
func ResolvePath(fs Filesystem, p string) (NodeId, error) {
	segments, err := SplitPath(p)
	if err != nil {
		return 0, err
	}

	node := fs.Root()
	for _, seg := range segments {
		meta, err := fs.Metadata(node)
		if err != nil {
			return 0, err
		}
		if meta.Kind != Directory {
			return 0, ErrNotDirectory
		}
		node, err = fs.Lookup(node, seg)
		if err != nil {
			return 0, err
		}
	}
	return node, nil
}
