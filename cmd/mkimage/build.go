package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"unicode/utf8"

	"github.com/justeres/eres-os/fs/eresfs1"
)

var (
	errNoFiles        = errors.New("mkimage: no input files")
	errDuplicateName  = errors.New("mkimage: duplicate file name")
	errTooManyEntries = errors.New("mkimage: too many directory entries")
	errFileTooLarge   = errors.New("mkimage: file too large")
)

type inputFile struct {
	name string
	data []byte
}

// collectInputs gathers every --file entry plus every regular file found
// directly under inputDir (non-recursive, matching the builder's "flat
// directory region" on-disk model), sorted by base name. Inputs are not
// deduplicated: a base name that occurs twice, even the same path given
// twice, fails with errDuplicateName.
func collectInputs(explicit []string, inputDir string) ([]inputFile, error) {
	var files []inputFile
	seen := map[string]bool{}

	for _, path := range explicit {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("mkimage: reading %s: %w", path, err)
		}
		name := filepath.Base(path)
		if seen[name] {
			return nil, fmt.Errorf("%w: %s", errDuplicateName, name)
		}
		seen[name] = true
		files = append(files, inputFile{name: name, data: data})
	}

	if inputDir != "" {
		entries, err := os.ReadDir(inputDir)
		if err != nil {
			return nil, fmt.Errorf("mkimage: reading %s: %w", inputDir, err)
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			info, err := e.Info()
			if err != nil || info.Mode()&fs.ModeType != 0 {
				continue
			}
			if seen[e.Name()] {
				return nil, fmt.Errorf("%w: %s", errDuplicateName, e.Name())
			}
			data, err := os.ReadFile(filepath.Join(inputDir, e.Name()))
			if err != nil {
				return nil, fmt.Errorf("mkimage: reading %s: %w", e.Name(), err)
			}
			seen[e.Name()] = true
			files = append(files, inputFile{name: e.Name(), data: data})
		}
	}

	if len(files) == 0 {
		return nil, errNoFiles
	}
	sort.Slice(files, func(i, j int) bool { return files[i].name < files[j].name })
	return files, nil
}

// buildImage packs files into a complete ERESFS1 image: superblock,
// directory region, then file data in directory order. Rejects any
// layout fs/simplefs.Mount would itself reject, per the builder-side half
// of the mount-time validation split between the two.
func buildImage(files []inputFile) ([]byte, error) {
	dirEntriesPerBlock := eresfs1.BlockSize / eresfs1.DirEntrySize
	dirBlockCount := (len(files) + dirEntriesPerBlock - 1) / dirEntriesPerBlock
	if dirBlockCount == 0 {
		dirBlockCount = 1
	}

	dataStartBlock := uint32(1 + dirBlockCount)
	nextBlock := dataStartBlock

	entries := make([]eresfs1.DirEntry, 0, len(files))
	var fileData [][]byte

	for _, f := range files {
		if len(f.name) > eresfs1.MaxNameLen {
			return nil, fmt.Errorf("mkimage: name %q exceeds %d bytes", f.name, eresfs1.MaxNameLen)
		}
		if !utf8.ValidString(f.name) {
			return nil, fmt.Errorf("mkimage: name %q is not valid UTF-8", f.name)
		}
		if uint64(len(f.data)) > 0xFFFF_FFFF {
			return nil, fmt.Errorf("%w: %s", errFileTooLarge, f.name)
		}
		blockCount := (len(f.data) + eresfs1.BlockSize - 1) / eresfs1.BlockSize
		if blockCount == 0 {
			blockCount = 1 // still occupies one block, zero-padded
		}
		entries = append(entries, eresfs1.DirEntry{
			Name:           f.name,
			FileStartBlock: nextBlock,
			FileBlockCount: uint32(blockCount),
			FileSize:       uint32(len(f.data)),
		})
		padded := make([]byte, blockCount*eresfs1.BlockSize)
		copy(padded, f.data)
		fileData = append(fileData, padded)
		nextBlock += uint32(blockCount)
	}

	if len(entries) > dirBlockCount*dirEntriesPerBlock {
		return nil, errTooManyEntries
	}

	totalBlocks := nextBlock

	sb := eresfs1.Superblock{
		Version:        1,
		BlockSize:      eresfs1.BlockSize,
		TotalBlocks:    totalBlocks,
		DirEntryCount:  uint32(dirBlockCount * dirEntriesPerBlock),
		DirStartBlock:  1,
		DirBlockCount:  uint32(dirBlockCount),
		DataStartBlock: dataStartBlock,
	}

	image := make([]byte, totalBlocks*eresfs1.BlockSize)
	copy(image[0:eresfs1.SuperblockSize], eresfs1.EncodeSuperblock(sb))

	dirRegion := image[eresfs1.BlockSize : eresfs1.BlockSize*uint32(1+dirBlockCount)]
	for i, e := range entries {
		encoded, err := eresfs1.EncodeDirEntry(e)
		if err != nil {
			return nil, err
		}
		copy(dirRegion[i*eresfs1.DirEntrySize:], encoded)
	}

	offset := dataStartBlock * eresfs1.BlockSize
	for _, data := range fileData {
		copy(image[offset:], data)
		offset += uint32(len(data))
	}

	return image, nil
}
