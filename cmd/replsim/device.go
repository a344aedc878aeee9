package main

import (
	"fmt"
	"os"

	"github.com/justeres/eres-os/block"
	"github.com/justeres/eres-os/fs/eresfs1"
)

// fileDevice is a block.Device reading sectors out of an ERESFS1 image
// loaded entirely into memory, the host-side stand-in for block/ata.Drive
// when there is no real disk under cmd/replsim.
type fileDevice struct {
	sectors [][eresfs1.BlockSize]byte
}

func loadImage(path string) (*fileDevice, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("replsim: reading %s: %w", path, err)
	}
	if len(data)%eresfs1.BlockSize != 0 {
		return nil, fmt.Errorf("replsim: %s is not a whole number of %d-byte blocks", path, eresfs1.BlockSize)
	}
	count := len(data) / eresfs1.BlockSize
	dev := &fileDevice{sectors: make([][eresfs1.BlockSize]byte, count)}
	for i := 0; i < count; i++ {
		copy(dev.sectors[i][:], data[i*eresfs1.BlockSize:(i+1)*eresfs1.BlockSize])
	}
	return dev, nil
}

func (d *fileDevice) SectorSize() int { return eresfs1.BlockSize }

func (d *fileDevice) ReadSector(lba uint64, out []byte) error {
	if len(out) != eresfs1.BlockSize {
		return block.ErrInvalidBufferSize
	}
	if lba >= uint64(len(d.sectors)) {
		return block.ErrDeviceFault
	}
	copy(out, d.sectors[lba][:])
	return nil
}
