package fat12

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aligator/fat12/checkpoint"
)

// ReadBootSector reads and decodes the boot sector at the start of the image.
// The sector size is not known before decoding, so only the fixed header is read.
func ReadBootSector(r io.ReaderAt) (BootSector, error) {
	buf := make([]byte, BootSectorSize)

	err := ReadFullAt(r, buf, 0)
	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		return BootSector{}, checkpoint.Wrap(err, ErrMalformedBootSector)
	}
	if err != nil {
		return BootSector{}, checkpoint.Wrap(err, ErrIORead)
	}

	return DecodeBootSector(buf)
}

// DecodeBootSector decodes the fixed boot sector header from b.
// Field values are taken verbatim, use Validate to check the geometry.
func DecodeBootSector(b []byte) (BootSector, error) {
	if len(b) < BootSectorSize {
		return BootSector{}, checkpoint.From(fmt.Errorf("%w: got %d bytes, need %d", ErrMalformedBootSector, len(b), BootSectorSize))
	}

	le := binary.LittleEndian
	bs := BootSector{
		BytesPerSector:    le.Uint16(b[11:13]),
		SectorsPerCluster: b[13],
		ReservedSectors:   le.Uint16(b[14:16]),
		FATCount:          b[16],
		RootEntryCount:    le.Uint16(b[17:19]),
		TotalSectors16:    le.Uint16(b[19:21]),
		Media:             b[21],
		SectorsPerFAT:     le.Uint16(b[22:24]),
		SectorsPerTrack:   le.Uint16(b[24:26]),
		Heads:             le.Uint16(b[26:28]),
		HiddenSectors:     le.Uint32(b[28:32]),
		TotalSectors32:    le.Uint32(b[32:36]),
		DriveNumber:       b[36],
		Reserved1:         b[37],
		BootSignature:     b[38],
		VolumeID:          le.Uint32(b[39:43]),
	}
	copy(bs.JumpBoot[:], b[0:3])
	copy(bs.OEMName[:], b[3:11])
	copy(bs.VolumeLabel[:], b[43:54])
	copy(bs.FileSystemType[:], b[54:62])

	return bs, nil
}

// TotalSectors returns the 16 bit sector count or, if that is zero, the 32 bit one.
func (bs BootSector) TotalSectors() uint32 {
	if bs.TotalSectors16 != 0 {
		return uint32(bs.TotalSectors16)
	}
	return bs.TotalSectors32
}

// HasExtendedRecord reports whether the volume id, label and type fields are valid.
func (bs BootSector) HasExtendedRecord() bool {
	return bs.BootSignature == 0x28 || bs.BootSignature == 0x29
}

// Label returns the trimmed volume label of the extended boot record.
// Only signature 0x29 records carry a label.
func (bs BootSector) Label() string {
	if bs.BootSignature != 0x29 {
		return ""
	}
	return strings.TrimRight(string(bs.VolumeLabel[:]), " \x00")
}

// ClusterSize returns the size of one cluster in bytes.
func (bs BootSector) ClusterSize() uint32 {
	return uint32(bs.SectorsPerCluster) * uint32(bs.BytesPerSector)
}

// Validate checks the geometry fields the layout calculation depends on.
func (bs BootSector) Validate() error {
	// The sector size has to be a power of two and greater than 0.
	if !isPowerOf2(bs.BytesPerSector) {
		return checkpoint.From(fmt.Errorf("%w: %d bytes per sector", ErrInvalidGeometry, bs.BytesPerSector))
	}

	if bs.SectorsPerCluster == 0 {
		return checkpoint.From(fmt.Errorf("%w: zero sectors per cluster", ErrInvalidGeometry))
	}

	if bs.FATCount == 0 {
		return checkpoint.From(fmt.Errorf("%w: no FAT copies", ErrInvalidGeometry))
	}

	if bs.SectorsPerFAT == 0 {
		return checkpoint.From(fmt.Errorf("%w: zero sectors per FAT", ErrInvalidGeometry))
	}

	// A FAT12 table never needs more than 4096 entries of 12 bits.
	if limit := MaxSectorsPerFAT(bs.BytesPerSector); uint32(bs.SectorsPerFAT) > limit {
		return checkpoint.From(fmt.Errorf("%w: %d sectors per FAT, FAT12 needs at most %d", ErrInvalidGeometry, bs.SectorsPerFAT, limit))
	}

	return nil
}

// maxFATBytes is the size of a table holding every 12 bit cluster number.
const maxFATBytes = 4096 * 3 / 2

// MaxSectorsPerFAT returns how many sectors of the given size a FAT12 table
// can fill at most.
func MaxSectorsPerFAT(bytesPerSector uint16) uint32 {
	if bytesPerSector == 0 {
		return 0
	}

	return (maxFATBytes + uint32(bytesPerSector) - 1) / uint32(bytesPerSector)
}

func isPowerOf2[T uint8 | uint16 | uint32](num T) bool {
	return num != 0 && num&(num-1) == 0
}
