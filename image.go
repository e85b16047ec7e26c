package fat12

import (
	"fmt"
	"io"

	"github.com/aligator/fat12/checkpoint"
)

// SectorReader reads whole logical sectors from an image.
// Generated mock using mockgen:
//  mockgen -source=image.go -destination=image_mock.go -package fat12
type SectorReader interface {
	// ReadSectors returns count sectors starting at the logical block address lba.
	ReadSectors(lba uint32, count uint32) ([]byte, error)
	// SectorSize is the size of a single sector in bytes.
	SectorSize() uint32
}

// NewSectorReader reads sectors of bytesPerSector bytes from r.
func NewSectorReader(r io.ReaderAt, bytesPerSector uint16) SectorReader {
	return &sectorReader{
		r:          r,
		sectorSize: uint32(bytesPerSector),
	}
}

type sectorReader struct {
	r          io.ReaderAt
	sectorSize uint32
}

func (s *sectorReader) SectorSize() uint32 {
	return s.sectorSize
}

func (s *sectorReader) ReadSectors(lba uint32, count uint32) ([]byte, error) {
	buf := make([]byte, uint64(count)*uint64(s.sectorSize))
	offset := int64(lba) * int64(s.sectorSize)

	if err := ReadFullAt(s.r, buf, offset); err != nil {
		return nil, checkpoint.Wrap(err, fmt.Errorf("%w: %d sectors at lba %d", ErrIORead, count, lba))
	}

	return buf, nil
}

// ReadFullAt is io.ReadFull for io.ReaderAt.
// It returns io.ErrUnexpectedEOF if the source ends before buf is filled.
func ReadFullAt(r io.ReaderAt, buf []byte, offset int64) error {
	for n := 0; n < len(buf); {
		m, err := r.ReadAt(buf[n:], offset)

		n += m
		offset += int64(m)

		if err != nil {
			if err == io.EOF && n == len(buf) {
				return nil
			}

			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}

			return err
		}
	}

	return nil
}
