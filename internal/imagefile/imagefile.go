// Package imagefile opens disk images that may be compressed.
package imagefile

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/spf13/afero"
	"github.com/ulikunitz/xz"
	"go.uber.org/zap"
)

// Compression is the container format of an image.
type Compression string

// Supported compressions.
const (
	None Compression = "none"
	Zstd Compression = "zstd"
	Gzip Compression = "gzip"
	XZ   Compression = "xz"
)

// MaxSize limits the decompressed size of an image.
// FAT12 addresses at most 4084 clusters of 64 KiB.
const MaxSize = 4084 * 64 * 1024

// ErrTooLarge is returned if a compressed image expands past MaxSize.
var ErrTooLarge = errors.New("decompressed image is too large")

var magics = []struct {
	compression Compression
	magic       []byte
}{
	{Zstd, []byte{0x28, 0xB5, 0x2F, 0xFD}},
	{Gzip, []byte{0x1F, 0x8B}},
	{XZ, []byte{0xFD, '7', 'z', 'X', 'Z', 0x00}},
}

// Detect returns the compression announced by header.
func Detect(header []byte) Compression {
	for _, m := range magics {
		if bytes.HasPrefix(header, m.magic) {
			return m.compression
		}
	}

	return None
}

// Image is an opened image. Compressed images are held in memory.
type Image struct {
	io.ReaderAt

	Compression Compression
	Size        int64

	closer io.Closer
}

// Close releases the underlying file.
func (img *Image) Close() error {
	if img.closer == nil {
		return nil
	}

	return img.closer.Close()
}

// Open opens path on fs and decompresses it if needed.
func Open(fs afero.Fs, path string, logger *zap.Logger) (*Image, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	f, err := fs.Open(path)
	if err != nil {
		return nil, err
	}

	header := make([]byte, 6)
	n, err := io.ReadFull(f, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		f.Close() //nolint:errcheck
		return nil, fmt.Errorf("read header of %s: %w", path, err)
	}

	compression := Detect(header[:n])
	if compression == None {
		stat, err := f.Stat()
		if err != nil {
			f.Close() //nolint:errcheck
			return nil, err
		}

		logger.Debug("opened image", zap.String("path", path), zap.Int64("size", stat.Size()))

		return &Image{
			ReaderAt:    f,
			Compression: None,
			Size:        stat.Size(),
			closer:      f,
		}, nil
	}

	defer f.Close() //nolint:errcheck

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	data, err := decompress(f, compression)
	if err != nil {
		return nil, fmt.Errorf("decompress %s image %s: %w", compression, path, err)
	}

	logger.Debug("decompressed image",
		zap.String("path", path),
		zap.String("compression", string(compression)),
		zap.Int("size", len(data)),
	)

	return &Image{
		ReaderAt:    bytes.NewReader(data),
		Compression: compression,
		Size:        int64(len(data)),
	}, nil
}

func decompress(r io.Reader, compression Compression) ([]byte, error) {
	var src io.Reader

	switch compression {
	case Zstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		defer zr.Close()

		src = zr

	case Gzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, err
		}
		defer zr.Close() //nolint:errcheck

		src = zr

	case XZ:
		zr, err := xz.NewReader(r)
		if err != nil {
			return nil, err
		}

		src = zr

	default:
		return nil, fmt.Errorf("unsupported compression %q", compression)
	}

	data, err := io.ReadAll(io.LimitReader(src, MaxSize+1))
	if err != nil {
		return nil, err
	}

	if len(data) > MaxSize {
		return nil, ErrTooLarge
	}

	return data, nil
}
