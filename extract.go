package fat12

import (
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/aligator/fat12/checkpoint"
)

// Options configure a Session.
type Options struct {
	// Logger to use for logging.
	Logger *zap.Logger
	// RawNames disables name normalization in Session.Extract: names have to
	// be given in their padded 11 byte form.
	RawNames bool
}

// Option is an option for Open.
type Option func(*Options)

// WithLogger sets the logger of the session.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithRawNames makes Session.Extract compare names verbatim instead of
// normalizing them first.
func WithRawNames(raw bool) Option {
	return func(o *Options) {
		o.RawNames = raw
	}
}

func applyOptions(opts ...Option) Options {
	o := Options{
		Logger: zap.NewNop(),
	}

	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// Session holds everything read from one image. It is not modified after
// Open, so any number of extractions yield the same result.
type Session struct {
	reader SectorReader
	boot   BootSector
	layout Layout
	fat    *FatTable
	root   *RootDirectory

	rawNames bool
	logger   *zap.Logger
}

// Open reads the metadata of the FAT12 volume in image.
func Open(image io.ReaderAt, opts ...Option) (*Session, error) {
	o := applyOptions(opts...)
	logger := o.Logger

	boot, err := ReadBootSector(image)
	if err != nil {
		return nil, checkpoint.Wrap(err, ErrReadBootSector)
	}

	layout, err := NewLayout(boot)
	if err != nil {
		return nil, checkpoint.Wrap(err, ErrReadBootSector)
	}

	logger.Debug("decoded boot sector",
		zap.Uint16("bytes_per_sector", boot.BytesPerSector),
		zap.Uint8("sectors_per_cluster", boot.SectorsPerCluster),
		zap.Uint32("fat_start", layout.FATStart),
		zap.Uint32("root_dir_start", layout.RootDirStart),
		zap.Uint32("data_start", layout.DataStart),
	)

	reader := NewSectorReader(image, boot.BytesPerSector)

	fat, err := LoadFatTable(reader, layout)
	if err != nil {
		return nil, err
	}

	logger.Debug("loaded FAT", zap.Int("entries", fat.Len()))

	root, err := LoadRootDirectory(reader, layout)
	if err != nil {
		return nil, err
	}

	logger.Debug("loaded root directory", zap.Int("slots", root.Slots()), zap.Int("entries", len(root.Entries())))

	return &Session{
		reader:   reader,
		boot:     boot,
		layout:   layout,
		fat:      fat,
		root:     root,
		rawNames: o.RawNames,
		logger:   logger,
	}, nil
}

// Extract reads a whole file from image in one go.
func Extract(image io.ReaderAt, filename string, opts ...Option) ([]byte, error) {
	s, err := Open(image, opts...)
	if err != nil {
		return nil, err
	}

	return s.Extract(filename)
}

func (s *Session) BootSector() BootSector {
	return s.boot
}

func (s *Session) Layout() Layout {
	return s.layout
}

func (s *Session) FAT() *FatTable {
	return s.fat
}

func (s *Session) RootDirectory() *RootDirectory {
	return s.root
}

// ShortName converts filename to the form it is looked up with.
func (s *Session) ShortName(filename string) (ShortName, error) {
	if s.rawNames {
		return RawName(filename)
	}
	return NormalizeName(filename), nil
}

// Lookup resolves filename to its directory entry.
func (s *Session) Lookup(filename string) (DirectoryEntry, error) {
	name, err := s.ShortName(filename)
	if err != nil {
		return DirectoryEntry{}, err
	}

	entry, ok := s.root.FindByName(name)
	if !ok {
		return DirectoryEntry{}, checkpoint.From(fmt.Errorf("%w: %q (searched for %q)", ErrFileNotFound, filename, string(name[:])))
	}

	return entry, nil
}

// Extract returns the contents of filename.
// If the cluster chain is shorter than the file, the available bytes are
// returned along with an error matching ErrTruncatedFile.
func (s *Session) Extract(filename string) ([]byte, error) {
	entry, err := s.Lookup(filename)
	if err != nil {
		return nil, err
	}

	return s.ExtractEntry(entry)
}

// ExtractEntry returns the contents of a regular file entry.
func (s *Session) ExtractEntry(entry DirectoryEntry) ([]byte, error) {
	if !entry.IsRegular() {
		return nil, checkpoint.From(fmt.Errorf("%w: %s has attributes %#02x", ErrNotARegularFile, entry.Name, entry.Attribute))
	}

	s.logger.Debug("reading cluster chain",
		zap.Stringer("name", entry.Name),
		zap.Uint16("first_cluster", entry.FirstClusterLow),
		zap.Uint32("size", entry.FileSize),
	)

	data, err := ReadChain(s.reader, s.fat, s.layout, entry.FirstClusterLow, entry.FileSize)
	if errors.Is(err, ErrTruncatedFile) {
		s.logger.Warn("cluster chain is shorter than the file",
			zap.Stringer("name", entry.Name),
			zap.Int("read", len(data)),
			zap.Uint32("size", entry.FileSize),
		)
	}

	return data, err
}
