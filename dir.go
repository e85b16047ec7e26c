package fat12

import (
	"encoding/binary"
	"fmt"

	"github.com/siderolabs/gen/xslices"

	"github.com/aligator/fat12/checkpoint"
)

// DecodeDirectoryEntry decodes a single directory slot from b.
func DecodeDirectoryEntry(b []byte) (DirectoryEntry, error) {
	if len(b) < DirectoryEntrySize {
		return DirectoryEntry{}, checkpoint.From(fmt.Errorf("%w: directory entry has %d bytes", ErrIORead, len(b)))
	}

	le := binary.LittleEndian
	e := DirectoryEntry{
		Attribute:        b[11],
		NTReserved:       b[12],
		CreateTimeTenth:  b[13],
		CreateTime:       le.Uint16(b[14:16]),
		CreateDate:       le.Uint16(b[16:18]),
		LastAccessDate:   le.Uint16(b[18:20]),
		FirstClusterHigh: le.Uint16(b[20:22]),
		WriteTime:        le.Uint16(b[22:24]),
		WriteDate:        le.Uint16(b[24:26]),
		FirstClusterLow:  le.Uint16(b[26:28]),
		FileSize:         le.Uint32(b[28:32]),
	}
	copy(e.Name[:], b[0:11])

	return e, nil
}

// IsUnused reports a slot that was never used. In a well formed directory all
// following slots are unused, too.
func (e DirectoryEntry) IsUnused() bool {
	return e.Name[0] == entryUnused
}

func (e DirectoryEntry) IsDeleted() bool {
	return e.Name[0] == entryDeleted
}

// InUse reports whether the slot holds a live entry.
func (e DirectoryEntry) InUse() bool {
	return !e.IsUnused() && !e.IsDeleted()
}

func (e DirectoryEntry) IsDirectory() bool {
	return e.Attribute&AttrDirectory != 0
}

func (e DirectoryEntry) IsVolumeLabel() bool {
	return e.Attribute&AttrVolumeLabel != 0
}

// IsRegular reports a live entry that is neither a directory nor a volume label.
func (e DirectoryEntry) IsRegular() bool {
	return e.InUse() && !e.IsDirectory() && !e.IsVolumeLabel()
}

// RootDirectory holds all slots of the fixed root directory region.
type RootDirectory struct {
	entries []DirectoryEntry
}

// NewRootDirectory decodes entryCount slots from raw.
func NewRootDirectory(raw []byte, entryCount int) (*RootDirectory, error) {
	if len(raw) < entryCount*DirectoryEntrySize {
		return nil, checkpoint.From(fmt.Errorf("%w: %d bytes hold less than %d entries", ErrIORead, len(raw), entryCount))
	}

	entries := make([]DirectoryEntry, entryCount)
	for i := range entries {
		e, err := DecodeDirectoryEntry(raw[i*DirectoryEntrySize:])
		if err != nil {
			return nil, err
		}
		entries[i] = e
	}

	return &RootDirectory{entries: entries}, nil
}

// LoadRootDirectory reads the root directory region of the volume.
func LoadRootDirectory(r SectorReader, layout Layout) (*RootDirectory, error) {
	raw, err := r.ReadSectors(layout.RootDirStart, layout.RootDirSectors)
	if err != nil {
		return nil, checkpoint.Wrap(err, ErrLoadRootDirectory)
	}

	dir, err := NewRootDirectory(raw, int(layout.RootEntryCount))
	if err != nil {
		return nil, checkpoint.Wrap(err, ErrLoadRootDirectory)
	}

	return dir, nil
}

// Slots returns the number of slots, used or not.
func (d *RootDirectory) Slots() int {
	return len(d.entries)
}

// Entries returns all live entries including directories and volume labels.
// Scanning continues past unused slots.
func (d *RootDirectory) Entries() []DirectoryEntry {
	return xslices.Filter(d.entries, DirectoryEntry.InUse)
}

// Files returns the regular files of the directory.
func (d *RootDirectory) Files() []DirectoryEntry {
	return xslices.Filter(d.entries, DirectoryEntry.IsRegular)
}

// FindByName returns the first live entry with exactly the given short name.
func (d *RootDirectory) FindByName(name ShortName) (DirectoryEntry, bool) {
	for _, e := range d.entries {
		if !e.InUse() {
			continue
		}

		if e.Name == name {
			return e, true
		}
	}

	return DirectoryEntry{}, false
}
