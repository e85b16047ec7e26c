// File model contains the structs which match the on-disk structures of a FAT12 filesystem.
// They are decoded field by field, see DecodeBootSector and DecodeDirectoryEntry.

package fat12

// BootSectorSize is the size of the fixed boot sector header up to and including
// the filesystem type string of the extended BPB.
const BootSectorSize = 62

// DirectoryEntrySize is the size of a single root directory slot.
const DirectoryEntrySize = 32

// Attribute bits of a directory entry.
const (
	AttrReadOnly    = 0x01
	AttrHidden      = 0x02
	AttrSystem      = 0x04
	AttrVolumeLabel = 0x08
	AttrDirectory   = 0x10
	AttrArchive     = 0x20
)

// Markers found in the first name byte of a directory entry.
const (
	entryUnused  = 0x00
	entryKanji   = 0x05
	entryDeleted = 0xE5
)

// BootSector is the decoded BIOS parameter block of a FAT12 volume.
type BootSector struct {
	JumpBoot          [3]byte
	OEMName           [8]byte
	BytesPerSector    uint16
	SectorsPerCluster uint8
	ReservedSectors   uint16
	FATCount          uint8
	RootEntryCount    uint16
	TotalSectors16    uint16
	Media             uint8
	SectorsPerFAT     uint16
	SectorsPerTrack   uint16
	Heads             uint16
	HiddenSectors     uint32
	TotalSectors32    uint32

	// Extended boot record. Only meaningful if BootSignature is 0x28 or 0x29.
	DriveNumber    uint8
	Reserved1      uint8
	BootSignature  uint8
	VolumeID       uint32
	VolumeLabel    [11]byte
	FileSystemType [8]byte
}

// DirectoryEntry is a single 32 byte slot of the root directory.
type DirectoryEntry struct {
	Name             ShortName
	Attribute        uint8
	NTReserved       uint8
	CreateTimeTenth  uint8
	CreateTime       uint16
	CreateDate       uint16
	LastAccessDate   uint16
	FirstClusterHigh uint16
	WriteTime        uint16
	WriteDate        uint16
	FirstClusterLow  uint16
	FileSize         uint32
}
