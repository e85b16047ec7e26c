package fat12

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rawEntry encodes a directory slot the way it is stored on disk.
func rawEntry(name string, attr uint8, cluster uint16, size uint32) []byte {
	b := make([]byte, DirectoryEntrySize)
	copy(b[0:11], name)
	b[11] = attr
	binary.LittleEndian.PutUint16(b[26:28], cluster)
	binary.LittleEndian.PutUint32(b[28:32], size)
	return b
}

func rawDirectory(entries ...[]byte) []byte {
	var raw []byte
	for _, e := range entries {
		raw = append(raw, e...)
	}
	return raw
}

func TestDecodeDirectoryEntry(t *testing.T) {
	b := []byte{
		'H', 'E', 'L', 'L', 'O', ' ', ' ', ' ', 'T', 'X', 'T',
		AttrArchive | AttrReadOnly,
		0x00,
		0x64,
		0x01, 0x02, // create time
		0x03, 0x04, // create date
		0x05, 0x06, // access date
		0x00, 0x00, // cluster high
		0x07, 0x08, // write time
		0x09, 0x0A, // write date
		0x34, 0x01, // cluster low
		0x05, 0x00, 0x00, 0x00, // size
	}

	got, err := DecodeDirectoryEntry(b)
	require.NoError(t, err)

	assert.Equal(t, DirectoryEntry{
		Name:             NormalizeName("hello.txt"),
		Attribute:        AttrArchive | AttrReadOnly,
		CreateTimeTenth:  0x64,
		CreateTime:       0x0201,
		CreateDate:       0x0403,
		LastAccessDate:   0x0605,
		FirstClusterHigh: 0,
		WriteTime:        0x0807,
		WriteDate:        0x0A09,
		FirstClusterLow:  0x0134,
		FileSize:         5,
	}, got)

	_, err = DecodeDirectoryEntry(b[:31])
	assert.Error(t, err)
}

func TestDirectoryEntry_Kinds(t *testing.T) {
	tests := []struct {
		name        string
		entry       DirectoryEntry
		wantInUse   bool
		wantRegular bool
	}{
		{name: "file", entry: DirectoryEntry{Name: NormalizeName("a.txt"), Attribute: AttrArchive}, wantInUse: true, wantRegular: true},
		{name: "hidden system file", entry: DirectoryEntry{Name: NormalizeName("io.sys"), Attribute: AttrHidden | AttrSystem}, wantInUse: true, wantRegular: true},
		{name: "directory", entry: DirectoryEntry{Name: NormalizeName("docs"), Attribute: AttrDirectory}, wantInUse: true},
		{name: "volume label", entry: DirectoryEntry{Name: NormalizeName("label"), Attribute: AttrVolumeLabel}, wantInUse: true},
		{name: "deleted", entry: DirectoryEntry{Name: ShortName{0xE5, 'A'}}},
		{name: "unused", entry: DirectoryEntry{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.entry.InUse(); got != tt.wantInUse {
				t.Errorf("DirectoryEntry.InUse() = %v, want %v", got, tt.wantInUse)
			}
			if got := tt.entry.IsRegular(); got != tt.wantRegular {
				t.Errorf("DirectoryEntry.IsRegular() = %v, want %v", got, tt.wantRegular)
			}
		})
	}
}

func TestRootDirectory_FindByName(t *testing.T) {
	raw := rawDirectory(
		rawEntry("DELETED TXT", AttrArchive, 9, 1),
		rawEntry("HELLO   TXT", AttrArchive, 2, 5),
		rawEntry("DOCS       ", AttrDirectory, 3, 0),
		make([]byte, DirectoryEntrySize), // unused slot in the middle
		rawEntry("LATE    TXT", AttrArchive, 4, 10),
	)
	raw[0] = entryDeleted

	dir, err := NewRootDirectory(raw, 5)
	require.NoError(t, err)

	tests := []struct {
		name        string
		lookup      ShortName
		wantFound   bool
		wantCluster uint16
	}{
		{name: "regular file", lookup: NormalizeName("hello.txt"), wantFound: true, wantCluster: 2},
		{name: "directory", lookup: NormalizeName("docs"), wantFound: true, wantCluster: 3},
		{name: "past an unused slot", lookup: NormalizeName("late.txt"), wantFound: true, wantCluster: 4},
		{name: "missing", lookup: NormalizeName("nothere.txt")},
		{name: "deleted entries are skipped", lookup: ShortName{entryDeleted, 'E', 'L', 'E', 'T', 'E', 'D', ' ', 'T', 'X', 'T'}},
		{name: "unused slots never match", lookup: ShortName{}},
		{name: "case sensitive", lookup: ShortName{'h', 'e', 'l', 'l', 'o', ' ', ' ', ' ', 't', 'x', 't'}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := dir.FindByName(tt.lookup)
			if found != tt.wantFound {
				t.Fatalf("RootDirectory.FindByName() found = %v, want %v", found, tt.wantFound)
			}
			if got.FirstClusterLow != tt.wantCluster {
				t.Errorf("RootDirectory.FindByName() cluster = %v, want %v", got.FirstClusterLow, tt.wantCluster)
			}
		})
	}

	assert.Equal(t, 5, dir.Slots())
	assert.Len(t, dir.Entries(), 3)
	assert.Len(t, dir.Files(), 2)
}

func TestNewRootDirectory_Short(t *testing.T) {
	_, err := NewRootDirectory(make([]byte, 63), 2)
	assert.ErrorIs(t, err, ErrIORead)
}

func TestLoadRootDirectory(t *testing.T) {
	layout := Layout{RootDirStart: 19, RootDirSectors: 1, BytesPerSector: 512, RootEntryCount: 16}
	sector := make([]byte, 512)
	copy(sector, rawEntry("HELLO   TXT", AttrArchive, 2, 5))

	mockCtrl := gomock.NewController(t)
	reader := NewMockSectorReader(mockCtrl)
	reader.EXPECT().ReadSectors(uint32(19), uint32(1)).Return(sector, nil)

	dir, err := LoadRootDirectory(reader, layout)
	require.NoError(t, err)
	assert.Equal(t, 16, dir.Slots())

	entry, ok := dir.FindByName(NormalizeName("hello.txt"))
	require.True(t, ok)
	assert.EqualValues(t, 5, entry.FileSize)
}

func TestLoadRootDirectory_ReadError(t *testing.T) {
	layout := Layout{RootDirStart: 19, RootDirSectors: 14, BytesPerSector: 512, RootEntryCount: 224}
	readErr := errors.New("short read")

	mockCtrl := gomock.NewController(t)
	reader := NewMockSectorReader(mockCtrl)
	reader.EXPECT().ReadSectors(uint32(19), uint32(14)).Return(nil, readErr)

	_, err := LoadRootDirectory(reader, layout)
	assert.ErrorIs(t, err, ErrLoadRootDirectory)
	assert.ErrorIs(t, err, readErr)
}
