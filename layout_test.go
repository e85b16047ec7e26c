package fat12

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floppyBootSector() BootSector {
	return BootSector{
		BytesPerSector:    512,
		SectorsPerCluster: 1,
		ReservedSectors:   1,
		FATCount:          2,
		RootEntryCount:    224,
		TotalSectors16:    2880,
		SectorsPerFAT:     9,
	}
}

func TestNewLayout_Floppy(t *testing.T) {
	l, err := NewLayout(floppyBootSector())
	require.NoError(t, err)

	assert.Equal(t, Layout{
		FATStart:          1,
		RootDirStart:      19,
		RootDirSectors:    14,
		DataStart:         33,
		SectorsPerFAT:     9,
		SectorsPerCluster: 1,
		BytesPerSector:    512,
		RootEntryCount:    224,
	}, l)
}

func TestNewLayout_InvalidGeometry(t *testing.T) {
	bs := floppyBootSector()
	bs.BytesPerSector = 0

	_, err := NewLayout(bs)
	assert.ErrorIs(t, err, ErrInvalidGeometry)
}

func TestRootDirectorySectorCount(t *testing.T) {
	tests := []struct {
		name           string
		bytesPerSector uint16
		entries        uint16
		want           uint64
	}{
		{name: "aligned", bytesPerSector: 512, entries: 224, want: 14},
		{name: "one entry over", bytesPerSector: 512, entries: 17, want: 2},
		{name: "single entry", bytesPerSector: 512, entries: 1, want: 1},
		{name: "no entries", bytesPerSector: 512, entries: 0, want: 0},
		{name: "large sectors", bytesPerSector: 4096, entries: 512, want: 4},
		{name: "zero sector size", bytesPerSector: 0, entries: 512, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bs := BootSector{BytesPerSector: tt.bytesPerSector, RootEntryCount: tt.entries}
			if got := RootDirectorySectorCount(bs); got != tt.want {
				t.Errorf("RootDirectorySectorCount() = %v, want %v", got, tt.want)
			}
		})
	}
}

// The root directory always has room for all entries and wastes less than a sector.
func TestRootDirectorySectorCount_Ceiling(t *testing.T) {
	for _, bps := range []uint16{32, 64, 128, 256, 512, 1024, 2048, 4096} {
		for entries := uint16(0); entries < 1024; entries++ {
			bs := BootSector{BytesPerSector: bps, RootEntryCount: entries}

			got := RootDirectorySectorCount(bs) * uint64(bps)
			need := uint64(entries) * DirectoryEntrySize

			if got < need || got-need >= uint64(bps) {
				t.Fatalf("RootDirectorySectorCount() for %d entries with %d bytes per sector covers %d bytes, need %d", entries, bps, got, need)
			}
			if aligned := need%uint64(bps) == 0; aligned && got != need {
				t.Fatalf("RootDirectorySectorCount() for %d entries with %d bytes per sector covers %d bytes, want exactly %d", entries, bps, got, need)
			}
		}
	}
}

func TestRegionStarts(t *testing.T) {
	bs := floppyBootSector()

	assert.EqualValues(t, 1, FATRegionStart(bs))
	assert.EqualValues(t, 19, RootDirectoryStart(bs))
	assert.EqualValues(t, 33, DataRegionStart(bs))
	assert.GreaterOrEqual(t, DataRegionStart(bs), RootDirectoryStart(bs))
}

func TestLayout_ClusterToLBA(t *testing.T) {
	l := Layout{DataStart: 33, SectorsPerCluster: 4}

	tests := []struct {
		name    string
		cluster uint16
		want    uint32
		wantErr bool
	}{
		{name: "first data cluster", cluster: 2, want: 33},
		{name: "third data cluster", cluster: 4, want: 41},
		{name: "reserved cluster 0", cluster: 0, wantErr: true},
		{name: "reserved cluster 1", cluster: 1, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := l.ClusterToLBA(tt.cluster)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Layout.ClusterToLBA() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				assert.ErrorIs(t, err, ErrInvalidCluster)
				return
			}
			if got != tt.want {
				t.Errorf("Layout.ClusterToLBA() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLayout_ClusterToLBA_Contiguous(t *testing.T) {
	for _, spc := range []uint32{1, 2, 4, 64} {
		l := Layout{DataStart: 33, SectorsPerCluster: spc}

		for c := uint16(FirstDataCluster); c <= 0xFEF; c++ {
			a, err := l.ClusterToLBA(c)
			require.NoError(t, err)
			b, err := l.ClusterToLBA(c + 1)
			require.NoError(t, err)

			if b-a != spc {
				t.Fatalf("ClusterToLBA(%d) - ClusterToLBA(%d) = %d, want %d", c+1, c, b-a, spc)
			}
		}
	}
}
