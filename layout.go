package fat12

import (
	"fmt"
	"math"

	"github.com/aligator/fat12/checkpoint"
)

// FirstDataCluster is the number of the first cluster backed by the data region.
// Clusters 0 and 1 only exist as reserved FAT entries.
const FirstDataCluster = 2

// Layout describes where the regions of a volume start, in sectors.
type Layout struct {
	FATStart          uint32
	RootDirStart      uint32
	RootDirSectors    uint32
	DataStart         uint32
	SectorsPerFAT     uint32
	SectorsPerCluster uint32
	BytesPerSector    uint32
	RootEntryCount    uint32
}

// FATRegionStart returns the LBA of the first FAT copy.
func FATRegionStart(bs BootSector) uint64 {
	return uint64(bs.ReservedSectors)
}

// RootDirectoryStart returns the LBA of the root directory, which follows all FAT copies.
func RootDirectoryStart(bs BootSector) uint64 {
	return FATRegionStart(bs) + uint64(bs.SectorsPerFAT)*uint64(bs.FATCount)
}

// RootDirectorySectorCount returns the number of sectors the root directory occupies.
// A partially used last sector counts as a whole one.
func RootDirectorySectorCount(bs BootSector) uint64 {
	if bs.BytesPerSector == 0 {
		return 0
	}

	size := uint64(bs.RootEntryCount) * DirectoryEntrySize
	bps := uint64(bs.BytesPerSector)
	return (size + bps - 1) / bps
}

// DataRegionStart returns the LBA of cluster 2.
func DataRegionStart(bs BootSector) uint64 {
	return RootDirectoryStart(bs) + RootDirectorySectorCount(bs)
}

// NewLayout validates the geometry of bs and calculates its layout.
func NewLayout(bs BootSector) (Layout, error) {
	if err := bs.Validate(); err != nil {
		return Layout{}, err
	}

	dataStart := DataRegionStart(bs)
	if dataStart > math.MaxUint32 {
		return Layout{}, checkpoint.From(fmt.Errorf("%w: data region starts beyond sector %d", ErrInvalidGeometry, uint32(math.MaxUint32)))
	}

	return Layout{
		FATStart:          uint32(FATRegionStart(bs)),
		RootDirStart:      uint32(RootDirectoryStart(bs)),
		RootDirSectors:    uint32(RootDirectorySectorCount(bs)),
		DataStart:         uint32(dataStart),
		SectorsPerFAT:     uint32(bs.SectorsPerFAT),
		SectorsPerCluster: uint32(bs.SectorsPerCluster),
		BytesPerSector:    uint32(bs.BytesPerSector),
		RootEntryCount:    uint32(bs.RootEntryCount),
	}, nil
}

// ClusterSize returns the size of one cluster in bytes.
func (l Layout) ClusterSize() uint32 {
	return l.SectorsPerCluster * l.BytesPerSector
}

// ClusterToLBA returns the first sector of the given data cluster.
func (l Layout) ClusterToLBA(cluster uint16) (uint32, error) {
	if cluster < FirstDataCluster {
		return 0, checkpoint.From(fmt.Errorf("%w: cluster %d", ErrInvalidCluster, cluster))
	}

	lba := uint64(l.DataStart) + uint64(cluster-FirstDataCluster)*uint64(l.SectorsPerCluster)
	if lba > math.MaxUint32 {
		return 0, checkpoint.From(fmt.Errorf("%w: cluster %d maps beyond sector %d", ErrInvalidCluster, cluster, uint32(math.MaxUint32)))
	}

	return uint32(lba), nil
}
