package fat12

import (
	"encoding/binary"
	"fmt"

	"github.com/aligator/fat12/checkpoint"
)

// fatEntry is a single decoded 12 bit FAT entry.
type fatEntry uint16

const (
	fatEntryMask        fatEntry = 0xFFF
	fatEntryReservedMin fatEntry = 0xFF0
	fatEntryBad         fatEntry = 0xFF7
	fatEntryEOFMin      fatEntry = 0xFF8
)

// LastDataCluster is the highest cluster number a FAT12 chain may reference.
const LastDataCluster = uint16(fatEntryReservedMin - 1)

func (e fatEntry) Value() uint16 {
	return uint16(e & fatEntryMask)
}

// IsFree reports an unallocated cluster.
func (e fatEntry) IsFree() bool {
	return e.Value() == 0
}

// IsReserved reports entry value 1 and the range 0xFF0 - 0xFF6.
func (e fatEntry) IsReserved() bool {
	v := e.Value()
	return v == 1 || (v >= uint16(fatEntryReservedMin) && v < uint16(fatEntryBad))
}

// IsNextCluster reports whether the entry links to another data cluster.
func (e fatEntry) IsNextCluster() bool {
	v := e.Value()
	return v >= FirstDataCluster && v <= LastDataCluster
}

func (e fatEntry) IsBad() bool {
	return e.Value() == uint16(fatEntryBad)
}

func (e fatEntry) IsEOF() bool {
	return e.Value() >= uint16(fatEntryEOFMin)
}

// LinkKind classifies the link from one cluster of a chain to the next.
type LinkKind int

const (
	// LinkContinue means the chain continues at ClusterLink.Next.
	LinkContinue LinkKind = iota
	// LinkEndOfChain means the cluster is the last one of its file.
	LinkEndOfChain
	// LinkBadCluster means the chain runs into storage marked as unusable.
	LinkBadCluster
)

func (k LinkKind) String() string {
	switch k {
	case LinkContinue:
		return "continue"
	case LinkEndOfChain:
		return "end of chain"
	case LinkBadCluster:
		return "bad cluster"
	default:
		return fmt.Sprintf("LinkKind(%d)", int(k))
	}
}

// ClusterLink is the classified FAT entry of a cluster.
type ClusterLink struct {
	Kind LinkKind
	// Next is only set for LinkContinue.
	Next uint16
}

// FatTable is a loaded copy of the file allocation table.
type FatTable struct {
	data []byte
}

// NewFatTable uses data as the raw packed table. data is not copied.
func NewFatTable(data []byte) *FatTable {
	return &FatTable{data: data}
}

// LoadFatTable reads the first FAT copy of the volume.
func LoadFatTable(r SectorReader, layout Layout) (*FatTable, error) {
	data, err := r.ReadSectors(layout.FATStart, layout.SectorsPerFAT)
	if err != nil {
		return nil, checkpoint.Wrap(err, ErrLoadFAT)
	}

	return NewFatTable(data), nil
}

// Len returns the number of entries the table holds.
func (f *FatTable) Len() int {
	return len(f.data) * 2 / 3
}

// Bytes returns the raw table.
func (f *FatTable) Bytes() []byte {
	return f.data
}

// entry decodes the packed 12 bit entry of the given cluster.
// Two entries share three bytes: the even one takes the low 12 bits of the
// little endian word at cluster*3/2, the odd one the high 12 bits.
func (f *FatTable) entry(cluster uint16) (fatEntry, error) {
	offset := int(cluster) * 3 / 2
	if offset+1 >= len(f.data) {
		return 0, checkpoint.From(fmt.Errorf("%w: cluster %d has no FAT entry", ErrInvalidCluster, cluster))
	}

	word := binary.LittleEndian.Uint16(f.data[offset : offset+2])
	if cluster%2 == 0 {
		return fatEntry(word) & fatEntryMask, nil
	}
	return fatEntry(word >> 4), nil
}

// Entry returns the raw 12 bit value stored for cluster.
func (f *FatTable) Entry(cluster uint16) (uint16, error) {
	e, err := f.entry(cluster)
	if err != nil {
		return 0, err
	}
	return e.Value(), nil
}

// NextCluster returns where the chain continues after cluster.
func (f *FatTable) NextCluster(cluster uint16) (ClusterLink, error) {
	e, err := f.entry(cluster)
	if err != nil {
		return ClusterLink{}, err
	}

	switch {
	case e.IsBad():
		return ClusterLink{Kind: LinkBadCluster}, nil
	case e.IsEOF():
		return ClusterLink{Kind: LinkEndOfChain}, nil
	default:
		return ClusterLink{Kind: LinkContinue, Next: e.Value()}, nil
	}
}
