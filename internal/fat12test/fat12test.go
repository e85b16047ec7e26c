// Package fat12test builds small FAT12 images in memory for tests.
//
// Images are laid out like a freshly formatted volume: files are placed in
// consecutive clusters starting at cluster 2 unless a test sets the FAT
// entries itself.
package fat12test

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"
	"time"
)

// Geometry holds the boot sector values of an image.
type Geometry struct {
	BytesPerSector    uint16
	SectorsPerCluster uint8
	ReservedSectors   uint16
	FATCount          uint8
	RootEntryCount    uint16
	TotalSectors      uint32
	SectorsPerFAT     uint16
	SectorsPerTrack   uint16
	Heads             uint16
	Media             uint8
	VolumeLabel       string
}

// Floppy144 is the geometry of a 1.44 MB 3.5" floppy disk.
func Floppy144() Geometry {
	return Geometry{
		BytesPerSector:    512,
		SectorsPerCluster: 1,
		ReservedSectors:   1,
		FATCount:          2,
		RootEntryCount:    224,
		TotalSectors:      2880,
		SectorsPerFAT:     9,
		SectorsPerTrack:   18,
		Heads:             2,
		Media:             0xF0,
		VolumeLabel:       "TESTDISK",
	}
}

// Attribute bits.
const (
	AttrReadOnly    = 0x01
	AttrHidden      = 0x02
	AttrSystem      = 0x04
	AttrVolumeLabel = 0x08
	AttrDirectory   = 0x10
	AttrArchive     = 0x20
)

// FAT values.
const (
	EndOfChain = 0xFFF
	BadCluster = 0xFF7
)

// ModTime is the write time stored in every entry added by AddFile.
var ModTime = time.Date(2020, 12, 26, 13, 37, 42, 0, time.UTC)

// Entry is a root directory slot.
type Entry struct {
	Name         [11]byte
	Attribute    uint8
	FirstCluster uint16
	Size         uint32
	WriteTime    uint16
	WriteDate    uint16
}

// Image is a FAT12 image under construction.
type Image struct {
	Geometry

	data        []byte
	nextCluster uint16
	nextSlot    int
}

// New formats an empty image with the given geometry.
func New(g Geometry) *Image {
	img := &Image{
		Geometry:    g,
		data:        make([]byte, int(g.TotalSectors)*int(g.BytesPerSector)),
		nextCluster: 2,
	}

	img.writeBootSector()

	img.SetFAT(0, 0xF00|uint16(g.Media))
	img.SetFAT(1, EndOfChain)

	return img
}

func (img *Image) writeBootSector() {
	b := img.data
	le := binary.LittleEndian

	copy(b[0:3], []byte{0xEB, 0x3C, 0x90})
	copy(b[3:11], "MSDOS5.0")
	le.PutUint16(b[11:13], img.BytesPerSector)
	b[13] = img.SectorsPerCluster
	le.PutUint16(b[14:16], img.ReservedSectors)
	b[16] = img.FATCount
	le.PutUint16(b[17:19], img.RootEntryCount)
	if img.TotalSectors <= 0xFFFF {
		le.PutUint16(b[19:21], uint16(img.TotalSectors))
	} else {
		le.PutUint32(b[32:36], img.TotalSectors)
	}
	b[21] = img.Media
	le.PutUint16(b[22:24], img.SectorsPerFAT)
	le.PutUint16(b[24:26], img.SectorsPerTrack)
	le.PutUint16(b[26:28], img.Heads)
	b[36] = 0x00
	b[38] = 0x29
	le.PutUint32(b[39:43], 0x1234ABCD)
	copy(b[43:54], pad(img.VolumeLabel, 11))
	copy(b[54:62], "FAT12   ")

	if len(b) >= 512 {
		b[510], b[511] = 0x55, 0xAA
	}
}

func (img *Image) sectorOffset(lba int) int {
	return lba * int(img.BytesPerSector)
}

// RootDirStart returns the LBA of the root directory.
func (img *Image) RootDirStart() int {
	return int(img.ReservedSectors) + int(img.SectorsPerFAT)*int(img.FATCount)
}

// DataStart returns the LBA of cluster 2.
func (img *Image) DataStart() int {
	bps := int(img.BytesPerSector)
	rootSectors := (int(img.RootEntryCount)*32 + bps - 1) / bps
	return img.RootDirStart() + rootSectors
}

// ClusterSize returns the cluster size in bytes.
func (img *Image) ClusterSize() int {
	return int(img.SectorsPerCluster) * int(img.BytesPerSector)
}

// SetFAT stores value as the entry of cluster in every FAT copy.
func (img *Image) SetFAT(cluster uint16, value uint16) {
	for i := 0; i < int(img.FATCount); i++ {
		start := img.sectorOffset(int(img.ReservedSectors) + i*int(img.SectorsPerFAT))
		fat := img.data[start : start+int(img.SectorsPerFAT)*int(img.BytesPerSector)]

		off := int(cluster) * 3 / 2
		if cluster%2 == 0 {
			fat[off] = byte(value)
			fat[off+1] = fat[off+1]&0xF0 | byte(value>>8)&0x0F
		} else {
			fat[off] = fat[off]&0x0F | byte(value<<4)
			fat[off+1] = byte(value >> 4)
		}
	}
}

// SetFATBytes overwrites the start of the first FAT copy verbatim.
func (img *Image) SetFATBytes(raw []byte) {
	start := img.sectorOffset(int(img.ReservedSectors))
	copy(img.data[start:], raw)
}

// WriteCluster copies data to the start of cluster. Data longer than a
// cluster spills into the following ones.
func (img *Image) WriteCluster(cluster uint16, data []byte) {
	lba := img.DataStart() + (int(cluster)-2)*int(img.SectorsPerCluster)
	copy(img.data[img.sectorOffset(lba):], data)
}

// Allocate reserves n consecutive clusters that are not yet used by AddFile.
func (img *Image) Allocate(n int) []uint16 {
	clusters := make([]uint16, n)
	for i := range clusters {
		clusters[i] = img.nextCluster
		img.nextCluster++
	}

	return clusters
}

// Chain links the given clusters in order and terminates the chain.
func (img *Image) Chain(clusters ...uint16) {
	for i, c := range clusters {
		if i == len(clusters)-1 {
			img.SetFAT(c, EndOfChain)
		} else {
			img.SetFAT(c, clusters[i+1])
		}
	}
}

// AddFile stores content in consecutive clusters and adds a directory entry.
// It returns the first cluster, which is 0 for empty files.
func (img *Image) AddFile(name string, content []byte) uint16 {
	clusterSize := img.ClusterSize()
	count := (len(content) + clusterSize - 1) / clusterSize

	var first uint16
	if count > 0 {
		clusters := img.Allocate(count)
		img.Chain(clusters...)
		for i, c := range clusters {
			end := (i + 1) * clusterSize
			if end > len(content) {
				end = len(content)
			}
			img.WriteCluster(c, content[i*clusterSize:end])
		}
		first = clusters[0]
	}

	img.AddEntry(Entry{
		Name:         ShortName(name),
		Attribute:    AttrArchive,
		FirstCluster: first,
		Size:         uint32(len(content)),
		WriteTime:    dosTime(ModTime),
		WriteDate:    dosDate(ModTime),
	})

	return first
}

// AddEntry writes e into the next free root directory slot.
func (img *Image) AddEntry(e Entry) {
	if img.nextSlot >= int(img.RootEntryCount) {
		panic(fmt.Sprintf("fat12test: root directory is full (%d entries)", img.RootEntryCount))
	}

	img.SetEntry(img.nextSlot, e)
	img.nextSlot++
}

// SetEntry writes e into the given root directory slot.
func (img *Image) SetEntry(slot int, e Entry) {
	off := img.sectorOffset(img.RootDirStart()) + slot*32
	b := img.data[off : off+32]
	le := binary.LittleEndian

	copy(b[0:11], e.Name[:])
	b[11] = e.Attribute
	le.PutUint16(b[22:24], e.WriteTime)
	le.PutUint16(b[24:26], e.WriteDate)
	le.PutUint16(b[26:28], e.FirstCluster)
	le.PutUint32(b[28:32], e.Size)
}

// SkipSlot leaves the next root directory slot unused.
func (img *Image) SkipSlot() {
	img.nextSlot++
}

// Bytes returns the image. It is not copied.
func (img *Image) Bytes() []byte {
	return img.data
}

// Reader returns a reader over the image.
func (img *Image) Reader() *bytes.Reader {
	return bytes.NewReader(img.data)
}

// ShortName formats an ASCII name like "hello.txt" as "HELLO   TXT".
func ShortName(name string) [11]byte {
	var out [11]byte
	base, ext, _ := strings.Cut(strings.ToUpper(name), ".")
	copy(out[:8], pad(base, 8))
	copy(out[8:], pad(ext, 3))
	return out
}

func pad(s string, n int) []byte {
	b := bytes.Repeat([]byte{' '}, n)
	copy(b, s)
	return b
}

func dosDate(t time.Time) uint16 {
	return uint16(t.Year()-1980)<<9 | uint16(t.Month())<<5 | uint16(t.Day())
}

func dosTime(t time.Time) uint16 {
	return uint16(t.Hour())<<11 | uint16(t.Minute())<<5 | uint16(t.Second()/2)
}
