// Package display renders what the fat12 tool found in an image.
package display

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/siderolabs/gen/xslices"
	"github.com/siderolabs/go-pointer"
	"gopkg.in/yaml.v3"

	"github.com/aligator/fat12"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// PrintBootSector prints the geometry of the volume.
func PrintBootSector(w io.Writer, bs fat12.BootSector) {
	fmt.Fprintln(w, "Boot Sector Information:")
	fmt.Fprintln(w, "=======================")
	fmt.Fprintf(w, "Bytes per sector:    %d\n", bs.BytesPerSector)
	fmt.Fprintf(w, "Sectors per cluster: %d\n", bs.SectorsPerCluster)
	fmt.Fprintf(w, "Reserved sectors:    %d\n", bs.ReservedSectors)
	fmt.Fprintf(w, "FAT count:           %d\n", bs.FATCount)
	fmt.Fprintf(w, "Root directory entries: %d\n", bs.RootEntryCount)
	fmt.Fprintf(w, "Sectors per FAT:     %d\n", bs.SectorsPerFAT)
	fmt.Fprintf(w, "Total sectors:       %d\n", bs.TotalSectors())
}

// PrintRootDirectory lists every entry in use, including directories and
// the volume label. Deleted and unused slots are skipped.
func PrintRootDirectory(w io.Writer, root *fat12.RootDirectory) {
	fmt.Fprintln(w, "Root Directory Contents:")
	fmt.Fprintln(w, "=======================")

	for _, entry := range root.Entries() {
		fmt.Fprintf(w, "File: %s | Size: %d bytes\n", Escape(entry.Name[:]), entry.FileSize)
	}
}

// PrintSearching echoes the padded name a lookup uses.
func PrintSearching(w io.Writer, name fat12.ShortName) {
	fmt.Fprintf(w, "Searching for: %s\n", Escape(name[:]))
}

// PrintFileFound prints the size of the found entry.
func PrintFileFound(w io.Writer, entry fat12.DirectoryEntry) {
	fmt.Fprintf(w, "File found! Size: %d bytes\n\n", entry.FileSize)
}

// PrintContents prints data with Escape.
func PrintContents(w io.Writer, data []byte) {
	fmt.Fprintln(w, "File contents:")
	fmt.Fprintln(w, "==============")
	fmt.Fprintln(w, Escape(data))
}

// Escape keeps printable ASCII and replaces every other byte by <xx>.
func Escape(data []byte) string {
	var sb strings.Builder
	sb.Grow(len(data))

	for _, b := range data {
		if b >= 0x20 && b <= 0x7E {
			sb.WriteByte(b)
			continue
		}

		fmt.Fprintf(&sb, "<%02x>", b)
	}

	return sb.String()
}

// VolumeSummary is the machine readable form of the text output.
type VolumeSummary struct {
	Label             *string        `json:"label,omitempty" yaml:"label,omitempty"`
	OEMName           string         `json:"oemName" yaml:"oemName"`
	VolumeID          *string        `json:"volumeId,omitempty" yaml:"volumeId,omitempty"`
	BytesPerSector    uint16         `json:"bytesPerSector" yaml:"bytesPerSector"`
	SectorsPerCluster uint8          `json:"sectorsPerCluster" yaml:"sectorsPerCluster"`
	ReservedSectors   uint16         `json:"reservedSectors" yaml:"reservedSectors"`
	FATCount          uint8          `json:"fatCount" yaml:"fatCount"`
	RootEntries       uint16         `json:"rootDirectoryEntries" yaml:"rootDirectoryEntries"`
	SectorsPerFAT     uint16         `json:"sectorsPerFat" yaml:"sectorsPerFat"`
	TotalSectors      uint32         `json:"totalSectors" yaml:"totalSectors"`
	Layout            LayoutSummary  `json:"layout" yaml:"layout"`
	Entries           []EntrySummary `json:"entries" yaml:"entries"`
	File              *FileSummary   `json:"file,omitempty" yaml:"file,omitempty"`
}

// LayoutSummary holds the first sector of every region.
type LayoutSummary struct {
	FATStart       uint32 `json:"fatStart" yaml:"fatStart"`
	RootDirStart   uint32 `json:"rootDirectoryStart" yaml:"rootDirectoryStart"`
	RootDirSectors uint32 `json:"rootDirectorySectors" yaml:"rootDirectorySectors"`
	DataStart      uint32 `json:"dataStart" yaml:"dataStart"`
}

// EntrySummary describes a root directory entry in use.
type EntrySummary struct {
	Name         string     `json:"name" yaml:"name"`
	Size         uint32     `json:"size" yaml:"size"`
	Attributes   string     `json:"attributes" yaml:"attributes"`
	FirstCluster uint16     `json:"firstCluster" yaml:"firstCluster"`
	Modified     *time.Time `json:"modified,omitempty" yaml:"modified,omitempty"`
}

// FileSummary describes the extracted file.
type FileSummary struct {
	Name      string `json:"name" yaml:"name"`
	ShortName string `json:"shortName" yaml:"shortName"`
	Size      uint32 `json:"size" yaml:"size"`
	Read      int    `json:"read" yaml:"read"`
	Truncated bool   `json:"truncated,omitempty" yaml:"truncated,omitempty"`
	Content   string `json:"content,omitempty" yaml:"content,omitempty"`
}

// NewVolumeSummary collects the volume information of s.
func NewVolumeSummary(s *fat12.Session) *VolumeSummary {
	bs := s.BootSector()
	layout := s.Layout()

	summary := &VolumeSummary{
		OEMName:           strings.TrimRight(string(bs.OEMName[:]), " \x00"),
		BytesPerSector:    bs.BytesPerSector,
		SectorsPerCluster: bs.SectorsPerCluster,
		ReservedSectors:   bs.ReservedSectors,
		FATCount:          bs.FATCount,
		RootEntries:       bs.RootEntryCount,
		SectorsPerFAT:     bs.SectorsPerFAT,
		TotalSectors:      bs.TotalSectors(),
		Layout: LayoutSummary{
			FATStart:       layout.FATStart,
			RootDirStart:   layout.RootDirStart,
			RootDirSectors: layout.RootDirSectors,
			DataStart:      layout.DataStart,
		},
		Entries: xslices.Map(s.RootDirectory().Entries(), newEntrySummary),
	}

	if label := bs.Label(); label != "" {
		summary.Label = pointer.To(label)
	}

	if bs.HasExtendedRecord() {
		summary.VolumeID = pointer.To(fmt.Sprintf("%04X-%04X", bs.VolumeID>>16, bs.VolumeID&0xFFFF))
	}

	return summary
}

func newEntrySummary(entry fat12.DirectoryEntry) EntrySummary {
	summary := EntrySummary{
		Name:         entry.Name.String(),
		Size:         entry.FileSize,
		Attributes:   Attributes(entry.Attribute),
		FirstCluster: entry.FirstClusterLow,
	}

	if mod := entry.FileInfo().ModTime(); !mod.IsZero() {
		summary.Modified = pointer.To(mod)
	}

	return summary
}

// Attributes renders the attribute byte in the order of the DOS attrib tool.
func Attributes(attr uint8) string {
	flags := []struct {
		bit  uint8
		char byte
	}{
		{fat12.AttrArchive, 'A'},
		{fat12.AttrSystem, 'S'},
		{fat12.AttrHidden, 'H'},
		{fat12.AttrReadOnly, 'R'},
		{fat12.AttrDirectory, 'D'},
		{fat12.AttrVolumeLabel, 'V'},
	}

	out := make([]byte, 0, len(flags))
	for _, f := range flags {
		if attr&f.bit != 0 {
			out = append(out, f.char)
		} else {
			out = append(out, '-')
		}
	}

	return string(out)
}

// WriteSummary marshals summary as json or yaml.
func WriteSummary(w io.Writer, summary *VolumeSummary, format string) error {
	switch format {
	case FormatJSON:
		b, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal json: %w", err)
		}
		_, err = fmt.Fprintln(w, string(b))
		return err

	case FormatYAML:
		b, err := yaml.Marshal(summary)
		if err != nil {
			return fmt.Errorf("marshal yaml: %w", err)
		}
		_, err = w.Write(b)
		return err

	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}
