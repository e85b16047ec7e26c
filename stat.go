package fat12

import (
	"os"
	"time"
)

// FileInfo describes the entry as os.FileInfo. Sys returns the DirectoryEntry.
func (e DirectoryEntry) FileInfo() os.FileInfo {
	return entryFileInfo{e}
}

type entryFileInfo struct {
	entry DirectoryEntry
}

func (e entryFileInfo) Name() string {
	return e.entry.Name.String()
}

func (e entryFileInfo) Size() int64 {
	return int64(e.entry.FileSize)
}

func (e entryFileInfo) Mode() os.FileMode {
	if e.IsDir() {
		return os.ModeDir | 0555
	}

	if e.entry.Attribute&AttrReadOnly != 0 {
		return 0444
	}
	return 0644
}

func (e entryFileInfo) ModTime() time.Time {
	return DateTime(e.entry.WriteDate, e.entry.WriteTime)
}

func (e entryFileInfo) IsDir() bool {
	return e.entry.IsDirectory()
}

func (e entryFileInfo) Sys() interface{} {
	return e.entry
}

// rootFileInfo describes the root directory itself, which has no entry.
type rootFileInfo struct{}

func (rootFileInfo) Name() string       { return "." }
func (rootFileInfo) Size() int64        { return 0 }
func (rootFileInfo) Mode() os.FileMode  { return os.ModeDir | 0555 }
func (rootFileInfo) ModTime() time.Time { return time.Time{} }
func (rootFileInfo) IsDir() bool        { return true }
func (rootFileInfo) Sys() interface{}   { return nil }
