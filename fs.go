package fat12

import (
	"io"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/afero"

	"github.com/aligator/fat12/checkpoint"
)

// Fs is a read-only afero.Fs over the root directory of a FAT12 volume.
// Only regular files are visible. Every modifying call fails with syscall.EROFS.
type Fs struct {
	session *Session
}

var _ afero.Fs = (*Fs)(nil)

// New opens the FAT12 volume in image as afero.Fs.
func New(image io.ReaderAt, opts ...Option) (*Fs, error) {
	s, err := Open(image, opts...)
	if err != nil {
		return nil, err
	}

	return NewFs(s), nil
}

// NewFs uses an already opened session.
func NewFs(s *Session) *Fs {
	return &Fs{session: s}
}

// Session returns the session the filesystem reads from.
func (fs *Fs) Session() *Session {
	return fs.session
}

// Label returns the volume label of the extended boot record.
func (fs *Fs) Label() string {
	return fs.session.boot.Label()
}

func (fs *Fs) readFile(entry DirectoryEntry) ([]byte, error) {
	return fs.session.ExtractEntry(entry)
}

func (fs *Fs) readRoot() []DirectoryEntry {
	return fs.session.root.Files()
}

func isRoot(name string) bool {
	switch strings.Trim(name, "/") {
	case "", ".":
		return true
	default:
		return false
	}
}

// lookup resolves name to a regular file entry. Paths are always normalized,
// but have to match the entry apart from case, so that "hello.txt.bak" does
// not alias HELLO.TXT.
func (fs *Fs) lookup(op, name string) (DirectoryEntry, error) {
	clean := strings.TrimPrefix(name, "/")

	entry, ok := fs.session.root.FindByName(NormalizeName(clean))
	if !ok || !strings.EqualFold(entry.Name.String(), clean) {
		return DirectoryEntry{}, &os.PathError{Op: op, Path: name, Err: checkpoint.Wrap(ErrFileNotFound, os.ErrNotExist)}
	}

	if !entry.IsRegular() {
		return DirectoryEntry{}, &os.PathError{Op: op, Path: name, Err: checkpoint.Wrap(ErrNotARegularFile, os.ErrNotExist)}
	}

	return entry, nil
}

func readOnly(op, name string) error {
	return &os.PathError{Op: op, Path: name, Err: syscall.EROFS}
}

func (fs *Fs) Create(name string) (afero.File, error) {
	return nil, readOnly("create", name)
}

func (fs *Fs) Mkdir(name string, perm os.FileMode) error {
	return readOnly("mkdir", name)
}

func (fs *Fs) MkdirAll(path string, perm os.FileMode) error {
	return readOnly("mkdir", path)
}

func (fs *Fs) Open(name string) (afero.File, error) {
	if isRoot(name) {
		return &File{
			fs:          fs,
			path:        "",
			isDirectory: true,
			stat:        rootFileInfo{},
		}, nil
	}

	entry, err := fs.lookup("open", name)
	if err != nil {
		return nil, err
	}

	return &File{
		fs:         fs,
		path:       strings.TrimPrefix(name, "/"),
		isReadOnly: entry.Attribute&AttrReadOnly != 0,
		isHidden:   entry.Attribute&AttrHidden != 0,
		isSystem:   entry.Attribute&AttrSystem != 0,
		entry:      entry,
		stat:       entry.FileInfo(),
	}, nil
}

// OpenFile only supports opening for reading.
func (fs *Fs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	if flag&(os.O_WRONLY|os.O_RDWR|os.O_APPEND|os.O_CREATE|os.O_TRUNC) != 0 {
		return nil, readOnly("open", name)
	}

	return fs.Open(name)
}

func (fs *Fs) Remove(name string) error {
	return readOnly("remove", name)
}

func (fs *Fs) RemoveAll(path string) error {
	return readOnly("remove", path)
}

func (fs *Fs) Rename(oldname, newname string) error {
	return readOnly("rename", oldname)
}

func (fs *Fs) Stat(name string) (os.FileInfo, error) {
	if isRoot(name) {
		return rootFileInfo{}, nil
	}

	entry, err := fs.lookup("stat", name)
	if err != nil {
		return nil, err
	}

	return entry.FileInfo(), nil
}

func (fs *Fs) Name() string {
	return "fat12"
}

func (fs *Fs) Chmod(name string, mode os.FileMode) error {
	return readOnly("chmod", name)
}

func (fs *Fs) Chown(name string, uid, gid int) error {
	return readOnly("chown", name)
}

func (fs *Fs) Chtimes(name string, atime time.Time, mtime time.Time) error {
	return readOnly("chtimes", name)
}
