package fat12

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"syscall"

	"github.com/siderolabs/gen/xslices"
	"github.com/spf13/afero"

	"github.com/aligator/fat12/checkpoint"
)

// These errors may occur while processing a file.
var (
	ErrSeekFile = errors.New("could not seek inside of the file")
	ErrReadDir  = errors.New("could not read the directory")
)

// fatFileFs provides all methods needed from a fat filesystem for File.
// It mainly exists to be able to mock the Fs in tests.
// Generated mock using mockgen:
//  mockgen -source=file.go -destination=file_mock.go -package fat12
type fatFileFs interface {
	readFile(entry DirectoryEntry) ([]byte, error)
	readRoot() []DirectoryEntry
}

// File is an opened regular file or the root directory.
type File struct {
	fs   fatFileFs
	path string

	isDirectory bool
	isReadOnly  bool
	isHidden    bool
	isSystem    bool

	entry  DirectoryEntry
	stat   os.FileInfo
	offset int64

	// data is read on first access.
	data []byte
}

var (
	_ afero.File     = (*File)(nil)
	_ fs.ReadDirFile = (*File)(nil)
)

func (f *File) Close() error {
	*f = File{}
	return nil
}

// load reads the whole file through its cluster chain once.
func (f *File) load() error {
	if f.data != nil {
		return nil
	}

	if f.fs == nil {
		return os.ErrClosed
	}

	data, err := f.fs.readFile(f.entry)
	if err != nil {
		return err
	}

	f.data = data
	return nil
}

func (f *File) Read(p []byte) (n int, err error) {
	if len(p) == 0 {
		return 0, nil
	}

	if f.isDirectory {
		return 0, checkpoint.Wrap(syscall.EISDIR, ErrReadFile)
	}

	// Reading a file if the size has been already reached, makes no sense.
	if f.stat.Size() <= f.offset {
		return 0, io.EOF
	}

	if err := f.load(); err != nil {
		return 0, checkpoint.Wrap(err, ErrReadFile)
	}

	n = copy(p, f.data[f.offset:])
	f.offset += int64(n)

	return n, nil
}

func (f *File) ReadAt(p []byte, off int64) (n int, err error) {
	if f.isDirectory {
		return 0, checkpoint.Wrap(syscall.EISDIR, ErrReadFile)
	}

	if off < 0 {
		return 0, checkpoint.Wrap(syscall.EINVAL, ErrReadFile)
	}

	// Reading over the end makes no sense.
	if f.stat.Size() <= off {
		return 0, io.EOF
	}

	if err := f.load(); err != nil {
		return 0, checkpoint.Wrap(err, ErrReadFile)
	}

	n = copy(p, f.data[off:])
	if n < len(p) {
		return n, io.EOF
	}

	return n, nil
}

// Seek jumps to a specific offset in the file. This affects all Read operation except ReadAt.
// May return a syscall.EINVAL error if the whence value is invalid.
// May return an afero.ErrOutOfRange error if the offset is out of range.
func (f *File) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		offset = f.offset + offset
	case io.SeekEnd:
		offset = f.stat.Size() + offset
	default:
		return 0, checkpoint.Wrap(ErrSeekFile, fmt.Errorf("%w, offset: %v, whence: %v", syscall.EINVAL, offset, whence))
	}

	if offset < 0 || offset > f.stat.Size() {
		return 0, checkpoint.Wrap(afero.ErrOutOfRange, fmt.Errorf("%w, offset: %v, whence: %v", ErrSeekFile, offset, whence))
	}

	f.offset = offset
	return offset, nil
}

func (f *File) Write(p []byte) (n int, err error) {
	return 0, &os.PathError{Op: "write", Path: f.path, Err: syscall.EROFS}
}

func (f *File) WriteAt(p []byte, off int64) (n int, err error) {
	return 0, &os.PathError{Op: "write", Path: f.path, Err: syscall.EROFS}
}

func (f *File) Name() string {
	return f.stat.Name()
}

// entries returns the next count root entries and advances the directory offset.
// count <= 0 returns everything left. count > 0 returns io.EOF once nothing is left.
func (f *File) entries(count int) ([]DirectoryEntry, error) {
	if !f.isDirectory {
		return nil, checkpoint.Wrap(syscall.ENOTDIR, ErrReadDir)
	}

	if f.fs == nil {
		return nil, checkpoint.Wrap(os.ErrClosed, ErrReadDir)
	}

	content := f.fs.readRoot()
	if f.offset > int64(len(content)) {
		f.offset = int64(len(content))
	}
	content = content[f.offset:]

	if count <= 0 {
		f.offset += int64(len(content))
		return content, nil
	}

	if len(content) == 0 {
		return nil, io.EOF
	}

	if count < len(content) {
		content = content[:count]
	}
	f.offset += int64(len(content))

	return content, nil
}

// Readdir reads the contents of the root directory.
// May return syscall.ENOTDIR if the current File is no directory.
func (f *File) Readdir(count int) ([]os.FileInfo, error) {
	content, err := f.entries(count)
	if err != nil {
		return []os.FileInfo{}, err
	}

	if len(content) == 0 {
		return []os.FileInfo{}, nil
	}

	return xslices.Map(content, DirectoryEntry.FileInfo), nil
}

func (f *File) Readdirnames(count int) ([]string, error) {
	content, err := f.Readdir(count)
	if err != nil {
		return []string{}, err
	}

	if len(content) == 0 {
		return []string{}, nil
	}

	return xslices.Map(content, os.FileInfo.Name), nil
}

// ReadDir is Readdir for io/fs.
func (f *File) ReadDir(count int) ([]fs.DirEntry, error) {
	content, err := f.Readdir(count)
	if err != nil {
		return []fs.DirEntry{}, err
	}

	if len(content) == 0 {
		return []fs.DirEntry{}, nil
	}

	return xslices.Map(content, fs.FileInfoToDirEntry), nil
}

func (f *File) Stat() (os.FileInfo, error) {
	return f.stat, nil
}

func (f *File) Sync() error {
	return nil
}

func (f *File) Truncate(size int64) error {
	return &os.PathError{Op: "truncate", Path: f.path, Err: syscall.EROFS}
}

func (f *File) WriteString(s string) (ret int, err error) {
	return f.Write([]byte(s))
}
