package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/aligator/fat12"
	"github.com/aligator/fat12/internal/fat12test"
)

// testFs holds floppy.img with HELLO.TXT, a directory and a truncated file.
func testFs(t *testing.T) afero.Fs {
	t.Helper()

	img := fat12test.New(fat12test.Floppy144())
	img.AddFile("hello.txt", []byte("Hello\x01"))
	img.AddEntry(fat12test.Entry{Name: fat12test.ShortName("docs"), Attribute: fat12test.AttrDirectory})
	first := img.AddFile("short.bin", []byte("abc"))
	img.SetEntry(2, fat12test.Entry{Name: fat12test.ShortName("short.bin"), Attribute: fat12test.AttrArchive, FirstCluster: first, Size: 1024})
	bad := img.AddFile("bad.bin", bytes.Repeat([]byte{'x'}, 1024))
	img.SetFAT(bad, fat12test.BadCluster)

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "floppy.img", img.Bytes(), 0o644))
	require.NoError(t, afero.WriteFile(fs, "garbage.img", []byte{0xEB}, 0o644))
	return fs
}

// execRun runs the tool and captures both streams.
func execRun(t *testing.T, fs afero.Fs, args ...string) (code int, stdout, stderr string) {
	t.Helper()

	var out, errOut bytes.Buffer
	code = run(args, &out, &errOut, fs)
	return code, out.String(), errOut.String()
}

func TestRun_Text(t *testing.T) {
	code, stdout, stderr := execRun(t, testFs(t), "floppy.img", "hello.txt")
	require.Equal(t, exitOK, code, stderr)

	assert.Equal(t, `Boot Sector Information:
=======================
Bytes per sector:    512
Sectors per cluster: 1
Reserved sectors:    1
FAT count:           2
Root directory entries: 224
Sectors per FAT:     9
Total sectors:       2880

Root Directory Contents:
=======================
File: HELLO   TXT | Size: 6 bytes
File: DOCS        | Size: 0 bytes
File: SHORT   BIN | Size: 1024 bytes
File: BAD     BIN | Size: 1024 bytes

Searching for: HELLO   TXT
File found! Size: 6 bytes

File contents:
==============
Hello<01>
`, stdout)
	assert.Empty(t, stderr)
}

func TestRun_ExitCodes(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStderr string
	}{
		{name: "missing arguments", args: []string{"floppy.img"}, wantCode: exitInvalidArguments},
		{name: "missing image", args: []string{"nothere.img", "hello.txt"}, wantCode: exitInvalidArguments, wantStderr: "cannot open disk image"},
		{name: "invalid format", args: []string{"--format", "xml", "floppy.img", "hello.txt"}, wantCode: exitInvalidArguments, wantStderr: "unsupported --format"},
		{name: "invalid log level", args: []string{"--log-level", "loud", "floppy.img", "hello.txt"}, wantCode: exitInvalidArguments},
		{name: "boot sector", args: []string{"garbage.img", "hello.txt"}, wantCode: exitBootSector},
		{name: "file not found", args: []string{"floppy.img", "nothere.txt"}, wantCode: exitFileNotFound, wantStderr: "file not found"},
		{name: "directory", args: []string{"floppy.img", "docs"}, wantCode: exitFileNotFound},
		{name: "raw name too long", args: []string{"--raw-name", "floppy.img", "HELLO   TXT!"}, wantCode: exitInvalidArguments, wantStderr: "longer than 11 bytes"},
		{name: "bad cluster", args: []string{"floppy.img", "bad.bin"}, wantCode: exitReadFile},
		{name: "truncated in strict mode", args: []string{"--strict", "floppy.img", "short.bin"}, wantCode: exitReadFile},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := execRun(t, testFs(t), tt.args...)
			assert.Equal(t, tt.wantCode, code, stderr)
			assert.Contains(t, stderr, tt.wantStderr)
		})
	}
}

func TestRun_Truncated(t *testing.T) {
	code, stdout, stderr := execRun(t, testFs(t), "--quiet", "floppy.img", "short.bin")
	require.Equal(t, exitOK, code, stderr)

	assert.Equal(t, "abc"+string(bytes.Repeat([]byte("<00>"), 509))+"\n", stdout)
	assert.Contains(t, stderr, "cluster chain is shorter than the file")
}

func TestRun_RawName(t *testing.T) {
	code, stdout, stderr := execRun(t, testFs(t), "--raw-name", "-q", "floppy.img", "HELLO   TXT")
	require.Equal(t, exitOK, code, stderr)
	assert.Equal(t, "Hello<01>\n", stdout)

	code, _, _ = execRun(t, testFs(t), "--raw-name", "floppy.img", "hello.txt")
	assert.Equal(t, exitFileNotFound, code)
}

func TestRun_Output(t *testing.T) {
	fs := testFs(t)

	code, stdout, stderr := execRun(t, fs, "--quiet", "--output", "hello.out", "floppy.img", "hello.txt")
	require.Equal(t, exitOK, code, stderr)
	assert.Empty(t, stdout)

	data, err := afero.ReadFile(fs, "hello.out")
	require.NoError(t, err)
	assert.Equal(t, []byte("Hello\x01"), data)
}

func TestRun_Formats(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		code, stdout, stderr := execRun(t, testFs(t), "--format", "json", "floppy.img", "hello.txt")
		require.Equal(t, exitOK, code, stderr)

		var got struct {
			Label   string `json:"label"`
			Entries []struct {
				Name string `json:"name"`
			} `json:"entries"`
			File struct {
				ShortName string `json:"shortName"`
				Read      int    `json:"read"`
				Content   string `json:"content"`
			} `json:"file"`
		}
		require.NoError(t, json.Unmarshal([]byte(stdout), &got))
		assert.Equal(t, "TESTDISK", got.Label)
		assert.Len(t, got.Entries, 4)
		assert.Equal(t, "HELLO   TXT", got.File.ShortName)
		assert.Equal(t, 6, got.File.Read)
		assert.Equal(t, "Hello<01>", got.File.Content)
	})

	t.Run("yaml truncated", func(t *testing.T) {
		code, stdout, stderr := execRun(t, testFs(t), "--format", "yaml", "floppy.img", "short.bin")
		require.Equal(t, exitOK, code, stderr)

		var got map[string]interface{}
		require.NoError(t, yaml.Unmarshal([]byte(stdout), &got))

		file := got["file"].(map[string]interface{})
		assert.Equal(t, true, file["truncated"])
		assert.Equal(t, 512, file["read"])
		assert.Equal(t, 1024, file["size"])
	})
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{err: nil, want: exitOK},
		{err: errors.New("unknown flag"), want: exitInvalidArguments},
		{err: fmt.Errorf("wrapped: %w", fat12.ErrReadBootSector), want: exitBootSector},
		{err: fat12.ErrLoadFAT, want: exitFAT},
		{err: fat12.ErrLoadRootDirectory, want: exitRootDirectory},
		{err: fmt.Errorf("%w: too long", fat12.ErrInvalidName), want: exitInvalidArguments},
		{err: fat12.ErrNotARegularFile, want: exitFileNotFound},
		{err: fat12.ErrReadFile, want: exitReadFile},
	}
	for _, tt := range tests {
		if got := exitCode(tt.err); got != tt.want {
			t.Errorf("exitCode(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
