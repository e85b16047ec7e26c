package main

import (
	"errors"

	"github.com/aligator/fat12"
)

// Exit codes of the tool. Negative values end up as 256 + code.
const (
	exitOK               = 0
	exitInvalidArguments = -1
	exitBootSector       = -2
	exitFAT              = -3
	exitRootDirectory    = -4
	exitFileNotFound     = -5
	exitReadFile         = -6
)

var exitCodes = []struct {
	err  error
	code int
}{
	{fat12.ErrInvalidName, exitInvalidArguments},
	{fat12.ErrReadBootSector, exitBootSector},
	{fat12.ErrLoadFAT, exitFAT},
	{fat12.ErrLoadRootDirectory, exitRootDirectory},
	{fat12.ErrFileNotFound, exitFileNotFound},
	{fat12.ErrNotARegularFile, exitFileNotFound},
	{fat12.ErrReadFile, exitReadFile},
}

// exitCode maps err to the stage it failed in. Everything else is an
// argument or image access problem.
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}

	for _, c := range exitCodes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}

	return exitInvalidArguments
}
