package fat12

import "errors"

// Causes. Every error returned by this package matches one of them.
var (
	ErrIORead              = errors.New("could not read from the image")
	ErrMalformedBootSector = errors.New("boot sector is shorter than the fixed header")
	ErrInvalidGeometry     = errors.New("boot sector describes an invalid geometry")
	ErrInvalidName         = errors.New("name cannot be a short name")
	ErrFileNotFound        = errors.New("file not found in the root directory")
	ErrNotARegularFile     = errors.New("entry is a directory or a volume label")
	ErrBadCluster          = errors.New("cluster chain hit a bad cluster")
	ErrTruncatedFile       = errors.New("cluster chain ended before the file size was reached")
	ErrInvalidCluster      = errors.New("cluster number is outside of the data region")
	ErrClusterLoop         = errors.New("cluster chain loops")
)

// Stages. They are wrapped around the causes above to tell where an extraction failed.
var (
	ErrReadBootSector    = errors.New("could not read the boot sector")
	ErrLoadFAT           = errors.New("could not load the FAT")
	ErrLoadRootDirectory = errors.New("could not load the root directory")
	ErrReadFile          = errors.New("could not read file completely")
)
