package fat12

import (
	"fmt"

	"github.com/aligator/fat12/checkpoint"
)

// ReadChain assembles size bytes of file data by following the cluster chain
// that begins at start.
//
// Bytes of the last cluster past size are never copied. Once size bytes are
// assembled the remaining links are still followed, without reading data, so a
// bad or broken tail fails the read. If the chain ends early, the bytes read so
// far are returned together with an error matching ErrTruncatedFile. Any other
// error discards the partial data.
func ReadChain(r SectorReader, fat *FatTable, layout Layout, start uint16, size uint32) ([]byte, error) {
	if size == 0 {
		return []byte{}, nil
	}

	out := make([]byte, size)

	// Highest cluster that is both addressable by FAT12 and present in the table.
	last := int(LastDataCluster)
	if n := fat.Len() - 1; n < last {
		last = n
	}

	visited := make(map[uint16]struct{})
	produced := uint32(0)
	current := start

	for {
		if current < FirstDataCluster || int(current) > last {
			return nil, checkpoint.Wrap(fmt.Errorf("%w: chain references cluster %d", ErrInvalidCluster, current), ErrReadFile)
		}

		if _, ok := visited[current]; ok {
			return nil, checkpoint.Wrap(fmt.Errorf("%w: cluster %d visited twice", ErrClusterLoop, current), ErrReadFile)
		}
		visited[current] = struct{}{}

		if produced < size {
			n, err := readCluster(r, layout, current, out[produced:])
			if err != nil {
				return nil, checkpoint.Wrap(err, ErrReadFile)
			}
			produced += n
		}

		link, err := fat.NextCluster(current)
		if err != nil {
			return nil, checkpoint.Wrap(err, ErrReadFile)
		}

		switch link.Kind {
		case LinkBadCluster:
			return nil, checkpoint.Wrap(fmt.Errorf("%w: after cluster %d", ErrBadCluster, current), ErrReadFile)
		case LinkEndOfChain:
			if produced < size {
				return out[:produced], checkpoint.Wrap(fmt.Errorf("%w: got %d of %d bytes", ErrTruncatedFile, produced, size), ErrReadFile)
			}
			return out, nil
		default:
			current = link.Next
		}
	}
}

// readCluster copies the start of cluster c into dst, at most one cluster.
func readCluster(r SectorReader, layout Layout, c uint16, dst []byte) (uint32, error) {
	lba, err := layout.ClusterToLBA(c)
	if err != nil {
		return 0, err
	}

	data, err := r.ReadSectors(lba, layout.SectorsPerCluster)
	if err != nil {
		return 0, err
	}

	n := uint32(len(dst))
	if clusterSize := layout.ClusterSize(); n > clusterSize {
		n = clusterSize
	}
	if int(n) > len(data) {
		return 0, fmt.Errorf("%w: cluster %d returned %d bytes", ErrIORead, c, len(data))
	}

	return uint32(copy(dst[:n], data[:n])), nil
}
