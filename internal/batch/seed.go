package batch

import (
	"encoding/binary"
	"time"

	"github.com/cespare/xxhash/v2"
)

// JobSeed derives the deterministic seed for one job from the batch
// epoch and the job's index. Two jobs in the same batch never share a
// seed, and replaying with a pinned epoch reproduces every seed.
func JobSeed(epoch time.Time, index int) uint64 {
	var buf [16]byte
	binary.BigEndian.PutUint64(buf[0:8], uint64(epoch.UnixMilli()))
	binary.BigEndian.PutUint64(buf[8:16], uint64(index))
	return xxhash.Sum64(buf[:])
}
