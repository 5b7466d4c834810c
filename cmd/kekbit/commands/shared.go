package commands

import (
	"encoding/binary"
	"time"

	"github.com/google/uuid"

	"kekbit.dev/kekbit/pkg/header"
)

// newCLIMetadata builds a header.Metadata for CLI-created channels: a
// fresh id derived from a random UUID, the current time, and no
// heartbeat timeout (the CLI's write command doesn't model liveness
// monitoring; create builds its own metadata with a timeout).
func newCLIMetadata(capacity, maxLen uint32) header.Metadata {
	u := uuid.New()
	return header.Metadata{
		ChannelID:    binary.BigEndian.Uint64(u[:8]),
		Capacity:     capacity,
		MaxRecordLen: maxLen,
		CreationNs:   uint64(time.Now().UnixNano()),
	}
}
