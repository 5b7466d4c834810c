// Package dirpath implements the directory convention external to the
// core engine (spec.md §6): channels are located by numeric id under a
// root directory, the id split into high/low 32-bit hex components
// forming <root>/<hi>/<lo>.kekbit. Grounded on
// original_source/lib.rs's storage_path/shm_writer/shm_reader helpers.
package dirpath

import (
	"fmt"
	"path/filepath"
)

// For returns the resolved path for channelID under root, following
// the <root>/<hi>/<lo>.kekbit convention. The core engine itself only
// ever accepts an already-resolved path; this helper is the external
// boundary that produces one.
func For(root string, channelID uint64) string {
	hi := uint32(channelID >> 32)
	lo := uint32(channelID)
	return filepath.Join(root, fmt.Sprintf("%08X", hi), fmt.Sprintf("%08X.kekbit", lo))
}
