package record

import "unsafe"

// ptr32 returns a pointer to the 4 bytes at buf[off:off+4] suitable
// for atomic 32-bit access. Callers guarantee off is 8-byte (and
// therefore 4-byte) aligned relative to buf's start, which in turn is
// page-aligned via mmap, so the resulting pointer is naturally
// aligned for atomic.LoadUint32/StoreUint32.
func ptr32(buf []byte, off uint32) unsafe.Pointer {
	return unsafe.Pointer(&buf[off])
}
