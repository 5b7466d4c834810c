// Package mmap implements the mapped-region manager (C3): creating a
// file of exact length, mapping it read-write or read-only, and
// guaranteeing the mapping and descriptor are released on Close.
//
// Grounded on marmos91-dittofs/pkg/wal/mmap.go's create-vs-open split
// and unix.Mmap/Munmap/Msync usage, adapted from a mutex-guarded
// append-log persister into a thin region handle with no internal
// locking of its own — the lock discipline belongs to pkg/channel.
package mmap

import (
	"errors"
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// ErrMappingInconsistent is returned when an existing file's length
// disagrees with the length the caller expects to map.
var ErrMappingInconsistent = errors.New("mmap: file length inconsistent with expected size")

// ErrAlignment is returned when the runtime cannot guarantee aligned
// atomic access into the mapped region (see SPEC_FULL.md §1, the
// cross-platform atomicity open question).
var ErrAlignment = errors.New("mmap: platform does not guarantee aligned atomic access to mapped memory")

const word32Align = 4

// Region is a single-owner handle over a memory-mapped file.
type Region struct {
	path     string
	file     *os.File
	data     []byte
	writable bool
}

// Create makes a new file of exactly size bytes (it must not already
// exist) and maps it read-write. The file is zero-filled, matching
// spec.md §3's "record region is implicitly all zeros" requirement.
func Create(path string, size int64) (*Region, error) {
	if uintptr(unsafe.Alignof(uint32(0))) > word32Align {
		return nil, ErrAlignment
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("mmap: create: %w", err)
	}
	if err := f.Truncate(size); err != nil {
		f.Close()
		os.Remove(path)
		return nil, fmt.Errorf("mmap: truncate: %w", err)
	}
	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		os.Remove(path)
		return nil, fmt.Errorf("mmap: map: %w", err)
	}
	return &Region{path: path, file: f, data: data, writable: true}, nil
}

// Open maps an existing file. If wantSize is nonzero, the file's
// actual length must match it exactly or ErrMappingInconsistent is
// returned (spec.md §4.3).
func Open(path string, wantSize int64, writable bool) (*Region, error) {
	flag := os.O_RDONLY
	prot := unix.PROT_READ
	if writable {
		flag = os.O_RDWR
		prot |= unix.PROT_WRITE
	}
	f, err := os.OpenFile(path, flag, 0)
	if err != nil {
		return nil, fmt.Errorf("mmap: open: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("mmap: stat: %w", err)
	}
	if wantSize != 0 && info.Size() != wantSize {
		f.Close()
		return nil, ErrMappingInconsistent
	}
	data, err := unix.Mmap(int(f.Fd()), 0, int(info.Size()), prot, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("mmap: map: %w", err)
	}
	return &Region{path: path, file: f, data: data, writable: writable}, nil
}

// Bytes returns the full mapped region for direct access by the
// channel engine. Callers must only mutate it through atomic
// primitives at record boundaries (pkg/record).
func (r *Region) Bytes() []byte { return r.data }

// Path returns the backing file's path.
func (r *Region) Path() string { return r.path }

// Len returns the mapped region's length in bytes.
func (r *Region) Len() int { return len(r.data) }

// Fd returns the underlying file descriptor.
func (r *Region) Fd() uintptr { return r.file.Fd() }

// Flush asks the kernel to write back dirty pages in [off, off+n).
// async selects MS_ASYNC (schedules the writeback) vs MS_SYNC (blocks
// until complete).
func (r *Region) Flush(off, n int, async bool) error {
	if off < 0 || n < 0 || off+n > len(r.data) {
		return fmt.Errorf("mmap: flush range out of bounds")
	}
	flags := unix.MS_SYNC
	if async {
		flags = unix.MS_ASYNC
	}
	region := r.data
	if n != len(r.data) {
		region = r.data[off : off+n]
	}
	return unix.Msync(region, flags)
}

// Close flushes (if writable), unmaps, and closes the file descriptor.
// Safe to call from an error-recovery path; idempotent-ish in that a
// second Close on a nil region is a no-op via a nil receiver guard by
// callers, matching the "destruction releases on all exit paths"
// requirement in spec.md §5.
func (r *Region) Close() error {
	var errs []error
	if r.writable {
		if err := unix.Msync(r.data, unix.MS_SYNC); err != nil {
			errs = append(errs, err)
		}
	}
	if err := unix.Munmap(r.data); err != nil {
		errs = append(errs, err)
	}
	if err := r.file.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
