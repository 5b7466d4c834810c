package mmap

import (
	"bytes"
	"path/filepath"
	"testing"
)

func TestCreateThenOpenRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "region.bin")
	r, err := Create(path, 4096)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if r.Len() != 4096 {
		t.Fatalf("Len() = %d, want 4096", r.Len())
	}
	if !bytes.Equal(r.Bytes(), make([]byte, 4096)) {
		t.Fatalf("new region not zero-filled")
	}
	copy(r.Bytes(), []byte("hi"))
	if err := r.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	r2, err := Open(path, 4096, true)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r2.Close()
	if string(r2.Bytes()[:2]) != "hi" {
		t.Fatalf("data did not persist across Close/Open")
	}
}

func TestCreateAlreadyExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "region.bin")
	r, err := Create(path, 4096)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer r.Close()

	if _, err := Create(path, 4096); err == nil {
		t.Fatal("expected error creating over an existing file")
	}
}

func TestOpenSizeMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "region.bin")
	r, err := Create(path, 4096)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	r.Close()

	if _, err := Open(path, 8192, false); err != ErrMappingInconsistent {
		t.Fatalf("err = %v, want ErrMappingInconsistent", err)
	}
}
