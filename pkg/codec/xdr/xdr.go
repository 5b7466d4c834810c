// Package xdr is a generic codec.Codec backed by rasky/go-xdr, the
// XDR (RFC 4506) encoding library also used by marmos91-dittofs's NFS
// protocol layer. Useful for payloads that must interoperate with
// other XDR-speaking systems rather than stay Go-only.
package xdr

import (
	"bytes"

	xdr "github.com/rasky/go-xdr/xdr2"
)

// Codec marshals/unmarshals values of type T via XDR. T must be a
// struct of XDR-representable fields (the shapes xdr2 supports via
// reflection: fixed-width ints, strings, slices, nested structs).
type Codec[T any] struct{}

// Encode marshals v into its XDR wire form.
func (Codec[T]) Encode(v T) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := xdr.Marshal(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode unmarshals b into a T.
func (Codec[T]) Decode(b []byte) (T, error) {
	var v T
	_, err := xdr.Unmarshal(bytes.NewReader(b), &v)
	return v, err
}
