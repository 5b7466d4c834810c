// Package codec defines the boundary interface converting application
// values to and from byte slices, explicitly out of scope for the
// core engine per spec.md §1 ("the codec layer that converts
// application values to/from byte slices" is named as an external
// collaborator). Grounded on original_source/api.rs's Encodable trait
// and lib.rs's codecs module re-export.
package codec

// Codec converts a typed value to bytes and back, for use ahead of
// pkg/channel.Writer.Write and after pkg/channel.Reader.TryRead.
type Codec[T any] interface {
	Encode(v T) ([]byte, error)
	Decode(b []byte) (T, error)
}
