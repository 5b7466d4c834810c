// Package raw is the identity codec for []byte payloads, mirroring
// original_source/api.rs's blanket Encodable impl for AsRef<[u8]>.
package raw

// Codec is a pass-through codec; no third-party library applies to
// encoding bytes as bytes.
type Codec struct{}

// Encode returns v unchanged.
func (Codec) Encode(v []byte) ([]byte, error) { return v, nil }

// Decode returns b unchanged.
func (Codec) Decode(b []byte) ([]byte, error) { return b, nil }
