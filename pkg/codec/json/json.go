// Package json is a generic codec.Codec backed by stdlib encoding/json.
// No pack example reaches for a richer JSON library for simple value
// encoding, so this part is deliberately stdlib.
package json

import "encoding/json"

// Codec marshals/unmarshals values of type T as JSON.
type Codec[T any] struct{}

// Encode marshals v.
func (Codec[T]) Encode(v T) ([]byte, error) { return json.Marshal(v) }

// Decode unmarshals b into a T.
func (Codec[T]) Decode(b []byte) (T, error) {
	var v T
	err := json.Unmarshal(b, &v)
	return v, err
}
