// Package format renders charts, traces and derivation trees as text or
// JSON.
package format

// Encoder writes values of type T to an underlying writer.
type Encoder[T any] interface {
	Encode(v T) error
	MarshalText(v T) ([]byte, error)
}
