package cache

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/golang/snappy"
)

// ErrCorrupt is returned by Decompress for payloads it did not produce.
var ErrCorrupt = errors.New("corrupt cache payload")

// payloadMagic prefixes compressed payloads so stale entries written in
// another format are recognised instead of misdecoded.
var payloadMagic = []byte("cg1")

// Compress encodes data with snappy block compression.
func Compress(data []byte) []byte {
	out := make([]byte, len(payloadMagic), len(payloadMagic)+snappy.MaxEncodedLen(len(data)))
	copy(out, payloadMagic)
	return append(out, snappy.Encode(nil, data)...)
}

// Decompress reverses Compress.
func Decompress(data []byte) ([]byte, error) {
	if !bytes.HasPrefix(data, payloadMagic) {
		return nil, ErrCorrupt
	}
	out, err := snappy.Decode(nil, data[len(payloadMagic):])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return out, nil
}
