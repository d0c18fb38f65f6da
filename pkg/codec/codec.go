// Package codec encodes cached values.
package codec

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// ErrCorrupt marks stored bytes that no longer decode into the requested type.
var ErrCorrupt = errors.New("corrupt cached value")

// Codec converts values to bytes and back.
type Codec interface {
	Name() string
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// New returns the codec registered under name.
func New(name string) (Codec, error) {
	switch name {
	case "", "json":
		return JSON{}, nil
	case "zstd":
		return NewZstd()
	default:
		return nil, fmt.Errorf("unknown codec %q", name)
	}
}

// JSON is the plain encoding/json codec.
type JSON struct{}

func (JSON) Name() string { return "json" }

func (JSON) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (JSON) Unmarshal(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return nil
}

// Zstd compresses JSON with zstandard. Encoder and decoder are safe for concurrent use through EncodeAll/DecodeAll.
type Zstd struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

func NewZstd() (*Zstd, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	return &Zstd{encoder: encoder, decoder: decoder}, nil
}

func (z *Zstd) Name() string { return "zstd" }

func (z *Zstd) Marshal(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return z.encoder.EncodeAll(raw, make([]byte, 0, len(raw)/2)), nil
}

func (z *Zstd) Unmarshal(data []byte, v any) error {
	raw, err := z.decoder.DecodeAll(data, nil)
	if err != nil {
		return fmt.Errorf("%w: decompress: %w", ErrCorrupt, err)
	}
	return JSON{}.Unmarshal(raw, v)
}
