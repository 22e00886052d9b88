// Package compression implements the optional on-disk codec for blob payloads.
package compression

import (
	"bytes"

	"github.com/klauspost/compress/zstd"
)

// MinSize is the smallest payload worth compressing.
const MinSize = 128

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// Compressor encodes payloads as zstd frames. A disabled Compressor passes
// data through unchanged.
type Compressor struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
	enabled bool
}

// NewCompressor returns a Compressor for level 1 (fastest) to 3 (best).
// Any other level selects the zstd default.
func NewCompressor(level int, enabled bool) (*Compressor, error) {
	if !enabled {
		return &Compressor{enabled: false}, nil
	}

	var encoderLevel zstd.EncoderLevel
	switch level {
	case 1:
		encoderLevel = zstd.SpeedFastest
	case 3:
		encoderLevel = zstd.SpeedBetterCompression
	default:
		encoderLevel = zstd.SpeedDefault
	}

	encoder, err := zstd.NewWriter(nil,
		zstd.WithEncoderLevel(encoderLevel),
		zstd.WithEncoderConcurrency(1),
	)
	if err != nil {
		return nil, err
	}

	decoder, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	if err != nil {
		encoder.Close()
		return nil, err
	}

	return &Compressor{
		encoder: encoder,
		decoder: decoder,
		enabled: true,
	}, nil
}

// Enabled reports whether payloads are compressed.
func (c *Compressor) Enabled() bool { return c.enabled }

// Compress returns the zstd frame for data, or data itself when compression
// is off, the payload is small, or the frame would not be smaller.
func (c *Compressor) Compress(data []byte) []byte {
	if !c.enabled || len(data) < MinSize {
		return data
	}

	compressed := c.encoder.EncodeAll(data, make([]byte, 0, len(data)))
	if len(compressed) >= len(data) {
		return data
	}
	return compressed
}

// Decompress reverses Compress. Payloads that are not zstd frames are
// returned as stored. Callers that may hold raw payloads which are
// themselves zstd frames must tell them apart before calling.
func (c *Compressor) Decompress(data []byte) ([]byte, error) {
	if !c.enabled || !bytes.HasPrefix(data, zstdMagic) {
		return data, nil
	}

	decompressed, err := c.decoder.DecodeAll(data, nil)
	if err != nil {
		// Raw content that happens to start with the magic bytes.
		return data, nil
	}
	return decompressed, nil
}

func (c *Compressor) Close() error {
	if c.encoder != nil {
		c.encoder.Close()
	}
	if c.decoder != nil {
		c.decoder.Close()
	}
	return nil
}
