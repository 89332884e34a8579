package users

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/amp-labs/amp-snippets/closer"
	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Format is the structured syntax of a users file.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

// Compression is the container a users file is wrapped in.
type Compression string

const (
	None   Compression = "none"
	Gzip   Compression = "gzip"
	Zstd   Compression = "zstd"
	Brotli Compression = "brotli"
	LZ4    Compression = "lz4"
	// S2 also reads framed Snappy streams.
	S2 Compression = "s2"
)

var compressionSuffixes = map[string]Compression{ //nolint:gochecknoglobals
	".gz":   Gzip,
	".zst":  Zstd,
	".zstd": Zstd,
	".br":   Brotli,
	".lz4":  LZ4,
	".s2":   S2,
	".sz":   S2,
}

// CompressionFromPath picks the compression from the last extension of path.
func CompressionFromPath(path string) Compression {
	if c, ok := compressionSuffixes[strings.ToLower(filepath.Ext(path))]; ok {
		return c
	}

	return None
}

// FormatFromPath picks the format from the extension of path, looking past a
// compression suffix ("users.yaml.gz" is YAML). Anything that isn't .yaml or .yml is JSON.
func FormatFromPath(path string) Format {
	if CompressionFromPath(path) != None {
		path = strings.TrimSuffix(path, filepath.Ext(path))
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	default:
		return JSON
	}
}

// decompress wraps r in a decoder for c. Closing the result releases the decoder
// but not r.
func decompress(r io.Reader, c Compression) (io.ReadCloser, error) {
	switch c {
	case None:
		return io.NopCloser(r), nil
	case Gzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, err
		}

		return zr, nil
	case Zstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}

		return closer.ForReader(dec, closer.CustomCloser(func() error {
			dec.Close()

			return nil
		})), nil
	case Brotli:
		return io.NopCloser(brotli.NewReader(r)), nil
	case LZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	case S2:
		return io.NopCloser(s2.NewReader(r)), nil
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownCompression, c)
	}
}
