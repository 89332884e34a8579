package users

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/amp-labs/amp-snippets/errors"
	"github.com/amp-labs/amp-snippets/logger"
	"github.com/amp-labs/amp-snippets/using"
	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
	"github.com/neilotoole/slogt"
	"github.com/pierrec/lz4/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

const usersJSON = `[
  {"name": "Ann", "age": 25, "city": "New York", "tags": ["admin"]},
  {"name": "Bob", "age": 17, "city": "Boston"},
  {"name": "Cid", "age": 40, "city": "new york", "email": null}
]`

const usersYAML = `
- name: Ann
  age: 25
  city: New York
  tags: [admin]
- name: Bob
  age: 17
  city: Boston
- name: Cid
  age: 40
  city: new york
  email: null
`

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	return path
}

func testContext(t *testing.T) context.Context {
	t.Helper()

	return logger.WithLogger(t.Context(), slogt.New(t))
}

func compress(t *testing.T, c Compression, data []byte) []byte {
	t.Helper()

	var buf bytes.Buffer

	switch c {
	case Gzip:
		w := gzip.NewWriter(&buf)
		_, err := w.Write(data)
		require.NoError(t, err)
		require.NoError(t, w.Close())
	case Zstd:
		enc, err := zstd.NewWriter(nil)
		require.NoError(t, err)
		buf.Write(enc.EncodeAll(data, nil))
		require.NoError(t, enc.Close())
	case Brotli:
		w := brotli.NewWriter(&buf)
		_, err := w.Write(data)
		require.NoError(t, err)
		require.NoError(t, w.Close())
	case LZ4:
		w := lz4.NewWriter(&buf)
		_, err := w.Write(data)
		require.NoError(t, err)
		require.NoError(t, w.Close())
	case S2:
		w := s2.NewWriter(&buf)
		_, err := w.Write(data)
		require.NoError(t, err)
		require.NoError(t, w.Close())
	case None:
		buf.Write(data)
	}

	return buf.Bytes()
}

func assertSample(t *testing.T, got []User) {
	t.Helper()

	require.Len(t, got, 3)
	assert.Equal(t, []string{"Ann", "Bob", "Cid"}, names(got))

	age, ok := got[2].Age()
	require.True(t, ok)
	assert.Equal(t, 40, age)

	city, ok := got[0].City()
	require.True(t, ok)
	assert.Equal(t, "New York", city)

	// Extra fields survive untouched.
	assert.Contains(t, got[0], "tags")
	assert.Contains(t, got[2], "email")
	assert.Nil(t, got[2]["email"])
}

func TestLoad_Formats(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		file string
		data string
	}{
		{name: "json", file: "users.json", data: usersJSON},
		{name: "yaml", file: "users.yaml", data: usersYAML},
		{name: "yml", file: "users.YML", data: usersYAML},
		{name: "no extension is json", file: "users", data: usersJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Load(testContext(t), writeFile(t, tt.file, []byte(tt.data)))
			require.NoError(t, err)
			assertSample(t, got)
		})
	}
}

func TestLoad_Compressed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		file        string
		compression Compression
		data        string
	}{
		{file: "users.json.gz", compression: Gzip, data: usersJSON},
		{file: "users.yaml.gz", compression: Gzip, data: usersYAML},
		{file: "users.json.zst", compression: Zstd, data: usersJSON},
		{file: "users.yml.zstd", compression: Zstd, data: usersYAML},
		{file: "users.json.br", compression: Brotli, data: usersJSON},
		{file: "users.json.lz4", compression: LZ4, data: usersJSON},
		{file: "users.yaml.s2", compression: S2, data: usersYAML},
		{file: "users.json.sz", compression: S2, data: usersJSON},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			t.Parallel()

			path := writeFile(t, tt.file, compress(t, tt.compression, []byte(tt.data)))

			got, err := Load(testContext(t), path)
			require.NoError(t, err)
			assertSample(t, got)
		})
	}
}

func TestLoad_CorruptCompressedStream(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "users.json.gz", []byte(usersJSON))

	_, err := Load(testContext(t), path)
	require.ErrorIs(t, err, errors.ErrParse)
}

func TestOpenBody_ClosesDecoderAndFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		file        string
		compression Compression
		closedErr   error
	}{
		{name: "plain file", file: "users.json", compression: None, closedErr: os.ErrClosed},
		{name: "zstd decoder", file: "users.json.zst", compression: Zstd, closedErr: zstd.ErrDecoderClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := writeFile(t, tt.file, compress(t, tt.compression, []byte(usersJSON)))

			var body io.Reader

			n, err := using.Apply(openBody(path, tt.compression), func(r io.Reader) (int, error) {
				body = r
				data, err := io.ReadAll(r)

				return len(data), err
			})
			require.NoError(t, err)
			assert.Len(t, usersJSON, n)

			_, err = body.Read(make([]byte, 1))
			require.ErrorIs(t, err, tt.closedErr)
		})
	}
}

func TestOpenBody_BadHeader(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "users.json.gz", []byte("not gzip"))

	_, err := using.Apply(openBody(path, Gzip), func(io.Reader) (int, error) {
		t.Fatal("should not be called")

		return 0, nil
	})

	var parseErr *errors.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, -1, parseErr.Index)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "missing.json")

	got, err := Load(testContext(t), path)
	require.Error(t, err)
	assert.Nil(t, got)

	var ioErr *errors.IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, path, ioErr.Path)
	require.ErrorIs(t, err, errors.ErrIO)
	require.ErrorIs(t, err, os.ErrNotExist)
	assert.NotErrorIs(t, err, errors.ErrParse)
}

func TestLoad_Directory(t *testing.T) {
	t.Parallel()

	_, err := Load(testContext(t), t.TempDir())
	require.ErrorIs(t, err, errors.ErrIO)
}

func TestLoad_ParseErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		file    string
		data    string
		index   int
		wantErr error
	}{
		{name: "malformed json", file: "u.json", data: `[{"age": 30,`, index: -1},
		{name: "malformed yaml", file: "u.yaml", data: "- age: [30\n", index: -1},
		{name: "empty file", file: "u.json", data: "", index: -1},
		{name: "empty yaml", file: "u.yaml", data: "", index: -1, wantErr: errNotSequence},
		{name: "top level object", file: "u.json", data: `{"age": 30, "city": "Boston"}`, index: -1, wantErr: errNotSequence},
		{name: "json null", file: "u.json", data: `null`, index: -1, wantErr: errNotSequence},
		{name: "trailing data", file: "u.json", data: `[] []`, index: -1, wantErr: errTrailingData},
		{name: "record not a mapping", file: "u.json", data: `[{"age": 1, "city": "x"}, 5]`, index: 1, wantErr: errNotMapping},
		{name: "missing age", file: "u.json", data: `[{"city": "Boston"}]`, index: 0, wantErr: errMissingField},
		{name: "missing city", file: "u.yaml", data: "- age: 3\n  city: x\n- age: 4\n", index: 1, wantErr: errMissingField},
		{name: "string age", file: "u.json", data: `[{"age": "30", "city": "Boston"}]`, index: 0, wantErr: errWrongFieldType},
		{name: "fractional age", file: "u.json", data: `[{"age": 30.5, "city": "Boston"}]`, index: 0, wantErr: errWrongFieldType},
		{name: "age past max int json", file: "u.json", data: `[{"age": 9223372036854775808, "city": "X"}]`, index: 0, wantErr: errWrongFieldType},
		{name: "age past max int yaml", file: "u.yaml", data: "- age: 9223372036854775808\n  city: X\n", index: 0, wantErr: errWrongFieldType},
		{name: "numeric city", file: "u.json", data: `[{"age": 30, "city": 10001}]`, index: 0, wantErr: errWrongFieldType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := writeFile(t, tt.file, []byte(tt.data))

			_, err := Load(testContext(t), path)
			require.ErrorIs(t, err, errors.ErrParse)
			assert.NotErrorIs(t, err, errors.ErrIO)

			var parseErr *errors.ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, path, parseErr.Path)
			assert.Equal(t, tt.index, parseErr.Index)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestLoad_YAMLNonStringKeys(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "u.yaml", []byte("- age: 30\n  city: Boston\n  1: one\n"))

	got, err := Load(testContext(t), path)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "one", got[0]["1"])
}

func TestLoad_Charsets(t *testing.T) {
	t.Parallel()

	t.Run("utf-8 with bom", func(t *testing.T) {
		t.Parallel()

		data := append([]byte{0xEF, 0xBB, 0xBF}, usersJSON...)

		got, err := Load(testContext(t), writeFile(t, "users.json", data))
		require.NoError(t, err)
		assertSample(t, got)
	})

	t.Run("utf-16le with bom", func(t *testing.T) {
		t.Parallel()

		enc := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
		data, err := enc.Bytes([]byte(usersJSON))
		require.NoError(t, err)

		got, err := Load(testContext(t), writeFile(t, "users.json", data))
		require.NoError(t, err)
		assertSample(t, got)
	})

	t.Run("latin-1", func(t *testing.T) {
		t.Parallel()

		text := `[
  {"name": "José Conceição", "age": 33, "city": "São Paulo", "bio": "Été à Montréal, café crème, déjà vu, façade, garçon, naïve, rôle."},
  {"name": "François Lefèvre", "age": 51, "city": "Genève", "bio": "Très bien, élève modèle, où est la bibliothèque?"}
]`

		data, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(text))
		require.NoError(t, err)
		require.False(t, utf8.Valid(data))

		got, err := Load(testContext(t), writeFile(t, "users.json", data))
		require.NoError(t, err)
		require.Len(t, got, 2)

		city, ok := got[0].City()
		require.True(t, ok)
		assert.True(t, utf8.ValidString(city))
	})
}

func TestDecode(t *testing.T) {
	t.Parallel()

	got, err := Decode(testContext(t), strings.NewReader(usersYAML), YAML)
	require.NoError(t, err)
	assertSample(t, got)

	_, err = Decode(testContext(t), strings.NewReader(usersJSON), Format("toml"))
	require.ErrorIs(t, err, errors.ErrParse)
	require.ErrorIs(t, err, errUnknownFormat)

	var parseErr *errors.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Empty(t, parseErr.Path)
}

func TestLoad_JSONNumbersKeepTheirText(t *testing.T) {
	t.Parallel()

	got, err := Load(testContext(t), writeFile(t, "users.json", []byte(`[{"age": 30, "city": "x", "id": 12345678901234567890}]`)))
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, json.Number("12345678901234567890"), got[0]["id"])
}

func TestFormatAndCompressionFromPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path        string
		format      Format
		compression Compression
	}{
		{path: "users.json", format: JSON, compression: None},
		{path: "users.yaml", format: YAML, compression: None},
		{path: "dir.v2/users.yml", format: YAML, compression: None},
		{path: "users.yaml.gz", format: YAML, compression: Gzip},
		{path: "users.JSON.ZST", format: JSON, compression: Zstd},
		{path: "users.yml.zstd", format: YAML, compression: Zstd},
		{path: "users.br", format: JSON, compression: Brotli},
		{path: "users.yaml.lz4", format: YAML, compression: LZ4},
		{path: "users.json.sz", format: JSON, compression: S2},
		{path: "users.txt", format: JSON, compression: None},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.format, FormatFromPath(tt.path))
			assert.Equal(t, tt.compression, CompressionFromPath(tt.path))
		})
	}
}

func TestMetrics(t *testing.T) { //nolint:paralleltest
	loadedBefore := testutil.ToFloat64(usersLoaded.WithLabelValues(string(JSON)))
	ioBefore := testutil.ToFloat64(loadErrors.WithLabelValues("io"))
	parseBefore := testutil.ToFloat64(loadErrors.WithLabelValues("parse"))
	evaluatedBefore := testutil.ToFloat64(filterEvaluated)
	keptBefore := testutil.ToFloat64(filterKept)

	ctx := testContext(t)

	all, err := Load(ctx, writeFile(t, "users.json", []byte(usersJSON)))
	require.NoError(t, err)

	_, err = Load(ctx, filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)

	_, err = Load(ctx, writeFile(t, "bad.json", []byte("{")))
	require.Error(t, err)

	Filter(all, WithCity("new york"))

	assert.InDelta(t, 3, testutil.ToFloat64(usersLoaded.WithLabelValues(string(JSON)))-loadedBefore, 0)
	assert.InDelta(t, 1, testutil.ToFloat64(loadErrors.WithLabelValues("io"))-ioBefore, 0)
	assert.InDelta(t, 1, testutil.ToFloat64(loadErrors.WithLabelValues("parse"))-parseBefore, 0)
	assert.InDelta(t, 3, testutil.ToFloat64(filterEvaluated)-evaluatedBefore, 0)
	assert.InDelta(t, 2, testutil.ToFloat64(filterKept)-keptBefore, 0)
}

func TestLoad_Span(t *testing.T) { //nolint:paralleltest
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)

	t.Cleanup(func() {
		otel.SetTracerProvider(previous)
		_ = provider.Shutdown(context.Background())
	})

	ctx := testContext(t)

	_, err := Load(ctx, writeFile(t, "users.yaml", []byte(usersYAML)))
	require.NoError(t, err)

	_, err = Load(ctx, filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 2)

	ok, failed := spans[0], spans[1]

	assert.Equal(t, "users.Load", ok.Name())
	assert.Contains(t, ok.Attributes(), attribute.String("format", "yaml"))
	assert.Contains(t, ok.Attributes(), attribute.Int("records", 3))
	assert.Equal(t, codes.Unset, ok.Status().Code)

	assert.Equal(t, codes.Error, failed.Status().Code)
	assert.Equal(t, "io", failed.Status().Description)
	require.Len(t, failed.Events(), 1)
	assert.Equal(t, "exception", failed.Events()[0].Name)
}
