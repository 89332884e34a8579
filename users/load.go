package users

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/amp-labs/amp-snippets/closer"
	"github.com/amp-labs/amp-snippets/errors"
	"github.com/amp-labs/amp-snippets/logger"
	"github.com/amp-labs/amp-snippets/using"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gopkg.in/yaml.v3"
)

const tracerName = "github.com/amp-labs/amp-snippets/users"

var (
	errMissingField       = stderrors.New("missing field")
	errWrongFieldType     = stderrors.New("wrong field type")
	errNotSequence        = stderrors.New("expected a sequence of user records")
	errNotMapping         = stderrors.New("expected a user record mapping")
	errTrailingData       = stderrors.New("unexpected data after the user sequence")
	errUnknownCompression = stderrors.New("unknown compression")
	errUnknownFormat      = stderrors.New("unknown format")
)

// Load reads every user record from the file at path. The format and compression are
// picked from the file name (see FormatFromPath and CompressionFromPath). The file is
// closed before Load returns, whatever the outcome.
//
// A missing or unreadable file yields *errors.IOError; malformed content, including a
// record without a usable "age" or "city", yields *errors.ParseError.
func Load(ctx context.Context, path string) ([]User, error) {
	format := FormatFromPath(path)
	compression := CompressionFromPath(path)

	ctx, span := otel.Tracer(tracerName).Start(ctx, "users.Load", trace.WithAttributes(
		attribute.String("path", path),
		attribute.String("format", string(format)),
		attribute.String("compression", string(compression)),
	))
	defer span.End()

	ctx = logger.With(ctx, "path", path, "format", format, "compression", compression)

	records, err := using.Apply(openBody(path, compression), func(body io.Reader) ([]User, error) {
		raw, err := io.ReadAll(body)
		if err != nil {
			if compression == None {
				return nil, &errors.IOError{Path: path, Err: err}
			}

			// A corrupt compressed stream surfaces as a read error.
			return nil, &errors.ParseError{Path: path, Index: -1, Err: err}
		}

		return decode(ctx, path, raw, format)
	})
	if err != nil {
		err = classify(path, err)
		loadErrors.WithLabelValues(errorKind(err)).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, errorKind(err))

		return nil, logger.AnnotateError(err, "path", path, "format", format, "compression", compression)
	}

	usersLoaded.WithLabelValues(string(format)).Add(float64(len(records)))
	span.SetAttributes(attribute.Int("records", len(records)))

	return records, nil
}

// openBody opens path and wraps it in the decoder for compression. Closing the
// resource closes the decoder and then the file, collecting both errors.
func openBody(path string, compression Compression) *using.Resource[io.Reader] {
	return using.NewResource(func() (io.Reader, using.Closer, error) {
		f, err := os.Open(path) //nolint:gosec // Path is supplied by the caller
		if err != nil {
			return nil, nil, &errors.IOError{Path: path, Err: err}
		}

		body, err := decompress(f, compression)
		if err != nil {
			return nil, nil, stderrors.Join(
				&errors.ParseError{Path: path, Index: -1, Err: err},
				f.Close(),
			)
		}

		return body, using.WrapCloser(closer.NewCloser(body, f)), nil
	})
}

// Decode parses user records from r. Unlike Load it does no decompression.
func Decode(ctx context.Context, r io.Reader, format Format) ([]User, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		err = &errors.IOError{Err: err}
		loadErrors.WithLabelValues(errorKind(err)).Inc()

		return nil, err
	}

	records, err := decode(ctx, "", raw, format)
	if err != nil {
		loadErrors.WithLabelValues(errorKind(err)).Inc()

		return nil, err
	}

	usersLoaded.WithLabelValues(string(format)).Add(float64(len(records)))

	return records, nil
}

func decode(ctx context.Context, path string, raw []byte, format Format) ([]User, error) {
	data, detected := toUTF8(raw)

	var (
		doc any
		err error
	)

	switch format {
	case JSON:
		doc, err = decodeJSON(data)
	case YAML:
		doc, err = decodeYAML(data)
	default:
		err = fmt.Errorf("%w: %q", errUnknownFormat, format)
	}

	if err != nil {
		return nil, &errors.ParseError{Path: path, Index: -1, Err: err}
	}

	records, err := toUsers(path, doc)
	if err != nil {
		return nil, err
	}

	logger.Get(ctx).Debug("loaded users", "charset", detected, "records", len(records))

	return records, nil
}

func decodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}

	if _, err := dec.Token(); !stderrors.Is(err, io.EOF) {
		return nil, errTrailingData
	}

	return doc, nil
}

func decodeYAML(data []byte) (any, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	return doc, nil
}

func toUsers(path string, doc any) ([]User, error) {
	items, ok := doc.([]any)
	if !ok {
		return nil, &errors.ParseError{Path: path, Index: -1, Err: fmt.Errorf("%w, got %T", errNotSequence, doc)}
	}

	records := make([]User, 0, len(items))

	for i, item := range items {
		record, ok := toRecord(item)
		if !ok {
			return nil, &errors.ParseError{Path: path, Index: i, Err: fmt.Errorf("%w, got %T", errNotMapping, item)}
		}

		if err := record.validate(); err != nil {
			return nil, &errors.ParseError{Path: path, Index: i, Err: err}
		}

		records = append(records, record)
	}

	return records, nil
}

// toRecord accepts both mapping shapes yaml.v3 can produce.
func toRecord(item any) (User, bool) {
	switch m := item.(type) {
	case map[string]any:
		return User(m), true
	case map[any]any:
		record := make(User, len(m))
		for k, v := range m {
			record[fmt.Sprint(k)] = v
		}

		return record, true
	default:
		return nil, false
	}
}

// classify turns whatever escaped the scoped file read into the package's error taxonomy.
func classify(path string, err error) error {
	var parseErr *errors.ParseError
	if stderrors.As(err, &parseErr) {
		return err
	}

	var ioErr *errors.IOError
	if stderrors.As(err, &ioErr) {
		return err
	}

	return &errors.IOError{Path: path, Err: err}
}

func errorKind(err error) string {
	if stderrors.Is(err, errors.ErrParse) {
		return "parse"
	}

	return "io"
}
