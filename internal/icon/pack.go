package icon

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	apperrors "github.com/louisbranch/icopack/internal/platform/errors"
)

const tracerName = "github.com/louisbranch/icopack/internal/icon"

// outputPerm is applied to the finished icon; os.CreateTemp uses 0600.
const outputPerm fs.FileMode = 0o644

// Filesystem seams replaced in tests to simulate failures mid-write.
var (
	createTemp = os.CreateTemp
	renameFile = os.Rename
)

// Options configures one Pack run.
type Options struct {
	// Source is the raster image to read.
	Source string
	// Output is the .ico file to create or replace. Its directory must exist.
	Output string
	// Sizes lists the entries to embed, in container order.
	Sizes []Size
	// Filter selects the resampling algorithm; empty means DefaultFilter.
	Filter Filter
	// Logger receives one line per resampled size; nil discards.
	Logger *log.Logger
}

// Pack decodes opts.Source, resamples it to every size in opts.Sizes and
// atomically writes the resulting icon to opts.Output.
//
// Failures carry an apperrors code: INVALID_SIZE_LIST, INVALID_CONFIG,
// SOURCE_NOT_FOUND, DECODE_ERROR or WRITE_ERROR. On any failure the
// destination is left as it was.
func Pack(ctx context.Context, opts Options) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, span := otel.Tracer(tracerName).Start(ctx, "icon.Pack", trace.WithAttributes(
		attribute.String("icon.source", opts.Source),
		attribute.String("icon.output", opts.Output),
		attribute.Int("icon.sizes", len(opts.Sizes)),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, string(apperrors.GetCode(err)))
		}
		span.End()
	}()

	if err := ValidateSizes(opts.Sizes); err != nil {
		return err
	}
	filter, err := ParseFilter(string(opts.Filter))
	if err != nil {
		return err
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	src, err := decodeSource(ctx, opts.Source)
	if err != nil {
		return err
	}

	images, err := resampleAll(ctx, src, opts.Sizes, filter, logger)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := Encode(&buf, images); err != nil {
		return apperrors.WrapWithMetadata(apperrors.CodeWriteError, "encode icon",
			map[string]string{"Path": opts.Output}, err)
	}
	return writeAtomic(ctx, opts.Output, buf.Bytes(), opts.Sizes)
}

func decodeSource(ctx context.Context, path string) (image.Image, error) {
	_, span := otel.Tracer(tracerName).Start(ctx, "icon.decode")
	defer span.End()

	meta := map[string]string{"Path": path}
	info, err := os.Stat(path)
	if err != nil {
		return nil, apperrors.WrapWithMetadata(apperrors.CodeSourceNotFound, "stat source image", meta, err)
	}
	if info.IsDir() {
		return nil, apperrors.WithMetadata(apperrors.CodeSourceNotFound, "source image is a directory", meta)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.WrapWithMetadata(apperrors.CodeSourceNotFound, "open source image", meta, err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, apperrors.WrapWithMetadata(apperrors.CodeDecodeError, "decode source image", meta, err)
	}
	if b := img.Bounds(); b.Empty() {
		return nil, apperrors.WithMetadata(apperrors.CodeDecodeError, "source image has no pixels", meta)
	}
	span.SetAttributes(
		attribute.String("icon.format", format),
		attribute.Int("icon.width", img.Bounds().Dx()),
		attribute.Int("icon.height", img.Bounds().Dy()),
	)
	return img, nil
}

func resampleAll(ctx context.Context, src image.Image, sizes []Size, filter Filter, logger *log.Logger) ([]image.Image, error) {
	_, span := otel.Tracer(tracerName).Start(ctx, "icon.resample", trace.WithAttributes(
		attribute.String("icon.filter", string(filter)),
	))
	defer span.End()

	images := make([]image.Image, 0, len(sizes))
	for _, size := range sizes {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("resample: %w", err)
		}
		img, err := Resample(src, size, filter)
		if err != nil {
			return nil, err
		}
		logger.Printf("resampled %s with %s", size, filter)
		images = append(images, img)
	}
	return images, nil
}

// writeAtomic stages data next to path, checks the staged file parses back to
// the expected directory and renames it into place.
func writeAtomic(ctx context.Context, path string, data []byte, sizes []Size) (err error) {
	_, span := otel.Tracer(tracerName).Start(ctx, "icon.write", trace.WithAttributes(
		attribute.Int("icon.bytes", len(data)),
	))
	defer span.End()

	meta := map[string]string{"Path": path}
	wrap := func(message string, cause error) error {
		return apperrors.WrapWithMetadata(apperrors.CodeWriteError, message, meta, cause)
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("write icon: %w", err)
	}

	tmp, err := createTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return wrap("create temp icon", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return wrap("write temp icon", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return wrap("sync temp icon", err)
	}
	if err := tmp.Close(); err != nil {
		return wrap("close temp icon", err)
	}
	if err := verifyStaged(tmpName, sizes); err != nil {
		return wrap("verify temp icon", err)
	}
	if err := os.Chmod(tmpName, outputPerm); err != nil {
		return wrap("chmod temp icon", err)
	}
	if err := renameFile(tmpName, path); err != nil {
		return wrap("replace icon", err)
	}
	return nil
}

func verifyStaged(path string, sizes []Size) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	entries, err := ReadDirectory(data)
	if err != nil {
		return err
	}
	if len(entries) != len(sizes) {
		return fmt.Errorf("staged icon has %d entries, want %d", len(entries), len(sizes))
	}
	for i, e := range entries {
		if e.Width != sizes[i].Width || e.Height != sizes[i].Height {
			return fmt.Errorf("staged entry %d is %dx%d, want %s", i, e.Width, e.Height, sizes[i])
		}
	}
	return nil
}
