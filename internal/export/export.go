// Package export writes rendered views of a world to image files.
package export

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/tiff"
	"golang.org/x/sync/errgroup"

	"worldengine/internal/core"
	"worldengine/internal/render"
)

// Format is an output image encoding.
type Format string

const (
	PNG  Format = "png"
	TIFF Format = "tiff"
)

// ParseFormat maps a name to a Format.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case PNG, TIFF:
		return f, nil
	case "tif":
		return TIFF, nil
	}
	return "", fmt.Errorf("%w: unknown image format %q", core.ErrInvalidArgument, name)
}

// Encode writes img to out in the given format.
func Encode(out io.Writer, img image.Image, f Format) error {
	switch f {
	case PNG:
		return png.Encode(out, img)
	case TIFF:
		return tiff.Encode(out, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	}
	return fmt.Errorf("%w: unknown image format %q", core.ErrInvalidArgument, f)
}

// Options controls a batch export.
type Options struct {
	Dir    string
	Format Format
	// Parallel bounds the number of views rendered at once; 0 means one per
	// mode.
	Parallel int
}

// FileName returns the file a view of w is written to.
func FileName(w *core.World, m render.Mode, f Format) string {
	return fmt.Sprintf("%s_%s.%s", w.Name, m, f)
}

// Write renders every mode of w and writes one file per mode into opts.Dir.
// It stops at the first failure and returns the paths written so far.
func Write(ctx context.Context, r *render.Renderer, w *core.World, modes []render.Mode, opts Options) ([]string, error) {
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, err
	}
	paths := make([]string, len(modes))
	g, ctx := errgroup.WithContext(ctx)
	if opts.Parallel > 0 {
		g.SetLimit(opts.Parallel)
	}
	for i, m := range modes {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			img, err := r.Image(w, m)
			if err != nil {
				return fmt.Errorf("render %s: %w", m, err)
			}
			path := filepath.Join(opts.Dir, FileName(w, m, opts.Format))
			if err := writeFile(path, img, opts.Format); err != nil {
				return fmt.Errorf("write %s: %w", m, err)
			}
			paths[i] = path
			return nil
		})
	}
	err := g.Wait()
	written := paths[:0]
	for _, p := range paths {
		if p != "" {
			written = append(written, p)
		}
	}
	return written, err
}

func writeFile(path string, img image.Image, f Format) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(out, img, f); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
