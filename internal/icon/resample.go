package icon

import (
	"fmt"
	"image"
	"sort"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
	xdraw "golang.org/x/image/draw"

	apperrors "github.com/louisbranch/icopack/internal/platform/errors"
)

// Filter names a resampling algorithm. Nearest-neighbor is not offered.
type Filter string

const (
	FilterCatmullRom Filter = "catmullrom"
	FilterBilinear   Filter = "bilinear"
	FilterLanczos    Filter = "lanczos"
	FilterMitchell   Filter = "mitchell"
)

// DefaultFilter is used when Options.Filter is empty.
const DefaultFilter = FilterCatmullRom

type resampleFunc func(src image.Image, size Size) *image.NRGBA

var resamplers = map[Filter]resampleFunc{
	FilterCatmullRom: kernelResampler(xdraw.CatmullRom),
	FilterBilinear:   kernelResampler(xdraw.BiLinear),
	FilterLanczos:    lanczosResample,
	FilterMitchell:   mitchellResample,
}

// Filters lists the supported filter names in sorted order.
func Filters() []Filter {
	out := make([]Filter, 0, len(resamplers))
	for f := range resamplers {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ParseFilter resolves a filter name case-insensitively. An empty name selects
// DefaultFilter.
func ParseFilter(name string) (Filter, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return DefaultFilter, nil
	}
	f := Filter(name)
	if _, ok := resamplers[f]; !ok {
		return "", apperrors.WithMetadata(
			apperrors.CodeInvalidConfig,
			fmt.Sprintf("unknown resampling filter %q (supported: %v)", name, Filters()),
			map[string]string{"Field": "filter"},
		)
	}
	return f, nil
}

// Resample produces a new NRGBA image of exactly size from src, keeping alpha.
func Resample(src image.Image, size Size, filter Filter) (*image.NRGBA, error) {
	if filter == "" {
		filter = DefaultFilter
	}
	fn, ok := resamplers[filter]
	if !ok {
		return nil, fmt.Errorf("unknown resampling filter %q", filter)
	}
	return fn(src, size), nil
}

func kernelResampler(k *xdraw.Kernel) resampleFunc {
	return func(src image.Image, size Size) *image.NRGBA {
		dst := image.NewNRGBA(image.Rect(0, 0, size.Width, size.Height))
		k.Scale(dst, dst.Rect, src, src.Bounds(), xdraw.Src, nil)
		return dst
	}
}

func lanczosResample(src image.Image, size Size) *image.NRGBA {
	return imaging.Resize(src, size.Width, size.Height, imaging.Lanczos)
}

func mitchellResample(src image.Image, size Size) *image.NRGBA {
	scaled := resize.Resize(uint(size.Width), uint(size.Height), src, resize.MitchellNetravali)
	return toNRGBA(scaled)
}

func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(dst, dst.Rect, img, b.Min, xdraw.Src)
	return dst
}
