package icon

import (
	"fmt"
	"strconv"

	apperrors "github.com/louisbranch/icopack/internal/platform/errors"
)

// MaxDimension is the largest edge an ICO directory entry can describe.
const MaxDimension = 256

// Size is the pixel resolution of one embedded bitmap.
type Size struct {
	Width  int
	Height int
}

// Square returns a Size with equal edges.
func Square(edge int) Size {
	return Size{Width: edge, Height: edge}
}

// String formats the size as WIDTHxHEIGHT.
func (s Size) String() string {
	return strconv.Itoa(s.Width) + "x" + strconv.Itoa(s.Height)
}

// DefaultSizes returns the resolutions embedded in an application icon,
// largest first. Callers own the returned slice.
func DefaultSizes() []Size {
	return []Size{Square(256), Square(128), Square(64), Square(48), Square(32), Square(16)}
}

// SquareSizes converts edge lengths into square sizes, preserving order.
func SquareSizes(edges []int) []Size {
	sizes := make([]Size, 0, len(edges))
	for _, edge := range edges {
		sizes = append(sizes, Square(edge))
	}
	return sizes
}

// ValidateSizes checks that the list is non-empty and that every dimension
// fits an ICO directory entry. Duplicates are allowed.
func ValidateSizes(sizes []Size) error {
	if len(sizes) == 0 {
		return apperrors.New(apperrors.CodeInvalidSizeList, "size list is empty")
	}
	for i, s := range sizes {
		if s.Width <= 0 || s.Height <= 0 || s.Width > MaxDimension || s.Height > MaxDimension {
			return apperrors.WithMetadata(
				apperrors.CodeInvalidSizeList,
				fmt.Sprintf("size %d (%s) must be within 1..%d", i, s, MaxDimension),
				map[string]string{"Size": s.String()},
			)
		}
	}
	return nil
}
