package diff

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
)

// SizeMismatchError is returned when two images cannot be compared pixel by
// pixel because their dimensions differ.
type SizeMismatchError struct {
	A, B image.Point
}

func (e *SizeMismatchError) Error() string {
	return fmt.Sprintf("image size mismatch: %dx%d vs %dx%d", e.A.X, e.A.Y, e.B.X, e.B.Y)
}

// pixelThreshold is the squared per-pixel RGB distance (16-bit channels,
// normalized) above which a pixel counts as different. Fixed at 5% of the
// maximum distance.
const pixelThreshold = 0.05 * 0.05

// highlight is the accent colour for differing pixels in the annotated
// output image.
var highlight = color.RGBA{R: 220, G: 38, B: 38, A: 255}

// ImageResult is the outcome of a visual diff.
type ImageResult struct {
	DiffPixels  int
	TotalPixels int
	MismatchPct float64
	// Annotated is a dimmed copy of the first input with differing pixels
	// drawn in the accent colour.
	Annotated *image.RGBA
}

// Images compares two equally-sized images pixel by pixel. Identical images
// yield a 0% mismatch.
func Images(a, b image.Image) (*ImageResult, error) {
	ab, bb := a.Bounds(), b.Bounds()
	if ab.Dx() != bb.Dx() || ab.Dy() != bb.Dy() {
		return nil, &SizeMismatchError{A: ab.Size(), B: bb.Size()}
	}

	annotated := image.NewRGBA(image.Rect(0, 0, ab.Dx(), ab.Dy()))
	draw.Draw(annotated, annotated.Bounds(), a, ab.Min, draw.Src)
	dim(annotated)

	res := &ImageResult{TotalPixels: ab.Dx() * ab.Dy(), Annotated: annotated}
	for y := 0; y < ab.Dy(); y++ {
		for x := 0; x < ab.Dx(); x++ {
			ca := a.At(ab.Min.X+x, ab.Min.Y+y)
			cb := b.At(bb.Min.X+x, bb.Min.Y+y)
			if pixelsDiffer(ca, cb) {
				res.DiffPixels++
				annotated.SetRGBA(x, y, highlight)
			}
		}
	}
	if res.TotalPixels > 0 {
		res.MismatchPct = float64(res.DiffPixels) / float64(res.TotalPixels) * 100
	}
	return res, nil
}

// pixelsDiffer applies the fixed colour-distance threshold.
func pixelsDiffer(a, b color.Color) bool {
	ar, ag, ab_, _ := a.RGBA()
	br, bg, bb, _ := b.RGBA()
	dr := (float64(ar) - float64(br)) / 0xffff
	dg := (float64(ag) - float64(bg)) / 0xffff
	db := (float64(ab_) - float64(bb)) / 0xffff
	return (dr*dr+dg*dg+db*db)/3 > pixelThreshold
}

// dim darkens every pixel so highlighted differences stand out.
func dim(img *image.RGBA) {
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] /= 3
		img.Pix[i+1] /= 3
		img.Pix[i+2] /= 3
	}
}

// LoadPNG reads a PNG image from path. Bytes are read literally: no implicit
// normalization is applied to baselines.
func LoadPNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// SavePNG writes img to path as PNG.
func SavePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
