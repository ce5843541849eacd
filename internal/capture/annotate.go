package capture

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/fakeyudi/tauri-browse/internal/snapshot"
)

var (
	outlineColor = color.RGBA{R: 59, G: 130, B: 246, A: 128} // element bounds
	badgeColor   = color.RGBA{R: 220, G: 38, B: 38, A: 230}  // numbered badge
	badgeText    = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// Annotate draws a numbered badge and an outline box for each element over a
// copy of img. Badge numbers follow the elements' snapshot order, matching
// their @e tokens.
func Annotate(img image.Image, elements []snapshot.Descriptor) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)

	for i, el := range elements {
		r := el.Rect
		if r.W <= 0 || r.H <= 0 {
			continue
		}
		x, y := int(r.X), int(r.Y)
		w, h := int(r.W), int(r.H)
		drawOutline(out, x, y, w, h)
		drawBadge(out, x, y, fmt.Sprintf("%d", i+1))
	}
	return out
}

// AnnotateFile loads the PNG at path, annotates it, and writes it back.
func AnnotateFile(path string, elements []snapshot.Descriptor) error {
	img, err := loadPNG(path)
	if err != nil {
		return err
	}
	return savePNG(path, Annotate(img, elements))
}

func loadPNG(path string) (image.Image, error) {
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

// drawOutline draws a 1px rectangle outline, blended over the background.
func drawOutline(img *image.RGBA, x, y, w, h int) {
	for dx := 0; dx <= w; dx++ {
		blendSet(img, x+dx, y)
		blendSet(img, x+dx, y+h)
	}
	for dy := 0; dy <= h; dy++ {
		blendSet(img, x, y+dy)
		blendSet(img, x+w, y+dy)
	}
}

func blendSet(img *image.RGBA, x, y int) {
	if !(image.Point{X: x, Y: y}).In(img.Bounds()) {
		return
	}
	img.Set(x, y, blend(img.RGBAAt(x, y), outlineColor))
}

// blend does source-over compositing of src onto dst.
func blend(dst color.RGBA, src color.RGBA) color.RGBA {
	a := int(src.A)
	inv := 255 - a
	return color.RGBA{
		R: uint8((int(src.R)*a + int(dst.R)*inv) / 255),
		G: uint8((int(src.G)*a + int(dst.G)*inv) / 255),
		B: uint8((int(src.B)*a + int(dst.B)*inv) / 255),
		A: 255,
	}
}

// drawBadge draws a filled label with num just inside the element's top-left
// corner.
func drawBadge(img *image.RGBA, x, y int, num string) {
	const pad = 2
	face := basicfont.Face7x13
	textW := font.MeasureString(face, num).Ceil()
	badgeW := textW + 2*pad
	badgeH := face.Metrics().Height.Ceil() + pad

	bx, by := max(x-1, 0), max(y-1, 0)
	rect := image.Rect(bx, by, bx+badgeW, by+badgeH)
	draw.Draw(img, rect.Intersect(img.Bounds()), &image.Uniform{C: badgeColor}, image.Point{}, draw.Over)

	d := font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{C: badgeText},
		Face: face,
		Dot:  fixed.P(bx+pad, by+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(num)
}
