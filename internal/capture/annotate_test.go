package capture

import (
	"image/color"
	"path/filepath"
	"testing"

	"github.com/fakeyudi/tauri-browse/internal/snapshot"
)

func TestAnnotateDrawsBadgeAndOutline(t *testing.T) {
	img := solid(200, 200, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	elements := []snapshot.Descriptor{
		{Ref: "@e1", Role: "button", Rect: snapshot.Rect{X: 50, Y: 50, W: 80, H: 30}},
	}

	out := Annotate(img, elements)

	// The badge fill sits at the element's top-left corner.
	if got := out.RGBAAt(50, 50); got == (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Error("badge area unchanged: no badge drawn")
	}
	// The outline is blended along the bottom edge, outside the badge.
	if got := out.RGBAAt(90, 80); got == (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Error("outline pixel unchanged: no outline drawn")
	}
	// Pixels well inside the box stay untouched.
	if got := out.RGBAAt(90, 65); got != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("interior pixel modified: %+v", got)
	}
	// The input image is not mutated.
	if got := img.RGBAAt(50, 50); got != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Error("Annotate mutated its input")
	}
}

func TestAnnotateSkipsZeroSizedElements(t *testing.T) {
	img := solid(50, 50, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	out := Annotate(img, []snapshot.Descriptor{
		{Ref: "@e1", Role: "generic", Rect: snapshot.Rect{X: 10, Y: 10, W: 0, H: 0}},
	})
	for y := 0; y < 50; y++ {
		for x := 0; x < 50; x++ {
			if out.RGBAAt(x, y) != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
				t.Fatalf("zero-sized element drew at (%d,%d)", x, y)
			}
		}
	}
}

func TestAnnotateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shot.png")
	img := solid(100, 100, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	if err := savePNG(path, img); err != nil {
		t.Fatalf("savePNG: %v", err)
	}

	elements := []snapshot.Descriptor{
		{Ref: "@e1", Role: "button", Rect: snapshot.Rect{X: 10, Y: 10, W: 40, H: 20}},
	}
	if err := AnnotateFile(path, elements); err != nil {
		t.Fatalf("AnnotateFile: %v", err)
	}

	annotated, err := loadPNG(path)
	if err != nil {
		t.Fatalf("loadPNG: %v", err)
	}
	r, g, b, _ := annotated.At(10, 10).RGBA()
	if r>>8 == 255 && g>>8 == 255 && b>>8 == 255 {
		t.Error("file not annotated in place")
	}
}
