package capture

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// fakeProtocol serves canned script results keyed by script text and a fixed
// screenshot image.
type fakeProtocol struct {
	scripts    map[string]any
	screenshot []byte
	execCalls  []string
}

func (f *fakeProtocol) ExecuteSync(ctx context.Context, sid, script string, args []any, out any) error {
	f.execCalls = append(f.execCalls, script)
	if out == nil {
		return nil
	}
	v, ok := f.scripts[script]
	if !ok {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func (f *fakeProtocol) Screenshot(ctx context.Context, sid string) ([]byte, error) {
	return f.screenshot, nil
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestCaptureUsesRunnerWhenDisplaySet(t *testing.T) {
	var gotDisplay, gotPath string
	c := New(":99", nil, "sid-1")
	c.Run = func(display, outPath string) error {
		gotDisplay, gotPath = display, outPath
		return nil
	}

	out := filepath.Join(t.TempDir(), "shot.png")
	if err := c.Capture(context.Background(), out); err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if gotDisplay != ":99" {
		t.Errorf("runner display = %q, want :99", gotDisplay)
	}
	if gotPath != out {
		t.Errorf("runner path = %q, want %q", gotPath, out)
	}
}

func TestCaptureFallsBackToProtocol(t *testing.T) {
	data := encodePNG(t, solid(4, 4, color.RGBA{R: 9, A: 255}))
	c := New("", &fakeProtocol{screenshot: data}, "sid-1")

	out := filepath.Join(t.TempDir(), "shot.png")
	if err := c.Capture(context.Background(), out); err != nil {
		t.Fatalf("Capture: %v", err)
	}
	written, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !bytes.Equal(written, data) {
		t.Error("fallback did not write the protocol screenshot bytes")
	}
}

func TestCaptureNoDisplayNoClient(t *testing.T) {
	c := New("", nil, "sid-1")
	if err := c.Capture(context.Background(), "x.png"); err == nil {
		t.Fatal("Capture succeeded with no display and no fallback")
	}
}

func TestCaptureFullStitchesSegments(t *testing.T) {
	// Page three viewports tall: expect three segments stitched vertically.
	proto := &fakeProtocol{
		scripts: map[string]any{
			"return document.documentElement.scrollHeight": 300,
			"return window.innerHeight":                    100,
		},
		screenshot: encodePNG(t, solid(50, 100, color.RGBA{G: 200, A: 255})),
	}
	c := New("", proto, "sid-1")
	c.sleep = func(time.Duration) {}

	out := filepath.Join(t.TempDir(), "full.png")
	if err := c.CaptureFull(context.Background(), out); err != nil {
		t.Fatalf("CaptureFull: %v", err)
	}

	img, err := loadPNG(out)
	if err != nil {
		t.Fatalf("load stitched: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 50 || b.Dy() != 300 {
		t.Errorf("stitched size = %dx%d, want 50x300", b.Dx(), b.Dy())
	}

	// Scroll position is restored at the end.
	last := proto.execCalls[len(proto.execCalls)-1]
	if last != "window.scrollTo(0, 0)" {
		t.Errorf("last script = %q, want scroll restore", last)
	}
}

func TestCaptureFullShortPageSingleShot(t *testing.T) {
	proto := &fakeProtocol{
		scripts: map[string]any{
			"return document.documentElement.scrollHeight": 80,
			"return window.innerHeight":                    100,
		},
		screenshot: encodePNG(t, solid(50, 80, color.RGBA{B: 200, A: 255})),
	}
	c := New("", proto, "sid-1")

	out := filepath.Join(t.TempDir(), "short.png")
	if err := c.CaptureFull(context.Background(), out); err != nil {
		t.Fatalf("CaptureFull: %v", err)
	}
	img, err := loadPNG(out)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if b := img.Bounds(); b.Dy() != 80 {
		t.Errorf("height = %d, want 80 (no stitching)", b.Dy())
	}
}

func TestStitchVertical(t *testing.T) {
	top := solid(10, 5, color.RGBA{R: 255, A: 255})
	bottom := solid(10, 7, color.RGBA{B: 255, A: 255})
	out := stitchVertical([]image.Image{top, bottom})

	if b := out.Bounds(); b.Dx() != 10 || b.Dy() != 12 {
		t.Fatalf("size = %dx%d, want 10x12", b.Dx(), b.Dy())
	}
	if got := out.RGBAAt(0, 0); got.R != 255 {
		t.Errorf("top segment pixel = %+v", got)
	}
	if got := out.RGBAAt(0, 5); got.B != 255 {
		t.Errorf("bottom segment pixel = %+v", got)
	}
}
