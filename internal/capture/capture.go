// Package capture grabs raster screenshots. The primary path shells out to
// the external X display capture utility; when no display is available it
// falls back to the WebDriver screenshot endpoint.
package capture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"
	"os/exec"
	"strings"
	"time"
)

// Protocol is the slice of the WebDriver client capture needs.
type Protocol interface {
	ExecuteSync(ctx context.Context, sid, script string, args []any, out any) error
	Screenshot(ctx context.Context, sid string) ([]byte, error)
}

// Runner executes the external capture utility for a display, writing a PNG
// to outPath. This abstraction allows mocking in tests.
type Runner func(display, outPath string) error

// defaultRunner captures the root window with ImageMagick's import.
func defaultRunner(display, outPath string) error {
	cmd := exec.Command("import", "-window", "root", outPath)
	cmd.Env = append(os.Environ(), "DISPLAY="+display)
	out, err := cmd.CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg == "" {
			msg = err.Error()
		}
		return fmt.Errorf("screenshot failed: %s", msg)
	}
	return nil
}

// Capturer captures screenshots for one remote session.
type Capturer struct {
	Display   string // X display; "" disables the external capture path
	Client    Protocol
	SessionID string
	Run       Runner // nil means the real import subprocess

	// sleep between scroll and capture during full-page capture; stubbed in
	// tests.
	sleep func(time.Duration)
}

// New returns a Capturer using the external capture utility on display,
// falling back to client when display is empty.
func New(display string, client Protocol, sessionID string) *Capturer {
	return &Capturer{Display: display, Client: client, SessionID: sessionID, sleep: time.Sleep}
}

// Capture writes a screenshot of the current viewport to path.
func (c *Capturer) Capture(ctx context.Context, path string) error {
	if c.Display != "" {
		run := c.Run
		if run == nil {
			run = defaultRunner
		}
		return run(c.Display, path)
	}

	if c.Client == nil {
		return errors.New("screenshot failed: no DISPLAY set and no driver fallback")
	}
	data, err := c.Client.Screenshot(ctx, c.SessionID)
	if err != nil {
		return fmt.Errorf("screenshot failed: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// CaptureFull writes a full-page screenshot to path by scrolling through the
// document, capturing each viewport segment, and stitching them vertically.
// The scroll position is restored afterwards.
func (c *Capturer) CaptureFull(ctx context.Context, path string) error {
	var scrollH, viewportH int
	if err := c.Client.ExecuteSync(ctx, c.SessionID,
		"return document.documentElement.scrollHeight", nil, &scrollH); err != nil {
		return err
	}
	if err := c.Client.ExecuteSync(ctx, c.SessionID,
		"return window.innerHeight", nil, &viewportH); err != nil {
		return err
	}

	if scrollH <= viewportH || viewportH == 0 {
		return c.Capture(ctx, path)
	}

	sleep := c.sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	var segments []image.Image
	for offset := 0; offset < scrollH; offset += viewportH {
		script := fmt.Sprintf("window.scrollTo(0, %d)", offset)
		if err := c.Client.ExecuteSync(ctx, c.SessionID, script, nil, nil); err != nil {
			return err
		}
		sleep(150 * time.Millisecond)

		seg, err := c.captureImage(ctx)
		if err != nil {
			return err
		}
		segments = append(segments, seg)
	}

	// Restore scroll position; a failure here should not lose the capture.
	_ = c.Client.ExecuteSync(ctx, c.SessionID, "window.scrollTo(0, 0)", nil, nil)

	return savePNG(path, stitchVertical(segments))
}

// captureImage captures one viewport and decodes it.
func (c *Capturer) captureImage(ctx context.Context) (image.Image, error) {
	tmp, err := os.CreateTemp("", "tb-seg-*.png")
	if err != nil {
		return nil, err
	}
	tmpName := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpName)

	if err := c.Capture(ctx, tmpName); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(tmpName)
	if err != nil {
		return nil, err
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode segment: %w", err)
	}
	return img, nil
}

// stitchVertical appends images top to bottom, like convert -append.
func stitchVertical(segments []image.Image) *image.RGBA {
	width, height := 0, 0
	for _, s := range segments {
		b := s.Bounds()
		if b.Dx() > width {
			width = b.Dx()
		}
		height += b.Dy()
	}
	out := image.NewRGBA(image.Rect(0, 0, width, height))
	y := 0
	for _, s := range segments {
		b := s.Bounds()
		dst := image.Rect(0, y, b.Dx(), y+b.Dy())
		draw.Draw(out, dst, s, b.Min, draw.Src)
		y += b.Dy()
	}
	return out
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
