package starbloom

import (
	"fmt"
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// Screenshot queues a labeled capture of the next drawn frame. Files land in
// ScreenshotDir named after the time, the active scene, and the scroll
// progress, so a scripted run can be read back in story order.
func (s *Story) Screenshot(label string) {
	s.screenshotQueue = append(s.screenshotQueue, label)
}

func (s *Story) flushScreenshots(screen *ebiten.Image) {
	if len(s.screenshotQueue) == 0 {
		return
	}
	labels := s.screenshotQueue
	s.screenshotQueue = s.screenshotQueue[:0]

	if err := os.MkdirAll(s.ScreenshotDir, 0o755); err != nil {
		s.log.logf("screenshot: %v", err)
		return
	}

	b := screen.Bounds()
	pix := make([]byte, 4*b.Dx()*b.Dy())
	screen.ReadPixels(pix)
	img := straightAlpha(pix, b.Dx(), b.Dy())

	stamp := time.Now().Format("20060102_150405")
	scene := s.engine.Compositor().ActiveScene()
	progress := s.doc.Progress()
	for _, label := range labels {
		name := screenshotName(stamp, scene, progress, label)
		if err := writePNG(filepath.Join(s.ScreenshotDir, name), img); err != nil {
			s.log.logf("screenshot: %v", err)
			continue
		}
		s.log.debugf("screenshot %s", name)
	}
}

// screenshotName builds "<stamp>_<scene>_p<percent>_<label>.png".
func screenshotName(stamp string, scene Scene, progress float64, label string) string {
	pct := int(math.Round(clamp01(progress) * 100))
	return fmt.Sprintf("%s_%s_p%03d_%s.png", stamp, scene, pct, sanitizeLabel(label))
}

// straightAlpha converts ebiten's premultiplied RGBA pixels to an NRGBA image.
func straightAlpha(pix []byte, w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	copy(img.Pix, pix)
	for i := 0; i+3 < len(img.Pix); i += 4 {
		a := int(img.Pix[i+3])
		if a == 0 || a == 255 {
			continue
		}
		for c := i; c < i+3; c++ {
			img.Pix[c] = uint8(min(int(img.Pix[c])*255/a, 255))
		}
	}
	return img
}

func writePNG(path string, img image.Image) error {
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

// sanitizeLabel keeps letters, digits, '-' and '.'; everything else becomes
// '_'. Blank labels become "unlabeled".
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '.':
			return r
		}
		return '_'
	}, label)
}
