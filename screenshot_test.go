package starbloom

import "testing"

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"hello", "hello"},
		{"after-spawn", "after-spawn"},
		{"frame.01", "frame.01"},
		{"has spaces", "has_spaces"},
		{"path/to/thing", "path_to_thing"},
		{"back\\slash", "back_slash"},
		{"special!@#$%", "special_____"},
		{"", "unlabeled"},
		{"   ", "unlabeled"},
		{"MixedCase123", "MixedCase123"},
	}
	for _, tt := range tests {
		got := sanitizeLabel(tt.in)
		if got != tt.want {
			t.Errorf("sanitizeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestScreenshotQueueAppend(t *testing.T) {
	s := newTestStory()
	s.Screenshot("a")
	s.Screenshot("b")
	s.Screenshot("c")
	if len(s.screenshotQueue) != 3 {
		t.Fatalf("queue len = %d, want 3", len(s.screenshotQueue))
	}
	if s.screenshotQueue[0] != "a" || s.screenshotQueue[1] != "b" || s.screenshotQueue[2] != "c" {
		t.Errorf("queue = %v, want [a b c]", s.screenshotQueue)
	}
}

func TestScreenshotDirDefault(t *testing.T) {
	s := newTestStory()
	if s.ScreenshotDir != "screenshots" {
		t.Errorf("ScreenshotDir = %q, want %q", s.ScreenshotDir, "screenshots")
	}
}

func TestScreenshotName(t *testing.T) {
	got := screenshotName("20260101_120000", SceneSakura, 0.426, "after wheel")
	want := "20260101_120000_sakura_p043_after_wheel.png"
	if got != want {
		t.Errorf("screenshotName = %q, want %q", got, want)
	}
	if got := screenshotName("x", SceneStars, 1.7, ""); got != "x_stars_p100_unlabeled.png" {
		t.Errorf("clamped name = %q", got)
	}
}

func TestStraightAlpha(t *testing.T) {
	pix := []byte{
		64, 32, 0, 128, // half alpha, premultiplied
		10, 20, 30, 255,
		0, 0, 0, 0,
	}
	img := straightAlpha(pix, 3, 1)
	want := []byte{127, 63, 0, 128, 10, 20, 30, 255, 0, 0, 0, 0}
	for i, v := range want {
		if img.Pix[i] != v {
			t.Errorf("Pix[%d] = %d, want %d", i, img.Pix[i], v)
		}
	}
	if pix[0] != 64 {
		t.Errorf("source modified: pix[0] = %d, want 64", pix[0])
	}
}
