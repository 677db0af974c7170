package camera

import (
	"math"
	"testing"
)

func TestNewCentersOnImage(t *testing.T) {
	cam := New(1280, 720, 960, 540)

	if cam.X != 480 || cam.Y != 270 {
		t.Errorf("expected camera at (480, 270), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 1.0 {
		t.Errorf("expected zoom 1.0, got %f", cam.Zoom)
	}
}

func TestWorldToScreenCentered(t *testing.T) {
	cam := New(1280, 720, 960, 540)

	sx, sy := cam.WorldToScreen(480, 270)
	if math.Abs(float64(sx-640)) > 0.01 || math.Abs(float64(sy-360)) > 0.01 {
		t.Errorf("expected screen center (640, 360), got (%f, %f)", sx, sy)
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := New(1280, 720, 960, 540)
	cam.SetZoom(1.5)
	cam.Pan(40, -25)

	testCases := []struct{ sx, sy float32 }{
		{640, 360},
		{100, 100},
		{1200, 600},
	}

	for _, tc := range testCases {
		wx, wy := cam.ScreenToWorld(tc.sx, tc.sy)
		sx, sy := cam.WorldToScreen(wx, wy)
		if math.Abs(float64(sx-tc.sx)) > 0.01 || math.Abs(float64(sy-tc.sy)) > 0.01 {
			t.Errorf("roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)",
				tc.sx, tc.sy, wx, wy, sx, sy)
		}
	}
}

func TestPanClampsToMargin(t *testing.T) {
	cam := New(1280, 720, 960, 540)

	cam.Pan(-1e6, -1e6)
	if cam.X != -cam.Margin || cam.Y != -cam.Margin {
		t.Errorf("pan not clamped at margin: (%f, %f)", cam.X, cam.Y)
	}

	cam.Pan(1e6, 1e6)
	if cam.X != cam.ImageW+cam.Margin || cam.Y != cam.ImageH+cam.Margin {
		t.Errorf("pan not clamped at far margin: (%f, %f)", cam.X, cam.Y)
	}
}

func TestZoomClamped(t *testing.T) {
	cam := New(1280, 720, 960, 540)

	cam.SetZoom(100)
	if cam.Zoom != cam.MaxZoom {
		t.Errorf("zoom = %f, want max %f", cam.Zoom, cam.MaxZoom)
	}

	cam.ZoomBy(0.0001)
	if cam.Zoom != cam.MinZoom {
		t.Errorf("zoom = %f, want min %f", cam.Zoom, cam.MinZoom)
	}
}

func TestResetRestoresAlignment(t *testing.T) {
	cam := New(1280, 720, 960, 540)
	cam.Pan(200, 300)
	cam.SetZoom(2)

	cam.Reset()
	if cam.X != 480 || cam.Y != 270 || cam.Zoom != 1.0 {
		t.Errorf("reset left camera at (%f, %f) zoom %f", cam.X, cam.Y, cam.Zoom)
	}
}
