package capture

import (
	"errors"
	"testing"
)

func TestNewCamera(t *testing.T) {
	tests := []struct {
		name       string
		deviceID   int
		width      int
		height     int
		wantWidth  int
		wantHeight int
	}{
		{
			name:       "default device",
			deviceID:   0,
			width:      1280,
			height:     720,
			wantWidth:  1280,
			wantHeight: 720,
		},
		{
			name:       "custom size",
			deviceID:   1,
			width:      640,
			height:     480,
			wantWidth:  640,
			wantHeight: 480,
		},
		{
			name:       "invalid size falls back",
			deviceID:   2,
			width:      0,
			height:     -1,
			wantWidth:  DefaultWidth,
			wantHeight: DefaultHeight,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := NewCamera(tt.deviceID, tt.width, tt.height)

			if cam == nil {
				t.Fatal("NewCamera returned nil")
			}

			if got := cam.FPS(); got != DefaultFPS {
				t.Errorf("FPS() = %d, want %d (default)", got, DefaultFPS)
			}

			impl := cam.(*cameraImpl)
			if impl.width != tt.wantWidth || impl.height != tt.wantHeight {
				t.Errorf("size = %dx%d, want %dx%d", impl.width, impl.height, tt.wantWidth, tt.wantHeight)
			}

			if cam.IsOpen() {
				t.Error("camera should not be running initially")
			}
		})
	}
}

func TestCamera_SetFPS(t *testing.T) {
	cam := NewCamera(0, DefaultWidth, DefaultHeight)

	tests := []struct {
		name    string
		fps     int
		wantFPS int
	}{
		{
			name:    "set to 15",
			fps:     15,
			wantFPS: 15,
		},
		{
			name:    "set to 60",
			fps:     60,
			wantFPS: 60,
		},
		{
			name:    "set to 0 should keep previous",
			fps:     0,
			wantFPS: 60,
		},
		{
			name:    "set to negative should keep previous",
			fps:     -5,
			wantFPS: 60,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam.SetFPS(tt.fps)

			if got := cam.FPS(); got != tt.wantFPS {
				t.Errorf("FPS() = %d, want %d", got, tt.wantFPS)
			}
		})
	}
}

func TestCamera_OpenClose_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	cam := NewCamera(0, DefaultWidth, DefaultHeight)

	err := cam.Open()
	if err != nil {
		t.Skipf("skipping test - camera not available: %v", err)
	}

	if !cam.IsOpen() {
		t.Error("IsOpen() should return true after Open()")
	}

	mat, err := cam.ReadFrame()
	if err != nil {
		t.Errorf("ReadFrame() failed: %v", err)
	} else {
		if mat.Cols() != DefaultWidth || mat.Rows() != DefaultHeight {
			t.Logf("Frame dimensions: %dx%d (camera may not support %dx%d)", mat.Cols(), mat.Rows(), DefaultWidth, DefaultHeight)
		}
		mat.Close()
	}

	if err := cam.Close(); err != nil {
		t.Errorf("Close() failed: %v", err)
	}

	if cam.IsOpen() {
		t.Error("IsOpen() should return false after Close()")
	}
}

func TestCamera_ReadFrame_NotOpened(t *testing.T) {
	cam := NewCamera(0, DefaultWidth, DefaultHeight)

	_, err := cam.ReadFrame()
	if !errors.Is(err, ErrCameraNotOpen) {
		t.Errorf("ReadFrame() error = %v, want ErrCameraNotOpen", err)
	}
}

func TestCamera_Close_NotOpened(t *testing.T) {
	cam := NewCamera(0, DefaultWidth, DefaultHeight)

	if err := cam.Close(); err != nil {
		t.Errorf("Close() on not opened camera should return nil, got: %v", err)
	}
}
