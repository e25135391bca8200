package capture

import (
	"testing"

	"gocv.io/x/gocv"
)

func TestMockCamera_NotOpen(t *testing.T) {
	cam := NewMockCamera(nil, false)

	if cam.IsOpen() {
		t.Error("mock camera should start closed")
	}
	if _, err := cam.ReadFrame(); err == nil {
		t.Error("ReadFrame() on closed camera should fail")
	}
}

func TestMockCamera_Playback(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	f1 := gocv.NewMatWithSize(10, 10, gocv.MatTypeCV8UC3)
	defer f1.Close()
	f2 := gocv.NewMatWithSize(10, 10, gocv.MatTypeCV8UC3)
	defer f2.Close()

	cam := NewMockCamera([]*gocv.Mat{&f1, &f2}, false)
	if err := cam.Open(); err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer cam.Close()

	for i := 0; i < 2; i++ {
		frame, err := cam.ReadFrame()
		if err != nil {
			t.Fatalf("ReadFrame() %d failed: %v", i, err)
		}
		frame.Close()
	}

	// Sequence exhausted without looping.
	if _, err := cam.ReadFrame(); err == nil {
		t.Error("ReadFrame() past the end should fail when not looping")
	}

	cam.Reset()
	frame, err := cam.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame() after Reset failed: %v", err)
	}
	frame.Close()
}

func TestMockCamera_Loop(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	f1 := gocv.NewMatWithSize(10, 10, gocv.MatTypeCV8UC3)
	defer f1.Close()

	cam := NewMockCamera([]*gocv.Mat{&f1}, true)
	cam.Open()
	defer cam.Close()

	for i := 0; i < 5; i++ {
		frame, err := cam.ReadFrame()
		if err != nil {
			t.Fatalf("looping ReadFrame() %d failed: %v", i, err)
		}
		frame.Close()
	}
}
