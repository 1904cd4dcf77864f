package images

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"
)

func encodeTestImage(t *testing.T, enc func(b *bytes.Buffer, img image.Image) error) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := enc(&buf, img); err != nil {
		t.Fatalf("Failed to encode test image: %v", err)
	}
	return buf.Bytes()
}

func TestDetectFormat_JPEG(t *testing.T) {
	data := encodeTestImage(t, func(b *bytes.Buffer, img image.Image) error {
		return jpeg.Encode(b, img, nil)
	})

	format, err := DetectFormat(data)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if format != "jpeg" {
		t.Errorf("Expected 'jpeg', got %q", format)
	}
}

func TestDetectFormat_PNG(t *testing.T) {
	data := encodeTestImage(t, func(b *bytes.Buffer, img image.Image) error {
		return png.Encode(b, img)
	})

	format, err := DetectFormat(data)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if format != "png" {
		t.Errorf("Expected 'png', got %q", format)
	}
}

func TestDetectFormat_Corrupt(t *testing.T) {
	_, err := DetectFormat([]byte("definitely not an image"))
	if !errors.Is(err, ErrUndecodable) {
		t.Errorf("Expected ErrUndecodable, got %v", err)
	}
}

func TestDetectFormat_Empty(t *testing.T) {
	_, err := DetectFormat(nil)
	if !errors.Is(err, ErrUndecodable) {
		t.Errorf("Expected ErrUndecodable, got %v", err)
	}
}

func TestDataURI(t *testing.T) {
	uri := DataURI("jpeg", []byte{0x01, 0x02})
	if !strings.HasPrefix(uri, "data:image/jpeg;base64,") {
		t.Errorf("Expected data URI prefix, got %q", uri)
	}
	if uri != "data:image/jpeg;base64,AQI=" {
		t.Errorf("Unexpected payload encoding: %q", uri)
	}
}
