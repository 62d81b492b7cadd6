package service

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

// createTestImage creates a test image of the specified size and format
func createTestImage(width, height int, format string) ([]byte, string) {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 95, G: 158, B: 160, A: 255})
		}
	}

	var buf bytes.Buffer
	var filename string

	switch format {
	case "png":
		png.Encode(&buf, img)
		filename = "avatar.png"
	default:
		jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85})
		filename = "avatar.jpg"
	}

	return buf.Bytes(), filename
}

func TestValidateImage_ValidJPEG(t *testing.T) {
	svc := NewImageService(0)
	data, filename := createTestImage(100, 100, "jpeg")

	if err := svc.ValidateImage(data, filename); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}

func TestValidateImage_ValidPNG(t *testing.T) {
	svc := NewImageService(0)
	data, filename := createTestImage(100, 100, "png")

	if err := svc.ValidateImage(data, filename); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}

func TestValidateImage_TooLarge(t *testing.T) {
	svc := NewImageService(0)
	data := make([]byte, MaxImageSize+1)

	if err := svc.ValidateImage(data, "avatar.jpg"); err != ErrImageTooLarge {
		t.Errorf("expected ErrImageTooLarge, got %v", err)
	}
}

func TestValidateImage_InvalidFormat(t *testing.T) {
	svc := NewImageService(0)
	data, _ := createTestImage(100, 100, "jpeg")

	if err := svc.ValidateImage(data, "avatar.gif"); err != ErrInvalidFormat {
		t.Errorf("expected ErrInvalidFormat, got %v", err)
	}
}

func TestValidateImage_TooSmall(t *testing.T) {
	svc := NewImageService(0)
	data, filename := createTestImage(40, 100, "png")

	if err := svc.ValidateImage(data, filename); err != ErrImageTooSmall {
		t.Errorf("expected ErrImageTooSmall, got %v", err)
	}
}

func TestValidateImage_Garbage(t *testing.T) {
	svc := NewImageService(0)

	if err := svc.ValidateImage([]byte("definitely not an image"), "avatar.png"); err != ErrInvalidImageData {
		t.Errorf("expected ErrInvalidImageData, got %v", err)
	}
}

func TestThumbnail_ResizesWideImages(t *testing.T) {
	svc := NewImageService(0)
	data, filename := createTestImage(400, 200, "png")

	out, err := svc.Thumbnail(data, filename)
	if err != nil {
		t.Fatalf("Thumbnail failed: %v", err)
	}

	img, format, err := image.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("thumbnail is not decodable: %v", err)
	}
	if format != "jpeg" {
		t.Errorf("format = %s, want jpeg", format)
	}
	if img.Bounds().Dx() != AvatarWidth || img.Bounds().Dy() != 40 {
		t.Errorf("size = %dx%d, want %dx40", img.Bounds().Dx(), img.Bounds().Dy(), AvatarWidth)
	}
}

func TestThumbnail_KeepsSmallImages(t *testing.T) {
	svc := NewImageService(0)
	data, filename := createTestImage(60, 60, "jpeg")

	out, err := svc.Thumbnail(data, filename)
	if err != nil {
		t.Fatalf("Thumbnail failed: %v", err)
	}
	img, _, err := image.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("thumbnail is not decodable: %v", err)
	}
	if img.Bounds().Dx() != 60 {
		t.Errorf("width = %d, want 60", img.Bounds().Dx())
	}
}

func TestGetContentType(t *testing.T) {
	if got := GetContentType("me.JPG"); got != "image/jpeg" {
		t.Errorf("GetContentType(me.JPG) = %s", got)
	}
	if got := GetContentType("me.bmp"); got != "application/octet-stream" {
		t.Errorf("GetContentType(me.bmp) = %s", got)
	}
}
