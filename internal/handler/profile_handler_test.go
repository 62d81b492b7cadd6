package handler

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func newProfileHandler(t *testing.T) *ProfileHandler {
	t.Helper()
	return NewProfileHandler(newTestServices(t).profile)
}

func testPNG(t *testing.T, size int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for x := 0; x < size; x++ {
		for y := 0; y < size; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to encode png: %v", err)
	}
	return buf.Bytes()
}

func newMultipartContext(t *testing.T, filename string, data []byte) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if filename != "" {
		part, err := writer.CreateFormFile("file", filename)
		if err != nil {
			t.Fatalf("Failed to create form file: %v", err)
		}
		part.Write(data)
	}
	writer.Close()

	req := httptest.NewRequest(http.MethodPut, "/api/v1/profile/avatar", &body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	rec := httptest.NewRecorder()
	return echoForTest().NewContext(req, rec), rec
}

func TestOnboarding_Lifecycle(t *testing.T) {
	h := newProfileHandler(t)

	steps := []struct {
		method  string
		handler func(echo.Context) error
		want    bool
	}{
		{http.MethodGet, h.GetOnboarding, false},
		{http.MethodPost, h.CompleteOnboarding, true},
		{http.MethodGet, h.GetOnboarding, true},
		{http.MethodDelete, h.ResetOnboarding, false},
		{http.MethodGet, h.GetOnboarding, false},
	}

	for i, step := range steps {
		c, rec := newContext(echoForTest(), step.method, "/api/v1/onboarding")
		expectStatus(t, rec, step.handler(c), http.StatusOK)

		var response OnboardingResponse
		decodeBody(t, rec, &response)
		if response.HasSeenWelcome != step.want {
			t.Errorf("Step %d (%s): expected hasSeenWelcome=%v", i, step.method, step.want)
		}
	}
}

func TestUpdateProfile(t *testing.T) {
	h := newProfileHandler(t)

	c, rec := newJSONContext(echoForTest(), http.MethodPut, "/api/v1/profile", `{"name":"   "}`)
	expectStatus(t, rec, h.UpdateProfile(c), http.StatusBadRequest)

	c, rec = newJSONContext(echoForTest(), http.MethodPut, "/api/v1/profile", `{"name":"  Mara "}`)
	expectStatus(t, rec, h.UpdateProfile(c), http.StatusOK)

	c, rec = newContext(echoForTest(), http.MethodGet, "/api/v1/profile")
	expectStatus(t, rec, h.GetProfile(c), http.StatusOK)
	var response ProfileResponse
	decodeBody(t, rec, &response)
	if response.Name != "Mara" {
		t.Errorf("Expected name 'Mara', got %q", response.Name)
	}
}

func TestUploadAvatar_Success(t *testing.T) {
	h := newProfileHandler(t)

	c, rec := newMultipartContext(t, "me.png", testPNG(t, 100))
	expectStatus(t, rec, h.UploadAvatar(c), http.StatusOK)

	var response ProfileResponse
	decodeBody(t, rec, &response)
	if response.Avatar == "" {
		t.Fatal("Expected avatar to be stored")
	}

	c, rec = newContext(echoForTest(), http.MethodDelete, "/api/v1/profile/avatar")
	expectStatus(t, rec, h.DeleteAvatar(c), http.StatusOK)
	response = ProfileResponse{}
	decodeBody(t, rec, &response)
	if response.Avatar != "" {
		t.Errorf("Expected avatar to be removed, got %d bytes", len(response.Avatar))
	}
}

func TestUploadAvatar_Rejected(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		data     func(t *testing.T) []byte
	}{
		{"missing file", "", func(t *testing.T) []byte { return nil }},
		{"too small", "tiny.png", func(t *testing.T) []byte { return testPNG(t, 10) }},
		{"unsupported extension", "me.gif", func(t *testing.T) []byte { return testPNG(t, 100) }},
		{"not an image", "me.png", func(t *testing.T) []byte { return []byte("definitely not a png") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newProfileHandler(t)
			c, rec := newMultipartContext(t, tt.filename, tt.data(t))
			expectStatus(t, rec, h.UploadAvatar(c), http.StatusBadRequest)
		})
	}
}
