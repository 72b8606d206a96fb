package scraper

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDetectImageExt(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		url  string
		want string
	}{
		{"png magic", []byte("\x89PNG\r\n\x1a\nrest"), "https://cdn/x.jpg", "png"},
		{"jpg magic", []byte("\xff\xd8\xffrest"), "https://cdn/x.png", "jpg"},
		{"gif87 magic", []byte("GIF87arest"), "", "gif"},
		{"gif89 magic", []byte("GIF89arest"), "", "gif"},
		{"webp magic", []byte("RIFFrest"), "", "webp"},
		{"url extension", []byte("not an image"), "https://cdn/headshot.gif", "gif"},
		{"url jpeg normalized", []byte("not an image"), "https://cdn/headshot.JPEG", "jpg"},
		{"no signal defaults png", []byte("not an image"), "https://cdn/chart", "png"},
		{"empty data", nil, "", "png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectImageExt(tt.data, tt.url); got != tt.want {
				t.Errorf("DetectImageExt = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMimeToExt(t *testing.T) {
	tests := []struct {
		mime string
		want string
	}{
		{"image/png", "png"},
		{"image/jpeg", "jpg"},
		{"image/jpg", "jpg"},
		{"IMAGE/GIF", "gif"},
		{"image/webp", "webp"},
		{"image/svg+xml", "png"},
		{"", "png"},
	}
	for _, tt := range tests {
		if got := MimeToExt(tt.mime); got != tt.want {
			t.Errorf("MimeToExt(%q) = %q, want %q", tt.mime, got, tt.want)
		}
	}
}

func TestWriteDataURL(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteDataURL(filepath.Join(dir, "chart"), "data:image/png;base64,aGVsbG8=")
	if err != nil {
		t.Fatalf("WriteDataURL: %v", err)
	}
	if path != filepath.Join(dir, "chart.png") {
		t.Errorf("unexpected path: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "hello" {
		t.Errorf("decoded payload = %q", data)
	}
}

func TestWriteDataURL_JPEGExtension(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteDataURL(filepath.Join(dir, "photo"), "data:image/jpeg;base64,aGk=")
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Ext(path) != ".jpg" {
		t.Errorf("jpeg payload should land as .jpg: %s", path)
	}
}

func TestWriteDataURL_Rejects(t *testing.T) {
	dir := t.TempDir()

	// Not a data URL and a data URL without a payload separator both mean
	// no file, no error.
	for _, in := range []string{"https://cdn/chart.png", "data:image/png;base64"} {
		path, err := WriteDataURL(filepath.Join(dir, "x"), in)
		if err != nil || path != "" {
			t.Errorf("WriteDataURL(%q) = (%q, %v), want no file", in, path, err)
		}
	}

	// Corrupt base64 is an error.
	if _, err := WriteDataURL(filepath.Join(dir, "x"), "data:image/png;base64,!!!"); err == nil {
		t.Error("corrupt base64 should error")
	}
}
