package scraper

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// DownloadResource fetches a URL through the page's own network stack
// (Page.getResourceContent scoped to the top frame), so the dashboard's
// cookies and auth headers apply without ever holding credentials here.
// Empty content is logged and reported as no file, not an error; charts
// whose backing image expired from the renderer cache simply go missing.
func DownloadResource(page *rod.Page, frameID proto.PageFrameID, url, stem string) (string, error) {
	content, err := proto.PageGetResourceContent{FrameID: frameID, URL: url}.Call(page)
	if err != nil {
		return "", fmt.Errorf("resource content for %s: %w", url, err)
	}
	if content.Content == "" {
		slog.Warn("resource had no content", "url", url)
		return "", nil
	}

	var data []byte
	if content.Base64Encoded {
		data, err = base64.StdEncoding.DecodeString(content.Content)
		if err != nil {
			return "", fmt.Errorf("decode resource %s: %w", url, err)
		}
	} else {
		data = []byte(content.Content)
	}

	path := stem + "." + DetectImageExt(data, url)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// imageSignatures maps leading-byte magic to a file extension. Checked
// before trusting the URL: vendor CDN paths routinely lie about format.
var imageSignatures = []struct {
	sig []byte
	ext string
}{
	{[]byte("\x89PNG\r\n\x1a\n"), "png"},
	{[]byte("\xff\xd8\xff"), "jpg"},
	{[]byte("GIF87a"), "gif"},
	{[]byte("GIF89a"), "gif"},
	{[]byte("RIFF"), "webp"},
}

// DetectImageExt sniffs the image format from leading bytes, falls back
// to the URL extension, and defaults to png.
func DetectImageExt(data []byte, url string) string {
	for _, s := range imageSignatures {
		if len(data) >= len(s.sig) && string(data[:len(s.sig)]) == string(s.sig) {
			return s.ext
		}
	}
	lower := strings.ToLower(url)
	for _, ext := range []string{"png", "jpg", "jpeg", "gif", "webp"} {
		if strings.HasSuffix(lower, "."+ext) {
			if ext == "jpeg" {
				return "jpg"
			}
			return ext
		}
	}
	return "png"
}

// WriteDataURL decodes a base64 data URL and writes it next to stem with
// an extension derived from the embedded MIME type. A malformed payload
// is reported as no file.
func WriteDataURL(stem, dataURL string) (string, error) {
	if !strings.HasPrefix(dataURL, "data:") {
		return "", nil
	}
	meta, payload, ok := strings.Cut(dataURL, ",")
	if !ok {
		return "", nil
	}
	mime := strings.TrimPrefix(meta, "data:")
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", fmt.Errorf("decode data url: %w", err)
	}

	path := stem + "." + MimeToExt(mime)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// MimeToExt maps an image MIME type to a file extension, defaulting to png.
func MimeToExt(mime string) string {
	switch strings.ToLower(mime) {
	case "image/png":
		return "png"
	case "image/jpeg", "image/jpg":
		return "jpg"
	case "image/gif":
		return "gif"
	case "image/webp":
		return "webp"
	}
	return "png"
}
