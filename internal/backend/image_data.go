package backend

import (
	"encoding/base64"
	"net/http"
	"strings"
)

// ImageData is an image ready for display.
type ImageData struct {
	ID    string
	MIME  string
	Bytes []byte
}

// DataURL renders the image as a base64 data URL.
func (d ImageData) DataURL() string {
	return "data:" + d.MIME + ";base64," + base64.StdEncoding.EncodeToString(d.Bytes)
}

var allowedImageExt = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
}

// sniffMIME prefers the content type detected from the bytes and falls back
// to the file extension.
func sniffMIME(data []byte, ext string) string {
	if ct := http.DetectContentType(data); strings.HasPrefix(ct, "image/") {
		return ct
	}
	if ct, ok := allowedImageExt[ext]; ok {
		return ct
	}
	return "application/octet-stream"
}
