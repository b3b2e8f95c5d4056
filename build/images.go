package build

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
)

const jpegQuality = 80

// isImage reports whether the asset at path is re-encoded by the build.
func isImage(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg", ".png":
		return true
	}
	return false
}

// resizeImage decodes an image from src and, when it is wider than
// maxWidth, scales it down keeping the aspect ratio. It returns the encoded
// bytes in the original format, or nil when the image is already small
// enough and should be copied as is.
func resizeImage(src io.Reader, maxWidth int) ([]byte, error) {
	img, format, err := image.Decode(src)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxWidth {
		return nil, nil
	}

	newH := h * maxWidth / w
	if newH < 1 {
		newH = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	switch format {
	case "png":
		err = png.Encode(&buf, dst)
	default:
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality})
	}
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

// copyImage writes src to dst, resized when wider than maxWidth.
func copyImage(src, dst string, maxWidth int) (resized bool, err error) {
	f, err := os.Open(src)
	if err != nil {
		return false, err
	}
	defer f.Close()

	data, err := resizeImage(f, maxWidth)
	if err != nil {
		return false, fmt.Errorf("%s: %w", src, err)
	}
	if data == nil {
		return false, copyFile(src, dst)
	}
	return true, os.WriteFile(dst, data, 0o644)
}
