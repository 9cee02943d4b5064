package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"gocv.io/x/gocv"

	"texture-recovery/internal/logger"
)

type Loader struct {
	log logger.Logger
}

func NewLoader(log logger.Logger) *Loader {
	return &Loader{log: log}
}

// LoadGrayscale decodes an image file as a single luminance channel.
func (l *Loader) LoadGrayscale(path string) (*ImageData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image file: %w", err)
	}
	return l.grayscaleFromBytes(data, filepath.Ext(path))
}

// LoadColor decodes an image file as three color channels.
func (l *Loader) LoadColor(path string) (*ImageData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image file: %w", err)
	}
	return l.colorFromBytes(data, filepath.Ext(path))
}

func (l *Loader) grayscaleFromBytes(data []byte, ext string) (*ImageData, error) {
	mat, format, err := l.decode(data, ext, gocv.IMReadGrayScale)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	grid, err := MatToGrid(mat)
	if err != nil {
		return nil, fmt.Errorf("failed to convert decoded mat: %w", err)
	}

	imageData := &ImageData{
		Width:    mat.Cols(),
		Height:   mat.Rows(),
		Channels: 1,
		Format:   format,
		Gray:     grid,
	}

	l.log.Info("loader", "image loaded", map[string]interface{}{
		"width":    imageData.Width,
		"height":   imageData.Height,
		"channels": imageData.Channels,
		"format":   format,
	})
	return imageData, nil
}

func (l *Loader) colorFromBytes(data []byte, ext string) (*ImageData, error) {
	mat, format, err := l.decode(data, ext, gocv.IMReadColor)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	planes, err := MatToColorImage(mat)
	if err != nil {
		return nil, fmt.Errorf("failed to convert decoded mat: %w", err)
	}

	imageData := &ImageData{
		Width:    mat.Cols(),
		Height:   mat.Rows(),
		Channels: 3,
		Format:   format,
		Color:    planes,
	}

	l.log.Info("loader", "image loaded", map[string]interface{}{
		"width":    imageData.Width,
		"height":   imageData.Height,
		"channels": imageData.Channels,
		"format":   format,
	})
	return imageData, nil
}

// decode runs OpenCV's decoder for the pixel data and the standard library's
// format sniffer for the format name, falling back to the file extension for
// formats the standard library does not register.
func (l *Loader) decode(data []byte, ext string, flag gocv.IMReadFlag) (gocv.Mat, string, error) {
	format := ""
	if _, sniffed, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		format = sniffed
	}

	mat, err := gocv.IMDecode(data, flag)
	if err != nil {
		return gocv.Mat{}, "", fmt.Errorf("failed to decode image: %w", err)
	}
	if mat.Empty() {
		mat.Close()
		return gocv.Mat{}, "", fmt.Errorf("decoder produced no pixel data")
	}

	if format == "" {
		format = formatFromExtension(ext)
	}
	return mat, format, nil
}

func formatFromExtension(ext string) string {
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".png":
		return "png"
	case ".bmp":
		return "bmp"
	case ".tif", ".tiff":
		return "tiff"
	case ".webp":
		return "webp"
	default:
		return "unknown"
	}
}
