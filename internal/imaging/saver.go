package imaging

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"texture-recovery/internal/homomorphic"
	"texture-recovery/internal/logger"
)

type Saver struct {
	log logger.Logger
}

func NewSaver(log logger.Logger) *Saver {
	return &Saver{log: log}
}

// SaveGrid writes a float grid as a grayscale image. normalize stretches
// the grid's own range to full contrast before quantization.
func (s *Saver) SaveGrid(path string, grid [][]float64, normalize bool) error {
	if len(grid) == 0 || len(grid[0]) == 0 {
		return fmt.Errorf("no image data to save")
	}
	return s.encode(path, GridToGray(grid, normalize))
}

// SaveColor writes float color planes as an RGBA image.
func (s *Saver) SaveColor(path string, c *homomorphic.ColorImage) error {
	if c == nil || c.Rows() == 0 {
		return fmt.Errorf("no image data to save")
	}
	return s.encode(path, ColorToRGBA(c))
}

func (s *Saver) encode(path string, img image.Image) error {
	format := formatFromExtension(filepath.Ext(path))
	if format != "jpeg" && format != "png" {
		s.log.Warning("saver", "format not supported for encoding, using PNG", map[string]interface{}{
			"requested_format": strings.ToUpper(format),
			"path":             path,
		})
		format = "png"
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	switch format {
	case "jpeg":
		err = jpeg.Encode(file, img, &jpeg.Options{Quality: 95})
	default:
		err = png.Encode(file, img)
	}
	if err != nil {
		return fmt.Errorf("failed to encode image: %w", err)
	}

	s.log.Info("saver", "image saved", map[string]interface{}{
		"path":   path,
		"format": format,
	})
	return nil
}
