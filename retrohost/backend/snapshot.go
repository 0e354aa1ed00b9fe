package backend

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/retrohost/go-retrohost/retrohost/video"
)

// SaveFramePNG writes a frame as a timestamped PNG into directory, or the
// current working directory when directory is empty. The frame is unpacked
// through XRGB8888 so every negotiated pixel format lands in the same image
// encoding.
func SaveFramePNG(frame *video.FrameBuffer, baseName, directory string) error {
	if frame == nil || frame.Width == 0 || frame.Height == 0 {
		return fmt.Errorf("no frame data available for snapshot")
	}

	pixels := frame.XRGB8888()
	img := image.NewRGBA(image.Rect(0, 0, frame.Width, frame.Height))
	for y := 0; y < frame.Height; y++ {
		for x := 0; x < frame.Width; x++ {
			px := pixels[y*frame.Width+x]
			img.SetRGBA(x, y, color.RGBA{
				R: byte(px >> 16),
				G: byte(px >> 8),
				B: byte(px),
				A: 0xff,
			})
		}
	}

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.png", baseName, timestamp)

	outputDir := directory
	if outputDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get current directory: %v", err)
		}
		outputDir = cwd
	}

	filePath := filepath.Join(outputDir, filename)
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %v", filePath, err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("failed to encode PNG: %v", err)
	}

	slog.Info("Snapshot saved", "path", filePath, "size", fmt.Sprintf("%dx%d", frame.Width, frame.Height))
	return nil
}
