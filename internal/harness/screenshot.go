// SPDX-FileCopyrightText: 2026 The macrun authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package harness

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/macrun/macrun/internal/remote"
)

// saveScreenshot writes a captured frame buffer into dir and returns the
// written file path. Monochrome frames are expanded into a PNG. Other depths
// use indexed color with a palette the capture does not carry, so the raw
// pixel data is written as is.
func saveScreenshot(dir, targetName string, shot *remote.Screenshot) (string, error) {
	if err := validateFrame(shot); err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create screenshot dir: %w", err)
	}

	base := fmt.Sprintf("%s-%s", targetName, uuid.New())

	if shot.Depth != 1 {
		path := filepath.Join(dir, base+".raw")
		if err := os.WriteFile(path, shot.Pixels, 0o644); err != nil {
			return "", fmt.Errorf("write screenshot: %w", err)
		}

		return path, nil
	}

	path := filepath.Join(dir, base+".png")

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create screenshot: %w", err)
	}

	err = png.Encode(file, monochromeImage(shot))
	if cerr := file.Close(); err == nil {
		err = cerr
	}

	if err != nil {
		return "", fmt.Errorf("encode screenshot: %w", err)
	}

	return path, nil
}

// validateFrame rejects captures whose pixel buffer does not cover the
// dimensions they claim. The buffer comes from the emulator; a malformed
// frame must fail the capture, not crash the run.
func validateFrame(shot *remote.Screenshot) error {
	if shot.Width <= 0 || shot.Height <= 0 || shot.Stride <= 0 {
		return fmt.Errorf("screenshot with empty geometry %dx%d stride %d",
			shot.Width, shot.Height, shot.Stride)
	}

	if shot.Depth == 1 && shot.Stride*8 < shot.Width {
		return fmt.Errorf("screenshot stride %d too small for width %d",
			shot.Stride, shot.Width)
	}

	if len(shot.Pixels) < shot.Height*shot.Stride {
		return fmt.Errorf("screenshot carries %d pixel bytes, need %d",
			len(shot.Pixels), shot.Height*shot.Stride)
	}

	return nil
}

// monochromeImage expands a 1 bit per pixel frame, most significant bit
// first, into a grayscale image. A set bit is a black pixel.
func monochromeImage(shot *remote.Screenshot) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, shot.Width, shot.Height))

	for y := 0; y < shot.Height; y++ {
		row := shot.Pixels[y*shot.Stride:]
		for x := 0; x < shot.Width; x++ {
			if row[x/8]&(0x80>>(x%8)) == 0 {
				img.SetGray(x, y, color.Gray{Y: 0xff})
			}
		}
	}

	return img
}
