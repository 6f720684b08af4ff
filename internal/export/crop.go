package export

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// CropRect computes the crop window for a source image of srcW x srcH and a
// target aspect ratio, centered on the focal point (fractions in [0,1]). The
// crop runs along whichever axis overflows the target ratio and is clamped to
// the image bounds, so the focal point stays inside the window but the window
// never leaves the image.
func CropRect(srcW, srcH int, targetRatio, focalX, focalY float64) image.Rectangle {
	if srcW <= 0 || srcH <= 0 {
		return image.Rect(0, 0, 0, 0)
	}
	focalX = clamp01(focalX)
	focalY = clamp01(focalY)

	srcRatio := float64(srcW) / float64(srcH)
	cropW, cropH := srcW, srcH
	if srcRatio > targetRatio {
		// wider than target, crop horizontally
		cropW = int(float64(srcH) * targetRatio)
	} else if srcRatio < targetRatio {
		cropH = int(float64(srcW) / targetRatio)
	}

	x := int(focalX*float64(srcW)) - cropW/2
	y := int(focalY*float64(srcH)) - cropH/2
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	if x+cropW > srcW {
		x = srcW - cropW
	}
	if y+cropH > srcH {
		y = srcH - cropH
	}
	return image.Rect(x, y, x+cropW, y+cropH)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// renderImage crops img around the focal point, fits it into the density's
// pixel bounds and re-encodes it as a JPEG data URL.
func renderImage(img image.Image, d Density, focalX, focalY float64, quality int) (string, error) {
	b := img.Bounds()
	rect := CropRect(b.Dx(), b.Dy(), d.Ratio(), focalX, focalY)
	cropped := imaging.Crop(img, rect)
	if cropped.Bounds().Dx() > d.Width || cropped.Bounds().Dy() > d.Height {
		cropped = imaging.Resize(cropped, d.Width, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, cropped, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return "", fmt.Errorf("encode jpeg: %w", err)
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
