// Package images computes BlurHash placeholders for book thumbnails.
package images

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"io"

	"github.com/bbrks/go-blurhash"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

// blurHashSize is the longest edge the image is scaled to before encoding.
const blurHashSize = 64

// Components used for every placeholder. Thumbnails are portrait covers.
const (
	xComponents = 4
	yComponents = 3
)

// ComputeBlurHash decodes an image from r and returns its BlurHash.
func ComputeBlurHash(r io.Reader) (string, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	hash, err := blurhash.Encode(xComponents, yComponents, scaleDown(img))
	if err != nil {
		return "", fmt.Errorf("encode blurhash: %w", err)
	}
	return hash, nil
}

// scaleDown shrinks img so its longest edge is blurHashSize, keeping the
// aspect ratio. Nearest-neighbour sampling is enough for a blurred preview.
func scaleDown(img image.Image) image.Image {
	bounds := img.Bounds()
	srcW, srcH := bounds.Dx(), bounds.Dy()
	if srcW <= blurHashSize && srcH <= blurHashSize {
		return img
	}

	dstW, dstH := blurHashSize, blurHashSize
	if srcW > srcH {
		dstH = max(srcH*blurHashSize/srcW, 1)
	} else {
		dstW = max(srcW*blurHashSize/srcH, 1)
	}

	dst := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
	xRatio := float64(srcW) / float64(dstW)
	yRatio := float64(srcH) / float64(dstH)
	for y := range dstH {
		for x := range dstW {
			sx := bounds.Min.X + int(float64(x)*xRatio)
			sy := bounds.Min.Y + int(float64(y)*yRatio)
			dst.Set(x, y, img.At(sx, sy))
		}
	}
	return dst
}
