package picture

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"

	svcErr "github.com/oggyb/swipe-match/internal/errors"
)

const (
	minDimension = 100
	minAspect    = 0.5
	maxAspect    = 2.0
)

var extensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/gif":  "gif",
}

// imageInfo is what upload validation learned about the blob.
type imageInfo struct {
	ContentType string
	Ext         string
	Width       int
	Height      int
}

// inspect sniffs and decodes the image header of data.
//
// Rules: jpeg, png or gif; at most maxBytes; both sides >= 100px;
// width/height within [0.5, 2].
func inspect(data []byte, maxBytes int64) (imageInfo, error) {
	verr := svcErr.Validation()

	if len(data) == 0 {
		verr.Add("picture", "The picture field is required.")
		return imageInfo{}, verr.Err()
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		verr.Add("picture", fmt.Sprintf("The picture may not be greater than %d kilobytes.", maxBytes>>10))
		return imageInfo{}, verr.Err()
	}

	contentType := http.DetectContentType(data)
	ext, ok := extensions[contentType]
	if !ok {
		verr.Add("picture", "The picture must be a file of type: jpeg, png, gif.")
		return imageInfo{}, verr.Err()
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		verr.Add("picture", "The picture must be an image.")
		return imageInfo{}, verr.Err()
	}

	if cfg.Width < minDimension || cfg.Height < minDimension {
		verr.Add("picture", fmt.Sprintf("The picture must be at least %dx%d pixels.", minDimension, minDimension))
	} else if ratio := float64(cfg.Width) / float64(cfg.Height); ratio < minAspect || ratio > maxAspect {
		verr.Add("picture", "The picture aspect ratio must be between 1:2 and 2:1.")
	}
	if err := verr.Err(); err != nil {
		return imageInfo{}, err
	}

	return imageInfo{ContentType: contentType, Ext: ext, Width: cfg.Width, Height: cfg.Height}, nil
}
