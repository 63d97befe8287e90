package avatar

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
	"github.com/vterekhov/procurement-backend/internal/storage"
)

// Sizes mirror the original profile pipeline: three bounding boxes,
// the medium rendition becomes the stored avatar.
var sizes = []struct {
	name string
	px   int
}{
	{"small", 100},
	{"medium", 200},
	{"large", 400},
}

const jpegQuality = 85

type Processor struct {
	store storage.FileStore
}

func NewProcessor(store storage.FileStore) *Processor {
	return &Processor{store: store}
}

// Process decodes the uploaded image, writes the resized renditions and
// removes the original. It returns the path of the medium rendition.
func (p *Processor) Process(userID uint64, sourcePath string) (string, error) {
	src, err := p.store.Open(sourcePath)
	if err != nil {
		return "", fmt.Errorf("open source: %w", err)
	}
	img, err := imaging.Decode(src, imaging.AutoOrientation(true))
	src.Close()
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	var medium string
	for _, s := range sizes {
		resized := imaging.Fit(img, s.px, s.px, imaging.Lanczos)

		var buf bytes.Buffer
		if err := imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
			return "", fmt.Errorf("encode %s: %w", s.name, err)
		}
		name := fmt.Sprintf("avatars/processed/avatar_%d_%s.jpg", userID, s.name)
		if _, err := p.store.Save(name, &buf); err != nil {
			return "", fmt.Errorf("save %s: %w", s.name, err)
		}
		if s.name == "medium" {
			medium = name
		}
	}

	if err := p.store.Remove(sourcePath); err != nil {
		return "", fmt.Errorf("remove original: %w", err)
	}
	return medium, nil
}

// ValidUpload checks size and content type before the task is queued.
func ValidUpload(size int64, contentType string) error {
	const maxSize = 5 << 20
	if size <= 0 {
		return fmt.Errorf("empty file")
	}
	if size > maxSize {
		return fmt.Errorf("file larger than 5MB")
	}
	switch contentType {
	case "image/jpeg", "image/png", "image/gif":
		return nil
	}
	return fmt.Errorf("unsupported content type %q", contentType)
}
