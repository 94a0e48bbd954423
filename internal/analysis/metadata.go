package analysis

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
)

// Metadata describes a stored report image.
type Metadata struct {
	SizeBytes int64
	Width     int
	Height    int
	ColorMode string
	// EXIF holds the raw tag values, nil when the file carries none.
	// Camera-produced report screenshots rarely do.
	EXIF map[string]string
}

// ReadMetadata collects file and image properties. A missing or
// unparsable EXIF block is not an error.
func ReadMetadata(path string) (Metadata, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Metadata{}, fmt.Errorf("failed to stat image: %w", err)
	}
	meta := Metadata{SizeBytes: info.Size()}

	f, err := os.Open(path)
	if err != nil {
		return meta, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return meta, fmt.Errorf("failed to decode image config: %w", err)
	}
	meta.Width = cfg.Width
	meta.Height = cfg.Height
	meta.ColorMode = colorModeName(cfg.ColorModel)

	if _, err := f.Seek(0, 0); err != nil {
		return meta, err
	}
	if x, err := exif.Decode(f); err == nil {
		meta.EXIF = collectEXIF(x)
	}
	return meta, nil
}

func colorModeName(model color.Model) string {
	switch model {
	case color.YCbCrModel:
		return "YCbCr"
	case color.RGBAModel, color.NRGBAModel:
		return "RGBA"
	case color.GrayModel, color.Gray16Model:
		return "Gray"
	case color.CMYKModel:
		return "CMYK"
	default:
		return "unknown"
	}
}

// exifCollector implements exif.Walker over a plain map.
type exifCollector map[string]string

func (c exifCollector) Walk(name exif.FieldName, tag *tiff.Tag) error {
	c[string(name)] = tag.String()
	return nil
}

func collectEXIF(x *exif.Exif) map[string]string {
	fields := exifCollector{}
	if err := x.Walk(fields); err != nil || len(fields) == 0 {
		return nil
	}
	return fields
}
