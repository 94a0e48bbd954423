package analysis

import (
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"

	"github.com/jonesrussell/ppicrawl/internal/config"
	"github.com/jonesrussell/ppicrawl/internal/logger"
)

// jpegQuality for re-encoded intermediate images. High enough that the
// detector sees no extra compression artifacts.
const jpegQuality = 95

// Extractor turns a report image into a single cell grid. It owns the
// image preprocessing (crop, downscale) and delegates layout/OCR to
// the detector.
type Extractor struct {
	detector TableDetector
	cfg      config.AnalysisConfig
	logger   logger.Interface
}

// NewExtractor creates an extractor around the given detector.
func NewExtractor(detector TableDetector, cfg config.AnalysisConfig, log logger.Interface) *Extractor {
	return &Extractor{
		detector: detector,
		cfg:      cfg,
		logger:   log.WithComponent("extractor"),
	}
}

// Extract detects tables in the image and returns the first one with
// its header rows forward-filled. Reports contain exactly one table;
// any extra detections are artifacts of the layout pass and dropped.
func (e *Extractor) Extract(ctx context.Context, imagePath string) (Grid, error) {
	path, cleanup, err := e.preprocess(imagePath)
	if err != nil {
		// Preprocessing is best-effort: a broken decode falls back to
		// the original file and lets the detector have its say.
		e.logger.Warn("image preprocessing failed, using original",
			"image", imagePath, "error", err)
		path = imagePath
	}
	if cleanup != nil {
		defer cleanup()
	}

	grids, err := e.detector.Detect(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrExtraction, filepath.Base(imagePath), err)
	}
	if len(grids) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoTableDetected, filepath.Base(imagePath))
	}
	if len(grids) > 1 {
		e.logger.Debug("multiple tables detected, keeping first",
			"image", imagePath, "tables", len(grids))
	}

	grid := grids[0]
	fillHeaderRows(grid, e.cfg.HeaderRow)
	return grid, nil
}

// preprocess applies the configured crop and downscales oversized
// images, writing the result to a temp file. It returns the original
// path untouched when no transformation is needed.
func (e *Extractor) preprocess(imagePath string) (string, func(), error) {
	if !e.cfg.Crop.Enabled() && e.cfg.MaxDimension <= 0 {
		return imagePath, nil, nil
	}

	f, err := os.Open(imagePath)
	if err != nil {
		return "", nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return "", nil, fmt.Errorf("failed to decode image: %w", err)
	}

	transformed := false
	if e.cfg.Crop.Enabled() {
		img = cropImage(img, e.cfg.Crop)
		transformed = true
	}
	if scaled := downscale(img, e.cfg.MaxDimension); scaled != nil {
		img = scaled
		transformed = true
	}
	if !transformed {
		return imagePath, nil, nil
	}

	tmp, err := os.CreateTemp("", "ppicrawl-*"+strings.ToLower(filepath.Ext(imagePath)))
	if err != nil {
		return "", nil, err
	}
	if err := jpeg.Encode(tmp, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", nil, fmt.Errorf("failed to encode preprocessed image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", nil, err
	}

	cleanup := func() { os.Remove(tmp.Name()) }
	return tmp.Name(), cleanup, nil
}

// cropImage clips the region to the image bounds before cutting.
func cropImage(img image.Image, region config.CropRegion) image.Image {
	bounds := img.Bounds()
	rect := image.Rect(
		bounds.Min.X+region.X,
		bounds.Min.Y+region.Y,
		bounds.Min.X+region.X+region.Width,
		bounds.Min.Y+region.Y+region.Height,
	).Intersect(bounds)
	if rect.Empty() {
		return img
	}

	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(dst, dst.Bounds(), img, rect.Min, draw.Src)
	return dst
}

// downscale resizes the image so its longer side fits maxDim,
// preserving aspect ratio. Returns nil when no resize is needed.
func downscale(img image.Image, maxDim int) image.Image {
	if maxDim <= 0 {
		return nil
	}
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	longer := w
	if h > longer {
		longer = h
	}
	if longer <= maxDim {
		return nil
	}

	scale := float64(maxDim) / float64(longer)
	dst := image.NewRGBA(image.Rect(0, 0,
		int(float64(w)*scale), int(float64(h)*scale)))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

// fillHeaderRows forward-fills blank cells in the header rows. Merged
// header cells span several columns in the rendered table but come
// back from detection as one filled cell followed by blanks.
func fillHeaderRows(grid Grid, headerRow int) {
	for row := 0; row <= headerRow && row < len(grid); row++ {
		last := ""
		for col, cell := range grid[row] {
			if strings.TrimSpace(cell) == "" {
				grid[row][col] = last
				continue
			}
			last = cell
		}
	}
}
