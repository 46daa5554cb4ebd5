package file

import (
	"compress/gzip"
	"image/jpeg"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"

	// imaging registers no webp decoder of its own.
	_ "golang.org/x/image/webp"
)

// Acceptance margins: the compressed candidate wins only when it is smaller
// than the original by at least this fraction.
const (
	imageAcceptRatio   = 0.9
	genericAcceptRatio = 0.8
)

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// CompressorConfig tunes the pre-pin compression stage.
type CompressorConfig struct {
	Enabled      bool
	MinSizeBytes int64
	ImageQuality int
}

// Compressor conditionally shrinks a staged file before it is pinned.
// It never fails an upload: any compression error degrades to returning
// the original file untouched.
type Compressor struct {
	cfg CompressorConfig
	log zerolog.Logger
}

func NewCompressor(cfg CompressorConfig, log zerolog.Logger) *Compressor {
	return &Compressor{
		cfg: cfg,
		log: log.With().Str("component", "compressor").Logger(),
	}
}

// InspectSize returns the byte size of the file at path.
func InspectSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// Compress decides whether to shrink the file at path and returns the
// outcome. Exactly one of the original or compressed file exists on disk
// afterwards; the loser is deleted before returning.
func (c *Compressor) Compress(path, originalName string, size int64) CompressionOutcome {
	kept := CompressionOutcome{Path: path, Compressed: false, OriginalSize: size}

	if !c.cfg.Enabled || size < c.cfg.MinSizeBytes {
		return kept
	}

	candidate := path + ".compressed"
	ext := strings.ToLower(filepath.Ext(originalName))

	var (
		candidateSize int64
		acceptRatio   float64
		err           error
	)
	if imageExtensions[ext] {
		candidateSize, err = c.reencodeImage(path, candidate)
		acceptRatio = imageAcceptRatio
	} else {
		candidateSize, err = gzipFile(path, candidate)
		acceptRatio = genericAcceptRatio
	}
	if err != nil {
		// Graceful degradation: a failed compression must never fail the
		// upload. Keep the original and move on.
		c.log.Warn().Err(err).Str("file", originalName).Msg("compression skipped after error")
		os.Remove(candidate)
		return kept
	}

	if float64(candidateSize) < float64(size)*acceptRatio {
		if err := os.Remove(path); err != nil {
			c.log.Warn().Err(err).Str("path", path).Msg("failed to remove original after compression")
			os.Remove(candidate)
			return kept
		}
		c.log.Info().
			Str("file", originalName).
			Int64("original_bytes", size).
			Int64("compressed_bytes", candidateSize).
			Msg("compressed before pinning")
		return CompressionOutcome{
			Path:           candidate,
			Compressed:     true,
			OriginalSize:   size,
			CompressedSize: candidateSize,
		}
	}

	os.Remove(candidate)
	return kept
}

// reencodeImage rewrites the image as a quality-reduced JPEG.
func (c *Compressor) reencodeImage(src, dst string) (int64, error) {
	img, err := imaging.Open(src, imaging.AutoOrientation(true))
	if err != nil {
		return 0, err
	}
	out, err := os.Create(dst)
	if err != nil {
		return 0, err
	}
	if err := jpeg.Encode(out, img, &jpeg.Options{Quality: c.cfg.ImageQuality}); err != nil {
		out.Close()
		return 0, err
	}
	if err := out.Close(); err != nil {
		return 0, err
	}
	return InspectSize(dst)
}

// gzipFile streams src through gzip into dst.
func gzipFile(src, dst string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return 0, err
	}
	zw := gzip.NewWriter(out)
	if _, err := io.Copy(zw, in); err != nil {
		zw.Close()
		out.Close()
		return 0, err
	}
	if err := zw.Close(); err != nil {
		out.Close()
		return 0, err
	}
	if err := out.Close(); err != nil {
		return 0, err
	}
	return InspectSize(dst)
}
