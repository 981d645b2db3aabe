package imageload

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	// Standard decoders.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/dsoprea/go-exif/v3"
	"github.com/nao1215/panelkit/internal/model"
	"golang.org/x/crypto/sha3"

	// Scanner output formats.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// extensionTypes maps a lowercase extension to the MIME type assumed when
// content sniffing is inconclusive. TIFF has no sniffing signature.
var extensionTypes = map[string]string{
	"gif":  "image/gif",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"tiff": "image/tiff",
	"tif":  "image/tiff",
	"bmp":  "image/bmp",
	"webp": "image/webp",
}

// decodableTypes are the MIME types with a registered decoder. Other
// image types (ICO, SVG, AVIF) sniff as images but cannot be measured.
var decodableTypes = map[string]bool{
	"image/gif":  true,
	"image/jpeg": true,
	"image/png":  true,
	"image/tiff": true,
	"image/bmp":  true,
	"image/webp": true,
}

// IsDecodable reports whether mimeType has a registered decoder.
func IsDecodable(mimeType string) bool {
	return decodableTypes[mimeType]
}

// DetectMIMEType returns the content type of a payload. The bytes are
// sniffed first; when they are not recognized as an image, the filename
// extension decides, but only for extensions in the accepted list.
func DetectMIMEType(name string, data []byte, extensions []string) string {
	sniffed := http.DetectContentType(data)
	if strings.HasPrefix(sniffed, "image/") {
		return sniffed
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	for _, accepted := range extensions {
		if strings.EqualFold(accepted, ext) {
			if t, ok := extensionTypes[ext]; ok {
				return t
			}
		}
	}
	return sniffed
}

// IsImage reports whether the file is accepted into a load batch: it must
// be an image in a format panelkit can decode. A stray icon or SVG next to
// the pages is skipped instead of failing the whole batch.
func IsImage(f File, extensions []string) bool {
	if len(f.Data) == 0 {
		return false
	}
	return IsDecodable(DetectMIMEType(f.Name, f.Data, extensions))
}

// SniffStep sets the MIME type and rejects non-image payloads.
type SniffStep struct {
	extensions []string
}

// NewSniffStep creates a SniffStep accepting the given extensions as a
// fallback for unsniffable formats.
func NewSniffStep(extensions []string) *SniffStep {
	return &SniffStep{extensions: extensions}
}

// Name returns the step name.
func (s *SniffStep) Name() string {
	return "sniff"
}

// Do executes the sniff step.
func (s *SniffStep) Do(_ context.Context, img *model.LoadedImage) error {
	if len(img.Data) == 0 {
		return fmt.Errorf("%w: %s", ErrEmptyPayload, img.Filename)
	}
	mimeType := DetectMIMEType(img.Filename, img.Data, s.extensions)
	if !IsDecodable(mimeType) {
		return fmt.Errorf("%w: %s (%s)", ErrNotImage, img.Filename, mimeType)
	}
	img.MIMEType = mimeType
	return nil
}

// DecodeStep reads the natural dimensions from the image header.
type DecodeStep struct{}

// NewDecodeStep creates a DecodeStep.
func NewDecodeStep() *DecodeStep {
	return &DecodeStep{}
}

// Name returns the step name.
func (s *DecodeStep) Name() string {
	return "decode"
}

// Do executes the decode step. Only the header is decoded.
func (s *DecodeStep) Do(_ context.Context, img *model.LoadedImage) error {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(img.Data))
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrDecode, img.Filename, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("%w: %s has zero size", ErrDecode, img.Filename)
	}
	img.Format = format
	img.Width = cfg.Width
	img.Height = cfg.Height
	return nil
}

// MetadataStep extracts scan-relevant EXIF tags. Missing or corrupt EXIF
// is not an error; the image simply has no metadata.
type MetadataStep struct {
	logger *slog.Logger
}

// NewMetadataStep creates a MetadataStep.
func NewMetadataStep(logger *slog.Logger) *MetadataStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &MetadataStep{logger: logger}
}

// Name returns the step name.
func (s *MetadataStep) Name() string {
	return "metadata"
}

// Do executes the metadata step.
func (s *MetadataStep) Do(_ context.Context, img *model.LoadedImage) error {
	meta, err := ReadMetadata(img.Data)
	if err != nil {
		s.logger.Debug("no usable exif", "file", img.Filename, "error", err)
		return nil
	}
	if !meta.IsEmpty() {
		img.Metadata = meta
	}
	return nil
}

// ReadMetadata parses the EXIF block of an encoded image.
func ReadMetadata(data []byte) (*model.ImageMetadata, error) {
	rawExif, err := exif.SearchAndExtractExif(data)
	if err != nil {
		if errors.Is(err, exif.ErrNoExif) {
			return &model.ImageMetadata{}, nil
		}
		return nil, err
	}

	entries, _, err := exif.GetFlatExifData(rawExif, nil)
	if err != nil {
		return nil, err
	}

	meta := &model.ImageMetadata{}
	for _, entry := range entries {
		value := entry.Formatted
		switch entry.TagName {
		case "Software", "ProcessingSoftware":
			if meta.Software == "" {
				meta.Software = value
			}
		case "Make":
			meta.Make = value
		case "Model":
			meta.Model = value
		case "Orientation":
			meta.Orientation = value
		case "XResolution":
			meta.XResolution = value
		case "YResolution":
			meta.YResolution = value
		case "ResolutionUnit":
			meta.ResolutionUnit = value
		case "DateTime", "DateTimeOriginal":
			if meta.DateTime == "" {
				meta.DateTime = value
			}
		}
	}
	return meta, nil
}

// DigestStep records the SHA3-256 of the payload.
type DigestStep struct{}

// NewDigestStep creates a DigestStep.
func NewDigestStep() *DigestStep {
	return &DigestStep{}
}

// Name returns the step name.
func (s *DigestStep) Name() string {
	return "digest"
}

// Do executes the digest step.
func (s *DigestStep) Do(_ context.Context, img *model.LoadedImage) error {
	img.Digest = Digest(img.Data)
	return nil
}

// Digest returns the hex SHA3-256 of data.
func Digest(data []byte) string {
	sum := sha3.Sum256(data)
	return hex.EncodeToString(sum[:])
}
