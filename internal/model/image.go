package model

// LoadedImage is a decoded page in the working set.
//
// Data holds the raw encoded bytes; decoded pixels are never kept because
// only the natural size is needed to drive zoom and coordinates.
type LoadedImage struct {
	// Filename is the name the image was loaded under. It is the identity
	// used by FindByFilename and the sort comparator.
	Filename string `json:"filename"`

	// MIMEType is the sniffed content type, always "image/...".
	MIMEType string `json:"mime_type"`

	// Format is the decoder name reported by image.DecodeConfig (png, jpeg, tiff...).
	Format string `json:"format"`

	// Width and Height are the natural pixel dimensions.
	Width  int `json:"width"`
	Height int `json:"height"`

	// Digest is the hex SHA3-256 of Data.
	Digest string `json:"digest"`

	// Metadata holds scan-relevant EXIF fields, nil when the image has none.
	Metadata *ImageMetadata `json:"metadata,omitempty"`

	// Data is the raw encoded image payload.
	Data []byte `json:"-"`
}

// ImageMetadata contains the EXIF fields that matter for scanned pages.
type ImageMetadata struct {
	// Software is the scanner or editing software that produced the file.
	Software string `json:"software,omitempty"`

	// Make and Model identify the capture device.
	Make  string `json:"make,omitempty"`
	Model string `json:"model,omitempty"`

	// Orientation is the raw EXIF orientation tag (1-8).
	Orientation string `json:"orientation,omitempty"`

	// XResolution, YResolution and ResolutionUnit describe the scan density.
	XResolution    string `json:"x_resolution,omitempty"`
	YResolution    string `json:"y_resolution,omitempty"`
	ResolutionUnit string `json:"resolution_unit,omitempty"`

	// DateTime is the capture or modification time as recorded in the file.
	DateTime string `json:"date_time,omitempty"`
}

// IsEmpty reports whether no field was populated.
func (m *ImageMetadata) IsEmpty() bool {
	if m == nil {
		return true
	}
	return *m == ImageMetadata{}
}
