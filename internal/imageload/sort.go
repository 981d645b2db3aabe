package imageload

import (
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/nao1215/panelkit/internal/model"
)

// DefaultExtensions are the image extensions stripped before the numeric
// filename comparison.
var DefaultExtensions = []string{"gif", "jpg", "jpeg", "tiff", "png", "bmp", "webp"}

// Sorter orders images by the integer value of their filename.
type Sorter struct {
	suffix *regexp.Regexp
}

// NewSorter creates a Sorter that strips the given extensions
// (case-insensitive) before parsing. An empty list uses DefaultExtensions.
func NewSorter(extensions []string) *Sorter {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	quoted := make([]string, len(extensions))
	for i, ext := range extensions {
		quoted[i] = regexp.QuoteMeta(strings.TrimPrefix(ext, "."))
	}
	return &Sorter{
		suffix: regexp.MustCompile(`(?i)\.(` + strings.Join(quoted, "|") + `)$`),
	}
}

// Key returns the sort key of a filename: the leading integer of the name
// once a known extension is removed. Leading whitespace and a sign are
// allowed; anything after the digits is ignored. A name with no leading
// digits yields NaN.
func (s *Sorter) Key(filename string) float64 {
	return parseIntPrefix(s.suffix.ReplaceAllString(filename, ""))
}

// Compare orders two filenames by key. A NaN key compares equal to
// everything, so unparsable names keep their relative input order under a
// stable sort.
func (s *Sorter) Compare(a, b string) int {
	ka, kb := s.Key(a), s.Key(b)
	switch {
	case math.IsNaN(ka) || math.IsNaN(kb):
		return 0
	case ka < kb:
		return -1
	case ka > kb:
		return 1
	default:
		return 0
	}
}

// Sort orders images in place, stably.
func (s *Sorter) Sort(images []model.LoadedImage) {
	slices.SortStableFunc(images, func(a, b model.LoadedImage) int {
		return s.Compare(a.Filename, b.Filename)
	})
}

func parseIntPrefix(s string) float64 {
	s = strings.TrimLeft(s, " \t\n\r\v\f")
	sign := 1.0
	if s != "" && (s[0] == '+' || s[0] == '-') {
		if s[0] == '-' {
			sign = -1
		}
		s = s[1:]
	}

	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return math.NaN()
	}

	// Parsed as float so very long digit runs saturate instead of failing.
	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return math.NaN()
	}
	return sign * v
}
