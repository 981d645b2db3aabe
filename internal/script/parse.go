package script

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nao1215/panelkit/internal/geometry"
	"gopkg.in/yaml.v3"
)

// ReadFile reads and parses a script file. Files ending in .yaml or .yml
// are parsed as YAML, anything else as line commands.
func ReadFile(path string) ([]Command, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	return Parse(path, data)
}

// Parse parses script data, choosing the format from name's extension.
func Parse(name string, data []byte) ([]Command, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return ParseLines(bytes.NewReader(data))
	}
}

// ParseLines parses the line format.
// Blank lines and '#' comments are skipped but still counted, so the Line
// of each Command and of a ParseError matches the source file.
func ParseLines(r io.Reader) ([]Command, error) {
	var cmds []Command
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		cmd, err := parseLine(text)
		if err != nil {
			return nil, &ParseError{Line: line, Err: err}
		}
		cmd.Line = line
		cmds = append(cmds, cmd)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	return cmds, nil
}

// parseLine parses one non-empty, non-comment line. Command names are
// case-insensitive; arguments are separated by whitespace.
func parseLine(text string) (Command, error) {
	fields := strings.Fields(text)
	name := Kind(strings.ToLower(fields[0]))
	args := fields[1:]

	switch name {
	case KindClick, KindScroll:
		nums, err := numbers(args, 2)
		if err != nil {
			return Command{}, fmt.Errorf("%s: %w", name, err)
		}
		return Command{Kind: name, X: nums[0], Y: nums[1]}, nil

	case KindShift:
		if len(args) != 1 {
			return Command{}, fmt.Errorf("%w: shift takes down or up", ErrSyntax)
		}
		switch strings.ToLower(args[0]) {
		case "down":
			return Command{Kind: KindShift, Held: true}, nil
		case "up":
			return Command{Kind: KindShift, Held: false}, nil
		}
		return Command{}, fmt.Errorf("%w: shift takes down or up, got %q", ErrSyntax, args[0])

	case KindCommit, KindClear:
		if len(args) != 0 {
			return Command{}, fmt.Errorf("%w: %s takes no arguments", ErrSyntax, name)
		}
		return Command{Kind: name}, nil

	case KindSelect:
		if len(args) != 1 {
			return Command{}, fmt.Errorf("%w: select takes a path id", ErrSyntax)
		}
		return Command{Kind: KindSelect, PathID: args[0]}, nil

	case KindZoom:
		return parseZoom(args)

	case KindResize:
		nums, err := numbers(args, 4)
		if err != nil {
			return Command{}, fmt.Errorf("resize: %w", err)
		}
		return Command{Kind: KindResize, Viewport: geometry.Viewport{
			Top: nums[0], Left: nums[1], Width: nums[2], Height: nums[3],
		}}, nil

	case KindImage:
		if len(args) != 1 {
			return Command{}, fmt.Errorf("%w: image takes an index", ErrSyntax)
		}
		idx, err := strconv.Atoi(args[0])
		if err != nil {
			return Command{}, fmt.Errorf("%w: invalid image index %q", ErrSyntax, args[0])
		}
		return Command{Kind: KindImage, Index: idx}, nil

	case KindOpen:
		// Filenames may contain spaces.
		rest := strings.TrimSpace(text[len(fields[0]):])
		if rest == "" {
			return Command{}, fmt.Errorf("%w: open takes a filename", ErrSyntax)
		}
		return Command{Kind: KindOpen, Filename: rest}, nil
	}

	return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, fields[0])
}

// parseZoom parses the arguments of a zoom command: "in", "out", or
// "set" followed by a positive factor. The YAML form reuses it.
func parseZoom(args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, fmt.Errorf("%w: zoom takes in, out or set", ErrSyntax)
	}
	action := strings.ToLower(args[0])
	switch action {
	case ZoomIn, ZoomOut:
		if len(args) != 1 {
			return Command{}, fmt.Errorf("%w: zoom %s takes no value", ErrSyntax, action)
		}
		return Command{Kind: KindZoom, ZoomAction: action}, nil
	case ZoomSet:
		nums, err := numbers(args[1:], 1)
		if err != nil {
			return Command{}, fmt.Errorf("zoom set: %w", err)
		}
		if nums[0] <= 0 {
			return Command{}, fmt.Errorf("%w: zoom factor must be positive", ErrSyntax)
		}
		return Command{Kind: KindZoom, ZoomAction: ZoomSet, Factor: nums[0]}, nil
	}
	return Command{}, fmt.Errorf("%w: unknown zoom action %q", ErrSyntax, args[0])
}

// numbers parses exactly n finite floats.
func numbers(args []string, n int) ([]float64, error) {
	if len(args) != n {
		return nil, fmt.Errorf("%w: expected %d numbers, got %d", ErrSyntax, n, len(args))
	}
	out := make([]float64, n)
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: invalid number %q", ErrSyntax, a)
		}
		out[i] = v
	}
	return out, nil
}

// yamlScript is the YAML document layout.
type yamlScript struct {
	Events []yamlEvent `yaml:"events"`
}

// yamlEvent is one entry of the events list. Only the fields that belong
// to Type are read; the rest are ignored.
type yamlEvent struct {
	Type     string  `yaml:"type"`
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Held     bool    `yaml:"held"`
	Path     string  `yaml:"path"`
	Action   string  `yaml:"action"`
	Factor   float64 `yaml:"factor"`
	Top      float64 `yaml:"top"`
	Left     float64 `yaml:"left"`
	Width    float64 `yaml:"width"`
	Height   float64 `yaml:"height"`
	DX       float64 `yaml:"dx"`
	DY       float64 `yaml:"dy"`
	Index    int     `yaml:"index"`
	Filename string  `yaml:"filename"`
}

// ParseYAML parses the YAML format.
// The Line of each Command is its 1-based position in the events list.
func ParseYAML(data []byte) ([]Command, error) {
	var doc yamlScript
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSyntax, err)
	}

	cmds := make([]Command, 0, len(doc.Events))
	for i, ev := range doc.Events {
		cmd, err := ev.command()
		if err != nil {
			return nil, &ParseError{Line: i + 1, Err: err}
		}
		cmd.Line = i + 1
		cmds = append(cmds, cmd)
	}
	return cmds, nil
}

// command converts the event to a Command with the same validation as the
// line format.
func (ev yamlEvent) command() (Command, error) {
	kind := Kind(strings.ToLower(ev.Type))
	switch kind {
	case KindClick:
		return Command{Kind: kind, X: ev.X, Y: ev.Y}, nil
	case KindScroll:
		return Command{Kind: kind, X: ev.DX, Y: ev.DY}, nil
	case KindShift:
		return Command{Kind: kind, Held: ev.Held}, nil
	case KindCommit, KindClear:
		return Command{Kind: kind}, nil
	case KindSelect:
		if ev.Path == "" {
			return Command{}, fmt.Errorf("%w: select needs a path", ErrSyntax)
		}
		return Command{Kind: kind, PathID: ev.Path}, nil
	case KindZoom:
		args := []string{ev.Action}
		if strings.EqualFold(ev.Action, ZoomSet) {
			args = append(args, strconv.FormatFloat(ev.Factor, 'f', -1, 64))
		}
		return parseZoom(args)
	case KindResize:
		return Command{Kind: kind, Viewport: geometry.Viewport{
			Top: ev.Top, Left: ev.Left, Width: ev.Width, Height: ev.Height,
		}}, nil
	case KindImage:
		return Command{Kind: kind, Index: ev.Index}, nil
	case KindOpen:
		if ev.Filename == "" {
			return Command{}, fmt.Errorf("%w: open needs a filename", ErrSyntax)
		}
		return Command{Kind: kind, Filename: ev.Filename}, nil
	}
	return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, ev.Type)
}
