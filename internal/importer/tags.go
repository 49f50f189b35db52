package importer

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/piwi3910/LotLayout/internal/model"
)

// Dimension file errors. Both are fatal: the file is rejected.
var (
	ErrMissingTag   = errors.New("no valid tag found")
	ErrDuplicateTag = errors.New("tag appears more than once")
)

// TagError reports which tag made a dimension file unusable.
type TagError struct {
	Tag string
	Err error
}

func (e *TagError) Error() string {
	switch {
	case errors.Is(e.Err, ErrDuplicateTag):
		return fmt.Sprintf("too many %q tags found; keep only one of them", e.Tag)
	case errors.Is(e.Err, ErrMissingTag):
		return fmt.Sprintf("no %q tag found; add it with a non-negative number", e.Tag)
	default:
		return fmt.Sprintf("tag %q: %v", e.Tag, e.Err)
	}
}

func (e *TagError) Unwrap() error { return e.Err }

// ImportDimensions reads a dimension tag file from disk.
func ImportDimensions(path string) (model.Dimensions, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.Dimensions{}, fmt.Errorf("failed to open dimension file: %w", err)
	}
	defer f.Close()
	return ParseDimensions(f)
}

// ParseDimensions reads "[TAG] value" lines. Lines without both brackets or
// with an unknown tag are ignored, as are values that are empty, negative or
// not a finite number. Every required tag must end up with exactly one
// usable value: a second occurrence of a tag that already has one is an
// ErrDuplicateTag, and a tag with none is an ErrMissingTag.
func ParseDimensions(r io.Reader) (model.Dimensions, error) {
	var d model.Dimensions
	seen := make(map[string]bool, len(model.DimensionTags))

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		tag, value, ok := splitTagLine(scanner.Text())
		if !ok || !isDimensionTag(tag) || value == "" {
			continue
		}
		if seen[tag] {
			return model.Dimensions{}, &TagError{Tag: tag, Err: ErrDuplicateTag}
		}
		v, err := strconv.ParseFloat(value, 64)
		if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		d.Set(tag, v)
		seen[tag] = true
	}
	if err := scanner.Err(); err != nil {
		return model.Dimensions{}, fmt.Errorf("failed to read dimension file: %w", err)
	}

	for _, tag := range model.DimensionTags {
		if !seen[tag] {
			return model.Dimensions{}, &TagError{Tag: tag, Err: ErrMissingTag}
		}
	}
	return d, nil
}

// splitTagLine splits a line at its first "]". The tag is everything before
// it with every "[" removed; both halves are trimmed.
func splitTagLine(line string) (tag, value string, ok bool) {
	if strings.TrimSpace(line) == "" || !strings.Contains(line, "[") {
		return "", "", false
	}
	head, tail, found := strings.Cut(line, "]")
	if !found {
		return "", "", false
	}
	tag = strings.TrimSpace(strings.ReplaceAll(head, "[", ""))
	return tag, strings.TrimSpace(tail), true
}

func isDimensionTag(tag string) bool {
	for _, t := range model.DimensionTags {
		if t == tag {
			return true
		}
	}
	return false
}
