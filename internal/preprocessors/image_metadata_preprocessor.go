// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package preprocessors

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf16"

	"ssn-finder/internal/observability"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
)

// imageTextFields are the EXIF tags indexing and capture software fill
// with free text. Scanned forms often carry a transcription here.
var imageTextFields = map[string]bool{
	"ImageDescription": true,
	"Artist":           true,
	"Copyright":        true,
	"UserComment":      true,
	"DocumentName":     true,
	"XPTitle":          true,
	"XPComment":        true,
	"XPAuthor":         true,
	"XPKeywords":       true,
	"XPSubject":        true,
}

const maxCommentScan = 1024 * 1024 // 1MB

// ImageMetadataPreprocessor turns the free-text metadata of scanned images
// into scannable text, one "Field: value" line per populated field
type ImageMetadataPreprocessor struct {
	observer *observability.StandardObserver
}

// NewImageMetadataPreprocessor creates an image metadata preprocessor
func NewImageMetadataPreprocessor() *ImageMetadataPreprocessor {
	return &ImageMetadataPreprocessor{}
}

// SetObserver sets the observability component
func (imp *ImageMetadataPreprocessor) SetObserver(observer *observability.StandardObserver) {
	imp.observer = observer
}

// GetName returns the name of this preprocessor
func (imp *ImageMetadataPreprocessor) GetName() string {
	return "Image Metadata Preprocessor"
}

// GetSupportedExtensions returns the file extensions this preprocessor supports
func (imp *ImageMetadataPreprocessor) GetSupportedExtensions() []string {
	return []string{".jpg", ".jpeg", ".tif", ".tiff"}
}

// CanProcess checks if this preprocessor can handle the given file
func (imp *ImageMetadataPreprocessor) CanProcess(filePath string) bool {
	ext := strings.ToLower(filepath.Ext(filePath))
	for _, supported := range imp.GetSupportedExtensions() {
		if ext == supported {
			return true
		}
	}
	return false
}

// Process decodes EXIF text fields and any JPEG comment segment
func (imp *ImageMetadataPreprocessor) Process(ctx context.Context, filePath string) (*ProcessedContent, error) {
	var finishTiming func(bool, map[string]interface{})
	if imp.observer != nil {
		finishTiming = imp.observer.StartTiming("image_metadata_preprocessor", "process_file", filePath)
	}
	finishStep := observability.Steps(imp.observer)("image_metadata_preprocessor", "process_file", filePath)

	fields, err := readImageText(filePath)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		if finishTiming != nil {
			finishTiming(false, map[string]interface{}{"error": err.Error()})
		}
		finishStep(false, err.Error())
		return &ProcessedContent{
			OriginalPath:  filePath,
			Filename:      filepath.Base(filePath),
			ProcessorType: "image_metadata",
			Success:       false,
			Error:         err,
		}, err
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf strings.Builder
	for _, name := range names {
		fmt.Fprintf(&buf, "%s: %s\n", name, fields[name])
	}

	result := &ProcessedContent{
		OriginalPath:  filePath,
		Filename:      filepath.Base(filePath),
		Text:          buf.String(),
		Format:        "Image Metadata",
		PageCount:     1,
		ProcessorType: "image_metadata",
		Success:       true,
		Metadata:      map[string]interface{}{"fields": names},
	}
	result.countStats()

	if finishTiming != nil {
		finishTiming(true, map[string]interface{}{"field_count": len(names)})
	}
	finishStep(true, fmt.Sprintf("Extracted %d text fields", len(names)))

	return result, nil
}

// textWalker collects the allow-listed text tags
type textWalker struct {
	fields map[string]string
}

// Walk implements the exif.Walker interface
func (w *textWalker) Walk(name exif.FieldName, tag *tiff.Tag) error {
	if tag == nil || !imageTextFields[string(name)] {
		return nil
	}
	if value := tagText(string(name), tag); value != "" {
		w.fields[string(name)] = value
	}
	return nil
}

func readImageText(filePath string) (map[string]string, error) {
	f, err := os.Open(filepath.Clean(filePath))
	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}
	defer f.Close()

	fields := make(map[string]string)

	x, exifErr := exif.Decode(f)
	if exifErr == nil {
		if err := x.Walk(&textWalker{fields: fields}); err != nil {
			return nil, fmt.Errorf("error walking EXIF data: %w", err)
		}
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("error rewinding file: %w", err)
	}
	raw, err := io.ReadAll(io.LimitReader(f, maxCommentScan))
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	if comment := jpegComment(raw); comment != "" {
		fields["JPEGComment"] = comment
	}

	if exifErr != nil && len(fields) == 0 {
		return nil, fmt.Errorf("no image metadata found: %w", exifErr)
	}
	return fields, nil
}

// tagText decodes ASCII tags, the charset-prefixed UserComment and the
// UTF-16LE Windows XP* tags
func tagText(name string, tag *tiff.Tag) string {
	switch {
	case tag.Format() == tiff.StringVal:
		s, err := tag.StringVal()
		if err != nil {
			return ""
		}
		return strings.TrimSpace(s)
	case name == "UserComment":
		if len(tag.Val) <= 8 {
			return ""
		}
		return strings.TrimSpace(strings.Trim(string(tag.Val[8:]), "\x00"))
	case strings.HasPrefix(name, "XP"):
		return strings.TrimSpace(decodeUTF16LE(tag.Val))
	}
	return ""
}

func decodeUTF16LE(b []byte) string {
	units := make([]uint16, 0, len(b)/2)
	for i := 0; i+1 < len(b); i += 2 {
		u := uint16(b[i]) | uint16(b[i+1])<<8
		if u == 0 {
			break
		}
		units = append(units, u)
	}
	return string(utf16.Decode(units))
}

// jpegComment returns the first non-empty COM (0xFFFE) segment
func jpegComment(data []byte) string {
	if !bytes.HasPrefix(data, []byte{0xFF, 0xD8}) {
		return ""
	}
	for i := 2; i+4 <= len(data); i++ {
		if data[i] != 0xFF || data[i+1] != 0xFE {
			continue
		}
		// Segment length counts its own two bytes
		length := int(data[i+2])<<8 | int(data[i+3])
		if length < 2 || i+2+length > len(data) {
			continue
		}
		if comment := strings.TrimSpace(string(data[i+4 : i+2+length])); comment != "" {
			return comment
		}
	}
	return ""
}
