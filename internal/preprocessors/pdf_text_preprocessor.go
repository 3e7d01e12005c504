// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package preprocessors

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"ssn-finder/internal/observability"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"golang.org/x/sync/errgroup"
)

const (
	pageBreak       = "\n--- PAGE BREAK ---\n"
	formDataHeader  = "\n--- PDF Form Data ---\n"
	defaultMaxPages = 200
)

// PDFTextPreprocessor extracts the text layer of searchable PDFs, which is
// where OCR output ends up after a scan-to-PDF pass
type PDFTextPreprocessor struct {
	observer  *observability.StandardObserver
	pdfConfig *model.Configuration
	maxPages  int
	workers   int
}

// NewPDFTextPreprocessor creates a PDF text preprocessor
func NewPDFTextPreprocessor() *PDFTextPreprocessor {
	pdfConfig := model.NewDefaultConfiguration()
	pdfConfig.ValidationMode = model.ValidationRelaxed

	return &PDFTextPreprocessor{
		pdfConfig: pdfConfig,
		maxPages:  defaultMaxPages,
		workers:   runtime.NumCPU(),
	}
}

// SetObserver sets the observability component
func (p *PDFTextPreprocessor) SetObserver(observer *observability.StandardObserver) {
	p.observer = observer
}

// SetMaxPages limits how many pages are extracted; n <= 0 keeps the default
func (p *PDFTextPreprocessor) SetMaxPages(n int) {
	if n > 0 {
		p.maxPages = n
	}
}

// GetName returns the name of this preprocessor
func (p *PDFTextPreprocessor) GetName() string {
	return "PDF Text Preprocessor"
}

// GetSupportedExtensions returns the file extensions this preprocessor supports
func (p *PDFTextPreprocessor) GetSupportedExtensions() []string {
	return []string{".pdf"}
}

// CanProcess checks if this preprocessor can handle the given file
func (p *PDFTextPreprocessor) CanProcess(filePath string) bool {
	return strings.ToLower(filepath.Ext(filePath)) == ".pdf"
}

// Process validates the document and extracts its text page by page
func (p *PDFTextPreprocessor) Process(ctx context.Context, filePath string) (*ProcessedContent, error) {
	var finishTiming func(bool, map[string]interface{})
	if p.observer != nil {
		finishTiming = p.observer.StartTiming("pdf_text_preprocessor", "process_file", filePath)
	}
	finishStep := observability.Steps(p.observer)("pdf_text_preprocessor", "process_file", filePath)

	fail := func(err error) (*ProcessedContent, error) {
		if finishTiming != nil {
			finishTiming(false, map[string]interface{}{"error": err.Error()})
		}
		finishStep(false, err.Error())
		return &ProcessedContent{
			OriginalPath:  filePath,
			Filename:      filepath.Base(filePath),
			ProcessorType: "pdf_text",
			Success:       false,
			Error:         err,
		}, err
	}

	pageCount, err := p.inspect(filePath)
	if err != nil {
		return fail(err)
	}

	text, extracted, failedPages, err := p.extractText(ctx, filePath)
	if err != nil {
		return fail(err)
	}

	result := &ProcessedContent{
		OriginalPath:  filePath,
		Filename:      filepath.Base(filePath),
		Text:          text,
		Format:        "PDF",
		PageCount:     pageCount,
		ProcessorType: "pdf_text",
		Success:       true,
		Metadata: map[string]interface{}{
			"pages_extracted": extracted,
			"pages_failed":    failedPages,
		},
	}
	result.countStats()
	if extracted < pageCount {
		result.Metadata["truncated"] = true
	}

	if finishTiming != nil {
		finishTiming(true, map[string]interface{}{
			"page_count": pageCount,
			"char_count": result.CharCount,
		})
	}
	finishStep(true, fmt.Sprintf("Extracted %d of %d pages (%d failed)", extracted, pageCount, failedPages))

	return result, nil
}

// inspect validates the PDF structure with pdfcpu and returns its page count
func (p *PDFTextPreprocessor) inspect(filePath string) (int, error) {
	if err := api.ValidateFile(filePath, p.pdfConfig); err != nil {
		return 0, fmt.Errorf("invalid PDF file: %w", err)
	}

	pdfCtx, err := api.ReadContextFile(filePath)
	if err != nil {
		return 0, fmt.Errorf("failed to read PDF context: %w", err)
	}
	return pdfCtx.PageCount, nil
}

// extractText reads row-ordered page text concurrently and joins it in page
// order, followed by any AcroForm field values.
func (p *PDFTextPreprocessor) extractText(ctx context.Context, filePath string) (string, int, int, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return "", 0, 0, fmt.Errorf("error opening PDF: %w", err)
	}
	defer f.Close()

	pages := min(r.NumPage(), p.maxPages)
	pageTexts := make([]string, pages)
	pageOK := make([]bool, pages)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(p.workers, 1))
	for i := 1; i <= pages; i++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			page := r.Page(i)
			if page.V.IsNull() {
				return nil
			}
			text, err := pageText(page)
			if err != nil {
				// Unreadable pages are skipped so the rest of the document is still scanned
				return nil
			}
			pageTexts[i-1] = text
			pageOK[i-1] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", 0, 0, err
	}

	var buf bytes.Buffer
	failed := 0
	for i, text := range pageTexts {
		if !pageOK[i] {
			failed++
			continue
		}
		if buf.Len() > 0 {
			buf.WriteString(pageBreak)
		}
		buf.WriteString(text)
	}

	if formData := extractFormData(r); formData != "" {
		buf.WriteString(formDataHeader)
		buf.WriteString(formData)
	}

	return buf.String(), pages - failed, failed, nil
}

// pageText rebuilds each text row left to right, falling back to the plain
// text stream when row grouping fails
func pageText(page pdf.Page) (string, error) {
	rows, err := page.GetTextByRow()
	if err != nil {
		return page.GetPlainText(nil)
	}

	var buf bytes.Buffer
	for _, row := range rows {
		if row == nil || len(row.Content) == 0 {
			continue
		}
		rowText := reconstructRowText(row.Content)
		if strings.TrimSpace(rowText) != "" {
			buf.WriteString(rowText)
			buf.WriteString("\n")
		}
	}
	return buf.String(), nil
}

// reconstructRowText orders text runs by X and inserts a space where the gap
// to the next run exceeds a fifth of the font size
func reconstructRowText(textElements []pdf.Text) string {
	if len(textElements) == 0 {
		return ""
	}

	sorted := make([]pdf.Text, len(textElements))
	copy(sorted, textElements)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].X < sorted[j].X
	})

	var buf bytes.Buffer
	for i, element := range sorted {
		buf.WriteString(element.S)
		if i == len(sorted)-1 {
			break
		}

		fontSize := element.FontSize
		if fontSize <= 0 {
			fontSize = 12
		}
		gap := sorted[i+1].X - (element.X + element.W)
		if gap > fontSize*0.2 {
			buf.WriteString(" ")
		}
	}
	return buf.String()
}

// extractFormData returns "Name: x Value: y" lines for filled AcroForm fields
func extractFormData(r *pdf.Reader) string {
	root := r.Trailer().Key("Root")
	if root.IsNull() {
		return ""
	}
	fields := root.Key("AcroForm").Key("Fields")
	if fields.IsNull() || fields.Kind() != pdf.Array {
		return ""
	}

	var buf bytes.Buffer
	for i := 0; i < fields.Len(); i++ {
		name, value := fieldNameValue(fields.Index(i))
		if name != "" && value != "" {
			fmt.Fprintf(&buf, "Name: %s Value: %s\n", name, value)
		}
	}
	return buf.String()
}

func fieldNameValue(field pdf.Value) (string, string) {
	if field.Kind() != pdf.Dict {
		return "", ""
	}

	var name string
	if t := field.Key("T"); t.Kind() == pdf.String {
		name = t.Text()
	}

	value := scalarText(field.Key("V"))
	if value == "" {
		value = scalarText(field.Key("DV"))
	}
	return name, value
}

func scalarText(v pdf.Value) string {
	switch v.Kind() {
	case pdf.String:
		return v.Text()
	case pdf.Name:
		return v.Name()
	}
	return ""
}
