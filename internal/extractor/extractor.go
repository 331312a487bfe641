// Package extractor converts an uploaded file into plain text, keyed by the
// file's extension. No structure or layout is preserved.
package extractor

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"github.com/tealeg/xlsx"
	"github.com/xuri/excelize/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Extract reads the file at path and returns its plain text. Unknown
// extensions fall back to UTF-8 text decoding. A whitespace-only result is
// the caller's problem to reject.
func Extract(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".pdf":
		return extractPDF(path)
	case ".docx":
		return extractDOCX(path)
	case ".pptx":
		return extractPPTX(path)
	case ".xlsx":
		return extractXLSX(path)
	case ".ods":
		return extractODS(path)
	case ".md":
		return extractMarkdown(path)
	case ".txt":
		return extractText(path)
	default:
		return extractText(path)
	}
}

func extractPDF(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return "", err
	}

	reader, err := pdf.NewReader(f, stat.Size())
	if err != nil {
		return "", fmt.Errorf("reading pdf: %v", err)
	}

	var pages []string
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			// pages that yield no extractable text are skipped
			continue
		}
		if strings.TrimSpace(pageText) != "" {
			pages = append(pages, pageText)
		}
	}
	return strings.Join(pages, "\n"), nil
}

func extractDOCX(path string) (string, error) {
	r, err := docx.ReadDocxFile(path)
	if err != nil {
		return "", fmt.Errorf("reading docx: %v", err)
	}
	defer r.Close()

	content := r.Editable().GetContent()
	var paragraphs []string
	for _, block := range strings.Split(content, "</w:p>") {
		p := strings.TrimSpace(tagText(block, "w:t"))
		if p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return strings.Join(paragraphs, "\n"), nil
}

func extractPPTX(path string) (string, error) {
	f, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("reading pptx: %v", err)
	}
	defer f.Close()

	var slides []string
	for _, file := range f.File {
		if !strings.HasPrefix(file.Name, "ppt/slides/slide") {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			continue
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			continue
		}
		slideText := strings.TrimSpace(tagText(string(data), "a:t"))
		if slideText != "" {
			slides = append(slides, slideText)
		}
	}
	return strings.Join(slides, "\n"), nil
}

func extractXLSX(path string) (string, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return "", fmt.Errorf("reading xlsx: %v", err)
	}

	var sb strings.Builder
	for _, sheet := range f.Sheets {
		for _, row := range sheet.Rows {
			var cells []string
			for _, cell := range row.Cells {
				if v := strings.TrimSpace(cell.String()); v != "" {
					cells = append(cells, v)
				}
			}
			if len(cells) > 0 {
				sb.WriteString(strings.Join(cells, "\t"))
				sb.WriteString("\n")
			}
		}
	}
	return sb.String(), nil
}

func extractODS(path string) (string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return "", fmt.Errorf("reading ods: %v", err)
	}
	defer f.Close()

	var sb strings.Builder
	for _, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName)
		if err != nil {
			continue
		}
		for _, row := range rows {
			var cells []string
			for _, cell := range row {
				if v := strings.TrimSpace(cell); v != "" {
					cells = append(cells, v)
				}
			}
			if len(cells) > 0 {
				sb.WriteString(strings.Join(cells, "\t"))
				sb.WriteString("\n")
			}
		}
	}
	return sb.String(), nil
}

func extractMarkdown(path string) (string, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(source))

	var sb strings.Builder
	err = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if t, ok := n.(*ast.Text); ok {
				sb.Write(t.Segment.Value(source))
				if t.SoftLineBreak() || t.HardLineBreak() {
					sb.WriteString("\n")
				}
			}
			return ast.WalkContinue, nil
		}
		switch n.Kind() {
		case ast.KindParagraph, ast.KindHeading, ast.KindListItem, ast.KindBlockquote:
			sb.WriteString("\n")
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return "", fmt.Errorf("walking markdown: %v", err)
	}
	return sb.String(), nil
}

func extractText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	// drop undecodable bytes rather than failing
	return strings.ToValidUTF8(string(data), ""), nil
}

// tagText collects the text inside every <tag>...</tag> element of raw
// OOXML markup. Only the exact tag counts: "w:t" must not also match table
// elements like <w:tbl>, <w:tr> or <w:tc> that share the prefix.
func tagText(xmlContent, tag string) string {
	openPrefix := "<" + tag
	closeTag := "</" + tag + ">"
	var sb strings.Builder
	rest := xmlContent
	for {
		start := strings.Index(rest, openPrefix)
		if start < 0 {
			break
		}
		rest = rest[start+len(openPrefix):]
		if rest == "" {
			break
		}
		// the tag name must end here, either closing the tag or starting
		// an attribute list
		switch rest[0] {
		case '>', ' ', '/':
		default:
			continue
		}
		gt := strings.Index(rest, ">")
		if gt < 0 {
			break
		}
		// self-closing tag, no text
		if strings.HasSuffix(rest[:gt+1], "/>") {
			rest = rest[gt+1:]
			continue
		}
		rest = rest[gt+1:]
		end := strings.Index(rest, closeTag)
		if end < 0 {
			break
		}
		sb.WriteString(rest[:end])
		sb.WriteString(" ")
		rest = rest[end+len(closeTag):]
	}
	return sb.String()
}
