package extractor

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestExtractTxt(t *testing.T) {
	path := writeFile(t, "doc.txt", []byte("Hello world.\nSecond line."))
	got, err := Extract(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Hello world.\nSecond line." {
		t.Errorf("got %q", got)
	}
}

func TestExtractTxtDropsInvalidUTF8(t *testing.T) {
	path := writeFile(t, "doc.txt", []byte{'H', 'i', 0xff, 0xfe, '!'})
	got, err := Extract(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Hi!" {
		t.Errorf("expected undecodable bytes dropped, got %q", got)
	}
}

func TestExtractUnknownExtensionFallsBackToText(t *testing.T) {
	path := writeFile(t, "notes.log", []byte("plain text content"))
	got, err := Extract(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "plain text content" {
		t.Errorf("got %q", got)
	}
}

func TestExtractMarkdown(t *testing.T) {
	md := "# Title\n\nFirst paragraph with *emphasis*.\n\n- item one\n- item two\n"
	path := writeFile(t, "doc.md", []byte(md))
	got, err := Extract(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"Title", "First paragraph with", "emphasis", "item one", "item two"} {
		if !strings.Contains(got, want) {
			t.Errorf("markdown text missing %q in %q", want, got)
		}
	}
	if strings.Contains(got, "#") || strings.Contains(got, "*") {
		t.Errorf("markdown markup leaked into plain text: %q", got)
	}
}

func TestExtractCorruptPDF(t *testing.T) {
	path := writeFile(t, "doc.pdf", []byte("not a pdf at all"))
	if _, err := Extract(path); err == nil {
		t.Error("expected error for corrupt pdf")
	}
}

func TestExtractCorruptDOCX(t *testing.T) {
	path := writeFile(t, "doc.docx", []byte("not a zip archive"))
	if _, err := Extract(path); err == nil {
		t.Error("expected error for corrupt docx")
	}
}

func TestExtractMissingFile(t *testing.T) {
	if _, err := Extract(filepath.Join(t.TempDir(), "absent.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestTagTextIgnoresTableTags(t *testing.T) {
	markup := `<w:p><w:r><w:t>Intro paragraph.</w:t></w:r></w:p>` +
		`<w:tbl><w:tblPr/><w:tr><w:tc><w:tcPr/>` +
		`<w:p><w:r><w:t>Cell text</w:t></w:r></w:p>` +
		`</w:tc></w:tr></w:tbl>`

	got := tagText(markup, "w:t")
	for _, want := range []string{"Intro paragraph.", "Cell text"} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in %q", want, got)
		}
	}
	if strings.ContainsAny(got, "<>") {
		t.Errorf("raw markup leaked into extracted text: %q", got)
	}
}

func TestTagTextAttributesAndSelfClosing(t *testing.T) {
	markup := `<w:t xml:space="preserve">kept </w:t><w:t/><w:t>also kept</w:t>`
	got := tagText(markup, "w:t")
	if !strings.Contains(got, "kept ") || !strings.Contains(got, "also kept") {
		t.Errorf("got %q", got)
	}
	if strings.ContainsAny(got, "<>") {
		t.Errorf("raw markup leaked: %q", got)
	}
}

func TestExtractPPTXWithTable(t *testing.T) {
	slide := `<p:sld><p:cSld><p:spTree>` +
		`<a:t>Slide title</a:t>` +
		`<a:tbl><a:tr><a:tc><a:txBody><a:p><a:r><a:t>Table cell</a:t></a:r></a:p></a:txBody></a:tc></a:tr></a:tbl>` +
		`</p:spTree></p:cSld></p:sld>`

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	fw, err := zw.Create("ppt/slides/slide1.xml")
	if err != nil {
		t.Fatalf("creating slide entry: %v", err)
	}
	if _, err := fw.Write([]byte(slide)); err != nil {
		t.Fatalf("writing slide: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("closing zip: %v", err)
	}
	path := writeFile(t, "deck.pptx", buf.Bytes())

	got, err := Extract(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"Slide title", "Table cell"} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in %q", want, got)
		}
	}
	if strings.ContainsAny(got, "<>") {
		t.Errorf("raw markup leaked into extracted text: %q", got)
	}
}
