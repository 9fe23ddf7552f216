package services

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"

	"alfredoptarigan/resume-analyzer/internal/models"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported document format")
	ErrCorruptDocument   = errors.New("document cannot be decoded")
	ErrEncoding          = errors.New("document is not valid UTF-8")
)

const pageSeparator = "\n\n"

// DocumentExtractor turns an uploaded document into plain text.
type DocumentExtractor interface {
	Extract(ctx context.Context, doc models.UploadedDocument) (string, error)
}

type documentExtractor struct {
	storage StorageService
}

func NewDocumentExtractor(storage StorageService) DocumentExtractor {
	return &documentExtractor{
		storage: storage,
	}
}

// Extract implements DocumentExtractor.
func (e *documentExtractor) Extract(ctx context.Context, doc models.UploadedDocument) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	mediaType := ResolveMediaType(doc.MediaType, doc.Filename, doc.Data)
	switch mediaType {
	case models.MediaTypePlainText, models.MediaTypeMarkdown:
		return decodeText(doc.Data)
	case models.MediaTypePDF:
		return e.extractPDF(ctx, doc.Data)
	case models.MediaTypeDOCX:
		return extractDOCX(doc.Data)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, mediaType)
	}
}

// ResolveMediaType returns the declared media type without parameters. Generic types
// (empty, octet-stream, zip) are refined by sniffing the bytes, then by file extension.
func ResolveMediaType(declared, filename string, data []byte) string {
	clean := normalizeMediaType(declared)
	switch clean {
	case "", models.MediaTypeOctet, models.MediaTypeZip:
	default:
		return clean
	}

	if len(data) > 0 {
		sniffed := normalizeMediaType(mimetype.Detect(data).String())
		if sniffed != models.MediaTypeOctet && sniffed != models.MediaTypeZip {
			return sniffed
		}
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt":
		return models.MediaTypePlainText
	case ".md":
		return models.MediaTypeMarkdown
	case ".pdf":
		return models.MediaTypePDF
	case ".docx":
		return models.MediaTypeDOCX
	}

	if clean == "" {
		return models.MediaTypeOctet
	}
	return clean
}

func normalizeMediaType(raw string) string {
	return strings.ToLower(strings.TrimSpace(strings.Split(raw, ";")[0]))
}

func decodeText(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", ErrEncoding
	}
	return string(data), nil
}

// extractPDF reads the text layer page by page. A PDF without any text layer, such as a
// scan, gives an empty string.
func (e *documentExtractor) extractPDF(ctx context.Context, data []byte) (text string, err error) {
	path, release, err := e.storage.Spool(data, ".pdf")
	if err != nil {
		return "", fmt.Errorf("failed to spool PDF: %w", err)
	}
	defer release()

	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("%w: pdf decoder: %v", ErrCorruptDocument, r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrCorruptDocument, err)
	}
	defer f.Close()

	var pages []string
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			log.Printf("⚠️  Skipping unreadable PDF page %d: %v\n", pageIndex, err)
			continue
		}

		pageText = strings.TrimSpace(pageText)
		if pageText == "" {
			continue
		}
		pages = append(pages, pageText)
	}

	return strings.Join(pages, pageSeparator), nil
}

func extractDOCX(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrCorruptDocument, err)
	}

	var docFile *zip.File
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", fmt.Errorf("%w: word/document.xml not found", ErrCorruptDocument)
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrCorruptDocument, err)
	}
	defer rc.Close()

	return docxText(rc)
}

// docxText collects the character data of w:t runs, ending a line at every paragraph
// and break.
func docxText(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)
	var buf strings.Builder
	inText := false

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrCorruptDocument, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				buf.WriteString("\t")
			}
		case xml.CharData:
			if inText {
				buf.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p", "br":
				buf.WriteString("\n")
			}
		}
	}

	return strings.TrimSpace(buf.String()), nil
}
