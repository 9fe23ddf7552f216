package models

const (
	MediaTypePlainText = "text/plain"
	MediaTypeMarkdown  = "text/markdown"
	MediaTypePDF       = "application/pdf"
	MediaTypeDOCX      = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MediaTypeZip       = "application/zip"
	MediaTypeOctet     = "application/octet-stream"
)

// UploadedDocument is a file as received from the client. It is consumed once by the
// extractor and dropped after its text is obtained.
type UploadedDocument struct {
	Data      []byte
	MediaType string
	Filename  string
}
