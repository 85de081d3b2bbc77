package domain

import (
	"bytes"
	"mime"
)

// Filename is the fixed name every exported report is saved under.
const Filename = "ChemViz_Report.pdf"

const pdfMagic = "%PDF-"

type Artifact struct {
	Data        []byte
	ContentType string
}

// IsPDF reports whether the artifact claims to be a PDF, either by media
// type or by its leading bytes.
func (a Artifact) IsPDF() bool {
	if mediaType, _, err := mime.ParseMediaType(a.ContentType); err == nil && mediaType == "application/pdf" {
		return true
	}
	return bytes.HasPrefix(a.Data, []byte(pdfMagic))
}

type Export struct {
	Path  string
	Size  int64
	Pages int
}
