package out

import (
	"bytes"
	"fmt"

	reportout "chemviz/internal/modules/report/port/out"
	"rsc.io/pdf"
)

type PDFVerifier struct{}

func NewPDFVerifier() reportout.Verifier {
	return PDFVerifier{}
}

// Pages opens the document from memory. The pdf package panics on some
// corrupt inputs, so that is reported as an error too.
func (PDFVerifier) Pages(data []byte) (pages int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parse pdf: %v", r)
		}
	}()
	doc, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("open pdf: %w", err)
	}
	return doc.NumPage(), nil
}
