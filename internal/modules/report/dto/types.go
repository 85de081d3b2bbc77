package dto

type ExportInput struct {
	OutputDir string
}

type ExportOutput struct {
	Path  string
	Size  int64
	Pages int
}
