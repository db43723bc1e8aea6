package model

// FileType constrains what the save dialog offers
type FileType struct {
	Description string
	Accept      map[string][]string // MIME type -> extensions
}

// Extensions returns every extension accepted by the type
func (t FileType) Extensions() []string {
	var exts []string
	for _, e := range t.Accept {
		exts = append(exts, e...)
	}
	return exts
}

// PDFFileType is the only type offered when saving
func PDFFileType() FileType {
	return FileType{
		Description: "PDF Document",
		Accept: map[string][]string{
			ContentTypePDF: {".pdf"},
		},
	}
}

// SaveFilePickerOptions is passed to the save dialog
type SaveFilePickerOptions struct {
	SuggestedName string
	Types         []FileType
}
