package domain

// FileSource is the typed variant for locating the contract to analyze.
// Exactly one case is set: inline bytes from a multipart upload, an
// object-storage reference to a previously uploaded document, or a contract
// id whose text lives in the repository. The handler resolves the request
// into a FileSource once, before the extraction core is entered.
type FileSource struct {
	// Data holds the PDF bytes for an inline upload.
	Data []byte
	// ObjectKey references a PDF in the storage bucket.
	ObjectKey string
	// ContractID references a contract whose documents were already
	// extracted and persisted.
	ContractID string
	// Filename is the client-supplied name of an inline upload, used only
	// for type validation.
	Filename string
}

// IsInline reports whether the source carries the PDF bytes directly.
func (s FileSource) IsInline() bool {
	return len(s.Data) > 0
}

// IsEmpty reports whether no case is set.
func (s FileSource) IsEmpty() bool {
	return len(s.Data) == 0 && s.ObjectKey == "" && s.ContractID == ""
}
