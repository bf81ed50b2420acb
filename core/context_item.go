package core

// SourceType identifies the collaborator a context item was fetched from.
type SourceType string

const (
	// SourceWebPage marks content fetched from a web page URL.
	SourceWebPage SourceType = "webpage"
	// SourceGitFile marks a single file fetched out of a repository.
	SourceGitFile SourceType = "gitfile"
	// SourcePdfPage marks content extracted from a PDF document.
	SourcePdfPage SourceType = "pdfpage"
	// SourceImage marks inline image content supplied by the user.
	SourceImage SourceType = "image"
)

// ItemStatus reports whether a context item was produced successfully.
type ItemStatus string

const (
	// ItemOK marks a successfully fetched context item.
	ItemOK ItemStatus = "ok"
	// ItemError marks a context item whose fetch failed.
	ItemError ItemStatus = "error"
)

// ContextItem is one unit of externally fetched content queued for inclusion
// in the next outgoing message. Immutable once produced by the assembler.
type ContextItem struct {
	Name     string     `json:"name"`
	Content  string     `json:"content"`
	ByteSize int        `json:"byte_size"`
	Source   SourceType `json:"source"`
	Status   ItemStatus `json:"status"`
}

// NewContextItem constructs an ok item computing ByteSize from the content.
func NewContextItem(name, content string, source SourceType) ContextItem {
	return ContextItem{
		Name:     name,
		Content:  content,
		ByteSize: len(content),
		Source:   source,
		Status:   ItemOK,
	}
}

// NewErrorContextItem constructs a failed item; content carries the failure text.
func NewErrorContextItem(name, failure string, source SourceType) ContextItem {
	return ContextItem{
		Name:    name,
		Content: failure,
		Source:  source,
		Status:  ItemError,
	}
}
