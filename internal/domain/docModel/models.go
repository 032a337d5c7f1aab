package docModel

import "strings"

// Document is one ingested PDF, identified by the hash of its bytes.
// StoredName is the content-addressed on-disk copy: {base}_{hash8}{ext}
type Document struct {
	Hash         string   `json:"pdf_hash"`
	OriginalName string   `json:"original_name"`
	StoredName   string   `json:"pdf_name"`
	UploadDate   string   `json:"upload_date"`
	Tags         []string `json:"tags,omitempty"`
}

// ChunkMetadata is the typed payload stored next to every vector.
// Tags is the comma-joined form the metadata schema requires ("None" when
// the caller supplied nothing), TagList is the same set kept filterable.
type ChunkMetadata struct {
	PDFHash    string   `json:"pdf_hash"`
	PDFName    string   `json:"pdf_name"`
	UploadDate string   `json:"upload_date"`
	Tags       string   `json:"tags"`
	TagList    []string `json:"tag_list,omitempty"`
	Version    int      `json:"version,omitempty"`
}

// DocChunk is the unit of embedding and retrieval.
// ChunkId is "{pdf_hash}_{index}" which makes re-indexing idempotent.
type DocChunk struct {
	ChunkId  string        `json:"chunk_id"`
	Index    int           `json:"chunk_index"`
	Text     string        `json:"content"`
	Metadata ChunkMetadata `json:"metadata"`
}

// ConversationTurn is one (question, answer) pair plus the stored names of
// the documents that supported the answer. Owned by the chat session.
type ConversationTurn struct {
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Sources  []string `json:"sources,omitempty"`
}

// SearchFilter narrows retrieval before similarity ranking.
type SearchFilter struct {
	PDFName string   `json:"pdf_name,omitempty"`
	Tags    []string `json:"tags,omitempty"`
}

func (f *SearchFilter) IsZero() bool {
	return f == nil || (f.PDFName == "" && len(f.Tags) == 0)
}

type IngestStatus string

const (
	IngestStatusIndexed        IngestStatus = "INDEXED"
	IngestStatusAlreadyIndexed IngestStatus = "ALREADY_INDEXED"
)

// IngestResult is what the pipeline reports back to the caller.
type IngestResult struct {
	Status     IngestStatus `json:"status"`
	Document   Document     `json:"document"`
	ChunkCount int          `json:"chunk_count"`
}

// JoinTags builds the comma-joined metadata form, "None" stands in for an
// empty tag set so the field is always present and filterable.
func JoinTags(tags []string) string {
	if len(tags) == 0 {
		return "None"
	}
	return strings.Join(tags, ",")
}
