package memory

import "time"

// Type classifies a memory by the kind of file it was ingested from.
// It is fixed at ingestion time and never re-inferred.
type Type string

const (
	TypeDocument Type = "document"
	TypeImage    Type = "image"
	TypeAudio    Type = "audio"
	TypeWeb      Type = "web"
)

// Valid reports whether t is one of the known memory types.
func (t Type) Valid() bool {
	switch t {
	case TypeDocument, TypeImage, TypeAudio, TypeWeb:
		return true
	}
	return false
}

// EntityKind is the closed set of entity categories a memory can carry.
type EntityKind string

const (
	EntityPerson       EntityKind = "person"
	EntityLocation     EntityKind = "location"
	EntityOrganization EntityKind = "organization"
	EntityDate         EntityKind = "date"
	EntityUnknown      EntityKind = "unknown"
)

// NormalizeEntityKind maps an arbitrary string to a known EntityKind,
// falling back to EntityUnknown for anything unrecognized.
func NormalizeEntityKind(s string) EntityKind {
	switch EntityKind(s) {
	case EntityPerson, EntityLocation, EntityOrganization, EntityDate:
		return EntityKind(s)
	}
	return EntityUnknown
}

// Entity is a tagged piece of text extracted from memory content.
type Entity struct {
	Type EntityKind `json:"type"`
	Text string     `json:"text"`
}

// Memory is the canonical indexed record for one piece of personal content.
//
// ID is a deterministic hash of the absolute source path, so re-indexing
// the same path always produces the same logical record. Entities are
// ordered and carry no uniqueness guarantee. Date is never zero: it holds
// the file modification time, or the indexing time when that is unknown.
type Memory struct {
	ID       string    `json:"id"`
	Type     Type      `json:"type"`
	Title    string    `json:"title"`
	Content  string    `json:"content"`
	Entities []Entity  `json:"entities,omitempty"`
	Date     time.Time `json:"date"`
	Source   string    `json:"source"`

	// Provenance metadata, set exclusively by the indexing pipeline.
	FilePath      string `json:"file_path"`
	FileName      string `json:"file_name"`
	FileExtension string `json:"file_extension"`
	FileSize      int64  `json:"file_size"`
}
