package domain

// Dublin Core fields read by the search view
const (
	FieldAuthor     = "dc.contributor.author"
	FieldDateIssued = "dc.date.issued"
	FieldTitle      = "dc.title"
	FieldAbstract   = "dc.description.abstract"
	FieldSubject    = "dc.subject"
)

// MetadataValue is a single value record of a metadata field
type MetadataValue struct {
	Value string `json:"value"`
}

// Metadata maps dotted field names to their ordered values
type Metadata map[string][]MetadataValue

// Value returns the first value of field. Missing fields and fields with no
// values report ok=false; incomplete metadata is expected and not an error.
func (m Metadata) Value(field string) (string, bool) {
	values, ok := m[field]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0].Value, true
}

// IndexedObject is one search hit as returned by the repository.
// It is never modified after decoding.
type IndexedObject struct {
	ID       string   `json:"id"`
	Type     string   `json:"type"`
	Metadata Metadata `json:"metadata"`
	HasFile  bool     `json:"hasFile"`
}

// ResultSet is the ordered list of objects for the active query, in the
// backend's relevance order. It is replaced on every search, never mutated.
type ResultSet []IndexedObject

// ObjectSummary is the listing view of an IndexedObject
type ObjectSummary struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Title    string `json:"title,omitempty"`
	Author   string `json:"author,omitempty"`
	Issued   string `json:"issued,omitempty"`
	Abstract string `json:"abstract,omitempty"`
	HasFile  bool   `json:"has_file"`
}

// Summary extracts the listing fields of the object
func (o IndexedObject) Summary() ObjectSummary {
	s := ObjectSummary{
		ID:      o.ID,
		Type:    o.Type,
		HasFile: o.HasFile,
	}
	s.Title, _ = o.Metadata.Value(FieldTitle)
	s.Author, _ = o.Metadata.Value(FieldAuthor)
	s.Issued, _ = o.Metadata.Value(FieldDateIssued)
	s.Abstract, _ = o.Metadata.Value(FieldAbstract)
	return s
}

// Summaries returns the listing view of every object in order
func (rs ResultSet) Summaries() []ObjectSummary {
	out := make([]ObjectSummary, len(rs))
	for i, obj := range rs {
		out[i] = obj.Summary()
	}
	return out
}
