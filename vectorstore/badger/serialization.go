package badger

import (
	"encoding/json"
	"time"

	"promptline/core"
)

// storedDocument is the on-disk representation of an indexed document.
// Documents are JSON-serialized: the metadata bag is an open map with no
// fixed schema, which rules out a static binary codec.
type storedDocument struct {
	ID          string         `json:"id"`
	Content     string         `json:"content"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	ContentHash uint64         `json:"contentHash"`
	Vector      []float32      `json:"vector"`
	InsertedAt  time.Time      `json:"insertedAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// marshalDocument serializes a stored document to bytes.
func marshalDocument(doc *storedDocument) ([]byte, error) {
	return json.Marshal(doc)
}

// unmarshalDocument deserializes a stored document from bytes.
func unmarshalDocument(data []byte) (*storedDocument, error) {
	var doc storedDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// toDocument converts the stored form back to the domain document.
func (d *storedDocument) toDocument() core.Document {
	return core.Document{
		ID:       d.ID,
		Content:  d.Content,
		Metadata: d.Metadata,
	}
}
