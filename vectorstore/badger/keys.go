package badger

import "fmt"

// Key prefix for stored documents.
const documentPrefix = "vecdoc"

// makeDocumentKey generates the key for a document by id.
func makeDocumentKey(id string) []byte {
	return []byte(fmt.Sprintf("%s:%s", documentPrefix, id))
}

// documentScanPrefix is the iterator prefix covering every document key.
func documentScanPrefix() []byte {
	return []byte(documentPrefix + ":")
}
