package store

import "fmt"

// Path identifies a tenant-scoped collection or document, mirroring the
// clients/{clientId}/{collection}[/{docId}] layout all domain data lives under.
// A zero Path (or one missing its tenant) is "not ready": read helpers treat it
// as a quiet no-op state rather than an error.
type Path struct {
	ClientID   string
	Collection string
	DocID      string
}

// CollectionPath builds a path addressing a whole tenant collection.
func CollectionPath(clientID, collection string) Path {
	return Path{ClientID: clientID, Collection: collection}
}

// DocPath builds a path addressing a single document.
func DocPath(clientID, collection, docID string) Path {
	return Path{ClientID: clientID, Collection: collection, DocID: docID}
}

// Ready reports whether the path carries enough identifiers to touch the database.
// Document paths additionally require a document id.
func (p Path) Ready() bool {
	return p.ClientID != "" && p.Collection != ""
}

// IsDoc reports whether the path addresses a single document.
func (p Path) IsDoc() bool { return p.DocID != "" }

func (p Path) String() string {
	if p.DocID != "" {
		return fmt.Sprintf("clients/%s/%s/%s", p.ClientID, p.Collection, p.DocID)
	}
	return fmt.Sprintf("clients/%s/%s", p.ClientID, p.Collection)
}
