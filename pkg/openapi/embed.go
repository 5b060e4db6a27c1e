package openapi

import (
	"embed"
	"io/fs"
)

// DefaultOperationID is the operationId of the prediction call in the
// embedded contract.
const DefaultOperationID = "predict"

// DefaultDocumentName is the embedded contract's path inside EmbeddedFS.
const DefaultDocumentName = "predictor.yaml"

//go:embed predictor.yaml
var embeddedContract embed.FS

// EmbeddedFS exposes the bundled prediction service contract.
func EmbeddedFS() fs.FS {
	return embeddedContract
}

// DefaultDocument returns the embedded contract wrapped as a Document.
func DefaultDocument() (Document, error) {
	raw, err := fs.ReadFile(embeddedContract, DefaultDocumentName)
	if err != nil {
		return Document{}, err
	}
	return NewDocument(SourceFromFS(DefaultDocumentName), raw)
}
