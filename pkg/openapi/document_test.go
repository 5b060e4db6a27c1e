package openapi

import "testing"

func TestResolveSource(t *testing.T) {
	src, err := ResolveSource("https://api.example.com/openapi.json")
	if err != nil {
		t.Fatalf("resolve url: %v", err)
	}
	if src.Kind() != SourceKindURL {
		t.Fatalf("kind: got %q", src.Kind())
	}

	src, err = ResolveSource(" ./contracts/../predictor.yaml ")
	if err != nil {
		t.Fatalf("resolve file: %v", err)
	}
	if src.Kind() != SourceKindFile || src.Location() != "predictor.yaml" {
		t.Fatalf("unexpected file source %q %q", src.Kind(), src.Location())
	}

	if _, err := ResolveSource("   "); err == nil {
		t.Fatalf("expected error for blank location")
	}
	if _, err := SourceFromURL("ftp://example.com/spec"); err == nil {
		t.Fatalf("expected unsupported scheme error")
	}
}

func TestNewOperationUppercasesMethod(t *testing.T) {
	op, err := NewOperation("predict", "post", "/predict", Schema{}, nil)
	if err != nil {
		t.Fatalf("new operation: %v", err)
	}
	if op.Method != "POST" || op.Responses == nil {
		t.Fatalf("unexpected operation %+v", op)
	}
	if _, err := NewOperation("", "post", "/predict", Schema{}, nil); err == nil {
		t.Fatalf("expected missing id error")
	}
}

func TestDefaultDocument(t *testing.T) {
	doc, err := DefaultDocument()
	if err != nil {
		t.Fatalf("default document: %v", err)
	}
	if doc.Source().Kind() != SourceKindFS || doc.Location() != DefaultDocumentName {
		t.Fatalf("unexpected source %q %q", doc.Source().Kind(), doc.Location())
	}
}
