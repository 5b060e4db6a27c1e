package testsupport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-priceform/internal/openapi/parser"
	pkgmodel "github.com/goliatone/go-priceform/pkg/model"
	pkgopenapi "github.com/goliatone/go-priceform/pkg/openapi"
)

// LoadDocument reads a fixture and builds an openapi.Document using a file
// source.
func LoadDocument(t *testing.T, path string) pkgopenapi.Document {
	t.Helper()

	doc, err := LoadDocumentFromPath(path)
	if err != nil {
		t.Fatalf("load document: %v", err)
	}
	return doc
}

// LoadDocumentFromPath returns a Document without requiring testing.T.
func LoadDocumentFromPath(path string) (pkgopenapi.Document, error) {
	if path == "" {
		return pkgopenapi.Document{}, errors.New("testsupport: document path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return pkgopenapi.Document{}, fmt.Errorf("testsupport: read document: %w", err)
	}
	doc, err := pkgopenapi.NewDocument(pkgopenapi.SourceFromFile(path), data)
	if err != nil {
		return pkgopenapi.Document{}, fmt.Errorf("testsupport: new document: %w", err)
	}
	return doc, nil
}

// MustPredictOperation parses the embedded contract and returns the predict
// operation.
func MustPredictOperation(t *testing.T) pkgopenapi.Operation {
	t.Helper()

	doc, err := pkgopenapi.DefaultDocument()
	if err != nil {
		t.Fatalf("default document: %v", err)
	}
	operations, err := parser.New(pkgopenapi.NewParserOptions()).Operations(Context(), doc)
	if err != nil {
		t.Fatalf("parse operations: %v", err)
	}
	op, ok := operations[pkgopenapi.DefaultOperationID]
	if !ok {
		t.Fatalf("operation %q not found", pkgopenapi.DefaultOperationID)
	}
	return op
}

// MustPredictForm builds the form model of the embedded contract.
func MustPredictForm(t *testing.T) pkgmodel.FormModel {
	t.Helper()

	form, err := pkgmodel.NewBuilder().Build(MustPredictOperation(t))
	if err != nil {
		t.Fatalf("build form: %v", err)
	}
	return form
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// PredictionServer starts an httptest server answering POST /predict with the
// given status and JSON body. The decoded request bodies are sent on the
// returned channel, which is buffered generously so handlers never block.
func PredictionServer(t *testing.T, status int, body string) (*httptest.Server, <-chan map[string]any) {
	t.Helper()

	requests := make(chan map[string]any, 32)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/predict" {
			http.NotFound(w, r)
			return
		}
		var payload map[string]any
		_ = json.NewDecoder(r.Body).Decode(&payload)
		select {
		case requests <- payload:
		default:
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(server.Close)
	return server, requests
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
