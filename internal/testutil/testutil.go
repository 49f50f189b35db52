// Package testutil provides common test utilities, mocks, and helpers for testing.
package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/labstack/echo/v4"
	"github.com/piwi3910/LotLayout/internal/geometry"
	"github.com/piwi3910/LotLayout/internal/model"
)

// MockObjectStore is an in-memory object store for testing.
type MockObjectStore struct {
	mu           sync.Mutex
	Objects      map[string][]byte
	ContentTypes map[string]string
	GetErr       error
	PutErr       error
	ListErr      error
}

// NewMockObjectStore creates an empty MockObjectStore.
func NewMockObjectStore() *MockObjectStore {
	return &MockObjectStore{
		Objects:      make(map[string][]byte),
		ContentTypes: make(map[string]string),
	}
}

// GetObject returns a stored object or ObjectNotFoundError.
func (m *MockObjectStore) GetObject(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.GetErr != nil {
		return nil, m.GetErr
	}
	data, ok := m.Objects[key]
	if !ok {
		return nil, &ObjectNotFoundError{Key: key}
	}
	return data, nil
}

// PutObject stores data under key.
func (m *MockObjectStore) PutObject(ctx context.Context, key string, data []byte, contentType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.PutErr != nil {
		return m.PutErr
	}
	m.Objects[key] = data
	m.ContentTypes[key] = contentType
	return nil
}

// ListObjects returns every key starting with prefix.
func (m *MockObjectStore) ListObjects(ctx context.Context, prefix string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ListErr != nil {
		return nil, m.ListErr
	}
	var keys []string
	for key := range m.Objects {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

// ObjectNotFoundError is returned when an object is not found.
type ObjectNotFoundError struct {
	Key string
}

func (e *ObjectNotFoundError) Error() string {
	return "object not found: " + e.Key
}

// NotFound marks the error as a missing key for storage.IsNotFound.
func (e *ObjectNotFoundError) NotFound() bool { return true }

// TestContext wraps Echo context for testing.
type TestContext struct {
	Echo     *echo.Echo
	Context  echo.Context
	Request  *http.Request
	Recorder *httptest.ResponseRecorder
}

// NewTestContext creates a new test context for Echo handlers.
func NewTestContext(method, path string, body io.Reader) *TestContext {
	e := echo.New()
	req := httptest.NewRequest(method, path, body)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	return &TestContext{
		Echo:     e,
		Context:  c,
		Request:  req,
		Recorder: rec,
	}
}

// NewTestContextWithJSON creates a test context with JSON body.
func NewTestContextWithJSON(method, path string, body interface{}) *TestContext {
	jsonBody, _ := json.Marshal(body)
	tc := NewTestContext(method, path, bytes.NewReader(jsonBody))
	tc.Request.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return tc
}

// GetResponseBody returns the response body as a map.
func (tc *TestContext) GetResponseBody() map[string]interface{} {
	var result map[string]interface{}
	_ = json.Unmarshal(tc.Recorder.Body.Bytes(), &result)
	return result
}

// GetResponseCode returns the HTTP response status code.
func (tc *TestContext) GetResponseCode() int {
	return tc.Recorder.Code
}

// SquareLot returns a closed square boundary of side metres with its
// top-left corner at the origin, an entrance along the bottom and an exit
// on the right.
func SquareLot(side float64) *model.Boundary {
	s := geometry.ToPixels(side)
	return model.BoundaryFromPoints(
		[]geometry.Point{geometry.Pt(0, 0), geometry.Pt(s, 0), geometry.Pt(s, s), geometry.Pt(0, s)},
		[]model.EdgeType{model.EdgeBorder, model.EdgeExit, model.EdgeEntrance, model.EdgeBorder},
	)
}

// DimensionFile renders dims in the "[TAG] value" format.
func DimensionFile(dims model.Dimensions) string {
	var sb strings.Builder
	for _, f := range dims.Fields() {
		sb.WriteString("[" + f.Tag + "] ")
		b, _ := json.Marshal(f.Value)
		sb.Write(b)
		sb.WriteString("\n")
	}
	return sb.String()
}
