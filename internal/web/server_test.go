package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lulicroppi/malaly-merceria/internal/blob"
	"github.com/lulicroppi/malaly-merceria/internal/config"
	"github.com/lulicroppi/malaly-merceria/internal/core"
	"github.com/lulicroppi/malaly-merceria/internal/transport"
	"github.com/lulicroppi/malaly-merceria/internal/workbook"
)

func testConfig(token string) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: 8080, RequestTimeout: 5 * time.Second, ShutdownTimeout: time.Second},
		Storage: config.StorageConfig{
			Backend:     config.BackendMemory,
			DocumentKey: "merceria.xlsx",
			Token:       token,
		},
		Document: config.DocumentConfig{Mode: config.ModeLocal, Timeout: time.Second, CollationLanguage: "es"},
		Upload:   config.UploadConfig{MaxFileSize: 1 << 20, MaxConcurrent: 2, MaxWaitTime: time.Second},
		Logging:  config.LoggingConfig{Level: "error", Format: "text"},
	}
}

type testServer struct {
	*Server
	store *blob.Memory
}

func newTestServer(t *testing.T, token string) *testServer {
	t.Helper()
	cfg := testConfig(token)
	store := blob.NewMemory()
	doc := transport.NewStoreDocument(store, cfg.Storage.DocumentKey)
	return &testServer{Server: NewServer(cfg, core.NewRepository(), doc, store), store: store}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func emptyDocument(t *testing.T) []byte {
	t.Helper()
	wb := workbook.New()
	core.EnsureAllTables(wb)
	b, err := workbook.Encode(wb)
	require.NoError(t, err)
	return b
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body: %s", rec.Body.String())
	return v
}

func TestDocumentProxy_RoundTrip(t *testing.T) {
	s := newTestServer(t, "")

	rec := s.do(t, http.MethodGet, "/api/excel", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	data := emptyDocument(t)
	req := httptest.NewRequest(http.MethodPut, "/api/excel", bytes.NewReader(data))
	req.Header.Set("Content-Type", workbook.ContentType)
	rec = httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/excel", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, workbook.ContentType, rec.Header().Get("Content-Type"))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.Equal(t, data, rec.Body.Bytes())
}

func TestDocumentProxy_RejectsNonSpreadsheet(t *testing.T) {
	s := newTestServer(t, "")

	req := httptest.NewRequest(http.MethodPut, "/api/excel", strings.NewReader("<html>oops</html>"))
	req.Header.Set("Content-Type", "text/html")
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	assert.Equal(t, 0, s.store.Puts())
}

func TestDocumentProxy_TooLarge(t *testing.T) {
	s := newTestServer(t, "")
	s.cfg.Upload.MaxFileSize = 8

	req := httptest.NewRequest(http.MethodPut, "/api/excel", bytes.NewReader(emptyDocument(t)))
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestDocumentProxy_MethodNotAllowed(t *testing.T) {
	s := newTestServer(t, "")

	rec := s.do(t, http.MethodDelete, "/api/excel", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "GET, PUT", rec.Header().Get("Allow"))
}

func TestDocumentProxy_BearerToken(t *testing.T) {
	s := newTestServer(t, "s3cret")

	rec := s.do(t, http.MethodGet, "/api/excel", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/excel", nil)
	req.Header.Set("Authorization", "Bearer s3cret")
	rec = httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Supplier routes are not behind the proxy token.
	rec = s.do(t, http.MethodGet, "/api/ping", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPing(t *testing.T) {
	s := newTestServer(t, "")

	rec := s.do(t, http.MethodGet, "/api/ping", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeBody[PingResponse](t, rec)
	assert.True(t, resp.OK)
	assert.False(t, resp.HasBlobToken)
	assert.Equal(t, "memory", resp.Backend)
	assert.NotEmpty(t, resp.Hint)
	assert.Equal(t, 2, resp.Uploads.MaxConcurrent)
}

func supplierBody(name string, items ...map[string]any) map[string]any {
	if items == nil {
		items = []map[string]any{}
	}
	return map[string]any{
		"supplier": map[string]any{
			"name":  name,
			"taxId": "20123456789",
			"phone": "+54 11 5555-0000",
			"email": "ventas@example.com",
		},
		"items": items,
	}
}

func item(base, variant string) map[string]any {
	return map[string]any{
		"baseName":                base,
		"variant":                 variant,
		"purchaseUnit":            "caja",
		"quantityPerPurchaseUnit": "12",
		"costPerPurchaseUnit":     "1500.50",
		"saleUnit":                "unidad",
		"allowsWholeUnitSale":     true,
	}
}

func TestBootstrap(t *testing.T) {
	s := newTestServer(t, "")

	rec := s.do(t, http.MethodPost, "/api/bootstrap", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	first := decodeBody[core.BootstrapResult](t, rec)
	assert.True(t, first.NewDocument)
	assert.True(t, first.Persisted)

	rec = s.do(t, http.MethodPost, "/api/bootstrap", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	second := decodeBody[core.BootstrapResult](t, rec)
	assert.False(t, second.Persisted)
	assert.Empty(t, second.Created)
	assert.Equal(t, 1, s.store.Puts())
}

func TestSuppliers_CRUD(t *testing.T) {
	s := newTestServer(t, "")
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/bootstrap", nil).Code)

	rec := s.do(t, http.MethodPost, "/api/suppliers", supplierBody("Hilos del Sur", item("Hilo", "Rojo")))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeBody[SaveResponse](t, rec)
	assert.True(t, strings.HasPrefix(created.ID, "prov_"), created.ID)
	assert.Len(t, created.Items, 1)
	assert.Empty(t, created.SavedTo)

	rec = s.do(t, http.MethodGet, "/api/suppliers", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeBody[[]core.Supplier](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, "Hilos del Sur", list[0].Name)

	rec = s.do(t, http.MethodGet, "/api/suppliers/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "20123456789", decodeBody[core.Supplier](t, rec).TaxID)

	update := map[string]any{"name": "Hilos del Norte", "phone": "011 4444-1111"}
	rec = s.do(t, http.MethodPut, "/api/suppliers/"+created.ID, update)
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/suppliers/"+created.ID, nil)
	got := decodeBody[core.Supplier](t, rec)
	assert.Equal(t, "Hilos del Norte", got.Name)
	assert.Empty(t, got.TaxID)

	rec = s.do(t, http.MethodPost, "/api/suppliers/"+created.ID+"/products",
		map[string]any{"items": []map[string]any{item("Botón", "Nácar")}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/suppliers/"+created.ID+"/products", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	products := decodeBody[[]core.SuppliedProduct](t, rec)
	require.Len(t, products, 2)
	assert.Equal(t, "Hilo", products[0].Product.BaseName)
	assert.Equal(t, "Botón", products[1].Product.BaseName)
}

func TestSuppliers_NotFound(t *testing.T) {
	s := newTestServer(t, "")
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/bootstrap", nil).Code)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
	}{
		{"get", http.MethodGet, "/api/suppliers/prov_missing", nil},
		{"update", http.MethodPut, "/api/suppliers/prov_missing", map[string]any{"name": "X", "phone": "123456"}},
		{"add products", http.MethodPost, "/api/suppliers/prov_missing/products", map[string]any{"items": []map[string]any{item("Hilo", "")}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusNotFound, rec.Code, rec.Body.String())
			assert.Equal(t, "NF001", decodeBody[ErrorResponse](t, rec).Code)
		})
	}
	assert.Equal(t, 1, s.store.Puts(), "failed lookups must not persist")
}

func TestSuppliers_ValidationFields(t *testing.T) {
	s := newTestServer(t, "")

	body := supplierBody("", item("", ""))
	body["supplier"].(map[string]any)["phone"] = "abc"
	body["supplier"].(map[string]any)["taxId"] = "123"

	rec := s.do(t, http.MethodPost, "/api/suppliers", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	resp := decodeBody[ErrorResponse](t, rec)
	var fields []string
	for _, f := range resp.Fields {
		fields = append(fields, f.Field)
	}
	assert.ElementsMatch(t, []string{"supplier.name", "supplier.taxId", "supplier.phone", "items[0].baseName"}, fields)
	assert.Equal(t, 0, s.store.Puts())
}

func TestSuppliers_DuplicateNeedsResolution(t *testing.T) {
	s := newTestServer(t, "")
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/bootstrap", nil).Code)

	rec := s.do(t, http.MethodPost, "/api/suppliers", supplierBody("Mercería Ana", item("Cinta", ""), item("cinta ", "")))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeBody[ErrorResponse](t, rec)
	require.Len(t, resp.Fields, 1)
	assert.Equal(t, "items[1].resolution", resp.Fields[0].Field)

	dup := item("Cinta", "")
	dup["resolution"] = "variante"
	rec = s.do(t, http.MethodPost, "/api/suppliers", supplierBody("Mercería Ana", item("Cinta", ""), dup))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeBody[SaveResponse](t, rec)
	require.Len(t, created.Items, 2)
	assert.Equal(t, core.PlaceholderVariant, created.Items[1].Variant)

	over := item("Cinta", "")
	over["costPerPurchaseUnit"] = "99"
	over["resolution"] = "overwrite"
	rec = s.do(t, http.MethodPost, "/api/suppliers", supplierBody("Otra", item("Cinta", ""), over))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created = decodeBody[SaveResponse](t, rec)
	require.Len(t, created.Items, 1)
	assert.Equal(t, "99", created.Items[0].CostPerPurchaseUnit.String())
}

func TestSuppliers_NoDocument(t *testing.T) {
	s := newTestServer(t, "")

	rec := s.do(t, http.MethodGet, "/api/suppliers", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NF001", decodeBody[ErrorResponse](t, rec).Code)
}

func TestSupplierPage(t *testing.T) {
	s := newTestServer(t, "")
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/bootstrap", nil).Code)
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/suppliers", supplierBody("Lanas <Zoe>")).Code)

	rec := s.do(t, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "Lanas &lt;Zoe&gt;")
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestStage(t *testing.T) {
	a := stagedItem{ProductItem: core.ProductItem{BaseName: "Aguja", Variant: "Nº 5"}}
	b := stagedItem{ProductItem: core.ProductItem{BaseName: "aguja", Variant: "nº 5 "}, Resolution: "variant"}
	c := stagedItem{ProductItem: core.ProductItem{BaseName: "Aguja", Variant: "Nº 5"}, Resolution: "bogus"}

	items, err := stage([]stagedItem{a, b})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "nº 5 2", items[1].Variant)

	_, err = stage([]stagedItem{a, c})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, statusFor(err))
}

// unreachableStore fails every Put while down is set.
type unreachableStore struct {
	*blob.Memory
	down bool
}

func (s *unreachableStore) Put(ctx context.Context, key string, obj blob.Object) error {
	if s.down {
		return errors.New("connection refused")
	}
	return s.Memory.Put(ctx, key, obj)
}

func TestSuppliers_SavedToLocalCopy(t *testing.T) {
	cfg := testConfig("")
	store := &unreachableStore{Memory: blob.NewMemory()}
	dir := t.TempDir()
	doc := transport.WithDownloadFallback(transport.NewStoreDocument(store, cfg.Storage.DocumentKey), dir)
	s := &testServer{Server: NewServer(cfg, core.NewRepository(), doc, store), store: store.Memory}
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/bootstrap", nil).Code)

	store.down = true
	rec := s.do(t, http.MethodPost, "/api/suppliers", supplierBody("Botonera Flores"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	saved := decodeBody[SaveResponse](t, rec)
	require.NotEmpty(t, saved.SavedTo)
	assert.True(t, strings.HasPrefix(saved.SavedTo, dir), saved.SavedTo)

	store.down = false
	rec = s.do(t, http.MethodPost, "/api/suppliers", supplierBody("Lanas Patagonia"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Empty(t, decodeBody[SaveResponse](t, rec).SavedTo, "an upload that succeeded reports no local copy")
}
