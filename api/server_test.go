package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"capforge/internal/catalog"
	"capforge/internal/pricing"
	"capforge/internal/quote"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cache := catalog.NewCache("../internal/pricing/testdata", zerolog.Nop())
	engine := pricing.NewEngine(cache, zerolog.Nop())
	parser := quote.NewParser(zerolog.Nop())
	return NewServer(engine, parser, cache, nil, zerolog.Nop(), nil)
}

func doJSON(t *testing.T, handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	rec := doJSON(t, newTestServer(t).routes(), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandlePrice(t *testing.T) {
	handler := newTestServer(t).routes()

	body := `{
		"quantity": 288,
		"productDescription": "6-Panel Heritage 6C with curved bill",
		"fabrics": ["Polyester", "Laser Cut"],
		"logos": [{"name": "3D Embroidery", "size": "Large", "application": "Direct"}],
		"deliveryMethod": "Regular Delivery"
	}`
	rec := doJSON(t, handler, http.MethodPost, "/v1/price", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Breakdown struct {
			GrandTotal string `json:"grandTotal"`
		} `json:"breakdown"`
		AI struct {
			TotalLine string `json:"totalLine"`
		} `json:"ai"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "2067.2", resp.Breakdown.GrandTotal)
	assert.Equal(t, "Total Order: $2067.20", resp.AI.TotalLine)
}

func TestHandlePrice_BadRequests(t *testing.T) {
	handler := newTestServer(t).routes()

	rec := doJSON(t, handler, http.MethodPost, "/v1/price", `{"quantity": 0, "productDescription": "cap"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, handler, http.MethodPost, "/v1/price", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlePrice_LookupFailure(t *testing.T) {
	handler := newTestServer(t).routes()

	body := `{"quantity": 288, "productDescription": "6-Panel Heritage 6C", "closure": "Magnetic"}`
	rec := doJSON(t, handler, http.MethodPost, "/v1/price", body)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "failed to calculate cost", resp["error"])
}

func TestHandleParse(t *testing.T) {
	handler := newTestServer(t).routes()

	rec := doJSON(t, handler, http.MethodPost, "/v1/parse", `{"message": "hello, how are you?"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Found bool `json:"found"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Found)

	rec = doJSON(t, handler, http.MethodPost, "/v1/parse",
		`{"message": "Quote for 144 pieces in Navy\nTotal Order: $1,152.00"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var found struct {
		Found bool `json:"found"`
		Quote struct {
			CapDetails struct {
				Quantity int      `json:"quantity"`
				Colors   []string `json:"colors"`
			} `json:"capDetails"`
		} `json:"quote"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &found))
	assert.True(t, found.Found)
	assert.Equal(t, 144, found.Quote.CapDetails.Quantity)
	assert.Equal(t, []string{"Navy"}, found.Quote.CapDetails.Colors)
}

func TestHandleInvalidate(t *testing.T) {
	rec := doJSON(t, newTestServer(t).routes(), http.MethodPost, "/v1/cache/invalidate", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAPIKeyGuardsV1Routes(t *testing.T) {
	cache := catalog.NewCache("../internal/pricing/testdata", zerolog.Nop())
	engine := pricing.NewEngine(cache, zerolog.Nop())
	cfg := DefaultConfig()
	cfg.APIKey = "sekrit"
	handler := NewServer(engine, quote.NewParser(zerolog.Nop()), cache, nil, zerolog.Nop(), cfg).routes()

	rec := doJSON(t, handler, http.MethodPost, "/v1/cache/invalidate", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/v1/cache/invalidate", nil)
	req.Header.Set("X-API-Key", "sekrit")
	authed := httptest.NewRecorder()
	handler.ServeHTTP(authed, req)
	assert.Equal(t, http.StatusOK, authed.Code)

	// Health stays open for probes.
	rec = doJSON(t, handler, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestQuoteRoutesAbsentWithoutStore(t *testing.T) {
	rec := doJSON(t, newTestServer(t).routes(), http.MethodGet, "/v1/quotes", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
