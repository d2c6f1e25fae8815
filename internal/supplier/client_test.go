// internal/supplier/client_test.go
package supplier

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kayleighsellskcre/purposefully-made-kc/internal/config"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(config.SupplierConfig{
		APIURL:         server.URL,
		AccountNumber:  "12345",
		APIKey:         "test-api-key",
		Brand:          "Bella+Canvas",
		TimeoutSeconds: 5,
	})
	assert.NoError(t, err)
	return client, server
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func TestNewClientRequiresCredentials(t *testing.T) {
	_, err := NewClient(config.SupplierConfig{APIURL: "https://api.example.com"})
	assert.Error(t, err)
}

func TestClientSendsBasicAuth(t *testing.T) {
	var gotUser, gotPass string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, gotPass, _ = r.BasicAuth()
		writeJSON(w, []StyleSummary{})
	}))

	_, err := client.ListStyles("")
	assert.NoError(t, err)
	assert.Equal(t, "12345", gotUser)
	assert.Equal(t, "test-api-key", gotPass)
}

func TestListStylesFiltersByBrand(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/styles", r.URL.Path)
		assert.Equal(t, "Bella+Canvas", r.URL.Query().Get("brandName"))
		writeJSON(w, []StyleSummary{
			{StyleID: 39, StyleName: "3001", BrandName: "Bella+Canvas"},
			{StyleID: 124, StyleName: "3001Y", BrandName: "Bella+Canvas"},
		})
	}))

	styles, err := client.ListStyles("Bella+Canvas")
	assert.NoError(t, err)
	assert.Len(t, styles, 2)
	assert.Equal(t, "3001", styles[0].StyleName)
}

func TestListStylesHandlesWrappedResponse(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]interface{}{
			"Styles": []StyleSummary{{StyleID: 39, StyleName: "3001"}},
		})
	}))

	styles, err := client.ListStyles("")
	assert.NoError(t, err)
	assert.Len(t, styles, 1)
	assert.Equal(t, 39, styles[0].StyleID)
}

func TestUnauthorizedMapsToSentinel(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	_, err := client.ListStyles("")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestForbiddenMapsToSentinel(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))

	_, err := client.GetCategories()
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestGetProductsByStyleNumberTriesStrategiesInOrder(t *testing.T) {
	var attempts []string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if pn := q.Get("partnumber"); pn != "" {
			attempts = append(attempts, "partnumber="+pn)
			writeJSON(w, []SKURecord{})
			return
		}
		style := q.Get("style")
		attempts = append(attempts, "style="+style)
		if style == "bella + canvas 3001" {
			writeJSON(w, []SKURecord{{SKU: "B00760004", StyleName: "3001", ColorName: "White", SizeName: "M", Qty: 100}})
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))

	products, err := client.GetProductsByStyleNumber("3001")
	assert.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Equal(t, "White", products[0].ColorName)
	assert.Equal(t, []string{
		"partnumber=3001",
		"style=3001",
		"style=bella + canvas 3001",
	}, attempts)
}

func TestGetProductsByStyleNumberFirstHitWins(t *testing.T) {
	var attempts int
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		writeJSON(w, []SKURecord{{SKU: "X1", ColorName: "Black", SizeName: "L", Qty: 5}})
	}))

	products, err := client.GetProductsByStyleNumber("3001")
	assert.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Equal(t, 1, attempts)
}

func TestGetProductsByStyleNumberAbortsOnUnauthorized(t *testing.T) {
	var attempts int
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusUnauthorized)
	}))

	_, err := client.GetProductsByStyleNumber("3001")
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, 1, attempts)
}

func TestFetchStyleDataNotFound(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []SKURecord{})
	}))

	_, err := client.FetchStyleData("9999")
	assert.ErrorIs(t, err, ErrStyleNotFound)
}

func TestFetchStyleDataAggregatesColorsAndSizes(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v2/styles" {
			writeJSON(w, []StyleSummary{{
				StyleID:      39,
				StyleName:    "3001",
				Title:        "Unisex Jersey Short Sleeve Tee",
				BaseCategory: "T-Shirts",
				FitType:      "Unisex",
				Fabric:       "100% Airlume combed cotton",
			}})
			return
		}
		writeJSON(w, []SKURecord{
			{SKU: "A1", StyleID: 39, StyleName: "3001", ColorName: "White", ColorID: 4, SizeName: "2XL", Qty: 40, ColorFrontImage: "Images/Color/white_front.jpg", PiecePrice: 3.42},
			{SKU: "A2", StyleID: 39, StyleName: "3001", ColorName: "White", ColorID: 4, SizeName: "S", Qty: 250},
			{SKU: "A3", StyleID: 39, StyleName: "3001", ColorName: "Black", ColorID: 7, SizeName: "M", Inventory: 120, ColorBackImage: "Images/Color/black_back.jpg"},
		})
	}))

	detail, err := client.FetchStyleData("3001")
	assert.NoError(t, err)
	assert.Equal(t, "3001", detail.StyleNumber)
	assert.Equal(t, 39, detail.StyleID)
	assert.Equal(t, "Unisex Jersey Short Sleeve Tee", detail.Title)
	assert.Equal(t, "T-Shirts", detail.BaseCategory)
	assert.Equal(t, "100% Airlume combed cotton", detail.Fabric)

	assert.Equal(t, []string{"White", "Black"}, detail.Colors)
	// Canonical size order, not feed order.
	assert.Equal(t, []string{"S", "M", "2XL"}, detail.Sizes)
	assert.Equal(t, 3.42, detail.WholesalePrice)

	assert.Len(t, detail.ColorVariants, 2)
	white := detail.ColorVariants[0]
	assert.Equal(t, "White", white.ColorName)
	assert.Equal(t, "4", white.ColorID)
	assert.Equal(t, "Images/Color/white_front.jpg", white.FrontImage)
	assert.Equal(t, map[string]int{"2XL": 40, "S": 250}, white.Sizes)

	black := detail.ColorVariants[1]
	assert.Equal(t, 120, black.Sizes["M"])
	assert.Equal(t, "Images/Color/black_back.jpg", black.BackImage)
}

func TestGetInventory(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/inventory", r.URL.Path)
		assert.Equal(t, "39", r.URL.Query().Get("styleID"))
		writeJSON(w, []InventoryRecord{{SKU: "A1", Qty: 40}})
	}))

	records, err := client.GetInventory(39)
	assert.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, 40, records[0].Qty)
}

func TestSortSizesUnknownLabelsLast(t *testing.T) {
	sizes := []string{"YL", "M", "XS", "YS", "3XL"}
	SortSizes(sizes)
	assert.Equal(t, []string{"XS", "M", "3XL", "YL", "YS"}, sizes)
}
