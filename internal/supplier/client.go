// internal/supplier/client.go
package supplier

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"github.com/kayleighsellskcre/purposefully-made-kc/internal/config"
)

// Client wraps the S&S Activewear REST catalog. All calls are synchronous
// with a bounded timeout; credential failures surface as ErrUnauthorized /
// ErrForbidden so batch callers can abort instead of retrying per style.
type Client struct {
	http  *resty.Client
	cfg   config.SupplierConfig
	brand string
}

func NewClient(cfg config.SupplierConfig) (*Client, error) {
	if !cfg.Configured() {
		return nil, fmt.Errorf("supplier credentials not configured: set SSACTIVEWEAR_ACCOUNT_NUMBER and SSACTIVEWEAR_API_KEY")
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	httpClient := resty.New().
		SetBaseURL(cfg.APIURL).
		SetTimeout(timeout).
		SetBasicAuth(cfg.AccountNumber, cfg.APIKey).
		SetHeader("Content-Type", "application/json")

	return &Client{
		http:  httpClient,
		cfg:   cfg,
		brand: cfg.Brand,
	}, nil
}

// ListStyles fetches all styles, optionally filtered by brand name.
func (c *Client) ListStyles(brandName string) ([]StyleSummary, error) {
	req := c.http.R()
	if brandName != "" {
		req.SetQueryParam("brandName", brandName)
	}

	resp, err := req.Get("/v2/styles")
	if err != nil {
		return nil, fmt.Errorf("fetching styles: %w", err)
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var styles []StyleSummary
	if err := decodeList(resp.Body(), &styles, "Styles", "styles", "data"); err != nil {
		return nil, fmt.Errorf("decoding styles response: %w", err)
	}
	return styles, nil
}

// GetStyleByPartNumber fetches style metadata (title, description, fit,
// fabric) by part number. A miss returns (nil, nil); callers treat the
// metadata as optional enrichment.
func (c *Client) GetStyleByPartNumber(partNumber string) (*StyleSummary, error) {
	resp, err := c.http.R().
		SetQueryParam("partnumber", partNumber).
		Get("/v2/styles")
	if err != nil {
		return nil, fmt.Errorf("fetching style metadata: %w", err)
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var styles []StyleSummary
	if err := decodeList(resp.Body(), &styles, "Styles", "styles"); err != nil {
		return nil, fmt.Errorf("decoding style metadata: %w", err)
	}
	if len(styles) == 0 {
		return nil, nil
	}
	return &styles[0], nil
}

// GetProductsByIdentifier fetches SKU records using a single query
// parameter strategy, e.g. ("partnumber", "3001").
func (c *Client) GetProductsByIdentifier(paramName, paramValue string) ([]SKURecord, error) {
	resp, err := c.http.R().
		SetQueryParam(paramName, paramValue).
		Get("/v2/products")
	if err != nil {
		return nil, fmt.Errorf("fetching products by %s: %w", paramName, err)
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var products []SKURecord
	if err := decodeList(resp.Body(), &products, "products", "data"); err != nil {
		return nil, fmt.Errorf("decoding products response: %w", err)
	}
	return products, nil
}

// GetProductsByStyleNumber fetches all SKUs for a style, trying several
// identifier strategies in sequence because the upstream catalog's
// identifier scheme is inconsistent across brands. The first strategy
// returning a non-empty result wins and the rest are skipped.
func (c *Client) GetProductsByStyleNumber(styleNumber string) ([]SKURecord, error) {
	attempts := [][2]string{
		{"partnumber", styleNumber},
		{"style", styleNumber},
		{"style", c.compositeStyleName(styleNumber)},
	}

	for _, attempt := range attempts {
		products, err := c.GetProductsByIdentifier(attempt[0], attempt[1])
		if err != nil {
			// Credential errors abort; anything else tries the next
			// identifier strategy.
			if err == ErrUnauthorized || err == ErrForbidden {
				return nil, err
			}
			logrus.WithError(err).WithFields(logrus.Fields{
				"style": styleNumber,
				"param": attempt[0],
			}).Debug("identifier strategy failed, trying next")
			continue
		}
		if len(products) > 0 {
			return products, nil
		}
	}

	return nil, nil
}

// compositeStyleName builds the vendor-specific full style name, e.g.
// "bella + canvas 3001" for brand "Bella+Canvas".
func (c *Client) compositeStyleName(styleNumber string) string {
	brand := strings.ToLower(strings.ReplaceAll(c.brand, "+", " + "))
	return brand + " " + styleNumber
}

// GetStyleDetails fetches one style by its supplier ID and assembles the
// per-color inventory breakdown from its SKUs.
func (c *Client) GetStyleDetails(styleID int) (*StyleDetail, error) {
	resp, err := c.http.R().Get("/v2/styles/" + strconv.Itoa(styleID))
	if err != nil {
		return nil, fmt.Errorf("fetching style %d: %w", styleID, err)
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var styles []StyleSummary
	if err := decodeList(resp.Body(), &styles); err != nil {
		// Some endpoints return a single object rather than a list.
		var single StyleSummary
		if err := json.Unmarshal(resp.Body(), &single); err != nil {
			return nil, fmt.Errorf("decoding style %d: %w", styleID, err)
		}
		styles = []StyleSummary{single}
	}
	if len(styles) == 0 {
		return nil, ErrStyleNotFound
	}
	meta := styles[0]

	products, err := c.GetProductsByIdentifier("styleID", strconv.Itoa(styleID))
	if err != nil {
		return nil, err
	}

	detail := buildStyleDetail(meta.StyleName, products)
	detail.StyleID = meta.StyleID
	detail.StyleName = meta.StyleName
	detail.BrandName = meta.BrandName
	detail.Title = meta.Title
	detail.Description = meta.Description
	detail.BaseCategory = meta.BaseCategory
	detail.FitGuide = meta.FitType
	detail.Fabric = meta.Fabric
	return detail, nil
}

// FetchStyleData assembles full style data (colors, sizes, inventory,
// metadata) for a style number via the products endpoint. Works even when
// the full catalog listing fails. Returns ErrStyleNotFound when no
// identifier strategy yields SKUs.
func (c *Client) FetchStyleData(styleNumber string) (*StyleDetail, error) {
	products, err := c.GetProductsByStyleNumber(styleNumber)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, ErrStyleNotFound
	}

	detail := buildStyleDetail(styleNumber, products)
	detail.StyleNumber = styleNumber
	detail.StyleID = products[0].StyleID
	detail.StyleName = products[0].StyleName
	detail.BrandName = products[0].BrandName

	// Optional metadata enrichment; a miss keeps the SKU-derived fields.
	if meta, err := c.GetStyleByPartNumber(styleNumber); err == nil && meta != nil {
		detail.Title = meta.Title
		detail.Description = meta.Description
		detail.BaseCategory = meta.BaseCategory
		detail.FitGuide = meta.FitType
		detail.Fabric = meta.Fabric
	}
	if detail.Title == "" {
		detail.Title = detail.StyleName
	}

	return detail, nil
}

// GetInventory fetches real-time inventory rows for a style.
func (c *Client) GetInventory(styleID int) ([]InventoryRecord, error) {
	resp, err := c.http.R().
		SetQueryParam("styleID", strconv.Itoa(styleID)).
		Get("/v2/inventory")
	if err != nil {
		return nil, fmt.Errorf("fetching inventory: %w", err)
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var records []InventoryRecord
	if err := decodeList(resp.Body(), &records, "data"); err != nil {
		return nil, fmt.Errorf("decoding inventory response: %w", err)
	}
	return records, nil
}

// GetCategories fetches all product categories. Used as a cheap
// connectivity and credential check before a bulk sync.
func (c *Client) GetCategories() ([]Category, error) {
	resp, err := c.http.R().Get("/v2/categories")
	if err != nil {
		return nil, fmt.Errorf("fetching categories: %w", err)
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var categories []Category
	if err := decodeList(resp.Body(), &categories); err != nil {
		return nil, fmt.Errorf("decoding categories response: %w", err)
	}
	return categories, nil
}

// buildStyleDetail aggregates SKU rows into per-color variants with size
// inventory maps, collecting the distinct color and size vocabularies.
func buildStyleDetail(styleNumber string, products []SKURecord) *StyleDetail {
	detail := &StyleDetail{StyleNumber: styleNumber}
	variants := make(map[string]*ColorVariantData)

	for _, p := range products {
		if p.ColorName == "" {
			continue
		}

		variant, exists := variants[p.ColorName]
		if !exists {
			variant = &ColorVariantData{
				ColorName:  p.ColorName,
				ColorID:    strconv.Itoa(p.ColorID),
				FrontImage: p.FrontImageURL(),
				BackImage:  p.BackImageURL(),
				SideImage:  p.ColorSideImage,
				Sizes:      make(map[string]int),
			}
			variants[p.ColorName] = variant
			detail.Colors = append(detail.Colors, p.ColorName)
		}

		if p.SizeName != "" {
			if _, seen := variant.Sizes[p.SizeName]; !seen {
				detail.Sizes = appendUnique(detail.Sizes, p.SizeName)
			}
			variant.Sizes[p.SizeName] = p.EffectiveQty()
		}

		if detail.WholesalePrice == 0 {
			for _, price := range []float64{p.CustomerPrice, p.PiecePrice, p.MapPrice} {
				if price > 0 {
					detail.WholesalePrice = price
					break
				}
			}
		}
	}

	for _, color := range detail.Colors {
		detail.ColorVariants = append(detail.ColorVariants, *variants[color])
	}

	SortSizes(detail.Sizes)
	return detail
}

func appendUnique(list []string, value string) []string {
	for _, existing := range list {
		if existing == value {
			return list
		}
	}
	return append(list, value)
}

// checkStatus maps credential failures to their sentinel errors and any
// other non-2xx to a generic error carrying a response snippet.
func checkStatus(resp *resty.Response) error {
	switch resp.StatusCode() {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	}
	if resp.StatusCode() >= 400 {
		body := resp.String()
		if len(body) > 200 {
			body = body[:200]
		}
		return fmt.Errorf("supplier API error: HTTP %d: %s", resp.StatusCode(), body)
	}
	return nil
}

// decodeList unmarshals either a bare JSON array or an object wrapping the
// array under one of the given keys; the feed is inconsistent about which
// shape it returns.
func decodeList(body []byte, target interface{}, wrapperKeys ...string) error {
	if err := json.Unmarshal(body, target); err == nil {
		return nil
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(body, &wrapper); err != nil {
		return fmt.Errorf("response is neither a list nor an object")
	}
	for _, key := range wrapperKeys {
		if raw, ok := wrapper[key]; ok {
			if err := json.Unmarshal(raw, target); err == nil {
				return nil
			}
		}
	}
	return fmt.Errorf("no list found in response")
}
