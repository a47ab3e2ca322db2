package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/balazs-web/smoky-fish-sub000/internal/customerrors"
	"github.com/balazs-web/smoky-fish-sub000/internal/models"
)

// HTTPClient reads products from the catalog collaborator's JSON API.
// The catalog is CRUD plumbing owned by another service; checkout only needs
// pricing, variants and the alcohol restriction flag
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type productDTO struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Price      int    `json:"price"`
	CategoryID string `json:"categoryId"`
	Category   struct {
		AlcoholRestricted bool `json:"alcoholRestricted"`
	} `json:"category"`
	Variants []struct {
		ID            string `json:"id"`
		Name          string `json:"name"`
		PriceModifier int    `json:"priceModifier"`
		Available     bool   `json:"available"`
	} `json:"variants"`
}

func (c *HTTPClient) Product(ctx context.Context, productID string) (models.CatalogProduct, error) {
	endpoint := fmt.Sprintf("%s/products/%s", c.baseURL, url.PathEscape(productID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return models.CatalogProduct{}, fmt.Errorf("couldn't build catalog request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return models.CatalogProduct{}, fmt.Errorf("error calling catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return models.CatalogProduct{}, customerrors.NewValidationError(
			fmt.Sprintf("unknown product %q", productID))
	}
	if resp.StatusCode != http.StatusOK {
		return models.CatalogProduct{}, fmt.Errorf("catalog returned status %d", resp.StatusCode)
	}

	var dto productDTO
	if err = json.NewDecoder(resp.Body).Decode(&dto); err != nil {
		return models.CatalogProduct{}, fmt.Errorf("error decoding catalog response: %w", err)
	}

	product := models.CatalogProduct{
		ID:                dto.ID,
		Name:              dto.Name,
		UnitPrice:         dto.Price,
		CategoryID:        dto.CategoryID,
		AlcoholRestricted: dto.Category.AlcoholRestricted,
	}
	for _, v := range dto.Variants {
		product.Variants = append(product.Variants, models.Variant{
			ID:            v.ID,
			Name:          v.Name,
			PriceModifier: v.PriceModifier,
			Available:     v.Available,
		})
	}

	return product, nil
}
