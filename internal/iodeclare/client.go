// Package iodeclare implements the client for the government
// declaration lookup API. It is the last-resort data source used by
// the healer when neither PRIMARY nor LEGACY knows a document.
package iodeclare

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/helenomaffra/maikedb/pkg/config"
	"github.com/helenomaffra/maikedb/pkg/maike"
)

type client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a declaration API client from configuration.
func New(cfg *config.DeclarationAPIConfig) maike.DeclarationClient {
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &client{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// DocumentStatus fetches the live status of one declaration. Returns
// nil without error when the API does not know the number.
func (c *client) DocumentStatus(
	ctx context.Context,
	number string,
	dt maike.DocumentType,
) (*maike.DocumentStatus, error) {
	path := fmt.Sprintf("/declarations/%s/%s/status", docTypePath(dt), number)

	var body statusResponse
	found, err := c.getJSON(ctx, path, &body)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return body.toStatus(), nil
}

// DuimpValues fetches the declared monetary lines of a DUIMP.
func (c *client) DuimpValues(
	ctx context.Context,
	number string,
) ([]maike.DeclaredAmount, error) {
	path := fmt.Sprintf("/declarations/duimp/%s/values", number)

	var body valuesResponse
	found, err := c.getJSON(ctx, path, &body)
	if err != nil || !found {
		return nil, err
	}
	return body.toAmounts(), nil
}

// DuimpTaxes fetches the tax lines of a DUIMP.
func (c *client) DuimpTaxes(
	ctx context.Context,
	number string,
) ([]maike.TaxAmount, error) {
	path := fmt.Sprintf("/declarations/duimp/%s/taxes", number)

	var body taxesResponse
	found, err := c.getJSON(ctx, path, &body)
	if err != nil || !found {
		return nil, err
	}
	return body.toTaxes(), nil
}

// getJSON issues one GET and decodes the body. A 404 is reported as
// not found, not as an error.
func (c *client) getJSON(
	ctx context.Context,
	path string,
	out any,
) (bool, error) {
	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, APIError(url, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, APIError(url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return false, APIError(url,
			fmt.Errorf("status %d", resp.StatusCode))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, APIError(url, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, APIError(url, err)
	}
	return true, nil
}

func docTypePath(dt maike.DocumentType) string {
	switch dt {
	case maike.DocTypeDUIMP:
		return "duimp"
	case maike.DocTypeCE:
		return "ce"
	default:
		return "di"
	}
}
