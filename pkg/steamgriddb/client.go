package steamgriddb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const baseURL = "https://www.steamgriddb.com/api/v2"

// Client is a SteamGridDB API client.
type Client struct {
	apiKey     string
	httpClient http.Client
}

// NewClient creates a client authenticating with apiKey.
func NewClient(apiKey string) *Client {
	return &Client{apiKey: apiKey}
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	reqURL := baseURL + endpoint
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API error %d: %s", resp.StatusCode, string(body))
	}

	return body, nil
}

// Search searches for games by name.
func (c *Client) Search(ctx context.Context, term string) ([]SearchResult, error) {
	body, err := c.get(ctx, "/search/autocomplete/"+url.PathEscape(term), nil)
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}
	if err := resp.err(); err != nil {
		return nil, err
	}

	return resp.Data, nil
}

// GetGrids returns grid images for a game.
func (c *Client) GetGrids(ctx context.Context, gameID int, filters *ImageFilters, page int) ([]ImageData, error) {
	return c.getImages(ctx, fmt.Sprintf("/grids/game/%d", gameID), filters, page)
}

// GetHeroes returns hero images for a game.
func (c *Client) GetHeroes(ctx context.Context, gameID int, filters *ImageFilters, page int) ([]ImageData, error) {
	return c.getImages(ctx, fmt.Sprintf("/heroes/game/%d", gameID), filters, page)
}

// GetLogos returns logo images for a game.
func (c *Client) GetLogos(ctx context.Context, gameID int, filters *ImageFilters, page int) ([]ImageData, error) {
	return c.getImages(ctx, fmt.Sprintf("/logos/game/%d", gameID), filters, page)
}

// GetIcons returns icon images for a game.
func (c *Client) GetIcons(ctx context.Context, gameID int, filters *ImageFilters, page int) ([]ImageData, error) {
	return c.getImages(ctx, fmt.Sprintf("/icons/game/%d", gameID), filters, page)
}

func (c *Client) getImages(ctx context.Context, endpoint string, filters *ImageFilters, page int) ([]ImageData, error) {
	body, err := c.get(ctx, endpoint, buildParams(filters, page))
	if err != nil {
		return nil, err
	}

	var resp imageResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}
	if err := resp.err(); err != nil {
		return nil, err
	}

	return resp.Data, nil
}

// Download fetches an image by its absolute URL. It returns the raw bytes
// and the Content-Type header, which decides the file extension on disk.
func (c *Client) Download(ctx context.Context, imageURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("download %s: status %d", imageURL, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}
	return data, resp.Header.Get("Content-Type"), nil
}

// err surfaces API-level failures that come back with a 200 status.
func (r apiResponse) err() error {
	if r.Success {
		return nil
	}
	if len(r.Errors) > 0 {
		return fmt.Errorf("API error: %s", strings.Join(r.Errors, "; "))
	}
	return fmt.Errorf("API request unsuccessful")
}

func buildParams(filters *ImageFilters, page int) url.Values {
	params := url.Values{}

	if filters != nil {
		if filters.Style != "" {
			params.Set("styles", filters.Style)
		}
		if filters.MimeType != "" {
			params.Set("mimes", filters.MimeType)
		}
		if filters.ImageType == "static" || filters.ImageType == "animated" {
			params.Set("types", filters.ImageType)
		}
		if filters.Dimension != "" {
			params.Set("dimensions", filters.Dimension)
		}
		if filters.ShowNsfw {
			params.Set("nsfw", "any")
		} else {
			params.Set("nsfw", "false")
		}
		if filters.ShowHumor {
			params.Set("humor", "any")
		} else {
			params.Set("humor", "false")
		}
	}

	if page > 0 {
		params.Set("page", strconv.Itoa(page))
	}

	return params
}
