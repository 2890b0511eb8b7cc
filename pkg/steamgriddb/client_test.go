package steamgriddb

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

// newTestClient creates a Client pointing at the given test server URL.
// Client hardcodes the production base URL, so requests get redirected at
// the transport level instead.
func newTestClient(serverURL string) *Client {
	c := NewClient("test-api-key")
	c.httpClient = http.Client{
		Transport: &rewriteTransport{
			base:    http.DefaultTransport,
			baseURL: serverURL,
		},
	}
	return c
}

// rewriteTransport rewrites requests to point at a test server.
type rewriteTransport struct {
	base    http.RoundTripper
	baseURL string
}

func (t *rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	u, _ := url.Parse(t.baseURL)
	req.URL.Scheme = u.Scheme
	req.URL.Host = u.Host
	return t.base.RoundTrip(req)
}

func TestSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
			t.Error("missing Bearer token")
		}
		if !strings.Contains(r.URL.Path, "/search/autocomplete/") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}

		resp := searchResponse{
			apiResponse: apiResponse{Success: true},
			Data: []SearchResult{
				{ID: 1, Name: "Rocket League", Types: []string{"steam"}, Verified: true},
				{ID: 2, Name: "Rocket League 2", Types: []string{"origin"}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	results, err := client.Search(context.Background(), "Rocket League")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("Search() returned %d results, want 2", len(results))
	}
	if results[0].Name != "Rocket League" {
		t.Errorf("results[0].Name = %q, want %q", results[0].Name, "Rocket League")
	}
}

func TestGetImages(t *testing.T) {
	tests := []struct {
		name     string
		call     func(c *Client) ([]ImageData, error)
		wantPath string
	}{
		{
			name: "grids",
			call: func(c *Client) ([]ImageData, error) {
				return c.GetGrids(context.Background(), 42, nil, 0)
			},
			wantPath: "/grids/game/42",
		},
		{
			name: "heroes",
			call: func(c *Client) ([]ImageData, error) {
				return c.GetHeroes(context.Background(), 42, nil, 0)
			},
			wantPath: "/heroes/game/42",
		},
		{
			name: "logos",
			call: func(c *Client) ([]ImageData, error) {
				return c.GetLogos(context.Background(), 42, nil, 0)
			},
			wantPath: "/logos/game/42",
		},
		{
			name: "icons",
			call: func(c *Client) ([]ImageData, error) {
				return c.GetIcons(context.Background(), 42, nil, 0)
			},
			wantPath: "/icons/game/42",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if !strings.Contains(r.URL.Path, tt.wantPath) {
					t.Errorf("unexpected path: %s, want %s", r.URL.Path, tt.wantPath)
				}

				resp := imageResponse{
					apiResponse: apiResponse{Success: true},
					Data: []ImageData{
						{ID: 100, URL: "https://example.com/img.png", Width: 920, Height: 430},
					},
				}
				json.NewEncoder(w).Encode(resp)
			}))
			defer srv.Close()

			images, err := tt.call(newTestClient(srv.URL))
			if err != nil {
				t.Fatalf("error = %v", err)
			}
			if len(images) != 1 {
				t.Fatalf("returned %d results, want 1", len(images))
			}
			if images[0].Width != 920 {
				t.Errorf("images[0].Width = %d, want 920", images[0].Width)
			}
		})
	}
}

func TestSearch_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"success":false,"errors":["Unauthorized"]}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	_, err := client.Search(context.Background(), "test")
	if err == nil {
		t.Fatal("Search() should return error on 401")
	}
	if !strings.Contains(err.Error(), "401") {
		t.Errorf("error should mention status code: %v", err)
	}
}

func TestSearch_UnsuccessfulResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"errors":["Game not found"],"data":[]}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	_, err := client.Search(context.Background(), "test")
	if err == nil {
		t.Fatal("Search() should surface success=false responses")
	}
	if !strings.Contains(err.Error(), "Game not found") {
		t.Errorf("error should carry the API message: %v", err)
	}
}

func TestDownload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			t.Error("Download() should not send the API key to image CDNs")
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("png-bytes"))
	}))
	defer srv.Close()

	client := NewClient("test-api-key")
	data, contentType, err := client.Download(context.Background(), srv.URL+"/img.png")
	if err != nil {
		t.Fatalf("Download() error = %v", err)
	}

	if string(data) != "png-bytes" {
		t.Errorf("Download() data = %q, want %q", data, "png-bytes")
	}
	if contentType != "image/png" {
		t.Errorf("Download() contentType = %q, want %q", contentType, "image/png")
	}
}

func TestDownload_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	client := NewClient("test-api-key")
	_, _, err := client.Download(context.Background(), srv.URL+"/missing.png")
	if err == nil {
		t.Fatal("Download() should fail on 404")
	}
	if !strings.Contains(err.Error(), "404") {
		t.Errorf("error should mention status code: %v", err)
	}
}

func TestBuildParams(t *testing.T) {
	tests := []struct {
		name    string
		filters *ImageFilters
		page    int
		want    map[string]string
		notWant []string
	}{
		{
			name:    "nil filters, no page",
			filters: nil,
			page:    0,
			want:    map[string]string{},
			notWant: []string{"nsfw", "humor"},
		},
		{
			name:    "page only",
			filters: nil,
			page:    2,
			want:    map[string]string{"page": "2"},
		},
		{
			name:    "style filter",
			filters: &ImageFilters{Style: "alternate"},
			want:    map[string]string{"styles": "alternate", "nsfw": "false", "humor": "false"},
		},
		{
			name:    "static type",
			filters: &ImageFilters{ImageType: "static"},
			want:    map[string]string{"types": "static"},
		},
		{
			name:    "bogus type ignored",
			filters: &ImageFilters{ImageType: "sometimes"},
			notWant: []string{"types"},
		},
		{
			name:    "nsfw and humor enabled",
			filters: &ImageFilters{ShowNsfw: true, ShowHumor: true},
			want:    map[string]string{"nsfw": "any", "humor": "any"},
		},
		{
			name:    "mime and dimension filters",
			filters: &ImageFilters{MimeType: "image/png", Dimension: "600x900"},
			want:    map[string]string{"mimes": "image/png", "dimensions": "600x900"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildParams(tt.filters, tt.page)

			for key, wantVal := range tt.want {
				if gotVal := got.Get(key); gotVal != wantVal {
					t.Errorf("buildParams()[%q] = %q, want %q", key, gotVal, wantVal)
				}
			}
			for _, key := range tt.notWant {
				if got.Has(key) {
					t.Errorf("buildParams() should not have key %q", key)
				}
			}
		})
	}
}
