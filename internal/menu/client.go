// Package menu fetches the restaurant menu from a static JSON resource.
package menu

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
)

const (
	// DefaultURL is the published capstone menu.
	DefaultURL = "https://raw.githubusercontent.com/Meta-Mobile-Developer-PC/Working-With-Data-API/main/capstone.json"

	// DefaultImageBaseURL is where menu item images live.
	DefaultImageBaseURL = "https://github.com/Meta-Mobile-Developer-PC/Working-With-Data-API/blob/main/images"
)

// Item is one dish. ID is the item's position in the fetched list and is
// not stable across fetches.
type Item struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Image       string `json:"image"`
}

// ImageURL returns the raw image location under base.
func (it Item) ImageURL(base string) string {
	if it.Image == "" {
		return ""
	}
	return strings.TrimRight(base, "/") + "/" + it.Image + "?raw=true"
}

// DisplayPrice formats the price with a dollar sign.
func (it Item) DisplayPrice() string {
	if it.Price == "" {
		return ""
	}
	return "$" + it.Price
}

// Client fetches the menu.
type Client struct {
	url  string
	http *http.Client
}

// NewClient creates a client for the menu at url.
func NewClient(url string) *Client {
	if url == "" {
		url = DefaultURL
	}
	return &Client{
		url:  url,
		http: &http.Client{},
	}
}

// Fetch performs a single GET and maps every record to an Item.
// Transport errors, non-2xx statuses and malformed bodies all fail.
func (c *Client) Fetch(ctx context.Context) ([]Item, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch menu: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch menu: http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch menu: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
		}
	}

	var doc menuResponse
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("fetch menu: unmarshal: %w", err)
	}
	if doc.Menu == nil {
		return nil, fmt.Errorf("fetch menu: response has no menu")
	}

	items := make([]Item, len(doc.Menu))
	for i, r := range doc.Menu {
		items[i] = Item{
			ID:          strconv.Itoa(i),
			Name:        r.Name,
			Description: r.Description,
			Price:       string(r.Price),
			Image:       r.Image,
		}
	}

	return items, nil
}

// Error is a non-success HTTP status from the menu host.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("menu: %s (status %d)", e.Message, e.StatusCode)
}

// json wire types

type menuResponse struct {
	Menu []menuRecord `json:"menu"`
}

type menuRecord struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       price  `json:"price"`
	Image       string `json:"image"`
}

// price accepts either a JSON string or a JSON number.
type price string

func (p *price) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*p = ""
		return nil
	}

	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*p = price(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("price: %w", err)
	}
	*p = price(n.String())
	return nil
}
