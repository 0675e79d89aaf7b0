// Package countries fetches the public country directory used by the
// phone-number form.
package countries

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"
)

const DefaultBaseURL = "https://restcountries.com"

type Country struct {
	Name struct {
		Common string `json:"common"`
	} `json:"name"`
	CCA2 string `json:"cca2"`
	IDD  struct {
		Root     string   `json:"root"`
		Suffixes []string `json:"suffixes"`
	} `json:"idd"`
	Flag string `json:"flag"`
}

// DialCode resolves the country's dial code from the IDD root and first
// suffix.
func DialCode(c Country) string {
	if len(c.IDD.Suffixes) == 0 {
		return c.IDD.Root
	}
	return c.IDD.Root + c.IDD.Suffixes[0]
}

// Client calls the country directory over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

func NewClient(baseURL string, log *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        log,
	}
}

// Fetch returns countries with a resolvable dial code, sorted by common
// name. Any failure is non-fatal and yields an empty list.
func (c *Client) Fetch(ctx context.Context) []Country {
	url := c.baseURL + "/v3.1/all?fields=name,cca2,idd,flag"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		c.log.Error("fetch countries", "err", err)
		return nil
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("fetch countries", "err", err)
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		c.log.Error("fetch countries", "err", fmt.Errorf("unexpected status %d", resp.StatusCode))
		return nil
	}

	var all []Country
	if err := json.NewDecoder(resp.Body).Decode(&all); err != nil {
		c.log.Error("fetch countries", "err", err)
		return nil
	}

	out := make([]Country, 0, len(all))
	for _, country := range all {
		if country.IDD.Root != "" && len(country.IDD.Suffixes) > 0 {
			out = append(out, country)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name.Common < out[j].Name.Common
	})
	return out
}
