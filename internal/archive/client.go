package archive

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/handiism/archive-downloader/internal/http"
	"github.com/handiism/archive-downloader/internal/model"
	"github.com/tidwall/gjson"
)

// DefaultBaseURL is the public Internet Archive endpoint.
const DefaultBaseURL = "https://archive.org"

// ErrItemNotFound is returned when the catalog has no item for an identifier.
var ErrItemNotFound = errors.New("item not found")

// SortOrder is a catalog sort expression.
type SortOrder string

// SortPopularityDesc orders results by download count, most downloaded first.
const SortPopularityDesc SortOrder = "downloads desc"

// SearchHit is one search result.
type SearchHit struct {
	Identifier string
}

// Metadata is the subset of an item's metadata the downloader uses.
type Metadata struct {
	Identifier string
	Title      string
	Date       string
}

// Client talks to the archive's search, metadata and download endpoints.
//
// Example:
//
//	client := NewClient(http.NewClient(), DefaultBaseURL)
//	hits, err := client.Search(ctx, BuildQuery("Death Grips", "Exmilitary", "MP3"), SortPopularityDesc, 5)
//	for _, hit := range hits {
//	    files, _ := client.ListFiles(ctx, hit.Identifier)
//	    fmt.Println(hit.Identifier, len(files))
//	}
type Client struct {
	http    *http.Client
	baseURL string
}

// NewClient creates a catalog client. An empty baseURL means DefaultBaseURL.
func NewClient(httpClient *http.Client, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		http:    httpClient,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Search runs an advanced search and returns the identifiers of the matching
// items in the order the catalog returned them.
//
// A document without an identifier is returned as a hit with an empty
// Identifier so callers can account for it.
func (c *Client) Search(ctx context.Context, query string, sort SortOrder, limit int) ([]SearchHit, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Add("fl[]", "identifier")
	params.Add("sort[]", string(sort))
	params.Set("rows", strconv.Itoa(limit))
	params.Set("page", "1")
	params.Set("output", "json")

	body, err := c.http.Get(ctx, c.baseURL+"/advancedsearch.php?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("invalid search response json")
	}
	if msg := gjson.GetBytes(body, "error"); msg.Exists() {
		return nil, fmt.Errorf("search rejected: %s", msg.String())
	}

	docs := gjson.GetBytes(body, "response.docs")
	if !docs.IsArray() {
		return nil, fmt.Errorf("unexpected search response: missing response.docs")
	}

	var hits []SearchHit
	docs.ForEach(func(_, doc gjson.Result) bool {
		hits = append(hits, SearchHit{Identifier: firstString(doc.Get("identifier"))})
		return true
	})

	return hits, nil
}

// GetMetadata fetches the metadata of one item.
//
// Fields that the archive stores as lists (title, date) resolve to their
// first element.
func (c *Client) GetMetadata(ctx context.Context, identifier string) (*Metadata, error) {
	body, err := c.http.Get(ctx, c.itemURL(identifier, "metadata"))
	if err != nil {
		return nil, fmt.Errorf("metadata request for %s failed: %w", identifier, err)
	}

	result, err := parseResult(body, identifier)
	if err != nil {
		return nil, err
	}
	if !result.IsObject() {
		return nil, fmt.Errorf("unexpected metadata for %s: %s", identifier, result.Type)
	}

	return &Metadata{
		Identifier: identifier,
		Title:      firstString(result.Get("title")),
		Date:       firstString(result.Get("date")),
	}, nil
}

// ListFiles fetches the file listing of one item. Each file's URL is its
// download handle.
func (c *Client) ListFiles(ctx context.Context, identifier string) ([]model.RemoteFile, error) {
	body, err := c.http.Get(ctx, c.itemURL(identifier, "files"))
	if err != nil {
		return nil, fmt.Errorf("file listing for %s failed: %w", identifier, err)
	}

	result, err := parseResult(body, identifier)
	if err != nil {
		return nil, err
	}
	if !result.IsArray() {
		return nil, fmt.Errorf("unexpected file listing for %s: %s", identifier, result.Type)
	}

	var files []model.RemoteFile
	result.ForEach(func(_, f gjson.Result) bool {
		name := f.Get("name").String()
		if name == "" {
			return true
		}
		files = append(files, model.RemoteFile{
			Name:   name,
			Format: f.Get("format").String(),
			Size:   f.Get("size").Int(),
			URL:    c.DownloadURL(identifier, name),
		})
		return true
	})

	return files, nil
}

// DownloadURL returns the download address of a file inside an item.
func (c *Client) DownloadURL(identifier, name string) string {
	segments := strings.Split(name, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return c.baseURL + "/download/" + url.PathEscape(identifier) + "/" + strings.Join(segments, "/")
}

// Download streams a remote file to destPath.
func (c *Client) Download(ctx context.Context, file model.RemoteFile, destPath string, onProgress func(written, total int64)) error {
	if file.URL == "" {
		return fmt.Errorf("file %s has no download handle", file.Name)
	}
	return c.http.DownloadFile(ctx, file.URL, destPath, onProgress)
}

// Fetch downloads a small remote file into memory, e.g. cover art.
func (c *Client) Fetch(ctx context.Context, file model.RemoteFile) ([]byte, error) {
	if file.URL == "" {
		return nil, fmt.Errorf("file %s has no download handle", file.Name)
	}
	return c.http.Get(ctx, file.URL)
}

func (c *Client) itemURL(identifier, section string) string {
	return c.baseURL + "/metadata/" + url.PathEscape(identifier) + "/" + section
}

// parseResult extracts "result" from a metadata API response. The archive
// answers unknown identifiers with an empty object.
func parseResult(body []byte, identifier string) (gjson.Result, error) {
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, fmt.Errorf("invalid metadata response json for %s", identifier)
	}
	if msg := gjson.GetBytes(body, "error"); msg.Exists() {
		return gjson.Result{}, fmt.Errorf("metadata for %s: %s", identifier, msg.String())
	}

	result := gjson.GetBytes(body, "result")
	if !result.Exists() {
		return gjson.Result{}, fmt.Errorf("%s: %w", identifier, ErrItemNotFound)
	}
	return result, nil
}

// firstString returns a string field, or the first element when the field is
// a list.
func firstString(r gjson.Result) string {
	if r.IsArray() {
		arr := r.Array()
		if len(arr) == 0 {
			return ""
		}
		return arr[0].String()
	}
	return r.String()
}
