// Package hub fetches model artifacts from a Hugging Face compatible
// registry. Files are addressed as {endpoint}/{repo}/resolve/{revision}/{file}.
package hub

import (
	"context"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	DefaultEndpoint = "https://huggingface.co"
	DefaultRevision = "main"
)

// Client talks to the registry. The zero value is not usable; see NewClient.
type Client struct {
	Endpoint string
	Token    string
	HTTP     *http.Client
	Logger   zerolog.Logger
}

// NewClient builds a client whose transport enforces connectTimeout on dial.
// Requests carry no client-wide timeout; callers bound them with ctx.
func NewClient(endpoint, token string, connectTimeout time.Duration) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if connectTimeout <= 0 {
		connectTimeout = 10 * time.Second
	}
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   connectTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          16,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 60 * time.Second,
	}
	return &Client{
		Endpoint: strings.TrimRight(endpoint, "/"),
		Token:    token,
		HTTP:     &http.Client{Transport: tr},
		Logger:   zerolog.Nop(),
	}
}

// WithToken returns a copy of c sending token as bearer credentials.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.Token = token
	return &cp
}

// ResolveURL builds the download URL of one file.
func (c *Client) ResolveURL(repo, revision, file string) string {
	if revision == "" {
		revision = DefaultRevision
	}
	return strings.TrimRight(c.Endpoint, "/") + "/" + repo + "/resolve/" + revision + "/" + file
}

// FileMetadata is what the registry reports about a file before download.
type FileMetadata struct {
	Revision string // commit hash the revision resolved to
	ETag     string // unquoted; a sha256 hex digest for LFS files
	Size     int64  // -1 when unknown
	Location string // redirect target, if any
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return http.DefaultClient
}

func (c *Client) newRequest(ctx context.Context, method, url string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, err
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	req.Header.Set("User-Agent", "neuronexus/1")
	return req, nil
}

// Metadata issues a HEAD without following redirects, so the registry's own
// headers (commit, linked etag and size) are seen rather than the CDN's.
func (c *Client) Metadata(ctx context.Context, repo, revision, file string) (FileMetadata, error) {
	req, err := c.newRequest(ctx, http.MethodHead, c.ResolveURL(repo, revision, file))
	if err != nil {
		return FileMetadata{}, &Error{Kind: KindNetwork, File: file, Err: err}
	}
	noRedirect := *c.httpClient()
	noRedirect.CheckRedirect = func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }
	resp, err := noRedirect.Do(req)
	if err != nil {
		return FileMetadata{}, &Error{Kind: KindNetwork, File: file, Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode >= 400 {
		return FileMetadata{}, statusError(file, resp.StatusCode, "")
	}
	md := FileMetadata{
		Revision: resp.Header.Get("X-Repo-Commit"),
		ETag:     normalizeETag(firstNonEmpty(resp.Header.Get("X-Linked-Etag"), resp.Header.Get("ETag"))),
		Size:     -1,
		Location: resp.Header.Get("Location"),
	}
	if s := firstNonEmpty(resp.Header.Get("X-Linked-Size"), resp.Header.Get("Content-Length")); s != "" {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			md.Size = n
		}
	}
	c.Logger.Debug().Str("event", "hub_metadata").Str("file", file).Str("revision", md.Revision).Int64("size", md.Size).Msg("")
	return md, nil
}

// Ping checks that the repository is reachable with the current credentials
// and returns the commit the revision points at.
func (c *Client) Ping(ctx context.Context, repo, revision string) (string, error) {
	md, err := c.Metadata(ctx, repo, revision, "config.json")
	if err != nil {
		return "", err
	}
	return md.Revision, nil
}

func normalizeETag(v string) string {
	v = strings.TrimPrefix(strings.TrimSpace(v), "W/")
	return strings.Trim(v, `"`)
}

func firstNonEmpty(vs ...string) string {
	for _, v := range vs {
		if v != "" {
			return v
		}
	}
	return ""
}
