package usgs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"
)

// RequestURL selects significant (M6+) events between 2012-01-01 and 2012-12-01.
const RequestURL = "https://earthquake.usgs.gov/fdsnws/event/1/query?format=geojson&starttime=2012-01-01&endtime=2012-12-01&minmagnitude=6"

const (
	DefaultConnectTimeout = 1500 * time.Millisecond
	DefaultReadTimeout    = 1000 * time.Millisecond
)

var (
	ErrMalformedURL = errors.New("usgs: malformed request url")
	ErrTransport    = errors.New("usgs: transport failure")
	ErrTimeout      = errors.New("usgs: read timeout")
	ErrStatus       = errors.New("usgs: unexpected http status")
)

// Options tunes a Client. Zero values fall back to the defaults above.
type Options struct {
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	UserAgent      string
}

// Client performs the single feed request.
type Client struct {
	url         string
	userAgent   string
	readTimeout time.Duration
	http        *http.Client
}

// NewClient targets RequestURL.
func NewClient(opts Options) *Client {
	return NewClientAt(RequestURL, opts)
}

// NewClientAt targets another endpoint serving the same query, such as a
// local mirror or a test server.
func NewClientAt(rawURL string, opts Options) *Client {
	connect := opts.ConnectTimeout
	if connect <= 0 {
		connect = DefaultConnectTimeout
	}
	read := opts.ReadTimeout
	if read <= 0 {
		read = DefaultReadTimeout
	}
	tr := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: connect}).DialContext,
		TLSHandshakeTimeout:   connect,
		ResponseHeaderTimeout: read,
		DisableKeepAlives:     true,
	}
	return &Client{
		url:         rawURL,
		userAgent:   opts.UserAgent,
		readTimeout: read,
		http:        &http.Client{Transport: tr},
	}
}

// URL is the request target.
func (c *Client) URL() string { return c.url }

// Fetch issues the GET and returns the body as UTF-8 text. Every failure is
// returned as an error wrapping one of the package sentinels; Fetch never
// panics on network conditions. The connection is released before return.
func (c *Client) Fetch(ctx context.Context) (string, error) {
	u, err := url.Parse(c.url)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrMalformedURL, c.url)
	}

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedURL, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", classify(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		// drain so the transport can tear the connection down cleanly
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return "", fmt.Errorf("%w: %w: %d", ErrTransport, ErrStatus, resp.StatusCode)
	}

	body := newIdleTimeoutReader(resp.Body, c.readTimeout, func() { cancel(ErrTimeout) })
	defer body.stop()

	b, err := io.ReadAll(body)
	if err != nil {
		return "", classify(ctx, err)
	}
	if !utf8.Valid(b) {
		return strings.ToValidUTF8(string(b), string(utf8.RuneError)), nil
	}
	return string(b), nil
}

// classify maps transport errors onto the package sentinels.
func classify(ctx context.Context, err error) error {
	if errors.Is(context.Cause(ctx), ErrTimeout) {
		return fmt.Errorf("%w: %w: %v", ErrTransport, ErrTimeout, err)
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return fmt.Errorf("%w: %w: %v", ErrTransport, ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrTransport, err)
}
