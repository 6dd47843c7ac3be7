// Package forex looks up historical currency exchange rates from the
// frankfurter.app API, with a daily-expiring disk cache in front so that
// repeated conversions of the same export do not hammer the service.
package forex

import (
	"bufio"
	"bytes"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"net/http/httputil"
	"os"
	"path/filepath"

	"github.com/PaesslerAG/jsonpath"
	"github.com/mortisj/quicken2beancount/date"
)

// DefaultBase is the public frankfurter.app endpoint.
const DefaultBase = "https://api.frankfurter.app"

// A Client fetches exchange rates from one endpoint.
type Client struct {
	base   string
	client *http.Client
}

// New returns a client on the public endpoint with daily disk caching.
func New() *Client {
	return &Client{base: DefaultBase, client: daily()}
}

// NewWith returns a client on a custom endpoint with a plain transport,
// for tests and mirrors.
func NewWith(base string) *Client {
	return &Client{base: base, client: new(http.Client)}
}

// Rate returns how many units of 'to' one unit of 'from' bought on 'on'.
// The service skips weekends and holidays by answering for the closest
// prior trading day.
func (c *Client) Rate(from, to string, on date.Date) (float64, error) {
	addr := fmt.Sprintf("%s/%s?from=%s&to=%s", c.base, on, from, to)
	var jobj any
	if err := jwget(c.client, addr, &jobj); err != nil {
		return math.NaN(), fmt.Errorf("error in wget %s/%s: %w", from, to, err)
	}
	path := "$.rates." + to
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return math.NaN(), fmt.Errorf("error parsing %s/%s: %q %w", from, to, path, err)
	}
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	val, ok := jval.(float64)
	if !ok {
		return math.NaN(), fmt.Errorf("error parsing %s/%s: %q not a number: %v", from, to, path, jval)
	}
	return val, nil
}

// diskCache implements a simple disk cache for HTTP responses. The key
// includes the current day, so entries expire overnight.
type diskCache struct {
	base http.RoundTripper
}

func (c *diskCache) RoundTrip(req *http.Request) (*http.Response, error) {
	key := fmt.Sprintf("%s %s %s", date.Today(), req.Method, req.URL)
	key = fmt.Sprintf("%x", sha1.Sum([]byte(key)))

	if resp, err := c.get(key, req); err == nil {
		return resp, nil
	}

	resp, err := c.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	log.Printf("%v %v%v %v", resp.Request.Method, resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	if resp.StatusCode >= 300 {
		return resp, nil
	}
	if err := c.put(key, resp); err != nil {
		log.Printf("cache write err (ignored): %v", err)
	}
	return resp, nil
}

func (c *diskCache) get(key string, req *http.Request) (*http.Response, error) {
	content, err := os.ReadFile(filepath.Join(os.TempDir(), key))
	if err != nil {
		return nil, err
	}
	return http.ReadResponse(bufio.NewReader(bytes.NewBuffer(content)), req)
}

func (c *diskCache) put(key string, resp *http.Response) error {
	content, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(os.TempDir(), key), content, 0644)
}

// daily returns a client whose cache expires every day.
func daily() *http.Client {
	return &http.Client{Transport: &diskCache{http.DefaultTransport}}
}

// jwget performs an HTTP GET and unmarshals the JSON response.
func jwget(client *http.Client, addr string, data any) error {
	resp, err := client.Get(addr)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		return fmt.Errorf("cannot http GET %v%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return err
	}
	return json.Unmarshal(buf.Bytes(), data)
}
