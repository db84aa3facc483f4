package asset

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// Client used for fetching remote resources.
var httpClient = &http.Client{Timeout: 30 * time.Second}

// A Resource is an open stream to a local file or a remote http(s) document.
// Resources remember where they were loaded from so that locations
// referenced by their contents can be resolved against them.
type Resource struct {
	io.ReadCloser
	location *url.URL
}

// Path returns the location this resource was loaded from.
func (r *Resource) Path() string {
	if r.IsRemote() {
		return r.location.String()
	}
	return filepath.FromSlash(r.location.Path)
}

// IsRemote returns true if the resource is streamed over http/https.
func (r *Resource) IsRemote() bool {
	return r.location.Scheme == "http" || r.location.Scheme == "https"
}

// Ext returns the lower-cased extension of the resource location including
// the leading dot.
func (r *Resource) Ext() string {
	return strings.ToLower(path.Ext(r.location.Path))
}

// Open a local file or an http(s) URL. The caller must close the returned
// Resource.
func Open(location string) (*Resource, error) {
	return open(nil, location)
}

// Open a resource referenced by r. Relative locations are resolved against
// the directory containing r: for remote resources this yields a URL on the
// same host while for local resources it yields a file path.
func (r *Resource) Open(location string) (*Resource, error) {
	return open(r.location, location)
}

// NewResourceFromStream wraps a reader into a Resource. Relative locations
// referenced by its contents resolve against name.
func NewResourceFromStream(name string, source io.Reader) *Resource {
	return &Resource{
		ReadCloser: io.NopCloser(source),
		location:   &url.URL{Path: filepath.ToSlash(name)},
	}
}

func open(base *url.URL, location string) (*Resource, error) {
	loc, err := resolve(base, location)
	if err != nil {
		return nil, err
	}

	var reader io.ReadCloser
	switch loc.Scheme {
	case "":
		reader, err = os.Open(filepath.FromSlash(loc.Path))
		if err != nil {
			return nil, err
		}
	case "http", "https":
		reader, err = fetch(loc)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("resource: unsupported scheme '%s'", loc.Scheme)
	}

	return &Resource{ReadCloser: reader, location: loc}, nil
}

// Resolve location against base. A nil base or an absolute location leaves
// the location untouched. Backslashes are treated as path separators and
// single letter schemes as windows drive letters.
func resolve(base *url.URL, location string) (*url.URL, error) {
	slashed := strings.ReplaceAll(location, `\`, `/`)
	loc, err := url.Parse(slashed)
	if err != nil {
		return nil, fmt.Errorf("resource: invalid location '%s': %w", location, err)
	}
	if loc.Scheme == "" || len(loc.Scheme) == 1 {
		// Local paths are taken verbatim so '#' and '?' in file names survive.
		loc = &url.URL{Path: slashed}
	}

	switch {
	case base == nil || loc.Scheme != "":
		return loc, nil
	case base.Scheme != "":
		return base.ResolveReference(&url.URL{Path: loc.Path}), nil
	case path.IsAbs(loc.Path) || filepath.IsAbs(filepath.FromSlash(loc.Path)):
		return loc, nil
	}

	baseDir, err := filepath.Abs(filepath.Dir(filepath.FromSlash(base.Path)))
	if err != nil {
		return nil, fmt.Errorf("resource: could not detect abs path for '%s': %w", base.Path, err)
	}
	return &url.URL{
		Path: filepath.ToSlash(filepath.Join(baseDir, filepath.FromSlash(loc.Path))),
	}, nil
}

func fetch(loc *url.URL) (io.ReadCloser, error) {
	resp, err := httpClient.Get(loc.String())
	if err != nil {
		return nil, fmt.Errorf("resource: could not fetch '%s': %w", loc, err)
	}
	if resp.StatusCode >= 400 {
		resp.Body.Close()
		return nil, fmt.Errorf("resource: could not fetch '%s': status %d", loc, resp.StatusCode)
	}
	return resp.Body, nil
}
