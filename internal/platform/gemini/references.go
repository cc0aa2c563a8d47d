package gemini

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"google.golang.org/genai"
)

const defaultImageMIMEType = "image/png"

// reference is a loaded reference image: either a URI the API can read
// directly, or raw bytes to be sent inline.
type reference struct {
	URI      string
	Data     []byte
	MIMEType string
}

// part converts the reference into a request part.
func (r *reference) part() *genai.Part {
	if r.URI != "" {
		return genai.NewPartFromURI(r.URI, r.MIMEType)
	}
	return genai.NewPartFromBytes(r.Data, r.MIMEType)
}

// image converts the reference into a video seed image.
func (r *reference) image() *genai.Image {
	if r.URI != "" {
		return &genai.Image{GCSURI: r.URI, MIMEType: r.MIMEType}
	}
	return &genai.Image{ImageBytes: r.Data, MIMEType: r.MIMEType}
}

// referenceLoader resolves a reference image URL.
type referenceLoader interface {
	Load(ctx context.Context, rawURL string) (*reference, error)
}

// httpReferenceLoader downloads http(s) references and decodes data: URLs.
type httpReferenceLoader struct {
	client   *http.Client
	maxBytes int64
}

func newHTTPReferenceLoader(cfg Config) *httpReferenceLoader {
	return &httpReferenceLoader{
		client:   &http.Client{Timeout: cfg.FetchTimeout},
		maxBytes: cfg.MaxReferenceBytes,
	}
}

// Load implements referenceLoader.
func (l *httpReferenceLoader) Load(ctx context.Context, rawURL string) (*reference, error) {
	if strings.HasPrefix(rawURL, "data:") {
		return decodeDataURL(rawURL)
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedReference, err)
	}

	switch u.Scheme {
	case "gs":
		return &reference{URI: rawURL, MIMEType: mimeFromPath(u.Path)}, nil
	case "http", "https":
		return l.fetch(ctx, rawURL)
	default:
		return nil, fmt.Errorf("%w: scheme %q", ErrUnsupportedReference, u.Scheme)
	}
}

func (l *httpReferenceLoader) fetch(ctx context.Context, rawURL string) (*reference, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReferenceFetch, err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReferenceFetch, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned %d", ErrReferenceFetch, rawURL, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, l.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReferenceFetch, err)
	}
	if int64(len(data)) > l.maxBytes {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrReferenceFetch, rawURL, l.maxBytes)
	}

	mimeType := resp.Header.Get("Content-Type")
	if mt, _, err := mime.ParseMediaType(mimeType); err == nil && strings.HasPrefix(mt, "image/") {
		mimeType = mt
	} else {
		mimeType = mimetype.Detect(data).String()
	}

	return &reference{Data: data, MIMEType: mimeType}, nil
}

// decodeDataURL decodes a base64 data: URL.
func decodeDataURL(rawURL string) (*reference, error) {
	header, payload, ok := strings.Cut(strings.TrimPrefix(rawURL, "data:"), ",")
	if !ok || !strings.HasSuffix(header, ";base64") {
		return nil, fmt.Errorf("%w: only base64 data urls are supported", ErrUnsupportedReference)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedReference, err)
	}

	mimeType := strings.TrimSuffix(header, ";base64")
	if mimeType == "" {
		mimeType = mimetype.Detect(data).String()
	}
	return &reference{Data: data, MIMEType: mimeType}, nil
}

// encodeDataURL is the inverse of decodeDataURL.
func encodeDataURL(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func mimeFromPath(p string) string {
	if mt := mime.TypeByExtension(path.Ext(p)); mt != "" {
		if base, _, err := mime.ParseMediaType(mt); err == nil {
			return base
		}
	}
	return defaultImageMIMEType
}
