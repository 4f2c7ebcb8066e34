package simba

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
)

// Request describes one API call on its way through the middleware chain.
// Middleware stages may rewrite any field before the transport call.
type Request struct {
	// Method is one of GET, POST, PUT, PATCH, DELETE.
	Method string
	// URL is the request target. Verb methods and Do accept a path here and
	// resolve it against the client's base URL; a value that already carries
	// a scheme is used as-is.
	URL string
	// Query values are merged into the URL's query string at build time.
	Query url.Values
	// Headers are per-call headers. When a bearer token is injected the whole
	// map is replaced unless the client was built with WithMergedAuthHeaders.
	Headers map[string]string
	// Cookies are per-call cookies, merged over the client's defaults.
	Cookies map[string]string
	// Body is the pre-serialized request body. When Files are present the
	// request is encoded as multipart/form-data and a non-empty Body is
	// carried as the "data" form field.
	Body []byte
	// Files holds in-memory upload payloads, so a request can be rebuilt for
	// a retry without re-reading anything.
	Files []FileUpload
	// Metadata is scratch space for middleware stages.
	Metadata map[string]interface{}
}

// FileUpload is one multipart upload part.
type FileUpload struct {
	// Field is the form field name. Defaults to "file".
	Field string
	// Name is the filename reported for the part. Defaults to the field name.
	Name string
	// ContentType defaults to application/octet-stream.
	ContentType string
	// Content is the full part body.
	Content []byte
}

// Response is the raw result of a dispatched request. It is not modified by
// the client after classification.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// JSON decodes the response body into v.
func (r *Response) JSON(v interface{}) error {
	err := json.Unmarshal(r.Body, v)
	if err != nil {
		return fmt.Errorf("decoding response body: %w", err)
	}

	return nil
}

// Text returns the response body as a string.
func (r *Response) Text() string {
	return string(r.Body)
}

// normalize replaces nil collections with empty ones so middleware and the
// transport never see a nil map.
func (r *Request) normalize() {
	if r.Query == nil {
		r.Query = url.Values{}
	}

	if r.Headers == nil {
		r.Headers = make(map[string]string)
	}

	if r.Cookies == nil {
		r.Cookies = make(map[string]string)
	}

	if r.Metadata == nil {
		r.Metadata = make(map[string]interface{})
	}
}

// headerValue looks up a header by name, ignoring case.
func headerValue(headers map[string]string, name string) (string, bool) {
	for key, value := range headers {
		if strings.EqualFold(key, name) {
			return value, true
		}
	}

	return "", false
}

// httpRequest converts the request into a *http.Request ready for the wire.
func (r *Request) httpRequest(ctx context.Context) (*http.Request, error) {
	target, err := url.Parse(r.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing request URL: %w", err)
	}

	if len(r.Query) > 0 {
		query := target.Query()
		for key, values := range r.Query {
			for _, value := range values {
				query.Add(key, value)
			}
		}

		target.RawQuery = query.Encode()
	}

	body, contentType, err := r.encodeBody()
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, r.Method, target.String(), body)
	if err != nil {
		return nil, fmt.Errorf("building http request: %w", err)
	}

	for key, value := range r.Headers {
		httpReq.Header.Set(key, value)
	}

	// Multipart encoding owns the content type; it carries the part boundary.
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	for name, value := range r.Cookies {
		httpReq.AddCookie(&http.Cookie{Name: name, Value: value})
	}

	return httpReq, nil
}

// encodeBody returns the request body reader and, for multipart payloads, the
// content type that must accompany it.
func (r *Request) encodeBody() (*bytes.Reader, string, error) {
	if len(r.Files) == 0 {
		return bytes.NewReader(r.Body), "", nil
	}

	var buf bytes.Buffer

	writer := multipart.NewWriter(&buf)

	for _, file := range r.Files {
		part, err := writer.CreatePart(partHeader(file))
		if err != nil {
			return nil, "", fmt.Errorf("creating multipart section: %w", err)
		}

		_, err = part.Write(file.Content)
		if err != nil {
			return nil, "", fmt.Errorf("writing multipart section: %w", err)
		}
	}

	if len(r.Body) > 0 {
		field, err := writer.CreateFormField("data")
		if err != nil {
			return nil, "", fmt.Errorf("creating data field: %w", err)
		}

		_, err = field.Write(r.Body)
		if err != nil {
			return nil, "", fmt.Errorf("writing data field: %w", err)
		}
	}

	err := writer.Close()
	if err != nil {
		return nil, "", fmt.Errorf("closing multipart body: %w", err)
	}

	return bytes.NewReader(buf.Bytes()), writer.FormDataContentType(), nil
}

func partHeader(file FileUpload) textproto.MIMEHeader {
	field := file.Field
	if field == "" {
		field = "file"
	}

	name := file.Name
	if name == "" {
		name = field
	}

	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, name))
	header.Set("Content-Type", contentType)

	return header
}
