package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"pet-adoption-web/internal/platform/metrics"
)

const (
	DefaultTimeout = 10 * time.Second
	MaxBodyBytes   = 1 << 20
)

// ErrBodyTooLarge: el upstream respondió más de MaxBodyBytes.
var ErrBodyTooLarge = errors.New("httpclient: response body too large")

// Client envuelve *http.Client con helpers comunes para adapters.
// Cada Client tiene su propio cookie jar: las credenciales (cookie de sesión)
// viajan en todas las llamadas, igual que un navegador con credentials: include.
type Client struct {
	HTTP    *http.Client
	BaseURL string // opcional; si se define, DoJSON puede recibir paths relativos
}

// New crea un Client con timeout razonable y cookie jar propio.
func New(timeout time.Duration) *Client {
	return NewWithTransport(timeout, nil)
}

// NewWithBaseURL crea un Client con BaseURL + timeout.
func NewWithBaseURL(baseURL string, timeout time.Duration) (*Client, error) {
	c := New(timeout)
	if strings.TrimSpace(baseURL) == "" {
		return c, nil
	}
	_, err := url.ParseRequestURI(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	c.BaseURL = strings.TrimRight(baseURL, "/")
	return c, nil
}

// NewWithTransport permite inyectar un Transport (p.ej. para tests).
func NewWithTransport(timeout time.Duration, tr http.RoundTripper) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if tr == nil {
		tr = http.DefaultTransport
	}
	jar, _ := cookiejar.New(nil) // nunca falla sin PublicSuffixList
	return &Client{
		HTTP: &http.Client{
			Timeout:   timeout,
			Transport: metrics.InstrumentedTransport{Next: tr},
			Jar:       jar,
		},
	}
}

// HTTPError representa una respuesta no-2xx.
// Message es el campo "message" del body (se muestra tal cual al usuario).
type HTTPError struct {
	StatusCode  int
	Message     string
	FieldErrors map[string]string
	Body        string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Body == "" {
		return fmt.Sprintf("http error: status=%d", e.StatusCode)
	}
	return fmt.Sprintf("http error: status=%d body=%s", e.StatusCode, e.Body)
}

// IsNotFound indica si err es un 404 del upstream.
func IsNotFound(err error) bool {
	var he *HTTPError
	return errors.As(err, &he) && he.StatusCode == http.StatusNotFound
}

// MessageOf devuelve el mensaje a mostrar para err.
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	var he *HTTPError
	if errors.As(err, &he) {
		return he.Error()
	}
	return err.Error()
}

// FieldErrorsOf devuelve los errores por campo del servidor, si los hay.
func FieldErrorsOf(err error) map[string]string {
	var he *HTTPError
	if errors.As(err, &he) && len(he.FieldErrors) > 0 {
		return he.FieldErrors
	}
	return nil
}

// DoJSON hace un request JSON.
// - method: GET/POST/etc
// - pathOrURL: puede ser URL absoluta o path relativo si BaseURL está seteado
// - query: query string (opcional)
// - in: body a enviar (opcional). Si nil => no body.
// - out: donde decodificar JSON (opcional). Si nil => ignora body.
// Retorna *HTTPError si status no es 2xx.
func (c *Client) DoJSON(
	ctx context.Context,
	method string,
	pathOrURL string,
	query url.Values,
	in any,
	out any,
) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("httpclient: marshal json: %w", err)
		}
		body = bytes.NewReader(b)
	}

	contentType := ""
	if in != nil {
		contentType = "application/json"
	}
	return c.do(ctx, method, pathOrURL, query, body, contentType, out)
}

// FilePart es un archivo a enviar en un form multipart.
type FilePart struct {
	Field    string
	Filename string
	Content  io.Reader
}

// DoMultipart envía campos + archivos como multipart/form-data.
func (c *Client) DoMultipart(
	ctx context.Context,
	method string,
	pathOrURL string,
	fields map[string]string,
	files []FilePart,
	out any,
) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for k, v := range fields {
		if strings.TrimSpace(k) == "" {
			continue
		}
		if err := mw.WriteField(k, v); err != nil {
			return fmt.Errorf("httpclient: write field %s: %w", k, err)
		}
	}
	for _, f := range files {
		if f.Content == nil {
			continue
		}
		fw, err := mw.CreateFormFile(f.Field, f.Filename)
		if err != nil {
			return fmt.Errorf("httpclient: create form file: %w", err)
		}
		if _, err := io.Copy(fw, f.Content); err != nil {
			return fmt.Errorf("httpclient: copy form file: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("httpclient: close multipart: %w", err)
	}

	return c.do(ctx, method, pathOrURL, nil, &buf, mw.FormDataContentType(), out)
}

func (c *Client) do(
	ctx context.Context,
	method string,
	pathOrURL string,
	query url.Values,
	body io.Reader,
	contentType string,
	out any,
) error {
	if c == nil || c.HTTP == nil {
		return errors.New("httpclient: nil client")
	}

	fullURL, err := c.resolveURL(pathOrURL)
	if err != nil {
		return err
	}
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return fmt.Errorf("httpclient: new request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("httpclient: do request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := readAtMost(resp.Body, MaxBodyBytes)
	if err != nil {
		return fmt.Errorf("httpclient: read body (status=%d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newHTTPError(resp.StatusCode, raw)
	}

	if out == nil || len(raw) == 0 {
		return nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("httpclient: unmarshal json: %w", err)
	}

	return nil
}

func newHTTPError(status int, raw []byte) *HTTPError {
	he := &HTTPError{
		StatusCode: status,
		Body:       strings.TrimSpace(string(raw)),
	}

	// El backend responde {"message": "...", "errors": {...}}; "errors" a veces es lista.
	var env struct {
		Message string          `json:"message"`
		Errors  json.RawMessage `json:"errors"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return he
	}
	he.Message = strings.TrimSpace(env.Message)

	if len(env.Errors) > 0 {
		var byField map[string]string
		if err := json.Unmarshal(env.Errors, &byField); err == nil && len(byField) > 0 {
			he.FieldErrors = byField
		} else {
			var list []struct {
				Field   string `json:"field"`
				Path    string `json:"path"`
				Message string `json:"message"`
				Msg     string `json:"msg"`
			}
			if err := json.Unmarshal(env.Errors, &list); err == nil {
				fe := map[string]string{}
				for _, it := range list {
					name := firstNonEmpty(it.Field, it.Path)
					msg := firstNonEmpty(it.Message, it.Msg)
					if name == "" || msg == "" {
						continue
					}
					fe[name] = msg
				}
				if len(fe) > 0 {
					he.FieldErrors = fe
				}
			}
		}
	}
	return he
}

func (c *Client) resolveURL(pathOrURL string) (string, error) {
	pathOrURL = strings.TrimSpace(pathOrURL)
	if pathOrURL == "" {
		return "", errors.New("httpclient: empty url")
	}

	// Si ya es URL absoluta, úsala tal cual.
	if strings.HasPrefix(pathOrURL, "http://") || strings.HasPrefix(pathOrURL, "https://") {
		return pathOrURL, nil
	}

	// Si no es absoluta, requiere BaseURL.
	if strings.TrimSpace(c.BaseURL) == "" {
		return "", errors.New("httpclient: relative path requires BaseURL")
	}

	if !strings.HasPrefix(pathOrURL, "/") {
		pathOrURL = "/" + pathOrURL
	}
	return c.BaseURL + pathOrURL, nil
}

// readAtMost lee hasta max bytes; un body más largo es ErrBodyTooLarge, nunca se trunca.
func readAtMost(r io.Reader, max int64) ([]byte, error) {
	if max <= 0 {
		max = MaxBodyBytes
	}
	raw, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return nil, err
	}
	if int64(len(raw)) > max {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrBodyTooLarge, max)
	}
	return raw, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
