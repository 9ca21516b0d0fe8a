// Package client talks to the manuscript submission API over HTTP.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/penerbit-id/naskah/internal/ui/model"
	"github.com/penerbit-id/naskah/internal/ui/wizard"
)

// DefaultTimeout bounds a whole request when no HTTP client is supplied.
const DefaultTimeout = 30 * time.Second

// Client submits wizard forms to a naskah server.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// New returns a Client for baseURL with the default timeout.
func New(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
	}
}

var _ wizard.Submitter = (*Client)(nil)

// StatusError reports an unexpected HTTP status.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server returned %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("server returned %d", e.Code)
}

// Publishers fetches the publisher list shown on the first step.
func (c *Client) Publishers(ctx context.Context) ([]wizard.Publisher, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url("/api/penerbit"), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch publishers: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}
	var payload struct {
		Publishers []wizard.Publisher `json:"publishers"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode publishers: %w", err)
	}
	return payload.Publishers, nil
}

// Submit posts form as multipart/form-data. A 422 answer comes back as
// *wizard.RejectedError.
func (c *Client) Submit(ctx context.Context, form model.FormState) (wizard.Receipt, error) {
	if form.Manuscript == nil {
		return wizard.Receipt{}, model.ErrNoContent
	}
	file, err := form.Manuscript.Open()
	if err != nil {
		return wizard.Receipt{}, fmt.Errorf("open manuscript: %w", err)
	}

	body, writer := io.Pipe()
	mw := multipart.NewWriter(writer)
	go func() {
		defer file.Close()
		writer.CloseWithError(writeForm(mw, form, file))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url("/api/naskah"), body)
	if err != nil {
		body.Close()
		return wizard.Receipt{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return wizard.Receipt{}, fmt.Errorf("submit manuscript: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusCreated, http.StatusOK:
		var receipt wizard.Receipt
		if err := json.NewDecoder(resp.Body).Decode(&receipt); err != nil {
			return wizard.Receipt{}, fmt.Errorf("decode receipt: %w", err)
		}
		return receipt, nil
	case http.StatusUnprocessableEntity:
		rejected := &wizard.RejectedError{}
		if err := json.NewDecoder(resp.Body).Decode(rejected); err != nil {
			return wizard.Receipt{}, fmt.Errorf("decode rejection: %w", err)
		}
		return wizard.Receipt{}, rejected
	default:
		return wizard.Receipt{}, statusError(resp)
	}
}

func writeForm(mw *multipart.Writer, form model.FormState, file io.Reader) error {
	if err := mw.WriteField(string(model.FieldPublisher1), form.Publishers.First()); err != nil {
		return err
	}
	if second := form.Publishers.Second(); second != "" {
		if err := mw.WriteField(string(model.FieldPublisher2), second); err != nil {
			return err
		}
	}
	for _, field := range model.TextFields {
		if err := mw.WriteField(string(field), form.Value(field)); err != nil {
			return err
		}
	}

	contentType := form.Manuscript.ContentType
	if contentType == "" {
		contentType = "application/pdf"
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		model.FieldManuscript, escapeQuotes(form.Manuscript.Filename)))
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, file); err != nil {
		return err
	}
	return mw.Close()
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

func statusError(resp *http.Response) error {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(data, &payload); err != nil {
		payload.Message = strings.TrimSpace(string(data))
	}
	msg := payload.Message
	if msg == "" {
		msg = payload.Error
	}
	return &StatusError{Code: resp.StatusCode, Message: msg}
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c *Client) url(path string) string {
	return strings.TrimRight(c.BaseURL, "/") + path
}

// IsRejected reports whether err is a server-side validation rejection.
func IsRejected(err error) bool {
	var rejected *wizard.RejectedError
	return errors.As(err, &rejected)
}
