// Package client is the typed REST client the admin tooling builds on. It
// mirrors the institute API: bearer-token auth, filtered list fetches,
// multipart uploads, and the order/enrollment/payment review workflows.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"institute/core/auth"
	"institute/core/enrollment"
	"institute/core/order"
	"institute/core/payment"
	"institute/core/user"
)

// APIError is a non-2xx answer from the backend, carrying the message the
// server put in its error body.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api responded %d: %s", e.StatusCode, e.Message)
}

type Config struct {
	// BaseURL is the API root, no trailing slash.
	BaseURL string

	// FileBaseURL prefixes the relative file paths records carry.
	FileBaseURL string

	HTTPClient *http.Client
}

type Client struct {
	baseURL     string
	fileBaseURL string
	http        *http.Client
	token       string
}

func New(cfg Config) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}

	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		fileBaseURL: strings.TrimRight(cfg.FileBaseURL, "/"),
		http:        hc,
	}
}

// SetToken installs the bearer token attached to every later request.
// There is no refresh: when the session expires the caller logs in again.
func (c *Client) SetToken(token string) { c.token = token }

// FileURL resolves a relative file path from a record into a fetchable URL.
func (c *Client) FileURL(rel string) string {
	if rel == "" {
		return ""
	}
	return c.fileBaseURL + "/" + strings.TrimLeft(rel, "/")
}

// Login authenticates and keeps the returned token for later requests.
func (c *Client) Login(ctx context.Context, email, password string) (user.User, error) {
	body := user.UserLogin{Email: email, Password: password}

	var sess auth.Session
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, body, &sess); err != nil {
		return user.User{}, err
	}

	c.token = sess.Token
	return sess.User, nil
}

func (c *Client) Logout(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, "/auth/logout", nil, nil, nil); err != nil {
		return err
	}

	c.token = ""
	return nil
}

// FilterOrders fetches the server-side filtered order set; pagination over
// it is the OrderStore's business.
func (c *Client) FilterOrders(ctx context.Context, f order.FilterParams) ([]order.Order, error) {
	q := url.Values{}
	q.Set("student_number", f.StudentNumber)
	q.Set("order_status", f.Status)
	q.Set("course_id", f.CourseID)
	q.Set("course_bucket_id", f.BucketID)

	var ords []order.Order
	if err := c.do(ctx, http.MethodGet, "/student-orders/records/filter/", q, nil, &ords); err != nil {
		return nil, err
	}

	return ords, nil
}

// UpdateOrder posts a partial order update and returns the full updated
// record the server answered with.
func (c *Client) UpdateOrder(ctx context.Context, id string, up order.OrderUp, override bool) (order.Order, error) {
	var q url.Values
	if override {
		q = url.Values{"override": []string{"true"}}
	}

	var ord order.Order
	if err := c.do(ctx, http.MethodPost, "/student-orders/"+id, q, up, &ord); err != nil {
		return order.Order{}, err
	}

	return ord, nil
}

func (c *Client) FilterEnrollments(ctx context.Context, f enrollment.FilterParams) ([]enrollment.Enrollment, error) {
	q := url.Values{}
	q.Set("student_number", f.StudentNumber)
	q.Set("course_id", f.CourseID)
	q.Set("status", f.Status)

	var enrs []enrollment.Enrollment
	if err := c.do(ctx, http.MethodGet, "/enrollments/records/filter/", q, nil, &enrs); err != nil {
		return nil, err
	}

	return enrs, nil
}

func (c *Client) UpdateEnrollmentStatus(ctx context.Context, id, status string) (enrollment.Enrollment, error) {
	body := enrollment.StatusUp{Status: status}

	var enr enrollment.Enrollment
	if err := c.do(ctx, http.MethodPut, "/enrollments/"+id, nil, body, &enr); err != nil {
		return enrollment.Enrollment{}, err
	}

	return enr, nil
}

func (c *Client) FilterPayments(ctx context.Context, f payment.FilterParams) ([]payment.Payment, error) {
	q := url.Values{}
	q.Set("student_number", f.StudentNumber)
	q.Set("course_bucket_id", f.BucketID)
	q.Set("status", f.Status)

	var pays []payment.Payment
	if err := c.do(ctx, http.MethodGet, "/payment_requests/records/filter/", q, nil, &pays); err != nil {
		return nil, err
	}

	return pays, nil
}

func (c *Client) UpdatePaymentStatus(ctx context.Context, id, status string) (payment.Payment, error) {
	body := payment.StatusUp{Status: status}

	var pay payment.Payment
	if err := c.do(ctx, http.MethodPut, "/payment_requests/"+id, nil, body, &pay); err != nil {
		return payment.Payment{}, err
	}

	return pay, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		rd = bytes.NewReader(b)
	}

	r, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		r.Header.Set("Authorization", "Bearer "+c.token)
	}

	w, err := c.http.Do(r)
	if err != nil {
		return fmt.Errorf("calling %s %s: %w", method, path, err)
	}
	defer w.Body.Close()

	if w.StatusCode < 200 || w.StatusCode > 299 {
		return decodeError(w)
	}

	if out == nil || w.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(w.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response body: %w", err)
	}

	return nil
}

func decodeError(w *http.Response) error {
	var er struct {
		Error string `json:"error"`
	}

	msg := http.StatusText(w.StatusCode)
	if err := json.NewDecoder(w.Body).Decode(&er); err == nil && er.Error != "" {
		msg = er.Error
	}

	return &APIError{StatusCode: w.StatusCode, Message: msg}
}
