package gradebook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	FormValueKeyUsername = "username"
	FormValueKeyPassword = "password"
)

const (
	enrollmentsPath = "/inscriptions"
	gradesPath      = "/notes"
	userAgent       = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

var (
	ErrAuthorizationFailed = errors.New("authorization in the grade service failed")
	ErrLoginFormNotFound   = errors.New("login form not found on the login page")
)

// Enrollment is one registration of the student to a program for a term.
type Enrollment struct {
	Area       string `json:"area"`
	TermDesc   string `json:"term_desc"`
	SessionNum int    `json:"session_num"`
	TermCode   string `json:"term_code"`
}

// Record is a raw grade record. Numbers are kept as json.Number.
type Record map[string]any

type Client interface {
	Authorization(ctx context.Context, username, password string) error
	Enrollments(ctx context.Context) ([]Enrollment, error)
	Grades(ctx context.Context, enrollment Enrollment) ([]Record, error)
	Clear()
}

type client struct {
	httpClient *http.Client
	loginURL   string
	apiURL     string
}

func NewClient(loginURL, apiURL string, timeout time.Duration) Client {
	jar, _ := cookiejar.New(nil)
	return &client{
		httpClient: &http.Client{Jar: jar, Timeout: timeout},
		loginURL:   loginURL,
		apiURL:     strings.TrimRight(apiURL, "/"),
	}
}

// Authorization logs in through the single sign-on form of the login page.
// The hidden inputs of the form are posted back along with the credentials.
func (c *client) Authorization(ctx context.Context, username, password string) error {
	loginPage, err := c.document(ctx, http.MethodGet, c.loginURL, nil)
	if err != nil {
		return fmt.Errorf("c.document (login page): %w", err)
	}

	form := loginForm(loginPage)
	if form == nil {
		return ErrLoginFormNotFound
	}

	data := url.Values{}
	form.Find("input[type=hidden]").Each(func(_ int, input *goquery.Selection) {
		if name, ok := input.Attr("name"); ok {
			data.Set(name, input.AttrOr("value", ""))
		}
	})
	data.Set(FormValueKeyUsername, username)
	data.Set(FormValueKeyPassword, password)

	action, err := formAction(loginPage, form)
	if err != nil {
		return fmt.Errorf("formAction: %w", err)
	}

	request, err := c.newRequest(ctx, http.MethodPost, action, strings.NewReader(data.Encode()))
	if err != nil {
		return fmt.Errorf("c.newRequest: %w", err)
	}
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	response, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("httpClient.Do: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode == http.StatusUnauthorized || response.StatusCode == http.StatusForbidden {
		return ErrAuthorizationFailed
	}
	if response.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("unexpected status code %d", response.StatusCode)
	}

	landing, err := goquery.NewDocumentFromReader(response.Body)
	if err != nil {
		return fmt.Errorf("goquery.NewDocumentFromReader: %w", err)
	}

	if loginForm(landing) != nil || landing.Find(".errors").Length() > 0 {
		return ErrAuthorizationFailed
	}

	return nil
}

func (c *client) Enrollments(ctx context.Context) ([]Enrollment, error) {
	var enrollments []Enrollment
	if err := c.getJSON(ctx, c.apiURL+enrollmentsPath, &enrollments); err != nil {
		return nil, fmt.Errorf("c.getJSON (enrollments): %w", err)
	}

	return enrollments, nil
}

func (c *client) Grades(ctx context.Context, enrollment Enrollment) ([]Record, error) {
	query := url.Values{
		"area":        {enrollment.Area},
		"term_code":   {enrollment.TermCode},
		"session_num": {strconv.Itoa(enrollment.SessionNum)},
	}

	var records []Record
	if err := c.getJSON(ctx, c.apiURL+gradesPath+"?"+query.Encode(), &records); err != nil {
		return nil, fmt.Errorf("c.getJSON (grades): %w", err)
	}

	return records, nil
}

// Clear drops the session cookies, it must be called before logging in as another user.
func (c *client) Clear() {
	jar, _ := cookiejar.New(nil)
	c.httpClient.Jar = jar
}

func (c *client) getJSON(ctx context.Context, rawURL string, target any) error {
	request, err := c.newRequest(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("c.newRequest: %w", err)
	}
	request.Header.Set("Accept", "application/json")

	response, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("httpClient.Do: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode == http.StatusUnauthorized || response.StatusCode == http.StatusForbidden {
		return ErrAuthorizationFailed
	}
	if response.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code %d", response.StatusCode)
	}

	decoder := json.NewDecoder(response.Body)
	decoder.UseNumber()
	if err = decoder.Decode(target); err != nil {
		return fmt.Errorf("decoder.Decode: %w", err)
	}

	return nil
}

func (c *client) document(ctx context.Context, method, rawURL string, body io.Reader) (*goquery.Document, error) {
	request, err := c.newRequest(ctx, method, rawURL, body)
	if err != nil {
		return nil, fmt.Errorf("c.newRequest: %w", err)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("httpClient.Do: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d", response.StatusCode)
	}

	document, err := goquery.NewDocumentFromResponse(response)
	if err != nil {
		return nil, fmt.Errorf("goquery.NewDocumentFromResponse: %w", err)
	}

	return document, nil
}

func (c *client) newRequest(ctx context.Context, method, rawURL string, body io.Reader) (*http.Request, error) {
	request, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, fmt.Errorf("http.NewRequestWithContext: %w", err)
	}

	request.Header.Set("User-Agent", userAgent)
	request.Header.Set("Accept-Language", "fr,en;q=0.9")

	return request, nil
}

// loginForm returns the first form asking for a password, or nil.
func loginForm(document *goquery.Document) *goquery.Selection {
	form := document.Find("form").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.Find("input[type=password]").Length() > 0
	}).First()
	if form.Length() == 0 {
		return nil
	}

	return form
}

func formAction(document *goquery.Document, form *goquery.Selection) (string, error) {
	base := document.Url
	action := strings.TrimSpace(form.AttrOr("action", ""))
	if action == "" {
		return base.String(), nil
	}

	resolved, err := base.Parse(action)
	if err != nil {
		return "", fmt.Errorf("url.Parse: %w", err)
	}

	return resolved.String(), nil
}
