//go:build pact
// +build pact

package consumer_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	pacttest "github.com/Apurer/go-gin-inventory-api/test/pact"

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	pactlog "github.com/pact-foundation/pact-go/v2/log"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/require"
)

type bookPayload struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Quantity int64  `json:"quantity"`
}

type restockPayload struct {
	Message string      `json:"message"`
	Book    bookPayload `json:"book"`
}

type problemDetail struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

type apiError struct {
	status int
	title  string
	detail string
}

func (e apiError) Error() string {
	msg := e.title
	if msg == "" {
		msg = "api error"
	}
	if e.detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.detail)
	}
	return fmt.Sprintf("%s (status %d)", msg, e.status)
}

func (e apiError) Status() int {
	return e.status
}

func TestStorefrontContract(t *testing.T) {
	t.Helper()
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.ConsumerName,
		Provider: pacttest.ProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	jsonContentType := matchers.Regex("application/json; charset=utf-8", "application\\/json(?:;\\s?charset=utf-8)?")
	bookMatcher := matchers.Map{
		"id":       matchers.Like(pacttest.ExistingBookID),
		"title":    matchers.Like(pacttest.ExampleBookTitle),
		"quantity": matchers.Like(pacttest.ExampleBookQuantity),
	}
	problemMatcher := func(status int, typ, title string) matchers.Map {
		return matchers.Map{
			"type":   matchers.S(typ),
			"title":  matchers.S(title),
			"status": matchers.Like(status),
		}
	}

	pact.AddInteraction().
		Given(pacttest.StateBookExists).
		UponReceiving("a request to fetch an existing book").
		WithRequest("GET", fmt.Sprintf("/api/books/%d", pacttest.ExistingBookID)).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(bookMatcher)
		})

	pact.AddInteraction().
		Given(pacttest.StateBookMissing).
		UponReceiving("a request for a missing book").
		WithRequest("GET", fmt.Sprintf("/api/books/%d", pacttest.MissingBookID)).
		WillRespondWith(http.StatusNotFound, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", matchers.S("application/problem+json"))
			b.JSONBody(problemMatcher(http.StatusNotFound, "/problems/not-found", "Resource Not Found"))
		})

	pact.AddInteraction().
		Given(pacttest.StateBookExists).
		UponReceiving("a staff restock of an existing book").
		WithRequest("POST", fmt.Sprintf("/api/books/%d/restock", pacttest.ExistingBookID), func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.Header("Authorization", matchers.S("Bearer "+pacttest.StaffToken))
			b.JSONBody(matchers.Map{"quantity": matchers.S(pacttest.ExampleRestock)})
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"message": matchers.S("Restocked 10 units of 'Dune'."),
				"book": matchers.Map{
					"id":       matchers.Like(pacttest.ExistingBookID),
					"title":    matchers.Like(pacttest.ExampleBookTitle),
					"quantity": matchers.Like(15),
				},
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateBookExists).
		UponReceiving("a restock attempt by a reader").
		WithRequest("POST", fmt.Sprintf("/api/books/%d/restock", pacttest.ExistingBookID), func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.Header("Authorization", matchers.S("Bearer "+pacttest.ReaderToken))
			b.JSONBody(matchers.Map{"quantity": matchers.S(pacttest.ExampleRestock)})
		}).
		WillRespondWith(http.StatusForbidden, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", matchers.S("application/problem+json"))
			problem := problemMatcher(http.StatusForbidden, "/problems/forbidden", "Forbidden")
			problem["detail"] = matchers.S("Only staff can restock books.")
			b.JSONBody(problem)
		})

	pact.AddInteraction().
		Given(pacttest.StateAccountsBase).
		UponReceiving("a registration for a new reader").
		WithRequest("POST", "/api/register", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(pacttest.ExampleRegistration(pacttest.ReaderUsername))
		}).
		WillRespondWith(http.StatusCreated, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{"message": matchers.S("User registered successfully")})
		})

	pact.AddInteraction().
		Given(pacttest.StateUsernameTaken).
		UponReceiving("a registration reusing a taken username").
		WithRequest("POST", "/api/register", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(pacttest.ExampleRegistration(pacttest.ReaderUsername))
		}).
		WillRespondWith(http.StatusBadRequest, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", matchers.S("application/problem+json"))
			problem := problemMatcher(http.StatusBadRequest, "/problems/conflict", "Conflict")
			problem["detail"] = matchers.S("This username is already taken.")
			b.JSONBody(problem)
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		client := newStorefrontClient(config)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		book, err := client.GetBook(ctx, pacttest.ExistingBookID)
		if err != nil {
			return fmt.Errorf("get book: %w", err)
		}
		if book.ID != pacttest.ExistingBookID {
			return fmt.Errorf("expected book id %d, got %+v", pacttest.ExistingBookID, book)
		}

		if _, err := client.GetBook(ctx, pacttest.MissingBookID); !hasStatus(err, http.StatusNotFound) {
			return fmt.Errorf("expected 404 for book %d, got %v", pacttest.MissingBookID, err)
		}

		restocked, err := client.Restock(ctx, pacttest.StaffToken, pacttest.ExistingBookID, pacttest.ExampleRestock)
		if err != nil {
			return fmt.Errorf("restock: %w", err)
		}
		if restocked.Book.Quantity <= book.Quantity {
			return fmt.Errorf("expected quantity to grow, got %+v", restocked)
		}

		if _, err := client.Restock(ctx, pacttest.ReaderToken, pacttest.ExistingBookID, pacttest.ExampleRestock); !hasStatus(err, http.StatusForbidden) {
			return fmt.Errorf("expected 403 for reader restock, got %v", err)
		}

		if err := client.Register(ctx, pacttest.ReaderUsername); err != nil {
			return fmt.Errorf("register: %w", err)
		}
		if err := client.Register(ctx, pacttest.ReaderUsername); !hasStatus(err, http.StatusBadRequest) {
			return fmt.Errorf("expected 400 for duplicate username, got %v", err)
		}
		return nil
	})
	require.NoError(t, err)
}

func hasStatus(err error, status int) bool {
	apiErr, ok := err.(apiError)
	return ok && apiErr.Status() == status
}

type storefrontClient struct {
	baseURL    string
	httpClient *http.Client
}

func newStorefrontClient(config pactconsumer.MockServerConfig) *storefrontClient {
	host := config.Host
	if host == "" {
		host = "localhost"
	}
	transport := &http.Transport{TLSClientConfig: config.TLSConfig}
	client := &http.Client{Transport: transport, Timeout: 10 * time.Second}
	return &storefrontClient{
		baseURL:    fmt.Sprintf("http://%s:%d", host, config.Port),
		httpClient: client,
	}
}

func (c *storefrontClient) GetBook(ctx context.Context, id int64) (*bookPayload, error) {
	var book bookPayload
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/books/%d", id), "", nil, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

func (c *storefrontClient) Restock(ctx context.Context, token string, id int64, quantity string) (*restockPayload, error) {
	var result restockPayload
	body := map[string]string{"quantity": quantity}
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/books/%d/restock", id), token, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *storefrontClient) Register(ctx context.Context, username string) error {
	var result map[string]string
	return c.do(ctx, http.MethodPost, "/api/register", "", pacttest.ExampleRegistration(username), &result)
}

func (c *storefrontClient) do(ctx context.Context, method, path, token string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		return decodeAPIError(res)
	}
	return json.NewDecoder(res.Body).Decode(out)
}

func decodeAPIError(res *http.Response) error {
	var problem problemDetail
	_ = json.NewDecoder(res.Body).Decode(&problem)
	status := problem.Status
	if status == 0 {
		status = res.StatusCode
	}
	return apiError{
		status: status,
		title:  problem.Title,
		detail: problem.Detail,
	}
}
