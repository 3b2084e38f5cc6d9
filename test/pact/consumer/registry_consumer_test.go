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

	pacttest "github.com/pawledger/registry-api/test/pact"

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	pactlog "github.com/pact-foundation/pact-go/v2/log"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/require"
)

type provisionResult struct {
	RegistrationID     string `json:"registrationId"`
	RegistrationNumber string `json:"registrationNumber"`
	OrderID            string `json:"orderId"`
	OrderNumber        string `json:"orderNumber"`
	CustomerID         string `json:"customerId"`
	CustomerCreated    bool   `json:"customerCreated"`
}

type verifiedRegistration struct {
	RegistrationNumber string `json:"registrationNumber"`
	PetName            string `json:"petName"`
	Status             string `json:"status"`
}

type apiError struct {
	status  int
	message string
}

func (e apiError) Error() string {
	return fmt.Sprintf("%s (status %d)", e.message, e.status)
}

func (e apiError) Status() int {
	return e.status
}

func TestAdminPortalContract(t *testing.T) {
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
	registrationNumberMatcher := matchers.Term(pacttest.ExistingRegistrationNumber, "(ESA|PSD)-[0-9]{6}")
	provisionResultMatcher := matchers.Map{
		"registrationId":     matchers.Like("6d1a2f3e-5b4c-4d7e-8f90-a1b2c3d4e5f6"),
		"registrationNumber": registrationNumberMatcher,
		"orderId":            matchers.Like("7e2b3c4d-6a5f-4e8d-9012-b3c4d5e6f7a8"),
		"orderNumber":        matchers.Term("ORD-000101", "ORD-[0-9]{6}"),
		"customerId":         matchers.Like("8f3c4d5e-7b6a-4f9e-0123-c4d5e6f7a8b9"),
		"customerCreated":    matchers.Like(true),
	}

	pact.AddInteraction().
		Given(pacttest.StateBaseline).
		UponReceiving("an authorized request to provision a registration").
		WithRequest("POST", "/api/admin/registrations", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.Header("Authorization", matchers.S("Bearer "+pacttest.AdminToken))
			b.JSONBody(matchers.Map{
				"email":            matchers.Like("pact.owner@example.com"),
				"fullName":         matchers.Like("Pact Owner"),
				"petName":          matchers.Like("Waffles"),
				"petBreed":         matchers.Like("golden retriever"),
				"petSpecies":       matchers.Like("dog"),
				"registrationType": matchers.Term("esa", "esa|psd"),
				"serviceId":        matchers.Like("svc-pact-1"),
			})
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(provisionResultMatcher)
		})

	pact.AddInteraction().
		Given(pacttest.StateBaseline).
		UponReceiving("an unauthenticated request to provision a registration").
		WithRequest("POST", "/api/admin/registrations", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(matchers.Map{
				"email": matchers.Like("pact.owner@example.com"),
			})
		}).
		WillRespondWith(http.StatusUnauthorized, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{"error": matchers.Like("authorization header is missing")})
		})

	pact.AddInteraction().
		Given(pacttest.StateRegistrationExists).
		UponReceiving("a public verification of an active registration").
		WithRequest("GET", "/api/verify/"+pacttest.ExistingRegistrationNumber).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"registrationNumber": registrationNumberMatcher,
				"petName":            matchers.Like("Waffles"),
				"status":             matchers.Term("active", "active|suspended|expired"),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateRegistrationGone).
		UponReceiving("a public verification of an unknown registration").
		WithRequest("GET", "/api/verify/"+pacttest.MissingRegistrationNumber).
		WillRespondWith(http.StatusNotFound, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", matchers.S("application/problem+json"))
			b.JSONBody(matchers.Map{
				"type":   matchers.S("/problems/not-found"),
				"title":  matchers.S("Resource Not Found"),
				"status": matchers.Like(http.StatusNotFound),
			})
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		client := newRegistryClient(config)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		result, err := client.ProvisionRegistration(ctx, pacttest.AdminToken, pacttest.ExampleProvisionPayload())
		if err != nil {
			return fmt.Errorf("provision registration: %w", err)
		}
		if result == nil || result.RegistrationNumber == "" {
			return fmt.Errorf("expected a registration number in the provision result")
		}

		if _, err := client.ProvisionRegistration(ctx, "", map[string]any{"email": "pact.owner@example.com"}); err == nil {
			return fmt.Errorf("expected 401 without a bearer token")
		} else if apiErr, ok := err.(apiError); ok && apiErr.Status() != http.StatusUnauthorized {
			return fmt.Errorf("expected 401, got %d", apiErr.Status())
		}

		verified, err := client.VerifyRegistration(ctx, pacttest.ExistingRegistrationNumber)
		if err != nil {
			return fmt.Errorf("verify registration: %w", err)
		}
		if verified == nil || verified.Status != "active" {
			return fmt.Errorf("expected an active registration, got %+v", verified)
		}

		if _, err := client.VerifyRegistration(ctx, pacttest.MissingRegistrationNumber); err == nil {
			return fmt.Errorf("expected 404 for %s", pacttest.MissingRegistrationNumber)
		} else if apiErr, ok := err.(apiError); ok && apiErr.Status() != http.StatusNotFound {
			return fmt.Errorf("expected 404, got %d", apiErr.Status())
		}

		return nil
	})
	require.NoError(t, err)
}

type registryClient struct {
	baseURL    string
	httpClient *http.Client
}

func newRegistryClient(config pactconsumer.MockServerConfig) *registryClient {
	host := config.Host
	if host == "" {
		host = "localhost"
	}
	transport := &http.Transport{TLSClientConfig: config.TLSConfig}
	client := &http.Client{Transport: transport, Timeout: 10 * time.Second}
	return &registryClient{
		baseURL:    fmt.Sprintf("http://%s:%d", host, config.Port),
		httpClient: client,
	}
}

func (c *registryClient) ProvisionRegistration(ctx context.Context, token string, payload map[string]any) (*provisionResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/admin/registrations", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		return nil, decodeAPIError(res)
	}

	var result provisionResult
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *registryClient) VerifyRegistration(ctx context.Context, number string) (*verifiedRegistration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/verify/"+number, nil)
	if err != nil {
		return nil, err
	}
	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		return nil, decodeAPIError(res)
	}

	var payload verifiedRegistration
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// decodeAPIError tolerates both error envelopes the API speaks: the flat
// {error} body of the provisioning endpoint and problem+json everywhere else.
func decodeAPIError(res *http.Response) error {
	var body struct {
		Error  string `json:"error"`
		Title  string `json:"title"`
		Detail string `json:"detail"`
		Status int    `json:"status"`
	}
	_ = json.NewDecoder(res.Body).Decode(&body)
	status := body.Status
	if status == 0 {
		status = res.StatusCode
	}
	message := body.Error
	if message == "" {
		message = body.Title
		if body.Detail != "" {
			message = fmt.Sprintf("%s: %s", message, body.Detail)
		}
	}
	if message == "" {
		message = "api error"
	}
	return apiError{status: status, message: message}
}
