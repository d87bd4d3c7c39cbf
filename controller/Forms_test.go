package controller

import (
	"bytes"
	"io"
	"net/http/httptest"
	"testing"

	"formpool-service/utils"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

// Mock configurations
func init() {
	utils.IsTestMode = true
}

func TestConnectWalletValidation(t *testing.T) {
	app := fiber.New()
	app.Post("/connect", ConnectWallet)

	tests := []struct {
		description  string
		payload      map[string]string
		expectedCode int
		expectedBody string
	}{
		{
			description:  "missing wallet",
			payload:      map[string]string{},
			expectedCode: 400,
			expectedBody: "Please provide all required data",
		},
		{
			description:  "malformed wallet",
			payload:      map[string]string{"wallet": "not-a-wallet"},
			expectedCode: 406,
			expectedBody: "Provided wallet address is not valid",
		},
		{
			description:  "wallet with invalid base58 characters",
			payload:      map[string]string{"wallet": "0OIl0OIl0OIl0OIl0OIl0OIl0OIl0OIl0OIl0OIl0OIl"},
			expectedCode: 406,
			expectedBody: "Provided wallet address is not valid",
		},
		{
			description:  "wallet decoding to the wrong length",
			payload:      map[string]string{"wallet": "1111111111111111"},
			expectedCode: 406,
			expectedBody: "Provided wallet address is not valid",
		},
	}

	a := assert.New(t)
	for _, test := range tests {
		reqBody, _ := json.Marshal(test.payload)
		req := httptest.NewRequest("POST", "/connect", bytes.NewReader(reqBody))
		req.Header.Set("Content-Type", "application/json")

		resp, _ := app.Test(req, -1)
		a.Equal(test.expectedCode, resp.StatusCode, test.description)

		body, _ := io.ReadAll(resp.Body)
		a.Contains(string(body), test.expectedBody, test.description)
	}
}

func TestMutatingEndpointsRequireAccessToken(t *testing.T) {
	app := fiber.New()
	app.Post("/form", CreateForm)
	app.Post("/form/:formId/deposit", DepositPrize)
	app.Post("/form/:formId/submit", SubmitForm)
	app.Post("/form/:formId/close", CloseForm)
	app.Post("/form/:formId/distribute", DistributePrizes)
	app.Post("/form/:formId/claim", CheckAndClaimPrize)

	tests := []struct {
		description string
		path        string
	}{
		{"create form", "/form"},
		{"deposit prize", "/form/demo-form/deposit"},
		{"submit form", "/form/demo-form/submit"},
		{"close form", "/form/demo-form/close"},
		{"distribute prizes", "/form/demo-form/distribute"},
		{"claim prize", "/form/demo-form/claim"},
	}

	a := assert.New(t)
	for _, test := range tests {
		req := httptest.NewRequest("POST", test.path, bytes.NewReader([]byte(`{}`)))
		req.Header.Set("Content-Type", "application/json")

		resp, _ := app.Test(req, -1)
		a.Equal(fiber.StatusUnauthorized, resp.StatusCode, test.description)

		body, _ := io.ReadAll(resp.Body)
		a.Contains(string(body), "UNAUTHORIZED", test.description)
	}
}

func TestReadEndpointsRequireAccessToken(t *testing.T) {
	app := fiber.New()
	app.Get("/forms/mine", GetMyForms)
	app.Get("/submissions", GetMySubmissions)
	app.Get("/form/:formId/participants/export", ExportParticipants)

	a := assert.New(t)
	for _, path := range []string{"/forms/mine", "/submissions", "/form/demo-form/participants/export"} {
		req := httptest.NewRequest("GET", path, nil)
		resp, _ := app.Test(req, -1)
		a.Equal(fiber.StatusUnauthorized, resp.StatusCode, path)
	}
}

func TestServiceStatusCheck(t *testing.T) {
	app := fiber.New()
	app.Get("/service-status", ServiceStatusCheck)

	req := httptest.NewRequest("GET", "/service-status", nil)
	resp, _ := app.Test(req, -1)

	a := assert.New(t)
	a.Equal(200, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	a.Contains(string(body), "This API service is running!")
}
