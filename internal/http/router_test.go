package http_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/ledger/internal/app"
	"github.com/MrJamesThe3rd/ledger/internal/auth"
	"github.com/MrJamesThe3rd/ledger/internal/database/databasetest"
	ledgerhttp "github.com/MrJamesThe3rd/ledger/internal/http"
)

type client struct {
	t      *testing.T
	server *httptest.Server
	token  string
}

func newClient(t *testing.T, opts ledgerhttp.Options) *client {
	t.Helper()

	a := app.New(databasetest.New(t))
	server := httptest.NewServer(ledgerhttp.New(a, opts))
	t.Cleanup(server.Close)

	return &client{t: t, server: server}
}

func (c *client) do(method, path string, body any) (int, []byte) {
	c.t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(c.t, err)

		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, c.server.URL+path, reader)
	require.NoError(c.t, err)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.server.Client().Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)

	return resp.StatusCode, data
}

func (c *client) decode(data []byte, v any) {
	c.t.Helper()
	require.NoError(c.t, json.Unmarshal(data, v), string(data))
}

type recordJSON struct {
	ID              int64  `json:"id"`
	Type            string `json:"type"`
	Amount          string `json:"amount"`
	Date            string `json:"date"`
	PaymentMethodID int64  `json:"payment_method_id"`
	CategoryID      *int64 `json:"category_id"`
	Note            string `json:"note"`
}

func TestRecords(t *testing.T) {
	c := newClient(t, ledgerhttp.Options{})

	code, body := c.do(http.MethodPost, "/api/v1/records", map[string]string{
		"type": "expense", "amount": "32.50", "date": "2024-03-02", "category": "food", "note": "noodles",
	})
	require.Equal(t, http.StatusCreated, code, string(body))

	var created recordJSON
	c.decode(body, &created)
	assert.Equal(t, "32.50", created.Amount)
	require.NotNil(t, created.CategoryID)

	code, body = c.do(http.MethodPost, "/api/v1/records", map[string]string{
		"type": "expense", "amount": "-1", "date": "2024-03-02",
	})
	assert.Equal(t, http.StatusBadRequest, code, string(body))

	code, _ = c.do(http.MethodPost, "/api/v1/records", map[string]string{
		"type": "transfer", "amount": "1", "date": "2024-03-02",
	})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = c.do(http.MethodPatch, fmt.Sprintf("/api/v1/records/%d", created.ID), map[string]any{
		"amount": "40", "clear_category": true,
	})
	assert.Equal(t, http.StatusNoContent, code)

	code, body = c.do(http.MethodGet, fmt.Sprintf("/api/v1/records/%d", created.ID), nil)
	require.Equal(t, http.StatusOK, code)

	var updated recordJSON
	c.decode(body, &updated)
	assert.Equal(t, "40.00", updated.Amount)
	assert.Nil(t, updated.CategoryID)
	assert.Equal(t, "noodles", updated.Note)

	code, body = c.do(http.MethodGet, "/api/v1/records?keyword=nood&min_amount=39", nil)
	require.Equal(t, http.StatusOK, code)

	var found []recordJSON
	c.decode(body, &found)
	assert.Len(t, found, 1)

	code, _ = c.do(http.MethodGet, "/api/v1/records?start_date=yesterday", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = c.do(http.MethodDelete, fmt.Sprintf("/api/v1/records/%d", created.ID), nil)
	assert.Equal(t, http.StatusNoContent, code)

	code, _ = c.do(http.MethodGet, fmt.Sprintf("/api/v1/records/%d", created.ID), nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = c.do(http.MethodGet, "/api/v1/records/abc", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestBudgetsAndStats(t *testing.T) {
	c := newClient(t, ledgerhttp.Options{})

	code, _ := c.do(http.MethodPut, "/api/v1/budgets/2024-03/categories", map[string]string{
		"category": "food", "amount": "100",
	})
	assert.Equal(t, http.StatusConflict, code)

	code, body := c.do(http.MethodPut, "/api/v1/budgets/2024-03", map[string]any{"total": "100", "threshold": 2})
	require.Equal(t, http.StatusOK, code, string(body))
	assert.Contains(t, string(body), `"threshold":1`)

	code, _ = c.do(http.MethodPut, "/api/v1/budgets/2024-03/categories", map[string]string{
		"category": "food", "amount": "50",
	})
	assert.Equal(t, http.StatusOK, code)

	for _, r := range []map[string]string{
		{"type": "expense", "amount": "100", "date": "2024-03-05", "category": "food"},
		{"type": "income", "amount": "20", "date": "2024-03-06"},
		{"type": "expense", "amount": "7", "date": "2024-04-01", "category": "food"},
	} {
		code, body := c.do(http.MethodPost, "/api/v1/records", r)
		require.Equal(t, http.StatusCreated, code, string(body))
	}

	code, body = c.do(http.MethodGet, "/api/v1/budgets/2024-03/progress", nil)
	require.Equal(t, http.StatusOK, code)

	var progress struct {
		Spent      string  `json:"spent"`
		UsageRatio float64 `json:"usage_ratio"`
		Warning    bool    `json:"warning"`
		Categories []struct {
			Name  string `json:"name"`
			Spent string `json:"spent"`
		} `json:"categories"`
	}
	c.decode(body, &progress)
	assert.Equal(t, "100.00", progress.Spent)
	assert.InDelta(t, 1.0, progress.UsageRatio, 1e-9)
	assert.True(t, progress.Warning)
	require.Len(t, progress.Categories, 1)
	assert.Equal(t, "food", progress.Categories[0].Name)

	code, _ = c.do(http.MethodGet, "/api/v1/budgets/March/progress", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = c.do(http.MethodGet, "/api/v1/stats?dimension=category&start=2024-03-01&end=2024-03-31", nil)
	require.Equal(t, http.StatusOK, code, string(body))

	var st struct {
		Items []struct {
			Label       string `json:"label"`
			AmountCents int64  `json:"amount_cents"`
		} `json:"items"`
		TotalIncome  string `json:"total_income"`
		TotalExpense string `json:"total_expense"`
	}
	c.decode(body, &st)
	require.Len(t, st.Items, 2)
	assert.Equal(t, "food", st.Items[0].Label)
	assert.Equal(t, int64(10000), st.Items[0].AmountCents)
	assert.Equal(t, int64(-2000), st.Items[1].AmountCents)
	assert.Equal(t, "20.00", st.TotalIncome)
	assert.Equal(t, "100.00", st.TotalExpense)

	code, _ = c.do(http.MethodGet, "/api/v1/stats?dimension=weekday&start=2024-03-01&end=2024-03-31", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestPaymentMethodInUse(t *testing.T) {
	c := newClient(t, ledgerhttp.Options{})

	code, body := c.do(http.MethodPost, "/api/v1/records", map[string]string{
		"type": "expense", "amount": "1", "date": "2024-03-02", "payment_method": "Visa",
	})
	require.Equal(t, http.StatusCreated, code, string(body))

	var created recordJSON
	c.decode(body, &created)

	code, _ = c.do(http.MethodDelete, fmt.Sprintf("/api/v1/payment-methods/%d", created.PaymentMethodID), nil)
	assert.Equal(t, http.StatusConflict, code)

	code, body = c.do(http.MethodGet, "/api/v1/payment-methods", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(body), `"Visa"`)
}

func TestImportAndExport(t *testing.T) {
	c := newClient(t, ledgerhttp.Options{})

	code, _ := c.do(http.MethodPost, "/api/v1/rules", map[string]string{"pattern": "starbucks", "category": "coffee"})
	require.Equal(t, http.StatusCreated, code)

	csvBody := "Date,Type,Amount,Note,Payment Method,Category\n" +
		"2024-03-01,expense,12.00,Starbucks latte,Alipay,\n" +
		"2024-03-02,income,100.00,refund,Cash,misc\n"

	var buf bytes.Buffer

	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "bill.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte(csvBody))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := c.server.Client().Post(c.server.URL+"/api/v1/import", mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var imported struct {
		Format    string `json:"format"`
		Imported  int    `json:"imported"`
		Suggested int    `json:"suggested"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&imported))
	assert.Equal(t, "ledger", imported.Format)
	assert.Equal(t, 2, imported.Imported)
	assert.Equal(t, 1, imported.Suggested)

	code, body := c.do(http.MethodGet, "/api/v1/export?format=csv&start_date=2024-03-01&end_date=2024-03-31", nil)
	require.Equal(t, http.StatusOK, code)

	out := strings.TrimPrefix(string(body), "\ufeff")
	assert.Contains(t, out, "2024-03-01,expense,12.00,Alipay,coffee,Starbucks latte")

	code, body = c.do(http.MethodGet, "/api/v1/export/summary", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(body), `"count":2`)

	code, _ = c.do(http.MethodGet, "/api/v1/export?format=pdf", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestAuthEnabled(t *testing.T) {
	c := newClient(t, ledgerhttp.Options{AuthSecret: "s3cret"})

	code, _ := c.do(http.MethodGet, "/api/v1/categories", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = c.do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusNoContent, code)

	token, _, err := auth.Issue("s3cret", time.Hour)
	require.NoError(t, err)

	c.token = token

	code, _ = c.do(http.MethodGet, "/api/v1/categories", nil)
	assert.Equal(t, http.StatusOK, code)
}
