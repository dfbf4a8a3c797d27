package handlers

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"testing"

	"github.com/jordanlanch/landing/pkg/models"
	"github.com/jordanlanch/landing/pkg/pricing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type sheetCounter struct {
	formats []string
}

func (s *sheetCounter) RecordSheetExported(format string) {
	s.formats = append(s.formats, format)
}

func TestPricingHandler_ListPlans(t *testing.T) {
	h := newTestPricingHandler(nil)

	c, rec := newContext(http.MethodGet, "/api/v1/plans", "")
	require.NoError(t, h.ListPlans(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	resp := decode[models.PlansResponse](t, rec)
	require.Len(t, resp.Plans, 3)
	assert.Equal(t, "base", resp.Plans[0].ID)
	assert.Equal(t, pricing.Unbounded, resp.Plans[2].MaxTeamMembers)
	assert.Equal(t, pricing.DefaultMaxTeamCount, resp.MaxTeamCount)
	assert.Equal(t, 15, resp.YearlyDiscountPercent)
}

func TestPricingHandler_ListPlansWithFree(t *testing.T) {
	h := newTestPricingHandler(nil)

	c, rec := newContext(http.MethodGet, "/api/v1/plans?include_free=true", "")
	require.NoError(t, h.ListPlans(c))

	resp := decode[models.PlansResponse](t, rec)
	require.Len(t, resp.Plans, 4)
	assert.Equal(t, "free", resp.Plans[0].ID)

	c, rec = newContext(http.MethodGet, "/api/v1/plans?include_free=maybe", "")
	require.NoError(t, h.ListPlans(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPricingHandler_QuoteGET(t *testing.T) {
	h := newTestPricingHandler(nil)

	c, rec := newContext(http.MethodGet, "/api/v1/pricing/quote?team_count=3&billing_cycle=monthly", "")
	require.NoError(t, h.Quote(c))
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[models.QuoteResponse](t, rec)
	assert.Equal(t, "base", resp.Result.Plan.ID)
	assert.Equal(t, 67, resp.Result.TotalPrice)
	assert.Equal(t, 22, resp.Result.PricePerUser)
	assert.Len(t, resp.Plans, 3)
	assert.Equal(t, "$67/mo", resp.Display.Total)
	assert.Equal(t, "$22/user/mo", resp.Display.PerUser)
	assert.Empty(t, resp.Display.YearlySavings)
}

func TestPricingHandler_QuotePOSTYearly(t *testing.T) {
	h := newTestPricingHandler(nil)

	c, rec := newContext(http.MethodPost, "/api/v1/pricing/quote", `{"team_count":5,"billing_cycle":"yearly"}`)
	require.NoError(t, h.Quote(c))
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[models.QuoteResponse](t, rec)
	assert.Equal(t, 1071, resp.Result.TotalPrice)
	assert.Equal(t, 18, resp.Result.PricePerUser)
	assert.Equal(t, "$1,071/yr", resp.Display.Total)
	assert.Equal(t, "$18/user/mo", resp.Display.PerUser)
	assert.Equal(t, "$89/mo", resp.Display.MonthlyEquivalent)
	assert.Equal(t, "$189", resp.Display.YearlySavings)
}

func TestPricingHandler_QuoteContactSales(t *testing.T) {
	h := newTestPricingHandler(nil)

	c, rec := newContext(http.MethodPost, "/api/v1/pricing/quote", `{"team_count":75,"billing_cycle":"monthly"}`)
	require.NoError(t, h.Quote(c))
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[models.QuoteResponse](t, rec)
	assert.True(t, resp.Result.ContactSales)
	assert.Equal(t, "premium", resp.Result.Plan.ID)
	assert.Equal(t, "Contact sales", resp.Display.Total)
}

func TestPricingHandler_QuoteCycleIsCaseInsensitive(t *testing.T) {
	h := newTestPricingHandler(nil)

	requests := []struct{ method, target, body string }{
		{http.MethodGet, "/q?team_count=5&billing_cycle=Yearly", ""},
		{http.MethodGet, "/q?team_count=5&billing_cycle=YEARLY", ""},
		{http.MethodPost, "/q", `{"team_count":5,"billing_cycle":" Yearly "}`},
	}
	for _, r := range requests {
		c, rec := newContext(r.method, r.target, r.body)
		require.NoError(t, h.Quote(c))
		require.Equal(t, http.StatusOK, rec.Code, r.target+r.body)

		resp := decode[models.QuoteResponse](t, rec)
		assert.Equal(t, pricing.Yearly, resp.Result.BillingCycle)
		assert.Equal(t, 1071, resp.Result.TotalPrice)
	}
}

func TestPricingHandler_QuoteInvalid(t *testing.T) {
	tests := []struct {
		name   string
		method string
		target string
		body   string
	}{
		{"missing team", http.MethodGet, "/q?billing_cycle=monthly", ""},
		{"zero team", http.MethodGet, "/q?team_count=0&billing_cycle=monthly", ""},
		{"non-numeric team", http.MethodGet, "/q?team_count=abc&billing_cycle=monthly", ""},
		{"bad cycle", http.MethodGet, "/q?team_count=3&billing_cycle=weekly", ""},
		{"missing cycle", http.MethodGet, "/q?team_count=3", ""},
		{"malformed body", http.MethodPost, "/q", `{"team_count":`},
		{"negative team", http.MethodPost, "/q", `{"team_count":-2,"billing_cycle":"yearly"}`},
	}

	h := newTestPricingHandler(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newContext(tt.method, tt.target, tt.body)
			require.NoError(t, h.Quote(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "validation_error", decode[models.ErrorResponse](t, rec).Error)
		})
	}
}

func TestPricingHandler_SheetCSV(t *testing.T) {
	counter := &sheetCounter{}
	h := newTestPricingHandler(counter)

	c, rec := newContext(http.MethodGet, "/api/v1/pricing/sheet", "")
	require.NoError(t, h.Sheet(c))
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "price-sheet.csv")

	records, err := csv.NewReader(bytes.NewReader(rec.Body.Bytes())).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 1+pricing.DefaultMaxTeamCount*2*3)
	assert.Equal(t, []string{"csv"}, counter.formats)
}

func TestPricingHandler_SheetXLSX(t *testing.T) {
	h := newTestPricingHandler(nil)

	c, rec := newContext(http.MethodGet, "/api/v1/pricing/sheet?format=xlsx", "")
	require.NoError(t, h.Sheet(c))
	require.Equal(t, http.StatusOK, rec.Code)

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Prices")
	require.NoError(t, err)
	assert.Equal(t, "Team Size", rows[0][0])
}

func TestPricingHandler_SheetUnknownFormat(t *testing.T) {
	h := newTestPricingHandler(nil)

	c, rec := newContext(http.MethodGet, "/api/v1/pricing/sheet?format=pdf", "")
	require.NoError(t, h.Sheet(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
