package handlers

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/jordanlanch/landing/pkg/api/errors"
	"github.com/jordanlanch/landing/pkg/export"
	"github.com/jordanlanch/landing/pkg/models"
	"github.com/jordanlanch/landing/pkg/pricing"
	"github.com/labstack/echo/v4"
)

// SheetRecorder counts exported price sheets. *metrics.Metrics satisfies it.
type SheetRecorder interface {
	RecordSheetExported(format string)
}

// PricingHandler handles pricing endpoints
type PricingHandler struct {
	service   *pricing.Service
	recorder  SheetRecorder
	validator *validator.Validate
}

// NewPricingHandler creates a new pricing handler. recorder may be nil.
func NewPricingHandler(service *pricing.Service, recorder SheetRecorder) *PricingHandler {
	return &PricingHandler{
		service:   service,
		recorder:  recorder,
		validator: validator.New(),
	}
}

// ListPlans returns the plan cards
// @Summary List plans
// @Tags Pricing
// @Produce json
// @Param include_free query bool false "Include the free comparison plan"
// @Success 200 {object} models.PlansResponse
// @Router /plans [get]
func (h *PricingHandler) ListPlans(c echo.Context) error {
	engine := h.service.Engine()
	plans := []pricing.Plan(engine.Catalog())

	if raw := c.QueryParam("include_free"); raw != "" {
		includeFree, err := strconv.ParseBool(raw)
		if err != nil {
			return errors.ValidationError(c, err)
		}
		if includeFree {
			plans = append([]pricing.Plan{pricing.FreePlan()}, plans...)
		}
	}

	return c.JSON(http.StatusOK, models.PlansResponse{
		Plans:                 plans,
		MaxTeamCount:          engine.MaxTeamCount(),
		YearlyDiscountPercent: pricing.YearlyDiscountPercent,
	})
}

// Quote prices a team size and billing cycle. GET reads the query string,
// POST a JSON body.
// @Summary Quote a team size
// @Tags Pricing
// @Accept json
// @Produce json
// @Param request body models.QuoteRequest true "Team size and billing cycle"
// @Success 200 {object} models.QuoteResponse
// @Failure 400 {object} models.ErrorResponse "Invalid request"
// @Router /pricing/quote [post]
func (h *PricingHandler) Quote(c echo.Context) error {
	var req models.QuoteRequest
	if err := c.Bind(&req); err != nil {
		return errors.ValidationError(c, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return errors.ValidationError(c, err)
	}

	cycle, err := pricing.ParseBillingCycle(req.BillingCycle)
	if err != nil {
		return errors.FromDomain(c, err)
	}

	quote, err := h.service.Quote(c.Request().Context(), pricing.Query{
		TeamCount:    req.TeamCount,
		BillingCycle: cycle,
	})
	if err != nil {
		return errors.FromDomain(c, err)
	}

	return c.JSON(http.StatusOK, models.QuoteResponse{
		Quote:   *quote,
		Display: display(quote.Result),
	})
}

func display(res pricing.Result) models.QuoteDisplay {
	if res.ContactSales {
		return models.QuoteDisplay{Total: "Contact sales", PerUser: "Contact sales"}
	}

	suffix := pricing.CycleSuffix(res.BillingCycle)
	d := models.QuoteDisplay{
		Total: pricing.FormatAmount(res.TotalPrice) + suffix,
		// PricePerUser is a per-month figure for both cycles.
		PerUser: pricing.FormatAmount(res.PricePerUser) + "/user/mo",
	}
	if res.BillingCycle == pricing.Yearly {
		d.MonthlyEquivalent = pricing.FormatAmount(res.MonthlyEquivalent) + "/mo"
		d.YearlySavings = pricing.FormatAmount(res.YearlySavings)
	}
	return d
}

// Sheet downloads the full price sheet
// @Summary Download price sheet
// @Tags Pricing
// @Produce text/csv
// @Param format query string false "csv or xlsx"
// @Success 200 {file} file
// @Router /pricing/sheet [get]
func (h *PricingHandler) Sheet(c echo.Context) error {
	format, err := export.ParseFormat(c.QueryParam("format"))
	if err != nil {
		return errors.FromDomain(c, err)
	}

	rows, err := export.BuildSheet(h.service.Engine())
	if err != nil {
		return errors.InternalError(c, err)
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, format, rows); err != nil {
		return errors.InternalError(c, err)
	}

	if h.recorder != nil {
		h.recorder.RecordSheetExported(string(format))
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+format.Filename()+`"`)
	return c.Blob(http.StatusOK, format.ContentType(), buf.Bytes())
}
