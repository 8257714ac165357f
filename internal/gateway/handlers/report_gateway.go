package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"docisn-pharmacy/internal/database/models"
	"docisn-pharmacy/internal/services/reports"
)

type ReportService interface {
	FinancialSummary(ctx context.Context, start, end time.Time) (reports.FinancialSummary, error)
	SalesByChannel(ctx context.Context, start, end time.Time, channel models.OrderChannel) (reports.ChannelSales, error)
	SalesGraph(ctx context.Context, start, end time.Time, groupBy reports.GroupBy, amount reports.AmountField) ([]reports.SalesBucket, error)
	OrderSummary(ctx context.Context, start, end time.Time) (reports.OrderSummary, error)
	OrderSamples(ctx context.Context) (reports.OrderSamples, error)
	TopCustomers(ctx context.Context) ([]reports.TopCustomer, error)
	TopCustomersDetailed(ctx context.Context, start, end time.Time) ([]reports.TopCustomerDetail, error)
	CashFlow(ctx context.Context, start, end time.Time) ([]reports.CashFlow, error)
}

type ReportHTTPHandler struct {
	service ReportService
	timeout time.Duration
}

func NewReportHTTPHandler(service ReportService, timeout time.Duration) *ReportHTTPHandler {
	return &ReportHTTPHandler{service: service, timeout: timeout}
}

func (h *ReportHTTPHandler) ctx(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), h.timeout)
}

func (h *ReportHTTPHandler) mapError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, reports.ErrInvalidGroupBy),
		errors.Is(err, reports.ErrInvalidAmountField),
		errors.Is(err, reports.ErrInvalidChannel):
		fail(c, http.StatusBadRequest, err.Error())
	default:
		fail(c, http.StatusInternalServerError, err.Error())
	}
}

func (h *ReportHTTPHandler) FinancialSummary(c *gin.Context) {
	start, end, ok := parseDateRange(c)
	if !ok {
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	summary, err := h.service.FinancialSummary(ctx, start, end)
	if err != nil {
		h.mapError(c, err)
		return
	}
	success(c, http.StatusOK, summary)
}

func (h *ReportHTTPHandler) SalesDetails(c *gin.Context) {
	start, end, ok := parseDateRange(c)
	if !ok {
		return
	}
	channel := c.Query("orderFrom")
	if channel == "" {
		fail(c, http.StatusBadRequest, "orderFrom is required")
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	details, err := h.service.SalesByChannel(ctx, start, end, models.OrderChannel(channel))
	if err != nil {
		h.mapError(c, err)
		return
	}
	success(c, http.StatusOK, details)
}

func (h *ReportHTTPHandler) SalesGraph(c *gin.Context) {
	start, end, ok := parseDateRange(c)
	if !ok {
		return
	}
	groupBy, err := reports.ParseGroupBy(c.Query("groupBy"))
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	amount, err := reports.ParseAmountField(c.Query("amountField"))
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	buckets, err := h.service.SalesGraph(ctx, start, end, groupBy, amount)
	if err != nil {
		h.mapError(c, err)
		return
	}
	success(c, http.StatusOK, buckets)
}

func (h *ReportHTTPHandler) OrderSummary(c *gin.Context) {
	start, end, ok := parseDateRange(c)
	if !ok {
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	summary, err := h.service.OrderSummary(ctx, start, end)
	if err != nil {
		h.mapError(c, err)
		return
	}
	success(c, http.StatusOK, summary)
}

func (h *ReportHTTPHandler) OrderSamples(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	samples, err := h.service.OrderSamples(ctx)
	if err != nil {
		h.mapError(c, err)
		return
	}
	success(c, http.StatusOK, samples)
}

func (h *ReportHTTPHandler) TopCustomers(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	customers, err := h.service.TopCustomers(ctx)
	if err != nil {
		h.mapError(c, err)
		return
	}
	success(c, http.StatusOK, customers)
}

func (h *ReportHTTPHandler) TopCustomersDetailed(c *gin.Context) {
	start, end, ok := parseDateRange(c)
	if !ok {
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	customers, err := h.service.TopCustomersDetailed(ctx, start, end)
	if err != nil {
		h.mapError(c, err)
		return
	}
	success(c, http.StatusOK, customers)
}

func (h *ReportHTTPHandler) CashFlow(c *gin.Context) {
	start, end, ok := parseDateRange(c)
	if !ok {
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	flows, err := h.service.CashFlow(ctx, start, end)
	if err != nil {
		h.mapError(c, err)
		return
	}
	success(c, http.StatusOK, flows)
}
