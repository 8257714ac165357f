package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"docisn-pharmacy/internal/database/models"
	"docisn-pharmacy/internal/services/reports"
)

type fakeReportService struct {
	summary reports.FinancialSummary
	err     error

	lastStart   time.Time
	lastEnd     time.Time
	lastChannel models.OrderChannel
	lastGroupBy reports.GroupBy
	lastAmount  reports.AmountField
}

func (f *fakeReportService) FinancialSummary(ctx context.Context, start, end time.Time) (reports.FinancialSummary, error) {
	f.lastStart, f.lastEnd = start, end
	return f.summary, f.err
}

func (f *fakeReportService) SalesByChannel(ctx context.Context, start, end time.Time, channel models.OrderChannel) (reports.ChannelSales, error) {
	f.lastChannel = channel
	return reports.ChannelSales{}, f.err
}

func (f *fakeReportService) SalesGraph(ctx context.Context, start, end time.Time, groupBy reports.GroupBy, amount reports.AmountField) ([]reports.SalesBucket, error) {
	f.lastGroupBy, f.lastAmount = groupBy, amount
	return nil, f.err
}

func (f *fakeReportService) OrderSummary(ctx context.Context, start, end time.Time) (reports.OrderSummary, error) {
	return reports.OrderSummary{}, f.err
}

func (f *fakeReportService) OrderSamples(ctx context.Context) (reports.OrderSamples, error) {
	return reports.OrderSamples{}, f.err
}

func (f *fakeReportService) TopCustomers(ctx context.Context) ([]reports.TopCustomer, error) {
	return nil, f.err
}

func (f *fakeReportService) TopCustomersDetailed(ctx context.Context, start, end time.Time) ([]reports.TopCustomerDetail, error) {
	return nil, f.err
}

func (f *fakeReportService) CashFlow(ctx context.Context, start, end time.Time) ([]reports.CashFlow, error) {
	return nil, f.err
}

func reportRouter(svc *fakeReportService) *gin.Engine {
	h := NewReportHTTPHandler(svc, time.Second)
	r := gin.New()
	r.GET("/patients/financial-summary", h.FinancialSummary)
	r.GET("/patients/sales-details", h.SalesDetails)
	r.GET("/patients/sales-graph", h.SalesGraph)
	r.GET("/patients/order-summary", h.OrderSummary)
	return r
}

func TestFinancialSummaryParsesWindow(t *testing.T) {
	svc := &fakeReportService{summary: reports.FinancialSummary{TotalSales: 1200}}
	r := reportRouter(svc)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/patients/financial-summary?startDate=2025-08-01&endDate=2025-08-31", nil)
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}
	if svc.lastStart != time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC) {
		t.Fatalf("start = %v", svc.lastStart)
	}
	if svc.lastEnd != time.Date(2025, 8, 31, 0, 0, 0, 0, time.UTC) {
		t.Fatalf("end = %v", svc.lastEnd)
	}

	env := decodeEnvelope(t, rec)
	var summary reports.FinancialSummary
	if err := json.Unmarshal(env.Data, &summary); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if summary.TotalSales != 1200 {
		t.Fatalf("totalSales = %v", summary.TotalSales)
	}
}

func TestFinancialSummaryRequiresBothDates(t *testing.T) {
	r := reportRouter(&fakeReportService{})

	for _, path := range []string{
		"/patients/financial-summary",
		"/patients/financial-summary?startDate=2025-08-01",
		"/patients/financial-summary?endDate=2025-08-31",
	} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: status = %d, want 400", path, rec.Code)
		}
	}
}

func TestFinancialSummaryRejectsMalformedDate(t *testing.T) {
	r := reportRouter(&fakeReportService{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/patients/financial-summary?startDate=08-01-2025&endDate=2025-08-31", nil)
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestSalesDetailsRequiresChannel(t *testing.T) {
	r := reportRouter(&fakeReportService{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/patients/sales-details?startDate=2025-08-01&endDate=2025-08-31", nil)
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestSalesDetailsMapsUnknownChannel(t *testing.T) {
	r := reportRouter(&fakeReportService{err: reports.ErrInvalidChannel})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/patients/sales-details?startDate=2025-08-01&endDate=2025-08-31&orderFrom=BOGUS", nil)
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestSalesGraphForwardsGrouping(t *testing.T) {
	svc := &fakeReportService{}
	r := reportRouter(svc)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/patients/sales-graph?startDate=2025-08-01&endDate=2025-08-31&groupBy=WEEK&amountField=profit", nil)
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}
	if svc.lastGroupBy != reports.GroupByWeek {
		t.Fatalf("groupBy = %v", svc.lastGroupBy)
	}
	if svc.lastAmount != reports.AmountProfit {
		t.Fatalf("amountField = %v", svc.lastAmount)
	}
}

func TestSalesGraphRejectsUnknownGroupBy(t *testing.T) {
	r := reportRouter(&fakeReportService{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/patients/sales-graph?startDate=2025-08-01&endDate=2025-08-31&groupBy=QUARTER", nil)
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
