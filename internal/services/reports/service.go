package reports

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"docisn-pharmacy/internal/database"
	"docisn-pharmacy/internal/database/models"
)

// sampleLimit caps each status bucket of the order-samples preview.
// topCustomerLimit caps both top-customer rankings.
const (
	sampleLimit      = 5
	topCustomerLimit = 5
)

var ErrInvalidChannel = errors.New("unknown order channel")

// qualifyingStatuses are the order states that count as realized sales.
var qualifyingStatuses = bson.A{
	models.OrderStatusConfirmed,
	models.OrderStatusDispatched,
	models.OrderStatusReadyToPick,
	models.OrderStatusDelivered,
}

// Service computes reporting aggregations over the orders collection.
// Every call re-aggregates against the store's current state; nothing is
// held across requests.
type Service struct {
	orders database.Collection
	log    *zap.Logger
}

func NewService(orders database.Collection, log *zap.Logger) *Service {
	return &Service{orders: orders, log: log}
}

// windowMatch matches orders whose orderedOn falls inside the inclusive
// start-of-day / end-of-day normalized window.
func windowMatch(start, end time.Time) bson.D {
	return bson.D{{Key: "orderedOn", Value: bson.D{
		{Key: "$gte", Value: StartOfDay(start)},
		{Key: "$lte", Value: EndOfDay(end)},
	}}}
}

func qualifyingMatch(start, end time.Time) bson.D {
	match := windowMatch(start, end)
	match = append(match,
		bson.E{Key: "status", Value: bson.D{{Key: "$in", Value: qualifyingStatuses}}},
		bson.E{Key: "billType", Value: bson.D{{Key: "$ne", Value: models.BillTypeReturn}}},
	)
	return match
}

type FinancialSummary struct {
	TotalSales    float64 `json:"totalSales"`
	TotalDiscount float64 `json:"totalDiscount"`
	TotalProfit   float64 `json:"totalProfit"`
	TotalRefunds  float64 `json:"totalRefunds"`
}

// FinancialSummary sums sales, discount and profit over NEW bills in the
// window; refunds are the totalAmount of RETURN bills in the same window.
// An empty window yields zeros, not an error.
func (s *Service) FinancialSummary(ctx context.Context, start, end time.Time) (FinancialSummary, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: windowMatch(start, end)}},
		bson.D{{Key: "$facet", Value: bson.D{
			{Key: "sales", Value: bson.A{
				bson.D{{Key: "$match", Value: bson.D{
					{Key: "billType", Value: bson.D{{Key: "$ne", Value: models.BillTypeReturn}}},
				}}},
				bson.D{{Key: "$group", Value: bson.D{
					{Key: "_id", Value: nil},
					{Key: "totalSales", Value: bson.D{{Key: "$sum", Value: "$totalAmount"}}},
					{Key: "totalDiscount", Value: bson.D{{Key: "$sum", Value: "$discount"}}},
					{Key: "totalProfit", Value: bson.D{{Key: "$sum", Value: "$profit"}}},
				}}},
			}},
			{Key: "refunds", Value: bson.A{
				bson.D{{Key: "$match", Value: bson.D{
					{Key: "billType", Value: models.BillTypeReturn},
				}}},
				bson.D{{Key: "$group", Value: bson.D{
					{Key: "_id", Value: nil},
					{Key: "totalRefunds", Value: bson.D{{Key: "$sum", Value: "$totalAmount"}}},
				}}},
			}},
		}}},
	}

	var rows []struct {
		Sales []struct {
			TotalSales    float64 `bson:"totalSales"`
			TotalDiscount float64 `bson:"totalDiscount"`
			TotalProfit   float64 `bson:"totalProfit"`
		} `bson:"sales"`
		Refunds []struct {
			TotalRefunds float64 `bson:"totalRefunds"`
		} `bson:"refunds"`
	}
	if err := s.orders.Aggregate(ctx, pipeline, &rows); err != nil {
		s.log.Error("financial summary aggregation failed", zap.Error(err))
		return FinancialSummary{}, err
	}

	var summary FinancialSummary
	if len(rows) == 0 {
		return summary, nil
	}
	if len(rows[0].Sales) > 0 {
		summary.TotalSales = rows[0].Sales[0].TotalSales
		summary.TotalDiscount = rows[0].Sales[0].TotalDiscount
		summary.TotalProfit = rows[0].Sales[0].TotalProfit
	}
	if len(rows[0].Refunds) > 0 {
		summary.TotalRefunds = rows[0].Refunds[0].TotalRefunds
	}
	return summary, nil
}

type ChannelSales struct {
	OrderFrom   models.OrderChannel `json:"orderFrom"`
	TotalSales  float64             `json:"totalSales"`
	TotalOrders int64               `json:"totalOrders"`
	Percentage  string              `json:"percentage"`
}

// SalesByChannel sums one channel's sales in the window and annotates them
// with the channel's share of sales across all channels, formatted as a
// 2-decimal percentage string. A window with no orders at all yields
// "0.00%" rather than a division error.
func (s *Service) SalesByChannel(ctx context.Context, start, end time.Time, channel models.OrderChannel) (ChannelSales, error) {
	if !validChannel(channel) {
		return ChannelSales{}, ErrInvalidChannel
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: windowMatch(start, end)}},
		bson.D{{Key: "$facet", Value: bson.D{
			{Key: "channel", Value: bson.A{
				bson.D{{Key: "$match", Value: bson.D{{Key: "orderFrom", Value: channel}}}},
				bson.D{{Key: "$group", Value: bson.D{
					{Key: "_id", Value: nil},
					{Key: "totalSales", Value: bson.D{{Key: "$sum", Value: "$totalAmount"}}},
					{Key: "totalOrders", Value: bson.D{{Key: "$sum", Value: 1}}},
				}}},
			}},
			{Key: "all", Value: bson.A{
				bson.D{{Key: "$group", Value: bson.D{
					{Key: "_id", Value: nil},
					{Key: "totalSales", Value: bson.D{{Key: "$sum", Value: "$totalAmount"}}},
				}}},
			}},
		}}},
	}

	var rows []struct {
		Channel []struct {
			TotalSales  float64 `bson:"totalSales"`
			TotalOrders int64   `bson:"totalOrders"`
		} `bson:"channel"`
		All []struct {
			TotalSales float64 `bson:"totalSales"`
		} `bson:"all"`
	}
	if err := s.orders.Aggregate(ctx, pipeline, &rows); err != nil {
		s.log.Error("channel sales aggregation failed", zap.Error(err))
		return ChannelSales{}, err
	}

	result := ChannelSales{OrderFrom: channel, Percentage: "0.00%"}
	if len(rows) == 0 {
		return result, nil
	}
	if len(rows[0].Channel) > 0 {
		result.TotalSales = rows[0].Channel[0].TotalSales
		result.TotalOrders = rows[0].Channel[0].TotalOrders
	}

	var allSales float64
	if len(rows[0].All) > 0 {
		allSales = rows[0].All[0].TotalSales
	}
	if allSales != 0 {
		pct := decimal.NewFromFloat(result.TotalSales).
			Mul(decimal.NewFromInt(100)).
			Div(decimal.NewFromFloat(allSales))
		result.Percentage = pct.StringFixed(2) + "%"
	}
	return result, nil
}

type SalesBucket struct {
	StartDate  time.Time `json:"startDate"`
	EndDate    time.Time `json:"endDate"`
	TotalSales float64   `json:"totalSales"`
}

// SalesGraph buckets qualifying orders by calendar day, ISO week or calendar
// month of orderedOn, summing the selected amount field. Each bucket carries
// the literal [start, end] date pair of its period and buckets come back in
// chronological order.
func (s *Service) SalesGraph(ctx context.Context, start, end time.Time, groupBy GroupBy, amount AmountField) ([]SalesBucket, error) {
	var interval bson.D
	switch groupBy {
	case GroupByDay:
		interval = bson.D{
			{Key: "year", Value: bson.D{{Key: "$year", Value: "$orderedOn"}}},
			{Key: "month", Value: bson.D{{Key: "$month", Value: "$orderedOn"}}},
			{Key: "day", Value: bson.D{{Key: "$dayOfMonth", Value: "$orderedOn"}}},
		}
	case GroupByWeek:
		interval = bson.D{
			{Key: "year", Value: bson.D{{Key: "$isoWeekYear", Value: "$orderedOn"}}},
			{Key: "week", Value: bson.D{{Key: "$isoWeek", Value: "$orderedOn"}}},
		}
	case GroupByMonth:
		interval = bson.D{
			{Key: "year", Value: bson.D{{Key: "$year", Value: "$orderedOn"}}},
			{Key: "month", Value: bson.D{{Key: "$month", Value: "$orderedOn"}}},
		}
	default:
		return nil, ErrInvalidGroupBy
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: qualifyingMatch(start, end)}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: interval},
			{Key: "totalSales", Value: bson.D{{Key: "$sum", Value: "$" + string(amount)}}},
		}}},
	}

	var rows []struct {
		ID struct {
			Year  int `bson:"year"`
			Month int `bson:"month"`
			Week  int `bson:"week"`
			Day   int `bson:"day"`
		} `bson:"_id"`
		TotalSales float64 `bson:"totalSales"`
	}
	if err := s.orders.Aggregate(ctx, pipeline, &rows); err != nil {
		s.log.Error("sales graph aggregation failed", zap.Error(err))
		return nil, err
	}

	buckets := make([]SalesBucket, 0, len(rows))
	for _, row := range rows {
		var bucketStart, bucketEnd time.Time
		switch groupBy {
		case GroupByDay:
			bucketStart, bucketEnd = dayRange(row.ID.Year, row.ID.Month, row.ID.Day)
		case GroupByWeek:
			bucketStart, bucketEnd = isoWeekRange(row.ID.Year, row.ID.Week)
		case GroupByMonth:
			bucketStart, bucketEnd = monthRange(row.ID.Year, row.ID.Month)
		}
		buckets = append(buckets, SalesBucket{
			StartDate:  bucketStart,
			EndDate:    bucketEnd,
			TotalSales: row.TotalSales,
		})
	}

	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].StartDate.Before(buckets[j].StartDate)
	})
	return buckets, nil
}

type ChannelCount struct {
	Platform models.OrderChannel `bson:"platform" json:"platform"`
	Count    int64               `bson:"count" json:"count"`
}

type OrderSummary struct {
	TotalOrders      int64          `bson:"totalOrders" json:"totalOrders"`
	OrdersByPlatform []ChannelCount `bson:"ordersByPlatform" json:"ordersByPlatform"`
}

// OrderSummary counts qualifying orders per channel plus a grand total.
func (s *Service) OrderSummary(ctx context.Context, start, end time.Time) (OrderSummary, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: qualifyingMatch(start, end)}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$orderFrom"},
			{Key: "totalOrders", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "totalOrders", Value: bson.D{{Key: "$sum", Value: "$totalOrders"}}},
			{Key: "ordersByPlatform", Value: bson.D{{Key: "$push", Value: bson.D{
				{Key: "platform", Value: "$_id"},
				{Key: "count", Value: "$totalOrders"},
			}}}},
		}}},
		bson.D{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "totalOrders", Value: 1},
			{Key: "ordersByPlatform", Value: 1},
		}}},
	}

	var rows []OrderSummary
	if err := s.orders.Aggregate(ctx, pipeline, &rows); err != nil {
		s.log.Error("order summary aggregation failed", zap.Error(err))
		return OrderSummary{}, err
	}
	if len(rows) == 0 {
		return OrderSummary{OrdersByPlatform: []ChannelCount{}}, nil
	}
	return rows[0], nil
}

type OrderSamples struct {
	PendingOrders   []models.Order `bson:"pendingOrders" json:"pendingOrders"`
	CompletedOrders []models.Order `bson:"completedOrders" json:"completedOrders"`
	CancelledOrders []models.Order `bson:"cancelledOrders" json:"cancelledOrders"`
}

// OrderSamples returns up to 5 orders per preview status in one facet query.
// This is a UI preview, not pagination.
func (s *Service) OrderSamples(ctx context.Context) (OrderSamples, error) {
	statusFacet := func(status models.OrderStatus) bson.A {
		return bson.A{
			bson.D{{Key: "$match", Value: bson.D{{Key: "status", Value: status}}}},
			bson.D{{Key: "$limit", Value: sampleLimit}},
		}
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$facet", Value: bson.D{
			{Key: "pendingOrders", Value: statusFacet(models.OrderStatusPaymentPending)},
			{Key: "completedOrders", Value: statusFacet(models.OrderStatusDelivered)},
			{Key: "cancelledOrders", Value: statusFacet(models.OrderStatusCancelled)},
		}}},
	}

	var rows []OrderSamples
	if err := s.orders.Aggregate(ctx, pipeline, &rows); err != nil {
		s.log.Error("order samples aggregation failed", zap.Error(err))
		return OrderSamples{}, err
	}
	if len(rows) == 0 {
		return OrderSamples{
			PendingOrders:   []models.Order{},
			CompletedOrders: []models.Order{},
			CancelledOrders: []models.Order{},
		}, nil
	}
	return rows[0], nil
}

type TopCustomer struct {
	PatientName    string `bson:"patientName" json:"patientName"`
	TotalPurchases int64  `bson:"totalPurchases" json:"totalPurchases"`
}

// TopCustomers ranks patients by purchase count, capped at 5.
func (s *Service) TopCustomers(ctx context.Context) ([]TopCustomer, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$patientName"},
			{Key: "totalPurchases", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "totalPurchases", Value: -1}}}},
		bson.D{{Key: "$limit", Value: topCustomerLimit}},
		bson.D{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "patientName", Value: "$_id"},
			{Key: "totalPurchases", Value: 1},
		}}},
	}

	customers := []TopCustomer{}
	if err := s.orders.Aggregate(ctx, pipeline, &customers); err != nil {
		s.log.Error("top customers aggregation failed", zap.Error(err))
		return nil, err
	}
	return customers, nil
}

type TopCustomerDetail struct {
	PatientID              string  `bson:"patientID" json:"patientID"`
	PatientName            string  `bson:"patientName" json:"patientName"`
	PatientEmail           string  `bson:"patientEmail" json:"patientEmail"`
	TotalAmountSpent       float64 `bson:"totalAmountSpent" json:"totalAmountSpent"`
	TotalQuantityPurchased int64   `bson:"totalQuantityPurchased" json:"totalQuantityPurchased"`
}

// TopCustomersDetailed ranks patients by amount spent on delivered orders in
// the window, joined against the patients collection for display identity.
func (s *Service) TopCustomersDetailed(ctx context.Context, start, end time.Time) ([]TopCustomerDetail, error) {
	match := windowMatch(start, end)
	match = append(match, bson.E{Key: "status", Value: models.OrderStatusDelivered})

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: match}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$patientID"},
			{Key: "totalAmountSpent", Value: bson.D{{Key: "$sum", Value: "$totalAmount"}}},
			{Key: "totalQuantityPurchased", Value: bson.D{{Key: "$sum", Value: bson.D{
				{Key: "$sum", Value: "$drugInfo.quantity"},
			}}}},
		}}},
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: "patients"},
			{Key: "localField", Value: "_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "patientDetails"},
		}}},
		bson.D{{Key: "$unwind", Value: "$patientDetails"}},
		bson.D{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "patientID", Value: "$_id"},
			{Key: "totalAmountSpent", Value: 1},
			{Key: "totalQuantityPurchased", Value: 1},
			{Key: "patientDetails", Value: 1},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "totalAmountSpent", Value: -1}}}},
		bson.D{{Key: "$limit", Value: topCustomerLimit}},
	}

	var rows []struct {
		PatientID              string         `bson:"patientID"`
		TotalAmountSpent       float64        `bson:"totalAmountSpent"`
		TotalQuantityPurchased int64          `bson:"totalQuantityPurchased"`
		Patient                models.Patient `bson:"patientDetails"`
	}
	if err := s.orders.Aggregate(ctx, pipeline, &rows); err != nil {
		s.log.Error("top customers detailed aggregation failed", zap.Error(err))
		return nil, err
	}

	customers := make([]TopCustomerDetail, 0, len(rows))
	for _, row := range rows {
		customers = append(customers, TopCustomerDetail{
			PatientID:              row.PatientID,
			PatientName:            row.Patient.Name,
			PatientEmail:           row.Patient.Email,
			TotalAmountSpent:       row.TotalAmountSpent,
			TotalQuantityPurchased: row.TotalQuantityPurchased,
		})
	}
	return customers, nil
}

type CashFlow struct {
	ModeOfPayment string  `bson:"modeOfPayment" json:"modeOfPayment"`
	TotalAmount   float64 `bson:"totalAmount" json:"totalAmount"`
}

// CashFlow sums qualifying order totals per payment mode inside the window.
// Pending, cancelled and RETURN bills never moved money and are excluded.
func (s *Service) CashFlow(ctx context.Context, start, end time.Time) ([]CashFlow, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: qualifyingMatch(start, end)}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$modeOfPayment"},
			{Key: "totalAmount", Value: bson.D{{Key: "$sum", Value: "$totalAmount"}}},
		}}},
		bson.D{{Key: "$project", Value: bson.D{
			{Key: "modeOfPayment", Value: "$_id"},
			{Key: "totalAmount", Value: 1},
			{Key: "_id", Value: 0},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "modeOfPayment", Value: 1}}}},
	}

	flows := []CashFlow{}
	if err := s.orders.Aggregate(ctx, pipeline, &flows); err != nil {
		s.log.Error("cash flow aggregation failed", zap.Error(err))
		return nil, err
	}
	return flows, nil
}

func validChannel(channel models.OrderChannel) bool {
	for _, c := range models.OrderChannels {
		if c == channel {
			return true
		}
	}
	return false
}
