package reports

import (
	"encoding/json"
	"testing"

	"shopdesk/internal/models"

	"github.com/shopspring/decimal"
)

const reportDoc = `{
	"products": [
		{"id": 1, "name": "Soap", "price": 2.5, "stock": 10},
		{"id": 2, "name": "Rice", "price": 40, "stock": 3},
		{"id": 3, "name": "Broken", "price": "n/a", "stock": 4}
	],
	"businessMetrics": {
		"dailyMetrics": [
			{"date": "2024-01-01", "totalSales": 100, "totalExpenses": 20, "totalProfit": 80},
			{"date": "2024-01-02", "totalSales": 150, "totalExpenses": 30, "totalProfit": 120}
		],
		"monthlyMetrics": [
			{"month": "Jan", "revenue": 5000, "expenses": 1200, "profit": 3000},
			{"month": "Feb", "revenue": 6200, "expenses": 1500, "profit": 3400}
		],
		"inventoryMetrics": {"totalItems": 1453, "lowStockItems": 4},
		"supplierMetrics": {"totalOwed": 12000}
	}
}`

func TestBuild(t *testing.T) {
	t.Parallel()

	doc, err := models.ParseDocument([]byte(reportDoc))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	s := Build(doc)

	checks := []struct {
		name string
		got  decimal.Decimal
		want string
	}{
		{"today sales", s.TodaySales, "150"},
		{"today profit", s.TodayProfit, "120"},
		{"monthly revenue", s.MonthlyRevenue, "6200"},
		{"monthly profit", s.MonthlyProfit, "3400"},
		{"cash flow", s.CashFlow, "1900"},
		{"expected revenue", s.ExpectedRevenue, "145"},
	}
	for _, c := range checks {
		if !c.got.Equal(decimal.RequireFromString(c.want)) {
			t.Fatalf("%s: got %s, want %s", c.name, c.got, c.want)
		}
	}
	if len(s.RecentDays) != 2 || len(s.Months) != 2 {
		t.Fatalf("unexpected rows: days=%d months=%d", len(s.RecentDays), len(s.Months))
	}
	if got := Count(s.Inventory.TotalItems); got != "1,453" {
		t.Fatalf("inventory total items: got %q", got)
	}
}

func TestBuildEmptyDocument(t *testing.T) {
	t.Parallel()

	s := Build(models.Document{})
	if !s.TodaySales.IsZero() || !s.ExpectedRevenue.IsZero() || !s.CashFlow.IsZero() {
		t.Fatalf("expected zero summary, got %+v", s)
	}
	if s.RecentDays != nil {
		t.Fatalf("expected no recent days")
	}
}

func TestRecentDaysCapped(t *testing.T) {
	t.Parallel()

	var days []models.DailyMetric
	for i := 0; i < 10; i++ {
		days = append(days, models.DailyMetric{Date: string(rune('a' + i)), TotalSales: json.Number("1")})
	}
	raw, _ := json.Marshal(models.BusinessMetrics{DailyMetrics: days})
	s := Build(models.Document{models.KeyBusinessMetrics: raw})

	if len(s.RecentDays) != recentDays {
		t.Fatalf("expected %d recent days, got %d", recentDays, len(s.RecentDays))
	}
	if s.RecentDays[0].Date != "d" {
		t.Fatalf("expected the last seven days, first is %q", s.RecentDays[0].Date)
	}
}

func TestMoney(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"0":        "$0",
		"1234":     "$1,234",
		"1234.5":   "$1,234.50",
		"1234.05":  "$1,234.05",
		"-89650":   "-$89,650",
		"182000.0": "$182,000",
		"-0.001":   "$0",
		"-0.004":   "$0",
		"-0.005":   "-$0.01",
	}
	for in, want := range tests {
		if got := Money(decimal.RequireFromString(in)); got != want {
			t.Fatalf("Money(%s) = %q, want %q", in, got, want)
		}
	}
}

func TestSumSkipsNonNumeric(t *testing.T) {
	t.Parallel()

	records := []models.Record{
		{"amount": json.Number("10")},
		{"amount": "5"},
		{"amount": "oops"},
		{},
		{"amount": int64(2)},
	}
	if got := Sum(records, "amount"); !got.Equal(decimal.NewFromInt(17)) {
		t.Fatalf("Sum = %s, want 17", got)
	}
}

const overviewDoc = `{
	"products": [
		{"id": "P1", "name": "Soap", "category": "Home", "price": 2, "stock": 10},
		{"id": "P2", "name": "Rice", "category": "Food", "price": 40, "stock": 3},
		{"id": "P3", "name": "Bleach", "category": "Home", "price": 5, "stock": 0}
	],
	"clients": [{"id": 1}, {"id": 2}],
	"sales": [{"name": "Jan", "sales": 1200}, {"name": "Feb", "sales": 800.5}],
	"orderStatus": [{"name": "Pending", "value": 30}, {"name": "Delivered", "value": 90}],
	"productPerformance": [{"name": "Soap", "sales": 400, "profit": 90}]
}`

func TestBuildOverview(t *testing.T) {
	t.Parallel()

	doc, err := models.ParseDocument([]byte(overviewDoc))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	o := BuildOverview(doc)

	if o.Clients != 2 || o.Products != 3 {
		t.Fatalf("counts: clients=%d products=%d", o.Clients, o.Products)
	}
	if got := Money(o.TotalSales); got != "$2,000.50" {
		t.Fatalf("total sales: got %q", got)
	}
	if !o.Stock.Equal(decimal.NewFromInt(13)) {
		t.Fatalf("stock: got %s", o.Stock)
	}
	if !o.InventoryValue.Equal(decimal.NewFromInt(140)) {
		t.Fatalf("inventory value: got %s", o.InventoryValue)
	}
	if len(o.Categories) != 2 || o.Categories[0].Name != "Home" || !o.Categories[0].Value.Equal(decimal.NewFromInt(2)) {
		t.Fatalf("categories: got %+v", o.Categories)
	}
	if len(o.OrderStatus) != 2 {
		t.Fatalf("order status: got %+v", o.OrderStatus)
	}
	if got := Percent(o.OrderStatus, o.OrderStatus[1]); !got.Equal(decimal.NewFromInt(75)) {
		t.Fatalf("delivered percent: got %s", got)
	}
	if len(o.ProductPerformance) != 1 || !o.ProductPerformance[0].Value.Equal(decimal.NewFromInt(400)) {
		t.Fatalf("product performance: got %+v", o.ProductPerformance)
	}
}

func TestBuildOverviewEmpty(t *testing.T) {
	t.Parallel()

	o := BuildOverview(models.Document{})
	if o.Products != 0 || len(o.Sales) != 0 || o.OrderStatus != nil || o.ProductPerformance != nil {
		t.Fatalf("expected empty overview, got %+v", o)
	}
	if got := Percent(nil, Point{Value: decimal.NewFromInt(1)}); !got.IsZero() {
		t.Fatalf("percent of empty series: got %s", got)
	}
}
