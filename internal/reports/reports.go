package reports

import (
	"encoding/json"
	"fmt"
	"strings"

	"shopdesk/internal/models"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// Summary is everything the reports screen shows.
type Summary struct {
	TodaySales      decimal.Decimal
	TodayExpenses   decimal.Decimal
	TodayProfit     decimal.Decimal
	MonthlyRevenue  decimal.Decimal
	MonthlyProfit   decimal.Decimal
	MonthlyExpenses decimal.Decimal
	CashFlow        decimal.Decimal
	ExpectedRevenue decimal.Decimal

	RecentDays []models.DailyMetric
	Months     []models.MonthlyMetric

	Inventory models.InventoryMetrics
	Customers models.CustomerMetrics
	Suppliers models.SupplierMetrics
}

// recentDays is how many daily rows the daily report shows.
const recentDays = 7

// Build computes the report summary from a data document. Missing sections
// produce zero values.
func Build(doc models.Document) Summary {
	var metrics models.BusinessMetrics
	_ = doc.Decode(models.KeyBusinessMetrics, &metrics)

	s := Summary{
		Months:    metrics.MonthlyMetrics,
		Inventory: metrics.InventoryMetrics,
		Customers: metrics.CustomerMetrics,
		Suppliers: metrics.SupplierMetrics,
	}

	if n := len(metrics.DailyMetrics); n > 0 {
		last := metrics.DailyMetrics[n-1]
		s.TodaySales = Number(last.TotalSales)
		s.TodayExpenses = Number(last.TotalExpenses)
		s.TodayProfit = Number(last.TotalProfit)
		start := n - recentDays
		if start < 0 {
			start = 0
		}
		s.RecentDays = metrics.DailyMetrics[start:]
	}

	if n := len(metrics.MonthlyMetrics); n > 0 {
		last := metrics.MonthlyMetrics[n-1]
		s.MonthlyRevenue = Number(last.Revenue)
		s.MonthlyProfit = Number(last.Profit)
		s.MonthlyExpenses = Number(last.Expenses)
	}
	s.CashFlow = s.MonthlyProfit.Sub(s.MonthlyExpenses)
	s.ExpectedRevenue = ExpectedRevenue(doc.Collection(models.CollectionProducts))

	return s
}

// ExpectedRevenue is the value of the current stock at list price.
func ExpectedRevenue(products []models.Record) decimal.Decimal {
	return SumProduct(products, "price", "stock")
}

// Sum adds up field over records, skipping non-numeric values.
func Sum(records []models.Record, field string) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(Field(r, field))
	}
	return total
}

// SumProduct adds up a*b over records.
func SumProduct(records []models.Record, a, b string) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(Field(r, a).Mul(Field(r, b)))
	}
	return total
}

// Field reads a record field as a decimal; anything non-numeric is zero.
func Field(r models.Record, field string) decimal.Decimal {
	switch v := r[field].(type) {
	case json.Number:
		return Number(v)
	case int64:
		return decimal.NewFromInt(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case float64:
		return decimal.NewFromFloat(v)
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return decimal.Zero
		}
		return d
	}
	return decimal.Zero
}

// Number converts a JSON number, treating empty or invalid input as zero.
func Number(n json.Number) decimal.Decimal {
	if n == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Money renders an amount with thousands separators, keeping cents only
// when there are any: 1234 -> "$1,234", 1234.5 -> "$1,234.50".
func Money(d decimal.Decimal) string {
	d = d.Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	whole := d.Truncate(0)
	out := sign + "$" + humanize.Comma(whole.IntPart())
	if frac := d.Sub(whole); !frac.IsZero() {
		out += fmt.Sprintf(".%02d", frac.Shift(2).IntPart())
	}
	return out
}

// Count renders an integer metric with thousands separators.
func Count(n json.Number) string {
	d := Number(n)
	if !d.Equal(d.Truncate(0)) {
		return d.String()
	}
	return humanize.Comma(d.IntPart())
}

// Overview is what the overview screen shows.
type Overview struct {
	TotalSales     decimal.Decimal
	Clients        int
	Products       int
	Stock          decimal.Decimal
	InventoryValue decimal.Decimal

	Sales              []Point
	Categories         []Point
	OrderStatus        []Point
	ProductPerformance []Point
}

// Point is one labelled value of a chart.
type Point struct {
	Name  string
	Value decimal.Decimal
}

// BuildOverview computes the overview cards and charts. Sections missing
// from the document come back empty.
func BuildOverview(doc models.Document) Overview {
	products := doc.Collection(models.CollectionProducts)
	sales := doc.Collection(models.CollectionSales)

	o := Overview{
		TotalSales:     Sum(sales, "sales"),
		Clients:        len(doc.Collection(models.CollectionClients)),
		Products:       len(products),
		Stock:          Sum(products, "stock"),
		InventoryValue: ExpectedRevenue(products),
		Sales:          points(sales, "sales"),
		Categories:     countBy(products, "category"),
	}

	var status []models.Slice
	if err := doc.Decode(models.KeyOrderStatus, &status); err == nil {
		for _, s := range status {
			o.OrderStatus = append(o.OrderStatus, Point{Name: s.Name, Value: Number(s.Value)})
		}
	}

	var perf []models.Record
	if err := doc.Decode(models.KeyProductPerformance, &perf); err == nil {
		for _, r := range perf {
			o.ProductPerformance = append(o.ProductPerformance, Point{Name: r.Text("name"), Value: firstNumber(r, "sales", "value", "revenue")})
		}
	}
	return o
}

// Percent is p's share of the total of points, rounded to one decimal.
func Percent(points []Point, p Point) decimal.Decimal {
	total := decimal.Zero
	for _, q := range points {
		total = total.Add(q.Value)
	}
	if total.IsZero() {
		return decimal.Zero
	}
	return p.Value.Div(total).Mul(decimal.NewFromInt(100)).Round(1)
}

func points(records []models.Record, field string) []Point {
	out := make([]Point, 0, len(records))
	for _, r := range records {
		out = append(out, Point{Name: r.Text("name"), Value: Field(r, field)})
	}
	return out
}

// countBy counts records per distinct value of field, in first-seen order.
func countBy(records []models.Record, field string) []Point {
	var out []Point
	index := make(map[string]int)
	for _, r := range records {
		name := r.Text(field)
		if name == "" {
			continue
		}
		i, ok := index[name]
		if !ok {
			i = len(out)
			index[name] = i
			out = append(out, Point{Name: name, Value: decimal.Zero})
		}
		out[i].Value = out[i].Value.Add(decimal.NewFromInt(1))
	}
	return out
}

func firstNumber(r models.Record, fields ...string) decimal.Decimal {
	for _, f := range fields {
		if _, ok := r.Number(f); ok {
			return Field(r, f)
		}
	}
	return decimal.Zero
}
