package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Record is one loosely-typed entity from the data document.
type Record map[string]any

// Document is the shared data document, keyed by collection name.
type Document map[string]json.RawMessage

const (
	CollectionProducts   = "products"
	CollectionClients    = "clients"
	CollectionSuppliers  = "suppliers"
	CollectionInvoices   = "invoices"
	CollectionExpenses   = "expenses"
	CollectionDebtors    = "debtors"
	CollectionCategories = "categories"
	CollectionSales      = "sales"
)

const IDField = "id"

// ID returns the canonical string form of the record identifier.
func (r Record) ID() string {
	return FormatValue(r[IDField])
}

// Text returns the field rendered as display text, blank when missing.
func (r Record) Text(field string) string {
	return FormatValue(r[field])
}

// Number returns the field as a float64. ok is false when the field is
// missing or not numeric.
func (r Record) Number(field string) (float64, bool) {
	switch v := r[field].(type) {
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case float64:
		return v, true
	case int64:
		return float64(v), true
	case int:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	}
	return 0, false
}

// Clone returns a deep copy. Nested maps and slices are copied too so the
// clone never aliases the original.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, inner := range t {
			m[k] = cloneValue(inner)
		}
		return m
	case Record:
		return t.Clone()
	case []any:
		s := make([]any, len(t))
		for i, inner := range t {
			s[i] = cloneValue(inner)
		}
		return s
	}
	return v
}

// FormatValue renders a decoded JSON value the way a table cell shows it.
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(t, 10)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	}
	return fmt.Sprint(v)
}

// Collection decodes the named array. A missing key or a value that is not
// an array yields an empty collection.
func (d Document) Collection(name string) []Record {
	raw, ok := d[name]
	if !ok {
		return []Record{}
	}
	var records []Record
	if err := decodeJSON(raw, &records); err != nil || records == nil {
		return []Record{}
	}
	return records
}

// Decode unmarshals the value stored under key into dst.
func (d Document) Decode(key string, dst any) error {
	raw, ok := d[key]
	if !ok {
		return fmt.Errorf("document has no %q", key)
	}
	return decodeJSON(raw, dst)
}

// ParseDocument decodes a data document keeping numbers exact.
func ParseDocument(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	if doc == nil {
		doc = Document{}
	}
	return doc, nil
}

func decodeJSON(raw []byte, dst any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	return dec.Decode(dst)
}

type DailyMetric struct {
	Date          string      `json:"date"`
	TotalSales    json.Number `json:"totalSales"`
	TotalExpenses json.Number `json:"totalExpenses"`
	TotalProfit   json.Number `json:"totalProfit"`
}

type MonthlyMetric struct {
	Month    string      `json:"month"`
	Revenue  json.Number `json:"revenue"`
	Expenses json.Number `json:"expenses"`
	Profit   json.Number `json:"profit"`
}

type InventoryMetrics struct {
	TotalItems      json.Number `json:"totalItems"`
	TotalValue      json.Number `json:"totalValue"`
	LowStockItems   json.Number `json:"lowStockItems"`
	OutOfStockItems json.Number `json:"outOfStockItems"`
	TurnoverRate    json.Number `json:"turnoverRate"`
}

type CustomerMetrics struct {
	TotalCustomers      json.Number `json:"totalCustomers"`
	ActiveCustomers     json.Number `json:"activeCustomers"`
	RepeatCustomers     json.Number `json:"repeatCustomers"`
	AverageOrderValue   json.Number `json:"averageOrderValue"`
	TotalReceivedAmount json.Number `json:"totalReceivedAmount"`
}

type SupplierMetrics struct {
	TotalSuppliers      json.Number `json:"totalSuppliers"`
	PaidSuppliers       json.Number `json:"paidSuppliers"`
	PendingPayments     json.Number `json:"pendingPayments"`
	TotalOwed           json.Number `json:"totalOwed"`
	AveragePaymentTerms json.Number `json:"averagePaymentTerms"`
}

// BusinessMetrics mirrors the "businessMetrics" object of the data document.
type BusinessMetrics struct {
	DailyMetrics     []DailyMetric    `json:"dailyMetrics"`
	MonthlyMetrics   []MonthlyMetric  `json:"monthlyMetrics"`
	InventoryMetrics InventoryMetrics `json:"inventoryMetrics"`
	CustomerMetrics  CustomerMetrics  `json:"customerMetrics"`
	SupplierMetrics  SupplierMetrics  `json:"supplierMetrics"`
}

// Slice is one named value of a chart series ("orderStatus",
// "productPerformance").
type Slice struct {
	Name  string      `json:"name"`
	Value json.Number `json:"value"`
}

const (
	KeyBusinessMetrics    = "businessMetrics"
	KeyOrderStatus        = "orderStatus"
	KeyProductPerformance = "productPerformance"
)
