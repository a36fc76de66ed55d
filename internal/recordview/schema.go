package recordview

import "shopdesk/internal/models"

type FieldKind int

const (
	KindText FieldKind = iota
	KindInteger
)

// Field is one editable field of a collection.
type Field struct {
	Name  string
	Label string
	Kind  FieldKind
}

// Column is one displayed table column.
type Column struct {
	Field  string
	Title  string
	Width  int
	Money  bool
	Status bool
}

// Schema configures a View for one collection.
type Schema struct {
	Collection string
	Title      string
	Columns    []Column
	Searchable []string
	Editable   []Field
	// TotalField, when set, is summed over the visible rows. TotalTimes
	// multiplies each row's value by a second field first (price * stock).
	TotalField string
	TotalTimes string
	TotalLabel string
}

func (s Schema) CanEdit() bool {
	return len(s.Editable) > 0
}

func (s Schema) field(name string) (Field, bool) {
	for _, f := range s.Editable {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

var (
	ProductsSchema = Schema{
		Collection: models.CollectionProducts,
		Title:      "Products",
		Columns: []Column{
			{Field: "name", Title: "Name", Width: 22},
			{Field: "id", Title: "ID", Width: 8},
			{Field: "category", Title: "Category", Width: 16},
			{Field: "price", Title: "Price", Width: 10, Money: true},
			{Field: "stock", Title: "Stock", Width: 8},
			{Field: "status", Title: "Status", Width: 14, Status: true},
		},
		Searchable: []string{"id", "name", "category"},
		Editable: []Field{
			{Name: "name", Label: "Product Name"},
			{Name: "category", Label: "Category"},
			{Name: "price", Label: "Price", Kind: KindInteger},
			{Name: "stock", Label: "Stock", Kind: KindInteger},
		},
		TotalField: "price",
		TotalTimes: "stock",
		TotalLabel: "Inventory value",
	}

	ClientsSchema = Schema{
		Collection: models.CollectionClients,
		Title:      "Clients",
		Columns: []Column{
			{Field: "name", Title: "Name", Width: 22},
			{Field: "email", Title: "Email", Width: 26},
			{Field: "phone", Title: "Phone", Width: 16},
			{Field: "country", Title: "Country", Width: 14},
		},
		Searchable: []string{"name", "email", "country"},
		Editable: []Field{
			{Name: "name", Label: "Name"},
			{Name: "email", Label: "Email"},
			{Name: "phone", Label: "Phone"},
			{Name: "country", Label: "Country"},
		},
	}

	SuppliersSchema = Schema{
		Collection: models.CollectionSuppliers,
		Title:      "Suppliers",
		Columns: []Column{
			{Field: "name", Title: "Name", Width: 22},
			{Field: "contact", Title: "Contact", Width: 18},
			{Field: "phone", Title: "Phone", Width: 16},
			{Field: "totalOwed", Title: "Total Owed", Width: 12, Money: true},
			{Field: "paymentTerms", Title: "Terms", Width: 10},
			{Field: "paymentStatus", Title: "Status", Width: 12, Status: true},
		},
		Searchable: []string{"name", "email", "contact"},
		Editable: []Field{
			{Name: "name", Label: "Supplier Name"},
			{Name: "contact", Label: "Contact"},
			{Name: "phone", Label: "Phone"},
			{Name: "paymentTerms", Label: "Payment Terms"},
			{Name: "totalOwed", Label: "Total Owed", Kind: KindInteger},
		},
		TotalField: "totalOwed",
		TotalLabel: "Owed",
	}

	InvoicesSchema = Schema{
		Collection: models.CollectionInvoices,
		Title:      "Invoices",
		Columns: []Column{
			{Field: "invoiceNumber", Title: "Invoice #", Width: 10},
			{Field: "customer", Title: "Customer", Width: 20},
			{Field: "description", Title: "Description", Width: 26},
			{Field: "amount", Title: "Amount", Width: 10, Money: true},
			{Field: "date", Title: "Date", Width: 12},
			{Field: "status", Title: "Status", Width: 10, Status: true},
		},
		Searchable: []string{"invoiceNumber", "customer", "description", "status"},
		TotalField: "amount",
		TotalLabel: "Invoiced",
	}

	ExpensesSchema = Schema{
		Collection: models.CollectionExpenses,
		Title:      "Expenses",
		Columns: []Column{
			{Field: "date", Title: "Date", Width: 12},
			{Field: "category", Title: "Category", Width: 16},
			{Field: "description", Title: "Description", Width: 26},
			{Field: "paymentMethod", Title: "Method", Width: 14},
			{Field: "amount", Title: "Amount", Width: 10, Money: true},
			{Field: "status", Title: "Status", Width: 10, Status: true},
		},
		Searchable: []string{"category", "description", "reference"},
		TotalField: "amount",
		TotalLabel: "Spent",
	}

	DebtorsSchema = Schema{
		Collection: models.CollectionDebtors,
		Title:      "Debtors",
		Columns: []Column{
			{Field: "name", Title: "Name", Width: 20},
			{Field: "email", Title: "Email", Width: 24},
			{Field: "phone", Title: "Phone", Width: 16},
			{Field: "amount", Title: "Amount", Width: 10, Money: true},
			{Field: "daysOverdue", Title: "Overdue", Width: 8},
			{Field: "status", Title: "Status", Width: 10, Status: true},
		},
		Searchable: []string{"name", "email", "phone"},
		TotalField: "amount",
		TotalLabel: "Outstanding",
	}

	CategoriesSchema = Schema{
		Collection: models.CollectionCategories,
		Title:      "Categories",
		Columns: []Column{
			{Field: "name", Title: "Name", Width: 22},
			{Field: "description", Title: "Description", Width: 50},
		},
		Searchable: []string{"name", "description"},
		Editable: []Field{
			{Name: "name", Label: "Category Name"},
			{Name: "description", Label: "Description"},
		},
	}

	SalesSchema = Schema{
		Collection: models.CollectionSales,
		Title:      "Sales",
		Columns: []Column{
			{Field: "name", Title: "Period", Width: 14},
			{Field: "sales", Title: "Sales", Width: 12, Money: true},
		},
		Searchable: []string{"name"},
		TotalField: "sales",
		TotalLabel: "Sales",
	}
)

// Schemas lists the built-in collections in navigation order.
var Schemas = []Schema{
	ProductsSchema,
	ClientsSchema,
	SuppliersSchema,
	InvoicesSchema,
	ExpensesSchema,
	DebtorsSchema,
	SalesSchema,
	CategoriesSchema,
}

// Lookup finds a built-in schema by collection name.
func Lookup(collection string) (Schema, bool) {
	for _, s := range Schemas {
		if s.Collection == collection {
			return s, true
		}
	}
	return Schema{}, false
}
