package erp

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/goliatone/go-erp-dashboard/components/records"
)

func newInventoryPage(set records.RecordSet[Product]) *records.Page[Product] {
	category := records.StringField("category", func(p Product) string { return p.Category })
	return records.NewPage(records.PageConfig[Product]{
		Code:        PageInventory,
		Title:       "Inventory Management",
		Description: "Track and manage your product inventory",
		Records:     set,
		Predicate: records.NewPredicate(category,
			records.StringField("name", func(p Product) string { return p.Name }),
			records.StringField("sku", func(p Product) string { return p.SKU }),
		),
		Metrics: records.NewAggregator(
			records.CountAll[Product]("total"),
			records.Sum("total_value", Product.TotalValue),
			records.Sum("total_units", func(p Product) decimal.Decimal { return decimal.NewFromInt(int64(p.CurrentStock)) }),
			records.CountWhere("low_stock", Product.NeedsReorder),
			records.CountWhere("out_of_stock", func(p Product) bool { return p.Status() == StockOut }),
			records.GroupCount("by_status", func(p Product) string { return string(p.Status()) }),
			records.GroupSum("value_by_category", func(p Product) string { return p.Category }, Product.TotalValue),
		),
		Badges: []records.Badge[Product]{
			{Key: "status", Field: records.StringField("status", func(p Product) string { return string(p.Status()) }), Classifier: StockStatusStyles},
		},
		Columns: []records.Column[Product]{
			{Key: "id", Title: "ID", Value: func(p Product) any { return p.ID }},
			{Key: "name", Title: "Product", Value: func(p Product) any { return p.Name }},
			{Key: "sku", Title: "SKU", Value: func(p Product) any { return p.SKU }},
			{Key: "category", Title: "Category", Value: func(p Product) any { return p.Category }},
			{Key: "stock", Title: "Stock", Value: func(p Product) any { return fmt.Sprintf("%d / %d", p.CurrentStock, p.MinimumStock) }},
			{Key: "unit_price", Title: "Unit Price", Value: func(p Product) any { return p.UnitPrice.StringFixed(2) }},
			{Key: "total_value", Title: "Total Value", Value: func(p Product) any { return p.TotalValue().StringFixed(2) }},
			{Key: "status", Title: "Status", Value: func(p Product) any { return string(p.Status()) }},
			{Key: "supplier", Title: "Supplier", Value: func(p Product) any { return p.Supplier }},
		},
		AllLabel:     "All Categories",
		EmptyMessage: "No products match the current filters",
	})
}

func newPurchaseOrderPage(set records.RecordSet[PurchaseOrder]) *records.Page[PurchaseOrder] {
	status := records.StringField("status", func(o PurchaseOrder) string { return string(o.Status) })
	isStatus := func(s POStatus) func(PurchaseOrder) bool {
		return func(o PurchaseOrder) bool { return o.Status == s }
	}
	return records.NewPage(records.PageConfig[PurchaseOrder]{
		Code:        PagePurchaseOrders,
		Title:       "Purchase Orders",
		Description: "Manage vendor orders and procurement",
		Records:     set,
		Predicate: records.NewPredicate(status,
			records.StringField("id", func(o PurchaseOrder) string { return o.ID }),
			records.StringField("vendor", func(o PurchaseOrder) string { return o.Vendor }),
		),
		Metrics: records.NewAggregator(
			records.CountAll[PurchaseOrder]("total"),
			records.CountWhere("pending", isStatus(POPending)),
			records.CountWhere("approved", isStatus(POApproved)),
			records.CountWhere("shipped", isStatus(POShipped)),
			records.CountWhere("delivered", isStatus(PODelivered)),
			records.CountWhere("cancelled", isStatus(POCancelled)),
			records.Sum("total_value", func(o PurchaseOrder) decimal.Decimal { return o.TotalAmount }),
			records.GroupCount("by_priority", func(o PurchaseOrder) string { return string(o.Priority) }),
		),
		Badges: []records.Badge[PurchaseOrder]{
			{Key: "status", Field: status, Classifier: PurchaseStatusStyles},
			{Key: "priority", Field: records.StringField("priority", func(o PurchaseOrder) string { return string(o.Priority) }), Classifier: PriorityStyles},
		},
		Columns: []records.Column[PurchaseOrder]{
			{Key: "id", Title: "PO Number", Value: func(o PurchaseOrder) any { return o.ID }},
			{Key: "vendor", Title: "Vendor", Value: func(o PurchaseOrder) any { return o.Vendor }},
			{Key: "items", Title: "Items", Value: func(o PurchaseOrder) any { return o.ItemCount }},
			{Key: "total_amount", Title: "Total Amount", Value: func(o PurchaseOrder) any { return o.TotalAmount.StringFixed(2) }},
			{Key: "order_date", Title: "Order Date", Value: func(o PurchaseOrder) any { return o.OrderDate.Format(dateLayout) }},
			{Key: "expected_delivery", Title: "Expected Delivery", Value: func(o PurchaseOrder) any { return o.ExpectedDelivery.Format(dateLayout) }},
			{Key: "priority", Title: "Priority", Value: func(o PurchaseOrder) any { return string(o.Priority) }},
			{Key: "status", Title: "Status", Value: func(o PurchaseOrder) any { return string(o.Status) }},
		},
		Categories:   classifierOptions(PurchaseStatusStyles),
		AllLabel:     "All Status",
		EmptyMessage: "No purchase orders match the current filters",
	})
}

func newSalesOrderPage(set records.RecordSet[SalesOrder]) *records.Page[SalesOrder] {
	status := records.StringField("status", func(o SalesOrder) string { return string(o.Status) })
	isStatus := func(s SOStatus) func(SalesOrder) bool {
		return func(o SalesOrder) bool { return o.Status == s }
	}
	amount := func(o SalesOrder) decimal.Decimal { return o.TotalAmount }
	return records.NewPage(records.PageConfig[SalesOrder]{
		Code:        PageSalesOrders,
		Title:       "Sales Orders",
		Description: "Manage customer orders and deliveries",
		Records:     set,
		Predicate: records.NewPredicate(status,
			records.StringField("id", func(o SalesOrder) string { return o.ID }),
			records.StringField("customer", func(o SalesOrder) string { return o.Customer }),
		),
		Metrics: records.NewAggregator(
			records.CountAll[SalesOrder]("total"),
			records.CountWhere("processing", isStatus(SOProcessing)),
			records.CountWhere("packed", isStatus(SOPacked)),
			records.CountWhere("shipped", isStatus(SOShipped)),
			records.CountWhere("delivered", isStatus(SODelivered)),
			records.CountWhere("cancelled", isStatus(SOCancelled)),
			records.Sum("total_revenue", amount),
			records.SumWhere("outstanding", func(o SalesOrder) bool { return !o.Status.Terminal() }, amount),
			records.GroupSum("revenue_by_customer_type", func(o SalesOrder) string { return string(o.CustomerType) }, amount),
		),
		Badges: []records.Badge[SalesOrder]{
			{Key: "status", Field: status, Classifier: SalesStatusStyles},
			{Key: "priority", Field: records.StringField("priority", func(o SalesOrder) string { return string(o.Priority) }), Classifier: PriorityStyles},
			{Key: "customer_type", Field: records.StringField("customer_type", func(o SalesOrder) string { return string(o.CustomerType) }), Classifier: CustomerTypeStyles},
		},
		Columns: []records.Column[SalesOrder]{
			{Key: "id", Title: "SO Number", Value: func(o SalesOrder) any { return o.ID }},
			{Key: "customer", Title: "Customer", Value: func(o SalesOrder) any { return o.Customer }},
			{Key: "customer_type", Title: "Type", Value: func(o SalesOrder) any { return string(o.CustomerType) }},
			{Key: "items", Title: "Items", Value: func(o SalesOrder) any { return o.ItemCount }},
			{Key: "total_amount", Title: "Total Amount", Value: func(o SalesOrder) any { return o.TotalAmount.StringFixed(2) }},
			{Key: "order_date", Title: "Order Date", Value: func(o SalesOrder) any { return o.OrderDate.Format(dateLayout) }},
			{Key: "delivery_date", Title: "Delivery Date", Value: func(o SalesOrder) any { return o.DeliveryDate.Format(dateLayout) }},
			{Key: "priority", Title: "Priority", Value: func(o SalesOrder) any { return string(o.Priority) }},
			{Key: "status", Title: "Status", Value: func(o SalesOrder) any { return string(o.Status) }},
		},
		Categories:   classifierOptions(SalesStatusStyles),
		AllLabel:     "All Status",
		EmptyMessage: "No sales orders match the current filters",
	})
}

func newUserPage(set records.RecordSet[User], now time.Time) *records.Page[User] {
	role := records.StringField("role", func(u User) string { return string(u.Role) })
	return records.NewPage(records.PageConfig[User]{
		Code:        PageUsers,
		Title:       "User Management",
		Description: "Manage users, roles, and permissions",
		Records:     set,
		Predicate: records.NewPredicate(role,
			records.StringField("name", func(u User) string { return u.Name }),
			records.StringField("email", func(u User) string { return u.Email }),
		),
		Metrics: records.NewAggregator(
			records.CountAll[User]("total"),
			records.CountWhere("active", func(u User) bool { return u.Status == UserActive }),
			records.GroupCount("by_role", func(u User) string { return string(u.Role) }),
		),
		Badges: []records.Badge[User]{
			{Key: "role", Field: role, Classifier: RoleStyles},
			{Key: "status", Field: records.StringField("status", func(u User) string { return string(u.Status) }), Classifier: UserStatusStyles},
		},
		Columns: []records.Column[User]{
			{Key: "initials", Title: "", Value: func(u User) any { return u.Initials() }},
			{Key: "name", Title: "User", Value: func(u User) any { return u.Name }},
			{Key: "email", Title: "Email", Value: func(u User) any { return u.Email }},
			{Key: "role", Title: "Role", Value: func(u User) any { return string(u.Role) }},
			{Key: "status", Title: "Status", Value: func(u User) any { return string(u.Status) }},
			{Key: "last_login", Title: "Last Login", Value: func(u User) any { return RelativeTime(u.LastLogin, now) }},
			{Key: "permissions", Title: "Permissions", Value: func(u User) any { return strings.Join(u.Permissions, ", ") }},
		},
		Categories:   classifierOptions(RoleStyles),
		AllLabel:     "All Roles",
		EmptyMessage: "No users match the current filters",
	})
}

func newReportPage(set records.RecordSet[ReportTemplate], now time.Time) *records.Page[ReportTemplate] {
	kind := records.StringField("type", func(r ReportTemplate) string { return string(r.Type) })
	return records.NewPage(records.PageConfig[ReportTemplate]{
		Code:        PageReports,
		Title:       "Reports & Analytics",
		Description: "Generate insights and track business performance",
		Records:     set,
		Predicate: records.NewPredicate(kind,
			records.StringField("title", func(r ReportTemplate) string { return r.Title }),
			records.OptionalField("description", func(r ReportTemplate) string { return r.Description }),
		),
		Metrics: records.NewAggregator(
			records.CountAll[ReportTemplate]("total"),
			records.GroupCount("by_type", func(r ReportTemplate) string { return string(r.Type) }),
		),
		Badges: []records.Badge[ReportTemplate]{
			{Key: "type", Field: kind, Classifier: ReportTypeStyles},
		},
		Columns: []records.Column[ReportTemplate]{
			{Key: "title", Title: "Report", Value: func(r ReportTemplate) any { return r.Title }},
			{Key: "type", Title: "Type", Value: func(r ReportTemplate) any { return string(r.Type) }},
			{Key: "description", Title: "Description", Value: func(r ReportTemplate) any { return r.Description }},
			{Key: "last_generated", Title: "Last Generated", Value: func(r ReportTemplate) any { return RelativeTime(r.LastGenerated, now) }},
		},
		Categories:   classifierOptions(ReportTypeStyles),
		AllLabel:     "All Types",
		EmptyMessage: "No reports match the current filters",
	})
}

// classifierOptions lists the known values of a table as lowercase options,
// the form category selections arrive in.
func classifierOptions(c *records.Classifier) []records.Option {
	values := c.Values()
	out := make([]records.Option, 0, len(values))
	for _, value := range values {
		out = append(out, records.Option{Value: strings.ToLower(value), Label: c.Classify(value).Label})
	}
	return out
}

// RelativeTime renders t as a coarse "n units ago" label against now.
func RelativeTime(t, now time.Time) string {
	if t.IsZero() {
		return "never"
	}
	d := now.Sub(t)
	if d < time.Minute {
		return "just now"
	}
	unit := func(n int, name string) string {
		if n == 1 {
			return fmt.Sprintf("1 %s ago", name)
		}
		return fmt.Sprintf("%d %ss ago", n, name)
	}
	switch {
	case d < time.Hour:
		return unit(int(d/time.Minute), "minute")
	case d < 24*time.Hour:
		return unit(int(d/time.Hour), "hour")
	case d < 7*24*time.Hour:
		return unit(int(d/(24*time.Hour)), "day")
	default:
		return unit(int(d/(7*24*time.Hour)), "week")
	}
}
