package erp

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/goliatone/go-erp-dashboard/components/records"
)

// Page codes served by the catalog.
const (
	PageDashboard      = "dashboard"
	PageInventory      = "inventory"
	PagePurchaseOrders = "purchase-orders"
	PageSalesOrders    = "sales-orders"
	PageUsers          = "users"
	PageReports        = "reports"
)

const dateLayout = "2006-01-02"

// ErrUnknownPage is returned for page codes the catalog does not serve.
var ErrUnknownPage = errors.New("erp: unknown page")

// ErrUnknownChart is returned for chart codes the catalog does not hold.
var ErrUnknownChart = errors.New("erp: unknown chart")

// Option customizes catalog construction.
type Option func(*buildOptions)

type buildOptions struct {
	now func() time.Time
}

// WithClock sets the reference time used to resolve relative seed times.
func WithClock(now func() time.Time) Option {
	return func(o *buildOptions) {
		if now != nil {
			o.now = now
		}
	}
}

// NamedChart is a chart dataset with its code.
type NamedChart struct {
	Code string            `json:"code"`
	Spec records.ChartSpec `json:"spec"`
}

// Catalog holds the process-wide, read-only ERP records and the listing
// pages built over them.
type Catalog struct {
	products       records.RecordSet[Product]
	purchaseOrders records.RecordSet[PurchaseOrder]
	salesOrders    records.RecordSet[SalesOrder]
	users          records.RecordSet[User]
	reports        records.RecordSet[ReportTemplate]

	roleStats    []RoleStat
	recentOrders []RecentOrder
	stockAlerts  []StockAlert
	charts       []NamedChart
	kpis         map[string][]KPI
	loadedAt     time.Time

	inventory *records.Page[Product]
	purchases *records.Page[PurchaseOrder]
	sales     *records.Page[SalesOrder]
	team      *records.Page[User]
	templates *records.Page[ReportTemplate]
	pages     []records.Renderer
}

// LoadCatalog builds a catalog from the embedded seed.
func LoadCatalog(opts ...Option) (*Catalog, error) {
	seed, err := DefaultSeed()
	if err != nil {
		return nil, err
	}
	return NewCatalog(seed, opts...)
}

// NewCatalog converts a validated seed into records and pages. It enforces
// the cross-field invariants that struct validation cannot express.
func NewCatalog(seed *Seed, opts ...Option) (*Catalog, error) {
	if seed == nil {
		return nil, errors.New("erp: seed is required")
	}
	options := buildOptions{now: time.Now}
	for _, opt := range opts {
		opt(&options)
	}
	now := options.now()

	c := &Catalog{
		roleStats: append([]RoleStat(nil), seed.RoleStats...),
		kpis:      map[string][]KPI{},
		loadedAt:  now,
	}

	var errs error
	products, err := convertProducts(seed.Products)
	errs = errors.Join(errs, err)
	purchaseOrders, err := convertPurchaseOrders(seed.PurchaseOrders)
	errs = errors.Join(errs, err)
	salesOrders, err := convertSalesOrders(seed.SalesOrders)
	errs = errors.Join(errs, err)
	users, err := convertUsers(seed.Users, now)
	errs = errors.Join(errs, err)
	reports, err := convertReports(seed.ReportTemplates, now)
	errs = errors.Join(errs, err)
	recent, err := convertRecentOrders(seed.RecentOrders)
	errs = errors.Join(errs, err)
	for _, chart := range seed.Charts {
		if err := chart.Validate(); err != nil {
			errs = errors.Join(errs, fmt.Errorf("erp: chart %s: %w", chart.Code, err))
			continue
		}
		c.charts = append(c.charts, NamedChart{Code: chart.Code, Spec: chart.ChartSpec})
	}
	if errs != nil {
		return nil, errs
	}

	c.products = records.NewRecordSet(products)
	c.purchaseOrders = records.NewRecordSet(purchaseOrders)
	c.salesOrders = records.NewRecordSet(salesOrders)
	c.users = records.NewRecordSet(users)
	c.reports = records.NewRecordSet(reports)
	c.recentOrders = recent
	c.stockAlerts = append([]StockAlert(nil), seed.StockAlerts...)

	c.inventory = newInventoryPage(c.products)
	c.purchases = newPurchaseOrderPage(c.purchaseOrders)
	c.sales = newSalesOrderPage(c.salesOrders)
	c.team = newUserPage(c.users, now)
	c.templates = newReportPage(c.reports, now)
	c.pages = []records.Renderer{c.inventory, c.purchases, c.sales, c.team, c.templates}

	c.charts = append(c.charts, c.derivedCharts()...)

	if err := c.bindKPIs(seed.KPIs); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) bindKPIs(defs map[string][]KPI) error {
	var errs error
	for page, tiles := range defs {
		if page != PageDashboard {
			if _, ok := c.Page(page); !ok {
				errs = errors.Join(errs, fmt.Errorf("%w: kpis declared for %s", ErrUnknownPage, page))
				continue
			}
		}
		bound := make([]KPI, 0, len(tiles))
		for _, tile := range tiles {
			tile = tile.withDefaults(page)
			renderer, ok := c.Page(tile.Page)
			if !ok {
				errs = errors.Join(errs, fmt.Errorf("%w: kpi %q reads %s", ErrUnknownPage, tile.Title, tile.Page))
				continue
			}
			if _, ok := renderer.Render(records.DefaultFilterState()).Overall.Get(tile.Metric); !ok {
				errs = errors.Join(errs, fmt.Errorf("erp: kpi %q reads unknown metric %s.%s", tile.Title, tile.Page, tile.Metric))
				continue
			}
			bound = append(bound, tile)
		}
		c.kpis[page] = bound
	}
	return errs
}

func (c *Catalog) derivedCharts() []NamedChart {
	metrics := c.inventory.Assemble(records.DefaultFilterState()).Overall
	var out []NamedChart
	if value, ok := metrics.Get("value_by_category"); ok {
		spec := records.ChartFromGroups(value, records.ChartBar, "category", "value")
		spec.Title = "Inventory Value by Category"
		out = append(out, NamedChart{Code: "inventory_value_by_category", Spec: spec})
	}
	if value, ok := c.sales.Assemble(records.DefaultFilterState()).Overall.Get("revenue_by_customer_type"); ok {
		spec := records.ChartFromGroups(value, records.ChartBar, "customer_type", "revenue")
		spec.Title = "Revenue by Customer Type"
		out = append(out, NamedChart{Code: "revenue_by_customer_type", Spec: spec})
	}
	return out
}

// Page returns the listing page with the given code.
func (c *Catalog) Page(code string) (records.Renderer, bool) {
	for _, page := range c.pages {
		if page.Code() == code {
			return page, true
		}
	}
	return nil, false
}

// Pages lists the listing pages in navigation order.
func (c *Catalog) Pages() []records.Renderer {
	return append([]records.Renderer(nil), c.pages...)
}

// Render projects the page with the given code under state.
func (c *Catalog) Render(code string, state records.FilterState) (records.Table, error) {
	page, ok := c.Page(code)
	if !ok {
		return records.Table{}, fmt.Errorf("%w: %s", ErrUnknownPage, code)
	}
	return page.Render(state), nil
}

// KPIs returns the tiles declared for a page.
func (c *Catalog) KPIs(page string) []KPI {
	return append([]KPI(nil), c.kpis[page]...)
}

// Chart returns the chart dataset with the given code.
func (c *Catalog) Chart(code string) (records.ChartSpec, error) {
	for _, chart := range c.charts {
		if chart.Code == code {
			return chart.Spec, nil
		}
	}
	return records.ChartSpec{}, fmt.Errorf("%w: %s", ErrUnknownChart, code)
}

// Charts lists every chart dataset in declaration order.
func (c *Catalog) Charts() []NamedChart {
	return append([]NamedChart(nil), c.charts...)
}

// Inventory is the typed inventory page.
func (c *Catalog) Inventory() *records.Page[Product] { return c.inventory }

// PurchaseOrders is the typed purchase order page.
func (c *Catalog) PurchaseOrders() *records.Page[PurchaseOrder] { return c.purchases }

// SalesOrders is the typed sales order page.
func (c *Catalog) SalesOrders() *records.Page[SalesOrder] { return c.sales }

// Users is the typed user page.
func (c *Catalog) Users() *records.Page[User] { return c.team }

// Reports is the typed report template page.
func (c *Catalog) Reports() *records.Page[ReportTemplate] { return c.templates }

// RoleStats returns the headcount per role.
func (c *Catalog) RoleStats() []RoleStat { return append([]RoleStat(nil), c.roleStats...) }

// RecentOrders returns the dashboard order feed.
func (c *Catalog) RecentOrders() []RecentOrder { return append([]RecentOrder(nil), c.recentOrders...) }

// StockAlerts returns the dashboard low stock alerts.
func (c *Catalog) StockAlerts() []StockAlert { return append([]StockAlert(nil), c.stockAlerts...) }

// LoadedAt is the reference time relative seed values were resolved against.
func (c *Catalog) LoadedAt() time.Time { return c.loadedAt }

func convertProducts(rows []SeedProduct) ([]Product, error) {
	var errs error
	seen := map[string]struct{}{}
	out := make([]Product, 0, len(rows))
	for _, row := range rows {
		if _, dup := seen[row.ID]; dup {
			errs = errors.Join(errs, fmt.Errorf("erp: duplicate product id %s", row.ID))
			continue
		}
		seen[row.ID] = struct{}{}
		price, err := decimal.NewFromString(row.UnitPrice)
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("erp: product %s unit_price: %w", row.ID, err))
			continue
		}
		product := Product{
			ID:           row.ID,
			Name:         row.Name,
			Category:     row.Category,
			SKU:          row.SKU,
			CurrentStock: row.CurrentStock,
			MinimumStock: row.MinimumStock,
			UnitPrice:    price,
			Supplier:     row.Supplier,
		}
		if row.TotalValue != "" {
			stored, err := decimal.NewFromString(row.TotalValue)
			if err != nil {
				errs = errors.Join(errs, fmt.Errorf("erp: product %s total_value: %w", row.ID, err))
				continue
			}
			if !stored.Equal(product.TotalValue()) {
				errs = errors.Join(errs, fmt.Errorf("erp: product %s total_value %s != current_stock x unit_price %s",
					row.ID, stored.String(), product.TotalValue().String()))
				continue
			}
		}
		out = append(out, product)
	}
	return out, errs
}

func convertPurchaseOrders(rows []SeedPurchaseOrder) ([]PurchaseOrder, error) {
	var errs error
	out := make([]PurchaseOrder, 0, len(rows))
	for _, row := range rows {
		amount, err := decimal.NewFromString(row.TotalAmount)
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("erp: purchase order %s total_amount: %w", row.ID, err))
			continue
		}
		ordered, delivery, err := orderDates(row.OrderDate, row.ExpectedDelivery)
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("erp: purchase order %s: %w", row.ID, err))
			continue
		}
		out = append(out, PurchaseOrder{
			ID:               row.ID,
			Vendor:           row.Vendor,
			ItemCount:        row.Items,
			TotalAmount:      amount,
			OrderDate:        ordered,
			ExpectedDelivery: delivery,
			Status:           POStatus(row.Status),
			Priority:         Priority(row.Priority),
		})
	}
	return out, errs
}

func convertSalesOrders(rows []SeedSalesOrder) ([]SalesOrder, error) {
	var errs error
	out := make([]SalesOrder, 0, len(rows))
	for _, row := range rows {
		amount, err := decimal.NewFromString(row.TotalAmount)
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("erp: sales order %s total_amount: %w", row.ID, err))
			continue
		}
		ordered, delivery, err := orderDates(row.OrderDate, row.DeliveryDate)
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("erp: sales order %s: %w", row.ID, err))
			continue
		}
		out = append(out, SalesOrder{
			ID:           row.ID,
			Customer:     row.Customer,
			CustomerType: CustomerType(row.CustomerType),
			ItemCount:    row.Items,
			TotalAmount:  amount,
			OrderDate:    ordered,
			DeliveryDate: delivery,
			Status:       SOStatus(row.Status),
			Priority:     Priority(row.Priority),
		})
	}
	return out, errs
}

func orderDates(orderDate, deliveryDate string) (time.Time, time.Time, error) {
	ordered, err := time.Parse(dateLayout, orderDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("order date: %w", err)
	}
	delivery, err := time.Parse(dateLayout, deliveryDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("delivery date: %w", err)
	}
	if delivery.Before(ordered) {
		return time.Time{}, time.Time{}, fmt.Errorf("delivery date %s precedes order date %s", deliveryDate, orderDate)
	}
	return ordered, delivery, nil
}

func convertUsers(rows []SeedUser, now time.Time) ([]User, error) {
	var errs error
	emails := map[string]string{}
	out := make([]User, 0, len(rows))
	for _, row := range rows {
		key := strings.ToLower(row.Email)
		if other, dup := emails[key]; dup {
			errs = errors.Join(errs, fmt.Errorf("erp: user %s reuses email %s of user %s", row.ID, row.Email, other))
			continue
		}
		emails[key] = row.ID
		ago, err := time.ParseDuration(row.LastLoginAgo)
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("erp: user %s last_login_ago: %w", row.ID, err))
			continue
		}
		out = append(out, User{
			ID:          row.ID,
			Name:        row.Name,
			Email:       row.Email,
			Role:        Role(row.Role),
			Status:      UserStatus(row.Status),
			LastLogin:   now.Add(-ago),
			Permissions: append([]string(nil), row.Permissions...),
		})
	}
	return out, errs
}

func convertReports(rows []SeedReport, now time.Time) ([]ReportTemplate, error) {
	var errs error
	out := make([]ReportTemplate, 0, len(rows))
	for _, row := range rows {
		ago, err := time.ParseDuration(row.LastGeneratedAgo)
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("erp: report %s last_generated_ago: %w", row.ID, err))
			continue
		}
		out = append(out, ReportTemplate{
			ID:            row.ID,
			Title:         row.Title,
			Description:   row.Description,
			Type:          ReportType(row.Type),
			LastGenerated: now.Add(-ago),
		})
	}
	return out, errs
}

func convertRecentOrders(rows []SeedRecentOrder) ([]RecentOrder, error) {
	var errs error
	out := make([]RecentOrder, 0, len(rows))
	for _, row := range rows {
		amount, err := decimal.NewFromString(row.Amount)
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("erp: recent order %s amount: %w", row.ID, err))
			continue
		}
		out = append(out, RecentOrder{ID: row.ID, Customer: row.Customer, Amount: amount, Status: row.Status})
	}
	return out, errs
}
