// Package erp holds the ERP records shown by the dashboard, their seed data,
// presentation tables, and the listing pages built on top of them.
package erp

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Priority ranks purchase and sales orders.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// CustomerType segments sales order customers.
type CustomerType string

const (
	CustomerDistributor CustomerType = "Distributor"
	CustomerRetailer    CustomerType = "Retailer"
	CustomerDealer      CustomerType = "Dealer"
	CustomerDirect      CustomerType = "Customer"
)

// Role is the access role of a dashboard user.
type Role string

const (
	RoleAdmin            Role = "Admin"
	RoleFinanceManager   Role = "Finance Manager"
	RoleInventoryManager Role = "Inventory Manager"
	RoleSalesManager     Role = "Sales Manager"
	RoleVendor           Role = "Vendor"
)

// UserStatus tells whether an account can sign in.
type UserStatus string

const (
	UserActive   UserStatus = "Active"
	UserInactive UserStatus = "Inactive"
)

// ReportType groups report templates.
type ReportType string

const (
	ReportSales     ReportType = "Sales"
	ReportInventory ReportType = "Inventory"
	ReportPurchase  ReportType = "Purchase"
	ReportCustomer  ReportType = "Customer"
	ReportFinance   ReportType = "Finance"
	ReportProduct   ReportType = "Product"
)

// PurchaseOrder is an order placed with a vendor.
type PurchaseOrder struct {
	ID               string          `json:"id"`
	Vendor           string          `json:"vendor"`
	ItemCount        int             `json:"items"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	OrderDate        time.Time       `json:"order_date"`
	ExpectedDelivery time.Time       `json:"expected_delivery"`
	Status           POStatus        `json:"status"`
	Priority         Priority        `json:"priority"`
}

// SalesOrder is an order received from a customer.
type SalesOrder struct {
	ID           string          `json:"id"`
	Customer     string          `json:"customer"`
	CustomerType CustomerType    `json:"customer_type"`
	ItemCount    int             `json:"items"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	OrderDate    time.Time       `json:"order_date"`
	DeliveryDate time.Time       `json:"delivery_date"`
	Status       SOStatus        `json:"status"`
	Priority     Priority        `json:"priority"`
}

// User is a dashboard account.
type User struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Role        Role       `json:"role"`
	Status      UserStatus `json:"status"`
	LastLogin   time.Time  `json:"last_login"`
	Permissions []string   `json:"permissions"`
}

// Initials returns the avatar initials of the user name.
func (u User) Initials() string {
	var b strings.Builder
	for _, part := range strings.Fields(u.Name) {
		r := []rune(part)
		b.WriteString(strings.ToUpper(string(r[0])))
	}
	return b.String()
}

// ReportTemplate is a predefined report.
type ReportTemplate struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Type          ReportType `json:"type"`
	LastGenerated time.Time  `json:"last_generated"`
}

// RoleStat is a headcount per role shown on the users page.
type RoleStat struct {
	Role  string `json:"role" yaml:"role" validate:"required"`
	Count int    `json:"count" yaml:"count" validate:"gte=0"`
}

// RecentOrder is a compact order row of the dashboard.
type RecentOrder struct {
	ID       string          `json:"id"`
	Customer string          `json:"customer"`
	Amount   decimal.Decimal `json:"amount"`
	Status   string          `json:"status"`
}

// StockAlert flags an item below its minimum level.
type StockAlert struct {
	Item     string `json:"item" yaml:"item" validate:"required"`
	Current  int    `json:"current" yaml:"current" validate:"gte=0"`
	Minimum  int    `json:"minimum" yaml:"minimum" validate:"gte=0"`
	Category string `json:"category" yaml:"category"`
}

// Shortfall returns how many units are missing to reach the minimum.
func (a StockAlert) Shortfall() int {
	if a.Current >= a.Minimum {
		return 0
	}
	return a.Minimum - a.Current
}
