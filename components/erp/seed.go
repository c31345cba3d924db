package erp

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-erp-dashboard/components/records"
)

// SeedVersion is the supported seed document version.
const SeedVersion = "1"

//go:embed seed/erp.yaml
var defaultSeed []byte

// Seed is the decoded seed document.
type Seed struct {
	Version         string              `yaml:"version" validate:"required"`
	Products        []SeedProduct       `yaml:"products" validate:"dive"`
	PurchaseOrders  []SeedPurchaseOrder `yaml:"purchase_orders" validate:"dive"`
	SalesOrders     []SeedSalesOrder    `yaml:"sales_orders" validate:"dive"`
	Users           []SeedUser          `yaml:"users" validate:"dive"`
	RoleStats       []RoleStat          `yaml:"role_stats" validate:"dive"`
	ReportTemplates []SeedReport        `yaml:"report_templates" validate:"dive"`
	RecentOrders    []SeedRecentOrder   `yaml:"recent_orders" validate:"dive"`
	StockAlerts     []StockAlert        `yaml:"stock_alerts" validate:"dive"`
	Charts          []SeedChart         `yaml:"charts" validate:"dive"`
	KPIs            map[string][]KPI    `yaml:"kpis" validate:"dive,dive"`
	Source          string              `yaml:"-"`
}

// SeedProduct is a product row. TotalValue is checked against stock and price.
// Stock status is always derived, so rows carry none.
type SeedProduct struct {
	ID           string `yaml:"id" validate:"required"`
	Name         string `yaml:"name" validate:"required"`
	Category     string `yaml:"category" validate:"required"`
	SKU          string `yaml:"sku" validate:"required"`
	CurrentStock int    `yaml:"current_stock" validate:"gte=0"`
	MinimumStock int    `yaml:"minimum_stock" validate:"gte=0"`
	UnitPrice    string `yaml:"unit_price" validate:"required,numeric"`
	TotalValue   string `yaml:"total_value" validate:"omitempty,numeric"`
	Supplier     string `yaml:"supplier"`
}

// SeedPurchaseOrder is a purchase order row.
type SeedPurchaseOrder struct {
	ID               string `yaml:"id" validate:"required"`
	Vendor           string `yaml:"vendor" validate:"required"`
	Items            int    `yaml:"items" validate:"gte=0"`
	TotalAmount      string `yaml:"total_amount" validate:"required,numeric"`
	OrderDate        string `yaml:"order_date" validate:"required,datetime=2006-01-02"`
	ExpectedDelivery string `yaml:"expected_delivery" validate:"required,datetime=2006-01-02"`
	Status           string `yaml:"status" validate:"required"`
	Priority         string `yaml:"priority" validate:"required"`
}

// SeedSalesOrder is a sales order row.
type SeedSalesOrder struct {
	ID           string `yaml:"id" validate:"required"`
	Customer     string `yaml:"customer" validate:"required"`
	CustomerType string `yaml:"customer_type" validate:"required"`
	Items        int    `yaml:"items" validate:"gte=0"`
	TotalAmount  string `yaml:"total_amount" validate:"required,numeric"`
	OrderDate    string `yaml:"order_date" validate:"required,datetime=2006-01-02"`
	DeliveryDate string `yaml:"delivery_date" validate:"required,datetime=2006-01-02"`
	Status       string `yaml:"status" validate:"required"`
	Priority     string `yaml:"priority" validate:"required"`
}

// SeedUser is a user row. LastLoginAgo is relative to the catalog clock.
type SeedUser struct {
	ID           string   `yaml:"id" validate:"required"`
	Name         string   `yaml:"name" validate:"required"`
	Email        string   `yaml:"email" validate:"required,email"`
	Role         string   `yaml:"role" validate:"required"`
	Status       string   `yaml:"status" validate:"required,oneof=Active Inactive"`
	LastLoginAgo string   `yaml:"last_login_ago" validate:"required"`
	Permissions  []string `yaml:"permissions" validate:"dive,required"`
}

// SeedReport is a report template row.
type SeedReport struct {
	ID               string `yaml:"id" validate:"required"`
	Title            string `yaml:"title" validate:"required"`
	Description      string `yaml:"description"`
	Type             string `yaml:"type" validate:"required"`
	LastGeneratedAgo string `yaml:"last_generated_ago" validate:"required"`
}

// SeedRecentOrder is a dashboard recent order row.
type SeedRecentOrder struct {
	ID       string `yaml:"id" validate:"required"`
	Customer string `yaml:"customer" validate:"required"`
	Amount   string `yaml:"amount" validate:"required,numeric"`
	Status   string `yaml:"status" validate:"required"`
}

// SeedChart is a named chart dataset.
type SeedChart struct {
	Code              string `yaml:"code" validate:"required"`
	records.ChartSpec `yaml:",inline"`
}

var seedValidator = newSeedValidator()

func newSeedValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return f.Name
		}
		return tag
	})
	return v
}

// DefaultSeed decodes the embedded seed document.
func DefaultSeed() (*Seed, error) {
	seed, err := DecodeSeed(bytes.NewReader(defaultSeed))
	if err != nil {
		return nil, err
	}
	seed.Source = "embedded"
	return seed, nil
}

// ReadSeed decodes a seed document from disk.
func ReadSeed(path string) (*Seed, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("erp: open seed %s: %w", path, err)
	}
	defer f.Close()
	seed, err := DecodeSeed(f)
	if err != nil {
		return nil, fmt.Errorf("erp: decode seed %s: %w", path, err)
	}
	seed.Source = path
	return seed, nil
}

// DecodeSeed parses and validates a seed document.
func DecodeSeed(r io.Reader) (*Seed, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	var seed Seed
	if err := decoder.Decode(&seed); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("erp: seed is empty")
		}
		return nil, fmt.Errorf("erp: parse seed: %w", err)
	}
	if seed.Version == "" {
		seed.Version = SeedVersion
	}
	if err := seed.Validate(); err != nil {
		return nil, err
	}
	return &seed, nil
}

// Validate checks field constraints of every seed row.
func (s *Seed) Validate() error {
	if s.Version != SeedVersion {
		return fmt.Errorf("erp: unsupported seed version %q", s.Version)
	}
	if err := seedValidator.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("erp: invalid seed: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("erp: invalid seed: %w", err)
	}
	return nil
}
