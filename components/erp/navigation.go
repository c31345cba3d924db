package erp

// Navigation sections.
const (
	SectionMain       = "Main Menu"
	SectionManagement = "Management"
	SectionSystem     = "System"
)

// NavItem is one sidebar entry. Page is set when the entry is backed by a
// dashboard page.
type NavItem struct {
	Title   string `json:"title" yaml:"title"`
	Path    string `json:"path" yaml:"path"`
	Icon    string `json:"icon" yaml:"icon"`
	Section string `json:"section" yaml:"section"`
	Page    string `json:"page,omitempty" yaml:"page,omitempty"`
}

var navigation = []NavItem{
	{Title: "Dashboard", Path: "/", Icon: "layout-dashboard", Section: SectionMain, Page: PageDashboard},
	{Title: "User Management", Path: "/users", Icon: "users", Section: SectionMain, Page: PageUsers},
	{Title: "Inventory", Path: "/inventory", Icon: "package", Section: SectionMain, Page: PageInventory},
	{Title: "Purchase Orders", Path: "/purchase", Icon: "shopping-cart", Section: SectionMain, Page: PagePurchaseOrders},
	{Title: "Sales Orders", Path: "/sales", Icon: "receipt", Section: SectionMain, Page: PageSalesOrders},
	{Title: "Pricing & Billing", Path: "/pricing", Icon: "dollar-sign", Section: SectionMain},
	{Title: "Finance", Path: "/finance", Icon: "credit-card", Section: SectionMain},
	{Title: "Reports", Path: "/reports", Icon: "bar-chart-3", Section: SectionMain, Page: PageReports},
	{Title: "Vendors", Path: "/vendors", Icon: "building-2", Section: SectionManagement},
	{Title: "Customers", Path: "/customers", Icon: "users", Section: SectionManagement},
	{Title: "Analytics", Path: "/analytics", Icon: "trending-up", Section: SectionManagement},
	{Title: "Notifications", Path: "/notifications", Icon: "bell", Section: SectionManagement},
	{Title: "Security", Path: "/security", Icon: "shield", Section: SectionSystem},
	{Title: "Settings", Path: "/settings", Icon: "settings", Section: SectionSystem},
}

// Navigation returns the sidebar entries in display order.
func Navigation() []NavItem {
	return append([]NavItem(nil), navigation...)
}

// NavigationFor returns the entry serving path.
func NavigationFor(path string) (NavItem, bool) {
	for _, item := range navigation {
		if item.Path == path {
			return item, true
		}
	}
	return NavItem{}, false
}
