package erp

import "github.com/goliatone/go-erp-dashboard/components/records"

// Presentation tables for every classified field. Unknown values fall back
// to the neutral style.
var (
	StockStatusStyles = records.NewClassifier("stock_status", []records.Entry{
		{Value: string(StockOut), Style: records.Style{Severity: records.SeverityDanger, Variant: "destructive", Icon: "alert-triangle"}},
		{Value: string(StockLow), Style: records.Style{Severity: records.SeverityWarning, Variant: "secondary", Icon: "trending-down", Class: "bg-warning text-warning-foreground"}},
		{Value: string(StockIn), Style: records.Style{Severity: records.SeveritySuccess, Variant: "default", Class: "bg-success text-success-foreground"}},
	})

	PurchaseStatusStyles = records.NewClassifier("purchase_status", []records.Entry{
		{Value: string(POPending), Style: records.Style{Severity: records.SeverityWarning, Variant: "outline", Icon: "clock", Class: "bg-warning-light text-warning border-warning/20"}},
		{Value: string(POApproved), Style: records.Style{Severity: records.SeverityPrimary, Variant: "secondary", Icon: "check-circle", Class: "bg-primary-light text-primary border-primary/20"}},
		{Value: string(POShipped), Style: records.Style{Severity: records.SeveritySecondary, Variant: "default", Icon: "truck", Class: "bg-secondary text-secondary-foreground"}},
		{Value: string(PODelivered), Style: records.Style{Severity: records.SeveritySuccess, Variant: "default", Icon: "check-circle", Class: "bg-success text-success-foreground"}},
		{Value: string(POCancelled), Style: records.Style{Severity: records.SeverityDanger, Variant: "destructive", Icon: "x-circle"}},
	})

	SalesStatusStyles = records.NewClassifier("sales_status", []records.Entry{
		{Value: string(SOProcessing), Style: records.Style{Severity: records.SeverityWarning, Variant: "outline", Icon: "clock", Class: "bg-warning-light text-warning border-warning/20"}},
		{Value: string(SOPacked), Style: records.Style{Severity: records.SeverityPrimary, Variant: "secondary", Icon: "package", Class: "bg-primary-light text-primary border-primary/20"}},
		{Value: string(SOShipped), Style: records.Style{Severity: records.SeveritySecondary, Variant: "default", Icon: "truck"}},
		{Value: string(SODelivered), Style: records.Style{Severity: records.SeveritySuccess, Variant: "default", Icon: "check-circle"}},
		{Value: string(SOCancelled), Style: records.Style{Severity: records.SeverityDanger, Variant: "destructive", Icon: "x-circle"}},
	})

	PriorityStyles = records.NewClassifier("priority", []records.Entry{
		{Value: string(PriorityHigh), Style: records.Style{Severity: records.SeverityDanger, Variant: "outline", Class: "bg-destructive/10 text-destructive border-destructive/20"}},
		{Value: string(PriorityMedium), Style: records.Style{Severity: records.SeverityWarning, Variant: "outline", Class: "bg-warning-light text-warning border-warning/20"}},
		{Value: string(PriorityLow), Style: records.Style{Severity: records.SeveritySuccess, Variant: "outline", Class: "bg-success-light text-success border-success/20"}},
	})

	CustomerTypeStyles = records.NewClassifier("customer_type", []records.Entry{
		{Value: string(CustomerDistributor), Style: records.Style{Severity: records.SeverityPrimary, Variant: "outline", Class: "bg-primary-light text-primary border-primary/20"}},
		{Value: string(CustomerDealer), Style: records.Style{Severity: records.SeveritySuccess, Variant: "outline", Class: "bg-success-light text-success border-success/20"}},
		{Value: string(CustomerRetailer), Style: records.Style{Severity: records.SeverityWarning, Variant: "outline", Class: "bg-warning-light text-warning border-warning/20"}},
		{Value: string(CustomerDirect), Style: records.Style{Severity: records.SeveritySecondary, Variant: "outline"}},
	})

	RoleStyles = records.NewClassifier("role", []records.Entry{
		{Value: string(RoleAdmin), Style: records.Style{Severity: records.SeverityPrimary, Variant: "outline", Icon: "shield", Class: "bg-primary-light text-primary border-primary/20"}},
		{Value: string(RoleFinanceManager), Style: records.Style{Severity: records.SeveritySuccess, Variant: "outline", Class: "bg-success-light text-success border-success/20"}},
		{Value: string(RoleInventoryManager), Style: records.Style{Severity: records.SeverityWarning, Variant: "outline", Class: "bg-warning-light text-warning border-warning/20"}},
		{Value: string(RoleSalesManager), Style: records.Style{Severity: records.SeveritySecondary, Variant: "outline"}},
		{Value: string(RoleVendor), Style: records.Style{Severity: records.SeverityNeutral, Variant: "outline"}},
	})

	UserStatusStyles = records.NewClassifier("user_status", []records.Entry{
		{Value: string(UserActive), Style: records.Style{Severity: records.SeveritySuccess, Variant: "default", Icon: "user-check"}},
		{Value: string(UserInactive), Style: records.Style{Severity: records.SeverityNeutral, Variant: "secondary", Icon: "user-x"}},
	})

	ReportTypeStyles = records.NewClassifier("report_type", []records.Entry{
		{Value: string(ReportSales), Style: records.Style{Severity: records.SeverityPrimary, Variant: "outline", Class: "bg-primary-light text-primary border-primary/20"}},
		{Value: string(ReportInventory), Style: records.Style{Severity: records.SeverityWarning, Variant: "outline", Class: "bg-warning-light text-warning border-warning/20"}},
		{Value: string(ReportPurchase), Style: records.Style{Severity: records.SeveritySuccess, Variant: "outline", Class: "bg-success-light text-success border-success/20"}},
		{Value: string(ReportCustomer), Style: records.Style{Severity: records.SeveritySecondary, Variant: "outline"}},
		{Value: string(ReportFinance), Style: records.Style{Severity: records.SeverityDanger, Variant: "outline", Class: "bg-destructive/10 text-destructive border-destructive/20"}},
		{Value: string(ReportProduct), Style: records.Style{Severity: records.SeverityAccent, Variant: "outline"}},
	})

	// OrderStatusStyles covers the mixed statuses of the recent orders widget.
	OrderStatusStyles = records.NewClassifier("order_status", []records.Entry{
		{Value: "Pending", Style: records.Style{Severity: records.SeverityWarning, Variant: "secondary"}},
		{Value: "Processing", Style: records.Style{Severity: records.SeverityPrimary, Variant: "secondary"}},
		{Value: "Shipped", Style: records.Style{Severity: records.SeveritySecondary, Variant: "secondary"}},
		{Value: "Delivered", Style: records.Style{Severity: records.SeveritySuccess, Variant: "secondary"}},
		{Value: "Cancelled", Style: records.Style{Severity: records.SeverityDanger, Variant: "destructive"}},
	})

	// ChangeStyles classifies the trend badge of a KPI tile.
	ChangeStyles = records.NewClassifier("kpi_change", []records.Entry{
		{Value: string(ChangeIncrease), Style: records.Style{Severity: records.SeveritySuccess, Icon: "trending-up", Class: "text-success"}},
		{Value: string(ChangeDecrease), Style: records.Style{Severity: records.SeverityDanger, Icon: "trending-down", Class: "text-destructive"}},
		{Value: string(ChangeNeutral), Style: records.Style{Severity: records.SeverityNeutral, Class: "text-muted-foreground"}},
	})
)

// Classifiers lists every presentation table by name.
func Classifiers() []*records.Classifier {
	return []*records.Classifier{
		StockStatusStyles,
		PurchaseStatusStyles,
		SalesStatusStyles,
		PriorityStyles,
		CustomerTypeStyles,
		RoleStyles,
		UserStatusStyles,
		ReportTypeStyles,
		OrderStatusStyles,
		ChangeStyles,
	}
}
