package analytics

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/electioncart/electioncart/internal/status"
)

// ExportCSV writes the full analytics report as CSV sections: revenue
// metrics, conversion metrics, top products, staff performance, and the
// order status distribution.
func (s *Service) ExportCSV(w io.Writer, start, end *time.Time, limit int) error {
	revenue, err := s.GetRevenueMetrics(start, end)
	if err != nil {
		return err
	}
	conversion, err := s.GetConversionRate(start, end)
	if err != nil {
		return err
	}
	topProducts, err := s.GetTopProducts(limit, start, end)
	if err != nil {
		return err
	}
	performance, err := s.GetStaffPerformance(start, end)
	if err != nil {
		return err
	}
	distribution, err := s.GetStatusDistribution(start, end)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)

	write := func(record ...string) {
		_ = cw.Write(record)
	}

	write("Revenue Metrics")
	write("Total Revenue", "Order Count", "Average Order Value")
	write(revenue.TotalRevenue.StringFixed(2),
		strconv.FormatInt(revenue.OrderCount, 10),
		revenue.AverageOrderValue.StringFixed(2))
	write()

	write("Conversion Metrics")
	write("Total Orders", "Paid Orders", "Conversion Rate (%)")
	write(strconv.FormatInt(conversion.TotalOrders, 10),
		strconv.FormatInt(conversion.PaidOrders, 10),
		fmt.Sprintf("%.2f", conversion.ConversionRate))
	write()

	write("Top Products")
	write("Product Type", "Product Name", "Quantity Sold", "Revenue")
	for _, p := range topProducts {
		write(string(p.ProductType), p.ProductName,
			strconv.FormatInt(p.QuantitySold, 10), p.Revenue.StringFixed(2))
	}
	write()

	write("Staff Performance")
	write("Staff Name", "Role", "Assigned Orders", "Completed Orders", "Completion Rate (%)")
	for _, p := range performance {
		write(p.StaffName, p.Role,
			strconv.FormatInt(p.AssignedOrders, 10),
			strconv.FormatInt(p.CompletedOrders, 10),
			fmt.Sprintf("%.2f", p.CompletionRate))
	}
	write()

	write("Order Status Distribution")
	write("Status", "Count")
	for _, st := range status.All() {
		if entry, ok := distribution[st]; ok {
			write(entry.Label, strconv.FormatInt(entry.Count, 10))
		}
	}

	cw.Flush()
	return cw.Error()
}
