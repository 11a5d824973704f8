package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/electioncart/electioncart/internal/analytics"
)

// parseDateRange reads optional start_date/end_date query params
// (YYYY-MM-DD). When neither is given the range defaults to the current
// calendar month.
func parseDateRange(c *gin.Context) (start, end *time.Time, ok bool) {
	parse := func(name string) (*time.Time, bool) {
		raw := c.Query(name)
		if raw == "" {
			return nil, true
		}
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, name+" must be YYYY-MM-DD")
			return nil, false
		}
		return &t, true
	}

	start, ok = parse("start_date")
	if !ok {
		return nil, nil, false
	}
	end, ok = parse("end_date")
	if !ok {
		return nil, nil, false
	}
	// End of day so the range is inclusive.
	if end != nil {
		e := end.Add(24*time.Hour - time.Second)
		end = &e
	}
	if start == nil && end == nil {
		s, e := analytics.DefaultRange(time.Now())
		start, end = &s, &e
	}
	return start, end, true
}

func (s *Server) analyticsOverview(c *gin.Context) {
	start, end, ok := parseDateRange(c)
	if !ok {
		return
	}

	revenue, err := s.analytics.GetRevenueMetrics(start, end)
	if err != nil {
		s.serviceError(c, err)
		return
	}
	conversion, err := s.analytics.GetConversionRate(start, end)
	if err != nil {
		s.serviceError(c, err)
		return
	}
	distribution, err := s.analytics.GetStatusDistribution(start, end)
	if err != nil {
		s.serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"revenue":             revenue,
		"conversion":          conversion,
		"status_distribution": distribution,
	})
}

func (s *Server) analyticsRevenueTrend(c *gin.Context) {
	months := 12
	if raw := c.Query("months"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 24 {
			respondError(c, http.StatusBadRequest, "months must be between 1 and 24")
			return
		}
		months = parsed
	}

	trend, err := s.analytics.GetRevenueTrend(months)
	if err != nil {
		s.serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trend": trend, "months": months})
}

func (s *Server) analyticsTopProducts(c *gin.Context) {
	start, end, ok := parseDateRange(c)
	if !ok {
		return
	}
	limit := 5
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 50 {
			respondError(c, http.StatusBadRequest, "limit must be between 1 and 50")
			return
		}
		limit = parsed
	}

	products, err := s.analytics.GetTopProducts(limit, start, end)
	if err != nil {
		s.serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products, "count": len(products)})
}

func (s *Server) analyticsStaffPerformance(c *gin.Context) {
	start, end, ok := parseDateRange(c)
	if !ok {
		return
	}
	performance, err := s.analytics.GetStaffPerformance(start, end)
	if err != nil {
		s.serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"staff": performance, "count": len(performance)})
}

func (s *Server) analyticsOrderDistribution(c *gin.Context) {
	start, end, ok := parseDateRange(c)
	if !ok {
		return
	}
	distribution, err := s.analytics.GetStatusDistribution(start, end)
	if err != nil {
		s.serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"distribution": distribution})
}

// analyticsGrowth compares revenue in the requested range (default: current
// month) against the same range one year earlier.
func (s *Server) analyticsGrowth(c *gin.Context) {
	start, end, ok := parseDateRange(c)
	if !ok {
		return
	}
	if start == nil || end == nil {
		respondError(c, http.StatusBadRequest, "start_date and end_date must be given together")
		return
	}
	prevStart := start.AddDate(-1, 0, 0)
	prevEnd := end.AddDate(-1, 0, 0)

	growth, err := s.analytics.GetYearOverYearGrowth(*start, *end, prevStart, prevEnd)
	if err != nil {
		s.serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, growth)
}

func (s *Server) analyticsExport(c *gin.Context) {
	start, end, ok := parseDateRange(c)
	if !ok {
		return
	}

	filename := "analytics-" + time.Now().Format("20060102") + ".csv"
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := s.analytics.ExportCSV(c.Writer, start, end, 5); err != nil {
		s.log.Error("analytics export failed", "error", err)
		respondError(c, http.StatusInternalServerError, "export failed")
	}
}
