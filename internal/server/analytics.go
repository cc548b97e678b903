package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func (s *Server) AnalyticsSummary(c *gin.Context) {
	r, ok := parseRange(c)
	if !ok {
		return
	}

	summary, err := s.analyticsSvc.Summary(c.Request.Context(), r)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (s *Server) AnalyticsByCampaign(c *gin.Context) {
	r, ok := parseRange(c)
	if !ok {
		return
	}

	totals, err := s.analyticsSvc.ByCampaign(c.Request.Context(), r)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"campaigns": totals})
}

func (s *Server) AnalyticsByCause(c *gin.Context) {
	r, ok := parseRange(c)
	if !ok {
		return
	}

	totals, err := s.analyticsSvc.ByCause(c.Request.Context(), r)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"causes": totals})
}

func (s *Server) AnalyticsByConstituency(c *gin.Context) {
	r, ok := parseRange(c)
	if !ok {
		return
	}

	totals, err := s.analyticsSvc.ByConstituency(c.Request.Context(), r)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"constituencies": totals})
}

func (s *Server) AnalyticsTopDonors(c *gin.Context) {
	r, ok := parseRange(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	donors, err := s.analyticsSvc.TopDonors(c.Request.Context(), r, limit)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"donors": donors})
}

func (s *Server) AnalyticsRetention(c *gin.Context) {
	r, ok := parseRange(c)
	if !ok {
		return
	}

	retention, err := s.analyticsSvc.Retention(c.Request.Context(), r)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, retention)
}

func (s *Server) AnalyticsDaily(c *gin.Context) {
	r, ok := parseRange(c)
	if !ok {
		return
	}

	totals, err := s.analyticsSvc.Daily(c.Request.Context(), r)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"days": totals})
}
