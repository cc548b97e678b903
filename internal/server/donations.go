package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	donationdomain "github.com/nyarko-dennis/donor-app-backend/internal/donation/domain"
	"go.uber.org/zap"
)

// initiateLockTTL bounds how long a crashed request can hold the
// per-email guard before the next attempt gets through.
const initiateLockTTL = 10 * time.Second

func (s *Server) InitiateDonation(c *gin.Context) {
	var req donationdomain.InitiateDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	lock, ok, err := s.initiateLimiter.LockEmail(c.Request.Context(), req.Email, initiateLockTTL)
	if err != nil {
		// Redis being down must not block donations.
		s.log.Warn("initiate email lock failed", zap.Error(err))
	} else if !ok {
		AbortWithError(c, ErrTooManyRequests)
		return
	}
	defer lock.Release(c.Request.Context())

	resp, err := s.donationSvc.Initiate(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (s *Server) CreateDonation(c *gin.Context) {
	var req donationdomain.CreateDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	donation, err := s.donationSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, donation)
}

func (s *Server) GetDonation(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	donation, err := s.donationSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, donation)
}

func (s *Server) ListDonations(c *gin.Context) {
	var req donationdomain.ListDonationRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.donationSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) UpdateDonation(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req donationdomain.UpdateDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	donation, err := s.donationSvc.Update(c.Request.Context(), id, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, donation)
}

func (s *Server) DeleteDonation(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := s.donationSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
