package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	constituencydomain "github.com/nyarko-dennis/donor-app-backend/internal/constituency/domain"
)

func (s *Server) CreateConstituency(c *gin.Context) {
	var req constituencydomain.CreateConstituencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	constituency, err := s.constituencySvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, constituency)
}

func (s *Server) ListConstituencies(c *gin.Context) {
	var req constituencydomain.ListConstituencyRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.constituencySvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetConstituency(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	constituency, err := s.constituencySvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, constituency)
}

func (s *Server) DeleteConstituency(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := s.constituencySvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (s *Server) CreateSubConstituency(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req constituencydomain.CreateSubConstituencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ConstituencyID = id

	sub, err := s.constituencySvc.CreateSub(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, sub)
}

func (s *Server) ListSubConstituencies(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	subs, err := s.constituencySvc.ListSubs(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"sub_constituencies": subs})
}

func (s *Server) DeleteSubConstituency(c *gin.Context) {
	if _, ok := parseIDParam(c, "id"); !ok {
		return
	}
	subID, ok := parseIDParam(c, "subId")
	if !ok {
		return
	}

	if err := s.constituencySvc.DeleteSub(c.Request.Context(), subID); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
