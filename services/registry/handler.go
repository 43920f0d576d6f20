package registry

import (
	"net/http"

	"saaam-quantumgate/pkg/db/pagination"
	"saaam-quantumgate/services/catalog"

	"github.com/gin-gonic/gin"
)

type handler struct {
	service *Service
}

type issueRequest struct {
	CompanyName string `json:"company_name" binding:"required"`
	Tier        string `json:"tier" binding:"required"`
}

func (h *handler) issue(c *gin.Context) {
	var req issueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(errInvalidRequest("company_name and tier are required"))
		return
	}

	tier, err := catalog.ParseTier(req.Tier)
	if err != nil {
		_ = c.Error(errInvalidRequest(err.Error()))
		return
	}

	lic, err := h.service.Issue(c.Request.Context(), req.CompanyName, tier)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, lic)
}

func (h *handler) list(c *gin.Context) {
	var p pagination.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		_ = c.Error(errInvalidRequest("invalid pagination parameters"))
		return
	}

	licenses, err := h.service.List(c.Request.Context(), p)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"licenses": licenses})
}

func (h *handler) renew(c *gin.Context) {
	lic, err := h.service.Renew(c.Request.Context(), c.Param("license_key"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, lic)
}

func (h *handler) revoke(c *gin.Context) {
	if err := h.service.Revoke(c.Request.Context(), c.Param("license_key")); err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}
