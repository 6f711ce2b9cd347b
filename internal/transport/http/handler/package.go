package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"turbot/internal/app"
	"turbot/internal/repository"
	"turbot/internal/transport/http/response"
)

type PackageHandler struct {
	ingest *app.IngestService
}

func NewPackageHandler(ingest *app.IngestService) *PackageHandler {
	return &PackageHandler{ingest: ingest}
}

func (h *PackageHandler) List(c *gin.Context) {
	packages, err := h.ingest.ListPackages()
	if err != nil {
		h.writeStoreError(c, err, "list travel packages failed")
		return
	}
	response.OK(c, gin.H{
		"packages": packages,
		"total":    len(packages),
	})
}

func (h *PackageHandler) Get(c *gin.Context) {
	id64, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id64 == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid package id")
		return
	}

	pkg, err := h.ingest.GetPackage(uint(id64))
	if err != nil {
		if errors.Is(err, app.ErrPackageNotFound) {
			response.Error(c, http.StatusNotFound, response.CodePackageNotFound, err.Error())
			return
		}
		h.writeStoreError(c, err, "get travel package failed")
		return
	}
	response.OK(c, pkg)
}

// Search filters packages by optional destination, duration bounds and
// transport type; all supplied filters must match.
func (h *PackageHandler) Search(c *gin.Context) {
	filter := repository.SearchFilter{
		Destination: strings.TrimSpace(c.Query("destination")),
		Transport:   strings.TrimSpace(c.Query("transport_type")),
	}
	if raw := c.Query("min_days"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			filter.MinDays = &v
		}
	}
	if raw := c.Query("max_days"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			filter.MaxDays = &v
		}
	}

	packages, err := h.ingest.SearchPackages(filter)
	if err != nil {
		h.writeStoreError(c, err, "search travel packages failed")
		return
	}
	response.OK(c, gin.H{
		"packages": packages,
		"total":    len(packages),
		"search_params": gin.H{
			"destination":    filter.Destination,
			"min_days":       filter.MinDays,
			"max_days":       filter.MaxDays,
			"transport_type": filter.Transport,
		},
	})
}

func (h *PackageHandler) writeStoreError(c *gin.Context, err error, fallback string) {
	if errors.Is(err, app.ErrStoreUnavailable) {
		response.Error(c, http.StatusServiceUnavailable, response.CodeStoreUnavailable, err.Error())
		return
	}
	response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, fallback)
}
