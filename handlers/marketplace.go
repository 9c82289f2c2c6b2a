// handlers/marketplace.go
package handlers

import (
	"io"
	"mime/multipart"
	"net/http"

	"suntrack/middleware"
	"suntrack/services/marketplace"
	"suntrack/utils"

	"github.com/gin-gonic/gin"
)

// MarketplaceLimitsHandler reports publication constraints.
func (h *HandlerBundle) MarketplaceLimitsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, h.MarketplaceService.GetLimits())
}

// GetPublicationsHandler returns a filtered page of publications.
func (h *HandlerBundle) GetPublicationsHandler(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)

	var pagination marketplace.Pagination
	if err := c.ShouldBindQuery(&pagination); err != nil {
		utils.RespondError(c, utils.NewBadRequest(utils.CodeGenericBadRequest, "invalid pagination: "+err.Error()))
		return
	}
	var filters marketplace.Filters
	if err := c.ShouldBindQuery(&filters); err != nil {
		utils.RespondError(c, utils.NewBadRequest(utils.CodeGenericBadRequest, "invalid filters: "+err.Error()))
		return
	}

	page, err := h.MarketplaceService.GetPublications(c.Request.Context(), userID, pagination, filters)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// PostProductHandler publishes a product with its image parts.
func (h *HandlerBundle) PostProductHandler(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)

	var req marketplace.PostProductRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.RespondError(c, utils.NewBadRequest(utils.CodeGenericBadRequest, "invalid request: "+err.Error()))
		return
	}

	images, cleanup, err := formImages(c)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	defer cleanup()

	view, err := h.MarketplaceService.PostProduct(c.Request.Context(), userID, images, req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// PostServiceHandler publishes a service with its image parts.
func (h *HandlerBundle) PostServiceHandler(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)

	var req marketplace.PostServiceRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.RespondError(c, utils.NewBadRequest(utils.CodeGenericBadRequest, "invalid request: "+err.Error()))
		return
	}

	images, cleanup, err := formImages(c)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	defer cleanup()

	view, err := h.MarketplaceService.PostService(c.Request.Context(), userID, images, req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// DeletePublicationHandler removes a publication; publisher only.
func (h *HandlerBundle) DeletePublicationHandler(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)

	if err := h.MarketplaceService.DeletePublication(c.Request.Context(), userID, c.Param("id")); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// formImages opens every "images" part of the multipart form. The
// returned cleanup closes all opened files.
func formImages(c *gin.Context) ([]io.Reader, func(), error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil, utils.NewBadRequest(utils.CodeGenericBadRequest, "invalid multipart form")
	}

	files := form.File["images"]
	readers := make([]io.Reader, 0, len(files))
	opened := make([]multipart.File, 0, len(files))
	cleanup := func() {
		for _, f := range opened {
			f.Close()
		}
	}

	for _, header := range files {
		f, err := header.Open()
		if err != nil {
			cleanup()
			return nil, nil, utils.NewBadRequest(utils.CodeGenericBadRequest, "unreadable image part")
		}
		opened = append(opened, f)
		readers = append(readers, f)
	}
	return readers, cleanup, nil
}
