package controller

import (
	"errors"

	"icehc_portal/internal/service"
	"icehc_portal/internal/util"

	"github.com/gin-gonic/gin"
)

const maxUploadSize = 50 << 20 // 50 MiB

type DocumentController struct {
	DocumentService *service.DocumentService
}

func NewDocumentController(documentService *service.DocumentService) *DocumentController {
	return &DocumentController{DocumentService: documentService}
}

// ListDocuments godoc
// @Summary Shared documents
// @Tags documents
// @Produce  json
// @Security ApiKeyAuth
// @Param   page query int false "Page"
// @Param   limit query int false "Page size"
// @Param   keyword query string false "Title/description search"
// @Success 200 {object} util.Response{data=util.PageResponse} "Success"
// @Router /api/documents [get]
func (c *DocumentController) ListDocuments(ctx *gin.Context) {
	page := util.QueryInt(ctx, "page", 1)
	limit := util.QueryInt(ctx, "limit", 20)

	docs, total, err := c.DocumentService.List(page, limit, ctx.Query("keyword"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: docs, Total: total, Page: page, Limit: limit})
}

// GetDocument godoc
// @Summary One document
// @Tags documents
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "Document ID"
// @Success 200 {object} util.Response{data=model.Document} "Success"
// @Failure 404 {object} util.Response "Not found"
// @Router /api/documents/{id} [get]
func (c *DocumentController) GetDocument(ctx *gin.Context) {
	doc, err := c.DocumentService.Get(ctx.Param("id"))
	if err != nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, doc)
}

// UploadDocument godoc
// @Summary Upload a document
// @Tags documents
// @Accept  multipart/form-data
// @Produce  json
// @Security ApiKeyAuth
// @Param   file formData file true "File"
// @Param   title formData string true "Title"
// @Param   description formData string false "Description"
// @Success 201 {object} util.Response{data=model.Document} "Created"
// @Failure 400 {object} util.Response "Invalid upload"
// @Router /api/documents [post]
func (c *DocumentController) UploadDocument(ctx *gin.Context) {
	claims := util.GetMemberFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}
	if fileHeader.Size > maxUploadSize {
		util.BadRequest(ctx, "file too large")
		return
	}

	title := ctx.PostForm("title")
	if title == "" {
		util.BadRequest(ctx, "title is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	doc, err := c.DocumentService.Upload(
		ctx.Request.Context(),
		claims.MemberID,
		title,
		ctx.PostForm("description"),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		file,
		fileHeader.Size,
	)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, doc)
}

// DownloadDocument godoc
// @Summary Resolve a document's download URL
// @Tags documents
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "Document ID"
// @Success 200 {object} util.Response{data=object} "Success"
// @Failure 404 {object} util.Response "Not found"
// @Router /api/documents/{id}/download [get]
func (c *DocumentController) DownloadDocument(ctx *gin.Context) {
	doc, err := c.DocumentService.Download(ctx.Param("id"))
	if err != nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, gin.H{"url": doc.FileURL, "contentType": doc.ContentType})
}

// TrashDocument godoc
// @Summary Move a document to trash
// @Description Uploader or an admin only
// @Tags documents
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "Document ID"
// @Success 200 {object} util.Response "Success"
// @Failure 403 {object} util.Response "Forbidden"
// @Failure 404 {object} util.Response "Not found"
// @Router /api/documents/{id} [delete]
func (c *DocumentController) TrashDocument(ctx *gin.Context) {
	claims := util.GetMemberFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.DocumentService.Trash(ctx.Param("id"), claims); err != nil {
		switch {
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		case errors.Is(err, util.ErrDocumentNotFound):
			util.NotFound(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}

// ListTrash godoc
// @Summary Trashed documents (admin)
// @Tags admin
// @Produce  json
// @Security ApiKeyAuth
// @Param   page query int false "Page"
// @Param   limit query int false "Page size"
// @Success 200 {object} util.Response{data=util.PageResponse} "Success"
// @Router /api/admin/documents/trash [get]
func (c *DocumentController) ListTrash(ctx *gin.Context) {
	page := util.QueryInt(ctx, "page", 1)
	limit := util.QueryInt(ctx, "limit", 20)

	docs, total, err := c.DocumentService.ListTrash(page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: docs, Total: total, Page: page, Limit: limit})
}

// RestoreDocument godoc
// @Summary Restore a trashed document (admin)
// @Tags admin
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "Document ID"
// @Success 200 {object} util.Response{data=model.Document} "Success"
// @Failure 404 {object} util.Response "Not found"
// @Router /api/admin/documents/{id}/restore [post]
func (c *DocumentController) RestoreDocument(ctx *gin.Context) {
	doc, err := c.DocumentService.Restore(ctx.Param("id"))
	if err != nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, doc)
}

// PurgeDocument godoc
// @Summary Permanently delete a trashed document (admin)
// @Tags admin
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "Document ID"
// @Success 200 {object} util.Response "Success"
// @Failure 404 {object} util.Response "Not found"
// @Router /api/admin/documents/{id}/purge [delete]
func (c *DocumentController) PurgeDocument(ctx *gin.Context) {
	if err := c.DocumentService.Purge(ctx.Request.Context(), ctx.Param("id")); err != nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, nil)
}
