package handler

import (
	"errors"
	"net/http"
	"strconv"

	"hermandad/internal/constants"
	"hermandad/internal/model"
	"hermandad/internal/service"
	"hermandad/internal/session"
	"hermandad/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ItemHandler 公开的列表与详情页
type ItemHandler struct {
	itemService *service.ItemService
	sessions    *session.Manager
	logger      *logger.Logger
}

// NewItemHandler 创建公告处理器实例
func NewItemHandler(itemService *service.ItemService, sessions *session.Manager, logger *logger.Logger) *ItemHandler {
	return &ItemHandler{
		itemService: itemService,
		sessions:    sessions,
		logger:      logger,
	}
}

// Index 列表页 GET /
func (h *ItemHandler) Index(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	perPage, err := strconv.Atoi(c.DefaultQuery("per_page", strconv.Itoa(service.DefaultPerPage)))
	if err != nil {
		perPage = service.DefaultPerPage
	}

	listing, err := h.itemService.List(c.Request.Context(), service.ListParams{
		Region:  c.DefaultQuery("provincia", model.RegionAll),
		Query:   c.Query("q"),
		Page:    page,
		PerPage: perPage,
	})
	if err != nil {
		h.logger.Error("获取公告列表失败", "error", err)
		renderInternalError(c, h.sessions)
		return
	}

	renderPage(c, h.sessions, http.StatusOK, "index.html", gin.H{
		"Listing": listing,
		"Regions": model.Regions,
	})
}

// Detail 详情页 GET /noticia/:id
func (h *ItemHandler) Detail(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		renderError(c, h.sessions, http.StatusNotFound, constants.ErrNotFound)
		return
	}

	detail, err := h.itemService.Detail(c.Request.Context(), id)
	if errors.Is(err, service.ErrNotFound) {
		renderError(c, h.sessions, http.StatusNotFound, constants.ErrNotFound)
		return
	}
	if err != nil {
		h.logger.Error("获取公告详情失败", "id", id, "error", err)
		renderInternalError(c, h.sessions)
		return
	}

	renderPage(c, h.sessions, http.StatusOK, "detail.html", gin.H{
		"Title":  detail.Item.Title,
		"Detail": detail,
	})
}
