package handler

import (
	"errors"
	"net/http"
	"net/url"

	"hermandad/internal/constants"
	"hermandad/internal/middleware"
	"hermandad/internal/model"
	"hermandad/internal/service"
	"hermandad/internal/session"
	"hermandad/pkg/logger"

	"github.com/gin-gonic/gin"
)

// PanelHandler 发布面板
type PanelHandler struct {
	publishService *service.PublishService
	sessions       *session.Manager
	logger         *logger.Logger
}

// NewPanelHandler 创建面板处理器实例
func NewPanelHandler(publishService *service.PublishService, sessions *session.Manager, logger *logger.Logger) *PanelHandler {
	return &PanelHandler{
		publishService: publishService,
		sessions:       sessions,
		logger:         logger,
	}
}

// Panel 发布表单 GET /panel，非director只显示只读页面
func (h *PanelHandler) Panel(c *gin.Context) {
	h.render(c, http.StatusOK, service.PublishInput{Region: model.DefaultRegion}, "")
}

// Publish 提交发布 POST /panel
func (h *PanelHandler) Publish(c *gin.Context) {
	identity := middleware.CurrentIdentity(c)

	var input service.PublishInput
	if err := c.ShouldBind(&input); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.render(c, http.StatusRequestEntityTooLarge, input, constants.ErrUploadTooLarge)
			return
		}
		h.logger.Warn("发布表单解析失败", "error", err)
		h.render(c, http.StatusBadRequest, input, constants.ErrInvalidForm)
		return
	}
	input.Featured = checkboxChecked(c.PostForm("featured"))

	fileHeader, err := c.FormFile("imagen_file")
	if err == nil && fileHeader.Filename != "" {
		file, err := fileHeader.Open()
		if err != nil {
			h.logger.Error("打开上传文件失败", "error", err)
			renderInternalError(c, h.sessions)
			return
		}
		defer file.Close()
		input.Upload = &service.UploadedFile{Filename: fileHeader.Filename, Size: fileHeader.Size, Reader: file}
	}

	item, err := h.publishService.Publish(c.Request.Context(), identity, input)
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			h.render(c, http.StatusUnprocessableEntity, input, constants.ErrMissingFields)
		case errors.Is(err, service.ErrUnsupportedMedia):
			h.render(c, http.StatusUnsupportedMediaType, input, constants.ErrUnsupportedMedia)
		case errors.Is(err, service.ErrUploadTooLarge):
			h.render(c, http.StatusRequestEntityTooLarge, input, constants.ErrUploadTooLarge)
		case errors.Is(err, service.ErrForbidden):
			h.render(c, http.StatusForbidden, input, constants.ErrInsufficientPermission)
		default:
			h.logger.Error("发布公告失败", "error", err)
			renderInternalError(c, h.sessions)
		}
		return
	}

	_ = h.sessions.AddFlash(c, constants.SuccessPublish)
	c.Redirect(http.StatusSeeOther, "/?provincia="+url.QueryEscape(item.Region))
}

func (h *PanelHandler) render(c *gin.Context, status int, form service.PublishInput, errMsg string) {
	identity := middleware.CurrentIdentity(c)
	form.Upload = nil
	renderPage(c, h.sessions, status, "panel.html", gin.H{
		"Title":      "Panel",
		"Identity":   identity,
		"CanPublish": identity.HasRole(model.RoleDirector),
		"Form":       form,
		"Regions":    model.Regions,
		"Error":      errMsg,
	})
}

func checkboxChecked(v string) bool {
	switch v {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}
