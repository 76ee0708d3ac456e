package handler

import (
	"context"
	"errors"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	previewservice "github.com/yi-nology/page_harbor/biz/service/preview"
)

// PreviewHandler streams private storage objects through the server so
// clients never see signed URLs or credentials.
type PreviewHandler struct {
	service *previewservice.Service
}

func NewPreviewHandler(service *previewservice.Service) *PreviewHandler {
	return &PreviewHandler{service: service}
}

// Serve resolves the requested path, fetches the object and streams it back
// with the extension-inferred content type.
func (h *PreviewHandler) Serve(ctx context.Context, c *app.RequestContext) {
	path := c.Param("objectPath")

	body, contentType, err := h.service.Fetch(ctx, path)
	if err != nil {
		var denied *previewservice.UpstreamDeniedError
		if errors.As(err, &denied) {
			c.JSON(consts.StatusForbidden, map[string]any{
				"error":         denied.Error(),
				"attempted_url": denied.AttemptedURL,
			})
			return
		}
		c.JSON(consts.StatusBadGateway, map[string]any{
			"error": err.Error(),
		})
		return
	}
	// The response owns the stream and closes it after writing it out.
	c.SetStatusCode(consts.StatusOK)
	c.Response.Header.SetContentType(contentType)
	c.Response.SetBodyStream(body, -1)
}
