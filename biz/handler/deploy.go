package handler

import (
	"context"
	"errors"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	deployservice "github.com/yi-nology/page_harbor/biz/service/deploy"
	"github.com/yi-nology/page_harbor/pkg/common"
)

// DeployHandler exposes the deploy and configuration-check endpoints.
type DeployHandler struct {
	service *deployservice.Service
}

func NewDeployHandler(service *deployservice.Service) *DeployHandler {
	return &DeployHandler{service: service}
}

// DeployRequest is the JSON body of a deploy call. Metadata carries the
// subject's descriptive fields and is stored opaquely.
type DeployRequest struct {
	SourceDir   string `json:"source_dir"`
	LogicalName string `json:"logical_name"`
	Target      string `json:"target"`
	Metadata    string `json:"metadata"`
}

// Deploy uploads a generated site directory and records the deployment.
func (h *DeployHandler) Deploy(ctx context.Context, c *app.RequestContext) {
	var req DeployRequest
	if err := c.BindJSON(&req); err != nil {
		writeBadRequest(c, err)
		return
	}
	if req.LogicalName == "" {
		writeBadRequest(c, errors.New("logical_name is required"))
		return
	}

	result, err := h.service.Deploy(ctx, req.SourceDir, req.LogicalName, req.Target, req.Metadata)
	if err != nil {
		switch {
		case errors.Is(err, deployservice.ErrInvalidTarget):
			writeBadRequest(c, err)
		case errors.Is(err, deployservice.ErrConfiguration):
			writeBadRequest(c, err)
		default:
			writeInternalError(c, err)
		}
		return
	}

	c.JSON(consts.StatusOK, common.CommonResponse{
		Code: consts.StatusOK,
		Data: result,
	})
}

// CheckConfig reports configuration presence flags for the health UI.
// Only booleans leave the process, never the secret values.
func (h *DeployHandler) CheckConfig(ctx context.Context, c *app.RequestContext) {
	c.JSON(consts.StatusOK, common.CommonResponse{
		Code: consts.StatusOK,
		Data: h.service.CheckConfig(),
	})
}
