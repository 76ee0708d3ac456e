package handler

import (
	"context"
	"errors"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/yi-nology/page_harbor/biz/dal/model"
	deployservice "github.com/yi-nology/page_harbor/biz/service/deploy"
	historyservice "github.com/yi-nology/page_harbor/biz/service/history"
	"github.com/yi-nology/page_harbor/pkg/common"
)

// HistoryHandler exposes deployment history CRUD. Deleting a record also
// tears down its remote objects when it deployed to object storage.
type HistoryHandler struct {
	history *historyservice.Service
	deploy  *deployservice.Service
}

func NewHistoryHandler(history *historyservice.Service, deploy *deployservice.Service) *HistoryHandler {
	return &HistoryHandler{history: history, deploy: deploy}
}

// List returns retained deployments, newest first.
func (h *HistoryHandler) List(ctx context.Context, c *app.RequestContext) {
	records, err := h.history.List(ctx)
	if err != nil {
		writeInternalError(c, err)
		return
	}
	c.JSON(consts.StatusOK, common.CommonResponse{
		Code: consts.StatusOK,
		Data: map[string]any{
			"deployments": records,
		},
	})
}

// Get returns one deployment record.
func (h *HistoryHandler) Get(ctx context.Context, c *app.RequestContext) {
	recordID := c.Param("recordID")
	record, err := h.history.Get(ctx, recordID)
	if err != nil {
		writeInternalError(c, err)
		return
	}
	if record == nil {
		writeNotFound(c, errors.New("deployment not found"))
		return
	}
	c.JSON(consts.StatusOK, common.CommonResponse{
		Code: consts.StatusOK,
		Data: record,
	})
}

// UpdateRequest carries the mutable record fields.
type UpdateRequest struct {
	LogicalName string `json:"logical_name"`
	PublicURL   string `json:"public_url"`
	PreviewURL  string `json:"preview_url"`
	Metadata    string `json:"metadata"`
}

// Update applies partial fields to a record. A missing id responds not
// found without being an error server-side.
func (h *HistoryHandler) Update(ctx context.Context, c *app.RequestContext) {
	recordID := c.Param("recordID")

	var req UpdateRequest
	if err := c.BindJSON(&req); err != nil {
		writeBadRequest(c, err)
		return
	}

	found, err := h.history.Update(ctx, recordID, &model.Deployment{
		LogicalName: req.LogicalName,
		PublicURL:   req.PublicURL,
		PreviewURL:  req.PreviewURL,
		Metadata:    req.Metadata,
	})
	if err != nil {
		writeInternalError(c, err)
		return
	}
	if !found {
		writeNotFound(c, errors.New("deployment not found"))
		return
	}
	c.JSON(consts.StatusOK, common.CommonResponse{Code: consts.StatusOK})
}

// Delete removes a record, then tears down its storage prefix when the
// deployment went to object storage. Deleting an unknown id is a no-op.
func (h *HistoryHandler) Delete(ctx context.Context, c *app.RequestContext) {
	recordID := c.Param("recordID")

	record, err := h.history.Delete(ctx, recordID)
	if err != nil {
		writeInternalError(c, err)
		return
	}

	data := map[string]any{"deleted": record != nil}
	if record != nil && record.Target == model.TargetObjectStorage && record.StoragePrefix != "" {
		result, err := h.deploy.Teardown(ctx, record.StoragePrefix)
		if err != nil {
			// The record is gone; report the teardown problem but keep the
			// response successful so the delete stays idempotent.
			hlog.CtxErrorf(ctx, "teardown of %s failed: %v", record.StoragePrefix, err)
			data["teardown_error"] = err.Error()
		} else {
			data["teardown"] = result
		}
	}

	c.JSON(consts.StatusOK, common.CommonResponse{
		Code: consts.StatusOK,
		Data: data,
	})
}
