package middleware

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"github.com/yi-nology/page_harbor/pkg/common"
)

// Recovery returns a middleware that turns a handler panic into the same
// response envelope the handlers use, after logging the stack.
func Recovery() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		defer func() {
			if r := recover(); r != nil {
				hlog.CtxErrorf(ctx, "panic recovered: %v\n%s", r, debug.Stack())
				c.JSON(consts.StatusOK, common.CommonResponse{
					Code:  consts.StatusInternalServerError,
					Msg:   "internal error",
					Error: fmt.Sprintf("%v", r),
				})
				c.Abort()
			}
		}()

		c.Next(ctx)
	}
}
