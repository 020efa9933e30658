// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// pingTimeout bounds the database check of a single health request.
const pingTimeout = 2 * time.Second

// Pinger はヘルスチェック対象の依存先です。*sql.DB がこれを満たします。
type Pinger interface {
	PingContext(ctx context.Context) error
}

// NewHealth は /healthz エンドポイントのハンドラーを返します。
// dbがnilでなければGET時にPingし、失敗した場合は503を返します。
func NewHealth(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 明示的にキャッシュを防止
		c.Header("Cache-Control", "no-store")

		switch c.Request.Method {
		case http.MethodHead:
			c.Status(http.StatusOK)
			return
		case http.MethodOptions:
			c.Status(http.StatusNoContent)
			return
		}

		if db == nil {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			slog.Warn("health check: database ping failed", "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": "unreachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "ok"})
	}
}
