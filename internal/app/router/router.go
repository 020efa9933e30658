package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	quoteshandler "market_data/internal/feature/quotes/transport/handler"
	platformhandler "market_data/internal/platform/http/handler"
	jwtmw "market_data/internal/platform/jwt"
)

// Deps holds what the router mounts.
type Deps struct {
	Quotes    *quoteshandler.QuotesHandler
	DB        platformhandler.Pinger // nil skips the database check
	Metrics   http.Handler           // nil disables /metrics
	JWTSecret string                 // empty leaves /quotes public
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// 認証不要
	// 導通確認用
	health := platformhandler.NewHealth(d.DB)
	r.GET("/healthz", health)
	r.HEAD("/healthz", health)
	if d.Metrics != nil {
		r.GET("/metrics", gin.WrapH(d.Metrics))
	}

	// JWT_SECRET が設定されている場合のみ認証必須
	quotes := r.Group("/quotes")
	if d.JWTSecret != "" {
		quotes.Use(jwtmw.AuthRequired(d.JWTSecret))
	}
	{
		quotes.GET("/:symbols", d.Quotes.GetQuotesHandler)
	}

	return r
}
