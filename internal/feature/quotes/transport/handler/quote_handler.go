// Package handler はquotesフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"market_data/internal/feature/quotes/domain"
	"market_data/internal/feature/quotes/domain/entity"
	"market_data/internal/feature/quotes/transport/http/dto"
)

// QuotesUsecase は合成シンボル解決のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type QuotesUsecase interface {
	Resolve(ctx context.Context, composites []string, refresh bool) (map[string]entity.Series, error)
}

// QuotesHandler は終値系列のHTTPリクエストを処理します。
type QuotesHandler struct {
	uc QuotesUsecase
}

// NewQuotesHandler は指定されたusecaseでQuotesHandlerの新しいインスタンスを生成します。
func NewQuotesHandler(uc QuotesUsecase) *QuotesHandler {
	return &QuotesHandler{uc: uc}
}

// GetQuotesHandler はカンマ区切りのシンボル式を受け取り、式ごとの終値系列をJSONで返します。
//
// エンドポイント例:
// GET /quotes/LBMA:EURUSD,SPX?refresh=false
func (h *QuotesHandler) GetQuotesHandler(c *gin.Context) {
	exprs := splitSymbols(c.Param("symbols"))
	if len(exprs) == 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "no symbols requested"})
		return
	}

	// 未指定の場合は常にリフレッシュする
	refresh, err := strconv.ParseBool(c.DefaultQuery("refresh", "true"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "refresh must be a boolean"})
		return
	}

	series, err := h.uc.Resolve(c.Request.Context(), exprs, refresh)
	if errors.Is(err, domain.ErrInvalidSymbol) {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadGateway, dto.ErrorResponse{Error: err.Error()})
		return
	}

	// データをフォーマット
	out := make(dto.QuotesResponse, len(series))
	for expr, s := range series {
		points := make([]dto.PointResponse, 0, len(s))
		for _, p := range s {
			points = append(points, dto.PointResponse{Date: p.Date, Close: p.Close})
		}
		out[expr] = points
	}

	c.JSON(http.StatusOK, out)
}

// splitSymbols は "a:b, c" を ["A:B", "C"] に正規化します。空要素と重複は除きます。
// 合成式の各要素の空白もここで取り除きます。
func splitSymbols(raw string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		parts := strings.Split(item, entity.CompositeSeparator)
		for i, p := range parts {
			parts[i] = strings.ToUpper(strings.TrimSpace(p))
		}
		expr := strings.Join(parts, entity.CompositeSeparator)
		if _, ok := seen[expr]; ok {
			continue
		}
		seen[expr] = struct{}{}
		out = append(out, expr)
	}
	return out
}
