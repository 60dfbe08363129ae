package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"shipcalc/internal/geo"
	"shipcalc/internal/model"
	"shipcalc/internal/provider"
	"shipcalc/internal/rate"
	"shipcalc/pkg/errorx"
	"shipcalc/pkg/logger"
)

// RuleSource 规则行来源（MySQL DAO 或测试桩）
type RuleSource interface {
	ListOrdered(ctx context.Context) ([]*rate.Row, error)
}

// DistanceOverride 距离覆写钩子
// 返回非 nil 距离则跳过服务商调用，直接用返回值计费
type DistanceOverride func(ctx context.Context, destination, origin *geo.Location, settings provider.Settings) (*geo.Distance, error)

// Input 报价计算输入
type Input struct {
	QuoteID     string
	RequestID   string
	Provider    string // 服务商 slug（空则用默认）
	Origin      *geo.Location
	Destination *geo.Location
	Order       rate.OrderContext
}

// Output 报价计算输出
type Output struct {
	Status string // DONE/NO_RATE/FAILED
	Result *model.QuoteResultData
}

// Calculator 报价计算器：服务商距离 → 规则匹配 → 成本计算
type Calculator struct {
	registry         *provider.Registry
	engine           *rate.Engine
	settings         rate.Settings
	providerSettings map[string]provider.Settings
	defaultProvider  string
	rules            RuleSource
	logger           logger.Logger

	// Override 可选的距离覆写钩子（测试或外部距离源）
	Override DistanceOverride
}

// NewCalculator 创建报价计算器
func NewCalculator(
	registry *provider.Registry,
	settings rate.Settings,
	providerSettings map[string]provider.Settings,
	defaultProvider string,
	rules RuleSource,
	log logger.Logger,
) *Calculator {
	return &Calculator{
		registry:         registry,
		engine:           rate.NewEngine(settings),
		settings:         settings,
		providerSettings: providerSettings,
		defaultProvider:  defaultProvider,
		rules:            rules,
		logger:           log,
	}
}

// Calculate 执行一次完整的报价计算
// 服务商失败与无规则命中都不返回 error：结果状态已经表达了结局；
// error 仅表示基础设施故障（规则表读取失败等），调用方应重试
func (c *Calculator) Calculate(ctx context.Context, input *Input) (*Output, error) {
	slug := input.Provider
	if slug == "" {
		slug = c.defaultProvider
	}
	ctx = context.WithValue(ctx, "provider", slug)

	prov, ok := c.registry.Get(slug)
	if !ok {
		return c.failed(slug, fmt.Sprintf("unknown provider: %s", slug)), nil
	}
	settings := c.providerSettings[slug]

	// 1. 获取距离（钩子优先，缺省走服务商）
	distance, failMsg := c.resolveDistance(ctx, prov, settings, input)
	if distance == nil {
		return c.failed(slug, failMsg), nil
	}

	// 距离取整影响匹配与计费，文本展示同样生效
	distance.SetCeiling(c.settings.RoundUpDistance)

	// 2. 匹配规则行
	rows, err := c.rules.ListOrdered(ctx)
	if err != nil {
		// 规则表读取失败属瞬时基础设施故障，标记可重试交由消息重投
		return nil, &errorx.Error{
			Kind:      errorx.KindUnknown,
			Message:   fmt.Sprintf("list rate rules: %v", err),
			Retryable: true,
		}
	}

	row := c.engine.MatchRow(rows, distance, input.Order)
	if row == nil {
		c.logger.Infof(ctx, "[Calculator] no rate row matched: quote_id=%s", input.QuoteID)
		return &Output{
			Status: model.QuoteStatusNoRate,
			Result: c.baseResult(slug, distance),
		}, nil
	}

	// 3. 计算成本
	cost, err := c.engine.ComputeCost(row, distance, input.Order)
	if err != nil {
		return c.failed(slug, fmt.Sprintf("compute cost: %v", err)), nil
	}

	result := c.baseResult(slug, distance)
	result.Cost = cost
	result.Label = c.engine.Label(row, distance)
	result.MatchedRow = c.rowIndex(rows, row)

	return &Output{
		Status: model.QuoteStatusDone,
		Result: result,
	}, nil
}

// resolveDistance 获取起止点间距离
// 返回 (nil, 失败原因) 表示获取失败
func (c *Calculator) resolveDistance(
	ctx context.Context,
	prov provider.Provider,
	settings provider.Settings,
	input *Input,
) (*geo.Distance, string) {
	if c.Override != nil {
		distance, err := c.Override(ctx, input.Destination, input.Origin, settings)
		if err != nil {
			return nil, fmt.Sprintf("distance override failed: %v", err)
		}
		if distance != nil {
			return distance, ""
		}
		// 钩子放行，继续走服务商
	}

	res := prov.CalculateDistance(ctx, input.Destination, input.Origin, settings)
	if res.IsError() {
		c.logAPIFailure(ctx, input.QuoteID, res)
		return nil, res.ErrorMessage()
	}

	return res.Distance(), ""
}

// logAPIFailure 记录服务商请求失败明细
// 日志只允许携带脱敏后的调试快照
func (c *Calculator) logAPIFailure(ctx context.Context, quoteID string, res *provider.CalcResult) {
	disp := res.Dispatcher()
	if disp == nil {
		c.logger.Errorf(ctx, "[Calculator] provider failed: quote_id=%s, message=%s", quoteID, res.ErrorMessage())
		return
	}

	debugJSON, err := json.Marshal(disp.ToDebugMap())
	if err != nil {
		debugJSON = []byte("{}")
	}
	c.logger.Errorf(ctx, "[Calculator] provider failed: quote_id=%s, message=%s, api=%s",
		quoteID, res.ErrorMessage(), string(debugJSON))
}

// baseResult 构造结果骨架（距离文本按计费单位渲染）
func (c *Calculator) baseResult(slug string, distance *geo.Distance) *model.QuoteResultData {
	result := &model.QuoteResultData{
		Provider:     slug,
		DistanceUnit: string(c.settings.DistanceUnit),
		CalculatedAt: time.Now().Unix(),
	}
	if text, err := distance.InUnit(c.settings.DistanceUnit); err == nil {
		result.DistanceText = text
	}
	return result
}

// failed 构造失败输出
func (c *Calculator) failed(slug, reason string) *Output {
	return &Output{
		Status: model.QuoteStatusFailed,
		Result: &model.QuoteResultData{
			Provider:      slug,
			CalculatedAt:  time.Now().Unix(),
			FailureReason: reason,
		},
	}
}

// rowIndex 返回规则行序号（从 1 起）
func (c *Calculator) rowIndex(rows []*rate.Row, row *rate.Row) int {
	for i, r := range rows {
		if r == row {
			return i + 1
		}
	}
	return 0
}
