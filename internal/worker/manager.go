package worker

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/atomic"

	bizquote "shipcalc/internal/business/quote"
	"shipcalc/internal/domains"
	"shipcalc/internal/framework"
	"shipcalc/internal/geo"
	"shipcalc/internal/provider"
	"shipcalc/internal/rate"
	"shipcalc/pkg/config"
	"shipcalc/pkg/infra/mysql"
	"shipcalc/pkg/infra/redis"
	"shipcalc/pkg/lmstfy"
	"shipcalc/pkg/logger"
)

// Manager 接口
type Manager interface {
	Start() error
	Shutdown()
}

// ManagerInstance Manager 实例
type ManagerInstance struct {
	ctx          context.Context
	cfg          *config.Config
	lmstfyClient *lmstfy.Client
	quoteService *bizquote.Service
	workers      []Worker
	closing      *atomic.Bool
	shutdownCh   chan struct{}
	wg           sync.WaitGroup
	logger       logger.Logger
}

// NewManagerInstance 创建 Manager
func NewManagerInstance(cfg *config.Config, log logger.Logger) (Manager, error) {
	ctx := context.Background()

	// 初始化 lmstfy 客户端
	lmstfyClient, err := lmstfy.NewClient(cfg.Lmstfy.Host, cfg.Lmstfy.Port, cfg.Lmstfy.Namespace, cfg.Lmstfy.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create lmstfy client: %w", err)
	}

	// 初始化存储
	db, err := mysql.NewDB(cfg.MySQL.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect mysql: %w", err)
	}
	quoteDAO := mysql.NewQuoteDAO(db)
	ruleDAO := mysql.NewRateRuleDAO(db)

	pubsub, err := redis.NewPubSub(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to connect redis: %w", err)
	}

	// 组装报价服务
	calculator := bizquote.NewCalculator(
		provider.NewDefaultRegistry(),
		rateSettingsFromConfig(&cfg.Rates),
		providerSettingsFromConfig(&cfg.Providers),
		cfg.Providers.Active,
		ruleDAO,
		log,
	)
	quoteService := bizquote.NewService(
		calculator,
		quoteDAO,
		pubsub,
		lmstfyClient,
		cfg.Lmstfy.CallbackQueue,
		log,
	)

	log.Infof(ctx, "[Manager] Initialized with callback_queue: %s", cfg.Lmstfy.CallbackQueue)

	return &ManagerInstance{
		ctx:          ctx,
		cfg:          cfg,
		lmstfyClient: lmstfyClient,
		quoteService: quoteService,
		closing:      atomic.NewBool(false),
		shutdownCh:   make(chan struct{}),
		workers:      make([]Worker, 0),
		logger:       log,
	}, nil
}

// Start 启动 Manager
func (m *ManagerInstance) Start() error {
	m.logger.Infof(m.ctx, "[Manager] Starting...")

	// 1. 加载所有 Worker
	if err := m.loadWorkers(); err != nil {
		return fmt.Errorf("failed to load workers: %w", err)
	}

	m.logger.Infof(m.ctx, "[Manager] All workers loaded, count: %d", len(m.workers))

	// 2. 启动所有 Worker（每个 Worker 在独立 goroutine）
	for _, worker := range m.workers {
		w := worker
		m.wg.Add(1)
		go func() {
			defer m.wg.Done()
			w.Start()
		}()
		m.logger.Infof(m.ctx, "[Manager] Worker started: %s", w.GetName())
	}

	m.logger.Infof(m.ctx, "[Manager] Start success")

	// 3. 阻塞等待退出信号
	<-m.shutdownCh

	return nil
}

// Shutdown 优雅退出
func (m *ManagerInstance) Shutdown() {
	m.logger.Infof(m.ctx, "[Manager] Began to close")

	// 原子操作，保证并发安全
	if m.closing.CAS(false, true) {
		// 1. 所有 Worker 安全退出
		for _, worker := range m.workers {
			m.logger.Infof(m.ctx, "[Manager] Shutting down worker: %s", worker.GetName())
			worker.Shutdown()
		}

		// 2. 等待所有 Worker 退出
		m.wg.Wait()

		// 3. 关闭信号通道
		close(m.shutdownCh)

		m.logger.Infof(m.ctx, "[Manager] Shutdown complete")
	}
}

// loadWorkers 加载所有 Worker
func (m *ManagerInstance) loadWorkers() error {
	for _, workerCfg := range m.cfg.Workers {
		subCfg := &framework.SubscriberConfig{
			QueueName:    workerCfg.QueueName,
			Concurrency:  workerCfg.Subscriber.Threads,
			Rate:         workerCfg.Subscriber.Rate,
			Timeout:      workerCfg.Subscriber.Timeout,
			TTR:          workerCfg.Subscriber.TTR,
			ErrorBackoff: workerCfg.Subscriber.ErrorBackoff,
		}

		procCfg := &framework.ProcessorConfig{
			Concurrency: workerCfg.Processor.Threads,
			BufferSize:  workerCfg.Processor.BufferSize,
			Timeout:     workerCfg.Processor.Timeout,
		}

		// 获取 GetProcess 函数
		getProcess := domains.GetProcess(m.logger, m.quoteService)

		worker, err := NewWorkerInstance(
			m.ctx,
			workerCfg.Name,
			subCfg,
			procCfg,
			m.lmstfyClient, // MessageSource
			getProcess,     // lmstfyx.Proc
			m.logger,
		)
		if err != nil {
			return fmt.Errorf("failed to create worker %s: %w", workerCfg.Name, err)
		}

		m.workers = append(m.workers, worker)
	}

	return nil
}

// rateSettingsFromConfig 将配置映射为计费设置
func rateSettingsFromConfig(cfg *config.RatesConfig) rate.Settings {
	settings := rate.DefaultSettings()
	settings.DistanceUnit = geo.Unit(cfg.DistanceUnit)
	settings.RoundUpDistance = cfg.RoundUpDistance
	settings.ShowDistance = cfg.ShowDistance
	if cfg.TotalCostType != "" {
		settings.TotalCostType = cfg.TotalCostType
	}
	if cfg.SurchargeType != "" {
		settings.SurchargeType = cfg.SurchargeType
	}
	settings.Surcharge = cfg.Surcharge
	if cfg.DiscountType != "" {
		settings.DiscountType = cfg.DiscountType
	}
	settings.Discount = cfg.Discount
	settings.MinCost = cfg.MinCost
	settings.MaxCost = cfg.MaxCost
	settings.Title = cfg.Title
	return settings
}

// providerSettingsFromConfig 将配置映射为服务商设置表
func providerSettingsFromConfig(cfg *config.ProvidersConfig) map[string]provider.Settings {
	out := make(map[string]provider.Settings, len(cfg.Settings))
	for slug, fields := range cfg.Settings {
		out[slug] = provider.Settings(fields)
	}
	return out
}
