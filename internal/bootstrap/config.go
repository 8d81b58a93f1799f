// Package bootstrap wires configuration, connections, services and the HTTP
// server into a runnable application.
package bootstrap

import (
	"fmt"
	"time"

	libCommons "github.com/LerianStudio/lib-commons/v2/commons"
	libZap "github.com/LerianStudio/lib-commons/v2/commons/zap"

	httpIn "github.com/feastly/draw-engine/internal/adapters/http/in"
	"github.com/feastly/draw-engine/internal/adapters/mongodb/snapshot"
	"github.com/feastly/draw-engine/internal/adapters/postgres"
	"github.com/feastly/draw-engine/internal/adapters/postgres/campaign"
	"github.com/feastly/draw-engine/internal/adapters/postgres/drawrecord"
	"github.com/feastly/draw-engine/internal/adapters/postgres/ledger"
	"github.com/feastly/draw-engine/internal/adapters/postgres/prize"
	"github.com/feastly/draw-engine/internal/adapters/postgres/state"
	"github.com/feastly/draw-engine/internal/adapters/rabbitmq"
	"github.com/feastly/draw-engine/internal/adapters/redis"
	"github.com/feastly/draw-engine/internal/services/command"
	"github.com/feastly/draw-engine/internal/services/query"
)

// Config carries every environment-driven knob of the draw engine.
type Config struct {
	EnvName       string `env:"ENV_NAME"`
	LogLevel      string `env:"LOG_LEVEL"`
	ServerAddress string `env:"SERVER_ADDRESS"`

	PrimaryDBHost     string `env:"DB_HOST"`
	PrimaryDBUser     string `env:"DB_USER"`
	PrimaryDBPassword string `env:"DB_PASSWORD"`
	PrimaryDBName     string `env:"DB_NAME"`
	PrimaryDBPort     string `env:"DB_PORT"`
	MaxOpenConns      int    `env:"DB_MAX_OPEN_CONNS"`
	MaxIdleConns      int    `env:"DB_MAX_IDLE_CONNS"`

	RedisHost     string `env:"REDIS_HOST"`
	RedisPort     string `env:"REDIS_PORT"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB"`

	MongoURI    string `env:"MONGO_URI"`
	MongoDBName string `env:"MONGO_NAME"`

	RabbitMQURI        string `env:"RABBITMQ_URI"`
	RabbitMQExchange   string `env:"RABBITMQ_EXCHANGE"`
	RabbitMQRoutingKey string `env:"RABBITMQ_ROUTING_KEY"`

	LockAcquireTimeoutMS  int `env:"LOCK_ACQUIRE_TIMEOUT_MS"`
	PolicyCacheTTLSeconds int `env:"POLICY_CACHE_TTL_SECONDS"`
}

// InitServers assembles the full dependency graph and returns the runnable
// service.
func InitServers() *Service {
	cfg := &Config{}

	if err := libCommons.SetConfigFromEnvVars(cfg); err != nil {
		panic(err)
	}

	logger := libZap.InitializeLogger()

	postgresConnection := &postgres.Connection{
		ConnectionString: fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
			cfg.PrimaryDBUser, cfg.PrimaryDBPassword, cfg.PrimaryDBHost, cfg.PrimaryDBPort, cfg.PrimaryDBName),
		MaxOpenConns: cfg.MaxOpenConns,
		MaxIdleConns: cfg.MaxIdleConns,
		Logger:       logger,
	}

	redisConnection := &redis.RedisConnection{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		Logger:   logger,
	}

	mongoConnection := &snapshot.MongoDBConnection{
		ConnectionString: cfg.MongoURI,
		Database:         cfg.MongoDBName,
		Logger:           logger,
	}

	rabbitConnection := &rabbitmq.RabbitMQConnection{
		ConnectionString: cfg.RabbitMQURI,
		Exchange:         cfg.RabbitMQExchange,
		RoutingKey:       cfg.RabbitMQRoutingKey,
		Logger:           logger,
	}

	campaignRepo := campaign.NewCampaignPostgreSQLRepository(postgresConnection)
	prizeRepo := prize.NewPrizePostgreSQLRepository(postgresConnection)
	drawRepo := drawrecord.NewDrawRecordPostgreSQLRepository(postgresConnection)
	ledgerRepo := ledger.NewLedgerPostgreSQLRepository(postgresConnection)
	stateRepo := state.NewStatePostgreSQLRepository(postgresConnection)
	redisRepo := redis.NewConsumerRedis(redisConnection)
	if cfg.LockAcquireTimeoutMS > 0 {
		redisRepo.LockAcquireTimeout = time.Duration(cfg.LockAcquireTimeoutMS) * time.Millisecond
	}
	snapshotRepo := snapshot.NewSnapshotMongoDBRepository(mongoConnection)
	producerRepo := rabbitmq.NewProducerRabbitMQ(rabbitConnection)

	queryUseCase := &query.UseCase{
		CampaignRepo: campaignRepo,
		PrizeRepo:    prizeRepo,
		DrawRepo:     drawRepo,
		LedgerRepo:   ledgerRepo,
		SnapshotRepo: snapshotRepo,
		RedisRepo:    redisRepo,
	}
	if cfg.PolicyCacheTTLSeconds > 0 {
		queryUseCase.PolicyCacheTTL = time.Duration(cfg.PolicyCacheTTLSeconds) * time.Second
	}

	commandUseCase := &command.UseCase{
		Policy:       queryUseCase,
		LedgerRepo:   ledgerRepo,
		PrizeRepo:    prizeRepo,
		DrawRepo:     drawRepo,
		StateRepo:    stateRepo,
		SnapshotRepo: snapshotRepo,
		Producer:     producerRepo,
		RedisRepo:    redisRepo,
		Tx:           postgresConnection,
	}

	handler := &httpIn.DrawHandler{
		Command: commandUseCase,
		Query:   queryUseCase,
	}

	app := httpIn.NewRouter(logger, handler)

	server := NewServer(cfg, app, logger)

	return &Service{
		Server: server,
		Logger: logger,
	}
}
