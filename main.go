package main

import (
	"flag"
	"time"

	"github.com/harborforge/sea_strike/chat"
	cfg "github.com/harborforge/sea_strike/config"
	"github.com/harborforge/sea_strike/db"
	"github.com/harborforge/sea_strike/game"
	"github.com/topfreegames/pitaya/v2"
	"github.com/topfreegames/pitaya/v2/acceptor"
	"github.com/topfreegames/pitaya/v2/config"
	"github.com/topfreegames/pitaya/v2/groups"
	"go.uber.org/zap"
)

var (
	configPath = flag.String("config", "./config/local.json", "Path to config file")
)

func main() {
	flag.Parse()
	cfg := cfg.Read(*configPath)

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	builder := pitaya.NewDefaultBuilder(true, cfg.FrontendType, pitaya.Standalone, map[string]string{}, configApp(cfg))
	builder.AddAcceptor(acceptor.NewWSAcceptor(cfg.WSAddr))
	builder.Groups = groups.NewMemoryGroupService(*config.NewDefaultMemoryGroupConfig())
	app := builder.Build()

	defer app.Shutdown()

	database := db.NewClient(cfg.Database)

	game.RegistRoom(app, database, cfg)
	chat.RegistRoom(app, database, cfg)

	app.Start()
}

func configApp(c *cfg.Config) config.BuilderConfig {
	conf := config.NewDefaultBuilderConfig()
	conf.Pitaya.Heartbeat.Interval = time.Duration(3 * time.Second)
	conf.Pitaya.Buffer.Agent.Messages = 32
	conf.Pitaya.Handler.Messages.Compression = false
	conf.Metrics.Prometheus.Enabled = c.MetricsEnabled
	return *conf
}
