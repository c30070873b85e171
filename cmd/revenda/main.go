package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/revendalabs/revenda/internal/clock"
	"github.com/revendalabs/revenda/internal/config"
	"github.com/revendalabs/revenda/internal/logger"
	"github.com/revendalabs/revenda/internal/server"
	"github.com/revendalabs/revenda/internal/sessionlock"
	"github.com/revendalabs/revenda/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		clock.Module,
		db.Module,
		fx.Provide(RegisterSnowflake),
		fx.Provide(sessionlock.NewLocker),
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
