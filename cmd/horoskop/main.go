package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/sternbild/horoskop/internal/clock"
	"github.com/sternbild/horoskop/internal/config"
	"github.com/sternbild/horoskop/internal/horoscope"
	"github.com/sternbild/horoskop/internal/migration"
	"github.com/sternbild/horoskop/internal/observability"
	"github.com/sternbild/horoskop/internal/ratelimit"
	"github.com/sternbild/horoskop/internal/scheduler"
	"github.com/sternbild/horoskop/internal/server"
	"github.com/sternbild/horoskop/internal/telegram"
	"github.com/sternbild/horoskop/pkg/db"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		server.Module,

		// Functional domains
		migration.Module,
		ratelimit.Module,
		horoscope.Module,
		telegram.Module,
		scheduler.Module,
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
