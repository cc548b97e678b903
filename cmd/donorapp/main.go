package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/nyarko-dennis/donor-app-backend/internal/clock"
	"github.com/nyarko-dennis/donor-app-backend/internal/config"
	"github.com/nyarko-dennis/donor-app-backend/internal/migration"
	"github.com/nyarko-dennis/donor-app-backend/internal/observability"
	"github.com/nyarko-dennis/donor-app-backend/internal/server"
	"github.com/nyarko-dennis/donor-app-backend/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
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
