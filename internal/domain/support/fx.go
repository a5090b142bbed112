// Package support contains the support relay domain module
package support

import (
	"context"
	"io"

	"go.uber.org/fx"

	"github.com/Conte777/SupportFlow/config"
	"github.com/Conte777/SupportFlow/internal/domain/support/deps"
	telegramDelivery "github.com/Conte777/SupportFlow/internal/domain/support/delivery/telegram"
	"github.com/Conte777/SupportFlow/internal/domain/support/menu"
	"github.com/Conte777/SupportFlow/internal/domain/support/repository/gormdb"
	kafkaRepo "github.com/Conte777/SupportFlow/internal/domain/support/repository/kafka"
	"github.com/Conte777/SupportFlow/internal/domain/support/usecase/buissines"
	"github.com/Conte777/SupportFlow/internal/domain/support/workers"
	"github.com/Conte777/SupportFlow/internal/infrastructure/telegram"
)

// Module provides support domain components for fx dependency injection
var Module = fx.Module("support",
	// Repository
	fx.Provide(gormdb.NewUserRepository),
	fx.Provide(gormdb.NewActionStatRepository),
	fx.Provide(gormdb.NewAdminStatRepository),
	fx.Provide(gormdb.NewPendingDeletionRepository),
	fx.Provide(gormdb.NewMirrorRepository),
	fx.Provide(kafkaRepo.NewExporter),

	// Menus
	fx.Provide(provideMenus),

	// UseCase
	fx.Provide(buissines.NewUseCase),

	// Delivery - Telegram
	fx.Provide(telegramDelivery.NewHandlers),
	fx.Provide(telegramDelivery.NewRouter),
	fx.Provide(telegramDelivery.NewGateway),

	// Workers
	workers.Module,

	// Wire cyclic dependency and register routes
	fx.Invoke(wireAndRegister),
	fx.Invoke(registerExporterLifecycle),
)

// provideMenus loads the user menu and the quick replies from their
// configured files. A missing file simply disables that keyboard.
func provideMenus(cfg *config.RelayConfig) (buissines.Menus, error) {
	main, err := menu.Load(cfg.MenuFile)
	if err != nil {
		return buissines.Menus{}, err
	}
	quick, err := menu.Load(cfg.QuickRepliesFile)
	if err != nil {
		return buissines.Menus{}, err
	}
	return buissines.Menus{Main: main, Quick: quick}, nil
}

// wireAndRegister resolves the cyclic dependency between the use case
// and the transport, installs the update dispatcher and registers the
// command routes
func wireAndRegister(
	uc *buissines.UseCase,
	gateway *telegramDelivery.Gateway,
	handlers *telegramDelivery.Handlers,
	router *telegramDelivery.Router,
	bot *telegram.Bot,
) {
	// Gateway implements deps.Gateway.
	// This resolves the cyclic dependency: UseCase -> Gateway -> Bot,
	// while the bot's handlers call back into the UseCase.
	uc.SetGateway(gateway)

	bot.SetDefaultHandler(handlers.Default())
	router.RegisterRoutes(bot.Raw())
}

// registerExporterLifecycle closes the export sink on shutdown when it
// holds a real producer
func registerExporterLifecycle(lc fx.Lifecycle, exporter deps.Exporter) {
	closer, ok := exporter.(io.Closer)
	if !ok {
		return
	}
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return closer.Close()
		},
	})
}
