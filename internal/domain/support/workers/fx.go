package workers

import (
	"context"

	"go.uber.org/fx"
)

// Module provides background workers for fx dependency injection
var Module = fx.Module("workers",
	fx.Provide(NewDestructor),
	fx.Provide(NewStatsPublisher),
	fx.Invoke(registerLifecycle),
)

// registerLifecycle starts and stops the workers with the app
func registerLifecycle(lc fx.Lifecycle, destructor *Destructor, publisher *StatsPublisher) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			destructor.Start()
			publisher.Start()
			return nil
		},
		OnStop: func(_ context.Context) error {
			if err := destructor.Stop(); err != nil {
				return err
			}
			return publisher.Stop()
		},
	})
}
