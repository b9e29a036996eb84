package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"court-booking/cmd/bootstrap"
	"court-booking/internal/worker"

	"go.uber.org/fx"
)

// runRelay ties the relay loop to the fx lifecycle.
func runRelay(lc fx.Lifecycle, relay *worker.NotificationRelay, logger *slog.Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			logger.Info("📨 通知リレーを起動します")
			go func() {
				defer close(done)
				if err := relay.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					logger.Error("通知リレーが異常終了しました", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			logger.Info("🛑 通知リレーを停止します")
			cancel()
			select {
			case <-done:
				return nil
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
		},
	})
}

func main() {
	app := fx.New(
		bootstrap.NotifierModule,
		fx.Invoke(runRelay),
	)

	if err := app.Start(context.Background()); err != nil {
		slog.Error("通知リレーの起動に失敗しました", "error", err)
		os.Exit(1)
	}

	<-app.Done()

	if err := app.Stop(context.Background()); err != nil {
		slog.Error("通知リレーの停止に失敗しました", "error", err)
	}

	slog.Info("通知リレーが正常に停止しました")
}
