package nakama

import (
	"context"
	"database/sql"
	"time"

	"github.com/heroiclabs/nakama-common/runtime"

	"kaliteedi/internal/app"
	"kaliteedi/internal/config"
)

const gameConfigPath = "data/game_config.json"

// InitModule wires the room registry and its RPCs into the Nakama runtime.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	if err := config.Load(gameConfigPath); err != nil {
		logger.Warn("game config not loaded, using defaults: %v", err)
	}

	registry := app.NewRegistry(NewStorageScoreAdapter(nk), nil)

	var invites *app.InviteService
	if env, ok := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string); ok {
		secret := env["kaliteedi_invite_secret"]
		issuer := env["kaliteedi_invite_issuer"]
		if issuer == "" {
			issuer = "kaliteedi"
		}
		if secret != "" {
			ttl := time.Duration(config.Get().InviteTTLMinutes) * time.Minute
			invites = app.NewInviteService(secret, issuer, ttl)
		} else {
			logger.Warn("kaliteedi_invite_secret missing from env, room invites disabled")
		}
	}

	port := NewPort(registry, invites)
	if err := port.RegisterRPCs(initializer); err != nil {
		return err
	}

	logger.Info("Kali Teedi Go module loaded.")
	return nil
}
