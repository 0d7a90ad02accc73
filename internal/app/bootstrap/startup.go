// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"time"

	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if err := purgeExpiredOAuthStates(ctx, deps, logger); err != nil {
		// Leftover states are harmless; Validate rejects expired ones.
		logger.Warn("oauth state purge failed", zap.Error(err))
	}
	return nil
}

// purgeExpiredOAuthStates removes stale OAuth state documents at boot.
// The TTL index handles this during normal operation, but its sweep does
// not run while the service is down.
func purgeExpiredOAuthStates(ctx context.Context, deps DBDeps, logger *zap.Logger) error {
	res, err := deps.MongoDatabase.Collection("oauth_states").DeleteMany(ctx,
		bson.M{"expires_at": bson.M{"$lt": time.Now().UTC()}})
	if err != nil {
		return err
	}
	if res.DeletedCount > 0 {
		logger.Info("purged expired oauth states", zap.Int64("count", res.DeletedCount))
	}
	return nil
}
