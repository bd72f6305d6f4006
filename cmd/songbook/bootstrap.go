package main

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"songbook/internal/app/catalog"
)

const warmTimeout = 30 * time.Second

// warmMirror seeds the local mirror from the live catalog at startup. This
// is best-effort: when the remote end is down the mirror keeps whatever it
// held from the previous run.
func warmMirror(ctx context.Context, catalogSvc *catalog.Service, logger zerolog.Logger) {
	warmCtx, cancel := context.WithTimeout(ctx, warmTimeout)
	defer cancel()

	if err := catalogSvc.RefreshMirror(warmCtx); err != nil {
		logger.Warn().Err(err).Msg("startup mirror warm failed, serving stale mirror")
	}
}
