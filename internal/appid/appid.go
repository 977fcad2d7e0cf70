// Package appid resolves the application identity, preferring an on-disk
// .fulmen/app.yaml and falling back to the embedded copy.
package appid

import (
	"context"

	"github.com/fulmenhq/gofulmen/appidentity"

	appidentityassets "github.com/brandprompt/brandprompt/internal/assets/appidentity"
)

func init() {
	// Explicit identity overrides (FULMEN_APP_IDENTITY_PATH) stay authoritative.
	_ = appidentity.RegisterEmbeddedIdentityYAML(appidentityassets.YAML)
}

// Get returns the cached process identity.
func Get(ctx context.Context) (*appidentity.Identity, error) {
	return appidentity.Get(ctx)
}
