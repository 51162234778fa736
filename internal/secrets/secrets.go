// Package secrets fetches ops configuration (currently just the Discord
// webhook URL) from Google Cloud Secret Manager. It has no fallback of
// its own; cmd/server calls it only when a project is configured and
// otherwise uses the DISCORD_WEBHOOK_URL environment variable.
package secrets

import (
	"context"
	"fmt"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
)

// AccessLatest fetches the latest version of the named secret
// ("projects/P/secrets/S/versions/latest").
func AccessLatest(ctx context.Context, name string) (string, error) {
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return "", fmt.Errorf("create secret manager client: %w", err)
	}
	defer client.Close()

	resp, err := client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: name})
	if err != nil {
		return "", fmt.Errorf("access secret version %s: %w", name, err)
	}
	return string(resp.Payload.GetData()), nil
}
