package cli

import (
	"context"
	"fmt"

	"github.com/habtools/hab/internal/homeassistant"
	"github.com/habtools/hab/internal/registry"
	"github.com/habtools/hab/internal/secrets"
)

// VerifyCmd tests the connection to the configured Home Assistant instance
type VerifyCmd struct{}

func (cmd *VerifyCmd) Run(fp *FormatterProvider) error {
	store, err := secrets.NewStore()
	if err != nil {
		return fmt.Errorf("initialize secret store: %w", err)
	}

	cred, err := registry.NewCredentials(store).Load()
	if err != nil {
		return err
	}

	client := homeassistant.NewClient(cred.BaseURL, cred.APIToken)
	if err := client.Verify(context.Background()); err != nil {
		return err
	}

	fp.Formatter.Print("Connection successful!")
	return nil
}
