package cli

import (
	"context"
	"fmt"

	"github.com/habtools/hab/internal/homeassistant"
	"github.com/habtools/hab/internal/registry"
	"github.com/habtools/hab/internal/secrets"
)

// PressCmd presses a configured button by label
type PressCmd struct {
	Label string `arg:"" predictor:"label" help:"Configured button label"`
}

func (cmd *PressCmd) Run(fp *FormatterProvider) error {
	store, err := secrets.NewStore()
	if err != nil {
		return fmt.Errorf("initialize secret store: %w", err)
	}

	entityID, err := registry.NewButtons(store).Get(cmd.Label)
	if err != nil {
		return err
	}

	cred, err := registry.NewCredentials(store).Load()
	if err != nil {
		return err
	}
	if !cred.Configured() {
		return homeassistant.ErrMissingCredentials
	}

	client := homeassistant.NewClient(cred.BaseURL, cred.APIToken)
	if err := client.PressButton(context.Background(), entityID); err != nil {
		return err
	}

	fp.Formatter.Print("Button pressed successfully!")
	return nil
}
