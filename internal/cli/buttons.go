package cli

import (
	"fmt"

	"github.com/habtools/hab/internal/registry"
	"github.com/habtools/hab/internal/secrets"
)

// ListCmd lists configured button labels
type ListCmd struct{}

func (cmd *ListCmd) Run(fp *FormatterProvider) error {
	store, err := secrets.NewStore()
	if err != nil {
		return fmt.Errorf("initialize secret store: %w", err)
	}

	labels, err := registry.NewButtons(store).List()
	if err != nil {
		return err
	}

	return fp.Formatter.PrintButtons(labels)
}

// ButtonAddCmd adds or overwrites a single button entry
type ButtonAddCmd struct {
	Label    string `arg:"" help:"Button label (case-sensitive, unique)"`
	EntityID string `arg:"" name:"entity-id" help:"Target entity ID (e.g., button.office_pc)"`
}

func (cmd *ButtonAddCmd) Run(fp *FormatterProvider) error {
	store, err := secrets.NewStore()
	if err != nil {
		return fmt.Errorf("initialize secret store: %w", err)
	}

	if !registry.HasEntityDomain(cmd.EntityID) {
		fp.Formatter.PrintHint(fmt.Sprintf("entity ID should start with %q", registry.EntityDomain))
	}

	if err := registry.NewButtons(store).Add(cmd.Label, cmd.EntityID); err != nil {
		return err
	}

	fp.Formatter.Print(fmt.Sprintf("Saved %q successfully", cmd.Label))
	return nil
}

// ButtonRemoveCmd removes a button entry
type ButtonRemoveCmd struct {
	Label string `arg:"" predictor:"label" help:"Button label to remove"`
}

func (cmd *ButtonRemoveCmd) Run(fp *FormatterProvider) error {
	store, err := secrets.NewStore()
	if err != nil {
		return fmt.Errorf("initialize secret store: %w", err)
	}

	if err := registry.NewButtons(store).Remove(cmd.Label); err != nil {
		return err
	}

	fp.Formatter.Print(fmt.Sprintf("Removed %q", cmd.Label))
	return nil
}

// ButtonListCmd is "hab list" under the button command for symmetry
type ButtonListCmd struct{}

func (cmd *ButtonListCmd) Run(fp *FormatterProvider) error {
	list := ListCmd{}
	return list.Run(fp)
}
