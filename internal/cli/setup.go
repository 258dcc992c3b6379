package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/habtools/hab/internal/homeassistant"
	"github.com/habtools/hab/internal/output"
	"github.com/habtools/hab/internal/registry"
	"github.com/habtools/hab/internal/secrets"
)

// SetupCmd implements the interactive setup wizard
type SetupCmd struct{}

// Run executes the setup wizard: credentials first (verified before they are
// persisted), then the button management loop.
func (cmd *SetupCmd) Run(g *Globals, fp *FormatterProvider) error {
	if g.NoInput {
		return output.NewCLIError(output.ExitUsage, "setup is interactive").
			WithHint("Use: hab button add/remove/list for scripted changes")
	}

	reader := bufio.NewReader(os.Stdin)

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  hab — Home Assistant Setup\n")
	fmt.Fprintf(os.Stderr, "  ==========================\n\n")

	store, err := secrets.NewStore()
	if err != nil {
		return output.NewCLIError(output.ExitGeneral,
			fmt.Sprintf("Failed to initialize secret store: %v", err))
	}
	creds := registry.NewCredentials(store)

	current, err := creds.Load()
	if err != nil {
		if !errors.Is(err, secrets.ErrLocked) {
			return err
		}
		// Locked store: proceed with blank defaults, nothing is held open
		// while the user types.
		fmt.Fprintf(os.Stderr, "  Keyring locked - entering new credentials\n\n")
		current = registry.Credential{}
	}

	// Step 1: URL
	var baseURL string
	for {
		entered := prompt(reader, fmt.Sprintf("  Home Assistant URL [%s]: ", current.BaseURL))
		if entered == "" {
			entered = current.BaseURL
		}
		baseURL, err = registry.ValidateURL(entered)
		if err == nil {
			break
		}
		fmt.Fprintf(os.Stderr, "  Invalid URL format! Example: http://homeassistant.local:8123\n")
	}

	// Step 2: token, hidden input. Empty keeps the stored one.
	var token string
	for {
		hint := "API token: "
		if current.APIToken != "" {
			hint = fmt.Sprintf("API token (Enter to keep %s): ", maskSecret(current.APIToken))
		}
		token = promptSecret(reader, "  "+hint)
		if token == "" {
			token = current.APIToken
		}
		if token != "" {
			break
		}
		fmt.Fprintf(os.Stderr, "  API token is required!\n")
	}

	// Step 3: verify before anything is persisted. A failed probe aborts
	// the whole save; unverified credentials never reach the store.
	fmt.Fprintf(os.Stderr, "\n  Checking connection...\n")
	client := homeassistant.NewClient(baseURL, token)
	if err := client.Verify(context.Background()); err != nil {
		return fmt.Errorf("setup aborted, connection check failed: %w", err)
	}

	if err := creds.Save(registry.Credential{BaseURL: baseURL, APIToken: token}); err != nil {
		return err
	}

	storageType := "keyring"
	if secrets.IsWSL() || secrets.IsHeadless() {
		storageType = "encrypted file"
	}
	fmt.Fprintf(os.Stderr, "  Credentials saved (%s)\n", storageType)

	// Step 4: button management
	manageButtons(reader, store, fp)

	fmt.Fprintf(os.Stderr, "\n  Setup complete! Try it out:\n\n")
	fmt.Fprintf(os.Stderr, "    hab list\n")
	fmt.Fprintf(os.Stderr, "    hab press <label>\n\n")

	return nil
}

// manageButtons runs the interactive add/remove/list loop.
func manageButtons(reader *bufio.Reader, store secrets.Store, fp *FormatterProvider) {
	buttons := registry.NewButtons(store)

	for {
		action := strings.ToLower(prompt(reader, "\n  [a] Add  [r] Remove  [l] List  [q] Quit\n  Choice: "))

		switch action {
		case "a":
			label := prompt(reader, "  Button label: ")
			if label == "" {
				fmt.Fprintf(os.Stderr, "  Error: label cannot be empty\n")
				continue
			}
			entityID := prompt(reader, "  Entity ID (e.g., button.office_pc): ")
			if !registry.HasEntityDomain(entityID) {
				fmt.Fprintf(os.Stderr, "  Warning: entity ID should start with %q\n", registry.EntityDomain)
			}
			if err := buttons.Add(label, entityID); err != nil {
				fp.Formatter.PrintError(output.Classify(err))
				continue
			}
			fmt.Fprintf(os.Stderr, "  Saved %q successfully\n", label)

		case "r":
			label := prompt(reader, "  Button label to remove: ")
			if err := buttons.Remove(label); err != nil {
				if errors.Is(err, secrets.ErrNotFound) {
					fmt.Fprintf(os.Stderr, "  Button %q not found\n", label)
					continue
				}
				fp.Formatter.PrintError(output.Classify(err))
				continue
			}
			fmt.Fprintf(os.Stderr, "  Removed %q\n", label)

		case "l":
			labels, err := buttons.List()
			if err != nil {
				cliErr := output.Classify(err)
				fp.Formatter.PrintError(cliErr)
				if cliErr.Hint != "" {
					fp.Formatter.PrintHint(cliErr.Hint)
				}
				continue
			}
			fp.Formatter.PrintButtons(labels)

		case "q", "":
			return
		}
	}
}

// prompt prints a prompt and reads a line of input
func prompt(reader *bufio.Reader, text string) string {
	fmt.Fprint(os.Stderr, text)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

// promptSecret reads a line without echo when stdin is a terminal, falling
// back to a regular read when it isn't (pipes, tests).
func promptSecret(reader *bufio.Reader, text string) string {
	fmt.Fprint(os.Stderr, text)

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		data, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return ""
		}
		return strings.TrimSpace(string(data))
	}

	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

// maskSecret hides all but the last 4 characters of a secret.
func maskSecret(value string) string {
	if value == "" {
		return ""
	}
	if len(value) <= 4 {
		return "****"
	}
	return "****" + value[len(value)-4:]
}
