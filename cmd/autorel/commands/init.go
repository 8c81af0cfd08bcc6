package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/davrd/autorel/internal/config"
	"github.com/davrd/autorel/internal/errors"
	"github.com/davrd/autorel/internal/logging"
	"github.com/davrd/autorel/internal/paths"
	"github.com/davrd/autorel/internal/prompt"
	"github.com/davrd/autorel/internal/setup"
)

var (
	initYes          bool
	initForce        bool
	initFormat       string
	initPlugins      []string
	initOwner        string
	initRepo         string
	initSaveDefaults bool
)

func init() {
	initCmd.Flags().BoolVarP(&initYes, "yes", "y", false, "Non-interactive mode, accept all defaults")
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing configuration artifact")
	initCmd.Flags().StringVar(&initFormat, "format", "yaml", "Artifact format: yaml, toml, json")
	initCmd.Flags().StringSliceVar(&initPlugins, "plugins", nil, "Preselect plugins and skip the selection menus")
	initCmd.Flags().StringVar(&initOwner, "owner", "", "GitHub organization or user owning the repository")
	initCmd.Flags().StringVar(&initRepo, "repo", "", "Repository name")
	initCmd.Flags().BoolVar(&initSaveDefaults, "save-defaults", false, "Save the author identity as user-level defaults")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Configure release automation for a repository",
	Long: `Walk through configuring automated releases for a repository.

Choose a release target and optional feature plugins, confirm repository
and author identity, review release labels, and record the credentials
each plugin needs. Writes a configuration artifact to the project
directory and collects secrets into a git-ignored .env file.`,
	Example: `  # Configure the current directory interactively
  autorel init

  # Configure a specific directory
  autorel init ./my-project

  # Non-interactive with preselected plugins
  autorel init --yes --owner acme --repo rocket --plugins npm,slack

  # Rewrite an existing configuration as TOML
  autorel init --force --format toml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func runInit(c *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}

	format, err := config.ParseFormat(initFormat)
	if err != nil {
		return errors.NewUserError(err, "supported formats: yaml, toml, json")
	}

	if (initOwner == "") != (initRepo == "") {
		return errors.NewUserError(errors.New("--owner and --repo must be given together"),
			"pass both flags or neither")
	}

	prompter := newPrompter(c)

	// An existing artifact is only replaced with explicit consent.
	if existing := config.Find(dir); existing != "" && !initForce {
		if initYes {
			fmt.Fprintf(c.OutOrStdout(), "Configuration already exists at %s\n", existing)
			fmt.Fprintln(c.OutOrStdout(), "Use --force to overwrite")
			return nil
		}
		overwrite, err := prompter.Confirm(
			fmt.Sprintf("Overwrite existing %s?", filepath.Base(existing)), false)
		if err != nil {
			return err
		}
		if !overwrite {
			fmt.Fprintln(c.OutOrStdout(), "Aborted")
			return nil
		}
	}

	log := logging.FromContext(c.Context())

	userDefaults, err := config.LoadUserDefaults(paths.UserConfigFile())
	if err != nil {
		log.Warn("ignoring unreadable user defaults", "path", paths.UserConfigFile(), "error", err)
		userDefaults = config.UserDefaults{}
	}

	saveDefaultsPath := ""
	if initSaveDefaults {
		saveDefaultsPath = paths.UserConfigFile()
	}

	wizard := setup.New(setup.Options{
		Prompter:         prompter,
		Log:              log,
		Out:              c.OutOrStdout(),
		Dir:              dir,
		Format:           format,
		UserDefaults:     userDefaults,
		Plugins:          initPlugins,
		SaveDefaultsPath: saveDefaultsPath,
	})

	if initOwner != "" {
		wizard.Hooks().RepoIdentity.Tap("flags", func(_ context.Context, _ string) (config.Repo, bool, error) {
			return config.Repo{Owner: initOwner, Repo: initRepo}, true, nil
		})
	}

	return wizard.Run(c.Context())
}

// newPrompter picks the interactive surface: fuzzy finding on a terminal,
// plain line reading for piped input, canned defaults for --yes.
func newPrompter(c *cobra.Command) prompt.Prompter {
	if initYes {
		return prompt.Auto{}
	}
	if logging.IsTTY(os.Stdout) {
		return prompt.NewFinder()
	}
	return prompt.NewReaderWithIO(c.InOrStdin(), c.OutOrStdout())
}
