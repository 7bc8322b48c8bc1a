package cmd

import (
	"context"
	"fmt"
	"strings"

	"lifecycler/internal/config"

	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"
)

var selfUpdateRepository string

// releaseUpdater is the part of *selfupdate.Updater the command uses.
type releaseUpdater interface {
	DetectLatest(ctx context.Context, repository selfupdate.Repository) (*selfupdate.Release, bool, error)
	UpdateTo(ctx context.Context, release *selfupdate.Release, cmdPath string) error
}

// newUpdater is a variable to allow mocking in tests
var newUpdater = func() (releaseUpdater, error) {
	return selfupdate.NewUpdater(selfupdate.Config{})
}

// newSelfUpdateCmd creates the Cobra command for the self-update functionality.
func newSelfUpdateCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "self-update",
		Short: "Update lifecycler to the latest version",
		Long: `Checks the configured GitHub repository for the latest release of
lifecycler and replaces the current binary if a newer version is found.

The repository is taken from --repository, or from updateRepository in
config.yaml.`,
		Args: cobra.NoArgs,
		RunE: runSelfUpdate,
	}
	c.Flags().StringVar(&selfUpdateRepository, "repository", "", "GitHub repository (owner/repo) to fetch releases from")
	return c
}

// releaseRepository returns the owner/repo slug to query, preferring the
// flag over config.yaml.
func releaseRepository() (string, error) {
	slug := selfUpdateRepository
	if slug == "" {
		dir := configPath
		if dir == "" {
			defaultPath, err := config.GetDefaultConfigPath()
			if err != nil {
				return "", err
			}
			dir = defaultPath
		}
		cfg, err := config.LoadConfig(dir)
		if err != nil {
			return "", err
		}
		slug = cfg.UpdateRepository
	}
	if slug == "" {
		return "", fmt.Errorf("no release repository configured: pass --repository or set updateRepository in config.yaml")
	}
	owner, repo, ok := strings.Cut(slug, "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", fmt.Errorf("invalid release repository %q: expected owner/repo", slug)
	}
	return slug, nil
}

// runSelfUpdate checks the current version against the latest GitHub
// release and replaces the running binary if a newer one exists.
func runSelfUpdate(cmd *cobra.Command, args []string) error {
	currentVersion := rootCmd.Version
	// Development builds do not follow semantic versioning.
	if currentVersion == "" || currentVersion == "dev" {
		return fmt.Errorf("cannot self-update a development version")
	}

	slug, err := releaseRepository()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Current version: %s\n", currentVersion)
	fmt.Fprintf(out, "Checking %s for updates...\n", slug)

	updater, err := newUpdater()
	if err != nil {
		return fmt.Errorf("failed to create updater: %w", err)
	}

	latest, found, err := updater.DetectLatest(ctx, selfupdate.ParseSlug(slug))
	if err != nil {
		return fmt.Errorf("error detecting latest version: %w", err)
	}
	if !found {
		return fmt.Errorf("latest release for %s could not be found", slug)
	}

	if !latest.GreaterThan(currentVersion) {
		fmt.Fprintln(out, "Current version is the latest.")
		return nil
	}

	fmt.Fprintf(out, "Found newer version: %s (published at %s)\n", latest.Version(), latest.PublishedAt)
	fmt.Fprintf(out, "Release notes:\n%s\n", latest.ReleaseNotes)

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return fmt.Errorf("could not locate executable path: %w", err)
	}

	fmt.Fprintf(out, "Updating %s to version %s...\n", exe, latest.Version())
	if err := updater.UpdateTo(ctx, latest, exe); err != nil {
		return fmt.Errorf("update failed: %w", err)
	}

	fmt.Fprintf(out, "Successfully updated to version %s\n", latest.Version())
	return nil
}
