package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gravitrone/annotator/cli/internal/api"
	"github.com/gravitrone/annotator/cli/internal/config"
)

// RunInteractiveLogin prompts for username, calls login API, and persists config.
// The project comes from the login response, or is prompted for when the
// server does not assign one.
func RunInteractiveLogin(in io.Reader, out io.Writer, serverURL string) error {
	reader := bufio.NewReader(in)

	fmt.Fprint(out, "username: ")
	username, _ := reader.ReadString('\n')
	username = strings.TrimSpace(username)

	if username == "" {
		return fmt.Errorf("username is required")
	}

	serverURL = strings.TrimRight(strings.TrimSpace(serverURL), "/")
	if serverURL == "" {
		serverURL = api.DefaultBaseURL
	}
	client := api.NewClient(serverURL, "")
	resp, err := client.Login(username)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	project := strings.TrimSpace(resp.Project)
	if project == "" {
		fmt.Fprint(out, "project: ")
		project, _ = reader.ReadString('\n')
		project = strings.TrimSpace(project)
		if project == "" {
			return fmt.Errorf("project is required")
		}
	}

	cfg := &config.Config{
		APIKey:   resp.APIKey,
		Username: resp.Username,
		Project:  project,
		Theme:    "dark",
		VimKeys:  true,
	}
	if serverURL != api.DefaultBaseURL {
		cfg.BaseURL = serverURL
	}

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	fmt.Fprintf(out, "logged in as %s (project %s)\n", resp.Username, project)
	fmt.Fprintf(out, "config saved to %s\n", config.Path())
	return nil
}

// LoginCmd returns the `annotator login` command.
func LoginCmd() *cobra.Command {
	var serverURL string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate with an annotation platform",
		RunE: func(c *cobra.Command, _ []string) error {
			return RunInteractiveLogin(os.Stdin, c.OutOrStdout(), serverURL)
		},
	}
	cmd.Flags().StringVar(&serverURL, "url", api.DefaultBaseURL, "platform API base URL")
	return cmd
}
