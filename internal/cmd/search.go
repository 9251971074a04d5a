package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gravitrone/annotator/cli/internal/api"
	"github.com/gravitrone/annotator/cli/internal/event"
	"github.com/gravitrone/annotator/cli/internal/search"
)

func newSession(rt *Runtime, repository string) *search.Session {
	bus := event.NewBus()
	search.LogQueries(bus, rt.Log.Named("audit"))
	search.CountQueries(bus)
	search.ForwardQueries(bus, rt.Client)

	webURL := strings.TrimSpace(rt.Config.WebURL)
	if webURL == "" {
		webURL = rt.Client.BaseURL()
	}
	if strings.TrimSpace(repository) == "" {
		repository = rt.Config.DefaultRepository
	}
	return search.NewSession(rt.Client, bus, rt.Log, search.Options{
		User:              rt.Config.Username,
		Project:           rt.Config.Project,
		WebURL:            webURL,
		PageSize:          rt.Config.ResultsPerPage(),
		DefaultRepository: repository,
	})
}

// SearchCmd returns the `annotator search` command.
func SearchCmd() *cobra.Command {
	var repository string
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Query an external document repository",
		Long:  "Query an external document repository of the current project. An empty query matches every document.",
		RunE: func(c *cobra.Command, args []string) error {
			rt, err := LoadRuntime(verbose(c))
			if err != nil {
				return err
			}
			defer rt.Close()

			session := newSession(rt, repository)
			if err := session.LoadRepositories(); err != nil {
				return err
			}
			res := session.Submit(strings.Join(args, " "))
			if res.Err != nil {
				return fmt.Errorf("%s", session.Message())
			}
			printResults(c.OutOrStdout(), session)
			return nil
		},
	}
	cmd.Flags().StringVarP(&repository, "repository", "r", "", "repository id or name")
	return cmd
}

func printResults(out io.Writer, session *search.Session) {
	repo, ok := session.Repository()
	if !ok {
		fmt.Fprintln(out, session.Message())
		return
	}
	rows := session.Results().Rows()
	fmt.Fprintf(out, "%s: %d results\n", repo.Name, len(rows))
	if len(rows) == 0 {
		return
	}
	for _, row := range rows {
		status := row.Status()
		if row.StatusErr != nil {
			status = "unknown"
		}
		fmt.Fprintf(out, "  %s  score: %.2f  %s  [%s]\n", row.Title, row.Result.Score, status, row.Action())
		for _, frags := range row.Highlights {
			fmt.Fprintf(out, "      %s\n", search.PlainText(frags))
		}
	}
}

// ImportCmd returns the `annotator import` command.
func ImportCmd() *cobra.Command {
	var repository string
	cmd := &cobra.Command{
		Use:   "import <title>",
		Short: "Import a document from an external repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			rt, err := LoadRuntime(verbose(c))
			if err != nil {
				return err
			}
			defer rt.Close()

			session := newSession(rt, repository)
			if err := session.LoadRepositories(); err != nil {
				return err
			}
			repo, ok := session.Repository()
			if !ok {
				return fmt.Errorf("%s", search.MsgNoRepository)
			}

			row := search.NewRow(api.ExternalSearchResult{DocumentTitle: args[0]})
			exists, err := rt.Client.ExistsSourceDocument(rt.Config.Project, row.Key())
			if err != nil {
				return fmt.Errorf("check document: %w", err)
			}
			if !exists {
				doc, err := session.Import(repo, row)
				if err != nil {
					return err
				}
				fmt.Fprintf(c.OutOrStdout(), "imported %s from %s\n", doc.Name, repo.Name)
			} else {
				fmt.Fprintf(c.OutOrStdout(), "%s is already imported\n", row.Key())
			}

			link, err := session.AnnotationLink(row)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.OutOrStdout(), "annotate at %s\n", link)
			return nil
		},
	}
	cmd.Flags().StringVarP(&repository, "repository", "r", "", "repository id or name")
	return cmd
}
