package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gravitrone/annotator/cli/internal/kb"
)

// KBCmd returns the `annotator kb` command group.
func KBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kb",
		Short: "Browse project knowledge bases",
	}
	cmd.AddCommand(kbListCmd())
	cmd.AddCommand(kbFindCmd())
	return cmd
}

func kbListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List enabled knowledge bases",
		RunE: func(c *cobra.Command, _ []string) error {
			rt, err := LoadRuntime(verbose(c))
			if err != nil {
				return err
			}
			defer rt.Close()

			kbs, err := rt.Client.ListEnabledKnowledgeBases(rt.Config.Project)
			if err != nil {
				return fmt.Errorf("list knowledge bases: %w", err)
			}
			out := c.OutOrStdout()
			if len(kbs) == 0 {
				fmt.Fprintln(out, "no knowledge bases enabled")
				return nil
			}

			def := kb.DefaultIndex(kbs, rt.Config.DefaultKnowledgeBase)
			for i, k := range kbs {
				mark := " "
				if i == def {
					mark = "*"
				}
				var flags []string
				if k.ReadOnly {
					flags = append(flags, "read-only")
				}
				if k.FullTextSearch {
					flags = append(flags, "full-text")
				}
				line := fmt.Sprintf("%s %s  %s", mark, k.Name, k.ID)
				if len(flags) > 0 {
					line += "  (" + strings.Join(flags, ", ") + ")"
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
}

func kbFindCmd() *cobra.Command {
	var name string
	var all bool
	cmd := &cobra.Command{
		Use:   "find [prefix]",
		Short: "List concepts and properties whose label starts with prefix",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			rt, err := LoadRuntime(verbose(c))
			if err != nil {
				return err
			}
			defer rt.Close()

			kbs, err := rt.Client.ListEnabledKnowledgeBases(rt.Config.Project)
			if err != nil {
				return fmt.Errorf("list knowledge bases: %w", err)
			}
			if len(kbs) == 0 {
				return fmt.Errorf("no knowledge bases enabled in project %s", rt.Config.Project)
			}
			if name == "" {
				name = rt.Config.DefaultKnowledgeBase
			}
			target := kbs[kb.DefaultIndex(kbs, name)]

			prefix := ""
			if len(args) == 1 {
				prefix = args[0]
			}
			panel := kb.NewPanel(rt.Client, nil, rt.Log)
			panel.SetKnowledgeBase(target)
			results, err := panel.Search(prefix)
			if err != nil {
				return err
			}

			out := c.OutOrStdout()
			shown := 0
			for _, h := range results {
				if !all && !kb.Selectable(h) {
					continue
				}
				fmt.Fprintf(out, "  %-9s %s  %s\n", h.Kind, h.UIName(), h.Identifier)
				shown++
			}
			if shown == 0 {
				fmt.Fprintf(out, "no matches in %s\n", target.Name)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "kb", "k", "", "knowledge base id or name")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "include instances")
	return cmd
}
