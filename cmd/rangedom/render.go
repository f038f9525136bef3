package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/rangedom/internal/demo"
	"github.com/vango-dev/rangedom/internal/errors"
	"github.com/vango-dev/rangedom/pkg/host"
	"github.com/vango-dev/rangedom/pkg/host/htmldoc"
	"github.com/vango-dev/rangedom/pkg/vdom"
)

func renderCmd(flags *globalFlags) *cobra.Command {
	var (
		fragment bool
		clicks   []string
		output   string
	)

	cmd := &cobra.Command{
		Use:   "render <demo>",
		Short: "Render a demo tree to HTML",
		Long: `Render a demo tree into a fresh document and print its HTML.

Each --click dispatches a click to the first button whose text matches,
so the printed HTML reflects the state updates those clicks cause.

Examples:
  rangedom render static
  rangedom render counter --click +1 --click +1
  rangedom render todo --click add --click remove --shrink retain --fragment`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: demo.Names(),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := flags.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			tree, ok := demo.Lookup(args[0])
			if !ok {
				return errors.New("E001").
					WithComponent(args[0]).
					WithSuggestion("Available demos: " + strings.Join(demo.Names(), ", "))
			}

			doc := htmldoc.New()
			r := vdom.NewRenderer(doc, engineOptions(cfg, logger)...)
			if err := r.Render(tree, doc.Body()); err != nil {
				return err
			}
			for _, label := range clicks {
				btn := findButton(doc.Body(), label)
				if btn == nil {
					return fmt.Errorf("no button labelled %q", label)
				}
				if err := doc.Dispatch(btn, "click", nil); err != nil {
					return err
				}
			}

			var html string
			if fragment {
				html, err = htmldoc.InnerHTML(doc.Body())
			} else {
				html, err = doc.HTML()
			}
			if err != nil {
				return err
			}

			if output == "" {
				fmt.Fprintln(cmd.OutOrStdout(), html)
				return nil
			}
			if err := os.WriteFile(output, []byte(html+"\n"), 0644); err != nil {
				return err
			}
			success(cmd.ErrOrStderr(), "Wrote %s", output)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&fragment, "fragment", "f", false, "Print only the body content")
	cmd.Flags().StringArrayVar(&clicks, "click", nil, "Click the button with this label (repeatable)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write HTML to a file instead of stdout")

	return cmd
}

// findButton returns the first <button> under n whose text is label.
func findButton(n host.Node, label string) host.Node {
	for _, c := range htmldoc.Children(n) {
		if htmldoc.Tag(c) == "button" && htmldoc.TextContent(c) == label {
			return c
		}
		if hit := findButton(c, label); hit != nil {
			return hit
		}
	}
	return nil
}
