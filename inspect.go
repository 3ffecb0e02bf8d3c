package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"loov.dev/evmlens/internal/editor"
	"loov.dev/evmlens/internal/listing"
	"loov.dev/evmlens/internal/solc"
	"loov.dev/evmlens/internal/workspace"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <contract file>",
	Short: "Compile once and print the annotated bytecode",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := effectiveConfig()
		if err != nil {
			return err
		}

		entry := args[0]
		tree, name, err := loadProject(entry)
		if err != nil {
			return err
		}

		client := solc.NewClient(cfg.Compiler.URL)
		client.EVMVersion = cfg.Compiler.EVMVersion

		res, err := client.Compile(context.Background(), name, tree.Flatten())
		if err != nil {
			return err
		}
		if !res.Success {
			renderErrors(os.Stderr, res.Errors)
			return fmt.Errorf("compilation failed")
		}

		text, err := tree.ReadFile(name)
		if err != nil {
			return err
		}

		mode := editor.ParseDisplayMode(flagMode)
		sess := editor.NewSession(noEditor{}, nil)
		sess.SetResult(res)

		l := listing.Build(text, sess.Bytecode(mode), sess.Segments(mode), cfg.Context)
		renderListing(os.Stdout, l, mode.String())
		return nil
	},
}

// loadProject builds a workspace from the directory of the entry file,
// taking every sibling with the same extension so imports resolve.
func loadProject(entry string) (*workspace.Tree, string, error) {
	dir := filepath.Dir(entry)
	name := filepath.Base(entry)

	tree, err := workspace.FromDir(dir, filepath.Ext(name))
	if err != nil {
		return nil, "", err
	}
	if _, err := tree.ReadFile(name); err != nil {
		return nil, "", fmt.Errorf("loading %s: %w", entry, err)
	}
	return tree, name, nil
}

// noEditor satisfies the editor boundary for headless commands; the
// hover controller is never driven from the CLI.
type noEditor struct{}

func (noEditor) Text() string                              { return "" }
func (noEditor) ApplyHighlight(editor.Range) editor.Handle { return 0 }
func (noEditor) ClearHighlight(editor.Handle)              {}
func (noEditor) RevealRange(editor.Range)                  {}
