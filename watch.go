package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"loov.dev/evmlens/internal/editor"
	"loov.dev/evmlens/internal/listing"
	"loov.dev/evmlens/internal/solc"
	"loov.dev/evmlens/internal/workspace"
)

var watchCmd = &cobra.Command{
	Use:   "watch <contract file>",
	Short: "Recompile on save and reprint the annotated bytecode",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := effectiveConfig()
		if err != nil {
			return err
		}
		debounce, err := cfg.debounce()
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

		mode := editor.ParseDisplayMode(flagMode)
		sess := editor.NewSession(noEditor{}, nil)

		compile := func(ctx context.Context, text string) (*solc.Result, error) {
			files := tree.Flatten()
			files[name] = text
			return client.Compile(ctx, name, files)
		}
		apply := func(seq uint64, res *solc.Result, err error) {
			fmt.Printf("\n--- compile #%d %s ---\n", seq, time.Now().Format("15:04:05"))
			if err != nil {
				renderErrors(os.Stderr, []string{err.Error()})
				return
			}
			if !res.Success {
				renderErrors(os.Stderr, res.Errors)
				return
			}
			sess.SetResult(res)
			text, _ := tree.ReadFile(name)
			l := listing.Build(text, sess.Bytecode(mode), sess.Segments(mode), cfg.Context)
			renderListing(os.Stdout, l, mode.String())
		}

		rec := editor.NewRecompiler(debounce, compile, apply)
		defer rec.Close()
		rec.SetAuto(true)

		watcher := &fileWatcher{path: entry, name: name, tree: tree, rec: rec}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		tick := time.NewTicker(100 * time.Millisecond)
		defer tick.Stop()
		for {
			if err := watcher.poll(); err != nil {
				fmt.Fprintf(os.Stderr, "watching %q: %v\n", entry, err)
			}

			select {
			case <-tick.C:
			case <-ctx.Done():
				return nil
			}
		}
	},
}

// fileWatcher polls one file and feeds saved contents to the scheduler;
// each modification time is reported at most once, so an unchanged file
// never issues a compile.
type fileWatcher struct {
	path    string
	name    string
	tree    *workspace.Tree
	rec     *editor.Recompiler
	lastMod time.Time
}

// poll checks the file once, like an editor keystroke would on save.
func (w *fileWatcher) poll() error {
	stat, err := os.Stat(w.path)
	if err != nil {
		return err
	}
	if stat.ModTime().Equal(w.lastMod) {
		return nil
	}
	w.lastMod = stat.ModTime()

	data, err := os.ReadFile(w.path)
	if err != nil {
		return err
	}
	_ = w.tree.WriteFile(w.name, string(data))
	w.rec.TextChanged(string(data))
	return nil
}
