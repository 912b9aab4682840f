package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/npillmayer/cssompatch/applier"
	"github.com/npillmayer/cssompatch/patch"
	"github.com/spf13/cobra"
)

func newWatchCmd(a *app) *cobra.Command {
	var output string
	var debounce time.Duration
	cmd := &cobra.Command{
		Use:   "watch <css> <dir>",
		Short: "Apply patch files as they appear in a directory",
		Long: `Watch applies every patch file (*.json, *.yaml, *.yml) created or
written in dir to the stylesheet, rewrites the stylesheet and prints the ops.
Files are handled once they have been quiet for the debounce interval.
All patches work on the same rule index. If the css file changes on disk,
it is read again before the next patch file is applied.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := a.newWatcher(cmd, args[0], output)
			if err != nil {
				return err
			}
			w.debounce = debounce
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			fsw, err := fsnotify.NewWatcher()
			if err != nil {
				return err
			}
			defer fsw.Close()
			if err := fsw.Add(args[1]); err != nil {
				return err
			}
			fmt.Fprintf(w.errw, "watching %s\n", args[1])
			w.loop(ctx, fsw)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the stylesheet to file (default: the css file)")
	cmd.Flags().DurationVar(&debounce, "debounce", defaultDebounce, "quiet period before a patch file is applied")
	return cmd
}

const defaultDebounce = 100 * time.Millisecond

// watcher applies patch files to a long-lived session.
type watcher struct {
	a        *app
	session  *applier.Session
	css      string // stylesheet file
	disk     string // last known content of css
	output   string
	out      io.Writer
	errw     io.Writer
	reported int
	debounce time.Duration
}

func (a *app) newWatcher(cmd *cobra.Command, css, output string) (*watcher, error) {
	sheet, text, err := readSheet(css)
	if err != nil {
		return nil, err
	}
	session, err := applier.NewSession(sheet, a.config.AtRules)
	if err != nil {
		return nil, err
	}
	if output == "" {
		output = css
	}
	return &watcher{
		a:        a,
		session:  session,
		css:      css,
		disk:     text,
		output:   output,
		out:      cmd.OutOrStdout(),
		errw:     cmd.ErrOrStderr(),
		debounce: defaultDebounce,
	}, nil
}

// loop collects patch file events and handles every file once it has been
// quiet for the debounce interval. Pending files are handled when ctx ends.
func (w *watcher) loop(ctx context.Context, fsw *fsnotify.Watcher) {
	pending := make(map[string]bool)
	var timer *time.Timer
	var timerC <-chan time.Time
	flush := func() {
		names := make([]string, 0, len(pending))
		for name := range pending {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			delete(pending, name)
			if err := w.handle(name); err != nil {
				w.a.warn(w.errw, []error{err})
			}
		}
		if timer != nil {
			timer.Stop()
			timer, timerC = nil, nil
		}
	}
	for {
		select {
		case <-ctx.Done():
			flush()
			return
		case event, ok := <-fsw.Events:
			if !ok {
				flush()
				return
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !isPatchFile(event.Name) {
				continue
			}
			pending[event.Name] = true
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}
		case <-timerC:
			flush()
		case err, ok := <-fsw.Errors:
			if !ok {
				flush()
				return
			}
			w.a.warn(w.errw, []error{err})
		}
	}
}

// handle applies the patches of file and rewrites the output file.
func (w *watcher) handle(file string) error {
	patches, err := patch.Load(file)
	if err != nil {
		return fmt.Errorf("%s: %w", file, err)
	}
	if err := w.reload(); err != nil {
		return err
	}
	ops := w.session.Apply(patches...)
	warnings := w.session.Warnings()
	w.a.warn(w.errw, warnings[w.reported:])
	w.reported = len(warnings)
	text := w.session.Sheet().CSSText()
	if err := writeText(w.out, w.output, text); err != nil {
		return err
	}
	if w.output == w.css {
		w.disk = text + "\n"
	}
	return writeOps(w.out, ops)
}

// reload starts a new session if the css file has changed on disk.
func (w *watcher) reload() error {
	sheet, text, err := readSheet(w.css)
	if err != nil {
		return err
	}
	if text == w.disk {
		return nil
	}
	session, err := applier.NewSession(sheet, w.a.config.AtRules)
	if err != nil {
		return err
	}
	fmt.Fprintf(w.errw, "%s changed on disk, reloaded\n", w.css)
	w.session, w.disk, w.reported = session, text, 0
	return nil
}

func isPatchFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".yaml", ".yml":
		return !strings.HasPrefix(filepath.Base(name), ".")
	}
	return false
}
