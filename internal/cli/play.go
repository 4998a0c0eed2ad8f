package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"wordquiz/internal/app"
	"wordquiz/internal/domain"
)

type playOptions struct {
	mode    string
	choices string
	timeout time.Duration
}

// NewPlayCmd runs a single round in the terminal.
func NewPlayCmd(configPath *string) *cobra.Command {
	opts := playOptions{}
	cmd := &cobra.Command{
		Use:     "play",
		Short:   "Play one round in the terminal",
		Example: "  wordquiz play --mode hard --choices 4\n  wordquiz play --mode hard --choices hell",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd.Context(), *configPath, opts, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&opts.mode, "mode", "", "difficulty: easy, normal or hard")
	cmd.Flags().StringVar(&opts.choices, "choices", "", "number of options (2-10) or hell")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "answer time (overrides quiz.timeout)")
	return cmd
}

func runPlay(ctx context.Context, configPath string, opts playOptions, in io.Reader, out io.Writer) error {
	rt, err := loadRuntime(ctx, configPath)
	if err != nil {
		return err
	}
	defer rt.Close()

	var svcOpts []app.ServiceOption
	if opts.timeout > 0 {
		svcOpts = append(svcOpts, app.WithRoundTimeout(opts.timeout))
	}
	service := rt.service(svcOpts...)

	// renders arrive from the round's timer goroutine too
	out = &lockedWriter{w: out}

	round, err := service.NewRound(ctx, opts.mode, opts.choices, func(render domain.Render) {
		printRender(out, render)
	})
	if err != nil {
		fmt.Fprintln(out, app.UserMessage(err))
		return err
	}

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-round.Done():
				return
			}
		}
	}()

	options := round.Options()
	for {
		select {
		case <-ctx.Done():
			round.Timeout()
			return ctx.Err()
		case <-round.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				// stdin closed; the deadline still decides the round
				lines = nil
				continue
			}
			n, err := strconv.Atoi(strings.TrimSpace(line))
			if err != nil || n < 1 || n > len(options) {
				fmt.Fprintf(out, "Pick a number between 1 and %d.\n", len(options))
				continue
			}
			if _, err := round.Submit(options[n-1], domain.Responder{UserID: "terminal"}); err != nil {
				return err
			}
		}
	}
}

func printRender(out io.Writer, render domain.Render) {
	fmt.Fprintln(out, render.Content)
	for i, opt := range render.Options {
		mark := " "
		if render.State.Terminal() {
			switch {
			case opt.Style == domain.StyleSuccess:
				mark = "✔"
			case opt.Chosen:
				mark = "✘"
			}
		}
		fmt.Fprintf(out, "%s %d) %s\n", mark, i+1, opt.Label)
	}
}

type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
