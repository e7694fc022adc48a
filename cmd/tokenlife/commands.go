package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/bft-labs/tokenlife/internal/replay"
	"github.com/bft-labs/tokenlife/pkg/log"
	"github.com/bft-labs/tokenlife/pkg/store"
	"github.com/bft-labs/tokenlife/pkg/token"
	"github.com/bft-labs/tokenlife/plugins/statewatcher"
)

const maskedToken = "*****"

// view is the printed form of a state.
type view struct {
	Status   string `json:"status"`
	Token    string `json:"token,omitempty"`
	TokenLen int    `json:"token_len,omitempty"`
}

func (a *app) printState(st token.State) error {
	v := view{Status: st.Status.String()}
	if st.HasToken() {
		v.TokenLen = len(st.Token)
		v.Token = maskedToken
		if a.cfg.ShowToken {
			v.Token = st.Token
		}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.out, string(b))
	return err
}

// persister saves every change and keeps the first save error.
type persister struct {
	ctx context.Context
	a   *app
	mu  sync.Mutex
	err error
}

func (p *persister) listen(c store.Change) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return
	}
	if err := p.a.repo.Save(p.ctx, c.Current); err != nil {
		p.err = fmt.Errorf("save snapshot: %w", err)
	}
}

func (p *persister) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// openStore loads the snapshot and returns a store that persists changes.
func (a *app) openStore(ctx context.Context) (*store.Store, *persister, error) {
	st, err := a.repo.Load(ctx)
	if err != nil {
		return nil, nil, err
	}
	p := &persister{ctx: ctx, a: a}
	s := store.New(st,
		store.WithLogger(a.logger.With(log.String("component", "store"))),
		store.WithListener(p.listen),
	)
	return s, p, nil
}

func signalNames() string {
	names := make([]string, 0, 3)
	for _, s := range token.Signals() {
		names = append(names, s.String())
	}
	return strings.Join(names, ", ")
}

func newSignalsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "signals",
		Short: "List the token signal identifiers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, s := range token.Signals() {
				if _, err := fmt.Fprintln(a.out, s); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print the persisted token state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.repo.Load(cmd.Context())
			if err != nil {
				return err
			}
			return a.printState(st)
		},
	}
}

func (a *app) dispatchOne(ctx context.Context, act token.Action) error {
	s, p, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	st, err := s.Dispatch(act)
	if err != nil {
		return err
	}
	if err := p.Err(); err != nil {
		return err
	}
	return a.printState(st)
}

func newApplyCmd(a *app) *cobra.Command {
	var tok string
	cmd := &cobra.Command{
		Use:   "apply SIGNAL",
		Short: "Apply one signal to the persisted state",
		Long:  "Apply one signal to the persisted state. SIGNAL is one of " + signalNames() + ".",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sig, ok := token.ParseSignal(args[0])
			if !ok {
				return fmt.Errorf("unknown signal %q (want one of %s)", args[0], signalNames())
			}
			act := token.Action{Type: sig}
			if cmd.Flags().Changed("token") {
				act.Payload = &tok
			}
			return a.dispatchOne(cmd.Context(), act)
		},
	}
	cmd.Flags().StringVar(&tok, "token", "", "token payload for TOKEN_RECEIVED")
	return cmd
}

func newClearCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Discard the held token (TOKEN_CLEARED)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.dispatchOne(cmd.Context(), token.Cleared())
		},
	}
}

func newReplayCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "replay [FILE|-]",
		Short: "Apply a newline-delimited JSON stream of actions in order",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}

			s, p, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}

			actions := make(chan token.Action)
			g, gctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error { return replay.Feed(gctx, r, actions) })
			g.Go(func() error { return s.Run(gctx, actions) })
			if err := g.Wait(); err != nil {
				return err
			}
			if err := p.Err(); err != nil {
				return err
			}

			a.logger.Info("replay finished")
			return a.printState(s.State())
		},
	}
}

func newWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print the token state whenever the snapshot changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			w := statewatcher.New(statewatcher.Config{Debounce: a.cfg.WatchDebounce}, a.repo, a.logger)
			return w.Run(ctx, func(st token.State) {
				if err := a.printState(st); err != nil {
					a.logger.Error("print state", log.Err(err))
				}
			})
		},
	}
}
