package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ItsNotGoodName/x-wmshell/internal/api"
	"github.com/ItsNotGoodName/x-wmshell/internal/build"
	"github.com/ItsNotGoodName/x-wmshell/internal/bus"
	"github.com/ItsNotGoodName/x-wmshell/internal/compositor"
	"github.com/ItsNotGoodName/x-wmshell/internal/config"
	"github.com/ItsNotGoodName/x-wmshell/internal/core"
	"github.com/ItsNotGoodName/x-wmshell/internal/output"
	"github.com/ItsNotGoodName/x-wmshell/internal/shell"
	"github.com/ItsNotGoodName/x-wmshell/internal/transport"
	"github.com/ItsNotGoodName/x-wmshell/internal/xcursor"
	"github.com/ItsNotGoodName/x-wmshell/internal/xwm"
	"github.com/ItsNotGoodName/x-wmshell/pkg/sutureext"
	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/jezek/xgb"
	"github.com/joho/godotenv"
	"github.com/k0kubun/pp"
	"github.com/phsym/console-slog"
	"golang.org/x/term"
)

type Options struct {
	Debug  bool   `doc:"enable debug"`
	Host   string `doc:"host to listen on"`
	Port   int    `doc:"port to listen on" default:"8080"`
	Config string `doc:"config file" default:".x-wmshell.yaml"`
	Trace  string `doc:"trace file to replay on start"`
	X11    bool   `doc:"read outputs from the X server and draw the windows on it"`
	Dump   bool   `doc:"print the windows once the trace is replayed"`
}

func main() {
	godotenv.Load()

	cli := humacli.New(func(hooks humacli.Hooks, options *Options) {
		if options.Debug {
			InitLogger(slog.LevelDebug)
		} else {
			InitLogger(slog.LevelInfo)
		}

		OnServe(hooks, func(ctx context.Context) error {
			return serve(ctx, options)
		})
	})

	cli.Root().Version = build.Current.Version

	cli.Run()
}

func serve(ctx context.Context, options *Options) error {
	bus.SetContext(ctx)

	configFilePath, err := filepath.Abs(options.Config)
	if err != nil {
		return err
	}

	store, err := config.NewStore(config.NewDriver(configFilePath))
	if err != nil {
		return err
	}

	cfg, err := store.GetConfig()
	if err != nil {
		return err
	}

	book, err := cfg.Book()
	if err != nil {
		return err
	}

	var (
		outputs output.Service
		cursor  compositor.Cursor
	)
	if options.X11 {
		conn, err := xgb.NewConn()
		if err != nil {
			return err
		}
		defer conn.Close()

		x11, err := output.NewX11(conn)
		if err != nil {
			return err
		}
		outputs = x11

		mirror, err := xwm.NewMirror(conn)
		if err != nil {
			return err
		}
		bus.Subscribe("xwm.Mirror", mirror.Handle)
		cursor = xcursor.NewX11(conn, mirror.WID())
	} else {
		outputs = output.NewStatic(cfg.Outputs...)
	}

	ws := shell.NewWorkspace(outputs, cfg.Decoration.Bridge(), compositor.RulesFor(book), cfg.Options)
	loop := compositor.New(ws, cursor)

	hub := bus.NewHub[compositor.Event]().Register()
	bus.Subscribe("main", func(ctx context.Context, ev compositor.Event) error {
		slog.Debug("Workspace event", "event", ev.EventName())
		return nil
	})

	super := sutureext.NewSimple("root")
	sutureext.Add(super, loop)
	sutureext.Add(super, api.NewServer(core.Address(options.Host, options.Port), api.NewRouter(api.NewHandler(loop, hub))))

	if options.Trace != "" {
		trace, err := transport.ReadTrace(options.Trace)
		if err != nil {
			return err
		}

		sutureext.Add(super, sutureext.NewServiceFunc("transport.Replay", func(ctx context.Context) error {
			if err := transport.Replay(ctx, trace, loop); err != nil {
				return err
			}
			slog.Info("Replayed trace", "file", options.Trace, "steps", len(trace.Steps))

			if options.Dump {
				if err := dump(ctx, loop); err != nil {
					return err
				}
			}

			<-ctx.Done()
			return ctx.Err()
		}))
	}

	return super.Serve(ctx)
}

func dump(ctx context.Context, loop *compositor.Loop) error {
	var snapshots []shell.Snapshot
	err := loop.Do(ctx, func(ws *shell.Workspace) error {
		for _, w := range ws.Windows() {
			snapshots = append(snapshots, w.Snapshot())
		}
		return nil
	})
	if err != nil {
		return err
	}

	pp.ColoringEnabled = term.IsTerminal(int(os.Stdout.Fd()))
	pp.Println(snapshots)
	return nil
}

func InitLogger(level slog.Level) {
	slog.SetDefault(slog.New(console.NewHandler(os.Stderr, &console.HandlerOptions{
		Level: level,
	})))
}

func OnServe(hooks humacli.Hooks, serveFn func(ctx context.Context) error) {
	stopC := make(chan struct{})
	hooks.OnStart(func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		errC := make(chan error, 1)

		go func() { errC <- serveFn(ctx) }()

		select {
		case <-stopC:
			cancel()
		case err := <-errC:
			if err != nil && !errors.Is(err, context.Canceled) {
				log.Fatal(err)
			}
			return
		}

		<-errC
		<-stopC
	})
	hooks.OnStop(func() {
		stopC <- struct{}{}
		stopC <- struct{}{}
	})
}
