package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/GriffinCanCode/novashell/internal/client"
	"github.com/GriffinCanCode/novashell/internal/grpc"
	"github.com/GriffinCanCode/novashell/internal/shared/types"
	"github.com/GriffinCanCode/novashell/internal/tui"
)

const usage = `novactl controls a running NovaShell device service.

Usage:

	novactl [-server URL] <command> [args]

Commands:

	state                        print the device snapshot
	toggle <name> on|off         set a device flag (wifi, downloading, charging,
	                             firewall, vpn, location, camera, mic)
	notify [-kind K] <title> <message>
	dismiss <id>                 remove a notification
	apps [-q query]              list the app catalog
	launch <id>                  foreground an app
	close <id>                   stop a running app
	home | back | switcher | lock
	unlock <pin>                 leave the lock screen
	monitor [-history]           telemetry statistics
	health [-addr host:port]     gRPC health of the device service
	watch                        live terminal view
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "novactl: %v\n", err)
		os.Exit(1)
	}
}

var errUsage = errors.New("invalid usage")

func run(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("novactl", flag.ContinueOnError)
	server := fs.String("server", envOr("NOVASHELL_URL", client.DefaultBaseURL), "Server base URL")
	timeout := fs.Duration("timeout", 10*time.Second, "Request timeout")
	fs.Usage = func() { fmt.Fprint(fs.Output(), usage) }
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errUsage
	}

	cfg := client.DefaultConfig()
	cfg.BaseURL = *server
	cfg.Timeout = *timeout
	c := client.New(cfg)

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "state":
		return printResult[types.Snapshot](out)(c.State(ctx))

	case "toggle":
		if len(rest) != 2 {
			return fmt.Errorf("%w: toggle <name> on|off", errUsage)
		}
		enabled, err := parseOnOff(rest[1])
		if err != nil {
			return err
		}
		return printResult[types.Snapshot](out)(c.SetToggle(ctx, types.Toggle(rest[0]), enabled))

	case "notify":
		nfs := flag.NewFlagSet("notify", flag.ContinueOnError)
		kind := nfs.String("kind", string(types.KindInfo), "info, success, warning or error")
		if err := nfs.Parse(rest); err != nil {
			return err
		}
		if nfs.NArg() != 2 {
			return fmt.Errorf("%w: notify [-kind K] <title> <message>", errUsage)
		}
		return printResult[client.NotifyResult](out)(c.Notify(ctx, nfs.Arg(0), nfs.Arg(1), types.NotificationKind(*kind)))

	case "dismiss":
		if len(rest) != 1 {
			return fmt.Errorf("%w: dismiss <id>", errUsage)
		}
		return c.Dismiss(ctx, rest[0])

	case "apps":
		afs := flag.NewFlagSet("apps", flag.ContinueOnError)
		query := afs.String("q", "", "Filter by name")
		if err := afs.Parse(rest); err != nil {
			return err
		}
		return printResult[client.AppsResult](out)(c.Apps(ctx, *query))

	case "launch", "close":
		if len(rest) != 1 {
			return fmt.Errorf("%w: %s <id>", errUsage, cmd)
		}
		id := types.AppID(rest[0])
		if cmd == "launch" {
			return printResult[types.ShellState](out)(c.Launch(ctx, id))
		}
		return printResult[types.ShellState](out)(c.CloseApp(ctx, id))

	case "home":
		return printResult[types.ShellState](out)(c.Home(ctx))
	case "back":
		return printResult[types.ShellState](out)(c.Back(ctx))
	case "switcher":
		return printResult[types.ShellState](out)(c.Switcher(ctx))
	case "lock":
		return printResult[types.ShellState](out)(c.Lock(ctx))

	case "unlock":
		if len(rest) != 1 {
			return fmt.Errorf("%w: unlock <pin>", errUsage)
		}
		return printResult[types.ShellState](out)(c.Unlock(ctx, rest[0]))

	case "monitor":
		mfs := flag.NewFlagSet("monitor", flag.ContinueOnError)
		history := mfs.Bool("history", false, "Include raw samples")
		if err := mfs.Parse(rest); err != nil {
			return err
		}
		return printResult[client.MonitorResult](out)(c.Monitor(ctx, *history))

	case "health":
		hfs := flag.NewFlagSet("health", flag.ContinueOnError)
		addr := hfs.String("addr", "localhost:50051", "gRPC health address")
		if err := hfs.Parse(rest); err != nil {
			return err
		}
		return health(ctx, *addr, out)

	case "watch":
		return watch(ctx, c)

	default:
		fs.Usage()
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

// printResult writes v as indented JSON unless err is set
func printResult[T any](out io.Writer) func(T, error) error {
	return func(v T, err error) error {
		if err != nil {
			return err
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
}

func parseOnOff(s string) (bool, error) {
	switch s {
	case "on", "true", "1":
		return true, nil
	case "off", "false", "0":
		return false, nil
	}
	return false, fmt.Errorf("%w: expected on or off, got %q", errUsage, s)
}

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func health(ctx context.Context, addr string, out io.Writer) error {
	hc, err := grpc.NewHealthClient(addr)
	if err != nil {
		return err
	}
	defer hc.Close()

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	status, err := hc.Check(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s: %s\n", grpc.ServiceName, status)
	return nil
}

func watch(ctx context.Context, c *client.Client) error {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return errors.New("watch needs a terminal")
	}

	apps, err := c.Apps(ctx, "")
	if err != nil {
		return err
	}

	dial := func(ctx context.Context) (tui.Conn, error) {
		return c.Dial(ctx)
	}
	p := tea.NewProgram(tui.New(dial, apps.Apps), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}
