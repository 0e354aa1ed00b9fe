package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli"

	"github.com/retrohost/go-retrohost/retrohost"
	"github.com/retrohost/go-retrohost/retrohost/backend"
	"github.com/retrohost/go-retrohost/retrohost/backend/headless"
	"github.com/retrohost/go-retrohost/retrohost/backend/sdl2"
	"github.com/retrohost/go-retrohost/retrohost/backend/terminal"
	"github.com/retrohost/go-retrohost/retrohost/config"
	"github.com/retrohost/go-retrohost/retrohost/input"
	"github.com/retrohost/go-retrohost/retrohost/libretro"
)

func main() {
	app := cli.NewApp()
	app.Name = "retrohost"
	app.Description = "A libretro frontend"
	app.Usage = "retrohost -L <core library> [options] <content file>"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "L, libretro",
			Usage: "Path to the libretro core library (.so/.dylib/.dll)",
		},
		cli.StringFlag{
			Name:  "config",
			Usage: "Path to a retrohost.cfg file",
		},
		cli.BoolFlag{
			Name:  "term",
			Usage: "Render in the terminal instead of an SDL window",
		},
		cli.BoolFlag{
			Name:  "headless",
			Usage: "Run without a display",
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "Number of frames to run in headless mode (required for headless)",
			Value: 0,
		},
		cli.IntFlag{
			Name:  "snapshot-interval",
			Usage: "Save frame snapshots every N frames in headless mode (0 = disabled)",
			Value: 0,
		},
		cli.StringFlag{
			Name:  "snapshot-dir",
			Usage: "Directory to save frame snapshots (default: temp directory)",
		},
		cli.StringFlag{
			Name:  "save-dir",
			Usage: "Directory for save states and battery saves",
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		slog.Error("Error running frontend", "error", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	corePath := c.String("L")
	if corePath == "" {
		cli.ShowAppHelp(c)
		return errors.New("no core library provided (-L)")
	}
	if c.NArg() == 0 {
		cli.ShowAppHelp(c)
		return errors.New("no content file provided")
	}
	contentPath := c.Args().Get(0)

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	cfg.CorePath = corePath
	cfg.ContentPath = contentPath
	if dir := c.String("save-dir"); dir != "" {
		cfg.SaveDir = dir
	}

	core, err := libretro.Bind(corePath)
	if err != nil {
		return fmt.Errorf("binding core: %w", err)
	}
	defer core.Handle().Close()

	manager := input.NewManager()
	session := libretro.NewSession(core, libretro.SessionOptions{
		Input:     manager,
		Options:   cfg,
		SystemDir: cfg.SystemDir,
		SaveDir:   cfg.SaveDir,
		Username:  cfg.Username,
	})
	defer session.Close()

	if err := session.Configure(); err != nil {
		return err
	}
	if err := session.Init(); err != nil {
		return err
	}

	content, err := loadContent(session, contentPath)
	if err != nil {
		return err
	}
	if err := session.LoadGame(content); err != nil {
		return err
	}

	bk, err := selectBackend(c, contentPath)
	if err != nil {
		return err
	}
	if err := bk.Init(backend.Config{
		Title:        fmt.Sprintf("retrohost - %s", session.SystemInfo().LibraryName),
		VSync:        true,
		KeyMap:       cfg.KeyMap(),
		InputManager: manager,
	}); err != nil {
		return err
	}
	defer bk.Cleanup()

	frontend := retrohost.NewFrontend(retrohost.FrontendOptions{
		Session:   session,
		Backend:   bk,
		Manager:   manager,
		States:    retrohost.NewStateStore(cfg.SaveDir, contentPath),
		Unlimited: c.Bool("headless"),
	})
	return frontend.Run()
}

// loadContent reads the content into memory unless the core wants to open the
// file itself.
func loadContent(session *libretro.Session, path string) (libretro.GameDescriptor, error) {
	game := libretro.GameDescriptor{Path: path}
	if session.SystemInfo().NeedFullPath {
		return game, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return game, fmt.Errorf("reading content: %w", err)
	}
	game.Data = data
	return game, nil
}

func selectBackend(c *cli.Context, contentPath string) (backend.Backend, error) {
	switch {
	case c.Bool("headless"):
		frames := c.Int("frames")
		if frames <= 0 {
			return nil, errors.New("headless mode requires --frames with a positive value")
		}
		snapConfig, err := headless.CreateSnapshotConfig(
			c.Int("snapshot-interval"), c.String("snapshot-dir"), contentPath)
		if err != nil {
			return nil, err
		}
		return headless.New(frames, snapConfig), nil
	case c.Bool("term"):
		return terminal.New(), nil
	default:
		return sdl2.New(), nil
	}
}
