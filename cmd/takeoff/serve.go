package main

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/philipparndt/gotakeoff/internal/events"
	"github.com/philipparndt/gotakeoff/internal/server"
	"github.com/philipparndt/gotakeoff/internal/watcher"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	serveListen  string
	servePage    int
	serveProject string
)

var serveCmd = &cobra.Command{
	Use:   "serve [pdf]",
	Short: "Serve a takeoff over HTTP",
	Long: `Serve the takeoff of one page over HTTP. Pointer events, mode changes and
calibration answers are posted as JSON, the composed page is available at
/render.png and changes are streamed from /events.

The page is re-rendered for clients when the PDF changes on disk.`,
	Args: cobra.ExactArgs(1),
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveListen, "listen", "", "listen address (default: TAKEOFF_LISTEN)")
	serveCmd.Flags().IntVar(&servePage, "page", 1, "page number")
	serveCmd.Flags().StringVarP(&serveProject, "project", "p", "", "takeoff file to restore")
}

func runServe(cmd *cobra.Command, args []string) error {
	pdf := args[0]
	log := logrus.WithField("component", "serve")

	e, src, err := openTakeoff(cmd.Context(), pdf, servePage-1, serveProject, log)
	if err != nil {
		return err
	}

	hub := events.NewHub()
	srv := server.New(e, src, hub, logrus.WithField("component", "server"))

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fw, err := watcher.New(0, logrus.WithField("component", "watcher"))
	if err != nil {
		return err
	}
	defer fw.Close()
	err = fw.Watch(pdf, func(path string) {
		info, err := src.Info(ctx)
		if err != nil {
			log.WithError(err).Warn("failed to reload document")
			return
		}
		if _, err := info.Page(servePage - 1); err != nil {
			log.WithError(err).Warn("page disappeared from document")
			return
		}
		hub.Publish(events.FileChanged, events.FileChangedEvent{Path: path, Ts: time.Now().Unix()})
	})
	if err != nil {
		return err
	}
	go fw.Run(ctx)

	listen := serveListen
	if listen == "" {
		listen = cfg.Listen
	}
	return srv.Run(ctx, listen)
}
