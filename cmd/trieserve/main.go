package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	cli "gopkg.in/urfave/cli.v1"

	"github.com/bitmaptrie/trieserve/config"
	"github.com/bitmaptrie/trieserve/dictionarymap"
	"github.com/bitmaptrie/trieserve/internal/xlog"
	"github.com/bitmaptrie/trieserve/transport/tcp"
	httptransport "github.com/bitmaptrie/trieserve/transport/http"
)

var log = xlog.New("main")

func main() {
	app := cli.App{
		Name:  "trieserve",
		Usage: "prefix-search dictionary server",
		Flags: []cli.Flag{
			configFlag,
			tcpAddrFlag,
			httpAddrFlag,
			verbosityFlag,
		},
		Action: run,
		Commands: []cli.Command{
			{
				Name:  "load-csv",
				Usage: "load a CSV file into a declared dictionary and report the row count",
				Flags: []cli.Flag{
					csvDictionaryFlag,
					csvFileFlag,
					csvHasHeadersFlag,
				},
				Action: loadCSVAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx *cli.Context) error {
	xlog.Init(xlog.Level(ctx.Int(verbosityFlag.Name)))

	cfg, err := config.Load(ctx.String(configFlag.Name))
	if err != nil {
		return err
	}
	if addr := ctx.String(tcpAddrFlag.Name); addr != "" {
		cfg.Server.TCPAddr = addr
	}
	if addr := ctx.String(httpAddrFlag.Name); addr != "" {
		cfg.Server.HTTPAddr = addr
	}

	dm := dictionarymap.New()
	for _, dc := range cfg.Dictionaries {
		if err := dm.CreateDictionary(dc.Name, dc.Schema()); err != nil {
			return err
		}
		log.Info("declared dictionary", "name", dc.Name, "attributes", len(dc.Attributes))
	}

	tcpLn, err := net.Listen("tcp", cfg.Server.TCPAddr)
	if err != nil {
		return fmt.Errorf("listen tcp addr %s: %w", cfg.Server.TCPAddr, err)
	}
	defer func() { log.Info("closing tcp listener..."); tcpLn.Close() }()

	tcpSrv := tcp.New(cfg.Server.TCPAddr, dm, xlog.New("tcp"))
	go func() {
		if err := tcpSrv.Serve(tcpLn); err != nil {
			log.Warn("tcp server stopped", "err", err)
		}
	}()
	log.Info("tcp server listening", "addr", tcpLn.Addr())

	httpHandler := httptransport.New(dm, xlog.New("http"), cfg.Search.RecentQueriesSize)
	httpSrv := &http.Server{Addr: cfg.Server.HTTPAddr, Handler: httpHandler.Router()}
	httpLn, err := net.Listen("tcp", cfg.Server.HTTPAddr)
	if err != nil {
		return fmt.Errorf("listen http addr %s: %w", cfg.Server.HTTPAddr, err)
	}
	go func() {
		if err := httpSrv.Serve(httpLn); err != nil && err != http.ErrServerClosed {
			log.Warn("http server stopped", "err", err)
		}
	}()
	defer func() {
		log.Info("closing http server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpSrv.Shutdown(shutdownCtx)
	}()
	log.Info("http server listening", "addr", httpLn.Addr())

	waitForExitSignal()
	log.Info("exiting")
	return nil
}

func waitForExitSignal() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	<-sigCh
}
