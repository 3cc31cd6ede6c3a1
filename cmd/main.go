package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/umeshlumbhani/wifi-creds/internal/interfaces"
	"github.com/umeshlumbhani/wifi-creds/internal/models"
	"github.com/umeshlumbhani/wifi-creds/internal/modules/credstore"
	"github.com/umeshlumbhani/wifi-creds/internal/modules/header"
	"github.com/umeshlumbhani/wifi-creds/internal/modules/httpserver"
	"github.com/umeshlumbhani/wifi-creds/internal/modules/network"
)

const usage = `usage: wifi-creds <command> [flags]

commands:
  list       print the stored networks in declaration order
  header     write the firmware wifi_creds.h
  provision  install the stored networks as NetworkManager profiles
  serve      serve the stored networks over HTTP
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	name := os.Args[1]
	cfg, err := models.NewConfig(name, os.Args[2:])
	if err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, models.ErrUnknownCommand) {
			fmt.Fprint(os.Stderr, usage)
		}
		os.Exit(2)
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		DisableSorting: true,
	})
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if err = run(name, logger, cfg); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}

func run(name string, logger *logrus.Logger, cfg *models.Config) error {
	switch name {
	case models.CommandList, models.CommandHeader, models.CommandProvision, models.CommandServe:
	default:
		return fmt.Errorf("%w %q", models.ErrUnknownCommand, name)
	}

	// --------------------------- Credential Table -------------------
	store := credstore.NewStore(logger)
	table, err := store.Load(credstore.Options{
		File:      cfg.CredentialsFile,
		Optional:  cfg.EnvPrefix != "",
		EnvPrefix: cfg.EnvPrefix,
	})
	if err != nil {
		return err
	}

	switch name {
	case models.CommandList:
		return list(os.Stdout, table)
	case models.CommandHeader:
		return writeHeader(cfg, table)
	case models.CommandProvision:
		// --------------------------- Go Network Manager ------------------
		nw, err := network.NewNetwork(logger, cfg, table, false)
		if err != nil {
			return err
		}
		added, err := nw.Provision()
		if err != nil {
			return err
		}
		logger.Info(fmt.Sprintf("provisioned %d networks", added))
		return nil
	default:
		return serve(logger, cfg, table)
	}
}

func list(w io.Writer, t models.Table) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tSSID\tAUTH\tCIPHER\tPASSWORD")
	for i, c := range t.All() {
		pwd := "no"
		if c.Password != "" {
			pwd = "yes"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", i, c.SSID, c.AuthType, c.Cipher, pwd)
	}
	return tw.Flush()
}

func writeHeader(cfg *models.Config, t models.Table) error {
	if cfg.HeaderOutput == "-" {
		return header.Render(os.Stdout, t, header.Options{})
	}
	f, err := os.OpenFile(cfg.HeaderOutput, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("found error on opening header output: %w", err)
	}
	if err = header.Render(f, t, header.Options{Path: cfg.HeaderOutput}); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func serve(logger *logrus.Logger, cfg *models.Config, t models.Table) error {
	var nw interfaces.Network
	if cfg.Scan {
		n, err := network.NewNetwork(logger, cfg, t, true)
		if err != nil {
			logger.Warn(fmt.Sprintf("scanning disabled: %s", err.Error()))
		} else {
			nw = n
		}
	}

	// --------------------------- HTTP Server ------------------------
	var httpServer interfaces.HTTPServer = httpserver.NewHTTPServer(logger, t, nw, cfg)
	httpServer.StartHTTPServer()

	// Setup stop signal handling
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	sig := <-signals
	logger.Info(fmt.Sprintf("Stop signal received, shutting down service (%v) ...", sig))
	httpServer.CloseHTTPServer()
	logger.Info("wifi-creds service stopped.")
	return nil
}
