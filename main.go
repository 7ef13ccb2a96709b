package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/die-net/proxyprobe/internal/config"
	"github.com/die-net/proxyprobe/internal/probe"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath = pflag.String("config", "", "Path to TOML config file. Empty uses built-in defaults.")

		proxyAddr     = pflag.String("proxy", config.DefaultProxyAddr, "SOCKS5 proxy address to probe (host:port)")
		targetAddr    = pflag.String("target", config.DefaultTargetAddr, "IPv4 host:port the probe asks the proxy to CONNECT to")
		httpProxyAddr = pflag.String("http-proxy", "", "HTTP proxy address to probe with CONNECT (host:port). Empty disables.")

		dialTimeout        = pflag.Duration("dial-timeout", config.DefaultTimeoutSeconds*time.Second, "Timeout for TCP connect to the proxy")
		negotiationTimeout = pflag.Duration("negotiation-timeout", config.DefaultTimeoutSeconds*time.Second, "Timeout for the handshake exchange once connected")
		verbose            = pflag.Bool("verbose", false, "Log probe configuration and progress")
	)

	pflag.CommandLine.SortFlags = false
	pflag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			return err
		}
	}

	// Flags set explicitly on the command line override config file values.
	if pflag.CommandLine.Changed("proxy") {
		cfg.Proxy = *proxyAddr
	}
	if pflag.CommandLine.Changed("target") {
		cfg.Target = *targetAddr
	}
	if pflag.CommandLine.Changed("http-proxy") {
		cfg.HTTPProxy = *httpProxyAddr
	}
	if pflag.CommandLine.Changed("verbose") {
		cfg.Verbose = *verbose
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	socksCfg := probe.Config{
		ProxyAddr:          cfg.Proxy,
		TargetAddr:         cfg.Target,
		DialTimeout:        cfg.DialTimeout(),
		NegotiationTimeout: cfg.NegotiationTimeout(),
	}
	if pflag.CommandLine.Changed("dial-timeout") {
		socksCfg.DialTimeout = *dialTimeout
	}
	if pflag.CommandLine.Changed("negotiation-timeout") {
		socksCfg.NegotiationTimeout = *negotiationTimeout
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if cfg.Verbose {
			log.Printf("socks5 probe: proxy %s, target %s", socksCfg.ProxyAddr, socksCfg.TargetAddr)
		}
		if err := probe.SOCKS5(ctx, socksCfg); err != nil {
			return err
		}
		log.Printf("socks5 probe passed: %s", socksCfg.ProxyAddr)
		return nil
	})

	if cfg.HTTPProxy != "" {
		httpCfg := socksCfg
		httpCfg.ProxyAddr = cfg.HTTPProxy

		g.Go(func() error {
			if cfg.Verbose {
				log.Printf("http probe: proxy %s, target %s", httpCfg.ProxyAddr, httpCfg.TargetAddr)
			}
			if err := probe.HTTPConnect(ctx, httpCfg); err != nil {
				return err
			}
			log.Printf("http probe passed: %s", httpCfg.ProxyAddr)
			return nil
		})
	}

	return g.Wait()
}
