package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dalfonso89/bitcoin-fees-service/bitcoinfees"
	"github.com/dalfonso89/bitcoin-fees-service/internal/logger"
)

// CLIConfig holds the command line options
type CLIConfig struct {
	BaseURL     string
	Timeout     time.Duration
	Recommended bool
	List        bool
	LogLevel    string
}

func main() {
	var config CLIConfig

	flag.StringVar(&config.BaseURL, "base-url", bitcoinfees.DefaultBaseURL, "Fee API root")
	flag.DurationVar(&config.Timeout, "timeout", 30*time.Second, "Request timeout")
	flag.BoolVar(&config.Recommended, "recommended", true, "Print recommended fees")
	flag.BoolVar(&config.List, "list", false, "Print the fee bracket list")
	flag.StringVar(&config.LogLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	flag.Parse()

	log := logger.NewWithOutput(config.LogLevel, os.Stderr)

	client := bitcoinfees.NewClient(config.BaseURL, config.Timeout)
	defer client.Close()

	if err := run(context.Background(), client, config, os.Stdout); err != nil {
		log.WithField("base_url", client.BaseURL()).Errorf("Fee lookup failed: %v", err)
		client.Close()
		os.Exit(1)
	}
}

// run fetches the selected views concurrently and prints their summaries,
// recommended fees first.
func run(ctx context.Context, fetcher bitcoinfees.FeeFetcher, config CLIConfig, output io.Writer) error {
	var (
		recommended bitcoinfees.RecommendedFees
		list        bitcoinfees.FeeList
	)

	group, groupContext := errgroup.WithContext(ctx)
	if config.Recommended {
		group.Go(func() error {
			fees, err := fetcher.GetRecommendedFees(groupContext)
			recommended = fees
			return err
		})
	}
	if config.List {
		group.Go(func() error {
			fees, err := fetcher.GetFeeList(groupContext)
			list = fees
			return err
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}

	if config.Recommended {
		fmt.Fprintln(output, recommended)
	}
	if config.List {
		for _, fee := range list.Fees {
			fmt.Fprintln(output, fee)
		}
	}
	return nil
}
