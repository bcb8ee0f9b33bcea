package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"cwl2slack/internal/clients"
	"cwl2slack/internal/config"
	"cwl2slack/internal/metrics"
	"cwl2slack/internal/payloads"
	"cwl2slack/internal/pipeline"
	"cwl2slack/internal/webhooks"
	"cwl2slack/log"
)

type options struct {
	flags      *config.CommandLineFlags
	eventFile  string
	query      clients.ReplayQuery
	region     string
	profile    string
	startInput string
	endInput   string
}

func parseOptions(args []string) (*options, error) {
	fs := pflag.NewFlagSet("replay", pflag.ContinueOnError)
	opts := &options{flags: config.RegisterFlags(fs)}
	fs.StringVar(&opts.eventFile, "event", "", "recorded subscription event (JSON) to replay")
	fs.StringVar(&opts.query.LogGroup, "group", "", "log group to fetch events from")
	fs.StringVar(&opts.query.StreamPrefix, "stream-prefix", "", "only streams starting with this prefix")
	fs.StringVar(&opts.query.FilterPattern, "filter-pattern", "", "CloudWatch Logs filter pattern")
	fs.StringVar(&opts.startInput, "start", "", "start time, RFC3339")
	fs.StringVar(&opts.endInput, "end", "", "end time, RFC3339")
	fs.IntVar(&opts.query.Limit, "limit", 100, "maximum number of events to fetch")
	fs.StringVar(&opts.region, "region", "", "AWS region")
	fs.StringVar(&opts.profile, "profile", "", "AWS shared config profile")
	fs.BoolVar(&opts.flags.DryRun, "dry-run", false, "log notifications instead of posting them; SLACK_WEBHOOK_URL and SLACK_CHANNEL become optional")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if (opts.eventFile == "") == (opts.query.LogGroup == "") {
		return nil, errors.New("exactly one of --event or --group is required")
	}
	var err error
	if opts.query.Start, err = parseTime(opts.startInput); err != nil {
		return nil, fmt.Errorf("--start: %w", err)
	}
	if opts.query.End, err = parseTime(opts.endInput); err != nil {
		return nil, fmt.Errorf("--end: %w", err)
	}
	return opts, nil
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, s)
}

// readEventFile returns the awslogs.data blob of a recorded event.
func readEventFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	var event payloads.SubscriptionEvent
	if err = json.Unmarshal(data, &event); err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return event.AWSLogs.Data, nil
}

// collect produces the awslogs.data blobs to replay, one per stream when
// fetching from CloudWatch Logs.
func collect(ctx context.Context, opts *options, client clients.LogsClient) ([]string, error) {
	if opts.eventFile != "" {
		raw, err := readEventFile(opts.eventFile)
		if err != nil {
			return nil, err
		}
		return []string{raw}, nil
	}

	batches, err := clients.FetchBatches(ctx, client, opts.query)
	if err != nil {
		return nil, err
	}
	raws := make([]string, 0, len(batches))
	for _, batch := range batches {
		raw, encErr := pipeline.Encode(batch)
		if encErr != nil {
			return nil, encErr
		}
		raws = append(raws, raw)
	}
	return raws, nil
}

func newNotifier(ctx context.Context, conf *config.Config) (pipeline.Notifier, error) {
	if conf.DryRun {
		return &webhooks.DryRunSender{Channel: conf.Channel, FunctionName: conf.FunctionName}, nil
	}
	return webhooks.NewWebhookSender(ctx, conf)
}

// replay runs every blob and stops at the first failure.
func replay(ctx context.Context, p *pipeline.Pipeline, raws []string) (int, error) {
	notified := 0
	for i, raw := range raws {
		result, err := p.Run(ctx, raw)
		if err != nil {
			return notified, fmt.Errorf("batch %d: %w", i+1, err)
		}
		if result.Notified {
			notified++
		}
	}
	return notified, nil
}

func main() {
	opts, err := parseOptions(os.Args[1:])
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		log.Logger().Fatal(err)
	}

	conf, err := config.InitializeConfig(*opts.flags)
	if err != nil {
		log.Logger().Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()
	var client clients.LogsClient
	if opts.eventFile == "" {
		if client, err = clients.NewCloudWatchClient(ctx, opts.region, opts.profile); err != nil {
			log.Logger().Fatalf("failed to create CloudWatch Logs client: %v", err)
		}
	}

	raws, err := collect(ctx, opts, client)
	if err != nil {
		log.Logger().Fatalf("failed to collect events: %v", err)
	}

	notifier, err := newNotifier(ctx, conf)
	if err != nil {
		log.Logger().Fatalf("failed to create notifier: %v", err)
	}

	p := pipeline.New(conf, notifier, metrics.NoOpMetrics{})
	notified, err := replay(ctx, p, raws)
	entry := log.Logger().WithFields(logrus.Fields{"batches": len(raws), "notified": notified})
	if err != nil {
		entry.Fatal(err)
	}
	entry.Info("Replay finished")
}
