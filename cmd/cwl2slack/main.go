package main

import (
	"context"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/spf13/pflag"

	"cwl2slack/internal/config"
	"cwl2slack/internal/metrics"
	"cwl2slack/internal/pipeline"
	"cwl2slack/internal/webhooks"
	"cwl2slack/log"
)

func main() {
	fs := pflag.NewFlagSet("cwl2slack", pflag.ExitOnError)
	flags := config.RegisterFlags(fs)
	_ = fs.Parse(os.Args[1:])

	// A broken config fails the cold start, before any event is accepted.
	conf, err := config.InitializeConfig(*flags)
	if err != nil {
		log.Logger().Fatalf("failed to load config: %v", err)
	}

	sender, err := webhooks.NewWebhookSender(context.Background(), conf)
	if err != nil {
		log.Logger().Fatalf("failed to create webhook sender: %v", err)
	}

	p := pipeline.New(conf, sender, metrics.NoOpMetrics{})
	log.Logger().Infof("Booting %s", conf.FunctionName)
	lambda.Start(p.Handle)
}
