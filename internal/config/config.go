package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"cwl2slack/env"
	"cwl2slack/internal/constants"
	"cwl2slack/internal/util"
	"cwl2slack/log"
)

func fileExists(filename string) bool {
	_, err := os.Stat(filename)
	return err == nil
}

type CommandLineFlags struct {
	DotEnvPath string
	// DryRun is set by binaries that can log notifications instead of posting them.
	DryRun bool
}

// Config is read once at process start and never mutated afterwards.
type Config struct {
	Env            string
	LogLevel       string
	WebhookURL     string
	Channel        string
	ExcludePattern string
	FunctionName   string
	WebhookTimeout time.Duration
	SnsTopicArn    string
	SnsRegion      string
	DevServerAddr  string
	DryRun         bool
}

// InitializeConfig loads an optional .env file, then reads the environment.
func InitializeConfig(flags CommandLineFlags) (*Config, error) {
	if flags.DotEnvPath != "" && fileExists(flags.DotEnvPath) {
		if err := godotenv.Load(flags.DotEnvPath); err != nil {
			log.Logger().Errorln("Error loading .env file")
			return nil, err
		}
	}

	newConfig := &Config{
		Env:            env.GetString("APP_ENV", constants.PRODUCTION),
		LogLevel:       env.GetString("LOG_LEVEL", "info"),
		WebhookURL:     env.GetString("SLACK_WEBHOOK_URL"),
		Channel:        env.GetString("SLACK_CHANNEL"),
		ExcludePattern: env.GetString("RE_EXCLUDE_WORD"),
		FunctionName:   env.GetString("FUNCTION_NAME", defaultFunctionName()),
		WebhookTimeout: env.GetDuration("WEBHOOK_TIMEOUT", constants.DefaultWebhookTimeout),
		SnsTopicArn:    env.GetString("SNS_TOPIC_ARN"),
		SnsRegion:      env.GetString("SNS_REGION", env.GetString("AWS_REGION")),
		DevServerAddr:  env.GetString("DEV_SERVER_ADDR", constants.DefaultDevServerAddr),
		DryRun:         flags.DryRun,
	}

	if err := newConfig.Validate(); err != nil {
		return nil, err
	}

	// The .env file may carry LOG_LEVEL, which the logger has not seen yet.
	log.SetLevel(newConfig.LogLevel)

	log.Logger().Debugln("AppEnv:", newConfig.Env)
	log.Logger().Debugln("FunctionName:", newConfig.FunctionName)
	log.Logger().Debugln("ExcludePattern:", newConfig.ExcludePattern)

	return newConfig, nil
}

// Validate rejects a config the pipeline cannot run with. The exclusion
// pattern is compiled here too so a bad pattern fails the cold start rather
// than every invocation.
//
// A dry run posts nothing, so the webhook URL and channel may be left unset.
func (c *Config) Validate() error {
	if c.WebhookURL == "" && !c.DryRun {
		return util.NewConfigError(nil, "SLACK_WEBHOOK_URL is required")
	}
	if c.WebhookURL != "" {
		u, err := url.Parse(c.WebhookURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return util.NewConfigError(err, "SLACK_WEBHOOK_URL must be an absolute http(s) URL")
		}
	}
	if c.Channel == "" && !c.DryRun {
		return util.NewConfigError(nil, "SLACK_CHANNEL is required")
	}
	if c.WebhookTimeout <= 0 {
		return util.NewConfigError(nil, fmt.Sprintf("WEBHOOK_TIMEOUT must be positive, got %s", c.WebhookTimeout))
	}
	if c.SnsTopicArn != "" && c.SnsRegion == "" {
		return util.NewConfigError(errors.New("no region"), "SNS_TOPIC_ARN set without SNS_REGION or AWS_REGION")
	}
	if _, err := util.CompileExcludePattern(c.ExcludePattern); err != nil {
		return err
	}
	return nil
}

// RegisterFlags adds the flags shared by every binary to fs.
func RegisterFlags(fs *pflag.FlagSet) *CommandLineFlags {
	flags := &CommandLineFlags{}
	fs.StringVar(&flags.DotEnvPath, "env-file", "./.env", "path of the .env file")
	return flags
}

func defaultFunctionName() string {
	if lambdacontext.FunctionName != "" {
		return lambdacontext.FunctionName
	}
	return constants.DefaultFunctionName
}
