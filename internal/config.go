package internal

import (
	"chat-channels/infrastructure/gateway"
	"chat-channels/runtime"
	"chat-channels/session"
	"strings"
	"time"

	"github.com/samber/lo"
)

type Config struct {
	LogLevel       string `env:"LOG_LEVEL,required=true"`
	BadgerFilepath string `env:"BADGER_FILEPATH,required=true"`
	Host           string `env:"HOST,default=localhost"`
	Port           int    `env:"PORT,default=8080"`
	HTTPPort       int    `env:"HTTP_PORT,default=8081"`

	BufferSize           int           `env:"BUFFER_SIZE,default=1000"`
	SubscriberBufferSize int           `env:"SUBSCRIBER_BUFFER_SIZE,default=100"`
	SinkTimeout          time.Duration `env:"SINK_TIMEOUT,default=500ms"`
	RestartInterval      time.Duration `env:"RESTART_INTERVAL,default=1s"`
	MetricInterval       time.Duration `env:"METRIC_INTERVAL,default=10s"`
	ReportInterval       time.Duration `env:"REPORT_INTERVAL,default=1m"`
	LatencyThreshold     time.Duration `env:"LATENCY_THRESHOLD,default=300ms"`
	LowCapacityThreshold int           `env:"LOW_CAPACITY_THRESHOLD,default=10"`

	MaxContentLength    int           `env:"MAX_CONTENT_LENGTH,default=4000"`
	SendAttempts        int           `env:"SEND_ATTEMPTS,default=3"`
	SendBackoff         time.Duration `env:"SEND_BACKOFF,default=100ms"`
	ResubscribeAttempts int           `env:"RESUBSCRIBE_ATTEMPTS,default=3"`
	ResubscribeBackoff  time.Duration `env:"RESUBSCRIBE_BACKOFF,default=200ms"`
	UpdatesBuffer       int           `env:"UPDATES_BUFFER,default=64"`

	AuthSecret        string        `env:"AUTH_SECRET,required=true"`
	AuthTokenDuration time.Duration `env:"AUTH_TOKEN_DURATION,default=24h"`

	// PublicChannels is a space separated list created at boot when missing.
	PublicChannels string `env:"PUBLIC_CHANNELS,default=general random"`

	// CensoredWordsDir holds one "<lang>.txt" word list per language, empty
	// disables moderation
	CensoredWordsDir string `env:"CENSORED_WORDS_DIR"`
	CensorChar       string `env:"CENSOR_CHAR,default=*"`

	WebsocketWriteWait time.Duration `env:"WEBSOCKET_WRITE_WAIT,default=10s"`
	WebsocketPongWait  time.Duration `env:"WEBSOCKET_PONG_WAIT,default=60s"`
}

func (c Config) Feed() runtime.FeedConfig {
	return runtime.FeedConfig{
		BufferSize:           c.BufferSize,
		SubscriberBufferSize: c.SubscriberBufferSize,
		SinkTimeout:          c.SinkTimeout,
		MetricInterval:       c.MetricInterval,
		ReportInterval:       c.ReportInterval,
		LatencyThreshold:     c.LatencyThreshold,
		LowCapacityThreshold: c.LowCapacityThreshold,
	}
}

func (c Config) Session() session.Config {
	return session.Config{
		MaxContentLength:    c.MaxContentLength,
		SendAttempts:        c.SendAttempts,
		SendBackoff:         c.SendBackoff,
		ResubscribeAttempts: c.ResubscribeAttempts,
		ResubscribeBackoff:  c.ResubscribeBackoff,
		UpdatesBuffer:       c.UpdatesBuffer,
	}
}

func (c Config) Gateway() gateway.Config {
	config := gateway.DefaultConfig()
	config.WriteWait = c.WebsocketWriteWait
	config.PongWait = c.WebsocketPongWait
	return config
}

func (c Config) PublicChannelNames() []string {
	return lo.Uniq(strings.Fields(c.PublicChannels))
}

// CensorRune is the first rune of CensorChar, '*' when unset.
func (c Config) CensorRune() rune {
	for _, r := range c.CensorChar {
		return r
	}
	return '*'
}
