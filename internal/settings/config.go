package settings

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ATenderholt/rainbow-ingest/internal/domain"
	"gopkg.in/yaml.v2"
)

const (
	DefaultRegion          = "us-west-2"
	DefaultPort            = 9060
	DefaultLogTable        = "file-processing-log"
	DefaultLogStore        = "dynamodb"
	DefaultMetadataRetries = 3
	DefaultRecordTimeoutMs = 30000

	StoreDynamo   = "dynamodb"
	StorePostgres = "postgres"
)

type Config struct {
	IsDebug  bool
	Region   string
	Endpoint string

	Port     int
	QueueUrl string

	Table       string
	Store       string
	PostgresDsn string

	Buckets   []string
	KeyPrefix string
	KeySuffix string

	Retries   uint64
	TimeoutMs int

	configFile string
}

func (config *Config) LogTable() string {
	return config.Table
}

func (config *Config) MetadataRetries() uint64 {
	return config.Retries
}

func (config *Config) RecordTimeout() time.Duration {
	return time.Duration(config.TimeoutMs) * time.Millisecond
}

// Filter builds the record filter applied before any record is processed.
func (config *Config) Filter() domain.RecordFilter {
	var rules []domain.FilterRule
	if config.KeyPrefix != "" {
		rules = append(rules, domain.FilterRule{Name: domain.PrefixFilter, Value: config.KeyPrefix})
	}

	if config.KeySuffix != "" {
		rules = append(rules, domain.FilterRule{Name: domain.SuffixFilter, Value: config.KeySuffix})
	}

	return domain.RecordFilter{
		Buckets: config.Buckets,
		Rules:   rules,
	}
}

type BucketsValue struct {
	buckets []string
}

func (v *BucketsValue) Set(s string) error {
	v.buckets = strings.Split(s, ",")
	return nil
}

func (v *BucketsValue) String() string {
	if len(v.buckets) > 0 {
		return strings.Join(v.buckets, ",")
	}

	return ""
}

type fileConfig struct {
	Region      string   `yaml:"region"`
	Endpoint    string   `yaml:"endpoint"`
	Port        int      `yaml:"port"`
	QueueUrl    string   `yaml:"queueUrl"`
	Table       string   `yaml:"logTableName"`
	Store       string   `yaml:"logStore"`
	PostgresDsn string   `yaml:"postgresDsn"`
	Buckets     []string `yaml:"inputBucketAllowlist"`
	KeyPrefix   string   `yaml:"keyPrefix"`
	KeySuffix   string   `yaml:"keySuffix"`
	Retries     *uint64  `yaml:"metadataFetchRetryCount"`
	TimeoutMs   *int     `yaml:"processingTimeoutMs"`
}

func (config *Config) loadFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("unable to open config file %s: %w", path, err)
	}
	defer file.Close()

	var fc fileConfig
	err = yaml.NewDecoder(file).Decode(&fc)
	if err != nil {
		return fmt.Errorf("unable to decode config file %s: %w", path, err)
	}

	if fc.Region != "" {
		config.Region = fc.Region
	}
	if fc.Endpoint != "" {
		config.Endpoint = fc.Endpoint
	}
	if fc.Port != 0 {
		config.Port = fc.Port
	}
	if fc.QueueUrl != "" {
		config.QueueUrl = fc.QueueUrl
	}
	if fc.Table != "" {
		config.Table = fc.Table
	}
	if fc.Store != "" {
		config.Store = fc.Store
	}
	if fc.PostgresDsn != "" {
		config.PostgresDsn = fc.PostgresDsn
	}
	if len(fc.Buckets) > 0 {
		config.Buckets = fc.Buckets
	}
	if fc.KeyPrefix != "" {
		config.KeyPrefix = fc.KeyPrefix
	}
	if fc.KeySuffix != "" {
		config.KeySuffix = fc.KeySuffix
	}
	if fc.Retries != nil {
		config.Retries = *fc.Retries
	}
	if fc.TimeoutMs != nil {
		config.TimeoutMs = *fc.TimeoutMs
	}

	logger.Infof("Loaded configuration from %s", path)
	return nil
}

func FromFlags(name string, args []string) (*Config, string, error) {
	flags := flag.NewFlagSet(name, flag.ContinueOnError)

	var buf bytes.Buffer
	flags.SetOutput(&buf)

	var cfg Config
	buckets := BucketsValue{}
	flags.BoolVar(&cfg.IsDebug, "debug", false, "Enable debug logging")
	flags.StringVar(&cfg.Region, "region", DefaultRegion, "Region for storage and log store clients")
	flags.StringVar(&cfg.Endpoint, "endpoint", "", "Custom endpoint URL for AWS services (local stacks)")
	flags.IntVar(&cfg.Port, "port", DefaultPort, "Port used for the HTTP invocation endpoint")
	flags.StringVar(&cfg.QueueUrl, "queue-url", "", "SQS queue URL to consume notifications from (optional)")
	flags.StringVar(&cfg.Table, "table", DefaultLogTable, "Table name for processing outcomes")
	flags.StringVar(&cfg.Store, "log-store", DefaultLogStore, "Log store backend: dynamodb or postgres")
	flags.StringVar(&cfg.PostgresDsn, "postgres-dsn", "", "Connection string when log-store is postgres")
	flags.Var(&buckets, "buckets", "Comma-separated allowlist of accepted bucket names")
	flags.StringVar(&cfg.KeyPrefix, "key-prefix", "", "Only process objects whose key has this prefix")
	flags.StringVar(&cfg.KeySuffix, "key-suffix", "", "Only process objects whose key has this suffix")
	flags.Uint64Var(&cfg.Retries, "metadata-retries", DefaultMetadataRetries, "Retry count for metadata fetches")
	flags.IntVar(&cfg.TimeoutMs, "timeout-ms", DefaultRecordTimeoutMs, "Per-record processing timeout in milliseconds")
	flags.StringVar(&cfg.configFile, "config", "", "Optional YAML configuration file")

	err := flags.Parse(args)
	if err != nil {
		return nil, buf.String(), err
	}

	cfg.Buckets = buckets.buckets

	if cfg.configFile != "" {
		err = cfg.loadFile(cfg.configFile)
		if err != nil {
			return nil, buf.String(), err
		}
	}

	if cfg.Store != StoreDynamo && cfg.Store != StorePostgres {
		return nil, buf.String(), fmt.Errorf("unsupported log store %s", cfg.Store)
	}

	return &cfg, buf.String(), nil
}
