package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

type BaseEnv struct {
	Env      string `envconfig:"ENV" default:"local"`
	HTTPHost string `envconfig:"HTTP_HOST" default:""`
	HTTPPort string `envconfig:"HTTP_PORT" default:"3100"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"debug"`
	APIKey   string `envconfig:"API_KEY" required:"true"`
}

type StorageEnv struct {
	Type    string `envconfig:"STORAGE_TYPE" default:"local"`
	BaseDir string `envconfig:"STORAGE_BASE_DIR" default:".skyras/data"`
	// S3 settings (used when Type == "s3")
	S3Bucket string `envconfig:"S3_BUCKET"`
	S3Prefix string `envconfig:"S3_PREFIX" default:"skyras/"`
	S3Region string `envconfig:"S3_REGION" default:"us-east-1"`
}

type LLMEnv struct {
	AnthropicAPIKey string `envconfig:"ANTHROPIC_API_KEY"`
}

type ProviderEnv struct {
	// ImageProviderPriority is a comma-separated provider order, e.g.
	// "replicate,runway". Unconfigured providers are skipped.
	ImageProviderPriority string `envconfig:"IMAGE_PROVIDER_PRIORITY" default:"replicate,runway"`
	ReplicateAPIToken     string `envconfig:"REPLICATE_API_TOKEN"`
	RunwayAPIKey          string `envconfig:"RUNWAY_API_KEY"`
}

// Priority returns the provider order with whitespace and empty entries
// dropped.
func (e *ProviderEnv) Priority() []string {
	var order []string
	for _, name := range strings.Split(e.ImageProviderPriority, ",") {
		name = strings.TrimSpace(name)
		if name != "" {
			order = append(order, name)
		}
	}
	return order
}

type PublishEnv struct {
	// JamalPublishEnabled switches the distribution agent from dry-run
	// planning to actually enqueueing posts.
	JamalPublishEnabled bool `envconfig:"JAMAL_PUBLISH_ENABLED" default:"false"`
}

type WorkflowEnv struct {
	TemplateDir string `envconfig:"WORKFLOW_TEMPLATE_DIR" default:".skyras/templates"`
}

type VAPIDEnv struct {
	VAPIDPublicKey  string `envconfig:"VAPID_PUBLIC_KEY"`
	VAPIDPrivateKey string `envconfig:"VAPID_PRIVATE_KEY"`
	VAPIDContact    string `envconfig:"VAPID_CONTACT" default:"mailto:admin@skyras.app"`
}

type Env struct {
	BaseEnv
	StorageEnv
	LLMEnv
	ProviderEnv
	PublishEnv
	WorkflowEnv
	VAPIDEnv
}

const namespace = "SKYRAS"

func LoadEnv() (*Env, error) {
	var env Env
	if err := envconfig.Process(namespace, &env); err != nil {
		return nil, fmt.Errorf("failed to load env: %w", err)
	}
	return &env, nil
}

func (e *BaseEnv) SlogLevel() slog.Level {
	if e == nil {
		return slog.LevelDebug
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(e.LogLevel)); err != nil {
		return slog.LevelDebug
	}
	return level
}

func BaseEnvFromEnv(env *Env) *BaseEnv {
	return &env.BaseEnv
}

func StorageEnvFromEnv(env *Env) *StorageEnv {
	return &env.StorageEnv
}

func VAPIDEnvFromEnv(env *Env) *VAPIDEnv {
	return &env.VAPIDEnv
}
