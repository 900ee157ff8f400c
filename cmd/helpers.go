package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/kms"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"

	"github.com/secrotate/cli/internal/config"
	"github.com/secrotate/cli/internal/kmscrypt"
	"github.com/secrotate/cli/internal/secretstore"
)

// JSON keys of the shared secret document. Each rotation touches exactly one
// key and leaves the others alone.
const (
	appleSecretKey  = "apple_client_secret"
	googleSecretKey = "google_client_secret"
)

// loadConfig reads the file named by --config when given, otherwise the
// usual local/global .secrotaterc lookup. An explicit file that cannot be
// read is an error; missing implicit files are not.
func loadConfig() (*config.Config, error) {
	if configFlag != "" {
		cfg, err := config.LoadFromFile(configFlag)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", configFlag, err)
		}
		return cfg, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// loadAWSConfig resolves AWS credentials and region, with the --region flag
// taking precedence over the config file.
func loadAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	region := cfg.Region
	if regionFlag != "" {
		region = regionFlag
	}

	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	if cfg.Profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(cfg.Profile))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS configuration: %w", err)
	}
	return awsCfg, nil
}

// newStore builds the secret store client for the configured secret.
func newStore(ctx context.Context, cfg *config.Config) (*secretstore.Store, error) {
	awsCfg, err := loadAWSConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return secretstore.New(secretsmanager.NewFromConfig(awsCfg)), nil
}

// newEncryptor builds the KMS encryptor for the configured key.
func newEncryptor(ctx context.Context, cfg *config.Config) (*kmscrypt.Encryptor, error) {
	if cfg.KMSKeyID == "" {
		return nil, fmt.Errorf("kms_key_id is not configured; set it in %s", config.LocalConfigPath())
	}
	awsCfg, err := loadAWSConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return kmscrypt.New(kms.NewFromConfig(awsCfg), cfg.KMSKeyID), nil
}

// resolveSecretID picks the secret id from the flag or the config file.
func resolveSecretID(flagValue string, cfg *config.Config) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if cfg.SecretID != "" {
		return cfg.SecretID, nil
	}
	return "", fmt.Errorf("no secret id given; use --secret or set secret_id in %s", config.LocalConfigPath())
}

// confirm asks a yes/no question on stdin and returns true for yes.
func confirm(question string) bool {
	fmt.Printf("%s [y/N]: ", question)
	reader := bufio.NewReader(os.Stdin)
	response, _ := reader.ReadString('\n')
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}

// promptFor returns current if non-empty, otherwise reads a value from stdin.
func promptFor(label, current string) (string, error) {
	if current != "" {
		return current, nil
	}

	fmt.Printf("%s: ", label)
	reader := bufio.NewReader(os.Stdin)
	value, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", label, err)
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("%s is required", label)
	}
	return value, nil
}

// formatDate formats a timestamp as a date string for display.
func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04:05")
}
