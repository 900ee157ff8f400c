// Package secretstore wraps the Secrets Manager operations this tool needs:
// listing versions with their staging labels, stripping labels, and writing
// new values into a shared JSON secret without clobbering keys owned by
// other rotations.
package secretstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
	"github.com/google/uuid"

	"github.com/secrotate/cli/internal/retention"
)

// API is the slice of the Secrets Manager client used by Store. The real
// *secretsmanager.Client satisfies it; tests substitute a fake.
type API interface {
	ListSecretVersionIds(ctx context.Context, params *secretsmanager.ListSecretVersionIdsInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.ListSecretVersionIdsOutput, error)
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
	PutSecretValue(ctx context.Context, params *secretsmanager.PutSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.PutSecretValueOutput, error)
	UpdateSecretVersionStage(ctx context.Context, params *secretsmanager.UpdateSecretVersionStageInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.UpdateSecretVersionStageOutput, error)
}

// MaxLabelsPerSecret is the Secrets Manager hard cap on staging labels
// across all versions of one secret. The store enforces it; this tool's job
// is to stay under it.
const MaxLabelsPerSecret = 20

// Version is one historical value of a secret.
type Version struct {
	ID      string
	Labels  []string
	Created time.Time
}

// Store issues Secrets Manager calls for one configured secret.
type Store struct {
	client API
	logger *slog.Logger
}

// New creates a Store over the given client.
func New(client API) *Store {
	return &Store{
		client: client,
		logger: slog.Default().With("component", "secretstore"),
	}
}

// ListVersions returns every version of the secret, including deprecated
// (unlabeled) ones, sorted newest first by creation time.
func (s *Store) ListVersions(ctx context.Context, secretID string) ([]Version, error) {
	var versions []Version
	var nextToken *string

	for {
		out, err := s.client.ListSecretVersionIds(ctx, &secretsmanager.ListSecretVersionIdsInput{
			SecretId:          aws.String(secretID),
			IncludeDeprecated: aws.Bool(true),
			NextToken:         nextToken,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list versions of %s: %w", secretID, err)
		}

		for _, v := range out.Versions {
			version := Version{
				ID:     aws.ToString(v.VersionId),
				Labels: v.VersionStages,
			}
			if v.CreatedDate != nil {
				version.Created = *v.CreatedDate
			}
			versions = append(versions, version)
		}

		if out.NextToken == nil {
			break
		}
		nextToken = out.NextToken
	}

	sort.Slice(versions, func(i, j int) bool {
		return versions[i].Created.After(versions[j].Created)
	})

	s.logger.Debug("listed secret versions", "secret", secretID, "count", len(versions))
	return versions, nil
}

// LabelMap fetches the snapshot the retention planner operates on.
func (s *Store) LabelMap(ctx context.Context, secretID string) (retention.LabelMap, error) {
	versions, err := s.ListVersions(ctx, secretID)
	if err != nil {
		return nil, err
	}

	labels := retention.LabelMap{}
	for _, v := range versions {
		labels[v.ID] = v.Labels
	}
	return labels, nil
}

// RemoveLabel detaches one staging label from one version. Removing a label
// that is no longer attached is treated as success so a re-run of a partially
// applied plan converges instead of erroring.
func (s *Store) RemoveLabel(ctx context.Context, secretID, versionID, label string) error {
	_, err := s.client.UpdateSecretVersionStage(ctx, &secretsmanager.UpdateSecretVersionStageInput{
		SecretId:            aws.String(secretID),
		VersionStage:        aws.String(label),
		RemoveFromVersionId: aws.String(versionID),
	})
	if err != nil {
		if isLabelAlreadyDetached(err) {
			s.logger.Debug("label already detached",
				"secret", secretID,
				"version", versionID,
				"label", label,
			)
			return nil
		}
		return fmt.Errorf("failed to remove label %s from version %s: %w", label, versionID, err)
	}
	return nil
}

// isLabelAlreadyDetached matches the InvalidParameterException Secrets
// Manager returns when the named staging label is not attached to the
// version (or to the secret at all).
func isLabelAlreadyDetached(err error) bool {
	var invalid *types.InvalidParameterException
	if !errors.As(err, &invalid) {
		return false
	}
	msg := strings.ToLower(aws.ToString(invalid.Message))
	return strings.Contains(msg, "staging label") && strings.Contains(msg, "not attached")
}

// GetCurrentPayload returns the AWSCURRENT value of the secret decoded as a
// flat JSON object. A secret with no current value yet yields an empty map,
// so the first rotation writes a fresh document.
func (s *Store) GetCurrentPayload(ctx context.Context, secretID string) (map[string]string, error) {
	out, err := s.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretID),
	})
	if err != nil {
		var notFound *types.ResourceNotFoundException
		if errors.As(err, &notFound) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to read current value of %s: %w", secretID, err)
	}

	value := aws.ToString(out.SecretString)
	if value == "" {
		return map[string]string{}, nil
	}

	payload := map[string]string{}
	if err := json.Unmarshal([]byte(value), &payload); err != nil {
		return nil, fmt.Errorf("current value of %s is not a flat JSON object: %w", secretID, err)
	}
	return payload, nil
}

// PutKey writes value under key in the secret's JSON document, preserving
// every other key, and stages the new version with the given rotation label
// plus AWSCURRENT. Returns the new version id.
func (s *Store) PutKey(ctx context.Context, secretID, key, value, label string) (string, error) {
	payload, err := s.GetCurrentPayload(ctx, secretID)
	if err != nil {
		return "", err
	}
	payload[key] = value

	doc, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode secret payload: %w", err)
	}

	out, err := s.client.PutSecretValue(ctx, &secretsmanager.PutSecretValueInput{
		SecretId:           aws.String(secretID),
		SecretString:       aws.String(string(doc)),
		ClientRequestToken: aws.String(uuid.NewString()),
		VersionStages:      []string{label, retention.LabelCurrent},
	})
	if err != nil {
		return "", fmt.Errorf("failed to store new version of %s: %w", secretID, err)
	}

	versionID := aws.ToString(out.VersionId)
	s.logger.Debug("stored new secret version",
		"secret", secretID,
		"key", key,
		"version", versionID,
		"label", label,
	)
	return versionID, nil
}
