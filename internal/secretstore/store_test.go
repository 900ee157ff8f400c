package secretstore

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"

	"github.com/secrotate/cli/internal/retention"
)

// fakeAPI is an in-memory stand-in for the Secrets Manager client.
type fakeAPI struct {
	pages        []*secretsmanager.ListSecretVersionIdsOutput
	pageIndex    int
	currentValue *string
	getErr       error
	putErr       error
	stageErr     error

	putInputs   []*secretsmanager.PutSecretValueInput
	stageInputs []*secretsmanager.UpdateSecretVersionStageInput
}

func (f *fakeAPI) ListSecretVersionIds(ctx context.Context, params *secretsmanager.ListSecretVersionIdsInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.ListSecretVersionIdsOutput, error) {
	if f.pageIndex >= len(f.pages) {
		return &secretsmanager.ListSecretVersionIdsOutput{}, nil
	}
	out := f.pages[f.pageIndex]
	f.pageIndex++
	return out, nil
}

func (f *fakeAPI) GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return &secretsmanager.GetSecretValueOutput{SecretString: f.currentValue}, nil
}

func (f *fakeAPI) PutSecretValue(ctx context.Context, params *secretsmanager.PutSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.PutSecretValueOutput, error) {
	f.putInputs = append(f.putInputs, params)
	if f.putErr != nil {
		return nil, f.putErr
	}
	return &secretsmanager.PutSecretValueOutput{VersionId: aws.String("new-version")}, nil
}

func (f *fakeAPI) UpdateSecretVersionStage(ctx context.Context, params *secretsmanager.UpdateSecretVersionStageInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.UpdateSecretVersionStageOutput, error) {
	f.stageInputs = append(f.stageInputs, params)
	if f.stageErr != nil {
		return nil, f.stageErr
	}
	return &secretsmanager.UpdateSecretVersionStageOutput{}, nil
}

func listEntry(id string, created time.Time, labels ...string) types.SecretVersionsListEntry {
	return types.SecretVersionsListEntry{
		VersionId:     aws.String(id),
		VersionStages: labels,
		CreatedDate:   aws.Time(created),
	}
}

func TestListVersions_PaginatesAndSortsNewestFirst(t *testing.T) {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	api := &fakeAPI{
		pages: []*secretsmanager.ListSecretVersionIdsOutput{
			{
				Versions: []types.SecretVersionsListEntry{
					listEntry("old", base, "20240301_000000"),
					listEntry("current", base.Add(48*time.Hour), "AWSCURRENT"),
				},
				NextToken: aws.String("page2"),
			},
			{
				Versions: []types.SecretVersionsListEntry{
					listEntry("mid", base.Add(24*time.Hour), "AWSPREVIOUS"),
				},
			},
		},
	}

	versions, err := New(api).ListVersions(context.Background(), "shared/sign-in")
	if err != nil {
		t.Fatalf("ListVersions() error = %v", err)
	}

	if len(versions) != 3 {
		t.Fatalf("len(versions) = %d, want 3", len(versions))
	}
	wantOrder := []string{"current", "mid", "old"}
	for i, want := range wantOrder {
		if versions[i].ID != want {
			t.Errorf("versions[%d].ID = %q, want %q", i, versions[i].ID, want)
		}
	}
}

func TestLabelMap_AdaptsToPlannerInput(t *testing.T) {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	api := &fakeAPI{
		pages: []*secretsmanager.ListSecretVersionIdsOutput{
			{
				Versions: []types.SecretVersionsListEntry{
					listEntry("v1", base, "AWSCURRENT", "20240301_000000"),
					listEntry("v2", base.Add(-time.Hour), "20240229_230000"),
					listEntry("ghost", base.Add(-2*time.Hour)),
				},
			},
		},
	}

	labels, err := New(api).LabelMap(context.Background(), "shared/sign-in")
	if err != nil {
		t.Fatalf("LabelMap() error = %v", err)
	}

	want := retention.LabelMap{
		"v1":    {"AWSCURRENT", "20240301_000000"},
		"v2":    {"20240229_230000"},
		"ghost": nil,
	}
	if len(labels) != len(want) {
		t.Fatalf("len(labels) = %d, want %d", len(labels), len(want))
	}
	for id, wantLabels := range want {
		got, ok := labels[id]
		if !ok {
			t.Errorf("missing version %q", id)
			continue
		}
		if len(got) != len(wantLabels) {
			t.Errorf("labels[%q] = %v, want %v", id, got, wantLabels)
		}
	}
}

func TestRemoveLabel_IssuesStageUpdate(t *testing.T) {
	api := &fakeAPI{}
	store := New(api)

	err := store.RemoveLabel(context.Background(), "shared/sign-in", "v1", "20240301_000000")
	if err != nil {
		t.Fatalf("RemoveLabel() error = %v", err)
	}

	if len(api.stageInputs) != 1 {
		t.Fatalf("stage calls = %d, want 1", len(api.stageInputs))
	}
	in := api.stageInputs[0]
	if aws.ToString(in.SecretId) != "shared/sign-in" {
		t.Errorf("SecretId = %q", aws.ToString(in.SecretId))
	}
	if aws.ToString(in.VersionStage) != "20240301_000000" {
		t.Errorf("VersionStage = %q", aws.ToString(in.VersionStage))
	}
	if aws.ToString(in.RemoveFromVersionId) != "v1" {
		t.Errorf("RemoveFromVersionId = %q", aws.ToString(in.RemoveFromVersionId))
	}
}

func TestRemoveLabel_AbsentLabelIsSuccess(t *testing.T) {
	api := &fakeAPI{
		stageErr: &types.InvalidParameterException{
			Message: aws.String("The staging label 20240301_000000 is not attached to this version"),
		},
	}

	if err := New(api).RemoveLabel(context.Background(), "shared/sign-in", "v1", "20240301_000000"); err != nil {
		t.Errorf("RemoveLabel() error = %v, want nil for an already detached label", err)
	}
}

func TestRemoveLabel_OtherErrorsSurface(t *testing.T) {
	api := &fakeAPI{stageErr: &types.InternalServiceError{Message: aws.String("boom")}}

	if err := New(api).RemoveLabel(context.Background(), "shared/sign-in", "v1", "x"); err == nil {
		t.Error("RemoveLabel() should surface non-idempotency errors")
	}
}

func TestGetCurrentPayload_MissingSecretYieldsEmptyMap(t *testing.T) {
	api := &fakeAPI{getErr: &types.ResourceNotFoundException{Message: aws.String("not found")}}

	payload, err := New(api).GetCurrentPayload(context.Background(), "shared/sign-in")
	if err != nil {
		t.Fatalf("GetCurrentPayload() error = %v", err)
	}
	if len(payload) != 0 {
		t.Errorf("payload = %v, want empty", payload)
	}
}

func TestGetCurrentPayload_RejectsNonObjectValue(t *testing.T) {
	api := &fakeAPI{currentValue: aws.String(`"just a string"`)}

	if _, err := New(api).GetCurrentPayload(context.Background(), "shared/sign-in"); err == nil {
		t.Error("GetCurrentPayload() should reject non-object secret values")
	}
}

func TestPutKey_PreservesUnrelatedKeys(t *testing.T) {
	api := &fakeAPI{
		currentValue: aws.String(`{"google_client_secret":"keep-me","unrelated":"also-keep"}`),
	}
	store := New(api)

	versionID, err := store.PutKey(context.Background(), "shared/sign-in",
		"apple_client_secret", "ciphertext", "20240315_120000")
	if err != nil {
		t.Fatalf("PutKey() error = %v", err)
	}
	if versionID != "new-version" {
		t.Errorf("versionID = %q, want %q", versionID, "new-version")
	}

	if len(api.putInputs) != 1 {
		t.Fatalf("put calls = %d, want 1", len(api.putInputs))
	}
	in := api.putInputs[0]

	var doc map[string]string
	if err := json.Unmarshal([]byte(aws.ToString(in.SecretString)), &doc); err != nil {
		t.Fatalf("stored value is not JSON: %v", err)
	}
	want := map[string]string{
		"google_client_secret": "keep-me",
		"unrelated":            "also-keep",
		"apple_client_secret":  "ciphertext",
	}
	for k, v := range want {
		if doc[k] != v {
			t.Errorf("doc[%q] = %q, want %q", k, doc[k], v)
		}
	}
	if len(doc) != len(want) {
		t.Errorf("stored document has %d keys, want %d", len(doc), len(want))
	}

	if len(in.VersionStages) != 2 || in.VersionStages[0] != "20240315_120000" || in.VersionStages[1] != "AWSCURRENT" {
		t.Errorf("VersionStages = %v, want [timestamp label, AWSCURRENT]", in.VersionStages)
	}
	if aws.ToString(in.ClientRequestToken) == "" {
		t.Error("ClientRequestToken should be set for idempotent writes")
	}
}

func TestPutKey_FirstWriteStartsFreshDocument(t *testing.T) {
	api := &fakeAPI{getErr: &types.ResourceNotFoundException{}}
	store := New(api)

	if _, err := store.PutKey(context.Background(), "shared/sign-in",
		"apple_client_secret", "ciphertext", "20240315_120000"); err != nil {
		t.Fatalf("PutKey() error = %v", err)
	}

	var doc map[string]string
	if err := json.Unmarshal([]byte(aws.ToString(api.putInputs[0].SecretString)), &doc); err != nil {
		t.Fatalf("stored value is not JSON: %v", err)
	}
	if len(doc) != 1 || doc["apple_client_secret"] != "ciphertext" {
		t.Errorf("doc = %v, want single apple_client_secret entry", doc)
	}
}

func TestPutKey_PutFailureSurfaces(t *testing.T) {
	api := &fakeAPI{
		currentValue: aws.String(`{}`),
		putErr:       errors.New("access denied"),
	}

	if _, err := New(api).PutKey(context.Background(), "shared/sign-in", "k", "v", "20240315_120000"); err == nil {
		t.Error("PutKey() should surface store write failures")
	}
}
