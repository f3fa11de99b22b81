package publishers

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRegistryEnabledFilter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "publishers.yaml")
	raw := `
publishers:
  - id: http1
    type: http
    enabled: false
    http:
      url: https://example.com
  - id: http2
    type: http
    enabled: true
    http:
      url: https://example.com/2
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	enabled := reg.Enabled()
	if len(enabled) != 1 || enabled[0].ID != "http2" {
		t.Fatalf("expected only http2 enabled, got %#v", enabled)
	}
}

func TestValidatePublisherConfigRejectsMissingHTTP(t *testing.T) {
	err := validatePublisherConfig(PublisherConfig{
		ID:   "h1",
		Type: TypeHTTP,
	})
	if err == nil {
		t.Fatalf("expected validation error for missing http block")
	}
}

func TestValidatePublisherConfigQueueTypes(t *testing.T) {
	cases := []PublisherConfig{
		{ID: "s", Type: TypeSNS, SNS: &SNSPublisherConfig{TopicARN: "arn:aws:sns:::t"}},
		{ID: "q", Type: TypeSQS, SQS: &SQSPublisherConfig{Region: "ap-south-1"}},
		{ID: "g", Type: TypeGCPPubSub, GCPPubSub: &GCPQueueConfig{ProjectID: "p"}},
	}
	for _, cfg := range cases {
		if err := validatePublisherConfig(cfg); err == nil {
			t.Fatalf("expected validation error for %s", cfg.ID)
		}
	}
}

func TestLoadRegistryJSONAndDuplicates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "alerts.json")
	raw := `{"publishers":[
		{"id":"topic","type":"SNS","sns":{"topic_arn":" arn:aws:sns:ap-south-1:1:alerts ","region":"ap-south-1"}},
		{"id":"topic","type":"http","http":{"url":"https://example.com"}}
	]}`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if _, err := LoadRegistry(path); err == nil {
		t.Fatalf("expected duplicate id error")
	}
}

func TestLoadRegistrySanitizesSNS(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "alerts.yml")
	raw := `
publishers:
  - id: " topic "
    type: SNS
    sns:
      topic_arn: " arn:aws:sns:ap-south-1:1:alerts "
      region: ap-south-1
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	cfg, ok := reg.ByID("topic")
	if !ok {
		t.Fatalf("topic not found")
	}
	if cfg.Type != TypeSNS || cfg.SNS.TopicARN != "arn:aws:sns:ap-south-1:1:alerts" || !cfg.EnabledValue() {
		t.Fatalf("unexpected config %#v", cfg)
	}
}
