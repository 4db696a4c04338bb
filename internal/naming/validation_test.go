package naming

import (
	"strings"
	"testing"
)

func TestValidateClusterName(t *testing.T) {
	cases := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{name: "valid short", value: "prod", wantErr: false},
		{name: "valid with digits", value: "prod-eks-01", wantErr: false},
		{name: "valid max length", value: strings.Repeat("a", clusterNameMaxLength), wantErr: false},
		{name: "too long", value: strings.Repeat("a", clusterNameMaxLength+1), wantErr: true},
		{name: "contains uppercase", value: "Prod", wantErr: true},
		{name: "starts with hyphen", value: "-prod", wantErr: true},
		{name: "ends with hyphen", value: "prod-", wantErr: true},
		{name: "contains underscore", value: "prod_eks", wantErr: true},
		{name: "empty", value: "", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateClusterName(tc.value)
			if tc.wantErr && err == nil {
				t.Fatalf("expected error but got nil")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateNodePoolName(t *testing.T) {
	cases := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{name: "valid", value: "workers", wantErr: false},
		{name: "valid max length", value: strings.Repeat("a", nodePoolNameMaxLength), wantErr: false},
		{name: "too long", value: strings.Repeat("a", nodePoolNameMaxLength+1), wantErr: true},
		{name: "invalid char", value: "pool^1", wantErr: true},
		{name: "empty", value: "", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateNodePoolName(tc.value)
			if tc.wantErr && err == nil {
				t.Fatalf("expected error but got nil")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateRegion(t *testing.T) {
	cases := []struct {
		name     string
		provider string
		region   string
		wantErr  bool
	}{
		{name: "aws standard", provider: "aws", region: "us-west-2", wantErr: false},
		{name: "aws govcloud", provider: "aws", region: "us-gov-west-1", wantErr: false},
		{name: "aws missing suffix", provider: "aws", region: "us-west", wantErr: true},
		{name: "aws gcp shape", provider: "aws", region: "us-central1", wantErr: true},
		{name: "gcp region", provider: "gcp", region: "us-central1", wantErr: false},
		{name: "gcp zone", provider: "gcp", region: "us-central1-a", wantErr: false},
		{name: "gcp aws shape", provider: "gcp", region: "us-west-2", wantErr: true},
		{name: "azure region", provider: "azure", region: "eastus", wantErr: false},
		{name: "azure numbered", provider: "azure", region: "westus2", wantErr: false},
		{name: "azure hyphenated", provider: "azure", region: "east-us", wantErr: true},
		{name: "empty region", provider: "aws", region: "", wantErr: true},
		{name: "unknown provider", provider: "digitalocean", region: "nyc3", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateRegion(tc.provider, tc.region)
			if tc.wantErr && err == nil {
				t.Fatalf("expected error but got nil")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
