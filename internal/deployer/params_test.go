package deployer

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
)

func TestMergeParameters(t *testing.T) {
	got := MergeParameters(
		map[string]string{"Env": "dev", "Branch": "sandbox"},
		map[string]string{"Env": "prod"},
	)

	if len(got) != 2 {
		t.Fatalf("got %d parameters, want 2", len(got))
	}

	// Keys are sorted, later maps win.
	if key := aws.ToString(got[0].ParameterKey); key != "Branch" {
		t.Errorf("first key = %v, want Branch", key)
	}
	if key := aws.ToString(got[1].ParameterKey); key != "Env" {
		t.Errorf("second key = %v, want Env", key)
	}
	if value := aws.ToString(got[1].ParameterValue); value != "prod" {
		t.Errorf("Env = %v, want prod", value)
	}
}

func TestMergeParametersEmpty(t *testing.T) {
	if got := MergeParameters(); got != nil {
		t.Errorf("MergeParameters() = %v, want nil", got)
	}
}
