package apperr

import (
	"fmt"
	"strings"
	"testing"
)

func TestProviderErrorKeepsRawBody(t *testing.T) {
	body := `{"error":{"message":"invalid model","code":"model_not_found"}}`
	err := NewProviderError("openai", 404, []byte(body))

	if !strings.Contains(err.Error(), body) {
		t.Errorf("error message %q does not carry the raw provider body", err.Error())
	}
	if !IsProvider(err) {
		t.Error("IsProvider = false for ProviderError")
	}
}

func TestPredicatesDistinguishTypes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want func(error) bool
	}{
		{"config", NewConfigError("openai", "OPENAI_API_KEY"), IsConfig},
		{"provider", NewProviderError("shotstack", 500, []byte("boom")), IsProvider},
		{"template", NewTemplateError("reel", fmt.Errorf("bad json")), IsTemplate},
		{"timeout", NewTimeoutError("image generation", "processing"), IsTimeout},
	}

	preds := map[string]func(error) bool{
		"config":   IsConfig,
		"provider": IsProvider,
		"template": IsTemplate,
		"timeout":  IsTimeout,
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for name, pred := range preds {
				got := pred(tt.err)
				want := name == tt.name
				if got != want {
					t.Errorf("Is%s(%v) = %v, want %v", name, tt.err, got, want)
				}
			}
		})
	}
}

func TestPredicatesSeeThroughWrapping(t *testing.T) {
	err := fmt.Errorf("image step: %w", NewTimeoutError("image generation", "starting"))
	if !IsTimeout(err) {
		t.Error("IsTimeout = false for wrapped TimeoutError")
	}
}

func TestTimeoutErrorCarriesLastStatus(t *testing.T) {
	err := NewTimeoutError("image generation", "processing")
	if !strings.Contains(err.Error(), "processing") {
		t.Errorf("timeout error %q does not mention last status", err.Error())
	}
}
