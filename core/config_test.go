package core

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestCocConfig_Validate(t *testing.T) {
	t.Run("defaults are applied", func(t *testing.T) {
		config := &CocConfig{BearerToken: "token"}
		if err := config.Validate(DefaultValidators()...); err != nil {
			t.Fatalf("Validate() error = %v", err)
		}
		if config.Endpoint != DefaultEndpoint {
			t.Errorf("Endpoint = %q", config.Endpoint)
		}
		if config.ApiVersion != DefaultApiVersion {
			t.Errorf("ApiVersion = %q", config.ApiVersion)
		}
		if config.ExtractItems == nil || !*config.ExtractItems {
			t.Error("ExtractItems should default to true")
		}
		if config.Timeout == nil || *config.Timeout != 30*time.Second {
			t.Errorf("Timeout = %v", config.Timeout)
		}
		if !strings.HasPrefix(config.UserAgent, "go-coc-client-") {
			t.Errorf("UserAgent = %q", config.UserAgent)
		}
		if config.Logger == nil {
			t.Error("Logger should be installed")
		}
	})

	t.Run("missing token", func(t *testing.T) {
		config := &CocConfig{}
		if err := config.Validate(DefaultValidators()...); err == nil {
			t.Error("expected error for missing token")
		}
	})

	t.Run("blank token", func(t *testing.T) {
		config := &CocConfig{BearerToken: "   "}
		if err := config.Validate(WithAuth); err == nil {
			t.Error("expected error for blank token")
		}
	})

	t.Run("invalid endpoint", func(t *testing.T) {
		config := &CocConfig{BearerToken: "token", Endpoint: "not a url"}
		if err := config.Validate(DefaultValidators()...); err == nil {
			t.Error("expected error for invalid endpoint")
		}
	})

	t.Run("stops at first failure", func(t *testing.T) {
		config := &CocConfig{}
		called := false
		err := config.Validate(WithAuth, func(*CocConfig) error {
			called = true
			return nil
		})
		if err == nil || called {
			t.Error("validation should stop at the first failing validator")
		}
	})
}

func TestWithEndpoint(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		want     string
	}{
		{"default", "", DefaultEndpoint},
		{"trailing slash", "http://localhost:8080/", "http://localhost:8080"},
		{"kept", "https://cocproxy.royaleapi.dev", "https://cocproxy.royaleapi.dev"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &CocConfig{Endpoint: tt.endpoint}
			if err := WithEndpoint(DefaultEndpoint)(config); err != nil {
				t.Fatalf("WithEndpoint() error = %v", err)
			}
			if config.Endpoint != tt.want {
				t.Errorf("Endpoint = %q, want %q", config.Endpoint, tt.want)
			}
		})
	}
}

func TestWithApiVersion(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"default", "", "v1", false},
		{"prefixed", "v1", "v1", false},
		{"bare number", "2", "v2", false},
		{"upper case", "V3", "v3", false},
		{"dotted", "v1.1", "v1.1", false},
		{"garbage", "latest", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &CocConfig{ApiVersion: tt.input}
			err := WithApiVersion(DefaultApiVersion)(config)
			if (err != nil) != tt.wantErr {
				t.Fatalf("WithApiVersion() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && config.ApiVersion != tt.want {
				t.Errorf("ApiVersion = %q, want %q", config.ApiVersion, tt.want)
			}
		})
	}
}

func TestWithTimeout(t *testing.T) {
	config := &CocConfig{}
	if err := WithTimeout(10 * time.Second)(config); err != nil {
		t.Fatalf("WithTimeout() error = %v", err)
	}
	if *config.Timeout != 10*time.Second {
		t.Errorf("Timeout = %v", *config.Timeout)
	}

	custom := 5 * time.Second
	config = &CocConfig{Timeout: &custom}
	_ = WithTimeout(10 * time.Second)(config)
	if *config.Timeout != custom {
		t.Errorf("explicit timeout should be kept, got %v", *config.Timeout)
	}
}

func TestWithExtractItems(t *testing.T) {
	disabled := false
	config := &CocConfig{ExtractItems: &disabled}
	_ = WithExtractItems(true)(config)
	if *config.ExtractItems {
		t.Error("explicit extraction mode should be kept")
	}
}

func TestWithLogger(t *testing.T) {
	t.Run("explicit logger is kept", func(t *testing.T) {
		logger := zap.NewExample()
		config := &CocConfig{Logger: logger}
		if err := WithLogger(config); err != nil {
			t.Fatalf("WithLogger() error = %v", err)
		}
		if config.Logger != logger {
			t.Error("logger was replaced")
		}
	})

	t.Run("invalid level", func(t *testing.T) {
		t.Setenv("COC_LOG", "chatty")
		if err := WithLogger(&CocConfig{}); err == nil {
			t.Error("expected error for unknown COC_LOG level")
		}
	})

	t.Run("levels", func(t *testing.T) {
		for _, level := range []string{"", "debug", "INFO"} {
			t.Setenv("COC_LOG", level)
			config := &CocConfig{}
			if err := WithLogger(config); err != nil {
				t.Fatalf("WithLogger(%q) error = %v", level, err)
			}
			if config.Logger == nil {
				t.Errorf("WithLogger(%q) did not install a logger", level)
			}
		}
	})
}

func TestParseConfig(t *testing.T) {
	t.Setenv("COC_TEST_TOKEN", "secret-from-env")
	data := []byte(`
bearer_token: ${COC_TEST_TOKEN}
endpoint: http://localhost:9000/
api_version: "1"
extract_items: false
respect_proxy: true
timeout: 15s
strict_routes: true
`)
	config, err := ParseConfig(data)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if config.BearerToken != "secret-from-env" {
		t.Errorf("BearerToken = %q", config.BearerToken)
	}
	if config.ExtractItems == nil || *config.ExtractItems {
		t.Error("ExtractItems should be false")
	}
	if !config.RespectProxy || !config.StrictRoutes {
		t.Error("boolean flags not parsed")
	}
	if config.Timeout == nil || *config.Timeout != 15*time.Second {
		t.Errorf("Timeout = %v", config.Timeout)
	}

	if err = config.Validate(DefaultValidators()...); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if config.Endpoint != "http://localhost:9000" || config.ApiVersion != "v1" {
		t.Errorf("normalized endpoint/version = %q %q", config.Endpoint, config.ApiVersion)
	}
}

func TestParseConfig_Invalid(t *testing.T) {
	if _, err := ParseConfig([]byte("bearer_token: [unterminated")); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coc.yaml")
	if err := os.WriteFile(path, []byte("bearer_token: abc\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	config, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile() error = %v", err)
	}
	if config.BearerToken != "abc" {
		t.Errorf("BearerToken = %q", config.BearerToken)
	}

	if _, err = LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
