package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateExtensions(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name    string
		exts    []string
		wantErr bool
	}{
		{"empty list", nil, false},
		{"valid extensions", []string{".txt", ".md", ".html"}, false},
		{"missing dot", []string{"txt"}, true},
		{"mixed", []string{".txt", "md"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateExtensions(tt.exts)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateProvider(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.ValidateProvider(""))
	assert.NoError(t, v.ValidateProvider("openai"))
	assert.NoError(t, v.ValidateProvider("ollama"))
	assert.NoError(t, v.ValidateProvider("none"))
	assert.Error(t, v.ValidateProvider("bedrock"))
}

func TestValidateSchedule(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.ValidateSchedule("0 3 * * *"))
	assert.NoError(t, v.ValidateSchedule("*/15 * * * *"))
	assert.Error(t, v.ValidateSchedule("not cron"))
	assert.Error(t, v.ValidateSchedule("* * * * * *"))
}

func TestValidateLogLevel(t *testing.T) {
	v := NewValidator()

	for _, level := range []string{"", "trace", "debug", "info", "warn", "error"} {
		assert.NoError(t, v.ValidateLogLevel(level))
	}
	assert.Error(t, v.ValidateLogLevel("verbose"))
}

func TestValidate(t *testing.T) {
	v := NewValidator()

	t.Run("defaults pass", func(t *testing.T) {
		assert.NoError(t, v.Validate(DefaultConfig()))
	})

	t.Run("negative workers rejected", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Indexing.Workers = -1
		assert.Error(t, v.Validate(cfg))
	})

	t.Run("negative top_k rejected", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Search.TopK = -5
		assert.Error(t, v.Validate(cfg))
	})

	t.Run("bad schedule rejected", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Indexing.Schedule = "whenever"
		assert.Error(t, v.Validate(cfg))
	})
}
