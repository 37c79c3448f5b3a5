package tagcatalog_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tagcatalog "github.com/thrawn01/tag-catalog"
)

func TestDefaultValidator_ValidateTagName(t *testing.T) {
	validator := tagcatalog.NewDefaultValidator()

	tests := []struct {
		name                string
		tag                 string
		expectValid         bool
		expectedIssues      []string
		expectedSuggestions []string
	}{
		{
			name:        "ValidTag",
			tag:         "sunset",
			expectValid: true,
		},
		{
			name:        "ValidTagWithPunctuation",
			tag:         "b&w.film-35mm",
			expectValid: true,
		},
		{
			name:           "EmptyTag",
			tag:            "   ",
			expectValid:    false,
			expectedIssues: []string{"cannot be empty"},
		},
		{
			name:                "QueryOperatorPrefix",
			tag:                 "!important",
			expectValid:         false,
			expectedIssues:      []string{"query operator"},
			expectedSuggestions: []string{"Suggested: important"},
		},
		{
			name:           "Brackets",
			tag:            "a[b]",
			expectValid:    false,
			expectedIssues: []string{"brackets"},
		},
		{
			name:                "Whitespace",
			tag:                 "Big  Dog",
			expectValid:         false,
			expectedIssues:      []string{"whitespace"},
			expectedSuggestions: []string{"Suggested: big-dog"},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := validator.ValidateTagName(test.tag)
			assert.Equal(t, test.expectValid, result.IsValid)

			for _, expected := range test.expectedIssues {
				found := false
				for _, issue := range result.Issues {
					if strings.Contains(issue, expected) {
						found = true
						break
					}
				}
				assert.True(t, found, "expected issue containing %q, got %v", expected, result.Issues)
			}
			for _, expected := range test.expectedSuggestions {
				assert.Contains(t, result.Suggestions, expected)
			}
		})
	}
}

func TestDefaultValidator_ValidatePath(t *testing.T) {
	validator := tagcatalog.NewDefaultValidator()
	dir := t.TempDir()

	assert.NoError(t, validator.ValidatePath(dir))
	assert.Error(t, validator.ValidatePath(""))
	assert.Error(t, validator.ValidatePath("relative/path"))
	assert.Error(t, validator.ValidatePath(dir+"/../etc"))
	assert.NoError(t, validator.ValidatePath(filepath.Join(dir, "..dots")))
}

func TestDefaultValidator_ValidateConfig(t *testing.T) {
	validator := tagcatalog.NewDefaultValidator()

	tests := []struct {
		name   string
		mutate func(*tagcatalog.Config)
		errMsg string
	}{
		{name: "Default", mutate: func(*tagcatalog.Config) {}},
		{name: "EmptyDataDir", mutate: func(c *tagcatalog.Config) { c.DataDir = "" }, errMsg: "data_dir"},
		{name: "MaxRecent", mutate: func(c *tagcatalog.Config) { c.MaxRecent = 0 }, errMsg: "max_recent"},
		{name: "EmptyExtension", mutate: func(c *tagcatalog.Config) { c.DefaultIgnoredExtensions = []string{"."} }, errMsg: "empty extension"},
		{name: "LogLevel", mutate: func(c *tagcatalog.Config) { c.LogLevel = "loud" }, errMsg: "log_level"},
		{name: "LogFormat", mutate: func(c *tagcatalog.Config) { c.LogFormat = "xml" }, errMsg: "log_format"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			config := tagcatalog.DefaultConfig()
			test.mutate(config)
			err := validator.ValidateConfig(config)
			if test.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), test.errMsg)
		})
	}

	assert.Error(t, validator.ValidateConfig(nil))
}

func TestLoadConfig(t *testing.T) {
	t.Run("EmptyPathUsesDefaults", func(t *testing.T) {
		config, err := tagcatalog.LoadConfig("")
		require.NoError(t, err)
		assert.Equal(t, tagcatalog.DefaultConfig(), config)
	})

	t.Run("OverridesDefaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		content := "data_dir: /tmp/catalog\nmax_recent: 3\ndefault_ignored_extensions: [bak]\nlog_format: json\n"
		require.NoError(t, os.WriteFile(path, []byte(content), tagcatalog.DefaultFilePermissions))

		config, err := tagcatalog.LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "/tmp/catalog", config.DataDir)
		assert.Equal(t, 3, config.MaxRecent)
		assert.Equal(t, []string{"bak"}, config.DefaultIgnoredExtensions)
		assert.Equal(t, "json", config.LogFormat)
		assert.Equal(t, "info", config.LogLevel)
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := tagcatalog.LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("Malformed", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("max_recent: [oops"), tagcatalog.DefaultFilePermissions))
		_, err := tagcatalog.LoadConfig(path)
		assert.Error(t, err)
	})
}
