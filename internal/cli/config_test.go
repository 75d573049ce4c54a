package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/pystubgen/internal/errors"
	"github.com/toyz/pystubgen/internal/models"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	v, err := NewViper("")
	require.NoError(t, err)
	cfg, err := LoadConfig(v)
	require.NoError(t, err)

	assert.Equal(t, []string{AllServices}, cfg.Services)
	assert.Equal(t, []string{"package"}, cfg.OutputTypes)
	assert.Equal(t, []string{"services"}, cfg.Products)
	assert.Equal(t, "https://pypi.org", cfg.PyPIURL)
	assert.True(t, cfg.ValidateSyntax)
	assert.Empty(t, cfg.BuildVersion)
}

func TestLoadConfig_Layering(t *testing.T) {
	path := writeConfig(t, `
build_version: 1.0.0
services: [ec2, s3]
output_types: [wheel]
skip_published: true
type_overrides:
  - "Instance.State = Literal['ok', 'bad']"
`)
	t.Setenv("PYSTUBGEN_BUILD_VERSION", "2.0.0")
	t.Setenv("PYSTUBGEN_PRODUCTS", "services,master")

	v, err := NewViper(path)
	require.NoError(t, err)
	cfg, err := LoadConfig(v)
	require.NoError(t, err)

	assert.Equal(t, "2.0.0", cfg.BuildVersion)
	assert.Equal(t, []string{"ec2", "s3"}, cfg.Services)
	assert.True(t, cfg.SkipPublished)

	outputTypes, err := cfg.ParsedOutputTypes()
	require.NoError(t, err)
	assert.Equal(t, models.OutputTypes{models.OutputTypeWheel}, outputTypes)

	products, err := cfg.ParsedProducts()
	require.NoError(t, err)
	assert.Equal(t, []models.Product{models.ProductServices, models.ProductMaster}, products)

	overrides, err := cfg.ParsedTypeOverrides()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Instance.State": "Literal['ok', 'bad']"}, overrides)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		key     string
	}{
		{"unknown product", "products: [docs]", "products"},
		{"unknown output type", "output_types: [egg]", "output_types"},
		{"bad override", "type_overrides: [Instance]", "type_overrides"},
		{"download without url", "download_static_stubs: true", "static_files_url"},
		{"empty products", "products: []", "products"},
		{"bad service name", "services: [ec2, 'Not A Service']", "services"},
		{"bad log level", "log_level: loud", "log_level"},
		{"pypi url scheme", "pypi_url: pypi.org", "pypi_url"},
		{"empty python", "python: ''", "python"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := NewViper(writeConfig(t, tt.content))
			require.NoError(t, err)
			_, err = LoadConfig(v)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ConfigurationErrorCode))
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestNewViper_MissingFile(t *testing.T) {
	_, err := NewViper(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, errors.IsCode(err, errors.ConfigurationErrorCode))
}

func TestSelectServices(t *testing.T) {
	available := []*models.ServiceName{models.EC2, models.S3, models.SQS}

	cfg := &Config{Services: []string{AllServices}}
	selected, err := cfg.SelectServices(available)
	require.NoError(t, err)
	assert.Equal(t, available, selected)

	cfg = &Config{Services: []string{"sqs", "ec2"}}
	selected, err = cfg.SelectServices(available)
	require.NoError(t, err)
	assert.Equal(t, []*models.ServiceName{models.SQS, models.EC2}, selected)

	cfg = &Config{Services: []string{"lambda"}}
	_, err = cfg.SelectServices(available)
	require.Error(t, err)
	var stubErr errors.StubError
	require.True(t, errors.As(err, &stubErr))
	assert.NotEmpty(t, stubErr.Suggestions())
}
