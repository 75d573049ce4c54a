package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/toyz/pystubgen/internal/errors"
	"github.com/toyz/pystubgen/internal/models"
	"github.com/toyz/pystubgen/internal/utils"
)

const (
	// ConfigFileName is looked up in the working directory
	ConfigFileName = "pystubgen.yaml"
	// EnvPrefix prefixes environment overrides, e.g. PYSTUBGEN_BUILD_VERSION
	EnvPrefix = "PYSTUBGEN"

	// AllServices selects every service found in the models directory
	AllServices = "all"
)

// Config holds the configuration of a generate run
type Config struct {
	// OutputPath receives generated packages and built distributions
	OutputPath string `mapstructure:"output_path"`

	// ModelsPath is the root of the botocore-style service models
	ModelsPath string `mapstructure:"models_path"`

	// Services to generate; "all" or empty selects every discovered service
	Services []string `mapstructure:"services"`

	BuildVersion        string   `mapstructure:"build_version"`
	OutputTypes         []string `mapstructure:"output_types"`
	Products            []string `mapstructure:"products"`
	DisableSmartVersion bool     `mapstructure:"disable_smart_version"`
	SkipPublished       bool     `mapstructure:"skip_published"`

	DownloadStaticStubs bool   `mapstructure:"download_static_stubs"`
	StaticFilesPath     string `mapstructure:"static_files_path"`
	StaticFilesURL      string `mapstructure:"static_files_url"`

	PyPIURL string `mapstructure:"pypi_url"`
	Python  string `mapstructure:"python"`

	LogLevel string `mapstructure:"log_level"`
	LogFile  string `mapstructure:"log_file"`

	ValidateSyntax bool `mapstructure:"validate_syntax"`

	// TypeOverrides are "Shape=expr" or "Shape.Member=expr" entries. A list
	// keeps shape names case sensitive, which viper map keys are not.
	TypeOverrides []string `mapstructure:"type_overrides"`
}

// SetDefaults configures default values for every key
func SetDefaults(v *viper.Viper) {
	v.SetDefault("output_path", "mypy_boto3_output")
	v.SetDefault("models_path", "botocore/data")
	v.SetDefault("services", []string{AllServices})
	v.SetDefault("build_version", "")
	v.SetDefault("output_types", []string{string(models.OutputTypePackage)})
	v.SetDefault("products", []string{string(models.ProductServices)})
	v.SetDefault("disable_smart_version", false)
	v.SetDefault("skip_published", false)
	v.SetDefault("download_static_stubs", false)
	v.SetDefault("static_files_path", "")
	v.SetDefault("static_files_url", "")
	v.SetDefault("pypi_url", "https://pypi.org")
	v.SetDefault("python", "python")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
	v.SetDefault("validate_syntax", true)
	v.SetDefault("type_overrides", []string{})
}

// NewViper layers defaults, the config file and PYSTUBGEN_* variables.
// configFile may be empty, in which case pystubgen.yaml is used when it
// exists in the working directory. Flags are bound by the commands.
func NewViper(configFile string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if configFile == "" {
		if _, err := os.Stat(ConfigFileName); err != nil {
			return v, nil
		}
		configFile = ConfigFileName
	}
	v.SetConfigFile(configFile)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(errors.ConfigurationError("config", err.Error()), "read %s", configFile)
	}
	return v, nil
}

// LoadConfig unmarshals and validates the layered configuration
func LoadConfig(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.ConfigurationError("config", fmt.Sprintf("failed to unmarshal config: %v", err))
	}
	cfg.Services = splitList(cfg.Services)
	cfg.OutputTypes = splitList(cfg.OutputTypes)
	cfg.Products = splitList(cfg.Products)

	if _, err := cfg.ParsedOutputTypes(); err != nil {
		return nil, err
	}
	if _, err := cfg.ParsedProducts(); err != nil {
		return nil, err
	}
	if _, err := cfg.ParsedTypeOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	checks := []error{
		utils.NotEmpty("output_path")(c.OutputPath),
		utils.NotEmpty("models_path")(c.ModelsPath),
		utils.NotEmpty("python")(c.Python),
		utils.SliceNotEmpty[string]("output_types")(c.OutputTypes),
		utils.SliceNotEmpty[string]("products")(c.Products),
		utils.Conditional(!c.isAllServices(), utils.ValidateEach(utils.ValidateServiceName("services")))(c.Services),
		utils.IsOneOf("log_level", "silent", "quiet", "error", "warn", "warning", "info", "verbose", "debug")(strings.ToLower(strings.TrimSpace(c.LogLevel))),
		utils.Conditional(!c.DisableSmartVersion, utils.ValidateHTTPURL("pypi_url"))(c.PyPIURL),
	}
	for _, err := range checks {
		if err != nil {
			return err
		}
	}
	if c.DownloadStaticStubs && c.StaticFilesURL == "" {
		return errors.ConfigurationError("static_files_url", "required when download_static_stubs is set")
	}
	return nil
}

func (c *Config) isAllServices() bool {
	return len(c.Services) == 0 || (len(c.Services) == 1 && c.Services[0] == AllServices)
}

// ParsedOutputTypes validates output_types
func (c *Config) ParsedOutputTypes() (models.OutputTypes, error) {
	result := make(models.OutputTypes, 0, len(c.OutputTypes))
	for _, s := range c.OutputTypes {
		t, err := models.ParseOutputType(s)
		if err != nil {
			return nil, errors.ConfigurationError("output_types", err.Error())
		}
		result = append(result, t)
	}
	return result, nil
}

// ParsedProducts validates products
func (c *Config) ParsedProducts() ([]models.Product, error) {
	result := make([]models.Product, 0, len(c.Products))
	for _, s := range c.Products {
		p, err := models.ParseProduct(s)
		if err != nil {
			return nil, errors.ConfigurationError("products", err.Error())
		}
		result = append(result, p)
	}
	return result, nil
}

// ParsedTypeOverrides turns "Shape=expr" entries into a map
func (c *Config) ParsedTypeOverrides() (map[string]string, error) {
	result := make(map[string]string, len(c.TypeOverrides))
	for _, entry := range c.TypeOverrides {
		name, expr, ok := strings.Cut(entry, "=")
		name, expr = strings.TrimSpace(name), strings.TrimSpace(expr)
		if !ok || name == "" || expr == "" {
			return nil, errors.ConfigurationError("type_overrides", fmt.Sprintf("%q is not Shape=expression", entry))
		}
		result[name] = expr
	}
	return result, nil
}

// SelectServices resolves configured names against the discovered services
func (c *Config) SelectServices(available []*models.ServiceName) ([]*models.ServiceName, error) {
	if c.isAllServices() {
		return available, nil
	}

	byName := make(map[string]*models.ServiceName, len(available))
	for _, sn := range available {
		byName[sn.Name] = sn
	}
	selected := make([]*models.ServiceName, 0, len(c.Services))
	for _, name := range c.Services {
		sn, ok := byName[name]
		if !ok {
			err := errors.ConfigurationError("services", fmt.Sprintf("unknown service %q", name))
			return nil, err.WithSuggestion("Run `pystubgen services` to list the services in models_path")
		}
		selected = append(selected, sn)
	}
	return selected, nil
}

// splitList accepts both YAML lists and comma separated env values
func splitList(values []string) []string {
	var result []string
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				result = append(result, part)
			}
		}
	}
	return result
}
