package gameanalytics

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/gameanalytics/ga-go-sdk/api"
	"github.com/gameanalytics/ga-go-sdk/util"
)

const (
	DefaultSettingsKey   = "ga_user_id"
	DefaultSessionNumKey = "ga_session_num"

	envPrefix = "GA"
)

var ErrInvalidOptions = errors.New("invalid GameAnalytics options")

// use a single instance of Validate, it caches struct info
var validate = validator.New()

type AdvancedOptions struct {
	// OverridePlatform replaces the platform detected from runtime.GOOS.
	OverridePlatform  *api.Platform
	DeviceIDSource    DeviceIDSource
	EnvironmentSource EnvironmentSource
}

type Options struct {
	RootPrefix            string      `mapstructure:"root_prefix" validate:"omitempty,max=64,excludes=:"`
	WrapperVersion        string      `mapstructure:"wrapper_version" validate:"omitempty,max=64"`
	SettingsKey           string      `mapstructure:"settings_key" validate:"required,printascii,max=128"`
	SessionNumKey         string      `mapstructure:"session_num_key" validate:"required,printascii,max=128,nefield=SettingsKey"`
	SettingsPath          string      `mapstructure:"settings_path"`
	UseMachineID          bool        `mapstructure:"use_machine_id"`
	MachineIDAppID        string      `mapstructure:"machine_id_app_id" validate:"required_if=UseMachineID true"`
	GraphicsDeviceName    string      `mapstructure:"gfx_name"`
	GraphicsDeviceVersion string      `mapstructure:"gfx_version"`
	Logger                util.Logger `mapstructure:"-"`
	AdvancedOptions       `mapstructure:"-"`
}

func (o *Options) CheckDefaults() {
	if o.SettingsKey == "" {
		o.SettingsKey = DefaultSettingsKey
	}
	if o.SessionNumKey == "" {
		o.SessionNumKey = DefaultSessionNumKey
	}
	if o.UseMachineID && o.MachineIDAppID == "" && o.RootPrefix != "" {
		util.Warnf("MachineIDAppID is not set. Defaulting to the root prefix %q.", o.RootPrefix)
		o.MachineIDAppID = o.RootPrefix
	}
}

func (o *Options) Validate() error {
	if err := validate.Struct(o); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}
	return nil
}

// LoadOptions builds Options from an optional config file and GA_* environment
// variables. Environment variables win over the file. A missing file is only
// an error when configFile is non-empty.
func LoadOptions(configFile string) (*Options, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("root_prefix", "")
	v.SetDefault("wrapper_version", "")
	v.SetDefault("settings_key", DefaultSettingsKey)
	v.SetDefault("session_num_key", DefaultSessionNumKey)
	v.SetDefault("settings_path", "")
	v.SetDefault("use_machine_id", false)
	v.SetDefault("machine_id_app_id", "")
	v.SetDefault("gfx_name", "")
	v.SetDefault("gfx_version", "")

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", configFile, err)
		}
	}

	var options Options
	if err := v.Unmarshal(&options); err != nil {
		return nil, fmt.Errorf("failed to decode options: %w", err)
	}
	options.CheckDefaults()
	if err := options.Validate(); err != nil {
		return nil, err
	}
	return &options, nil
}
