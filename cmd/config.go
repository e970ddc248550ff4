package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	configFileName = "palbot"
	configFileType = "yaml"
	envPrefix      = "PALBOT"
	dotEnvFile     = ".env"

	defaultSetupDir  = "tray_setups"
	defaultSetupFile = "default_setup.txt"

	cfgKeyPort      = "port"
	cfgKeyBaud      = "baud"
	cfgKeySetup     = "setup"
	cfgKeySetupDir  = "setup_dir"
	cfgKeyJournal   = "journal"
	cfgKeySyringe   = "syringe"
	cfgKeyDirection = "direction"
	cfgKeyTimeout   = "timeout"
	cfgKeyPoll      = "poll"
	cfgKeyDryRun    = "dry_run"
	cfgKeyWashTray  = "wash_tray"
	cfgKeyWasteTray = "waste_tray"
	cfgKeyHomeX     = "home.x"
	cfgKeyHomeY     = "home.y"
	cfgKeyHomeZ     = "home.z"
)

// v holds flags, environment and palbot.yaml, in that order of precedence.
var v = viper.New()

func bindFlags(fs *pflag.FlagSet) {
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Name == "config" {
			return
		}
		_ = v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f)
	})
	v.SetDefault(cfgKeyHomeX, -1)
	v.SetDefault(cfgKeyHomeY, 0)
	v.SetDefault(cfgKeyHomeZ, 0)
}

// loadConfig reads .env into the environment, then palbot.yaml. A missing
// file of either kind is not an error unless --config named it.
func loadConfig() error {
	if _, err := os.Stat(dotEnvFile); err == nil {
		if err := godotenv.Load(dotEnvFile); err != nil {
			return fmt.Errorf("load %s: %w", dotEnvFile, err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(configFileName)
		v.SetConfigType(configFileType)
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}
