package utils

import (
	"github.com/blagojts/viper"
	"github.com/spf13/pflag"
)

// SetupConfigFile merges an optional ./config.yaml over the command line
// flags. Flags win when both are set.
func SetupConfigFile() error {
	viper.SetConfigName("config")
	viper.AddConfigPath(".")

	viper.BindPFlags(pflag.CommandLine)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
	}

	return nil
}
