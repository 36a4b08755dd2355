/*
Copyright 2020 Google LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/ademuri/spotify-explorer/internal/analysis"
	"github.com/ademuri/spotify-explorer/internal/logging"
)

var cfgFile string
var dataDir string
var source string
var timezone string
var rulesPath string
var cachePath string
var strict bool
var shortPlayCutoff int64
var logLevel string
var logFormat string
var genreFilter []string
var excludeShort bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "spotify-explorer",
	Short: "Explores Spotify streaming history by broad genre",
	Long: `Loads a Spotify streaming history export together with track features,
artist metadata and genre tables, sorts every artist into a broad genre and
renders the listening views as terminal tables or YAML.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default is $HOME/.spotify-explorer.yaml)")

	rootCmd.PersistentFlags().StringVar(
		&dataDir, "data_dir", ".", "Directory holding the exported CSV tables")
	viper.BindPFlag("data_dir", rootCmd.PersistentFlags().Lookup("data_dir"))

	rootCmd.PersistentFlags().StringVar(
		&source, "source", "public", "Table variant to read, as in streaming_history_<source>.csv")
	viper.BindPFlag("source", rootCmd.PersistentFlags().Lookup("source"))

	rootCmd.PersistentFlags().StringVar(
		&timezone, "timezone", "", "IANA time zone of the endTime column (default is local time)")
	viper.BindPFlag("timezone", rootCmd.PersistentFlags().Lookup("timezone"))

	rootCmd.PersistentFlags().StringVar(
		&rulesPath, "rules", "", "YAML file replacing the built-in genre keyword rules")
	viper.BindPFlag("rules", rootCmd.PersistentFlags().Lookup("rules"))

	rootCmd.PersistentFlags().StringVar(
		&cachePath, "cache", "", "SQLite file caching classifications between runs (default is in-memory)")
	viper.BindPFlag("cache", rootCmd.PersistentFlags().Lookup("cache"))

	rootCmd.PersistentFlags().BoolVar(
		&strict, "strict", false, "Fail on malformed genre lists instead of treating them as No Genre")
	viper.BindPFlag("strict", rootCmd.PersistentFlags().Lookup("strict"))

	rootCmd.PersistentFlags().Int64Var(
		&shortPlayCutoff, "short_play_cutoff", analysis.DefaultShortPlayCutoff, "Plays shorter than this many milliseconds are short plays")
	viper.BindPFlag("short_play_cutoff", rootCmd.PersistentFlags().Lookup("short_play_cutoff"))

	rootCmd.PersistentFlags().StringVar(&logLevel, "log_level", "info", "Log level: debug, info, warn or error")
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log_level"))

	rootCmd.PersistentFlags().StringVar(&logFormat, "log_format", "", "Log format: console or json (default depends on whether stderr is a terminal)")
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log_format"))

	rootCmd.PersistentFlags().StringSliceVarP(
		&genreFilter, "genre", "g", nil, "Only include plays of this broad genre (repeatable)")
	viper.BindPFlag("genre", rootCmd.PersistentFlags().Lookup("genre"))

	rootCmd.PersistentFlags().BoolVar(&excludeShort, "exclude_short", false, "Drop short plays")
	viper.BindPFlag("exclude_short", rootCmd.PersistentFlags().Lookup("exclude_short"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".spotify-explorer" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".spotify-explorer")
	}

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	// See https://github.com/spf13/viper/pull/852
	rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		if f.Value.Type() == "stringSlice" {
			return
		}
		if viper.IsSet(f.Name) && viper.GetString(f.Name) != "" {
			rootCmd.PersistentFlags().Set(f.Name, viper.GetString(f.Name))
		}
	})
}

// newLogger builds the logger for one command invocation.
func newLogger() (*slog.Logger, error) {
	logger, err := logging.New(logging.Options{
		Level:  viper.GetString("log_level"),
		Format: viper.GetString("log_format"),
	})
	if err != nil {
		return nil, err
	}
	return logging.WithSession(logger), nil
}
