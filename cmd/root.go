// Package cmd provides the command-line interface for breach.
//
// Configuration precedence, highest to lowest:
//  1. Command-line flags (--port, --host, ...)
//  2. BREACH_* environment variables (BREACH_SERVER_PORT, ...)
//  3. A .breach.yml configuration file in the working directory
//  4. Built-in defaults
package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conneroisu/breach/internal/config"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "breach",
	Short: "Serve a single .breach document with live reload",
	Long: `Breach serves one multi-section .breach source file over HTTP,
recompiling it whenever the file changes and pushing a reload signal
to connected browsers.

A .breach file mixes markup, styling, and script sections introduced
by marker lines:

  ¦html
  <h1>Hello</h1>
  ¦scss
  $accent: tomato;
  h1 { color: $accent; }
  ¦js
  console.log("hello");

Quick Start:
  breach serve              Serve the first .breach file found here
  breach serve site.breach  Serve a specific file`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .breach.yml)")
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "log format (text, json)")
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))
}

// initConfig wires viper to the config file and environment.
func initConfig() {
	config.SetDefaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(".breach")
		viper.SetConfigType("yml")
	}

	viper.SetEnvPrefix("BREACH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			fmt.Fprintf(os.Stderr, "Warning: could not read config file: %v\n", err)
		}
	}
}
