/*
Copyright © 2025 Your Name

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
package handlers

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"daybrief/internal/config"
)

var cfgFile string

// NewRootCmd creates the root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "daybrief",
		Short: "daybrief turns a daily browsing export into a short readable digest",
		Long: `daybrief ingests the JSON export of one day's browsing activity,
repairs common export damage, summarizes the day with a local llama.cpp
server (or the hosted Gemini API), appends a ranked list of the pages you
spent the most time on, and writes a single markdown digest.

Optionally the digest is delivered to your inbox over SMTP.`,
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.daybrief.yaml)")

	rootCmd.AddCommand(NewDigestCmd())
	rootCmd.AddCommand(NewCheckCmd())
	rootCmd.AddCommand(NewScheduleCmd())

	return rootCmd
}

// Execute runs the root command with a signal-aware context so a Ctrl-C
// interrupts a long generation call or a running schedule cleanly.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// initConfig reads in the config file and environment variables.
func initConfig() {
	if _, err := config.Load(cfgFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	if used := config.Get().App.ConfigFile; used != "" {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", used)
	}
}
