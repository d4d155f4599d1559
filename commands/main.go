/*
   Copyright The containerd Authors.

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

package commands

import (
	"io"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	MainCmd = &cobra.Command{
		Use:               "posixcompat <command>",
		Short:             "Inspect and exercise POSIX file identity, link and time emulation.",
		SilenceUsage:      true,
		PersistentPreRunE: setup,
	}

	// usageTemplate is nearly identical to the default template without the
	// automatic addition of flags. Instead, Command.Use is used unmodified.
	usageTemplate = `{{ $cmd := . }}
Usage: {{if .Runnable}}
  {{.UseLine}}{{end}}{{if gt (len .Aliases) 0}}

Aliases:
  {{.NameAndAliases}}
{{end}}{{if .HasExample}}

Examples:
{{ .Example }}{{end}}{{ if .HasAvailableSubCommands}}

Available Commands: {{range .Commands}}{{if .IsAvailableCommand}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{end}}{{ if .HasAvailableLocalFlags}}

Flags:
{{.LocalFlags.FlagUsages}}{{end}}{{ if .HasAvailableInheritedFlags}}

Global Flags:
{{.InheritedFlags.FlagUsages}}{{end}}{{ if .HasAvailableSubCommands }}

Use "{{.CommandPath}} [command] --help" for more information about a command.
{{end}}`
)

var globalFlags struct {
	configPath string
	logLevel   string
	workers    int
	verify     bool
}

// config is resolved by setup before any subcommand runs.
var config = defaultConfig()

func init() {
	flags := MainCmd.PersistentFlags()
	flags.StringVar(&globalFlags.configPath, "config", "", "path to a TOML configuration file")
	flags.StringVar(&globalFlags.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.IntVar(&globalFlags.workers, "workers", 0, "number of files digested concurrently")
	flags.BoolVar(&globalFlags.verify, "verify-content", false, "confirm identity matches with a content digest")

	MainCmd.AddCommand(IdentCmd)
	MainCmd.AddCommand(StatCmd)
	MainCmd.AddCommand(LinkCmd)
	MainCmd.AddCommand(TouchCmd)
	MainCmd.AddCommand(DupesCmd)
	MainCmd.AddCommand(CopyCmd)
	MainCmd.SetUsageTemplate(usageTemplate)
}

func setup(cmd *cobra.Command, args []string) error {
	c := defaultConfig()
	if globalFlags.configPath != "" {
		if err := c.load(globalFlags.configPath); err != nil {
			return err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		c.LogLevel = globalFlags.logLevel
	}
	if flags.Changed("workers") {
		c.Workers = globalFlags.workers
	}
	if flags.Changed("verify-content") {
		c.VerifyContent = globalFlags.verify
	}
	if err := c.validate(); err != nil {
		return err
	}

	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return err
	}
	logrus.SetLevel(level)
	config = c
	return nil
}

// newTabwriter provides a common tabwriter with defaults.
func newTabwriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 2, 2, ' ', 0)
}
