package flags

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/samber/lo"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	Config    = "config"
	LogFormat = "log-format"
	LogLevel  = "log-level"
	LogSource = "log-source"
	Listen    = "listen"
	Launcher  = "launcher"
	AutoStart = "auto-start"
)

func init() {
	flags := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	flags.ParseErrorsWhitelist.UnknownFlags = true

	flags.String(Config, "", "path to the configuration file")
	flags.String(LogFormat, "json", "log format (json, text)")
	flags.String(LogLevel, "INFO", "minimum log level")
	flags.Bool(LogSource, false, "add source code location to logs")
	flags.String(Listen, ":8398", "listening address for the HTTP API")
	flags.String(Launcher, "sim", "instance launcher to use (sim, oci)")
	flags.Bool(AutoStart, false, "start hunting as soon as the server is up")

	// Init
	if err := flags.Parse(os.Args[1:]); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}

	viper.SetEnvPrefix("caphound")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	lo.Must0(viper.BindPFlags(flags))
}
