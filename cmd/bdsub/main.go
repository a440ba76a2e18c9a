// Command bdsub inspects and converts DVD (VobSub) and Blu-ray (PGS)
// bitmap subtitles.
package main

import (
	"io"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"
)

var version = "dev"

var (
	logLevel string
	logJSON  bool
	logFile  string
)

var rootCmd = &cobra.Command{
	Use:   "bdsub",
	Short: "Decode DVD and Blu-ray bitmap subtitles",
	Long: `bdsub reads VobSub (.idx/.sub) and PGS (.sup) subtitle streams and
extracts their timing and images.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initLogger(logLevel, logJSON, logFile)
	},
}

func main() {
	os.Exit(run())
}

func run() int {
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "warn", "set log level")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "set log to json format (default colorized console)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "also write logs to this file (rotated)")

	rootCmd.AddCommand(probeCmd)
	rootCmd.AddCommand(timesCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(updateCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		return 1
	}
	return 0
}

func initLogger(level string, json bool, file string) {
	zerolog.TimeFieldFormat = "2006-01-02T15:04:05.999Z0700"

	var writer io.Writer
	if json {
		writer = os.Stderr
	} else {
		writer = zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339Nano,
			NoColor:    runtime.GOOS == "windows",
		}
	}
	if file != "" {
		roller := &lumberjack.Logger{
			Filename:   file,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
		}
		writer = zerolog.MultiLevelWriter(writer, roller)
	}
	log.Logger = zerolog.New(writer).With().Timestamp().Logger()

	parsed, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		parsed = zerolog.WarnLevel
	}
	zerolog.SetGlobalLevel(parsed)
}
