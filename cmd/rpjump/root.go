package cmd

import (
	"context"
	"os"
	"os/signal"
	"strings"

	log "github.com/sirupsen/logrus"
	logwriter "github.com/sirupsen/logrus/hooks/writer"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/redhat-openshift-ecosystem/rp-jump/internal/rperror"
	"github.com/redhat-openshift-ecosystem/rp-jump/pkg"
	"github.com/redhat-openshift-ecosystem/rp-jump/pkg/cmd/favorites"
	"github.com/redhat-openshift-ecosystem/rp-jump/pkg/cmd/jump"
	"github.com/redhat-openshift-ecosystem/rp-jump/pkg/cmd/root"
	"github.com/redhat-openshift-ecosystem/rp-jump/pkg/version"
)

var config = &pkg.Config{}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "rpjump",
	Short: "Jump from ReportPortal to Magna must-gather logs",
	Long: `rpjump resolves a failed test page of ReportPortal into the must-gather
directory of that test on the Magna log server, and keeps favorite
must-gather sub-paths to open on top of any run.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		var err error

		// Validate logging level
		loglevel := viper.GetString("log-level")
		logrusLevel, err := log.ParseLevel(loglevel)
		if err != nil {
			log.Fatal(err)
		}
		log.SetLevel(logrusLevel)

		// Additional log options
		log.SetFormatter(&log.TextFormatter{
			FullTimestamp: true,
		})

		// stdout carries the resolved URLs
		log.SetOutput(os.Stderr)
		fdLog, err := os.OpenFile(pkg.LogFile, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
		if err != nil {
			log.Debugf("error opening file %s: %v", pkg.LogFile, err)
		} else {
			log.AddHook(&logwriter.Hook{
				Writer: fdLog,
				LogLevels: []log.Level{
					log.PanicLevel,
					log.FatalLevel,
					log.ErrorLevel,
					log.WarnLevel,
					log.InfoLevel,
					log.DebugLevel,
				},
			})
		}

		loadConfig(config)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		handleError(err)
		stop()
		os.Exit(1)
	}
}

// handleError logs bad input and unexpected upstream layouts as warnings,
// anything else as an error.
func handleError(err error) {
	switch rperror.KindOf(err) {
	case rperror.KindUsage:
		log.Warn(err)
	case rperror.KindStructure:
		log.Warnf("Unexpected structure: %v", err)
	default:
		log.Error(err)
	}
}

func loadConfig(c *pkg.Config) {
	c.APIKey = viper.GetString("api-key")
	c.BaseURL = viper.GetString("base-url")
	c.Project = viper.GetString("project")
	c.Timeout = viper.GetDuration("timeout")
	c.Retries = viper.GetInt("retries")
	c.FavoritesFile = viper.GetString("favorites-file")
}

func initBindFlag(flag string) {
	err := viper.BindPFlag(flag, rootCmd.PersistentFlags().Lookup(flag))
	if err != nil {
		log.Warnf("Unable to bind flag %s\n", flag)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("log-level", "info", "logging level")
	rootCmd.PersistentFlags().String("config", "", "config file (default "+pkg.ConfigFile+")")
	rootCmd.PersistentFlags().String("api-key", "", "ReportPortal API token (env RP_API_KEY)")
	rootCmd.PersistentFlags().String("base-url", "", "ReportPortal base URL (env RP_BASE_URL)")
	rootCmd.PersistentFlags().String("project", "", "ReportPortal project (env RP_PROJECT, default ocs)")
	rootCmd.PersistentFlags().Duration("timeout", pkg.DefaultTimeout, "timeout of each HTTP request")
	rootCmd.PersistentFlags().Int("retries", 0, "retries of a failed HTTP request")
	rootCmd.PersistentFlags().String("favorites-file", pkg.FavoritesFile, "favorites document")
	for _, flag := range []string{"log-level", "config", "api-key", "base-url", "project", "timeout", "retries", "favorites-file"} {
		initBindFlag(flag)
	}

	// Link in child commands
	rootCmd.AddCommand(jump.NewCmdJump(config))
	rootCmd.AddCommand(root.NewCmdRoot())
	rootCmd.AddCommand(favorites.NewCmdFavorites(config))
	rootCmd.AddCommand(version.NewCmdVersion())
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	viper.SetEnvPrefix("RP")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	cfgFile := viper.GetString("config")
	if cfgFile == "" {
		if _, err := os.Stat(pkg.ConfigFile); err != nil {
			return
		}
		cfgFile = pkg.ConfigFile
	}
	viper.SetConfigFile(cfgFile)
	if err := viper.ReadInConfig(); err != nil {
		log.Warnf("Unable to read config file %s: %v", cfgFile, err)
		return
	}
	log.Debugf("Using config file %s", viper.ConfigFileUsed())
}
