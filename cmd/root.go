package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/praetorian-inc/aperture/internal/helpers"
	"github.com/praetorian-inc/aperture/internal/logs"
	"github.com/praetorian-inc/aperture/internal/message"
	"github.com/praetorian-inc/aperture/modules"
	o "github.com/praetorian-inc/aperture/modules/options"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile      string
	quietFlag    bool
	noColorFlag  bool
	logLevelFlag string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "aperture",
	Short: "Aperture provisions and audits AWS API Gateway endpoints.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		message.SetQuiet(quietFlag)
		if noColorFlag {
			message.SetNoColor(true)
		}
		logs.SetLevel(parseLogLevel(logLevelFlag))
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.aperture.yaml)")
	rootCmd.PersistentFlags().StringP(o.OutputOpt.Name, o.OutputOpt.Short, o.OutputOpt.Value, o.OutputOpt.Description)
	rootCmd.PersistentFlags().BoolVar(&quietFlag, "quiet", false, "suppress status messages")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "info", "log level (debug, info, warn, error)")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".aperture" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".aperture")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func options2Flag(options []*o.Option, common []*o.Option, cmd *cobra.Command) {
	for _, option := range options {
		option2Flag(option, cmd)
	}

	for _, option := range common {
		option2Flag(option, cmd)
	}
}

func option2Flag(option *o.Option, cmd *cobra.Command) {
	switch option.Type {
	case o.String:
		cmd.Flags().StringP(option.Name, option.Short, option.Value, option.Description)
	case o.Bool:
		value, _ := strconv.ParseBool(option.Value)
		cmd.Flags().BoolP(option.Name, option.Short, value, option.Description)
	case o.Int:
		intValue, _ := strconv.Atoi(option.Value)
		cmd.Flags().IntP(option.Name, option.Short, intValue, option.Description)
	}

	if option.Required {
		cmd.MarkFlagRequired(option.Name)
	}
}

func getOpts(cmd *cobra.Command, required []*o.Option, common []*o.Option) []*o.Option {
	opts := getGlobalOpts(cmd)
	opts = append(opts, getOptsFromCmd(cmd, required)...)
	opts = append(opts, getOptsFromCmd(cmd, common)...)

	if err := o.ValidateOptions(opts); err != nil {
		logs.ConsoleLogger().Error(err.Error())
		os.Exit(1)
	}

	return opts
}

func getGlobalOpts(cmd *cobra.Command) []*o.Option {
	opts := []*o.Option{}
	output := o.OutputOpt
	output.Value, _ = cmd.Flags().GetString(output.Name)
	if !cmd.Flags().Changed(output.Name) && viper.IsSet(output.Name) {
		output.Value = viper.GetString(output.Name)
	}
	opts = append(opts, &output)

	return opts
}

// getOptsFromCmd copies flag values back into the option set. A flag left at
// its default falls back to the matching key in the viper config, so values
// like profile, region or profiles-file can live in $HOME/.aperture.yaml.
func getOptsFromCmd(cmd *cobra.Command, options []*o.Option) []*o.Option {
	opts := []*o.Option{}
	for _, opt := range options {
		switch opt.Type {
		case o.String:
			opt.Value, _ = cmd.Flags().GetString(opt.Name)
		case o.Bool:
			value, _ := cmd.Flags().GetBool(opt.Name)
			opt.Value = strconv.FormatBool(value)
		case o.Int:
			value, _ := cmd.Flags().GetInt(opt.Name)
			opt.Value = strconv.Itoa(value)
		}
		if !cmd.Flags().Changed(opt.Name) && viper.IsSet(opt.Name) {
			opt.Value = viper.GetString(opt.Name)
		}
		opts = append(opts, opt)
	}
	return opts
}

func runModule(module modules.Module, meta modules.Metadata, options []*o.Option, run modules.Run) {
	wg := new(sync.WaitGroup)
	wg.Add(1)
	go func() {
		defer wg.Done()
		for result := range run.Data {
			for _, outputProvider := range module.GetOutputProviders() {
				wg.Add(1)
				go func(outputProvider modules.OutputProvider, result modules.Result) {
					err := outputProvider.Write(result)

					if err != nil {
						logs.ConsoleLogger().Error(err.Error())
					}
					wg.Done()
				}(outputProvider, result)
			}
		}
	}()

	message.Banner()
	helpers.PrintMessage(meta.Name)
	err := module.Invoke()
	if err != nil {
		logs.ConsoleLogger().Error(err.Error())
	}
	wg.Wait()
}
