package cmd

import (
	"fmt"
	"os"
	"os/user"

	"github.com/helviojunior/pathaudit/internal/ascii"
	"github.com/helviojunior/pathaudit/internal/tools"
	"github.com/helviojunior/pathaudit/pkg/config"
	"github.com/helviojunior/pathaudit/pkg/log"
	"github.com/helviojunior/pathaudit/pkg/runner"
	"github.com/spf13/cobra"
)

var (
	opts       = runner.NewDefaultOptions()
	cfg        = config.DefaultConfig()
	configFile = ""
)

var rootCmd = &cobra.Command{
	Use:   "pathaudit",
	Short: "pathaudit finds hard-coded network and drive paths in office documents",
	Long:  ascii.Logo(),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		usr, err := user.Current()
		if err != nil {
			return err
		}

		opts.Writer.UserPath = usr.HomeDir

		if opts.Logging.LogFile != "" {
			if opts.Logging.LogFile, err = tools.ResolveFullPath(opts.Logging.LogFile); err != nil {
				return err
			}
			if err = log.SetOutFile(opts.Logging.LogFile); err != nil {
				return err
			}
		}

		if opts.Logging.Silence {
			log.EnableSilence()
		}

		if opts.Logging.Debug && !opts.Logging.Silence {
			log.EnableDebug()
			log.Debug("debug logging enabled")
		}

		if configFile != "" {
			if configFile, err = tools.ResolveFullPath(configFile); err != nil {
				return err
			}
		}
		if cfg, err = config.Load(configFile); err != nil {
			return err
		}
		cfg.Apply(opts)
		log.Debug("configuration loaded", "file", configFile, "nas_hosts", opts.Scan.NASHosts)

		return nil
	},
}

func Execute() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SilenceErrors = true
	err := rootCmd.Execute()
	if err != nil {
		var cmd string
		c, _, cerr := rootCmd.Find(os.Args[1:])
		if cerr == nil {
			cmd = c.Name()
		}

		v := "\n"

		if cmd != "" {
			v += fmt.Sprintf("An error occured running the `%s` command\n", cmd)
		} else {
			v += "An error has occured. "
		}

		v += "The error was:\n\n" + fmt.Sprintf("```%s```", err)
		fmt.Println(ascii.Markdown(v))

		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&opts.Logging.Debug, "debug-log", "D", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&opts.Logging.Silence, "quiet", "q", false, "Silence (almost all) logging")
	rootCmd.PersistentFlags().StringVar(&opts.Logging.LogFile, "log-file", "", "Also write the log to this file")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "YAML configuration file (NAS hosts, limits, extensions)")
}
