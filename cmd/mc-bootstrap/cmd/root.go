package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/mc-bootstrap/internal/config"
	"github.com/oshokin/mc-bootstrap/internal/logger"
	"github.com/oshokin/mc-bootstrap/internal/service/bootstrap"
	"github.com/oshokin/mc-bootstrap/internal/version"
)

var (
	// options collects flag values; tri-state flags are applied in RunE.
	options = new(bootstrap.Options)

	// logLevel is the minimum level written to stderr.
	logLevel string

	noGUI, whitelist, onlineMode, runServer bool

	// rootCmd downloads, prepares and optionally starts a Minecraft Java server.
	rootCmd = &cobra.Command{
		Use:   "mc-bootstrap",
		Short: "Download and set up a Minecraft Java server",
		Long: "mc-bootstrap downloads server.jar, runs it once to generate eula.txt, " +
			"asks you to accept the Minecraft EULA and optionally starts the server.",
		Args: cobra.NoArgs,
		PreRunE: func(_ *cobra.Command, _ []string) error {
			level, ok := logger.ParseLogLevel(logLevel)
			if !ok {
				return fmt.Errorf("unknown log level %q", logLevel)
			}

			logger.SetLevel(level)

			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			defer logger.Sync()

			// Flags are valid from here on, and bootstrap.Run logs its own errors.
			cmd.SilenceUsage = true
			cmd.SilenceErrors = true

			options.NoGUI = changedBool(cmd, "nogui", "no-nogui", noGUI)
			options.Whitelist = changedBool(cmd, "whitelist", "no-whitelist", whitelist)
			options.OnlineMode = changedBool(cmd, "online-mode", "offline-mode", onlineMode)
			options.RunServer = changedBool(cmd, "run", "no-run", runServer)

			return bootstrap.Run(ctx, options)
		},
	}
)

// changedBool returns nil unless one of the paired flags was given.
// The negative flag wins when both are set.
func changedBool(cmd *cobra.Command, positive, negative string, value bool) *bool {
	flags := cmd.Flags()

	if flags.Changed(negative) {
		if negated, err := flags.GetBool(negative); err == nil {
			result := !negated

			return &result
		}
	}

	if flags.Changed(positive) {
		return &value
	}

	return nil
}

// Execute runs the mc-bootstrap CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	flags := rootCmd.Flags()

	flags.StringVarP(&options.ConfigPath, "config", "c", config.DefaultConfigFilename, "path to settings file")
	flags.StringVar(&options.ServerDir, "dir", "", "server directory (default \"server\")")
	flags.StringVar(&options.Version, "version", "", "Minecraft version to download, e.g. 1.21.1")
	flags.BoolVar(&options.Latest, "latest", false, "download the latest release")
	flags.StringVar(&options.DownloadURL, "download-url", "", "download server.jar from this URL instead of the version manifest")
	flags.StringVar(&options.JavaPath, "java", "", "java executable (default: $JAVA_HOME/bin/java, then PATH)")
	flags.StringVar(&options.MinHeap, "xms", "", "initial heap size (default 2G)")
	flags.StringVar(&options.MaxHeap, "xmx", "", "maximum heap size (default 4G)")
	flags.BoolVar(&options.AgreeEULA, "agree-eula", false, "accept the Minecraft EULA without prompting")

	flags.BoolVar(&noGUI, "nogui", true, "start the server without its GUI")
	flags.Bool("no-nogui", false, "start the server with its GUI")
	flags.BoolVar(&whitelist, "whitelist", false, "enable the whitelist in server.properties")
	flags.Bool("no-whitelist", false, "disable the whitelist in server.properties")
	flags.BoolVar(&onlineMode, "online-mode", false, "enable online mode in server.properties")
	flags.Bool("offline-mode", false, "disable online mode in server.properties")
	flags.BoolVar(&runServer, "run", false, "start the server after setup without asking")
	flags.Bool("no-run", false, "do not start the server after setup")

	rootCmd.MarkFlagsMutuallyExclusive("latest", "version")
	rootCmd.MarkFlagsMutuallyExclusive("nogui", "no-nogui")
	rootCmd.MarkFlagsMutuallyExclusive("whitelist", "no-whitelist")
	rootCmd.MarkFlagsMutuallyExclusive("online-mode", "offline-mode")
	rootCmd.MarkFlagsMutuallyExclusive("run", "no-run")

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
}
