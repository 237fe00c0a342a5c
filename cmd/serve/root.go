package serve

import (
	"os"
	"os/signal"
	"strings"
	"syscall"

	cmdUtil "github.com/SherlockGy/linekv/cmd/util"
	"github.com/SherlockGy/linekv/lib/logging"
	"github.com/SherlockGy/linekv/server"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	serveCmdConfig = server.DefaultConfig()
	ServeCmd       = &cobra.Command{
		Use:     "serve",
		Short:   "Start the linekv server",
		Long:    `Start the linekv server with the specified configuration. The configuration can be set via command line flags or environment variables. The format of the environment variables is LINEKV_<flag> (e.g. LINEKV_PORT=7878)`,
		PreRunE: processConfig,
		RunE:    run,
	}
)

func init() {
	// initialize viper
	cobra.OnInitialize(initConfig)

	// add flags
	key := "host"
	ServeCmd.PersistentFlags().String(key, "127.0.0.1", cmdUtil.WrapString("The address the server will listen on"))

	key = "port"
	ServeCmd.PersistentFlags().Int(key, 7878, cmdUtil.WrapString("The port the server will listen on (the typed protocol conventionally uses 6379)"))

	key = "workers"
	ServeCmd.PersistentFlags().Int(key, 4, cmdUtil.WrapString("Size of the worker pool serving connections. Must be at least 1. Only used in pool mode"))

	key = "mode"
	ServeCmd.PersistentFlags().String(key, server.ModePool, cmdUtil.WrapString("Scheduling mode: pool (bounded worker pool) or spawn (one goroutine per connection)"))

	key = "store"
	ServeCmd.PersistentFlags().String(key, server.StoreLock, cmdUtil.WrapString("Store implementation: lock (RWMutex-guarded map) or shard (sharded concurrent map)"))

	key = "timeout"
	ServeCmd.PersistentFlags().Int64(key, 0, cmdUtil.WrapString("Per-connection read/write deadline in seconds, 0 disables deadlines"))

	key = "metrics-addr"
	ServeCmd.PersistentFlags().String(key, "", cmdUtil.WrapString("Optional address for the Prometheus /metrics endpoint (e.g. 127.0.0.1:9100)"))

	key = "log-level"
	ServeCmd.PersistentFlags().String(key, "info", cmdUtil.WrapString("LogLevel is the level at which logs will be output (debug, info, warn, error)"))

	key = "log-file"
	ServeCmd.PersistentFlags().String(key, "", cmdUtil.WrapString("Optional rolling log file. Console logging stays enabled"))
}

// processConfig reads the configuration from the command line flags and
// environment variables and converts them to the server configuration
func processConfig(cmd *cobra.Command, _ []string) error {
	// bind the flags to viper
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	serveCmdConfig.Host = viper.GetString("host")
	serveCmdConfig.Port = viper.GetInt("port")
	serveCmdConfig.Workers = viper.GetInt("workers")
	serveCmdConfig.Mode = viper.GetString("mode")
	serveCmdConfig.StoreImpl = viper.GetString("store")
	serveCmdConfig.Proto = viper.GetString("proto")
	serveCmdConfig.TimeoutSecond = viper.GetInt64("timeout")
	serveCmdConfig.MetricsAddr = viper.GetString("metrics-addr")
	serveCmdConfig.LogLevel = viper.GetString("log-level")
	serveCmdConfig.LogFile = viper.GetString("log-file")

	return serveCmdConfig.Validate()
}

// run starts the linekv server and blocks until shutdown
func run(_ *cobra.Command, _ []string) error {
	logCfg := logging.DefaultConfig()
	logCfg.Level = serveCmdConfig.LogLevel
	logCfg.File = serveCmdConfig.LogFile
	if err := logging.Init(logCfg); err != nil {
		return err
	}

	s, err := server.New(serveCmdConfig)
	if err != nil {
		return err
	}

	logging.L().Infof("starting linekv server%s", serveCmdConfig.String())

	// stop accepting and drain sessions on SIGINT/SIGTERM
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.L().Infof("received signal %s", sig)
		s.Shutdown()
	}()

	return s.ListenAndServe()
}

// initConfig reads in the .env files and ENV variables if set.
func initConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("linekv")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}
