package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	logger  *slog.Logger

	dims int
	seed int64
)

var rootCmd = &cobra.Command{
	Use:   "kdspace-bench",
	Short: "Benchmark and exercise the kdtree point/box containers",
	Long: `kdspace-bench builds a point set of random coordinates and runs
insert and nearest-neighbor benchmarks against it, for manual
verification of the kdtree engine.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if v, _ := cmd.Flags().GetBool("verbose"); v {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./kdspace-bench.yaml)")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug logging")
	rootCmd.PersistentFlags().IntVar(&dims, "dims", 3, "number of spatial dimensions")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 1, "PRNG seed for generated coordinates")

	viper.BindPFlag("dims", rootCmd.PersistentFlags().Lookup("dims"))
	viper.BindPFlag("seed", rootCmd.PersistentFlags().Lookup("seed"))

	rootCmd.AddCommand(insertCmd, nearestCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("kdspace-bench")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}
	viper.SetEnvPrefix("KDSPACE")
	viper.AutomaticEnv()
	// A missing config file is fine: KDSPACE_* variables still apply.
	_ = viper.ReadInConfig()
	if dims == 3 {
		dims = viper.GetInt("dims")
	}
	if seed == 1 {
		seed = viper.GetInt64("seed")
	}
}
