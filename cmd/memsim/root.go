package main

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

var flags struct {
	maxCycles    uint64
	frames       uint64
	lineInterval int
	traceName    string
	monitor      bool
	monitorPort  int
}

var rootCmd = &cobra.Command{
	Use:   "memsim",
	Short: "Simulate the PocketRiscV SDRAM memory subsystem",
	Long: `memsim models the board's memory subsystem cycle by cycle: the
SDRAM controller with its refresh scheduler, the three-source arbiter, the
scanout fetcher, and the control registers. The default run replays the
firmware sequence: wait for SDRAM readiness, fill both framebuffers, run the
memory test, then scan frames while swapping buffers.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		return runDemo()
	},
}

// Execute runs the root command.
func Execute() {
	// A .env file can override the built-in defaults; flags win over both.
	_ = godotenv.Load()

	rootCmd.Flags().Uint64Var(&flags.maxCycles, "cycles",
		envUint64("MEMSIM_CYCLES", 4000000),
		"maximum controller cycles to simulate")
	rootCmd.Flags().Uint64Var(&flags.frames, "frames",
		envUint64("MEMSIM_FRAMES", 3),
		"number of display frames to scan out")
	rootCmd.Flags().IntVar(&flags.lineInterval, "line-interval",
		int(envUint64("MEMSIM_LINE_INTERVAL", 200)),
		"scanout ticks between line fetches")
	rootCmd.Flags().StringVar(&flags.traceName, "trace",
		os.Getenv("MEMSIM_TRACE"),
		"trace database name, without the .sqlite3 suffix")
	rootCmd.Flags().BoolVar(&flags.monitor, "monitor",
		os.Getenv("MEMSIM_MONITOR") == "1",
		"start the web monitoring server")
	rootCmd.Flags().IntVar(&flags.monitorPort, "monitor-port",
		int(envUint64("MEMSIM_MONITOR_PORT", 0)),
		"monitoring server port, 0 picks one")

	if err := rootCmd.Execute(); err != nil {
		log.Println(err)
		atexit.Exit(1)
	}

	atexit.Exit(0)
}

func envUint64(key string, def uint64) uint64 {
	s, ok := os.LookupEnv(key)
	if !ok {
		return def
	}

	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		log.Printf("ignoring %s=%q: %v", key, s, err)
		return def
	}

	return v
}
