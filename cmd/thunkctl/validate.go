package main

import (
	"context"
	"fmt"
	"io"
	"time"

	gt "github.com/Keksclan/goThunker"
	"github.com/Keksclan/goThunker/cache"
	"github.com/Keksclan/goThunker/settings"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a settings file",
	Long:  `Parses the settings file, builds a stack from it and optionally pings the configured Redis cache.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ping, _ := cmd.Flags().GetBool("ping")
		timeout, _ := cmd.Flags().GetDuration("timeout")
		return runValidate(cmd.Context(), cmd.OutOrStdout(), args[0], ping, timeout)
	},
}

func init() {
	validateCmd.Flags().Bool("ping", false, "ping the Redis cache if one is configured")
	validateCmd.Flags().Duration("timeout", 2*time.Second, "timeout for --ping")
}

func runValidate(ctx context.Context, out io.Writer, path string, ping bool, timeout time.Duration) error {
	s, err := settings.Load(path)
	if err != nil {
		return err
	}

	// Building the stack catches what the document alone cannot, such as an
	// unknown log level or a cache that fails to allocate.
	base := func(_ context.Context, action any) (any, error) { return action, nil }
	st, err := gt.NewStack(func() struct{} { return struct{}{} }, base,
		gt.WithSettings(s),
		gt.WithMetrics(prometheus.NewRegistry()),
	)
	if err != nil {
		return fmt.Errorf("build stack: %w", err)
	}
	defer st.Close()

	if ping && s.Cache != nil && s.Cache.Redis != nil {
		r := s.Cache.Redis
		l2 := cache.NewL2WithPrefix(r.Addr, r.Password, r.DB, r.Prefix)
		defer func() { _ = l2.Close() }()

		if ctx == nil {
			ctx = context.Background()
		}
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		if err := l2.Ping(ctx); err != nil {
			return fmt.Errorf("redis %s: %w", r.Addr, err)
		}
		fmt.Fprintf(out, "redis %s reachable\n", r.Addr)
	}

	mode := "record"
	if s.Config.CompatibilityMode {
		mode = "compatibility"
	}
	fmt.Fprintf(out, "%s is valid (calling convention: %s, extras: %d)\n", path, mode, len(s.ExtraArguments))
	return nil
}
