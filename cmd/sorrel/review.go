package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Ramsey-B/sorrel/pkg/redis"
	"github.com/Ramsey-B/sorrel/pkg/review"
)

func reviewCmd(envFile *string) *cobra.Command {
	var count int64

	cmd := &cobra.Command{
		Use:   "review",
		Short: "Print the newest items of the Redis review stream",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*envFile)
			if err != nil {
				return err
			}
			if !a.cfg.RedisEnabled {
				return fmt.Errorf("the review stream needs REDIS_ENABLED=true")
			}

			ctx := cmd.Context()
			client, err := redis.NewClient(ctx, a.redisConfig(), a.logger)
			if err != nil {
				return err
			}
			defer client.Close()

			items, err := review.NewStreamSink(client, a.cfg.ReviewStream, a.cfg.ReviewStreamMaxLen, a.logger).List(ctx, count)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(items)
		},
	}

	cmd.Flags().Int64VarP(&count, "count", "n", 20, "number of items")
	return cmd
}
