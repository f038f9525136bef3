package main

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vango-dev/rangedom/internal/demo"
	"github.com/vango-dev/rangedom/internal/errors"
	"github.com/vango-dev/rangedom/pkg/snapshot"
)

func snapshotCmd(flags *globalFlags) *cobra.Command {
	var (
		name     string
		bucket   string
		prefix   string
		region   string
		endpoint string
		timeout  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "snapshot <demo>",
		Short: "Render a demo and upload its HTML to S3",
		Long: `Render a demo into a fresh document and store the HTML in S3 under
<prefix><name>.html. Credentials come from the standard AWS environment
variables.

Examples:
  rangedom snapshot counter --bucket my-bucket
  rangedom snapshot todo --bucket ui --prefix nightly/ --endpoint http://localhost:9000`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: demo.Names(),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := flags.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if bucket != "" {
				cfg.Snapshot.Bucket = bucket
			}
			if cmd.Flags().Changed("prefix") {
				cfg.Snapshot.Prefix = prefix
			}
			if cfg.Snapshot.Bucket == "" {
				return errors.New("E101").
					WithDetail("snapshot.bucket is not set").
					WithSuggestion("Pass --bucket or set snapshot.bucket in rangedom.json")
			}
			if name == "" {
				name = args[0]
			}
			if region == "" {
				region = os.Getenv("AWS_REGION")
			}

			tree, ok := demo.Lookup(args[0])
			if !ok {
				return errors.New("E001").
					WithComponent(args[0]).
					WithSuggestion("Available demos: " + strings.Join(demo.Names(), ", "))
			}

			store := snapshot.NewS3Store(snapshot.NewS3Client(region, endpoint), cfg.Snapshot.Bucket, cfg.Snapshot.Prefix)

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			key, err := snapshot.Take(ctx, store, name, tree, engineOptions(cfg, logger)...)
			if err != nil {
				return err
			}
			success(cmd.ErrOrStderr(), "Stored s3://%s/%s", cfg.Snapshot.Bucket, key)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Snapshot name (default: the demo name)")
	cmd.Flags().StringVarP(&bucket, "bucket", "b", "", "S3 bucket (default from config)")
	cmd.Flags().StringVar(&prefix, "prefix", "", "Key prefix (default from config)")
	cmd.Flags().StringVar(&region, "region", "", "AWS region (default: $AWS_REGION)")
	cmd.Flags().StringVar(&endpoint, "endpoint", "", "S3-compatible endpoint URL")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Upload timeout")

	return cmd
}
