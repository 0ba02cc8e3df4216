package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/springembed/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the layout cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	var redisAddr string
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached layouts and artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := c.clearableCache(cmd, redisAddr)
			if err != nil {
				return err
			}
			defer target.Close()

			if err := target.Clear(cmd.Context()); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			printSuccess("Cache cleared")
			if fc, ok := target.(*cache.FileCache); ok {
				printDetail("Directory: %s", fc.Dir())
			} else {
				printDetail("Redis: %s", redisAddr)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&redisAddr, "redis", "", "clear a Redis cache instead of the local one")
	return cmd
}

// clearable is a cache that can drop all of its entries.
type clearable interface {
	cache.Cache
	cache.Clearer
}

func (c *CLI) clearableCache(cmd *cobra.Command, redisAddr string) (clearable, error) {
	if redisAddr != "" {
		rc := cache.DefaultRedisConfig()
		rc.Addr = redisAddr
		rcache, err := cache.NewRedisCache(cmd.Context(), rc)
		if err != nil {
			return nil, err
		}
		return rcache, nil
	}
	dir, err := cacheDir()
	if err != nil {
		return nil, fmt.Errorf("get cache dir: %w", err)
	}
	return cache.NewFileCache(dir)
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}
