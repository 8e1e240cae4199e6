package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/refpersys/rpsfront/fpindex"
)

func newHashCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hash [strings...]",
		Short: "Print the fingerprint of each string and report collisions",
		Long: `Print the RefPerSys fingerprint of each argument, or of each line read
from standard input when no argument is given. Strings sharing a fingerprint
are reported as collisions. With --redis the index is shared through Redis.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			index, closeIndex, err := a.openIndex(cmd.Context())
			if err != nil {
				return err
			}
			defer closeIndex()

			if len(args) > 0 {
				return hashAll(cmd.Context(), cmd.OutOrStdout(), index, args)
			}
			var lines []string
			sc := bufio.NewScanner(cmd.InOrStdin())
			for sc.Scan() {
				lines = append(lines, strings.TrimSuffix(sc.Text(), "\r"))
			}
			if err := sc.Err(); err != nil {
				return fmt.Errorf("read strings: %w", err)
			}
			return hashAll(cmd.Context(), cmd.OutOrStdout(), index, lines)
		},
	}
	cmd.Flags().String("redis", "", "share the fingerprint index through the Redis server at this address")
	return cmd
}

// openIndex returns the fingerprint index selected by the settings.
func (a *app) openIndex(ctx context.Context) (*fpindex.Index, func(), error) {
	addr := a.settings.Index.RedisAddr
	if addr == "" {
		return fpindex.New(nil), func() {}, nil
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("connect to redis %s: %w", addr, err)
	}
	log.Debug().Str("addr", addr).Msg("using redis fingerprint index")
	return fpindex.New(fpindex.NewRedisStore(client, "")), func() { _ = client.Close() }, nil
}

// hashAll adds every string to index. Strings that cannot be hashed are
// reported and skipped; they make the command fail at the end.
func hashAll(ctx context.Context, out io.Writer, index *fpindex.Index, texts []string) error {
	failed := 0
	collisions := 0
	for _, text := range texts {
		e, err := index.Add(ctx, text)
		if err != nil {
			log.Error().Str("text", text).Err(err).Msg("cannot hash string")
			failed++
			continue
		}
		fmt.Fprintf(out, "%s\t%q\n", e.Fingerprint, e.Text)
		if e.Collision {
			collisions++
			fmt.Fprintf(out, "collision: %q and %q share %s\n", e.Prior, e.Text, e.Fingerprint)
		}
	}
	if collisions > 0 {
		log.Warn().Int("collisions", collisions).Msg("fingerprint collisions found")
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d strings could not be hashed", failed, len(texts))
	}
	return nil
}
