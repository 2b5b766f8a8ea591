package shamir

import (
	"context"
	"fmt"
	"runtime"

	"github.com/Davincible/fieldshare/pkg/crypto/field"
	"golang.org/x/sync/errgroup"
)

// GenerateMany splits each secret independently with the same n and k.
// Every secret gets its own polynomial; nothing is shared between tasks
// except f, whose random source must be safe for concurrent use (the
// default crypto/rand source is). Results keep the order of secrets.
func GenerateMany(ctx context.Context, secrets []field.Element, n, k int, f field.Field) ([]*ShareSet, error) {
	config := Config{Parts: n, Threshold: k}
	if err := config.Validate(f.Order()); err != nil {
		return nil, err
	}

	sets := make([]*ShareSet, len(secrets))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, secret := range secrets {
		i, secret := i, secret
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			set, err := Generate(secret, n, k, f)
			if err != nil {
				return fmt.Errorf("secret %d: %w", i, err)
			}
			sets[i] = set
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sets, nil
}
