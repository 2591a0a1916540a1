package transform

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"cssobf/obfuscate"
	"cssobf/selector"
	"cssobf/state"
)

// Hash prints token for every class name on the command line.
func Hash(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	if cmd.Args().Len() == 0 {
		return errors.New("no class names have been specified")
	}
	opts, err := obfuscationOptions(env.Cfg, cmd)
	if err != nil {
		return err
	}
	name, err := obfuscate.New(opts)
	if err != nil {
		return fmt.Errorf("unable to prepare obfuscation: %w", err)
	}

	w := cmd.Root().Writer
	for _, n := range cmd.Args().Slice() {
		if _, err := fmt.Fprintf(w, "%s\t%s\n", n, name(n)); err != nil {
			return err
		}
	}
	env.Log.Debug("Names hashed", zap.Int("count", cmd.Args().Len()), zap.Stringer("hasher", opts.Hasher))
	return nil
}

// Selector prints every selector from the command line with class names
// rewritten.
func Selector(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	if cmd.Args().Len() == 0 {
		return errors.New("no selectors have been specified")
	}
	opts, err := obfuscationOptions(env.Cfg, cmd)
	if err != nil {
		return err
	}
	rewrite, err := selector.New(opts)
	if err != nil {
		return fmt.Errorf("unable to prepare obfuscation: %w", err)
	}

	w := cmd.Root().Writer
	for _, sel := range cmd.Args().Slice() {
		if _, err := fmt.Fprintln(w, rewrite(sel)); err != nil {
			return err
		}
	}
	return nil
}

// GenSeed prints newly generated random seed.
func GenSeed(_ context.Context, cmd *cli.Command) error {
	id, err := uuid.NewRandom()
	if err != nil {
		return fmt.Errorf("unable to generate seed: %w", err)
	}
	_, err = fmt.Fprintln(cmd.Root().Writer, id.String())
	return err
}
