// Package transform implements command line actions.
package transform

import (
	"fmt"
	"strings"

	cli "github.com/urfave/cli/v3"

	"cssobf/config"
	"cssobf/hasher"
	"cssobf/obfuscate"
)

// ObfuscationFlags returns fresh instances of flags overriding "obfuscation"
// configuration section.
func ObfuscationFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "seed", Aliases: []string{"s"}, Usage: "obfuscation `SEED`, takes precedence over configuration and CSSOBF_SEED"},
		&cli.StringFlag{Name: "hasher", Usage: "hash `ALGORITHM` (supported: " + strings.Join(hasher.KindNames(), ", ") + ")"},
		&cli.StringFlag{Name: "prefix", Usage: "`PREFIX` prepended to every token (configuration default is \"_\"), use --prefix \"\" for bare hex tokens"},
	}
}

// obfuscationOptions puts command line values on top of configuration.
func obfuscationOptions(cfg *config.Config, cmd *cli.Command) (obfuscate.Config, error) {
	var opts obfuscate.Config
	if cfg != nil {
		opts = cfg.Obfuscation.Options()
	}
	if cmd.IsSet("seed") {
		opts.Seed = cmd.String("seed")
	}
	if cmd.IsSet("hasher") {
		kind, err := hasher.ParseKind(cmd.String("hasher"))
		if err != nil {
			return opts, fmt.Errorf("%w: %w", obfuscate.ErrUnknownHasher, err)
		}
		opts.Hasher = kind
	}
	if cmd.IsSet("prefix") {
		opts.Prefix = cmd.String("prefix")
	}
	return opts, nil
}

// TransformFlags returns flags of the transform command.
func TransformFlags() []cli.Flag {
	return append(ObfuscationFlags(),
		&cli.StringFlag{Name: "map", Aliases: []string{"m"}, Usage: "write class name mapping to `FILE` (YAML)"},
		&cli.BoolFlag{Name: "overwrite", Aliases: []string{"ow"}, Usage: "continue even if destination exists, overwrite files"},
		&cli.StringFlag{Name: "input-cp",
			Usage: "`ENCODING` of stylesheets which are not UTF-8 (see IANA.org for character set names)"},
	)
}
