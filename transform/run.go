package transform

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/ianaindex"

	"cssobf/archive"
	"cssobf/obfuscate"
	"cssobf/state"
)

var errNotRecognized = errors.New("input was not recognized as stylesheet, markup or archive")

// Run rewrites class names in stylesheets and markup of a single file,
// directory tree or EPUB/zip archive.
func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("transform")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}
	if src, err = filepath.Abs(src); err != nil {
		return err
	}

	dst := cmd.Args().Get(1)
	if len(dst) == 0 {
		if dst, err = os.Getwd(); err != nil {
			return fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return err
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	cfg, err := obfuscationOptions(env.Cfg, cmd)
	if err != nil {
		return err
	}

	env.Overwrite = cmd.Bool("overwrite")

	// legacy stylesheets may come in archaic code pages
	cp := cmd.String("input-cp")
	if len(cp) == 0 && env.Cfg != nil {
		cp = env.Cfg.Stylesheets.InputEncoding
	}
	if len(cp) > 0 {
		env.CodePage, err = ianaindex.IANA.Encoding(cp)
		if err != nil || env.CodePage == nil {
			log.Warn("Unknown character set specification. Ignoring...", zap.String("charset", cp), zap.Error(err))
			env.CodePage = nil
		} else {
			n, _ := ianaindex.IANA.Name(env.CodePage)
			log.Debug("Converting stylesheets to UTF-8", zap.String("charset", n))
		}
	}

	mapFile := cmd.String("map")
	if len(mapFile) > 0 {
		if mapFile, err = filepath.Abs(mapFile); err != nil {
			return err
		}
		env.Names = obfuscate.NewRecorder()
	}

	opts := engineOptions{
		codePage:  env.CodePage,
		overwrite: env.Overwrite,
		names:     env.Names,
	}
	if env.Cfg != nil {
		opts.skipAttr = env.Cfg.Markup.SkipAttribute
		opts.cssExt = env.Cfg.Stylesheets.Extensions
		opts.markupExt = env.Cfg.Markup.Extensions
	}
	e, err := newEngine(cfg, opts, log)
	if err != nil {
		return fmt.Errorf("unable to prepare obfuscation: %w", err)
	}

	if fi, err := os.Stat(src); err == nil && fi.Mode().IsRegular() {
		if err := env.Rpt.StoreCopy("source/"+filepath.Base(src), src); err != nil {
			log.Warn("Unable to store source in debug report", zap.Error(err))
		}
	}

	log.Info("Processing starting", zap.String("source", src), zap.String("destination", dst), zap.Stringer("hasher", cfg.Hasher))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	if err := e.process(ctx, src, dst); err != nil {
		return err
	}
	if env.Names != nil {
		if err := writeMapping(env.Names, mapFile, env.Overwrite); err != nil {
			return err
		}
		env.Rpt.Store("mapping.yaml", mapFile)
		log.Info("Class name mapping written", zap.String("file", mapFile), zap.Int("names", env.Names.Len()))
	}
	return nil
}

// process determines input type and processes it accordingly. dst is always
// a directory.
func (e *engine) process(ctx context.Context, src, dst string) error {
	fi, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("input source was not found (%s): %w", src, err)
	}
	switch {
	case fi.IsDir():
		return e.processDir(ctx, src, dst)
	case fi.Mode().IsRegular():
		target := filepath.Join(dst, filepath.Base(src))
		ok, err := e.processFile(ctx, src, target)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w (%s)", errNotRecognized, src)
		}
		return nil
	default:
		return fmt.Errorf("unexpected path mode for (%s)", src)
	}
}

// processDir mirrors directory tree under dst. Files which are not
// stylesheets, markup or archives are copied as is. Failures are collected,
// so a single broken file does not stop processing.
func (e *engine) processDir(ctx context.Context, dir, dst string) error {
	if dst != dir && strings.HasPrefix(dst, dir+string(filepath.Separator)) {
		return fmt.Errorf("destination (%s) is inside of source directory (%s)", dst, dir)
	}

	var errs error
	count := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err != nil {
			e.log.Warn("Skipping path", zap.String("path", path), zap.Error(err))
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		ok, err := e.processFile(ctx, path, target)
		if err == nil && !ok {
			err = e.copyFile(path, target)
		}
		if err != nil {
			e.log.Error("Unable to process file", zap.String("file", path), zap.Error(err))
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", rel, err))
			return nil
		}
		if ok {
			count++
		}
		return nil
	})
	if err != nil {
		return err
	}
	if count == 0 {
		e.log.Debug("Nothing to process", zap.String("dir", dir))
	}
	return errs
}

// processFile rewrites single file into dst. Returns false when file kind
// was not recognized and nothing has been done.
func (e *engine) processFile(ctx context.Context, src, dst string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	kind := e.kind(src)
	if kind == kindOther {
		arc, err := isArchiveFile(src)
		if err != nil {
			return false, fmt.Errorf("unable to check archive type: %w", err)
		}
		if !arc {
			return false, nil
		}
	}

	if err := e.checkDestination(dst); err != nil {
		return false, err
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return false, err
	}

	if kind == kindOther {
		n, err := archive.Transform(src, dst, func(name string) bool {
			return e.kind(name) != kindOther
		}, e.rewrite)
		if err != nil {
			return false, err
		}
		e.log.Info("Archive processed", zap.String("from", src), zap.String("to", dst), zap.Int("entries", n))
		return true, nil
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return false, err
	}
	if data, err = e.rewrite(filepath.Base(src), data); err != nil {
		return false, err
	}
	if err := os.WriteFile(dst, data, 0644); err != nil {
		return false, fmt.Errorf("unable to write file (%s): %w", dst, err)
	}
	e.log.Debug("File processed", zap.String("from", src), zap.String("to", dst))
	return true, nil
}

func (e *engine) checkDestination(dst string) error {
	if _, err := os.Stat(dst); err == nil && !e.overwrite {
		return fmt.Errorf("output file already exists (%s), use --overwrite", dst)
	}
	return nil
}

// copyFile is used for files carried over into mirrored directory tree.
func (e *engine) copyFile(src, dst string) error {
	if src == dst {
		return nil
	}
	if err := e.checkDestination(dst); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to copy file contents: %w", err)
	}
	return out.Close()
}

func writeMapping(names *obfuscate.Recorder, path string, overwrite bool) error {
	if _, err := os.Stat(path); err == nil && !overwrite {
		return fmt.Errorf("mapping file already exists (%s), use --overwrite", path)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create mapping file: %w", err)
	}
	if _, err := names.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("unable to write mapping file: %w", err)
	}
	return f.Close()
}
