// Command predict4all-train is the external training entry point (spec.md
// §6): it walks a corpus directory through the C8 pipeline and writes a
// word-dictionary file and an n-gram-dictionary file. Flag-based rather
// than cobra-based, per DESIGN.md's "no CLI framework" resolution — the
// teacher exposes a cgo binding/wrapper.go as its external surface, not a
// CLI, and no sibling example repo in this pack pulls in a CLI framework
// for a single subcommand.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/steosofficial/predict4all/config"
	"github.com/steosofficial/predict4all/dict"
	"github.com/steosofficial/predict4all/logging"
	"github.com/steosofficial/predict4all/training"
)

// fileSource implements training.DocumentSource by opening each discovered
// path directly off disk.
type fileSource struct{}

func (fileSource) Open(path string) (io.ReadCloser, error) { return os.Open(path) }

// walkCorpus returns every regular file under root, sorted for a
// deterministic document order (spec.md §5 notes emission order is
// irrelevant to the final counts, but a stable listing keeps progress
// bars and logs reproducible between runs).
func walkCorpus(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	return paths, err
}

func run() error {
	fs := flag.NewFlagSet("predict4all-train", flag.ContinueOnError)
	language := fs.String("language", "fr", "corpus language (presets are French-only at this point)")
	wordDictPath := fs.String("word-dictionary", "", "output path for the trained word dictionary (required)")
	ngramDictPath := fs.String("ngram-dictionary", "", "output path for the trained n-gram dictionary (required)")
	configPath := fs.String("config", "", "path to a YAML/JSON training config; defaults applied when empty")
	overwrite := fs.Bool("overwrite", false, "overwrite existing output files")

	if err := fs.Parse(os.Args[1:]); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("predict4all-train: missing required <input> corpus directory argument")
	}
	input := fs.Arg(0)

	if !strings.EqualFold(*language, "fr") {
		return fmt.Errorf("predict4all-train: unsupported -language %q (only the French preset is wired)", *language)
	}
	if *wordDictPath == "" || *ngramDictPath == "" {
		return fmt.Errorf("predict4all-train: -word-dictionary and -ngram-dictionary are required")
	}
	if !*overwrite {
		for _, p := range []string{*wordDictPath, *ngramDictPath} {
			if _, err := os.Stat(p); err == nil {
				return fmt.Errorf("predict4all-train: %s already exists; pass -overwrite to replace it", p)
			}
		}
	}

	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return err
	}

	logger, err := logging.New(logging.Config(cfg.Logging))
	if err != nil {
		return err
	}

	paths, err := walkCorpus(input)
	if err != nil {
		return fmt.Errorf("predict4all-train: walking %q: %w", input, err)
	}
	if len(paths) == 0 {
		return fmt.Errorf("predict4all-train: no documents found under %q", input)
	}
	logger.Info("starting training run",
		logging.String("input", input),
		logging.Int("documents", len(paths)),
		logging.Int("ngramOrder", cfg.Training.NGramOrder),
	)

	pipeline := training.NewPipeline(cfg.Training, fileSource{}, training.WithLogger(logger))
	result, err := pipeline.Run(paths)
	if err != nil {
		return fmt.Errorf("predict4all-train: training failed: %w", err)
	}
	for _, docErr := range result.Errors {
		logger.Warn("document skipped", logging.String("path", docErr.Path), logging.Err(docErr.Err))
	}

	if err := writeDictionary(*wordDictPath, result.Dictionary); err != nil {
		return fmt.Errorf("predict4all-train: writing word dictionary: %w", err)
	}
	if err := writeNGrams(*ngramDictPath, result.NGrams); err != nil {
		return fmt.Errorf("predict4all-train: writing n-gram dictionary: %w", err)
	}

	logger.Info("training run complete",
		logging.String("wordDictionary", *wordDictPath),
		logging.String("ngramDictionary", *ngramDictPath),
		logging.Int("skippedDocuments", len(result.Errors)),
	)
	return nil
}

func writeDictionary(path string, d *dict.Dictionary) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return d.Save(f)
}

func writeNGrams(path string, d interface{ Save(io.Writer, bool) error }) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return d.Save(f, true)
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
