package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"lexalign-backend/config"
	"lexalign-backend/logging"
	"lexalign-backend/models"
	"lexalign-backend/service"
	"lexalign-backend/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// cliOptions holds the persistent flags
type cliOptions struct {
	configPath      string
	casesPath       string
	legislationPath string
	inputFile       string
	logLevel        string
	topK            int
}

// fileSource loads the corpus straight from local files
type fileSource struct {
	casesPath       string
	legislationPath string
	logger          *zap.Logger
}

func (s *fileSource) Name() string {
	return "file"
}

func (s *fileSource) Load(ctx context.Context) (*models.Corpus, error) {
	corpus := &models.Corpus{
		Cases:       []models.CaseRecord{},
		Legislation: []models.LegislationDocument{},
		LoadedAt:    time.Now().UTC(),
	}

	if s.casesPath != "" {
		f, err := os.Open(s.casesPath)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		cases, skipped, err := storage.DecodeCases(f, s.logger)
		if err != nil {
			return nil, err
		}
		corpus.Cases, corpus.Skipped = cases, skipped
	}

	if s.legislationPath != "" {
		f, err := os.Open(s.legislationPath)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		docs, err := storage.DecodeLegislation(f)
		if err != nil {
			return nil, err
		}
		corpus.Legislation = docs
	}
	return corpus, nil
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &cliOptions{}

	root := &cobra.Command{
		Use:           "lexalign",
		Short:         "Structural analysis of family law stories against a case and legislation corpus",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", os.Getenv("LEXALIGN_CONFIG"), "optional YAML config file")
	flags.StringVar(&opts.casesPath, "cases", "", "JSONL case corpus file (default: the configured local storage)")
	flags.StringVar(&opts.legislationPath, "legislation", "", "JSON legislation file")
	flags.StringVarP(&opts.inputFile, "file", "f", "", "read the text from a file instead of arguments (- for stdin)")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "debug, info, warn or error")

	textCmd := func(use, short string, run func(svc *service.AlignmentService, text string) any) *cobra.Command {
		return &cobra.Command{
			Use:   use + " [text...]",
			Short: short,
			RunE: func(cmd *cobra.Command, args []string) error {
				text, err := readText(cmd.InOrStdin(), opts.inputFile, args)
				if err != nil {
					return err
				}
				svc, err := newAlignmentService(opts, false)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), run(svc, text))
			},
		}
	}

	root.AddCommand(
		textCmd("factorize", "Reduce a story to its structural fingerprint", func(svc *service.AlignmentService, text string) any {
			return svc.Factorize(text)
		}),
		textCmd("gaps", "List missing evidence, most valuable first", func(svc *service.AlignmentService, text string) any {
			return svc.DetectGaps(text)
		}),
		textCmd("validate", "Check sections, assets and liabilities against the ontology", func(svc *service.AlignmentService, text string) any {
			return svc.Validate(text)
		}),
		textCmd("keywords", "List the family law terms found in a story", func(svc *service.AlignmentService, text string) any {
			return map[string][]string{"keywords": svc.Keywords(text)}
		}),
	)

	precedentsCmd := &cobra.Command{
		Use:   "precedents [text...]",
		Short: "Rank corpus cases by structural similarity and estimate the outcome",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readText(cmd.InOrStdin(), opts.inputFile, args)
			if err != nil {
				return err
			}
			svc, err := newAlignmentService(opts, true)
			if err != nil {
				return err
			}
			res, err := svc.FindPrecedents(cmd.Context(), service.PrecedentsRequest{Story: text, TopK: opts.topK})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	precedentsCmd.Flags().IntVarP(&opts.topK, "top", "k", 5, "number of precedents to return")

	alignCmd := &cobra.Command{
		Use:   "align [text...]",
		Short: "Run every analysis and print the statutory alignment",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readText(cmd.InOrStdin(), opts.inputFile, args)
			if err != nil {
				return err
			}
			svc, err := newAlignmentService(opts, true)
			if err != nil {
				return err
			}
			res, err := svc.Align(cmd.Context(), service.AlignRequest{Story: text})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}

	root.AddCommand(precedentsCmd, alignCmd)
	return root
}

// newAlignmentService wires the services. The corpus is only loaded when
// withCorpus is set; the other analyses never read it.
func newAlignmentService(opts *cliOptions, withCorpus bool) (*service.AlignmentService, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	logger, err := logging.NewStderr(config.LogConfig{Level: opts.logLevel, Format: "console"})
	if err != nil {
		return nil, err
	}

	corpusOpts := []service.CorpusServiceOption{
		service.CorpusWithPrecedentLimit(cfg.Corpus.PrecedentLimit),
		service.CorpusWithLogger(logger),
	}
	if withCorpus {
		source, err := corpusSource(opts, cfg, logger)
		if err != nil {
			return nil, err
		}
		corpusOpts = append(corpusOpts, service.CorpusWithSource(source))
	}

	return service.NewAlignmentService(
		service.AlignmentWithCorpus(service.NewCorpusService(corpusOpts...)),
		service.AlignmentWithGapPolicy(cfg.Evidence.SignificanceThreshold, cfg.Evidence.MaxGaps),
		service.AlignmentWithMaxCases(cfg.Ranking.MaxCases),
		service.AlignmentWithLogger(logger),
	), nil
}

func corpusSource(opts *cliOptions, cfg *config.Config, logger *zap.Logger) (service.Source, error) {
	if opts.casesPath != "" || opts.legislationPath != "" {
		return &fileSource{casesPath: opts.casesPath, legislationPath: opts.legislationPath, logger: logger}, nil
	}
	store, err := storage.NewStorage(cfg.Storage)
	if err != nil {
		return nil, err
	}
	return storage.NewBlobCorpusSource(store, cfg.Corpus.CasesKey, cfg.Corpus.LegislationKey, logger), nil
}

// readText takes the text from --file, stdin ("-") or the joined arguments
func readText(stdin io.Reader, inputFile string, args []string) (string, error) {
	var text string
	switch inputFile {
	case "":
		text = strings.Join(args, " ")
	case "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		text = string(data)
	default:
		data, err := os.ReadFile(inputFile)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", inputFile, err)
		}
		text = string(data)
	}

	if strings.TrimSpace(text) == "" {
		return "", errors.New("no text given: pass it as arguments, with --file, or with --file - on stdin")
	}
	return text, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
