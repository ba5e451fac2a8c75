package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-analyzer/internal/analysis"
	"github.com/spigell/resume-analyzer/internal/document"
	"github.com/spigell/resume-analyzer/internal/filtering"
	"github.com/spigell/resume-analyzer/internal/jobpost"
	"github.com/spigell/resume-analyzer/internal/logger"
	"github.com/spigell/resume-analyzer/internal/report"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze RESUME [RESUME...]",
	Short: "Score resumes against a job description and print improvement suggestions",
	Long: `Each RESUME is a local path or an s3://bucket/key location of a PDF, DOCX or
plain text document. With several resumes they are analysed concurrently and the
shortlist filters are applied to the results.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		analyze(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().String("job", "", "job description text or an http(s) URL of the job posting")
	analyzeCmd.Flags().String("job-file", "", "file with the job description")
	analyzeCmd.Flags().StringP("format", "f", "", "report format: text, markdown or json")
	analyzeCmd.Flags().StringP("output", "o", "", "write the report to a file instead of stdout")
	analyzeCmd.Flags().IntP("concurrency", "c", analysis.DefaultConcurrency, "resumes analysed at the same time")
	analyzeCmd.Flags().Float64("min-score", 0, "drop resumes scoring below this value (batch only)")
	analyzeCmd.Flags().StringSlice("require-skill", nil, "drop resumes missing this skill (batch only, repeatable)")
	analyzeCmd.Flags().Int("top", 0, "keep only the best N resumes (batch only)")

	viper.BindPFlag("report.format", analyzeCmd.Flags().Lookup("format"))
	viper.BindPFlag("shortlist.min-score", analyzeCmd.Flags().Lookup("min-score"))
	viper.BindPFlag("shortlist.required-skills", analyzeCmd.Flags().Lookup("require-skill"))
	viper.BindPFlag("shortlist.top", analyzeCmd.Flags().Lookup("top"))
}

func analyze(cmd *cobra.Command, locations []string) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	format, err := config.Format()
	if err != nil {
		logger.Fatal("choosing report format", zap.Error(err))
	}

	svc, err := buildServices(ctx, config, logger)
	if err != nil {
		logger.Fatal("preparing the analyzer", zap.Error(err))
	}

	job, err := jobDescription(ctx, cmd, svc.fetcher)
	if err != nil {
		logger.Fatal("getting the job description", zap.Error(err))
	}
	warnEmptyJob(job, logger)

	inputs := loadInputs(ctx, svc, locations, job, logger)
	if len(inputs) == 0 {
		logger.Fatal("exiting", zap.String("reason", "no resume could be loaded"))
	}

	out, closeOut, err := openOutput(cmd.Flag("output").Value.String())
	if err != nil {
		logger.Fatal("opening report output", zap.Error(err))
	}
	defer closeOut()

	if len(locations) == 1 {
		result, err := svc.analyzer.Analyze(ctx, inputs[0])
		if err != nil {
			fields := []zap.Field{zap.Error(err), zap.String("resume", inputs[0].Source)}
			if errors.Is(err, analysis.ErrEmptyResume) {
				fields = append(fields, zap.String("hint", "supported formats are PDF, DOCX and plain text"))
			}
			logger.Fatal("analysing resume", fields...)
		}
		if err := report.Render(out, format, result); err != nil {
			logger.Fatal("rendering report", zap.Error(err))
		}
		return
	}

	concurrency, _ := cmd.Flags().GetInt("concurrency")
	results, err := analyzeBatch(ctx, svc.analyzer, inputs, concurrency, config.Shortlist, logger)
	if err != nil {
		logger.Fatal("analysing resumes", zap.Error(err))
	}

	if len(results) == 0 {
		logger.Info("exiting", zap.String("reason", "no resumes left after filters"))
		return
	}

	if err := report.RenderBatch(out, format, results); err != nil {
		logger.Fatal("rendering report", zap.Error(err))
	}
}

// analyzeBatch analyses inputs concurrently and shortlists the successful results.
func analyzeBatch(ctx context.Context, analyzer *analysis.Analyzer, inputs []analysis.Input, concurrency int, opts filtering.Options, logger *zap.Logger) ([]*analysis.Result, error) {
	outcomes, err := analyzer.AnalyzeBatch(ctx, inputs, concurrency)
	if err != nil {
		return nil, err
	}

	results := make([]*analysis.Result, 0, len(outcomes))
	for _, o := range outcomes {
		if o.Err != nil {
			logger.Error("skipping resume", zap.String("resume", o.Input.Source), zap.Error(o.Err))
			continue
		}
		results = append(results, o.Result)
	}

	steps := filtering.Steps(opts)
	for _, status := range filtering.Describe(steps) {
		logger.Debug("shortlist filter",
			zap.String("name", status.Name),
			zap.Bool("enabled", status.Enabled),
			zap.String("reason", status.Reason),
			zap.Any("details", status.Details),
		)
	}

	return filtering.Run(ctx, steps, results, logger)
}

// loadInputs reads and extracts every resume. Documents that cannot be loaded are skipped;
// unreadable ones are kept with empty text so the analysis reports them.
func loadInputs(ctx context.Context, svc *services, locations []string, job string, logger *zap.Logger) []analysis.Input {
	inputs := make([]analysis.Input, 0, len(locations))
	for _, location := range locations {
		data, err := svc.loader.Load(ctx, location)
		if err != nil {
			logger.Error("loading resume", zap.String("resume", location), zap.Error(err))
			continue
		}

		inputs = append(inputs, analysis.Input{
			Source:         location,
			ResumeText:     document.ExtractOrEmpty(location, data, logger),
			JobDescription: job,
		})
	}
	return inputs
}

// warnEmptyJob explains the score of a blank job: no semantic part, and an
// empty skill set counts as fully matched.
func warnEmptyJob(job string, logger *zap.Logger) {
	if job != "" {
		return
	}
	logger.Warn("job description is empty, the match score has no semantic part and reflects skills only",
		zap.String("hint", "pass --job or --job-file"),
	)
}

type urlFetcher interface {
	Fetch(ctx context.Context, rawURL string) (string, error)
}

// jobDescription takes --job-file over --job; a --job URL is fetched.
func jobDescription(ctx context.Context, cmd *cobra.Command, fetcher urlFetcher) (string, error) {
	if file := cmd.Flag("job-file").Value.String(); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading job description: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	}

	job := strings.TrimSpace(cmd.Flag("job").Value.String())
	if jobpost.IsURL(job) {
		return fetcher.Fetch(ctx, job)
	}
	return job, nil
}

func openOutput(path string) (io.Writer, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}
