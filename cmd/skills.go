package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-analyzer/internal/document"
	"github.com/spigell/resume-analyzer/internal/logger"
	"github.com/spigell/resume-analyzer/internal/skills"
	"github.com/spigell/resume-analyzer/internal/storage"
)

var skillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "List the skill vocabulary, or the skills found in a document",
	Run: func(cmd *cobra.Command, _ []string) {
		listSkills(cmd)
	},
}

func init() {
	rootCmd.AddCommand(skillsCmd)

	skillsCmd.Flags().String("file", "", "a document (path or s3://bucket/key) to extract skills from")
}

func listSkills(cmd *cobra.Command) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	dict, err := config.Dictionary()
	if err != nil {
		logger.Fatal("building skill dictionary", zap.Error(err))
	}

	file := cmd.Flag("file").Value.String()
	if file == "" {
		if err := writeVocabulary(os.Stdout, dict, dict.Skills()); err != nil {
			logger.Fatal("printing skills", zap.Error(err))
		}
		return
	}

	data, err := storage.NewLoader(config.Storage, logger).Load(context.Background(), file)
	if err != nil {
		logger.Fatal("loading document", zap.Error(err), zap.String("document", file))
	}

	text, err := document.Extract(file, data)
	if err != nil {
		logger.Fatal("extracting document text", zap.Error(err), zap.String("document", file))
	}

	found := dict.Extract(text).Sorted()
	logger.Info("skills found", zap.Int("count", len(found)), zap.String("document", file))

	if err := writeVocabulary(os.Stdout, dict, found); err != nil {
		logger.Fatal("printing skills", zap.Error(err))
	}
}

// writeVocabulary prints one "skill  weight" row per skill.
func writeVocabulary(w io.Writer, dict *skills.Dictionary, names []string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SKILL\tWEIGHT")
	for _, name := range names {
		fmt.Fprintf(tw, "%s\t%s\n", name, strconv.FormatFloat(dict.Weight(name), 'f', -1, 64))
	}
	return tw.Flush()
}
