//
// Tencent is pleased to support the open source community by making rageval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// rageval is licensed under the Apache License Version 2.0.
//
//

// Command rageval evaluates a RAG pipeline against a dataset and reports
// judge-model quality metrics.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	rageval "trpc.group/trpc-go/rageval"
	"trpc.group/trpc-go/rageval/evalresult/local"
	"trpc.group/trpc-go/rageval/evalset"
	"trpc.group/trpc-go/rageval/judge"
	"trpc.group/trpc-go/rageval/log"
	"trpc.group/trpc-go/rageval/pipeline"
	"trpc.group/trpc-go/rageval/report"
)

var (
	flagDataset     string
	flagOutput      string
	flagConfig      string
	flagMetrics     string
	flagMaxChunks   int
	flagConcurrency int
	flagNarrative   bool
	flagVerbose     bool
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "rageval --dataset <path> [flags]",
		Short:         "Evaluate a RAG pipeline against a dataset",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}
	cmd.Flags().StringVar(&flagDataset, "dataset", "", "path to the dataset file (required)")
	cmd.Flags().StringVar(&flagOutput, "output", "", "path for the JSON report (default derived from dataset name)")
	cmd.Flags().StringVar(&flagConfig, "config", "", "path to the YAML model config")
	cmd.Flags().StringVar(&flagMetrics, "metrics", "", "comma-separated metric subset (default all)")
	cmd.Flags().IntVar(&flagMaxChunks, "max-chunks", rageval.DefaultMaxChunks, "maximum retrieved chunks per item")
	cmd.Flags().IntVar(&flagConcurrency, "concurrency", rageval.DefaultPoolSize, "scoring fan-out pool size")
	cmd.Flags().BoolVar(&flagNarrative, "narrative", false, "also write a markdown narrative report")
	cmd.Flags().BoolVar(&flagVerbose, "verbose", false, "enable debug logging")
	cmd.MarkFlagRequired("dataset")
	return cmd
}

func run() error {
	if flagVerbose {
		log.SetLevel(log.LevelDebug)
	}
	cfg, err := loadConfig(flagConfig)
	if err != nil {
		return err
	}
	dataset, err := evalset.Load(flagDataset)
	if err != nil {
		return err
	}
	stats := evalset.GetStats(dataset)
	log.Infof("loaded dataset %s: %d items, %d with history, %d with ground-truth chunks",
		dataset.Name, stats.TotalItems, stats.WithConversationHistory, stats.WithGroundTruthChunks)

	evaluator, err := buildEvaluator(cfg)
	if err != nil {
		return err
	}
	defer evaluator.Close()

	result, err := evaluator.Evaluate(context.Background(), dataset)
	if err != nil {
		return err
	}
	fmt.Print(report.FormatSummary(result))

	store := local.New()
	outputPath := flagOutput
	if outputPath == "" {
		outputPath = fmt.Sprintf("%s_report.json", dataset.Name)
	}
	if err := store.SaveTo(context.Background(), result, outputPath); err != nil {
		return err
	}
	log.Infof("report written to %s", outputPath)

	if flagNarrative {
		narrativePath := strings.TrimSuffix(outputPath, ".json") + ".md"
		narrative := report.FormatNarrative(result, report.DefaultNeedsImprovementLimit)
		if err := os.WriteFile(narrativePath, []byte(narrative), 0o644); err != nil {
			return fmt.Errorf("write narrative report %s: %w", narrativePath, err)
		}
		log.Infof("narrative report written to %s", narrativePath)
	}
	return nil
}

// buildEvaluator wires the pipeline collaborators from config and flags.
func buildEvaluator(cfg *config) (*rageval.Evaluator, error) {
	clientOpts := []pipeline.OpenAIOption{}
	judgeOpts := []judge.OpenAIOption{}
	if cfg.APIKey != "" {
		clientOpts = append(clientOpts, pipeline.WithAPIKey(cfg.APIKey))
		judgeOpts = append(judgeOpts, judge.WithAPIKey(cfg.APIKey))
	}
	if cfg.BaseURL != "" {
		clientOpts = append(clientOpts, pipeline.WithBaseURL(cfg.BaseURL))
		judgeOpts = append(judgeOpts, judge.WithBaseURL(cfg.BaseURL))
	}
	var retriever pipeline.Retriever
	if cfg.CorpusPath != "" {
		static, err := pipeline.LoadStaticRetriever(cfg.CorpusPath)
		if err != nil {
			return nil, err
		}
		retriever = static
	} else {
		return nil, fmt.Errorf("config: corpusPath is required (no retrieval backend configured)")
	}
	generator, err := pipeline.NewOpenAIGenerator(cfg.GeneratorModel, clientOpts...)
	if err != nil {
		return nil, err
	}
	judgeModel, err := judge.NewOpenAI(cfg.JudgeModel, judgeOpts...)
	if err != nil {
		return nil, err
	}
	opts := []rageval.Option{
		rageval.WithMaxChunks(flagMaxChunks),
		rageval.WithPoolSize(flagConcurrency),
		rageval.WithProgressCallback(func(current, total int, item *evalset.Item) {
			log.Infof("evaluating item %d/%d: %s", current, total, item.ID)
		}),
	}
	if flagMetrics != "" {
		metrics := strings.Split(flagMetrics, ",")
		for i := range metrics {
			metrics[i] = strings.TrimSpace(metrics[i])
		}
		opts = append(opts, rageval.WithMetrics(metrics))
	}
	if cfg.RewriterModel != "" {
		rewriter, err := pipeline.NewOpenAIRewriter(cfg.RewriterModel, clientOpts...)
		if err != nil {
			return nil, err
		}
		opts = append(opts, rageval.WithQueryRewriter(rewriter))
	}
	return rageval.New(retriever, generator, judgeModel, opts...)
}
