package main

import (
	"context"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/datainfa/compliance-cli/internal/model"
	"github.com/datainfa/compliance-cli/internal/store"
)

var (
	batchRegulation string
	batchIndustry   string
	batchSave       bool
)

var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Assess a directory of response files",
	Long:  "Scores every *.json response file in a directory concurrently. The file name (without extension) is used as the organization name.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		files, err := filepath.Glob(filepath.Join(args[0], "*.json"))
		if err != nil {
			return eris.Wrap(err, "glob responses dir")
		}

		var st store.Store
		if batchSave {
			st, err = initStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck
		}

		return processBatch(ctx, files, cfg.Batch.MaxConcurrent, st)
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchRegulation, "regulation", "", "regulation code (DPDP, PDPPL, NPC)")
	batchCmd.Flags().StringVar(&batchIndustry, "industry", "", "industry identifier")
	batchCmd.Flags().BoolVar(&batchSave, "save", false, "save all assessments to the history store")
	_ = batchCmd.MarkFlagRequired("regulation")
	_ = batchCmd.MarkFlagRequired("industry")
	rootCmd.AddCommand(batchCmd)
}

// processBatch scores response files concurrently and optionally bulk-saves
// the assessments.
func processBatch(ctx context.Context, files []string, concurrency int, st store.Store) error {
	if len(files) == 0 {
		zap.L().Info("no response files found")
		return nil
	}
	if concurrency <= 0 {
		concurrency = 1
	}

	zap.L().Info("processing batch",
		zap.Int("files", len(files)),
		zap.Int("concurrency", concurrency),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	var mu sync.Mutex
	var assessments []model.Assessment
	var succeeded, failed atomic.Int64

	for _, file := range files {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}

			org := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
			log := zap.L().With(zap.String("org", org), zap.String("file", file))

			a, err := runAssessment(org, batchRegulation, batchIndustry, file)
			if err != nil {
				failed.Add(1)
				log.Error("assessment failed", zap.Error(err))
				return nil // don't abort batch on individual failure
			}

			succeeded.Add(1)
			log.Info("assessment complete",
				zap.Float64("overall_score", a.Results.OverallScore),
				zap.String("compliance_level", string(a.Results.ComplianceLevel)),
			)

			mu.Lock()
			assessments = append(assessments, *a)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return eris.Wrap(err, "batch processing")
	}

	if st != nil && len(assessments) > 0 {
		n, err := st.CreateAssessments(ctx, assessments)
		if err != nil {
			return eris.Wrap(err, "save batch")
		}
		zap.L().Info("batch saved", zap.Int64("assessments", n))
	}

	zap.L().Info("batch complete",
		zap.Int64("succeeded", succeeded.Load()),
		zap.Int64("failed", failed.Load()),
	)
	return nil
}
