// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"runtime"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/spf13/cobra"
	"github.com/zintix-labs/qshuffle/errs"
	"github.com/zintix-labs/qshuffle/sdk/perf"
	"github.com/zintix-labs/qshuffle/shuffle"
	"github.com/zintix-labs/qshuffle/stats"
	"golang.org/x/sync/errgroup"
)

type benchFlags struct {
	shuffleFlags
	rounds  int
	workers int
}

func newBenchCmd(prof *string) *cobra.Command {
	f := new(benchFlags)
	cmd := &cobra.Command{
		Use:   "bench [items...]",
		Short: "Repeat the shuffle and report share statistics.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := f.checkFormat(); err != nil {
				return err
			}
			if f.rounds < 1 {
				return errs.Invalid("rounds must > 0")
			}
			if f.workers < 1 {
				f.workers = runtime.GOMAXPROCS(0)
			}
			items, err := f.items(cmd, args)
			if err != nil {
				return err
			}
			return perf.Run(*prof, func() error { return bench(cmd, f, items) })
		},
	}
	f.bind(cmd)
	cmd.Flags().IntVar(&f.rounds, "rounds", 100, "number of shuffles")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "parallel shuffles (0 = GOMAXPROCS)")
	return cmd
}

// bench 每輪建立獨立的 Sampler；NoValidOutcomes 計入 Failed，其他錯誤中止整批。
func bench(cmd *cobra.Command, f *benchFlags, items []string) error {
	col := stats.NewCollector(items)
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(f.workers)

	bar := pb.New(f.rounds).SetWriter(cmd.ErrOrStderr())
	bar.Start()
	for i := range f.rounds {
		if ctx.Err() != nil {
			break
		}
		cfg := f.config(i)
		g.Go(func() error {
			defer bar.Increment()
			s, err := shuffle.NewSampler(items, cfg)
			if err != nil {
				return err
			}
			res, err := s.Run(ctx)
			if errs.KindOf(err) == errs.NoValidOutcomes {
				col.Fail()
				return nil
			}
			if err != nil {
				return err
			}
			col.Add(res)
			return nil
		})
	}
	err := g.Wait()
	used := time.Since(bar.StartTime())
	bar.Finish()
	if err != nil {
		return err
	}
	col.SetElapsed(used)
	rep := col.Report()

	out := cmd.OutOrStdout()
	if f.format == "table" {
		title := fmt.Sprintf("bench | %d rounds | %d workers", f.rounds, f.workers)
		_, err := fmt.Fprint(out, rep.Table(title), stats.FormatDuration(used, rep.Summary.Rounds))
		return err
	}
	r, ok := stats.RenderOf(f.format)
	if !ok {
		return errs.Invalid("unknown format %q (want table, json or yaml)", f.format)
	}
	return r.Write(out, rep)
}
