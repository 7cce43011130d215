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

	"github.com/spf13/cobra"
	"github.com/zintix-labs/qshuffle/errs"
	"github.com/zintix-labs/qshuffle/sdk/perf"
	"github.com/zintix-labs/qshuffle/shuffle"
	"github.com/zintix-labs/qshuffle/stats"
)

func newRunCmd(prof *string) *cobra.Command {
	f := new(shuffleFlags)
	cmd := &cobra.Command{
		Use:   "run [items...]",
		Short: "Shuffle the items once and print the distribution.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := f.checkFormat(); err != nil {
				return err
			}
			items, err := f.items(cmd, args)
			if err != nil {
				return err
			}
			return perf.Run(*prof, func() error { return runOnce(cmd, f, items) })
		},
	}
	f.bind(cmd)
	return cmd
}

func runOnce(cmd *cobra.Command, f *shuffleFlags, items []string) error {
	s, err := shuffle.NewSampler(items, f.config(0))
	if err != nil {
		return err
	}
	res, err := s.Run(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if f.format == "table" {
		title := fmt.Sprintf("items %d | qubits %d | shots %d", res.Items, res.Qubits, res.Shots)
		_, err := fmt.Fprint(out, stats.DistributionTable(title, res.Distribution))
		return err
	}
	r, ok := stats.RenderOf(f.format)
	if !ok {
		return errs.Invalid("unknown format %q (want table, json or yaml)", f.format)
	}
	return r.Write(out, res.Distribution)
}
