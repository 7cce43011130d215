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

package stats

import (
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/zintix-labs/qshuffle/shuffle"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var lang language.Tag = language.English

// DistributionTable 以表格輸出 shuffle 結果（item 可含 CJK 等寬字元）。
func DistributionTable(title string, d shuffle.Distribution) string {
	p := message.NewPrinter(lang)
	total := d.Sum()
	rows := make([][]string, 0, len(d))
	for i, e := range d {
		share := 0.0
		if total > 0 {
			share = 100 * float64(e.Count) / float64(total)
		}
		rows = append(rows, []string{
			p.Sprintf("%d", i+1),
			e.Item,
			p.Sprintf("%d", e.Count),
			p.Sprintf("%.2f %%", share),
		})
	}
	return fmtGrid(title, []string{"#", "Item", "Count", "Share"}, rows)
}

// Table 輸出報告摘要與每個 item 的統計。
func (r *Report) Table(title string) string {
	p := message.NewPrinter(lang)
	s := r.Summary
	keys := []string{"Items", "Distinct", "Qubits", "Rounds", "Failed", "Shots / Run", "Total Count", "Discard Rate", "Chi-Square", "p-value", "Entropy"}
	msg := map[string]string{
		"Items":        p.Sprintf("%d", s.Items),
		"Distinct":     p.Sprintf("%d", s.Distinct),
		"Qubits":       p.Sprintf("%d", s.Qubits),
		"Rounds":       p.Sprintf("%d", s.Rounds),
		"Failed":       p.Sprintf("%d", s.Failed),
		"Shots / Run":  p.Sprintf("%d", s.ShotsPerRun),
		"Total Count":  p.Sprintf("%d", s.TotalCount),
		"Discard Rate": p.Sprintf("%.2f %%", 100*s.DiscardRate),
		"Chi-Square":   p.Sprintf("%.3f (dof %d)", s.ChiSquare, s.DoF),
		"p-value":      p.Sprintf("%.4g", s.PValue),
		"Entropy":      p.Sprintf("%.4f", s.Entropy),
	}
	out := fmtTable(title, keys, msg)

	rows := make([][]string, 0, len(r.Items))
	for _, it := range r.Items {
		rows = append(rows, []string{
			it.Item,
			p.Sprintf("%.2f %%", 100*it.MeanShare),
			p.Sprintf("%.2f %%", 100*it.StdShare),
			p.Sprintf("%d", it.Firsts),
			p.Sprintf("%d", it.Missing),
		})
	}
	return out + fmtGrid("Items", []string{"Item", "Mean Share", "Std Share", "Firsts", "Missing"}, rows)
}

// FormatDuration 輸出耗時與每秒 shuffle 數。
func FormatDuration(d time.Duration, rounds int) string {
	p := message.NewPrinter(lang)
	if d < 0 {
		d = -d
	}
	sec := max(d.Seconds(), 1e-9)
	rps := float64(rounds) / sec
	if sec < 60.0 {
		return p.Sprintf("used: %.2f seconds\nrate: %.1f shuffles/sec\n", sec, rps)
	}
	s := int(d.Seconds()) % 60
	m := int(d.Minutes()) % 60
	h := int(d.Hours())
	if h == 0 {
		return p.Sprintf("used: %dm %ds\nrate: %.1f shuffles/sec\n", m, s, rps)
	}
	return p.Sprintf("used: %dh:%dm:%ds\nrate: %.1f shuffles/sec\n", h, m, s, rps)
}

func fmtTable(title string, keys []string, msg map[string]string) string {
	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, []string{k, msg[k]})
	}
	return fmtGrid(title, nil, rows)
}

// fmtGrid 以 runewidth 計算欄寬，輸出帶標題的框線表格；header 可為 nil。
func fmtGrid(title string, header []string, rows [][]string) string {
	cols := len(header)
	for _, r := range rows {
		cols = max(cols, len(r))
	}
	if cols == 0 {
		return ""
	}
	widths := make([]int, cols)
	measure := func(r []string) {
		for i, c := range r {
			widths[i] = max(widths[i], runewidth.StringWidth(c))
		}
	}
	measure(header)
	for _, r := range rows {
		measure(r)
	}

	inner := cols - 1
	for _, w := range widths {
		inner += w + 2
	}
	titleW := runewidth.StringWidth(title)
	if titleW > inner {
		widths[cols-1] += titleW - inner
		inner = titleW
	}

	var b strings.Builder
	top := "+" + strings.Repeat("-", inner) + "+\n"
	var div strings.Builder
	div.WriteString("+")
	for _, w := range widths {
		div.WriteString(strings.Repeat("-", w+2))
		div.WriteString("+")
	}
	div.WriteString("\n")

	left := (inner - titleW) / 2
	b.WriteString(top)
	fmt.Fprintf(&b, "|%s%s%s|\n", blank(left), title, blank(inner-titleW-left))
	b.WriteString(div.String())
	line := func(r []string) {
		b.WriteString("|")
		for i := range widths {
			c := ""
			if i < len(r) {
				c = r[i]
			}
			fmt.Fprintf(&b, " %s%s |", c, blank(widths[i]-runewidth.StringWidth(c)))
		}
		b.WriteString("\n")
	}
	if header != nil {
		line(header)
		b.WriteString(div.String())
	}
	for _, r := range rows {
		line(r)
	}
	b.WriteString(div.String())
	return b.String()
}

func blank(w int) string {
	if w < 1 {
		return ""
	}
	return strings.Repeat(" ", w)
}
