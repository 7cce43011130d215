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

// Package stats 彙整多次 shuffle 的結果：每個 item 的平均占比、排第一的次數、
// 合併分佈對「依出現次數均分」的卡方檢定，以及正規化熵。
package stats

import (
	"math"
	"sync"
	"time"

	"github.com/zintix-labs/qshuffle/shuffle"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Report 為多次 shuffle 的統計報告。
type Report struct {
	Summary *SummaryReport `json:"Summary" yaml:"Summary"`
	Items   []ItemReport   `json:"Items" yaml:"Items"`
}

type SummaryReport struct {
	Items       int     `json:"Items" yaml:"Items"`             // 輸入 item 數（含重複）
	Distinct    int     `json:"Distinct" yaml:"Distinct"`       // 不重複 item 數
	Qubits      int     `json:"Qubits" yaml:"Qubits"`           // 每輪使用的 qubit 數
	Rounds      int     `json:"Rounds" yaml:"Rounds"`           // 成功的 shuffle 次數
	Failed      int     `json:"Failed" yaml:"Failed"`           // 失敗的 shuffle 次數
	ShotsPerRun int     `json:"ShotsPerRun" yaml:"ShotsPerRun"` // 單輪 shots
	TotalCount  int64   `json:"TotalCount" yaml:"TotalCount"`   // 所有輪次縮放後次數總和
	DiscardRate float64 `json:"DiscardRate" yaml:"DiscardRate"` // 被丟棄的 shot 比例
	ChiSquare   float64 `json:"ChiSquare" yaml:"ChiSquare"`
	DoF         int     `json:"DoF" yaml:"DoF"`
	PValue      float64 `json:"PValue" yaml:"PValue"`
	Entropy     float64 `json:"Entropy" yaml:"Entropy"` // 合併分佈的熵 / ln(Distinct)
	ElapsedSec  float64 `json:"ElapsedSec" yaml:"ElapsedSec"`
}

// ItemReport 為單一 item 的跨輪統計。
type ItemReport struct {
	Item      string  `json:"Item" yaml:"Item"`
	Count     int64   `json:"Count" yaml:"Count"`         // 合併次數
	Expected  float64 `json:"Expected" yaml:"Expected"`   // 均分假設下的期望次數
	MeanShare float64 `json:"MeanShare" yaml:"MeanShare"` // 每輪占比的平均
	StdShare  float64 `json:"StdShare" yaml:"StdShare"`   // 每輪占比的標準差
	Firsts    int     `json:"Firsts" yaml:"Firsts"`       // 排名第一的輪數
	Missing   int     `json:"Missing" yaml:"Missing"`     // 未出現在結果中的輪數
}

// Collector 累積多輪 shuffle.Result，可被多個 goroutine 同時 Add。
type Collector struct {
	mu        sync.Mutex
	items     []string       // 不重複 item，依輸入首次出現順序
	mult      map[string]int // 每個 item 在輸入中的出現次數
	n         int
	qubits    int
	shots     int
	counts    map[string]int64
	shares    map[string][]float64
	firsts    map[string]int
	rounds    int
	failed    int
	retained  int64
	discarded int64
	elapsed   time.Duration
}

// NewCollector 以輸入 items 建立 Collector。
func NewCollector(items []string) *Collector {
	c := &Collector{
		mult:   make(map[string]int),
		n:      len(items),
		counts: make(map[string]int64),
		shares: make(map[string][]float64),
		firsts: make(map[string]int),
	}
	for _, it := range items {
		if c.mult[it] == 0 {
			c.items = append(c.items, it)
		}
		c.mult[it]++
	}
	return c
}

// Add 記錄一輪成功的結果。
func (c *Collector) Add(r *shuffle.Result) {
	if r == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.rounds++
	c.qubits = r.Qubits
	c.shots = r.Shots
	c.retained += int64(r.Retained)
	c.discarded += int64(r.Discarded)

	sum := r.Distribution.Sum()
	round := r.Distribution.Map()
	for _, e := range r.Distribution {
		c.counts[e.Item] += int64(e.Count)
	}
	for _, it := range c.items {
		share := 0.0
		if cnt, ok := round[it]; ok && sum > 0 {
			share = float64(cnt) / float64(sum)
		}
		c.shares[it] = append(c.shares[it], share)
	}
	if len(r.Distribution) > 0 {
		c.firsts[r.Distribution[0].Item]++
	}
}

// Fail 記錄一輪失敗。
func (c *Collector) Fail() {
	c.mu.Lock()
	c.failed++
	c.mu.Unlock()
}

// SetElapsed 記錄整體耗時。
func (c *Collector) SetElapsed(d time.Duration) {
	c.mu.Lock()
	c.elapsed = d
	c.mu.Unlock()
}

// Report 計算目前累積結果的報告。
func (c *Collector) Report() *Report {
	c.mu.Lock()
	defer c.mu.Unlock()

	sum := &SummaryReport{
		Items:       c.n,
		Distinct:    len(c.items),
		Qubits:      c.qubits,
		Rounds:      c.rounds,
		Failed:      c.failed,
		ShotsPerRun: c.shots,
		ElapsedSec:  c.elapsed.Seconds(),
		PValue:      1,
	}
	for _, it := range c.items {
		sum.TotalCount += c.counts[it]
	}
	if total := c.retained + c.discarded; total > 0 {
		sum.DiscardRate = float64(c.discarded) / float64(total)
	}

	rep := &Report{Summary: sum, Items: make([]ItemReport, 0, len(c.items))}
	observed := make([]float64, len(c.items))
	expected := make([]float64, len(c.items))
	for i, it := range c.items {
		observed[i] = float64(c.counts[it])
		expected[i] = float64(sum.TotalCount) * float64(c.mult[it]) / float64(c.n)

		ir := ItemReport{
			Item:     it,
			Count:    c.counts[it],
			Expected: expected[i],
			Firsts:   c.firsts[it],
		}
		if sh := c.shares[it]; len(sh) > 0 {
			ir.MeanShare, ir.StdShare = stat.MeanStdDev(sh, nil)
			if len(sh) < 2 {
				ir.StdShare = 0
			}
			for _, v := range sh {
				if v == 0 {
					ir.Missing++
				}
			}
		}
		rep.Items = append(rep.Items, ir)
	}

	if sum.TotalCount > 0 && len(c.items) > 1 {
		sum.ChiSquare = stat.ChiSquare(observed, expected)
		sum.DoF = len(c.items) - 1
		sum.PValue = distuv.ChiSquared{K: float64(sum.DoF)}.Survival(sum.ChiSquare)

		p := make([]float64, len(observed))
		for i, o := range observed {
			p[i] = o / float64(sum.TotalCount)
		}
		sum.Entropy = stat.Entropy(p) / math.Log(float64(len(c.items)))
	} else if sum.TotalCount > 0 {
		sum.Entropy = 1
	}
	return rep
}
