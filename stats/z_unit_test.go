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

package stats_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/zintix-labs/qshuffle/shuffle"
	"github.com/zintix-labs/qshuffle/stats"
)

func result(shots int, entries ...shuffle.Entry) *shuffle.Result {
	return &shuffle.Result{
		Distribution: entries,
		Items:        3,
		Qubits:       2,
		Shots:        shots,
		Retained:     shots,
	}
}

func TestCollectorUniform(t *testing.T) {
	c := stats.NewCollector([]string{"a", "b", "c"})
	c.Add(result(300, shuffle.Entry{Item: "a", Count: 100}, shuffle.Entry{Item: "b", Count: 100}, shuffle.Entry{Item: "c", Count: 100}))
	c.Add(result(300, shuffle.Entry{Item: "c", Count: 100}, shuffle.Entry{Item: "b", Count: 100}, shuffle.Entry{Item: "a", Count: 100}))
	rep := c.Report()

	s := rep.Summary
	if s.Rounds != 2 || s.TotalCount != 600 || s.Distinct != 3 {
		t.Fatalf("unexpected summary %+v", s)
	}
	if s.ChiSquare != 0 || math.Abs(s.PValue-1) > 1e-12 {
		t.Fatalf("uniform counts should give chi2=0 p=1, got %v %v", s.ChiSquare, s.PValue)
	}
	if math.Abs(s.Entropy-1) > 1e-12 {
		t.Fatalf("uniform entropy should be 1, got %v", s.Entropy)
	}
	if rep.Items[0].Firsts != 1 || rep.Items[2].Firsts != 1 {
		t.Fatalf("firsts %+v", rep.Items)
	}
	if math.Abs(rep.Items[0].MeanShare-1.0/3) > 1e-12 || rep.Items[0].StdShare != 0 {
		t.Fatalf("share stats %+v", rep.Items[0])
	}
}

func TestCollectorSkewed(t *testing.T) {
	c := stats.NewCollector([]string{"a", "b"})
	for range 4 {
		c.Add(result(1000, shuffle.Entry{Item: "a", Count: 1000}))
	}
	c.Fail()
	rep := c.Report()

	s := rep.Summary
	if s.Failed != 1 || s.DoF != 1 {
		t.Fatalf("summary %+v", s)
	}
	// expected 2000 each: (2000²/2000)·2 = 4000
	if math.Abs(s.ChiSquare-4000) > 1e-9 {
		t.Fatalf("chi2 %v", s.ChiSquare)
	}
	if s.PValue > 1e-6 {
		t.Fatalf("p-value should be tiny, got %v", s.PValue)
	}
	if s.Entropy != 0 {
		t.Fatalf("single-item mass should have zero entropy, got %v", s.Entropy)
	}
	if rep.Items[1].Missing != 4 {
		t.Fatalf("b should be missing in every round: %+v", rep.Items[1])
	}
}

func TestCollectorDuplicatesWeighExpected(t *testing.T) {
	c := stats.NewCollector([]string{"x", "x", "y", "z"})
	c.Add(result(400, shuffle.Entry{Item: "x", Count: 200}, shuffle.Entry{Item: "y", Count: 100}, shuffle.Entry{Item: "z", Count: 100}))
	rep := c.Report()
	if rep.Summary.Distinct != 3 || rep.Items[0].Expected != 200 {
		t.Fatalf("duplicates should double the expectation: %+v", rep.Items[0])
	}
	if rep.Summary.ChiSquare != 0 {
		t.Fatalf("chi2 %v", rep.Summary.ChiSquare)
	}
}

func TestCollectorManyItems(t *testing.T) {
	const n = 6000
	items := make([]string, n)
	d := make(shuffle.Distribution, 0, n/2)
	for i := range items {
		items[i] = fmt.Sprintf("item-%04d", i)
		if i%2 == 0 {
			d = append(d, shuffle.Entry{Item: items[i], Count: 2})
		}
	}
	c := stats.NewCollector(items)
	c.Add(result(n, d...))
	rep := c.Report()

	if rep.Summary.Distinct != n || rep.Summary.TotalCount != n {
		t.Fatalf("summary %+v", rep.Summary)
	}
	if got := rep.Items[0]; got.Missing != 0 || math.Abs(got.MeanShare-2.0/n) > 1e-15 {
		t.Fatalf("present item %+v", got)
	}
	if got := rep.Items[1]; got.Missing != 1 || got.MeanShare != 0 {
		t.Fatalf("absent item %+v", got)
	}
}

func TestCollectorConcurrentAdd(t *testing.T) {
	c := stats.NewCollector([]string{"a", "b"})
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Add(result(10, shuffle.Entry{Item: "a", Count: 6}, shuffle.Entry{Item: "b", Count: 4}))
		}()
	}
	wg.Wait()
	if got := c.Report().Summary.TotalCount; got != 80 {
		t.Fatalf("total %d", got)
	}
}

func TestDistributionTableAlignsWideRunes(t *testing.T) {
	d := shuffle.Distribution{{Item: "春眠不覺曉", Count: 700}, {Item: "moon", Count: 300}}
	out := stats.DistributionTable("shuffle", d)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	width := runewidth.StringWidth(lines[0])
	for _, l := range lines {
		if w := runewidth.StringWidth(l); w != width {
			t.Fatalf("misaligned line (%d vs %d): %q", w, width, l)
		}
	}
	if !strings.Contains(out, "70.00 %") || !strings.Contains(out, "700") {
		t.Fatalf("missing values:\n%s", out)
	}
}

func TestReportTableAndRenders(t *testing.T) {
	c := stats.NewCollector([]string{"a", "b"})
	c.Add(result(1200, shuffle.Entry{Item: "a", Count: 1200}))
	rep := c.Report()

	if out := rep.Table("bench"); !strings.Contains(out, "Chi-Square") || !strings.Contains(out, "1,200") {
		t.Fatalf("table:\n%s", out)
	}

	r, ok := stats.RenderOf("json")
	if !ok {
		t.Fatalf("json render missing")
	}
	var buf bytes.Buffer
	if err := r.Write(&buf, rep); err != nil {
		t.Fatal(err)
	}
	var back stats.Report
	if err := json.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatal(err)
	}
	if back.Summary.TotalCount != 1200 {
		t.Fatalf("json round trip %+v", back.Summary)
	}

	y, _ := stats.RenderOf("yaml")
	buf.Reset()
	if err := y.Write(&buf, shuffle.Distribution{{Item: "b", Count: 2}, {Item: "a", Count: 1}}); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "b: 2\na: 1\n" {
		t.Fatalf("yaml %q", got)
	}
	if _, ok := stats.RenderOf("xml"); ok {
		t.Fatalf("unexpected render for xml")
	}
}
