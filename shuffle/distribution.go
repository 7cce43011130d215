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

package shuffle

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Entry 為結果中的一個 item 與其縮放後次數。
type Entry struct {
	Item  string `json:"item" yaml:"item"`
	Count int    `json:"count" yaml:"count"`
}

// Distribution 為有序的 shuffle 結果：依 Count 遞減，同分時保留首次累積的順序。
// JSON 與 YAML 都編碼為 mapping，key 的順序即為此順序。
type Distribution []Entry

// Sum 回傳所有次數總和。
func (d Distribution) Sum() int {
	n := 0
	for _, e := range d {
		n += e.Count
	}
	return n
}

// Items 依序回傳 item。
func (d Distribution) Items() []string {
	out := make([]string, len(d))
	for i, e := range d {
		out[i] = e.Item
	}
	return out
}

// Map 轉成 map（順序資訊會遺失）。
func (d Distribution) Map() map[string]int {
	m := make(map[string]int, len(d))
	for _, e := range d {
		m[e.Item] = e.Count
	}
	return m
}

func (d Distribution) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, e := range d {
		if i > 0 {
			b.WriteByte(',')
		}
		k, err := json.Marshal(e.Item)
		if err != nil {
			return nil, err
		}
		b.Write(k)
		b.WriteByte(':')
		fmt.Fprintf(&b, "%d", e.Count)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

// UnmarshalJSON 解析 JSON 物件並保留 key 順序。
func (d *Distribution) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("distribution: expected object, got %v", tok)
	}
	out := Distribution{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("distribution: expected string key, got %v", tok)
		}
		var count int
		if err := dec.Decode(&count); err != nil {
			return fmt.Errorf("distribution: value for %q: %w", key, err)
		}
		out = append(out, Entry{Item: key, Count: count})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*d = out
	return nil
}

func (d Distribution) MarshalYAML() (any, error) {
	n := &yaml.Node{Kind: yaml.MappingNode, Content: make([]*yaml.Node, 0, 2*len(d))}
	for _, e := range d {
		n.Content = append(n.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Item},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(e.Count)},
		)
	}
	return n, nil
}
