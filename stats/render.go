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
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"
)

// Render 把任一報告（Report、shuffle.Distribution…）寫到 w。
type Render interface {
	Write(w io.Writer, v any) error
}

// Json渲染
type JsonRender struct{ Indent bool }

func (jr JsonRender) Write(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	if jr.Indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

// YAML渲染
type YAMLRender struct{}

func (YAMLRender) Write(w io.Writer, v any) error {
	// 只有「最內層的一維陣列」輸出成 flow style：[..., ...]，外層維持展開
	return forceReadableList(w, v)
}

// RenderOf 依格式名稱回傳 Render；table 由呼叫端另外處理。
func RenderOf(format string) (Render, bool) {
	switch format {
	case "json":
		return JsonRender{Indent: true}, true
	case "yaml", "yml":
		return YAMLRender{}, true
	}
	return nil, false
}

// YAML 內層方法
func forceReadableList(w io.Writer, v any) error {
	var node yaml.Node
	if err := node.Encode(v); err != nil {
		return err
	}
	styleReadableSequences(&node)

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(&node)
}

func styleReadableSequences(n *yaml.Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case yaml.DocumentNode, yaml.MappingNode:
		for _, c := range n.Content {
			styleReadableSequences(c)
		}
	case yaml.SequenceNode:
		// 只有純量元素的 sequence 才改成 flow；含 mapping 或子 sequence 的維持 block
		leaf := true
		for _, c := range n.Content {
			if c != nil && (c.Kind == yaml.SequenceNode || c.Kind == yaml.MappingNode) {
				leaf = false
			}
			styleReadableSequences(c)
		}
		if leaf {
			n.Style = yaml.FlowStyle
		}
	}
}
