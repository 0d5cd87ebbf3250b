package binding

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var placeholder = regexp.MustCompile(`\$\{\s*([^}]*?)\s*\}`)

// Interpolate 把文本中的 ${path.to.value} 替换为 data 中对应的值，
// 路径支持 a.b[0].c 形式的数组下标。data 为空或路径不存在时保留原占位符。
func Interpolate(text string, data any) string {
	if data == nil || !strings.Contains(text, "${") {
		return text
	}
	return placeholder.ReplaceAllStringFunc(text, func(match string) string {
		path := placeholder.FindStringSubmatch(match)[1]
		if path == "" {
			return match
		}
		val, ok := Lookup(data, path)
		if !ok {
			return match
		}
		return fmt.Sprint(val)
	})
}

// Lookup 按路径在 JSON 解码得到的 map/slice 树中取值。
func Lookup(data any, path string) (any, bool) {
	cur := data
	for _, step := range splitPath(path) {
		switch node := cur.(type) {
		case map[string]any:
			if step.index {
				return nil, false
			}
			v, ok := node[step.key]
			if !ok {
				return nil, false
			}
			cur = v
		case []any:
			if !step.index || step.n < 0 || step.n >= len(node) {
				return nil, false
			}
			cur = node[step.n]
		default:
			return nil, false
		}
	}
	return cur, true
}

type pathStep struct {
	key   string
	index bool
	n     int
}

// splitPath 把 "items[1].name" 拆成 items、[1]、name 三步；非法下标得到 n=-1。
func splitPath(path string) []pathStep {
	var steps []pathStep
	for _, seg := range strings.Split(path, ".") {
		name, rest, _ := strings.Cut(seg, "[")
		if name != "" {
			steps = append(steps, pathStep{key: name})
		}
		for rest != "" {
			idx, tail, ok := strings.Cut(rest, "]")
			if !ok {
				break
			}
			n, err := strconv.Atoi(idx)
			if err != nil {
				n = -1
			}
			steps = append(steps, pathStep{index: true, n: n})
			rest = strings.TrimPrefix(tail, "[")
		}
	}
	return steps
}
