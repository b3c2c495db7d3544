package binding

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

// ${path} 或 ${path:%.2f}；冒号后为 fmt 格式动词。
var exprPattern = regexp.MustCompile(`\$\{([^}:]+)(?::([^}]*))?\}`)

// Interpolate 将标签中的 ${path.to.value} 替换为 data 中的值，可选格式如 ${fit.r2:%.2f}。
// 路径支持 map 键、结构体导出字段以及 [i] 下标。
// 若 data 为空或路径不存在，则保留原占位符。
func Interpolate(text string, data any) string {
	if data == nil || !strings.Contains(text, "${") {
		return text
	}
	return exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		groups := exprPattern.FindStringSubmatch(match)
		if len(groups) < 3 {
			return match
		}
		path := strings.TrimSpace(groups[1])
		if path == "" {
			return match
		}
		val, ok := Lookup(data, path)
		if !ok {
			return match
		}
		if verb := strings.TrimSpace(groups[2]); verb != "" {
			return fmt.Sprintf(verb, val)
		}
		return fmt.Sprint(val)
	})
}

// Lookup 按点分路径取值，例如 "fits[0].r2"。
func Lookup(data any, path string) (any, bool) {
	current := reflect.ValueOf(data)
	for _, segment := range strings.Split(path, ".") {
		name, indexes := parseSegment(segment)
		if name != "" {
			var ok bool
			if current, ok = descendKey(current, name); !ok {
				return nil, false
			}
		}
		for _, idxStr := range indexes {
			idx, err := strconv.Atoi(idxStr)
			if err != nil {
				return nil, false
			}
			var ok bool
			if current, ok = descendIndex(current, idx); !ok {
				return nil, false
			}
		}
	}
	if !current.IsValid() || !current.CanInterface() {
		return nil, false
	}
	return current.Interface(), true
}

func parseSegment(segment string) (string, []string) {
	name := segment
	var indexes []string
	if i := strings.Index(segment, "["); i != -1 {
		name = segment[:i]
		rest := segment[i:]
		for len(rest) > 0 && rest[0] == '[' {
			end := strings.IndexByte(rest, ']')
			if end == -1 {
				break
			}
			indexes = append(indexes, rest[1:end])
			rest = rest[end+1:]
		}
	}
	return strings.TrimSpace(name), indexes
}

func indirect(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Interface || v.Kind() == reflect.Pointer) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

func descendKey(current reflect.Value, key string) (reflect.Value, bool) {
	v := indirect(current)
	switch v.Kind() {
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return reflect.Value{}, false
		}
		val := v.MapIndex(reflect.ValueOf(key).Convert(v.Type().Key()))
		return val, val.IsValid()
	case reflect.Struct:
		field := v.FieldByName(key)
		if !field.IsValid() || !field.CanInterface() {
			return reflect.Value{}, false
		}
		return field, true
	default:
		return reflect.Value{}, false
	}
}

func descendIndex(current reflect.Value, idx int) (reflect.Value, bool) {
	v := indirect(current)
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		if idx < 0 || idx >= v.Len() {
			return reflect.Value{}, false
		}
		return v.Index(idx), true
	default:
		return reflect.Value{}, false
	}
}
