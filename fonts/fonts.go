package fonts

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-fonts/latin-modern/lmroman10bold"
	"github.com/go-fonts/latin-modern/lmroman10bolditalic"
	"github.com/go-fonts/latin-modern/lmroman10italic"
	"github.com/go-fonts/latin-modern/lmroman10regular"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
)

// Face 标识字族中的一个字面。
type Face struct {
	Bold   bool
	Italic bool
}

// family 按 [regular, bold, italic, bold-italic] 顺序保存 TTF 数据。
type family [4][]byte

var builtin = map[string]family{
	"go":           {goregular.TTF, gobold.TTF, goitalic.TTF, gobolditalic.TTF},
	"go-mono":      {gomono.TTF, gomonobold.TTF, gomonoitalic.TTF, gomonobolditalic.TTF},
	"latin-modern": {lmroman10regular.TTF, lmroman10bold.TTF, lmroman10italic.TTF, lmroman10bolditalic.TTF},
}

// aliases 让常见的通用字族名落到内置字体上。
var aliases = map[string]string{
	"":           "go",
	"sans":       "go",
	"sans-serif": "go",
	"mono":       "go-mono",
	"monospace":  "go-mono",
	"serif":      "latin-modern",
	"lm":         "latin-modern",
}

// Load 返回内置字族中某个字面的 TTF 字节。
func Load(name string, face Face) ([]byte, error) {
	fam, ok := builtin[Canonical(name)]
	if !ok {
		return nil, fmt.Errorf("未知的内置字体 %q（可用: %s）", name, strings.Join(Families(), ", "))
	}
	idx := 0
	if face.Bold {
		idx |= 1
	}
	if face.Italic {
		idx |= 2
	}
	return fam[idx], nil
}

// Canonical 把别名规范化为内置字族名；未知名称原样（小写）返回。
func Canonical(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	if alias, ok := aliases[n]; ok {
		return alias
	}
	return n
}

// Families 返回内置字族名（已排序）。
func Families() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
