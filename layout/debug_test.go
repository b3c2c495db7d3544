package layout

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// TestWriteDebug 验证调试 JSON 中的枚举以名称输出，且可以写入文件。
func TestWriteDebug(t *testing.T) {
	req := baseRequest("<sup>x")
	req.Orientation = Right
	res := mustRender(t, req)

	var buf bytes.Buffer
	if err := WriteDebug(&buf, res); err != nil {
		t.Fatalf("写入调试 JSON 失败: %v", err)
	}
	var decoded struct {
		Box struct {
			Orientation string `json:"orientation"`
		} `json:"box"`
		Diagnostics []struct {
			Kind string `json:"kind"`
		} `json:"diagnostics"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("调试 JSON 无法解析: %v", err)
	}
	if decoded.Box.Orientation != "right" {
		t.Fatalf("朝向应以名称输出: %q", decoded.Box.Orientation)
	}
	if len(decoded.Diagnostics) != 1 || decoded.Diagnostics[0].Kind != "markup" {
		t.Fatalf("诊断输出错误: %+v", decoded.Diagnostics)
	}

	path := filepath.Join(t.TempDir(), "debug.json")
	if err := WriteDebugJSON(res, path); err != nil {
		t.Fatalf("写入文件失败: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil || !bytes.Equal(data, buf.Bytes()) {
		t.Fatalf("文件内容与直接输出不一致: %v", err)
	}
	if err := WriteDebug(&buf, nil); err == nil {
		t.Fatalf("空结果应返回错误")
	}
}
