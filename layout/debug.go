package layout

import (
	"encoding/json"
	"fmt"
	"os"
)

// WriteDebugJSON 将快照序列输出为 JSON，便于调试或可视化。
func WriteDebugJSON(snaps []Snapshot, path string) error {
	if len(snaps) == 0 {
		return nil
	}
	data, err := json.MarshalIndent(snaps, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化快照失败: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
