package hostinfo

import (
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/samber/lo"
)

const lspciTimeout = 2 * time.Second

func runLSPCI(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, lspciTimeout)
	defer cancel()
	out, err := exec.CommandContext(ctx, "lspci").Output()
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// ParseLSPCI extracts display adapters from lspci output. Only VGA and
// "3D controller" lines count; the bus address and class prefix are dropped.
//
//	00:02.0 VGA compatible controller: Intel Corporation UHD Graphics 620
//	-> "Intel Corporation UHD Graphics 620"
func ParseLSPCI(output string) []string {
	return lo.FilterMap(strings.Split(output, "\n"), func(line string, _ int) (string, bool) {
		if !strings.Contains(line, "VGA") && !strings.Contains(line, "3D controller") {
			return "", false
		}
		parts := strings.SplitN(line, ":", 3)
		name := strings.TrimSpace(parts[len(parts)-1])
		return name, name != ""
	})
}
