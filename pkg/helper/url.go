package helper

import (
	"strings"

	"github.com/luminshop/payments/pkg/config"
)

// BuildURL 用站点根地址拼接绝对URL
func BuildURL(path string) string {
	base := ""
	if config.Config != nil {
		base = strings.TrimRight(config.Config.BaseURL, "/")
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}
