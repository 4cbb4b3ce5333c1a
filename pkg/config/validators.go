package config

import (
	"net"
	"path/filepath"
	"strings"

	"github.com/asaskevich/govalidator"
	"go.uber.org/zap/zapcore"
)

// Linux limits interface names to IFNAMSIZ-1 bytes
const maxInterfaceNameLength = 15

func init() {
	govalidator.TagMap["ifname"] = isInterfaceName
	govalidator.TagMap["listen_addr"] = isListenAddr
	govalidator.TagMap["path"] = isPath
	govalidator.TagMap["log_level"] = isLogLevel
}

func isInterfaceName(s string) bool {
	if len(s) == 0 || len(s) > maxInterfaceNameLength {
		return false
	}
	if s == "." || s == ".." {
		return false
	}
	return !strings.ContainsAny(s, "/: \t\n")
}

func isListenAddr(s string) bool {
	host, port, err := net.SplitHostPort(s)
	if err != nil {
		return false
	}
	if !govalidator.IsPort(port) {
		return false
	}
	// dual-stack listener
	if len(host) == 0 {
		return true
	}

	return govalidator.IsHost(host) || govalidator.IsIP(host)
}

func isPath(s string) bool {
	if len(s) == 0 {
		return false
	}
	return filepath.Clean(s) != "."
}

func isLogLevel(s string) bool {
	var level zapcore.Level
	return level.UnmarshalText([]byte(s)) == nil
}
