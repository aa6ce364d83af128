package config

import (
	"fmt"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"
)

// parseKDL reads a .ccheck.kdl document:
//
//	clang {
//	    executable "/usr/bin/clang"
//	    include-dir "vendor/include"
//	    include-dir "/opt/sdk/include"
//	    timeout-sec 30
//	}
//	analysis {
//	    dedup-window 1
//	    external true
//	    format "text"
//	}
//	watch {
//	    debounce-ms 300
//	}
func parseKDL(content string) (*Config, error) {
	cfg := Default()

	doc, err := kdl.Parse(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse KDL config: %w", err)
	}

	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "clang":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "executable":
					if s, ok := firstStringArg(cn); ok {
						cfg.Clang.Executable = s
					}
				case "include-dir":
					cfg.Clang.IncludeDirs = append(cfg.Clang.IncludeDirs, collectStringArgs(cn)...)
				case "timeout-sec":
					if v, ok := firstIntArg(cn); ok {
						cfg.Clang.TimeoutSec = v
					}
				}
			}
		case "analysis":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "dedup-window":
					if v, ok := firstIntArg(cn); ok {
						cfg.Analysis.DedupWindow = v
					}
				case "external":
					if b, ok := firstBoolArg(cn); ok {
						cfg.Analysis.External = b
					}
				case "format":
					if s, ok := firstStringArg(cn); ok {
						cfg.Analysis.Format = s
					}
				}
			}
		case "watch":
			for _, cn := range n.Children {
				if nodeName(cn) == "debounce-ms" {
					if v, ok := firstIntArg(cn); ok {
						cfg.Watch.DebounceMs = v
					}
				}
			}
		}
	}

	return cfg, nil
}

func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}

func firstStringArg(n *document.Node) (string, bool) {
	if len(n.Arguments) == 0 {
		return "", false
	}
	if s, ok := n.Arguments[0].Value.(string); ok {
		return s, true
	}
	return "", false
}

func firstIntArg(n *document.Node) (int, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func firstBoolArg(n *document.Node) (bool, bool) {
	if len(n.Arguments) == 0 {
		return false, false
	}
	if b, ok := n.Arguments[0].Value.(bool); ok {
		return b, true
	}
	return false, false
}

func collectStringArgs(n *document.Node) []string {
	var out []string
	for _, arg := range n.Arguments {
		if s, ok := arg.Value.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
