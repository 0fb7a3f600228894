package main

import (
	"fmt"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const modulePath = "votingregistry"

type violation struct {
	File   string
	Line   int
	Import string
	Rule   string
}

// layerPolicy is what one hexagonal layer of a context may import. Local
// entries are layer directories of the same service.
type layerPolicy struct {
	local        []string
	anyLocal     bool
	thirdParty   bool
	bannedStdlib []string
}

// Core layers stay free of process and network I/O; only adapters talk to
// the outside world.
var coreIOPackages = []string{
	"database/sql",
	"net",
	"os",
	"syscall",
	"unsafe",
}

var layerPolicies = map[string]layerPolicy{
	"domain": {
		local:        []string{"domain"},
		bannedStdlib: coreIOPackages,
	},
	"ports": {
		local:        []string{"domain", "ports"},
		bannedStdlib: coreIOPackages,
	},
	"application": {
		local:        []string{"application", "domain", "ports"},
		bannedStdlib: coreIOPackages,
	},
	"transport": {
		local:        []string{"transport"},
		bannedStdlib: coreIOPackages,
	},
	"adapters": {
		anyLocal:   true,
		thirdParty: true,
	},
}

func main() {
	violations := collectViolations("contexts")
	if len(violations) == 0 {
		fmt.Println("boundary checks passed")
		return
	}

	sort.Slice(violations, func(i, j int) bool {
		if violations[i].File != violations[j].File {
			return violations[i].File < violations[j].File
		}
		if violations[i].Line != violations[j].Line {
			return violations[i].Line < violations[j].Line
		}
		return violations[i].Import < violations[j].Import
	})

	fmt.Println("boundary violations found:")
	for _, v := range violations {
		fmt.Printf("- %s:%d imports %q (%s)\n", v.File, v.Line, v.Import, v.Rule)
	}
	os.Exit(1)
}

// collectViolations walks root, expected to be laid out as
// contexts/<context>/<service>/<layer>/..., skipping tests.
func collectViolations(root string) []violation {
	var violations []violation

	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}

		normalized := filepath.ToSlash(path)
		parts := strings.Split(normalized, "/")
		if len(parts) < 4 || parts[0] != "contexts" {
			return nil
		}

		modulePrefix := fmt.Sprintf("%s/contexts/%s/%s", modulePath, parts[1], parts[2])
		violations = append(violations, validateFile(path, normalized, parts[3], modulePrefix)...)
		return nil
	})

	return violations
}

func validateFile(path string, normalizedPath string, layer string, modulePrefix string) []violation {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
	if err != nil {
		return []violation{{File: normalizedPath, Line: 1, Rule: "file must parse"}}
	}

	var violations []violation
	for _, imp := range file.Imports {
		importPath := strings.Trim(imp.Path.Value, "\"")
		report := func(rule string) {
			violations = append(violations, violation{
				File:   normalizedPath,
				Line:   fset.Position(imp.Pos()).Line,
				Import: importPath,
				Rule:   rule,
			})
		}

		if hasPrefix(importPath, modulePath+"/contexts") && !hasPrefix(importPath, modulePrefix) {
			report("cross-module imports are forbidden")
		}
		policy, ok := layerPolicies[layer]
		if !ok {
			continue
		}
		for _, rule := range checkLayerImport(layer, policy, importPath, modulePrefix) {
			report(rule)
		}
	}
	return violations
}

func checkLayerImport(layer string, policy layerPolicy, importPath string, modulePrefix string) []string {
	var rules []string

	if layer != "adapters" && strings.Contains(importPath, "/adapters/") {
		rules = append(rules, layer+" must not import adapters")
	}
	if isRuntimeInfrastructure(importPath) {
		rules = append(rules, layer+" must not import runtime infrastructure")
	}

	switch {
	case isStdlib(importPath):
		for _, banned := range policy.bannedStdlib {
			if hasPrefix(importPath, banned) {
				rules = append(rules, layer+" must not import I/O packages")
				break
			}
		}
	case hasPrefix(importPath, modulePrefix):
		if policy.anyLocal {
			break
		}
		allowed := make([]string, 0, len(policy.local))
		for _, dir := range policy.local {
			allowed = append(allowed, modulePrefix+"/"+dir)
		}
		if !isAllowed(importPath, allowed) {
			rules = append(rules, layer+" import is outside explicit allowlist")
		}
	case hasPrefix(importPath, modulePath):
		if !isRuntimeInfrastructure(importPath) && !hasPrefix(importPath, modulePath+"/contexts") {
			rules = append(rules, layer+" import is outside explicit allowlist")
		}
	default:
		if !policy.thirdParty {
			rules = append(rules, layer+" import is outside explicit allowlist")
		}
	}
	return rules
}

func hasPrefix(path string, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func isAllowed(importPath string, allowedPrefixes []string) bool {
	for _, p := range allowedPrefixes {
		if hasPrefix(importPath, p) {
			return true
		}
	}
	return false
}

func isRuntimeInfrastructure(importPath string) bool {
	return hasPrefix(importPath, modulePath+"/internal") ||
		hasPrefix(importPath, modulePath+"/cmd")
}

func isStdlib(importPath string) bool {
	if hasPrefix(importPath, modulePath) {
		return false
	}
	first := importPath
	if idx := strings.Index(first, "/"); idx != -1 {
		first = first[:idx]
	}
	return !strings.Contains(first, ".")
}
