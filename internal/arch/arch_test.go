// Package arch pins the import graph between packages.
package arch

import (
	"bytes"
	"encoding/json"
	"io"
	"os/exec"
	"strings"
	"testing"
)

type pkg struct {
	ImportPath string
	Imports    []string
	Standard   bool
}

func TestImportBoundaries(t *testing.T) {
	cmd := exec.Command("go", "list", "-deps", "-json", "./...")
	cmd.Dir = "../.."
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		t.Fatalf("go list: %v", err)
	}
	dec := json.NewDecoder(&out)

	bans := map[string][]string{
		"seqtree/internal/pipeline": {
			"seqtree/internal/appcore", "seqtree/internal/app",
			"seqtree/internal/cli", "seqtree/internal/server",
			"seqtree/internal/writers", "seqtree/cmd/",
		},
		"seqtree/internal/writers": {
			"seqtree/internal/appcore", "seqtree/internal/app",
			"seqtree/internal/cli", "seqtree/internal/server",
			"seqtree/internal/pipeline", "seqtree/cmd/",
		},
		"seqtree/internal/pretty": {
			"seqtree/internal/appcore", "seqtree/internal/app",
			"seqtree/internal/cli", "seqtree/internal/server",
			"seqtree/internal/pipeline", "seqtree/cmd/",
		},
		"seqtree/internal/cache": {
			"seqtree/internal/appcore", "seqtree/internal/app",
			"seqtree/internal/cli", "seqtree/internal/server",
			"seqtree/internal/pipeline", "seqtree/cmd/",
		},
		"seqtree/internal/server": {
			"seqtree/internal/cli", "seqtree/internal/app/", "seqtree/cmd/",
		},
	}

	var violations []string
	for {
		var p pkg
		if err := dec.Decode(&p); err == io.EOF {
			break
		} else if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if strings.HasPrefix(p.ImportPath, "seqtree-core/") {
			for _, dep := range p.Imports {
				if strings.HasPrefix(dep, "seqtree/") {
					violations = append(violations, p.ImportPath+" → "+dep)
				}
			}
			continue
		}
		if !strings.HasPrefix(p.ImportPath, "seqtree/") {
			continue
		}
		imp := p.ImportPath
		for prefix, forbidden := range bans {
			if !strings.HasPrefix(imp, prefix) {
				continue
			}
			for _, dep := range p.Imports {
				if !strings.HasPrefix(dep, "seqtree/") {
					continue
				}
				for _, ban := range forbidden {
					if strings.HasPrefix(dep, ban) {
						violations = append(violations, imp+" → "+dep)
					}
				}
			}
		}
	}

	if len(violations) > 0 {
		t.Fatalf("import boundary violations:\n  %s", strings.Join(violations, "\n  "))
	}
}
