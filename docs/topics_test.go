package docs

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Fenced blocks run by TestCodeBlocks. A setup block starts a scenario in a
// fresh directory, the check blocks that follow run in it and must succeed.
const (
	setupBlock = "bash setup"
	checkBlock = "bash check"
)

// TestReadme checks the index lists every topic, and only existing ones.
func TestReadme(t *testing.T) {
	content, err := os.ReadFile(Index + ".md")
	if err != nil {
		t.Fatal(err)
	}
	var listed []string
	for _, m := range regexp.MustCompile(`(?m)^\*\s+([^:]+):`).FindAllSubmatch(content, -1) {
		listed = append(listed, strings.TrimSpace(string(m[1])))
	}
	slices.Sort(listed)

	topics, err := GetAllTopics()
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(listed, topics) {
		t.Errorf("%s.md lists %v, want %v", Index, listed, topics)
	}
}

func TestGetTopics(t *testing.T) {
	topics, err := GetAllTopics()
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"categories", "config", "fields", "ingest", "portfolio", "providers", "tutorial"}
	if !slices.Equal(topics, want) {
		t.Errorf("GetAllTopics() = %v, want %v", topics, want)
	}

	all, err := GetTopics("*")
	if err != nil {
		t.Fatalf("GetTopics(*) error = %v", err)
	}
	for _, title := range []string{"# Categories", "# Configuration", "# Tutorial"} {
		if !strings.Contains(all, title) {
			t.Errorf("GetTopics(*) does not contain %q", title)
		}
	}
	if strings.Contains(all, "## Topics") {
		t.Error("GetTopics(*) contains the index")
	}

	if _, err := GetTopic("nope"); err == nil {
		t.Error("GetTopic(nope) succeeded, want an error")
	}
}

// TestHeadings checks every topic starts with a single level one heading.
func TestHeadings(t *testing.T) {
	files, err := filepath.Glob("*.md")
	if err != nil {
		t.Fatal(err)
	}
	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			t.Fatal(err)
		}
		root := goldmark.DefaultParser().Parse(text.NewReader(content))
		h1 := 0
		ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
			if h, ok := n.(*ast.Heading); ok && entering && h.Level == 1 {
				h1++
			}
			return ast.WalkContinue, nil
		})
		first, ok := root.FirstChild().(*ast.Heading)
		if !ok || first.Level != 1 || h1 != 1 {
			t.Errorf("%s: want a single level one heading first, got %d", file, h1)
		}
	}
}

// TestCodeBlocks runs the shell blocks of the documentation against a freshly
// built lynch.
func TestCodeBlocks(t *testing.T) {
	files, err := filepath.Glob("*.md")
	if err != nil {
		t.Fatal(err)
	}
	files = append(files, "../README.md")

	for _, file := range files {
		t.Run(file, func(t *testing.T) {
			blocks := codeBlocks(t, file)
			if len(blocks) == 0 {
				return
			}
			env := shellEnv(t)
			dir := t.TempDir()
			for _, b := range blocks {
				if b.kind == setupBlock {
					dir = t.TempDir()
				}
				out, err := b.run(dir, env)
				if err == nil {
					continue
				}
				if b.kind == setupBlock {
					t.Fatalf("%s:%d: setup failed: %v\n%s", file, b.line, err, out)
				}
				t.Errorf("%s:%d: check failed: %v\n%s", file, b.line, err, out)
			}
		})
	}
}

// codeBlock is a runnable fenced block.
type codeBlock struct {
	kind   string
	line   int
	script string
}

func (b codeBlock) run(dir string, env []string) ([]byte, error) {
	cmd := exec.Command("bash", "-c", "set -e; "+b.script)
	cmd.Dir = dir
	cmd.Env = env
	return cmd.CombinedOutput()
}

// codeBlocks returns the runnable blocks of a markdown file, in order.
func codeBlocks(t *testing.T, file string) []codeBlock {
	t.Helper()
	content, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}
	var blocks []codeBlock
	root := goldmark.DefaultParser().Parse(text.NewReader(content))
	ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		fcb, ok := n.(*ast.FencedCodeBlock)
		if !entering || !ok || fcb.Info == nil {
			return ast.WalkContinue, nil
		}
		info := fcb.Info.Segment
		kind := string(info.Value(content))
		if kind != setupBlock && kind != checkBlock {
			return ast.WalkContinue, nil
		}
		var script strings.Builder
		for i := 0; i < fcb.Lines().Len(); i++ {
			line := fcb.Lines().At(i)
			script.Write(line.Value(content))
		}
		blocks = append(blocks, codeBlock{
			kind:   kind,
			line:   bytes.Count(content[:info.Start], []byte{'\n'}) + 1,
			script: script.String(),
		})
		return ast.WalkContinue, nil
	})
	return blocks
}

var (
	buildOnce sync.Once
	binDir    string
	buildErr  error
)

// shellEnv returns the environment of the blocks: lynch first in the PATH and
// LYNCH_TESTDATA pointing to the tutorial files.
func shellEnv(t *testing.T) []string {
	t.Helper()
	buildOnce.Do(func() {
		if binDir, buildErr = os.MkdirTemp("", "lynch-docs"); buildErr != nil {
			return
		}
		out, err := exec.Command("go", "build", "-o", filepath.Join(binDir, "lynch"), "../lynch/").CombinedOutput()
		if err != nil {
			buildErr = fmt.Errorf("cannot build lynch: %v\n%s", err, out)
		}
	})
	if buildErr != nil {
		t.Fatal(buildErr)
	}
	testdata, err := filepath.Abs("testdata")
	if err != nil {
		t.Fatal(err)
	}
	return append(os.Environ(),
		fmt.Sprintf("PATH=%s%c%s", binDir, os.PathListSeparator, os.Getenv("PATH")),
		"LYNCH_TESTDATA="+testdata,
	)
}

func TestMain(m *testing.M) {
	code := m.Run()
	if binDir != "" {
		os.RemoveAll(binDir)
	}
	os.Exit(code)
}
