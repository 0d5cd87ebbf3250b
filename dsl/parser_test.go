package dsl_test

import (
	"strings"
	"testing"

	"github.com/ByLCY/letterdrift/dsl"
)

const sampleScene = `
// 演示场景
scene "Korova" {
  viewport 800 600
  margin top 50px; margin left 50
  margin right 100px
  line-height 1.5x
  font "builtin:go-regular" 14pt
  substeps 5
  seed 42
  text "Hello, ${user.name}!"

  timeline {
    settle 400
    down 120 80   # 选中一个字符
    move 200 -90.5
    up
    type "xyz"
    key Backspace
    capture
  }
}
`

func find(scene *dsl.Scene, name string) *dsl.Statement {
	for _, st := range scene.Body.Statements {
		if st.Name == name {
			return st
		}
	}
	return nil
}

func TestParseScene(t *testing.T) {
	scene, err := dsl.ParseString(sampleScene)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if scene.Name != "Korova" {
		t.Fatalf("expected scene name Korova, got %s", scene.Name)
	}
	if len(scene.Body.Statements) != 10 {
		t.Fatalf("expected 10 statements, got %d", len(scene.Body.Statements))
	}

	viewport := find(scene, "viewport")
	if viewport == nil || len(viewport.Args) != 2 || viewport.Args[0].Raw() != "800" || viewport.Args[1].Kind() != "number" {
		t.Fatalf("unexpected viewport %+v", viewport)
	}

	margin := scene.Body.Statements[1]
	if margin.Name != "margin" || margin.Args[0].Raw() != "top" || margin.Args[0].Kind() != "ident" || margin.Args[1].Raw() != "50px" {
		t.Fatalf("unexpected margin statement %+v", margin)
	}
	if got := scene.Body.Statements[2].Args[1].Raw(); got != "50" {
		t.Fatalf("semicolon-separated statement parsed wrong: %q", got)
	}

	font := find(scene, "font")
	if font.Args[0].Kind() != "string" || font.Args[0].Raw() != "builtin:go-regular" || font.Args[1].Raw() != "14pt" {
		t.Fatalf("unexpected font %+v", font.Args)
	}

	text := find(scene, "text")
	if got := text.Args[0].Raw(); !strings.Contains(got, "${user.name}") {
		t.Fatalf("expected interpolation placeholder in text, got %q", got)
	}

	timeline := find(scene, "timeline")
	if timeline == nil || timeline.Block == nil {
		t.Fatalf("timeline block missing")
	}
	var names []string
	for _, st := range timeline.Block.Statements {
		names = append(names, st.Name)
	}
	if got := strings.Join(names, ","); got != "settle,down,move,up,type,key,capture" {
		t.Fatalf("unexpected timeline %s", got)
	}
	move := timeline.Block.Statements[2]
	if move.Args[1].Raw() != "-90.5" {
		t.Fatalf("negative number not parsed: %+v", move.Args[1])
	}
	if move.Pos.Line != 16 {
		t.Fatalf("expected move on line 16, got %d", move.Pos.Line)
	}
}

func TestParseErrors(t *testing.T) {
	for _, src := range []string{
		`scene { }`,
		`scene "x" { viewport 1 2`,
		`scene "x" { "orphan" }`,
	} {
		if _, err := dsl.ParseString(src); err == nil {
			t.Fatalf("expected error for %q", src)
		}
	}
}

func TestParseEmptyScene(t *testing.T) {
	scene, err := dsl.Parse(strings.NewReader(`scene "empty" {}`))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if scene.Name != "empty" || len(scene.Body.Statements) != 0 {
		t.Fatalf("expected an empty body, got %+v", scene.Body.Statements)
	}
}
