package javascript

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/broady/nominal"
	"github.com/broady/nominal/nominalgen/ir"
	"github.com/broady/nominal/nominalgen/sink"
)

func TestJavaScriptGenerator_Generate(t *testing.T) {
	mem := sink.NewMemorySink()
	cfg := DefaultConfig()
	cfg.EmitPlan = true

	g := &JavaScriptGenerator{}
	result, err := g.Generate(context.Background(), zooProgram(), GenerateOptions{Sink: mem, Config: cfg})
	if err != nil {
		t.Fatal(err)
	}

	if g.Name() != "javascript" {
		t.Errorf("Name() = %q", g.Name())
	}
	if len(result.Files) != 2 || result.Files[0].Path != "zoo.js" || result.Files[1].Path != "zoo.plan.json" {
		t.Fatalf("Files = %+v", result.Files)
	}
	if result.TypesGenerated != 6 || !result.EntryPoint {
		t.Errorf("result = %+v", result)
	}
	if string(mem.Get("zoo.js")) != zooGolden {
		t.Errorf("zoo.js content mismatch:\n%s", mem.Get("zoo.js"))
	}

	var plan Plan
	if err := json.Unmarshal(mem.Get("zoo.plan.json"), &plan); err != nil {
		t.Fatal(err)
	}
	if len(plan.Registrations) != 6 || plan.Registrations[3].Op != nominal.OpRegisterGenericClass {
		t.Errorf("decoded plan = %+v", plan)
	}
	if err := nominal.NewRegistry().Apply(plan.Registrations); err != nil {
		t.Errorf("decoded plan should apply: %v", err)
	}
}

func TestJavaScriptGenerator_FileName(t *testing.T) {
	mem := sink.NewMemorySink()
	cfg := DefaultConfig()
	cfg.FileName = "out/types.js"
	p := zooProgram()
	p.Module = ""
	if _, err := (&JavaScriptGenerator{}).Generate(context.Background(), p, GenerateOptions{Sink: mem, Config: cfg}); err != nil {
		t.Fatal(err)
	}
	if mem.Get("out/types.js") == nil {
		t.Errorf("Paths() = %v, want out/types.js", mem.Paths())
	}
}

func TestJavaScriptGenerator_Diagnostics(t *testing.T) {
	p := zooProgram()
	p.Types[0].(*ir.ClassDescriptor).Methods[0].Parameters = []ir.ParameterDescriptor{{Name: "args"}}
	mem := sink.NewMemorySink()

	result, err := (&JavaScriptGenerator{}).Generate(context.Background(), p, GenerateOptions{Sink: mem, Config: DefaultConfig()})
	if err != nil {
		t.Fatal(err)
	}
	if result.EntryPoint || len(result.Diagnostics) != 1 {
		t.Errorf("result = %+v, want one diagnostic and no entry point", result)
	}
	if strings.Contains(string(mem.Get("zoo.js")), "main();") {
		t.Error("module should not invoke a rejected entry point")
	}
}

func TestJavaScriptGenerator_Errors(t *testing.T) {
	g := &JavaScriptGenerator{}
	if _, err := g.Generate(context.Background(), nil, GenerateOptions{Sink: sink.NewMemorySink()}); err == nil {
		t.Error("nil program should fail")
	}
	if _, err := g.Generate(context.Background(), zooProgram(), GenerateOptions{}); err == nil {
		t.Error("missing sink should fail")
	}
}

func TestParseOptions(t *testing.T) {
	cfg, err := ParseOptions(DefaultConfig(), []string{"registry=$rt", "indent_style=tab", "strict=false", "indent_size = 4"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.RegistryVar != "$rt" || cfg.IndentStyle != "tab" || cfg.StrictMode || cfg.IndentSize != 4 {
		t.Errorf("ParseOptions = %+v", cfg)
	}
	if !cfg.TrailingNewline {
		t.Error("options not given should keep their base value")
	}

	for _, bad := range [][]string{{"registry"}, {"=x"}, {"colour=red"}, {"indent_size=wide"}} {
		if _, err := ParseOptions(DefaultConfig(), bad); err == nil {
			t.Errorf("ParseOptions(%v) should fail", bad)
		}
	}
}
