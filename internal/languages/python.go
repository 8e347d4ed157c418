package languages

import (
	"context"
	"fmt"

	"github.com/ghostbust-dev/ghostbust/internal/parser"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// PythonParser extracts function definitions from Python source files
type PythonParser struct {
	parser *sitter.Parser
}

// NewPythonParser creates a new Python parser
func NewPythonParser() *PythonParser {
	p := sitter.NewParser()
	p.SetLanguage(python.GetLanguage())
	return &PythonParser{parser: p}
}

func (p *PythonParser) Language() string {
	return "python"
}

func (p *PythonParser) Extensions() []string {
	return []string{".py", ".pyw"}
}

// Declarations returns every function definition in the file, at any
// nesting depth: module-level defs, methods, functions nested inside
// other functions, conditionals or loops, and async defs all count
// equally. The profiler records whichever of them ran, so the static
// side must not rank some definitions below others.
func (p *PythonParser) Declarations(filename string, content []byte) ([]parser.Decl, error) {
	tree, err := p.parser.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, fmt.Errorf("%s: syntax error", filename)
	}

	decls := make([]parser.Decl, 0)
	collectFunctionDefs(root, content, &decls)
	return decls, nil
}

func collectFunctionDefs(node *sitter.Node, content []byte, decls *[]parser.Decl) {
	if node.Type() == "function_definition" {
		if nameNode := node.ChildByFieldName("name"); nameNode != nil {
			*decls = append(*decls, parser.Decl{
				Name: nameNode.Content(content),
				Line: int(node.StartPoint().Row) + 1,
			})
		}
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		collectFunctionDefs(node.Child(i), content, decls)
	}
}
