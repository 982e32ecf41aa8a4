//go:build cgo

package analyzers

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"vibescan/internal/language"
	"vibescan/internal/report"
)

// CSTAvailable reports whether tree-sitter backed analysis is compiled in.
func CSTAvailable() bool { return true }

func cstAnalyzers() []Analyzer {
	return []Analyzer{cstAnalyzer{}}
}

func getLanguage(lang language.Language) (*sitter.Language, error) {
	switch lang {
	case language.Go:
		return golang.GetLanguage(), nil
	case language.Python:
		return python.GetLanguage(), nil
	case language.JavaScript:
		return javascript.GetLanguage(), nil
	case language.TypeScript:
		return typescript.GetLanguage(), nil
	case language.Rust:
		return rust.GetLanguage(), nil
	default:
		return nil, fmt.Errorf("unsupported language: %s", lang)
	}
}

// parse builds a fresh parser per call; sitter.Parser is not safe for
// concurrent use and the walker analyzes files in parallel.
func parse(src string, lang language.Language) (*sitter.Node, error) {
	tsLang, err := getLanguage(lang)
	if err != nil {
		return nil, err
	}

	parser := sitter.NewParser()
	parser.SetLanguage(tsLang)
	tree, err := parser.ParseCtx(context.Background(), nil, []byte(src))
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return tree.RootNode(), nil
}

// cstAnalyzer scores what only a parse can see: doc coverage on
// exported functions and signature uniformity.
type cstAnalyzer struct{}

func (cstAnalyzer) Name() string { return "cst" }

func (cstAnalyzer) Analyze(src string, lang language.Language) []report.Signal {
	root, err := parse(src, lang)
	if err != nil {
		return nil
	}

	fns := findNodes(root, functionNodeTypes(lang))
	var out []report.Signal
	prefix := lang.Code()

	exported := 0
	documented := 0
	for _, fn := range fns {
		name := nodeName(fn, src)
		if !isExportedName(name, lang) {
			continue
		}
		exported++
		if hasDocComment(fn) {
			documented++
		}
	}

	if exported >= 2 && documented == exported {
		out = appendSignal(out, prefix+".cst.doc_coverage_full")
	} else if exported >= 3 && documented == 0 {
		out = appendSignal(out, prefix+".cst.doc_coverage_none")
	}

	if len(fns) >= 4 && uniformArity(fns, lang) {
		out = appendSignal(out, prefix+".cst.uniform_signatures")
	}

	return out
}

// ExtractSymbols returns named functions and type declarations with
// their line ranges, for per-symbol attribution.
func ExtractSymbols(src string, lang language.Language) []report.SymbolMetadata {
	root, err := parse(src, lang)
	if err != nil {
		return nil
	}

	var syms []report.SymbolMetadata
	for _, fn := range findNodes(root, functionNodeTypes(lang)) {
		name := nodeName(fn, src)
		if name == "" {
			continue
		}
		kind := "function"
		if fn.Type() == "method_declaration" || fn.Type() == "method_definition" {
			kind = "method"
		}
		syms = append(syms, report.SymbolMetadata{
			Name:      name,
			Kind:      kind,
			StartLine: int(fn.StartPoint().Row) + 1,
			EndLine:   int(fn.EndPoint().Row) + 1,
		})
	}
	for _, cls := range findNodes(root, typeNodeTypes(lang)) {
		name := typeName(cls, src)
		if name == "" {
			continue
		}
		syms = append(syms, report.SymbolMetadata{
			Name:      name,
			Kind:      typeKind(cls, lang),
			StartLine: int(cls.StartPoint().Row) + 1,
			EndLine:   int(cls.EndPoint().Row) + 1,
		})
	}
	return syms
}

func functionNodeTypes(lang language.Language) []string {
	switch lang {
	case language.Go:
		return []string{"function_declaration", "method_declaration"}
	case language.JavaScript, language.TypeScript:
		return []string{"function_declaration", "method_definition", "generator_function_declaration"}
	case language.Python:
		return []string{"function_definition"}
	case language.Rust:
		return []string{"function_item"}
	default:
		return nil
	}
}

func typeNodeTypes(lang language.Language) []string {
	switch lang {
	case language.Go:
		return []string{"type_declaration"}
	case language.JavaScript, language.TypeScript:
		return []string{"class_declaration", "interface_declaration"}
	case language.Python:
		return []string{"class_definition"}
	case language.Rust:
		return []string{"struct_item", "enum_item", "trait_item"}
	default:
		return nil
	}
}

func nodeName(node *sitter.Node, src string) string {
	if n := node.ChildByFieldName("name"); n != nil {
		return src[n.StartByte():n.EndByte()]
	}
	for i := uint32(0); i < node.ChildCount(); i++ {
		child := node.Child(int(i))
		if child != nil && child.Type() == "identifier" {
			return src[child.StartByte():child.EndByte()]
		}
	}
	return ""
}

func typeName(node *sitter.Node, src string) string {
	if node.Type() == "type_declaration" {
		for i := uint32(0); i < node.ChildCount(); i++ {
			child := node.Child(int(i))
			if child != nil && child.Type() == "type_spec" {
				if n := child.ChildByFieldName("name"); n != nil {
					return src[n.StartByte():n.EndByte()]
				}
			}
		}
		return ""
	}
	return nodeName(node, src)
}

func typeKind(node *sitter.Node, lang language.Language) string {
	switch node.Type() {
	case "interface_declaration", "trait_item":
		return "interface"
	case "class_declaration", "class_definition":
		return "class"
	default:
		return "type"
	}
}

func isExportedName(name string, lang language.Language) bool {
	if name == "" {
		return false
	}
	switch lang {
	case language.Go:
		return name[0] >= 'A' && name[0] <= 'Z'
	case language.Python, language.Rust:
		return !strings.HasPrefix(name, "_")
	default:
		return true
	}
}

// hasDocComment reports whether the node's previous sibling is a comment
// ending on the line right above it.
func hasDocComment(node *sitter.Node) bool {
	prev := node.PrevSibling()
	if prev == nil {
		return false
	}
	t := prev.Type()
	if t != "comment" && t != "line_comment" && t != "block_comment" {
		return false
	}
	return prev.EndPoint().Row+1 >= node.StartPoint().Row
}

func uniformArity(fns []*sitter.Node, lang language.Language) bool {
	arity := -1
	for _, fn := range fns {
		params := fn.ChildByFieldName("parameters")
		if params == nil {
			return false
		}
		n := int(params.NamedChildCount())
		if arity == -1 {
			arity = n
		} else if n != arity {
			return false
		}
	}
	return arity >= 0
}

func findNodes(root *sitter.Node, types []string) []*sitter.Node {
	if len(types) == 0 {
		return nil
	}

	var result []*sitter.Node
	var walk func(*sitter.Node)
	walk = func(node *sitter.Node) {
		if node == nil {
			return
		}
		for _, t := range types {
			if node.Type() == t {
				result = append(result, node)
				break
			}
		}
		for i := uint32(0); i < node.ChildCount(); i++ {
			walk(node.Child(int(i)))
		}
	}
	walk(root)
	return result
}
