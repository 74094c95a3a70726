package program

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"fortio.org/log"
	"fortio.org/safecast"
	"gopkg.in/yaml.v3"
	"grol.io/tinyeval/ast"
)

// Node kinds, used as the single key of each yaml mapping.
const (
	KindNum      = "num"
	KindVar      = "var"
	KindPlus     = "plus"
	KindMultiply = "multiply"
	KindAssign   = "assign"
	KindPrint    = "print"
	KindBlock    = "block"
	KindFor      = "for"
)

var ErrEmpty = errors.New("empty document")

// Decode reads one yaml document describing a statement tree, e.g.
//
//	block:
//	  - assign: {name: x, value: {num: 3}}
//	  - print: {plus: [{var: x}, {num: 1}]}
//
// A top level sequence is shorthand for a block.
func Decode(r io.Reader) (ast.Statement, error) {
	var doc yaml.Node
	err := yaml.NewDecoder(r).Decode(&doc)
	if errors.Is(err, io.EOF) {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("reading yaml: %w", err)
	}
	root := &doc
	if doc.Kind == yaml.DocumentNode {
		if len(doc.Content) == 0 {
			return nil, ErrEmpty
		}
		root = doc.Content[0]
	}
	if root.Kind == yaml.SequenceNode {
		return decodeBlock(root)
	}
	return decodeStatement(root)
}

func errorf(n *yaml.Node, format string, args ...any) error {
	return fmt.Errorf("line %d: %s", n.Line, fmt.Sprintf(format, args...))
}

// kindOf splits a {kind: value} single entry mapping.
func kindOf(n *yaml.Node) (string, *yaml.Node, error) {
	if n.Kind != yaml.MappingNode || len(n.Content) != 2 {
		return "", nil, errorf(n, "expected a mapping with exactly one node kind key")
	}
	return n.Content[0].Value, n.Content[1], nil
}

func decodeStatement(n *yaml.Node) (ast.Statement, error) {
	kind, v, err := kindOf(n)
	if err != nil {
		return nil, err
	}
	switch kind {
	case KindAssign:
		var fields struct {
			Name  string    `yaml:"name"`
			Value yaml.Node `yaml:"value"`
		}
		if err = v.Decode(&fields); err != nil {
			return nil, errorf(v, "assign: %v", err)
		}
		if fields.Name == "" {
			return nil, errorf(v, "assign: missing name")
		}
		if fields.Value.Kind == 0 {
			return nil, errorf(v, "assign: missing value")
		}
		e, err := decodeExpression(&fields.Value)
		if err != nil {
			return nil, err
		}
		return ast.Assign(fields.Name, e), nil
	case KindPrint:
		e, err := decodeExpression(v)
		if err != nil {
			return nil, err
		}
		return ast.Out(e), nil
	case KindBlock:
		return decodeBlock(v)
	case KindFor:
		return decodeFor(v)
	case KindNum, KindVar, KindPlus, KindMultiply:
		return nil, errorf(n, "%s is an expression, a statement is expected here", kind)
	default:
		return nil, errorf(n, "unknown statement kind %q", kind)
	}
}

func decodeBlock(v *yaml.Node) (*ast.Block, error) {
	if v.Kind != yaml.SequenceNode {
		return nil, errorf(v, "block: expected a sequence of statements")
	}
	statements := make([]ast.Statement, 0, len(v.Content))
	for _, c := range v.Content {
		s, err := decodeStatement(c)
		if err != nil {
			return nil, err
		}
		statements = append(statements, s)
	}
	return ast.Seq(statements...), nil
}

func decodeFor(v *yaml.Node) (*ast.For, error) {
	var fields struct {
		Iter  string    `yaml:"iter"`
		Lower yaml.Node `yaml:"lower"`
		Upper yaml.Node `yaml:"upper"`
		Body  yaml.Node `yaml:"body"`
	}
	if err := v.Decode(&fields); err != nil {
		return nil, errorf(v, "for: %v", err)
	}
	if fields.Iter == "" {
		return nil, errorf(v, "for: missing iter")
	}
	if fields.Lower.Kind == 0 || fields.Upper.Kind == 0 || fields.Body.Kind == 0 {
		return nil, errorf(v, "for: lower, upper and body are all required")
	}
	lower, err := decodeExpression(&fields.Lower)
	if err != nil {
		return nil, err
	}
	upper, err := decodeExpression(&fields.Upper)
	if err != nil {
		return nil, err
	}
	var body ast.Statement
	if fields.Body.Kind == yaml.SequenceNode {
		body, err = decodeBlock(&fields.Body)
	} else {
		body, err = decodeStatement(&fields.Body)
	}
	if err != nil {
		return nil, err
	}
	return ast.Loop(lower, upper, fields.Iter, body), nil
}

func decodeExpression(n *yaml.Node) (ast.Expression, error) {
	kind, v, err := kindOf(n)
	if err != nil {
		return nil, err
	}
	switch kind {
	case KindNum:
		i, err := decodeInt(v)
		if err != nil {
			return nil, err
		}
		return ast.Num(i), nil
	case KindVar:
		if v.Kind != yaml.ScalarNode || v.Value == "" {
			return nil, errorf(v, "var: expected a name")
		}
		return ast.Ident(v.Value), nil
	case KindPlus, KindMultiply:
		if v.Kind != yaml.SequenceNode || len(v.Content) != 2 {
			return nil, errorf(v, "%s: expected exactly 2 operands", kind)
		}
		left, err := decodeExpression(v.Content[0])
		if err != nil {
			return nil, err
		}
		right, err := decodeExpression(v.Content[1])
		if err != nil {
			return nil, err
		}
		if kind == KindPlus {
			return ast.Add(left, right), nil
		}
		return ast.Mul(left, right), nil
	case KindAssign, KindPrint, KindBlock, KindFor:
		return nil, errorf(n, "%s is a statement, an expression is expected here", kind)
	default:
		return nil, errorf(n, "unknown expression kind %q", kind)
	}
}

// decodeInt accepts integers and floats with no fractional part (e.g. 3.0 from json producers).
func decodeInt(v *yaml.Node) (int64, error) {
	if v.Kind != yaml.ScalarNode {
		return 0, errorf(v, "num: expected a number")
	}
	switch v.ShortTag() {
	case "!!int":
		var i int64
		if err := v.Decode(&i); err != nil {
			return 0, errorf(v, "num: %v", err)
		}
		return i, nil
	case "!!float":
		var f float64
		if err := v.Decode(&f); err != nil {
			return 0, errorf(v, "num: %v", err)
		}
		i, err := safecast.Convert[int64](f)
		if err != nil {
			return 0, errorf(v, "num: %s is not a whole number: %v", v.Value, err)
		}
		log.Debugf("num: float %s read as %d", v.Value, i)
		return i, nil
	default:
		return 0, errorf(v, "num: %q is not a number", v.Value)
	}
}

// Encode writes stmt in the format read by [Decode].
func Encode(w io.Writer, stmt ast.Statement) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(encodeStatement(stmt)); err != nil {
		return err
	}
	return enc.Close()
}

func scalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func str(value string) *yaml.Node {
	return scalar("!!str", value)
}

func mapping(style yaml.Style, kv ...*yaml.Node) *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Style: style, Content: kv}
}

func encodeStatement(stmt ast.Statement) *yaml.Node {
	switch node := stmt.(type) {
	case *ast.AssignVar:
		fields := mapping(yaml.FlowStyle, str("name"), str(node.Name), str("value"), encodeExpression(node.Value))
		return mapping(0, str(KindAssign), fields)
	case *ast.Print:
		return mapping(0, str(KindPrint), encodeExpression(node.Value))
	case *ast.Block:
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for _, s := range node.Statements {
			seq.Content = append(seq.Content, encodeStatement(s))
		}
		if len(seq.Content) == 0 {
			seq.Style = yaml.FlowStyle // []
		}
		return mapping(0, str(KindBlock), seq)
	case *ast.For:
		fields := mapping(0,
			str("iter"), str(node.Iter),
			str("lower"), encodeExpression(node.Lower),
			str("upper"), encodeExpression(node.Upper),
			str("body"), encodeStatement(node.Body))
		return mapping(0, str(KindFor), fields)
	}
	panic(fmt.Sprintf("unexpected statement type %T", stmt))
}

func encodeExpression(expr ast.Expression) *yaml.Node {
	switch node := expr.(type) {
	case *ast.NumberLiteral:
		return mapping(yaml.FlowStyle, str(KindNum), scalar("!!int", strconv.FormatInt(node.Value, 10)))
	case *ast.Var:
		return mapping(yaml.FlowStyle, str(KindVar), str(node.Name))
	case *ast.Plus:
		return binary(KindPlus, node.Left, node.Right)
	case *ast.Multiply:
		return binary(KindMultiply, node.Left, node.Right)
	}
	panic(fmt.Sprintf("unexpected expression type %T", expr))
}

func binary(kind string, left, right ast.Expression) *yaml.Node {
	operands := &yaml.Node{
		Kind:    yaml.SequenceNode,
		Style:   yaml.FlowStyle,
		Content: []*yaml.Node{encodeExpression(left), encodeExpression(right)},
	}
	return mapping(yaml.FlowStyle, str(kind), operands)
}
