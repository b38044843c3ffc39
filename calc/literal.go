package calc

import (
	"math"

	"github.com/expr-lang/expr/ast"
)

// floatArith rewrites an expression tree so all arithmetic is float64:
// integer literals become floats and a % b becomes mod(a, b). Positions
// that need an int (list indexes, slice bounds and ranges) keep integral
// literals as integers.
type floatArith struct{}

func (floatArith) Visit(node *ast.Node) {
	switch n := (*node).(type) {
	case *ast.IntegerNode:
		ast.Patch(node, &ast.FloatNode{Value: float64(n.Value)})
	case *ast.BinaryNode:
		switch n.Operator {
		case "%":
			ast.Patch(node, &ast.CallNode{
				Callee:    &ast.IdentifierNode{Value: "mod"},
				Arguments: []ast.Node{n.Left, n.Right},
			})
		case "..":
			asInteger(&n.Left)
			asInteger(&n.Right)
		}
	case *ast.MemberNode:
		asInteger(&n.Property)
	case *ast.SliceNode:
		if n.From != nil {
			asInteger(&n.From)
		}
		if n.To != nil {
			asInteger(&n.To)
		}
	}
}

// asInteger turns an integral float literal back into an integer literal.
func asInteger(node *ast.Node) {
	switch n := (*node).(type) {
	case *ast.FloatNode:
		if n.Value == math.Trunc(n.Value) && math.Abs(n.Value) < 1<<53 {
			ast.Patch(node, &ast.IntegerNode{Value: int(n.Value)})
		}
	case *ast.UnaryNode:
		if n.Operator == "-" {
			asInteger(&n.Node)
		}
	}
}
