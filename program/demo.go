// Package program builds and (de)serializes tinyeval trees.
package program

import "grol.io/tinyeval/ast"

// Demo is the reference program:
//
//	x = 5 + 2*10
//	for i = 1..10 {
//	  x = x + 2
//	  print(x)
//	}
//
// It prints 27, 29, ... 45.
func Demo() ast.Statement {
	return ast.Seq(
		ast.Assign("x", ast.Add(ast.Num(5), ast.Mul(ast.Num(2), ast.Num(10)))),
		ast.Loop(ast.Num(1), ast.Num(10), "i", ast.Seq(
			ast.Assign("x", ast.Add(ast.Ident("x"), ast.Num(2))),
			ast.Out(ast.Ident("x")),
		)),
	)
}
