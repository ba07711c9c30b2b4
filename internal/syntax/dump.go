package syntax

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"
)

// FprintJSON writes a JSON representation of the AST to w.
func FprintJSON(w io.Writer, node Node) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(toTree(node))
}

// FprintYAML writes a YAML representation of the AST to w.
func FprintYAML(w io.Writer, node Node) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(toTree(node)); err != nil {
		return err
	}
	return enc.Close()
}

// toTree converts a node into maps and slices that both encoders accept.
func toTree(node Node) interface{} {
	if node == nil {
		return nil
	}

	switch n := node.(type) {
	case *File:
		return map[string]interface{}{
			"type":   "File",
			"pos":    n.pos.String(),
			"import": n.Import,
			"funcs":  mapSlice(n.Funcs, func(f *Function) interface{} { return toTree(f) }),
		}

	case *Function:
		return map[string]interface{}{
			"type":      "Function",
			"pos":       n.pos.String(),
			"name":      n.Name,
			"signature": n.Def.Signature(),
			"body":      toTree(n.Body),
		}

	case *Block:
		return map[string]interface{}{
			"type":  "Block",
			"pos":   n.pos.String(),
			"stmts": mapSlice(n.Stmts, func(s Stmt) interface{} { return toTree(s) }),
			"scope": n.End.Scope.Kind().String(),
		}

	case *Declare:
		return map[string]interface{}{
			"type":    "Declare",
			"pos":     n.pos.String(),
			"var":     varString(n.Var),
			"mutable": n.Var.Mutable,
			"value":   toTree(n.Value),
		}

	case *Assign:
		return map[string]interface{}{
			"type":  "Assign",
			"pos":   n.pos.String(),
			"var":   varString(n.Var),
			"value": toTree(n.Value),
		}

	case *Return:
		m := map[string]interface{}{
			"type": "Return",
			"pos":  n.pos.String(),
		}
		if n.Value != nil {
			m["value"] = toTree(n.Value)
		}
		return m

	case *IfElse:
		m := condTree("IfElse", n.pos.String(), n.Cond, n.Subject, n.Binding != nil)
		if n.Binding != nil {
			m["binding"] = varString(n.Binding)
		}
		m["then"] = toTree(n.Then)
		if n.Else != nil {
			m["else"] = toTree(n.Else)
		}
		return m

	case *ElseStart:
		return map[string]interface{}{
			"type": "ElseStart",
			"pos":  n.pos.String(),
			"body": toTree(n.Body),
		}

	case *While:
		m := condTree("While", n.pos.String(), n.Cond, n.Subject, n.Binding != nil)
		if n.Binding != nil {
			m["binding"] = varString(n.Binding)
		}
		m["body"] = toTree(n.Body)
		return m

	case *TruthExpression:
		return map[string]interface{}{
			"type":  "TruthExpression",
			"pos":   n.pos.String(),
			"op":    n.Op.String(),
			"left":  toTree(n.Left),
			"right": toTree(n.Right),
		}

	case *Expression:
		return map[string]interface{}{
			"type":    "Expression",
			"pos":     n.pos.String(),
			"postfix": n.String(),
		}

	case *FunctionCall:
		return map[string]interface{}{
			"type": "FunctionCall",
			"pos":  n.pos.String(),
			"name": n.Name,
			"args": mapSlice(n.Args, func(a Expr) interface{} { return toTree(a) }),
		}

	case *Value:
		return map[string]interface{}{
			"type":     "Value",
			"pos":      n.pos.String(),
			"datatype": n.Type.String(),
			"value":    n.Lit,
		}

	case *Variable:
		return map[string]interface{}{
			"type": "Variable",
			"pos":  n.pos.String(),
			"var":  varString(n.Var),
		}

	default:
		return map[string]interface{}{
			"type": "Unknown",
		}
	}
}

func condTree(kind, pos string, cond *TruthExpression, subject *Variable, unwrap bool) map[string]interface{} {
	m := map[string]interface{}{
		"type": kind,
		"pos":  pos,
	}
	if unwrap {
		m["subject"] = toTree(subject)
	} else {
		m["cond"] = toTree(cond)
	}
	return m
}

func mapSlice[T any](s []T, f func(T) interface{}) []interface{} {
	result := make([]interface{}, len(s))
	for i, v := range s {
		result[i] = f(v)
	}
	return result
}
