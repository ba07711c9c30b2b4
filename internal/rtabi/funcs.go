package rtabi

import "strings"

// HelperPrefix starts the label of every runtime helper. A built-in
// function ifj.name is implemented by the helper labelled $ifj$name.
const HelperPrefix = "$ifj$"

// Helper is the IFJcode24 implementation of a built-in function.
//
// Helpers follow the calling convention of user functions: arguments are
// pushed on the data stack left to right, and a result, if any, is left
// on the data stack when the helper returns.
type Helper struct {
	Name   string   // built-in name without the ifj. qualifier
	Params int      // number of stack arguments
	Result bool     // whether a result is pushed
	Body   []string // instructions after the label
}

// Label returns the helper's entry label.
func (h *Helper) Label() string {
	return HelperLabel(h.Name)
}

// HelperLabel returns the label of the helper for the built-in name, which
// may carry the ifj. qualifier.
func HelperLabel(name string) string {
	return HelperPrefix + strings.TrimPrefix(name, "ifj.")
}

// frame opens a local frame for a helper that needs named temporaries.
var frame = []string{"CREATEFRAME", "PUSHFRAME"}

func body(parts ...[]string) []string {
	var out []string
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func lines(s ...string) []string { return s }

func ret() []string { return lines("POPFRAME", "RETURN") }

func read(kind string) []string {
	return body(frame, lines(
		"DEFVAR LF@r",
		"READ LF@r "+kind,
		"PUSHS LF@r",
	), ret())
}

var helpers = []*Helper{
	{Name: "readstr", Result: true, Body: read("string")},
	{Name: "readi32", Result: true, Body: read("int")},
	{Name: "readf64", Result: true, Body: read("float")},

	// null prints as "null"; everything else as WRITE formats it.
	{Name: "write", Params: 1, Body: body(frame, lines(
		"DEFVAR LF@t",
		"DEFVAR LF@ty",
		"POPS LF@t",
		"TYPE LF@ty LF@t",
		"JUMPIFNEQ $ifj$write$value LF@ty string@nil",
		"WRITE string@null",
		"JUMP $ifj$write$end",
		"LABEL $ifj$write$value",
		"WRITE LF@t",
		"LABEL $ifj$write$end",
	), ret())},

	{Name: "i2f", Params: 1, Result: true, Body: lines("INT2FLOATS", "RETURN")},
	{Name: "f2i", Params: 1, Result: true, Body: lines("FLOAT2INTS", "RETURN")},

	// The argument is already a byte string at run time.
	{Name: "string", Params: 1, Result: true, Body: lines("RETURN")},

	{Name: "length", Params: 1, Result: true, Body: body(frame, lines(
		"DEFVAR LF@s",
		"DEFVAR LF@n",
		"POPS LF@s",
		"STRLEN LF@n LF@s",
		"PUSHS LF@n",
	), ret())},

	{Name: "concat", Params: 2, Result: true, Body: body(frame, lines(
		"DEFVAR LF@s1",
		"DEFVAR LF@s2",
		"DEFVAR LF@r",
		"POPS LF@s2",
		"POPS LF@s1",
		"CONCAT LF@r LF@s1 LF@s2",
		"PUSHS LF@r",
	), ret())},

	// null unless 0 <= i <= j <= len(s) and i < len(s).
	{Name: "substring", Params: 3, Result: true, Body: body(frame, lines(
		"DEFVAR LF@s",
		"DEFVAR LF@i",
		"DEFVAR LF@j",
		"DEFVAR LF@len",
		"DEFVAR LF@c",
		"DEFVAR LF@r",
		"DEFVAR LF@b",
		"POPS LF@j",
		"POPS LF@i",
		"POPS LF@s",
		"STRLEN LF@len LF@s",
		"LT LF@b LF@i int@0",
		"JUMPIFEQ $ifj$substring$null LF@b bool@true",
		"LT LF@b LF@j int@0",
		"JUMPIFEQ $ifj$substring$null LF@b bool@true",
		"GT LF@b LF@i LF@j",
		"JUMPIFEQ $ifj$substring$null LF@b bool@true",
		"LT LF@b LF@i LF@len",
		"JUMPIFEQ $ifj$substring$null LF@b bool@false",
		"GT LF@b LF@j LF@len",
		"JUMPIFEQ $ifj$substring$null LF@b bool@true",
		"MOVE LF@r string@",
		"LABEL $ifj$substring$loop",
		"JUMPIFEQ $ifj$substring$done LF@i LF@j",
		"GETCHAR LF@c LF@s LF@i",
		"CONCAT LF@r LF@r LF@c",
		"ADD LF@i LF@i int@1",
		"JUMP $ifj$substring$loop",
		"LABEL $ifj$substring$done",
		"PUSHS LF@r",
	), ret(), lines(
		"LABEL $ifj$substring$null",
		"PUSHS nil@nil",
	), ret())},

	{Name: "strcmp", Params: 2, Result: true, Body: body(frame, lines(
		"DEFVAR LF@s1",
		"DEFVAR LF@s2",
		"DEFVAR LF@b",
		"POPS LF@s2",
		"POPS LF@s1",
		"LT LF@b LF@s1 LF@s2",
		"JUMPIFEQ $ifj$strcmp$lt LF@b bool@true",
		"GT LF@b LF@s1 LF@s2",
		"JUMPIFEQ $ifj$strcmp$gt LF@b bool@true",
		"PUSHS int@0",
	), ret(), lines(
		"LABEL $ifj$strcmp$lt",
		"PUSHS int@-1",
	), ret(), lines(
		"LABEL $ifj$strcmp$gt",
		"PUSHS int@1",
	), ret())},

	// 0 when i is out of range.
	{Name: "ord", Params: 2, Result: true, Body: body(frame, lines(
		"DEFVAR LF@s",
		"DEFVAR LF@i",
		"DEFVAR LF@len",
		"DEFVAR LF@b",
		"DEFVAR LF@r",
		"POPS LF@i",
		"POPS LF@s",
		"STRLEN LF@len LF@s",
		"LT LF@b LF@i int@0",
		"JUMPIFEQ $ifj$ord$zero LF@b bool@true",
		"LT LF@b LF@i LF@len",
		"JUMPIFEQ $ifj$ord$zero LF@b bool@false",
		"STRI2INT LF@r LF@s LF@i",
		"PUSHS LF@r",
	), ret(), lines(
		"LABEL $ifj$ord$zero",
		"PUSHS int@0",
	), ret())},

	{Name: "chr", Params: 1, Result: true, Body: lines("INT2CHARS", "RETURN")},
}

var helperIndex = func() map[string]*Helper {
	m := make(map[string]*Helper, len(helpers))
	for _, h := range helpers {
		m[h.Name] = h
	}
	return m
}()

// Helpers returns every runtime helper in catalog order.
func Helpers() []*Helper {
	return helpers
}

// LookupHelper returns the helper for the built-in name, which may carry
// the ifj. qualifier, or nil.
func LookupHelper(name string) *Helper {
	return helperIndex[strings.TrimPrefix(name, "ifj.")]
}
